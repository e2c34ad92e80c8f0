package websocket

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/krizelrika/tictactoe/internal/apperror"
	"github.com/krizelrika/tictactoe/internal/tictactoe"
)

const (
	defaultNameOne = "Player 1"
	defaultNameTwo = "Player 2"
)

func (that *Server) handleConnect(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleConnect")

	var payloadReq sessionPayload

	// A first connect carries no payload at all.
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
			return fmt.Errorf("failed to unmarshal payload: %w", err)
		}
	}

	session, err := that.manager.ConnectSession(ctx, payloadReq.Session.ID)
	if err != nil {
		log.Error("failed to connect session", "error", err)
		return that.sendError(bufrw, msg.Action, "failed to connect session")
	}

	log.Info("session connected", "id", session.ID)

	return that.sendMessage(bufrw, msg.Action, Payload{Session: session})
}

func (that *Server) handleMatchStart(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleMatchStart")

	var payloadReq startPayload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	nameOne := displayName(payloadReq.Players[0].Name, defaultNameOne)
	nameTwo := displayName(payloadReq.Players[1].Name, defaultNameTwo)

	session, err := that.manager.StartMatch(ctx, payloadReq.Session.ID, nameOne, nameTwo)
	if err != nil {
		log.Error("failed to start match", "error", err)
		return that.sendError(bufrw, msg.Action, "failed to start match")
	}

	log.Info("match started", "id", session.ID)

	return that.sendMessage(bufrw, msg.Action, Payload{Session: session})
}

func (that *Server) handleMatchMove(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleMatchMove")

	var payloadReq movePayload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.Cell == nil {
		log.Error("cell is missing in payload")
		return that.sendError(bufrw, msg.Action, "cell is required")
	}

	session, outcome, err := that.manager.MakeMove(ctx, payloadReq.Session.ID, *payloadReq.Cell)
	if errors.Is(err, apperror.ErrSessionNotFound) {
		return that.sendError(bufrw, msg.Action, "session not found")
	}

	if err != nil {
		log.Error("failed to make move", "error", err)
		return that.sendError(bufrw, msg.Action, "failed to make move")
	}

	log.Info("move made", "id", session.ID, "cell", *payloadReq.Cell, "outcome", outcome.Kind)

	return that.sendMessage(bufrw, msg.Action, Payload{Session: session, Outcome: &outcome})
}

func (that *Server) handleMatchRestart(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleMatchRestart")

	var payloadReq sessionPayload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	session, err := that.manager.RestartMatch(ctx, payloadReq.Session.ID)
	if errors.Is(err, apperror.ErrSessionNotFound) {
		return that.sendError(bufrw, msg.Action, "session not found")
	}

	if errors.Is(err, tictactoe.ErrMatchNotStarted) {
		return that.sendError(bufrw, msg.Action, "match not started")
	}

	if err != nil {
		log.Error("failed to restart match", "error", err)
		return that.sendError(bufrw, msg.Action, "failed to restart match")
	}

	log.Info("match restarted", "id", session.ID)

	return that.sendMessage(bufrw, msg.Action, Payload{Session: session})
}

func (that *Server) handleMatchState(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleMatchState")

	var payloadReq sessionPayload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	session, err := that.manager.GetSession(ctx, payloadReq.Session.ID)
	if errors.Is(err, apperror.ErrSessionNotFound) {
		return that.sendError(bufrw, msg.Action, "session not found")
	}

	if err != nil {
		log.Error("failed to get session", "error", err)
		return that.sendError(bufrw, msg.Action, "failed to get session")
	}

	return that.sendMessage(bufrw, msg.Action, Payload{Session: session})
}

func (that *Server) handleMatchLeave(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleMatchLeave")

	var payloadReq sessionPayload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	err := that.manager.EndSession(ctx, payloadReq.Session.ID)
	if errors.Is(err, apperror.ErrSessionNotFound) {
		return that.sendError(bufrw, msg.Action, "session not found")
	}

	if err != nil {
		log.Error("failed to end session", "error", err)
		return that.sendError(bufrw, msg.Action, "failed to end session")
	}

	log.Info("session left", "id", payloadReq.Session.ID)

	return that.sendMessage(bufrw, msg.Action, Payload{})
}

// displayName trims the submitted name and falls back when nothing is left.
func displayName(name, fallback string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}

	return name
}
