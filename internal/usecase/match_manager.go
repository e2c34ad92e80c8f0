package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/krizelrika/tictactoe/internal/apperror"
	"github.com/krizelrika/tictactoe/internal/entity"
	"github.com/krizelrika/tictactoe/internal/tictactoe"
)

type sessionRepo interface {
	Save(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

// MatchManager orchestrates match sessions: each operation loads a session,
// replays its match state, applies one engine operation and stores the result.
type MatchManager struct {
	logger   *slog.Logger
	sessions sessionRepo
}

func NewMatchManager(logger *slog.Logger, sessions sessionRepo) *MatchManager {
	return &MatchManager{
		logger:   logger,
		sessions: sessions,
	}
}

// ConnectSession returns the session with the given id, or a fresh one when
// the id is empty or no longer stored.
func (that *MatchManager) ConnectSession(ctx context.Context, id string) (*entity.Session, error) {
	if id == "" {
		return that.createSession(ctx)
	}

	session, err := that.sessions.GetByID(ctx, id)
	if errors.Is(err, apperror.ErrSessionNotFound) {
		return that.createSession(ctx)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// StartMatch begins a new match between the two named players. Any match
// already running in the session is abandoned without confirmation.
func (that *MatchManager) StartMatch(ctx context.Context, id, nameOne, nameTwo string) (*entity.Session, error) {
	if id == "" {
		id = uuid.NewString()
	}

	session := entity.NewSession(id)

	match, err := session.Resume()
	if err != nil {
		return nil, err
	}

	match.Start(nameOne, nameTwo)
	session.Capture(match)

	if err = that.saveSession(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// MakeMove applies one move to the session's match. A rejected move leaves
// the stored session untouched.
func (that *MatchManager) MakeMove(ctx context.Context, id string, cell int) (*entity.Session, tictactoe.Outcome, error) {
	session, err := that.getSessionByID(ctx, id)
	if err != nil {
		return nil, tictactoe.Outcome{}, err
	}

	match, err := session.Resume()
	if err != nil {
		return nil, tictactoe.Outcome{}, err
	}

	outcome := match.Move(cell)
	if outcome.Kind == tictactoe.OutcomeRejected {
		return session, outcome, nil
	}

	session.Capture(match)

	if err = that.saveSession(ctx, session); err != nil {
		return nil, tictactoe.Outcome{}, err
	}

	return session, outcome, nil
}

// RestartMatch replays a finished or running match from a clean board,
// keeping both players.
func (that *MatchManager) RestartMatch(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.getSessionByID(ctx, id)
	if err != nil {
		return nil, err
	}

	match, err := session.Resume()
	if err != nil {
		return nil, err
	}

	if err = match.Restart(); err != nil {
		return nil, fmt.Errorf("failed to restart match: %w", err)
	}

	session.Capture(match)

	if err = that.saveSession(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// GetSession reads a session for re-rendering, without touching its state.
func (that *MatchManager) GetSession(ctx context.Context, id string) (*entity.Session, error) {
	return that.getSessionByID(ctx, id)
}

// EndSession removes the session from storage.
func (that *MatchManager) EndSession(ctx context.Context, id string) error {
	log := that.logger.With("method", "EndSession")

	if err := that.sessions.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	log.Info("session ended", "id", id)

	return nil
}

func (that *MatchManager) createSession(ctx context.Context) (*entity.Session, error) {
	log := that.logger.With("method", "createSession")

	session := entity.NewSession(uuid.NewString())

	if err := that.saveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	log.Info("session created", "id", session.ID)

	return session, nil
}

func (that *MatchManager) getSessionByID(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

func (that *MatchManager) saveSession(ctx context.Context, session *entity.Session) error {
	if err := that.sessions.Save(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}
