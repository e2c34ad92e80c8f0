package websocket

import (
	"encoding/json"

	"github.com/krizelrika/tictactoe/internal/entity"
	"github.com/krizelrika/tictactoe/internal/tictactoe"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload is the response body sent back for every action.
type Payload struct {
	Session *entity.Session    `json:"session,omitempty"`
	Outcome *tictactoe.Outcome `json:"outcome,omitempty"`
	Error   string             `json:"error,omitempty"`
}

type sessionPayload struct {
	Session struct {
		ID string `json:"id"`
	} `json:"session"`
}

type startPayload struct {
	Session struct {
		ID string `json:"id"`
	} `json:"session"`
	Players [2]struct {
		Name string `json:"name"`
	} `json:"players"`
}

type movePayload struct {
	Session struct {
		ID string `json:"id"`
	} `json:"session"`
	Cell *int `json:"cell"`
}

// frame represents a WebSocket frame and its metadata.
type frame struct {
	isFin   bool
	opCode  byte
	length  uint64
	payload []byte
}
