package proto

import "ctchen222/tictactoe-solo/internal/game"

// Client message types accepted on a session websocket.
const (
	ClientSelect = "select"
	ClientReset  = "reset"
	ClientMode   = "mode"
)

// ClientMessage represents a message from the client to the server.
type ClientMessage struct {
	Type  string `json:"type" validate:"required,oneof=select reset mode"`
	Index *int   `json:"index,omitempty" validate:"required_if=Type select,omitempty,min=0,max=8"`
	Mode  string `json:"mode,omitempty" validate:"required_if=Type mode,omitempty,oneof=pvp pvc"`
}

// ServerMessage represents a message from the server to the client.
type ServerMessage struct {
	Type    string       `json:"type" validate:"required"`
	Reason  string       `json:"reason,omitempty"`
	Session *SessionView `json:"session,omitempty"`
}

// SessionView is everything a client needs to draw a session.
type SessionView struct {
	ID            string            `json:"id"`
	Mode          string            `json:"mode"`
	Board         []game.PlayerMark `json:"board"`
	Turn          game.PlayerMark   `json:"turn"`
	TurnAutomated bool              `json:"turn_automated"`
	AutomatedMark game.PlayerMark   `json:"automated_mark,omitempty"`
	Status        string            `json:"status"`
	Result        string            `json:"result"`
	Winner        game.PlayerMark   `json:"winner,omitempty"`
	WinningLine   []int             `json:"winning_line"`
	Message       string            `json:"message"`
	Generation    uint64            `json:"generation"`
}

// CreateSessionRequest is the body of POST /api/sessions.
type CreateSessionRequest struct {
	Mode string `json:"mode" binding:"omitempty,oneof=pvp pvc"`
}

// ModeRequest is the body of PUT /api/sessions/:id/mode.
type ModeRequest struct {
	Mode string `json:"mode" binding:"required,oneof=pvp pvc"`
}
