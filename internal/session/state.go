package session

import (
	"fmt"

	"ctchen222/tictactoe-solo/internal/game"
)

// Status is the coarse state of a session.
type Status string

const (
	StatusPlaying Status = "playing"
	StatusOver    Status = "over"
)

// Mode selects who plays the second mark.
type Mode string

const (
	ModeHumanVsHuman    Mode = "pvp"
	ModeHumanVsComputer Mode = "pvc"
)

// ParseMode validates a mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeHumanVsHuman, ModeHumanVsComputer:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown mode %q", s)
	}
}

// State is one game: the board, whose turn it is and the derived outcome.
// It is a value; transitions return a new State.
type State struct {
	Board   game.Board
	Turn    game.PlayerMark
	Status  Status
	Outcome game.Outcome
}

// New returns the initial state: empty board, X to move.
func New() State {
	return State{
		Turn:   game.PlayerX,
		Status: StatusPlaying,
	}
}

// PlaceMark puts the current turn's mark at index. The move is rejected,
// and s returned unchanged, when the game is over, index is off the board
// or the cell is taken.
func (s State) PlaceMark(index int) (State, bool) {
	if s.Status == StatusOver || !game.ValidIndex(index) || s.Board[index] != game.None {
		return s, false
	}

	s.Board[index] = s.Turn
	s.Turn = s.Turn.Opponent()
	s.Outcome = game.Evaluate(s.Board)
	if s.Outcome.Over() {
		s.Status = StatusOver
	}
	return s, true
}

// StatusText is the line shown above the board.
func (s State) StatusText(mode Mode, automated game.PlayerMark) string {
	switch s.Outcome.Result {
	case game.Win:
		return fmt.Sprintf("Winner: %s", s.Outcome.Winner)
	case game.Draw:
		return "Draw game"
	}

	if mode == ModeHumanVsComputer && s.Turn == automated {
		return fmt.Sprintf("Turn: %s (Computer)", s.Turn)
	}
	return fmt.Sprintf("Turn: %s", s.Turn)
}
