package bot

import (
	"time"

	"ctchen222/tictactoe-solo/internal/game"
)

// Selector chooses a move for self on board.
type Selector interface {
	SelectMove(board game.Board, self, opponent game.PlayerMark) (int, bool)
}

// Automaton is the automated side of a human-vs-computer session.
type Automaton struct {
	Mark     game.PlayerMark
	Delay    time.Duration // perceptible "thinking" pause before each move
	Selector Selector
}

// NewAutomaton creates an automaton playing mark with the fixed heuristic.
func NewAutomaton(mark game.PlayerMark, delay time.Duration) *Automaton {
	return &Automaton{
		Mark:     mark,
		Delay:    delay,
		Selector: Heuristic{},
	}
}

// NextMove asks the selector for the automaton's move on board.
func (a *Automaton) NextMove(board game.Board) (int, bool) {
	return a.Selector.SelectMove(board, a.Mark, a.Mark.Opponent())
}
