package bot

import (
	"testing"
	"time"

	"ctchen222/tictactoe-solo/internal/game"
)

type fixedSelector struct {
	index       int
	gotSelf     game.PlayerMark
	gotOpponent game.PlayerMark
}

func (f *fixedSelector) SelectMove(board game.Board, self, opponent game.PlayerMark) (int, bool) {
	f.gotSelf, f.gotOpponent = self, opponent
	return f.index, true
}

func TestNewAutomaton(t *testing.T) {
	a := NewAutomaton(O, 350*time.Millisecond)

	if a.Mark != O {
		t.Errorf("Expected mark %s, got %s", O, a.Mark)
	}
	if a.Delay != 350*time.Millisecond {
		t.Errorf("Expected delay 350ms, got %v", a.Delay)
	}
	if _, ok := a.Selector.(Heuristic); !ok {
		t.Errorf("Expected the heuristic selector, got %T", a.Selector)
	}
}

func TestAutomaton_NextMove(t *testing.T) {
	a := NewAutomaton(O, 0)
	index, ok := a.NextMove(game.Board{X, X, E, E, E, E, E, E, E})
	if !ok || index != 2 {
		t.Errorf("Expected the automaton to block at 2, got (%d, %v)", index, ok)
	}
}

func TestAutomaton_NextMovePassesMarks(t *testing.T) {
	sel := &fixedSelector{index: 7}
	a := &Automaton{Mark: X, Selector: sel}

	index, _ := a.NextMove(game.Board{})
	if index != 7 {
		t.Errorf("Expected selector result 7, got %d", index)
	}
	if sel.gotSelf != X || sel.gotOpponent != O {
		t.Errorf("Expected marks (X, O), got (%s, %s)", sel.gotSelf, sel.gotOpponent)
	}
}
