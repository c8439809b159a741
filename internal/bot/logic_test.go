package bot

import (
	"testing"

	"ctchen222/tictactoe-solo/internal/game"
)

const (
	X = game.PlayerX
	O = game.PlayerO
	E = game.None
)

func TestFindWinningMove(t *testing.T) {
	tests := []struct {
		name      string
		board     game.Board
		mark      game.PlayerMark
		wantIndex int
		wantFound bool
	}{
		{
			name:      "No winning move - empty board",
			board:     game.Board{},
			mark:      X,
			wantIndex: -1, wantFound: false,
		},
		{
			name: "X can win - first row",
			board: game.Board{
				X, X, E,
				O, O, E,
				E, E, E,
			},
			mark:      X,
			wantIndex: 2, wantFound: true,
		},
		{
			name: "O can win - second column",
			board: game.Board{
				X, O, E,
				X, O, E,
				E, E, E,
			},
			mark:      O,
			wantIndex: 7, wantFound: true,
		},
		{
			name: "X can win - gap in the middle of a diagonal",
			board: game.Board{
				X, E, E,
				E, E, E,
				E, E, X,
			},
			mark:      X,
			wantIndex: 4, wantFound: true,
		},
		{
			name: "Lowest index wins when there are two threats",
			board: game.Board{
				O, E, E,
				E, E, E,
				O, E, O,
			},
			mark:      O,
			wantIndex: 3, wantFound: true,
		},
		{
			name: "Full board, no win possible",
			board: game.Board{
				X, O, X,
				X, O, O,
				O, X, X,
			},
			mark:      X,
			wantIndex: -1, wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index, found := findWinningMove(tt.board, tt.mark)
			if found != tt.wantFound || index != tt.wantIndex {
				t.Errorf("findWinningMove() got (%d, %v), want (%d, %v)", index, found, tt.wantIndex, tt.wantFound)
			}
		})
	}
}

func TestSelectMove(t *testing.T) {
	tests := []struct {
		name      string
		board     game.Board
		self      game.PlayerMark
		wantIndex int
		wantOK    bool
	}{
		{
			name:      "Take center on an empty board",
			board:     game.Board{},
			self:      O,
			wantIndex: 4, wantOK: true,
		},
		{
			name:      "Block opponent",
			board:     game.Board{X, X, E, E, E, E, E, E, E},
			self:      O,
			wantIndex: 2, wantOK: true,
		},
		{
			name:      "Win now",
			board:     game.Board{O, O, E, E, E, E, E, E, E},
			self:      O,
			wantIndex: 2, wantOK: true,
		},
		{
			name: "Win beats block",
			board: game.Board{
				X, X, E,
				O, O, E,
				X, E, E,
			},
			self:      O,
			wantIndex: 5, wantOK: true,
		},
		{
			name: "Take center after a corner opening",
			board: game.Board{
				X, E, E,
				E, E, E,
				E, E, E,
			},
			self:      O,
			wantIndex: 4, wantOK: true,
		},
		{
			name: "First corner when center is taken",
			board: game.Board{
				E, E, E,
				E, X, E,
				E, E, E,
			},
			self:      O,
			wantIndex: 0, wantOK: true,
		},
		{
			name: "Next corner in fixed order",
			board: game.Board{
				O, E, E,
				E, X, E,
				E, E, X,
			},
			self:      O,
			wantIndex: 2, wantOK: true,
		},
		{
			name: "First free cell when corners and center are gone",
			board: game.Board{
				X, E, O,
				O, X, X,
				X, E, O,
			},
			self:      O,
			wantIndex: 1, wantOK: true,
		},
		{
			name: "Full board",
			board: game.Board{
				X, O, X,
				X, O, O,
				O, X, X,
			},
			self:      O,
			wantIndex: -1, wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index, ok := SelectMove(tt.board, tt.self, tt.self.Opponent())
			if index != tt.wantIndex || ok != tt.wantOK {
				t.Errorf("SelectMove() got (%d, %v), want (%d, %v)", index, ok, tt.wantIndex, tt.wantOK)
			}
		})
	}
}

func TestSelectMoveNeverReturnsOccupiedIndex(t *testing.T) {
	// Walk every reachable position with X to move first and check the bot's answer as O.
	var walk func(b game.Board, turn game.PlayerMark)
	walk = func(b game.Board, turn game.PlayerMark) {
		if game.Evaluate(b).Over() {
			return
		}
		if turn == O {
			index, ok := SelectMove(b, O, X)
			if !ok {
				t.Fatalf("SelectMove() found no move on non-terminal board %v", b)
			}
			if b[index] != game.None {
				t.Fatalf("SelectMove() returned occupied index %d on %v", index, b)
			}
		}
		for _, i := range game.LegalMoves(b) {
			walk(b.With(i, turn), turn.Opponent())
		}
	}
	walk(game.Board{}, X)
}

// The heuristic is not a search: a side entry after a corner opening forks it.
func TestSelectMoveLosesToSideEntry(t *testing.T) {
	var board game.Board
	humanMoves := []int{0, 7, 6, 8}
	wantReplies := []int{4, 2, 3}

	for turn, move := range humanMoves {
		board[move] = X
		if game.Evaluate(board).Over() {
			break
		}
		reply, ok := SelectMove(board, O, X)
		if !ok || reply != wantReplies[turn] {
			t.Fatalf("reply %d: got (%d, %v), want %d", turn, reply, ok, wantReplies[turn])
		}
		board[reply] = O
	}

	outcome := game.Evaluate(board)
	if outcome.Result != game.Win || outcome.Winner != X {
		t.Errorf("expected X to win through the fork, got %+v", outcome)
	}
}
