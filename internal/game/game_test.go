package game

import (
	"reflect"
	"testing"
)

const (
	X = PlayerX
	O = PlayerO
	E = None
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name       string
		board      Board
		wantResult Result
		wantWinner PlayerMark
		wantLine   []int
	}{
		{
			name:       "No winner - empty board",
			board:      Board{},
			wantResult: InProgress,
		},
		{
			name: "No winner - partial board",
			board: Board{
				X, E, E,
				E, O, E,
				E, E, E,
			},
			wantResult: InProgress,
		},
		{
			name: "X wins - first row",
			board: Board{
				X, X, X,
				E, O, E,
				E, E, O,
			},
			wantResult: Win, wantWinner: X, wantLine: []int{0, 1, 2},
		},
		{
			name: "O wins - second column",
			board: Board{
				X, O, E,
				X, O, E,
				E, O, X,
			},
			wantResult: Win, wantWinner: O, wantLine: []int{1, 4, 7},
		},
		{
			name: "X wins - main diagonal",
			board: Board{
				X, O, E,
				E, X, O,
				E, E, X,
			},
			wantResult: Win, wantWinner: X, wantLine: []int{0, 4, 8},
		},
		{
			name: "O wins - anti-diagonal",
			board: Board{
				X, X, O,
				E, O, E,
				O, X, E,
			},
			wantResult: Win, wantWinner: O, wantLine: []int{2, 4, 6},
		},
		{
			name: "Win on the last cell is a win, not a draw",
			board: Board{
				X, O, X,
				O, X, O,
				O, X, X,
			},
			wantResult: Win, wantWinner: X, wantLine: []int{0, 4, 8},
		},
		{
			name: "Draw - alternating full board",
			board: Board{
				X, O, X,
				O, X, O,
				O, X, O,
			},
			wantResult: Draw,
		},
		{
			name: "Draw - no line",
			board: Board{
				X, O, X,
				X, O, O,
				O, X, X,
			},
			wantResult: Draw,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.board)
			if got.Result != tt.wantResult || got.Winner != tt.wantWinner {
				t.Errorf("Evaluate() got = (%v, %q), want (%v, %q)", got.Result, got.Winner, tt.wantResult, tt.wantWinner)
			}
			if !reflect.DeepEqual(got.Line, tt.wantLine) {
				t.Errorf("Evaluate() line = %v, want %v", got.Line, tt.wantLine)
			}
		})
	}
}

func TestEvaluateFirstLineInTableOrder(t *testing.T) {
	// Not reachable by alternating play, but pins the scan order.
	board := Board{
		X, X, X,
		O, O, O,
		E, E, E,
	}
	got := Evaluate(board)
	if got.Winner != X || !reflect.DeepEqual(got.Line, []int{0, 1, 2}) {
		t.Errorf("Evaluate() got = (%q, %v), want first row for X", got.Winner, got.Line)
	}
}

func TestEvaluateDrawScenario(t *testing.T) {
	got := Evaluate(Board{X, O, X, O, X, O, X, O, X})
	// X O X / O X O / X O X has both diagonals for X.
	if got.Result != Win || got.Winner != X {
		t.Fatalf("Evaluate() = %+v, want X to win on a diagonal", got)
	}

	got = Evaluate(Board{X, O, X, X, O, O, O, X, X})
	if got.Result != Draw {
		t.Fatalf("Evaluate() = %+v, want draw", got)
	}
	if len(got.Line) != 0 {
		t.Errorf("draw should carry an empty line, got %v", got.Line)
	}
}

func TestLegalMoves(t *testing.T) {
	tests := []struct {
		name  string
		board Board
		want  []int
	}{
		{
			name:  "Empty board",
			board: Board{},
			want:  []int{0, 1, 2, 3, 4, 5, 6, 7, 8},
		},
		{
			name: "Partial board",
			board: Board{
				X, E, E,
				E, O, E,
				E, E, X,
			},
			want: []int{1, 2, 3, 5, 6, 7},
		},
		{
			name: "Full board",
			board: Board{
				X, O, X,
				X, O, O,
				O, X, X,
			},
			want: []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LegalMoves(tt.board)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("LegalMoves() got = %v, want %v", got, tt.want)
			}
			if len(got) != BoardSize-tt.board.Occupied() {
				t.Errorf("LegalMoves() length %d, want %d", len(got), BoardSize-tt.board.Occupied())
			}
			for _, i := range got {
				if tt.board[i] != None {
					t.Errorf("LegalMoves() returned occupied index %d", i)
				}
			}
		})
	}
}

func TestIsFull(t *testing.T) {
	tests := []struct {
		name  string
		board Board
		want  bool
	}{
		{name: "Empty board is not full", board: Board{}, want: false},
		{name: "Partial board is not full", board: Board{X, E, E, E, O, E, E, E, E}, want: false},
		{name: "Full board is full", board: Board{X, O, X, X, O, O, O, X, X}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.board.IsFull(); got != tt.want {
				t.Errorf("IsFull() got = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBoardWithDoesNotMutate(t *testing.T) {
	b := Board{}
	probe := b.With(4, X)
	if b[4] != None {
		t.Errorf("With() mutated the receiver")
	}
	if probe[4] != X {
		t.Errorf("With() did not place the mark, got %q", probe[4])
	}
}

func TestOpponent(t *testing.T) {
	if PlayerX.Opponent() != PlayerO || PlayerO.Opponent() != PlayerX || None.Opponent() != None {
		t.Errorf("Opponent() mapping is wrong")
	}
}

func TestRows(t *testing.T) {
	rows := Board{X, E, E, E, O, E, E, E, X}.Rows()
	want := [][]PlayerMark{{X, E, E}, {E, O, E}, {E, E, X}}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("Rows() got = %v, want %v", rows, want)
	}
}
