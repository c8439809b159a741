package game

// Result is the terminal classification of a board.
type Result uint8

const (
	InProgress Result = iota
	Win
	Draw
)

func (r Result) String() string {
	switch r {
	case Win:
		return "win"
	case Draw:
		return "draw"
	default:
		return "in_progress"
	}
}

// Outcome is derived from a board and never stored apart from it.
// Line is only set when Result is Win.
type Outcome struct {
	Result Result
	Winner PlayerMark
	Line   []int
}

// Over reports whether the outcome is terminal.
func (o Outcome) Over() bool {
	return o.Result != InProgress
}

// Evaluate scans Lines in order and returns the first uniformly marked one.
// With alternating turns at most one mark can own a complete line, so the
// scan order never changes who wins.
func Evaluate(b Board) Outcome {
	for _, line := range Lines {
		a := b[line[0]]
		if a != None && a == b[line[1]] && a == b[line[2]] {
			return Outcome{Result: Win, Winner: a, Line: []int{line[0], line[1], line[2]}}
		}
	}

	if b.IsFull() {
		return Outcome{Result: Draw}
	}

	return Outcome{Result: InProgress}
}

// LegalMoves returns every empty index in ascending order.
func LegalMoves(b Board) []int {
	moves := make([]int, 0, BoardSize)
	for i, cell := range b {
		if cell == None {
			moves = append(moves, i)
		}
	}
	return moves
}
