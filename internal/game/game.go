package game

// PlayerMark represents the mark of a player (X, O) or an empty cell.
type PlayerMark string

const (
	// Player marks
	None    PlayerMark = ""
	PlayerX PlayerMark = "X"
	PlayerO PlayerMark = "O"

	// Board boundaries
	BoardSize = 9
	Center    = 4
)

// Opponent returns the other player's mark. None has no opponent.
func (m PlayerMark) Opponent() PlayerMark {
	switch m {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return None
	}
}

// Valid reports whether m is one of the two playable marks.
func (m PlayerMark) Valid() bool {
	return m == PlayerX || m == PlayerO
}

// Board is a 3x3 grid stored row-major: index = row*3 + col.
type Board [BoardSize]PlayerMark

// Line is one of the index triples that wins when uniformly marked.
type Line [3]int

// Lines lists every winnable line: rows, then columns, then both diagonals.
var Lines = [8]Line{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// Corners in the order the bot tries them.
var Corners = [4]int{0, 2, 6, 8}

// ValidIndex reports whether i addresses a cell on the board.
func ValidIndex(i int) bool {
	return i >= 0 && i < BoardSize
}

// With returns a copy of the board with mark placed at index.
func (b Board) With(index int, mark PlayerMark) Board {
	b[index] = mark
	return b
}

// Occupied counts the non-empty cells.
func (b Board) Occupied() int {
	n := 0
	for _, cell := range b {
		if cell != None {
			n++
		}
	}
	return n
}

// IsFull checks if every cell holds a mark.
func (b Board) IsFull() bool {
	return b.Occupied() == BoardSize
}

// Rows converts the board to a slice of rows, the shape clients render.
func (b Board) Rows() [][]PlayerMark {
	rows := make([][]PlayerMark, 3)
	for r := range rows {
		rows[r] = []PlayerMark{b[r*3], b[r*3+1], b[r*3+2]}
	}
	return rows
}
