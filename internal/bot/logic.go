package bot

import (
	"ctchen222/tictactoe-solo/internal/game"
)

// Heuristic implements the session.MoveSelector interface.
type Heuristic struct{}

// SelectMove calls the package-level function to satisfy the interface.
func (Heuristic) SelectMove(board game.Board, self, opponent game.PlayerMark) (int, bool) {
	return SelectMove(board, self, opponent)
}

// SelectMove picks the bot's move with a fixed priority list:
// win, block, center, first free corner, first free cell.
// It is not a search and can be beaten by a side-entry opening.
func SelectMove(board game.Board, self, opponent game.PlayerMark) (int, bool) {
	// 1. Win: complete one of our own lines
	if index, ok := findWinningMove(board, self); ok {
		return index, true
	}

	// 2. Block: occupy the cell that would complete the opponent's line
	if index, ok := findWinningMove(board, opponent); ok {
		return index, true
	}

	// 3. Center
	if board[game.Center] == game.None {
		return game.Center, true
	}

	// 4. Corners, lowest index first
	for _, corner := range game.Corners {
		if board[corner] == game.None {
			return corner, true
		}
	}

	// 5. Whatever is left
	if moves := game.LegalMoves(board); len(moves) > 0 {
		return moves[0], true
	}

	return -1, false
}

// findWinningMove returns the lowest legal index that would make mark win.
func findWinningMove(board game.Board, mark game.PlayerMark) (int, bool) {
	for _, index := range game.LegalMoves(board) {
		outcome := game.Evaluate(board.With(index, mark))
		if outcome.Result == game.Win && outcome.Winner == mark {
			return index, true
		}
	}
	return -1, false
}
