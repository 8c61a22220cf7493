package engine

var sideSteps = [2]int{-1, 1}

// GenerateMoves returns the legal moves of side in row-major order of the
// moving piece. When any capture exists only captures are returned.
func GenerateMoves(pos *Position, side Side) []Move {
	return generateInto(&pos.Board, side, nil)
}

// PossibleMoves is the front-end name for GenerateMoves.
func PossibleMoves(pos *Position, side Side) []Move {
	return GenerateMoves(pos, side)
}

func generateInto(board *Board, side Side, moves []Move) []Move {
	moves = moves[:0]
	var captures []Move
	own := side.Cell()
	opp := side.Opponent().Cell()
	fwd := side.Forward()
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if board[row][col] != own {
				continue
			}
			for _, dc := range sideSteps {
				if board.IsEmpty(row, col+dc) {
					moves = append(moves, Move{FromRow: row, FromCol: col, ToRow: row, ToCol: col + dc})
				}
			}
			if board.IsEmpty(row+fwd, col) {
				moves = append(moves, Move{FromRow: row, FromCol: col, ToRow: row + fwd, ToCol: col})
			}
			for _, dc := range sideSteps {
				midRow, midCol := row+fwd, col+dc
				endRow, endCol := row+2*fwd, col+2*dc
				if !InBounds(endRow, endCol) {
					continue
				}
				if board[midRow][midCol] == opp && board[endRow][endCol] == CellEmpty {
					captures = append(captures, Move{FromRow: row, FromCol: col, ToRow: endRow, ToCol: endCol})
				}
			}
		}
	}
	if len(captures) > 0 {
		return captures
	}
	return moves
}

// hasAnyMove is the cheap form of len(GenerateMoves(...)) > 0.
func hasAnyMove(board *Board, side Side) bool {
	own := side.Cell()
	opp := side.Opponent().Cell()
	fwd := side.Forward()
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if board[row][col] != own {
				continue
			}
			if board.IsEmpty(row, col-1) || board.IsEmpty(row, col+1) || board.IsEmpty(row+fwd, col) {
				return true
			}
			for _, dc := range sideSteps {
				endRow, endCol := row+2*fwd, col+2*dc
				if InBounds(endRow, endCol) && board[row+fwd][col+dc] == opp && board[endRow][endCol] == CellEmpty {
					return true
				}
			}
		}
	}
	return false
}
