package engine

import "sort"

// OrderMoves sorts moves in place, captures first and then by rows advanced
// toward side's goal. Ties keep generation order.
func OrderMoves(moves []Move, side Side) {
	sort.SliceStable(moves, func(i, j int) bool {
		ci, cj := moves[i].IsCapture(), moves[j].IsCapture()
		if ci != cj {
			return ci
		}
		return moves[i].Advancement(side) > moves[j].Advancement(side)
	})
}
