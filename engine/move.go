package engine

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

type Move struct {
	FromRow int `json:"from_row"`
	FromCol int `json:"from_col"`
	ToRow   int `json:"to_row"`
	ToCol   int `json:"to_col"`
}

func NewMove(fromRow, fromCol, toRow, toCol int) Move {
	return Move{FromRow: fromRow, FromCol: fromCol, ToRow: toRow, ToCol: toCol}
}

func (m Move) IsValid() bool {
	return InBounds(m.FromRow, m.FromCol) && InBounds(m.ToRow, m.ToCol)
}

func (m Move) IsCapture() bool {
	return absInt(m.FromRow-m.ToRow) == 2
}

// Midpoint is the jumped cell of a capture.
func (m Move) Midpoint() (int, int) {
	return (m.FromRow + m.ToRow) / 2, (m.FromCol + m.ToCol) / 2
}

// Advancement counts rows gained toward side's goal edge; sideways moves are 0.
func (m Move) Advancement(side Side) int {
	if side == SideA {
		return m.FromRow - m.ToRow
	}
	return m.ToRow - m.FromRow
}

func (m Move) Equals(other Move) bool {
	return m == other
}

func (m Move) String() string {
	return fmt.Sprintf("(%d,%d)->(%d,%d)", m.FromRow, m.FromCol, m.ToRow, m.ToCol)
}

type HistoryEntry struct {
	Side Side
	Move Move
}

func absInt[T constraints.Signed](v T) T {
	if v < 0 {
		return -v
	}
	return v
}

func clamp[T constraints.Integer](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
