package engine

import (
	"fmt"
	"strings"
)

// BoardSize is the fixed width and height of a Fianco board.
const BoardSize = 9

type Cell int8

const (
	CellEmpty Cell = iota
	CellA
	CellB
)

// Side identifies one of the two players. Side A starts on row 8 and moves
// toward row 0; Side B mirrors it.
type Side int8

const (
	SideA Side = iota
	SideB
)

func (s Side) Opponent() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

// Forward is the row delta of a forward step.
func (s Side) Forward() int {
	if s == SideA {
		return -1
	}
	return 1
}

func (s Side) GoalRow() int {
	if s == SideA {
		return 0
	}
	return BoardSize - 1
}

func (s Side) HomeRow() int {
	return s.Opponent().GoalRow()
}

func (s Side) Cell() Cell {
	if s == SideA {
		return CellA
	}
	return CellB
}

func (s Side) String() string {
	if s == SideA {
		return "A"
	}
	return "B"
}

func (c Cell) String() string {
	switch c {
	case CellA:
		return "A"
	case CellB:
		return "B"
	default:
		return "Empty"
	}
}

// SideFromCell reports the owner of an occupied cell.
func SideFromCell(cell Cell) (Side, error) {
	switch cell {
	case CellA:
		return SideA, nil
	case CellB:
		return SideB, nil
	default:
		return SideA, fmt.Errorf("empty cell has no side")
	}
}

// Board is a value type; assigning it copies every cell.
type Board [BoardSize][BoardSize]Cell

func InBounds(row, col int) bool {
	return row >= 0 && col >= 0 && row < BoardSize && col < BoardSize
}

func (b *Board) At(row, col int) Cell {
	return b[row][col]
}

func (b *Board) Set(row, col int, value Cell) {
	b[row][col] = value
}

func (b *Board) Remove(row, col int) {
	b[row][col] = CellEmpty
}

func (b *Board) IsEmpty(row, col int) bool {
	return InBounds(row, col) && b[row][col] == CellEmpty
}

func (b *Board) Count(cell Cell) int {
	count := 0
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if b[row][col] == cell {
				count++
			}
		}
	}
	return count
}

func (b *Board) RowContains(row int, cell Cell) bool {
	for col := 0; col < BoardSize; col++ {
		if b[row][col] == cell {
			return true
		}
	}
	return false
}

// String renders the board with row 0 on top, '.' for empty cells.
func (b *Board) String() string {
	var sb strings.Builder
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			switch b[row][col] {
			case CellA:
				sb.WriteByte('A')
			case CellB:
				sb.WriteByte('B')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ParseBoard reads the String form back. Blank lines are ignored so tests can
// use raw string literals.
func ParseBoard(text string) (Board, error) {
	var b Board
	row := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if row >= BoardSize {
			return Board{}, fmt.Errorf("too many rows")
		}
		if len(line) != BoardSize {
			return Board{}, fmt.Errorf("row %d: expected %d cells, got %d", row, BoardSize, len(line))
		}
		for col := 0; col < BoardSize; col++ {
			switch line[col] {
			case 'A':
				b[row][col] = CellA
			case 'B':
				b[row][col] = CellB
			case '.':
				b[row][col] = CellEmpty
			default:
				return Board{}, fmt.Errorf("row %d col %d: unknown cell %q", row, col, line[col])
			}
		}
		row++
	}
	if row != BoardSize {
		return Board{}, fmt.Errorf("expected %d rows, got %d", BoardSize, row)
	}
	return b, nil
}
