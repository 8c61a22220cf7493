// Package notation converts between engine moves and the "A1 A2" form used by
// the front-ends. Columns are letters A-I from the left, rows are numbered 9
// at the top down to 1 at the bottom.
package notation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sh0ck-zy/fianco-game-AI/engine"
)

var ErrBadNotation = errors.New("bad move notation")

// Square renders one board cell, e.g. row 8 col 0 is "A1".
func Square(row, col int) string {
	return fmt.Sprintf("%c%d", 'A'+col, engine.BoardSize-row)
}

// ParseSquare reads a cell such as "e5" or "E5".
func ParseSquare(text string) (row, col int, err error) {
	text = strings.ToUpper(strings.TrimSpace(text))
	if len(text) != 2 {
		return 0, 0, fmt.Errorf("%w: square %q", ErrBadNotation, text)
	}
	col = int(text[0] - 'A')
	rank := int(text[1] - '0')
	row = engine.BoardSize - rank
	if text[0] < 'A' || text[1] < '1' || text[1] > '9' || !engine.InBounds(row, col) {
		return 0, 0, fmt.Errorf("%w: square %q out of range", ErrBadNotation, text)
	}
	return row, col, nil
}

func Format(m engine.Move) string {
	return Square(m.FromRow, m.FromCol) + " " + Square(m.ToRow, m.ToCol)
}

// Parse reads "A1 A2". Extra whitespace is tolerated; a dash between the
// squares is accepted too.
func Parse(text string) (engine.Move, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '-'
	})
	if len(fields) != 2 {
		return engine.Move{}, fmt.Errorf("%w: expected two squares in %q", ErrBadNotation, text)
	}
	fromRow, fromCol, err := ParseSquare(fields[0])
	if err != nil {
		return engine.Move{}, err
	}
	toRow, toCol, err := ParseSquare(fields[1])
	if err != nil {
		return engine.Move{}, err
	}
	return engine.NewMove(fromRow, fromCol, toRow, toCol), nil
}

// CellAt maps a pixel inside the board area to a cell. ok is false for
// points outside the board, such as the side panel.
func CellAt(x, y, squareSize int) (row, col int, ok bool) {
	if x < 0 || y < 0 || squareSize <= 0 {
		return 0, 0, false
	}
	row, col = y/squareSize, x/squareSize
	if !engine.InBounds(row, col) {
		return 0, 0, false
	}
	return row, col, true
}
