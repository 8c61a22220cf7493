package engine

import "testing"

func mustPosition(t *testing.T, text string, toMove Side) *Position {
	t.Helper()
	board, err := ParseBoard(text)
	if err != nil {
		t.Fatalf("parse board: %v", err)
	}
	return NewPosition(board, toMove)
}

// forcedCaptureBoard gives Side A exactly one legal move: (5,4) jumps (4,3).
const forcedCaptureBoard = `
B........
.........
.........
.........
...B.....
....A....
.........
.........
........A
`
