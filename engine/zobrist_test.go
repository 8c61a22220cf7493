package engine

import "testing"

func TestIncrementalHashMatchesFullHash(t *testing.T) {
	pos := NewGame()
	for ply := 0; ply < 40 && !IsTerminal(pos); ply++ {
		moves := GenerateMoves(pos, pos.SideToMove)
		pos.Play(moves[ply%len(moves)])
		if got, want := pos.Hash(), ComputeHash(&pos.Board, pos.SideToMove); got != want {
			t.Fatalf("ply %d: incremental hash %x, full hash %x", ply, got, want)
		}
	}
	for len(pos.History) > 0 {
		pos.Undo()
	}
	if pos.Hash() != NewGame().Hash() {
		t.Fatalf("hash did not return to the opening key")
	}
}

func TestHashIgnoresMoveOrder(t *testing.T) {
	a1 := NewMove(7, 1, 7, 0)
	a2 := NewMove(5, 3, 4, 3)
	b1 := NewMove(1, 1, 1, 0)
	b2 := NewMove(3, 5, 4, 5)

	first := NewGame()
	for _, m := range []Move{a1, b1, a2, b2} {
		first.Play(m)
	}
	second := NewGame()
	for _, m := range []Move{a2, b2, a1, b1} {
		second.Play(m)
	}
	if first.Board != second.Board {
		t.Fatalf("move orders should reach the same board")
	}
	if first.Hash() != second.Hash() {
		t.Fatalf("transposed positions hash differently: %x vs %x", first.Hash(), second.Hash())
	}
}

func TestHashIncludesSideToMove(t *testing.T) {
	board := NewGame().Board
	if ComputeHash(&board, SideA) == ComputeHash(&board, SideB) {
		t.Fatalf("side to move must change the key")
	}
}
