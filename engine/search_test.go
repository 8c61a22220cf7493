package engine

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSearchPicksForcedCapture(t *testing.T) {
	for depth := 1; depth <= 3; depth++ {
		pos := mustPosition(t, forcedCaptureBoard, SideA)
		move, err := GetBestMove(pos, depth, time.Minute)
		if err != nil {
			t.Fatalf("depth %d: %v", depth, err)
		}
		if want := NewMove(5, 4, 3, 2); move != want {
			t.Fatalf("depth %d: expected %s, got %s", depth, want, move)
		}
	}
}

func TestSearchInitialDepthOneReturnsGeneratedMove(t *testing.T) {
	pos := NewGame()
	move, err := GetBestMove(pos, 1, time.Minute)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if move.IsCapture() {
		t.Fatalf("no capture exists in the opening, got %s", move)
	}
	if !IsLegal(pos, move) {
		t.Fatalf("search returned a move outside the generated set: %s", move)
	}
}

func TestSearchDoesNotMutateCallerPosition(t *testing.T) {
	pos := NewGame()
	pos.Play(NewMove(5, 3, 4, 3))
	before := pos.Clone()
	if _, err := GetBestMove(pos, 3, time.Minute); err != nil {
		t.Fatalf("search: %v", err)
	}
	if pos.Board != before.Board || pos.Hash() != before.Hash() || len(pos.History) != len(before.History) || pos.SideToMove != before.SideToMove {
		t.Fatalf("search mutated the caller's position")
	}
}

func TestPruningMatchesFullSearch(t *testing.T) {
	pos := NewGame()
	pos.Play(NewMove(5, 3, 4, 3))
	pos.Play(NewMove(3, 5, 4, 5))

	for depth := 1; depth <= 3; depth++ {
		pruned, err := NewSearcher(DefaultSearchOptions()).Search(context.Background(), pos, depth, time.Minute)
		if err != nil {
			t.Fatalf("pruned depth %d: %v", depth, err)
		}
		opts := DefaultSearchOptions()
		opts.DisablePruning = true
		opts.DisableTT = true
		full, err := NewSearcher(opts).Search(context.Background(), pos, depth, time.Minute)
		if err != nil {
			t.Fatalf("full depth %d: %v", depth, err)
		}
		if pruned.Score != full.Score {
			t.Fatalf("depth %d: pruned value %f differs from full value %f", depth, pruned.Score, full.Score)
		}
		if pruned.Move != full.Move {
			t.Fatalf("depth %d: pruned move %s differs from full move %s", depth, pruned.Move, full.Move)
		}
		if full.Nodes < pruned.Nodes {
			t.Fatalf("depth %d: pruning visited more nodes (%d) than the full search (%d)", depth, pruned.Nodes, full.Nodes)
		}
	}
}

func TestRootWorkersAgreeWithSingleWorker(t *testing.T) {
	pos := NewGame()
	pos.Play(NewMove(5, 5, 4, 5))

	single, err := NewSearcher(DefaultSearchOptions()).Search(context.Background(), pos, 3, time.Minute)
	if err != nil {
		t.Fatalf("single: %v", err)
	}
	opts := DefaultSearchOptions()
	opts.RootWorkers = 4
	parallel, err := NewSearcher(opts).Search(context.Background(), pos, 3, time.Minute)
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}
	if single.Move != parallel.Move || single.Score != parallel.Score {
		t.Fatalf("root workers disagree: %s/%f vs %s/%f", single.Move, single.Score, parallel.Move, parallel.Score)
	}
	if parallel.Completed != parallel.Total {
		t.Fatalf("expected every root move searched, got %d/%d", parallel.Completed, parallel.Total)
	}
}

func TestSearcherReuseIsStable(t *testing.T) {
	pos := NewGame()
	searcher := NewSearcher(DefaultSearchOptions())
	first, err := searcher.Search(context.Background(), pos, 2, time.Minute)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := searcher.Search(context.Background(), pos, 2, time.Minute)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first.Move != second.Move || first.Score != second.Score {
		t.Fatalf("reused searcher changed its answer")
	}
	if first.TTHits == 0 && first.Nodes == 0 {
		t.Fatalf("expected search stats to be recorded")
	}
}

func TestSearchZeroBudgetIsExhausted(t *testing.T) {
	_, err := GetBestMove(NewGame(), 2, 0)
	if !errors.Is(err, ErrSearchExhausted) {
		t.Fatalf("expected ErrSearchExhausted, got %v", err)
	}
}

func TestSearchCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewSearcher(DefaultSearchOptions()).BestMove(ctx, NewGame(), 2, time.Minute)
	if !errors.Is(err, ErrSearchExhausted) || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected exhausted search wrapping context.Canceled, got %v", err)
	}
}

func TestSearchTerminalPosition(t *testing.T) {
	pos := mustPosition(t, `
....A....
.........
.........
.........
B........
.........
.........
.........
.........
`, SideB)
	if _, err := GetBestMove(pos, 2, time.Minute); !errors.Is(err, ErrNoMovesAvailable) {
		t.Fatalf("expected ErrNoMovesAvailable, got %v", err)
	}
}

func TestSearchTakesWinningBreakthrough(t *testing.T) {
	pos := mustPosition(t, `
.........
...A.....
.........
.........
.........
.........
.........
B........
.........
`, SideA)
	move, err := GetBestMove(pos, 3, time.Minute)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if move != NewMove(1, 3, 0, 3) {
		t.Fatalf("expected immediate breakthrough, got %s", move)
	}
}
