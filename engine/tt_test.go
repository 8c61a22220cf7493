package engine

import "testing"

func TestTTStoreProbe(t *testing.T) {
	tt := NewTranspositionTable(64, 2)
	move := NewMove(5, 3, 4, 3)
	tt.Store(42, 3, 1.5, TTExact, move)
	entry, ok := tt.Probe(42)
	if !ok {
		t.Fatalf("expected stored entry to be found")
	}
	if entry.Depth != 3 || entry.Score != 1.5 || entry.BestMove != move || entry.Flag != TTExact {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if _, ok := tt.Probe(43); ok {
		t.Fatalf("unexpected hit for a missing key")
	}
	if tt.Count() != 1 {
		t.Fatalf("expected count 1, got %d", tt.Count())
	}
}

func TestTTLookupHonoursDepthAndBounds(t *testing.T) {
	tt := NewTranspositionTable(64, 2)
	tt.Store(1, 2, 5, TTExact, Move{})
	if _, ok := tt.Lookup(1, 3, -100, 100); ok {
		t.Fatalf("a shallower entry must not answer a deeper query")
	}
	if score, ok := tt.Lookup(1, 2, -100, 100); !ok || score != 5 {
		t.Fatalf("expected exact hit, got %f %v", score, ok)
	}

	tt.Store(2, 4, 10, TTLower, Move{})
	if _, ok := tt.Lookup(2, 4, -100, 100); ok {
		t.Fatalf("lower bound below beta must not cut")
	}
	if score, ok := tt.Lookup(2, 4, 0, 8); !ok || score != 10 {
		t.Fatalf("lower bound above beta should cut, got %f %v", score, ok)
	}

	tt.Store(3, 4, -10, TTUpper, Move{})
	if score, ok := tt.Lookup(3, 1, -5, 5); !ok || score != -10 {
		t.Fatalf("upper bound below alpha should cut, got %f %v", score, ok)
	}
}

func TestTTKeepsDeeperEntry(t *testing.T) {
	tt := NewTranspositionTable(64, 2)
	tt.Store(7, 5, 1, TTExact, Move{})
	tt.Store(7, 2, 2, TTExact, Move{})
	if entry, _ := tt.Probe(7); entry.Depth != 5 || entry.Score != 1 {
		t.Fatalf("shallower store replaced a deeper entry: %+v", entry)
	}
	tt.Store(7, 6, 3, TTLower, Move{})
	if entry, _ := tt.Probe(7); entry.Depth != 6 || entry.Score != 3 {
		t.Fatalf("deeper store was ignored: %+v", entry)
	}
}

func TestTTEvictsShallowest(t *testing.T) {
	tt := NewTranspositionTable(1, 2)
	tt.Store(10, 4, 1, TTExact, Move{})
	tt.Store(11, 1, 2, TTExact, Move{})
	tt.Store(12, 3, 3, TTExact, Move{})
	if _, ok := tt.Probe(11); ok {
		t.Fatalf("expected the shallowest entry to be evicted")
	}
	if _, ok := tt.Probe(10); !ok {
		t.Fatalf("deepest entry should survive")
	}
	if _, ok := tt.Probe(12); !ok {
		t.Fatalf("new entry should be stored")
	}
}

func TestTTClearAndCapacity(t *testing.T) {
	tt := NewTranspositionTable(100, 2)
	if tt.Capacity() != 256 {
		t.Fatalf("expected size rounded to 128 slots of 2, got capacity %d", tt.Capacity())
	}
	tt.Store(5, 1, 1, TTExact, Move{})
	tt.Clear()
	if tt.Count() != 0 {
		t.Fatalf("expected empty table after clear")
	}
	if _, ok := tt.Probe(5); ok {
		t.Fatalf("clear left an entry behind")
	}
}

func TestTTShapeIsBounded(t *testing.T) {
	size, buckets := ttShape(1<<62, 1000)
	if size != MaxTTSize || buckets != MaxTTBuckets {
		t.Fatalf("expected shape clamped to %d x %d, got %d x %d", MaxTTSize, MaxTTBuckets, size, buckets)
	}
	size, buckets = ttShape(0, 0)
	if size != 1 || buckets != 2 {
		t.Fatalf("expected 1 x 2 for empty request, got %d x %d", size, buckets)
	}
	size, _ = ttShape(MaxTTSize-3, 2)
	if size != MaxTTSize {
		t.Fatalf("expected rounding up to stay within the cap, got %d", size)
	}
}
