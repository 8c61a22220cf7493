package engine

type TTFlag uint8

const (
	TTExact TTFlag = iota
	TTLower
	TTUpper
)

func (f TTFlag) String() string {
	switch f {
	case TTExact:
		return "EXACT"
	case TTLower:
		return "LOWER"
	case TTUpper:
		return "UPPER"
	default:
		return "UNKNOWN"
	}
}

// TTEntry holds a negamax value from the perspective of the side to move at Key.
type TTEntry struct {
	Key      uint64
	Depth    int
	Score    float64
	Flag     TTFlag
	BestMove Move
	Valid    bool
}

// TranspositionTable is a fixed-size set-associative table. It is not safe
// for concurrent use; each search owns one.
type TranspositionTable struct {
	mask    uint64
	buckets int
	entries []TTEntry
	count   int
}

// Upper bounds on the table shape; larger requests are clamped.
const (
	MaxTTSize    uint64 = 1 << 20
	MaxTTBuckets        = 8
)

func NewTranspositionTable(size uint64, buckets int) *TranspositionTable {
	size, buckets = ttShape(size, buckets)
	return &TranspositionTable{
		mask:    size - 1,
		buckets: buckets,
		entries: make([]TTEntry, int(size)*buckets),
	}
}

// ttShape returns a power-of-two slot count and a bucket width within the
// Max* bounds, so size*buckets always fits an int.
func ttShape(size uint64, buckets int) (uint64, int) {
	if buckets <= 0 {
		buckets = 2
	}
	buckets = clamp(buckets, 1, MaxTTBuckets)
	size = clamp(size, 1, MaxTTSize)
	if (size & (size - 1)) != 0 {
		size = nextPowerOfTwo(size)
	}
	return size, buckets
}

func (tt *TranspositionTable) Clear() {
	for i := range tt.entries {
		tt.entries[i] = TTEntry{}
	}
	tt.count = 0
}

func (tt *TranspositionTable) Count() int {
	return tt.count
}

func (tt *TranspositionTable) Capacity() int {
	return len(tt.entries)
}

func (tt *TranspositionTable) bucketIndex(key uint64) int {
	return int(key&tt.mask) * tt.buckets
}

func (tt *TranspositionTable) Probe(key uint64) (TTEntry, bool) {
	start := tt.bucketIndex(key)
	for i := 0; i < tt.buckets; i++ {
		entry := tt.entries[start+i]
		if entry.Valid && entry.Key == key {
			return entry, true
		}
	}
	return TTEntry{}, false
}

// Store keeps the deeper result for a key. When the bucket is full the
// shallowest entry is evicted.
func (tt *TranspositionTable) Store(key uint64, depth int, score float64, flag TTFlag, best Move) {
	start := tt.bucketIndex(key)
	entry := TTEntry{Key: key, Depth: depth, Score: score, Flag: flag, BestMove: best, Valid: true}

	for i := 0; i < tt.buckets; i++ {
		idx := start + i
		existing := tt.entries[idx]
		if !existing.Valid || existing.Key != key {
			continue
		}
		if depth < existing.Depth && !(flag == TTExact && existing.Flag != TTExact) {
			return
		}
		tt.entries[idx] = entry
		return
	}

	victim := start
	for i := 0; i < tt.buckets; i++ {
		idx := start + i
		if !tt.entries[idx].Valid {
			tt.entries[idx] = entry
			tt.count++
			return
		}
		if tt.entries[idx].Depth < tt.entries[victim].Depth {
			victim = idx
		}
	}
	tt.entries[victim] = entry
}

// Lookup returns a usable score for the window, honouring depth and bound.
func (tt *TranspositionTable) Lookup(key uint64, depth int, alpha, beta float64) (float64, bool) {
	entry, ok := tt.Probe(key)
	if !ok || entry.Depth < depth {
		return 0, false
	}
	switch entry.Flag {
	case TTExact:
		return entry.Score, true
	case TTLower:
		if entry.Score >= beta {
			return entry.Score, true
		}
	case TTUpper:
		if entry.Score <= alpha {
			return entry.Score, true
		}
	}
	return 0, false
}

func nextPowerOfTwo(v uint64) uint64 {
	if v == 0 {
		return 1
	}
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	v |= v >> 32
	return v + 1
}
