package engine

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type SearchOptions struct {
	TTSize    uint64
	TTBuckets int
	DisableTT bool
	// DisablePruning searches every node with an open window and no cutoffs.
	DisablePruning bool
	// RootWorkers > 1 splits the root moves across goroutines, each with its
	// own position clone and table.
	RootWorkers int
	Logger      *zerolog.Logger
	LogStats    bool
}

func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		TTSize:      1 << 14,
		TTBuckets:   2,
		RootWorkers: 1,
	}
}

type SearchResult struct {
	Move      Move
	Score     float64
	Depth     int
	Completed int
	Total     int
	Nodes     uint64
	TTHits    uint64
	TimedOut  bool
	Elapsed   time.Duration
}

// Searcher owns one transposition table per root worker. The tables are
// cleared at the start of every Search; concurrent Search calls on the same
// Searcher run one after the other.
type Searcher struct {
	mu     sync.Mutex
	opts   SearchOptions
	logger zerolog.Logger
	tables []*TranspositionTable
}

func NewSearcher(opts SearchOptions) *Searcher {
	if opts.RootWorkers < 1 {
		opts.RootWorkers = 1
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = opts.Logger.With().Str("component", "search").Logger()
	}
	return &Searcher{opts: opts, logger: logger}
}

// GetBestMove searches pos with default options.
func GetBestMove(pos *Position, depth int, budget time.Duration) (Move, error) {
	return NewSearcher(DefaultSearchOptions()).BestMove(context.Background(), pos, depth, budget)
}

func (s *Searcher) BestMove(ctx context.Context, pos *Position, depth int, budget time.Duration) (Move, error) {
	result, err := s.Search(ctx, pos, depth, budget)
	if err != nil {
		return Move{}, err
	}
	return result.Move, nil
}

// Search runs a fixed-depth negamax from pos and never mutates it. When the
// budget runs out or ctx is cancelled, the best fully searched root move is
// returned; ErrSearchExhausted is returned if no root move was finished.
func (s *Searcher) Search(ctx context.Context, pos *Position, depth int, budget time.Duration) (SearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()
	if depth < 1 {
		depth = 1
	}
	if outcome := Decide(pos); outcome.Decided() {
		return SearchResult{}, fmt.Errorf("%w: game already decided by %s", ErrNoMovesAvailable, outcome.Reason)
	}
	moves := GenerateMoves(pos, pos.SideToMove)
	if len(moves) == 0 {
		return SearchResult{}, ErrNoMovesAvailable
	}
	OrderMoves(moves, pos.SideToMove)

	deadline := start.Add(budget)
	workers := s.opts.RootWorkers
	if workers > len(moves) {
		workers = len(moves)
	}

	s.prepareTables(workers)
	results := make([]rootResult, workers)
	if workers == 1 {
		results[0] = s.newWorker(ctx, pos, deadline, 0).searchRoot(moves, indexRange(len(moves)), depth)
	} else {
		g, gctx := errgroup.WithContext(ctx)
		for w := 0; w < workers; w++ {
			w := w
			var indexes []int
			for i := w; i < len(moves); i += workers {
				indexes = append(indexes, i)
			}
			g.Go(func() error {
				results[w] = s.newWorker(gctx, pos, deadline, w).searchRoot(moves, indexes, depth)
				return nil
			})
		}
		_ = g.Wait()
	}

	result := SearchResult{Depth: depth, Total: len(moves)}
	bestIndex := -1
	for _, r := range results {
		result.Completed += r.completed
		result.Nodes += r.nodes
		result.TTHits += r.ttHits
		result.TimedOut = result.TimedOut || r.timedOut
		if r.bestIndex < 0 {
			continue
		}
		if bestIndex < 0 || r.score > result.Score || (r.score == result.Score && r.bestIndex < bestIndex) {
			bestIndex = r.bestIndex
			result.Score = r.score
		}
	}
	result.Elapsed = time.Since(start)
	if s.opts.LogStats {
		s.logger.Debug().
			Int("depth", depth).
			Int("completed", result.Completed).
			Int("total", result.Total).
			Uint64("nodes", result.Nodes).
			Uint64("tt_hits", result.TTHits).
			Bool("timed_out", result.TimedOut).
			Dur("elapsed", result.Elapsed).
			Float64("score", result.Score).
			Msg("search-stats")
	}
	if bestIndex < 0 {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("%w: %w", ErrSearchExhausted, err)
		}
		return result, ErrSearchExhausted
	}
	result.Move = moves[bestIndex]
	return result, nil
}

type rootResult struct {
	bestIndex int
	score     float64
	completed int
	nodes     uint64
	ttHits    uint64
	timedOut  bool
}

type searchWorker struct {
	ctx      context.Context
	pos      *Position
	tt       *TranspositionTable
	deadline time.Time
	pruning  bool
	buffers  [][]Move
	nodes    uint64
	ttHits   uint64
}

func (s *Searcher) prepareTables(workers int) {
	if s.opts.DisableTT {
		return
	}
	for len(s.tables) < workers {
		s.tables = append(s.tables, NewTranspositionTable(s.opts.TTSize, s.opts.TTBuckets))
	}
	for i := 0; i < workers; i++ {
		s.tables[i].Clear()
	}
}

func (s *Searcher) newWorker(ctx context.Context, pos *Position, deadline time.Time, index int) *searchWorker {
	w := &searchWorker{
		ctx:      ctx,
		pos:      pos.Clone(),
		deadline: deadline,
		pruning:  !s.opts.DisablePruning,
	}
	if !s.opts.DisableTT {
		w.tt = s.tables[index]
	}
	return w
}

func (w *searchWorker) searchRoot(moves []Move, indexes []int, depth int) rootResult {
	result := rootResult{bestIndex: -1}
	alpha, beta := math.Inf(-1), math.Inf(1)
	color := sideSign(w.pos.SideToMove)
	for _, idx := range indexes {
		w.pos.Play(moves[idx])
		value, ok := w.negamax(depth-1, -beta, -alpha, -color)
		w.pos.Undo()
		if !ok {
			result.timedOut = true
			break
		}
		value = -value
		result.completed++
		if result.bestIndex < 0 || value > result.score {
			result.bestIndex = idx
			result.score = value
		}
		if w.pruning {
			alpha = math.Max(alpha, value)
			if alpha >= beta {
				break
			}
		}
	}
	result.nodes = w.nodes
	result.ttHits = w.ttHits
	return result
}

// negamax returns the value of the current position for the side to move.
// ok is false once the deadline or the context has expired; the caller must
// then discard the value and unwind.
func (w *searchWorker) negamax(depth int, alpha, beta, color float64) (float64, bool) {
	if w.expired() {
		return 0, false
	}
	w.nodes++
	key := w.pos.Hash()
	if w.tt != nil {
		if score, ok := w.tt.Lookup(key, depth, alpha, beta); ok {
			w.ttHits++
			return score, true
		}
	}

	outcome := Decide(w.pos)
	if depth == 0 || outcome.Decided() {
		score := color * scoreForA(w.pos, outcome)
		if w.tt != nil {
			w.tt.Store(key, depth, score, TTExact, Move{})
		}
		return score, true
	}

	alphaOrig := alpha
	side := w.pos.SideToMove
	moves := generateInto(&w.pos.Board, side, w.buffer(depth))
	w.buffers[depth] = moves
	OrderMoves(moves, side)
	best := math.Inf(-1)
	var bestMove Move
	for _, move := range moves {
		w.pos.Play(move)
		value, ok := w.negamax(depth-1, -beta, -alpha, -color)
		w.pos.Undo()
		if !ok {
			return 0, false
		}
		value = -value
		if value > best {
			best = value
			bestMove = move
		}
		if w.pruning {
			alpha = math.Max(alpha, value)
			if alpha >= beta {
				break
			}
		}
	}

	if w.tt != nil {
		flag := TTExact
		if w.pruning {
			if best <= alphaOrig {
				flag = TTUpper
			} else if best >= beta {
				flag = TTLower
			}
		}
		w.tt.Store(key, depth, best, flag, bestMove)
	}
	return best, true
}

func (w *searchWorker) expired() bool {
	if !time.Now().Before(w.deadline) {
		return true
	}
	return w.ctx.Err() != nil
}

// buffer hands out one move slice per remaining depth so recursion does not
// clobber a parent's list.
func (w *searchWorker) buffer(depth int) []Move {
	for len(w.buffers) <= depth {
		w.buffers = append(w.buffers, make([]Move, 0, 32))
	}
	return w.buffers[depth]
}

// scoreForA is the static score with Side A as the positive reference.
func scoreForA(pos *Position, outcome Outcome) float64 {
	return sideSign(pos.SideToMove) * evaluateWith(pos, outcome)
}

func sideSign(side Side) float64 {
	if side == SideA {
		return 1
	}
	return -1
}

func indexRange(n int) []int {
	indexes := make([]int, n)
	for i := range indexes {
		indexes[i] = i
	}
	return indexes
}
