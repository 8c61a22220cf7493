package main

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/sh0ck-zy/fianco-game-AI/engine"
)

// aiDecision is a finished search. Key and Ply identify the position it was
// computed for so stale results can be dropped after an undo or reset.
type aiDecision struct {
	Move     engine.Move
	Depth    int
	Score    float64
	Elapsed  time.Duration
	Fallback bool
	Key      uint64
	Ply      int
}

type AIPlayer struct {
	moveMutex   sync.Mutex
	workerDone  chan struct{}
	cancel      context.CancelFunc
	thinking    atomic.Bool
	moveReady   atomic.Bool
	readyMove   aiDecision
	searcher    *engine.Searcher
	searcherCfg Config
	logger      zerolog.Logger
}

func NewAIPlayer() *AIPlayer {
	return &AIPlayer{logger: componentLogger("ai")}
}

func (a *AIPlayer) IsHuman() bool {
	return false
}

func (a *AIPlayer) searcherFor(config Config) *engine.Searcher {
	if a.searcher == nil || a.searcherCfg != config {
		a.searcher = engine.NewSearcher(config.SearchOptions(&a.logger))
		a.searcherCfg = config
	}
	return a.searcher
}

// ChooseMove searches pos synchronously. When the budget expires before any
// root move finishes, the first ordered legal move is played instead so the
// game never stalls.
func (a *AIPlayer) ChooseMove(ctx context.Context, pos *engine.Position, config Config) (aiDecision, error) {
	decision := aiDecision{Key: pos.Hash(), Ply: len(pos.History)}
	result, err := a.searcherFor(config).Search(ctx, pos, config.AiDepth, config.TimeBudget())
	decision.Elapsed = result.Elapsed
	switch {
	case err == nil:
		decision.Move = result.Move
		decision.Depth = result.Depth
		decision.Score = result.Score
		if result.TimedOut {
			a.logger.Warn().
				Int("completed", result.Completed).
				Int("total", result.Total).
				Msg("search-timed-out")
		}
		return decision, nil
	case errors.Is(err, engine.ErrSearchExhausted) && ctx.Err() == nil:
		moves := engine.GenerateMoves(pos, pos.SideToMove)
		if len(moves) == 0 {
			return decision, engine.ErrNoMovesAvailable
		}
		engine.OrderMoves(moves, pos.SideToMove)
		a.logger.Warn().Err(err).Str("move", moves[0].String()).Msg("search-fallback")
		decision.Move = moves[0]
		decision.Fallback = true
		return decision, nil
	default:
		return decision, err
	}
}

// StartThinking runs ChooseMove on a private clone of pos in the background.
func (a *AIPlayer) StartThinking(pos *engine.Position, config Config) {
	if a.thinking.Load() || a.moveReady.Load() {
		return
	}
	if a.workerDone != nil {
		<-a.workerDone
	}
	a.thinking.Store(true)
	a.moveReady.Store(false)

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	done := make(chan struct{})
	a.workerDone = done
	position := pos.Clone()
	go func() {
		defer close(done)
		defer a.thinking.Store(false)
		decision, err := a.ChooseMove(ctx, position, config)
		if err != nil {
			if ctx.Err() == nil {
				a.logger.Error().Err(err).Msg("search-failed")
			}
			return
		}
		a.moveMutex.Lock()
		a.readyMove = decision
		a.moveMutex.Unlock()
		a.moveReady.Store(true)
	}()
}

// StopThinking cancels a running search and drops any unclaimed result.
func (a *AIPlayer) StopThinking() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.workerDone != nil {
		<-a.workerDone
	}
	a.moveReady.Store(false)
}

func (a *AIPlayer) IsThinking() bool {
	return a.thinking.Load()
}

func (a *AIPlayer) HasMoveReady() bool {
	return a.moveReady.Load()
}

func (a *AIPlayer) TakeMove() aiDecision {
	a.moveMutex.Lock()
	defer a.moveMutex.Unlock()
	a.moveReady.Store(false)
	return a.readyMove
}

func (d aiDecision) matches(pos *engine.Position) bool {
	return d.Key == pos.Hash() && d.Ply == len(pos.History)
}
