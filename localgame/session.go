// Package localgame runs a single human vs AI game in process for the desktop
// and terminal front-ends.
package localgame

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sh0ck-zy/fianco-game-AI/engine"
)

const RecentMoves = 20

var ErrNotYourTurn = errors.New("not your turn")

type Config struct {
	Depth  int
	Budget time.Duration
	Search engine.SearchOptions
	Logger *zerolog.Logger
	// OnChange is called from the AI goroutine after it plays a move.
	OnChange func()
}

func DefaultConfig() Config {
	return Config{
		Depth:  3,
		Budget: 5 * time.Second,
		Search: engine.DefaultSearchOptions(),
	}
}

type MoveLog struct {
	Side    engine.Side
	Move    engine.Move
	Elapsed time.Duration
	IsAI    bool
}

func (m MoveLog) Seconds() float64 {
	return m.Elapsed.Seconds()
}

// View is a copy of the session state for drawing.
type View struct {
	Board     engine.Board
	ToMove    engine.Side
	Human     engine.Side
	Recent    []MoveLog
	MoveCount int
	Captures  [2]int
	Clocks    [2]time.Duration
	Selected  *[2]int
	Targets   []engine.Move
	Thinking  bool
	Outcome   engine.Outcome
	LastMove  *engine.Move
}

type Session struct {
	mu        sync.Mutex
	cfg       Config
	pos       *engine.Position
	human     engine.Side
	searcher  *engine.Searcher
	logger    zerolog.Logger
	log       []MoveLog
	clocks    [2]time.Duration
	turnStart time.Time
	now       func() time.Time

	selected *[2]int
	targets  []engine.Move

	thinking bool
	cancel   context.CancelFunc
	done     chan struct{}
	gen      int
}

func New(human engine.Side, cfg Config) *Session {
	if cfg.Depth < 1 {
		cfg.Depth = 1
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = cfg.Logger.With().Str("component", "localgame").Logger()
	}
	cfg.Search.Logger = &logger
	s := &Session{
		cfg:      cfg,
		pos:      engine.NewGame(),
		human:    human,
		searcher: engine.NewSearcher(cfg.Search),
		logger:   logger,
		now:      time.Now,
	}
	s.turnStart = s.now()
	return s
}

func (s *Session) Human() engine.Side {
	return s.human
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := View{
		Board:     s.pos.Board,
		ToMove:    s.pos.SideToMove,
		Human:     s.human,
		MoveCount: s.pos.MoveCount,
		Captures:  s.pos.Captures,
		Clocks:    s.clocks,
		Thinking:  s.thinking,
		Outcome:   engine.Decide(s.pos),
	}
	start := len(s.log) - RecentMoves
	if start < 0 {
		start = 0
	}
	v.Recent = append([]MoveLog(nil), s.log[start:]...)
	if s.selected != nil {
		sel := *s.selected
		v.Selected = &sel
	}
	v.Targets = append([]engine.Move(nil), s.targets...)
	if last, ok := s.pos.LastMove(); ok {
		m := last.Move
		v.LastMove = &m
	}
	if !v.Outcome.Decided() {
		v.Clocks[s.pos.SideToMove] += s.now().Sub(s.turnStart)
	}
	return v
}

// Click handles a board click by the human: the first click selects one of
// their pieces, the second plays the move if it lands on a target. Any other
// click clears the selection. It reports whether a move was played.
func (s *Session) Click(row, col int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !engine.InBounds(row, col) {
		s.clearSelection()
		return false, nil
	}
	if s.pos.SideToMove != s.human || engine.Decide(s.pos).Decided() {
		return false, ErrNotYourTurn
	}
	if s.selected != nil {
		from := *s.selected
		move := engine.NewMove(from[0], from[1], row, col)
		for _, target := range s.targets {
			if target.Equals(move) {
				s.clearSelection()
				return true, s.applyLocked(move, false)
			}
		}
		s.clearSelection()
	}
	if s.pos.Board.At(row, col) != s.human.Cell() {
		return false, nil
	}
	s.selected = &[2]int{row, col}
	for _, m := range engine.GenerateMoves(s.pos, s.human) {
		if m.FromRow == row && m.FromCol == col {
			s.targets = append(s.targets, m)
		}
	}
	return false, nil
}

// Play applies a move typed by the human.
func (s *Session) Play(move engine.Move) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pos.SideToMove != s.human || engine.Decide(s.pos).Decided() {
		return ErrNotYourTurn
	}
	s.clearSelection()
	return s.applyLocked(move, false)
}

func (s *Session) applyLocked(move engine.Move, isAI bool) error {
	side := s.pos.SideToMove
	if err := s.pos.Apply(move); err != nil {
		return err
	}
	now := s.now()
	elapsed := now.Sub(s.turnStart)
	s.turnStart = now
	s.clocks[side] += elapsed
	s.log = append(s.log, MoveLog{Side: side, Move: move, Elapsed: elapsed, IsAI: isAI})
	s.logger.Info().
		Str("side", side.String()).
		Str("move", move.String()).
		Bool("ai", isAI).
		Dur("elapsed", elapsed).
		Msg("move-played")
	if outcome := engine.Decide(s.pos); outcome.Decided() {
		s.logger.Info().
			Str("winner", outcome.Winner.String()).
			Str("reason", outcome.Reason.String()).
			Int("moves", s.pos.MoveCount).
			Msg("game-over")
	}
	return nil
}

func (s *Session) clearSelection() {
	s.selected = nil
	s.targets = nil
}

// Undo takes back the last move, and a second one if that leaves the AI to
// move, so the human is on move again. It returns the number of moves taken
// back.
func (s *Session) Undo() (int, error) {
	s.stopAI()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearSelection()
	undone := 0
	for {
		if len(s.log) == 0 {
			break
		}
		if _, err := s.pos.Undo(); err != nil {
			return undone, err
		}
		entry := s.log[len(s.log)-1]
		s.log = s.log[:len(s.log)-1]
		s.clocks[entry.Side] -= entry.Elapsed
		if s.clocks[entry.Side] < 0 {
			s.clocks[entry.Side] = 0
		}
		undone++
		if s.pos.SideToMove == s.human {
			break
		}
	}
	if undone == 0 {
		return 0, fmt.Errorf("undo: %w", engine.ErrNoHistory)
	}
	s.turnStart = s.now()
	return undone, nil
}

// StartAI launches a background search when the AI is to move. It does
// nothing if a search is already running or the game is over.
func (s *Session) StartAI() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.thinking || s.pos.SideToMove == s.human || engine.Decide(s.pos).Decided() {
		return false
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.thinking = true
	s.cancel = cancel
	s.done = done
	s.gen++
	gen := s.gen
	pos := s.pos.Clone()
	go func() {
		defer close(done)
		defer cancel()
		move, err := s.chooseMove(ctx, pos)
		s.mu.Lock()
		if s.gen != gen || ctx.Err() != nil {
			s.mu.Unlock()
			return
		}
		s.thinking = false
		if err != nil {
			s.logger.Error().Err(err).Msg("search-failed")
			s.mu.Unlock()
			return
		}
		if err := s.applyLocked(move, true); err != nil {
			s.logger.Error().Err(err).Msg("ai-move-rejected")
		}
		onChange := s.cfg.OnChange
		s.mu.Unlock()
		if onChange != nil {
			onChange()
		}
	}()
	return true
}

func (s *Session) chooseMove(ctx context.Context, pos *engine.Position) (engine.Move, error) {
	result, err := s.searcher.Search(ctx, pos, s.cfg.Depth, s.cfg.Budget)
	if err == nil {
		return result.Move, nil
	}
	if !errors.Is(err, engine.ErrSearchExhausted) || ctx.Err() != nil {
		return engine.Move{}, err
	}
	moves := engine.GenerateMoves(pos, pos.SideToMove)
	if len(moves) == 0 {
		return engine.Move{}, engine.ErrNoMovesAvailable
	}
	engine.OrderMoves(moves, pos.SideToMove)
	s.logger.Warn().Err(err).Str("move", moves[0].String()).Msg("search-fallback")
	return moves[0], nil
}

func (s *Session) stopAI() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.gen++
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
	s.mu.Lock()
	if s.done == done {
		s.thinking = false
	}
	s.mu.Unlock()
}

// Close cancels a running search and waits for it to return.
func (s *Session) Close() {
	s.stopAI()
}

// ParseColor maps the colour prompt answer to a side: W plays A and moves
// first, B plays B.
func ParseColor(text string) (engine.Side, bool) {
	switch strings.ToUpper(strings.TrimSpace(text)) {
	case "W":
		return engine.SideA, true
	case "B":
		return engine.SideB, true
	default:
		return engine.SideA, false
	}
}
