package main

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sh0ck-zy/fianco-game-AI/engine"
	"github.com/sh0ck-zy/fianco-game-AI/notation"
)

type Game struct {
	settings    GameSettings
	pos         *engine.Position
	status      GameStatus
	outcome     engine.Outcome
	history     MoveHistory
	playerA     IPlayer
	playerB     IPlayer
	hintAI      *AIPlayer
	hintKey     uint64
	turnStart   time.Time
	clocks      [2]time.Duration
	lastMessage string
	logger      zerolog.Logger
}

// moveMeta carries search details for AI moves into the history.
type moveMeta struct {
	IsAi  bool
	Depth int
	Score float64
}

func NewGame(settings GameSettings) Game {
	g := Game{logger: componentLogger("game")}
	g.Reset(settings)
	return g
}

func (g *Game) Reset(settings GameSettings) {
	g.stopPlayers()
	g.stopHint(nil)
	g.settings = settings
	g.pos = engine.NewGame()
	g.status = StatusNotStarted
	g.outcome = engine.Outcome{}
	g.history.Clear()
	g.clocks = [2]time.Duration{}
	g.lastMessage = ""
	g.createPlayers()
	g.turnStart = time.Now()
	g.logMatchup()
}

func (g *Game) Start() {
	if g.status == StatusNotStarted {
		g.status = StatusRunning
		g.turnStart = time.Now()
	}
}

func (g *Game) State() GameState {
	clocks := g.clocks
	if g.status == StatusRunning {
		clocks[g.pos.SideToMove] += time.Since(g.turnStart)
	}
	return GameState{
		Position:    g.pos.Clone(),
		Status:      g.status,
		Outcome:     g.outcome,
		LastMessage: g.lastMessage,
		Clocks:      clocks,
	}
}

func (g *Game) History() MoveHistory {
	return MoveHistory{entries: g.history.All()}
}

func (g *Game) TurnStartedAtMs() int64 {
	if g.turnStart.IsZero() {
		return 0
	}
	return g.turnStart.UnixMilli()
}

func (g *Game) TryApplyMove(move engine.Move, meta moveMeta) (bool, string) {
	if g.status != StatusRunning {
		return false, "game not running"
	}
	mover := g.pos.SideToMove
	if err := g.pos.Apply(move); err != nil {
		g.lastMessage = "Illegal move: " + notation.Format(move)
		return false, g.lastMessage
	}
	g.stopHint(nil)
	g.lastMessage = ""
	elapsed := time.Since(g.turnStart)
	g.clocks[mover] += elapsed
	entry := MoveRecord{
		Move:      move,
		Side:      mover,
		ElapsedMs: float64(elapsed.Milliseconds()),
		IsAi:      meta.IsAi,
		Depth:     meta.Depth,
		Score:     meta.Score,
		Capture:   move.IsCapture(),
	}
	g.history.Push(entry)
	g.logMovePlayed(entry)

	if outcome := engine.Decide(g.pos); outcome.Decided() {
		g.outcome = outcome
		g.status = StatusFinished
		g.logWin(outcome)
	}
	g.turnStart = time.Now()
	return true, ""
}

// Undo takes back the last move. Against an AI opponent a second move is
// taken back so the human is to move again. It returns how many moves were
// undone.
func (g *Game) Undo() (int, error) {
	if g.status == StatusNotStarted {
		return 0, fmt.Errorf("game not started: %w", engine.ErrNoHistory)
	}
	g.stopPlayers()
	g.stopHint(nil)
	undone := 0
	for {
		if _, err := g.pos.Undo(); err != nil {
			if undone == 0 {
				return 0, err
			}
			break
		}
		if record, ok := g.history.Pop(); ok {
			g.clocks[record.Side] -= time.Duration(record.ElapsedMs) * time.Millisecond
			if g.clocks[record.Side] < 0 {
				g.clocks[record.Side] = 0
			}
		}
		undone++
		if undone >= 2 || !g.settings.HasAIOpponent() || g.currentPlayer().IsHuman() {
			break
		}
	}
	g.outcome = engine.Decide(g.pos)
	g.status = StatusRunning
	if g.outcome.Decided() {
		g.status = StatusFinished
	}
	g.lastMessage = ""
	g.turnStart = time.Now()
	g.logger.Info().Int("undone", undone).Int("moves", g.history.Size()).Msg("undo")
	return undone, nil
}

// Replay resets to settings and plays moves in order, stopping at the first
// one that is not legal. It returns how many were applied.
func (g *Game) Replay(settings GameSettings, moves []engine.Move) int {
	g.Reset(settings)
	g.Start()
	for i, move := range moves {
		if ok, reason := g.TryApplyMove(move, moveMeta{}); !ok {
			g.logger.Warn().Int("index", i).Str("move", notation.Format(move)).Str("reason", reason).Msg("replay-stopped")
			return i
		}
	}
	return len(moves)
}

// Tick advances the game by at most one move. hintSink, when set, receives
// background move suggestions while a human is to move.
func (g *Game) Tick(hintsEnabled bool, hintSink func(hintPayload)) bool {
	if g.status != StatusRunning {
		g.stopHint(hintSink)
		return false
	}
	player := g.currentPlayer()
	if player.IsHuman() {
		if hintsEnabled && hintSink != nil {
			g.updateHint(hintSink)
		} else {
			g.stopHint(hintSink)
		}
		human, ok := player.(*HumanPlayer)
		if ok && human.HasPendingMove() {
			move := human.TakePendingMove()
			applied, _ := g.TryApplyMove(move, moveMeta{})
			return applied
		}
		return false
	}
	g.stopHint(hintSink)
	ai, ok := player.(*AIPlayer)
	if !ok {
		return false
	}
	if ai.HasMoveReady() {
		decision := ai.TakeMove()
		if !decision.matches(g.pos) {
			return false
		}
		applied, _ := g.TryApplyMove(decision.Move, moveMeta{IsAi: true, Depth: decision.Depth, Score: decision.Score})
		return applied
	}
	if !ai.IsThinking() {
		ai.StartThinking(g.pos, GetConfig())
	}
	return false
}

func (g *Game) SubmitHumanMove(move engine.Move) bool {
	human, ok := g.currentPlayer().(*HumanPlayer)
	if !ok || g.status != StatusRunning {
		return false
	}
	human.SetPendingMove(move)
	return true
}

func (g *Game) CurrentPlayerIsHuman() bool {
	return g.currentPlayer().IsHuman()
}

func (g *Game) AiThinking() bool {
	ai, ok := g.currentPlayer().(*AIPlayer)
	return ok && ai.IsThinking()
}

func (g *Game) currentPlayer() IPlayer {
	return g.playerFor(g.pos.SideToMove)
}

func (g *Game) playerFor(side engine.Side) IPlayer {
	if side == engine.SideA {
		return g.playerA
	}
	return g.playerB
}

func (g *Game) createPlayers() {
	g.stopPlayers()
	g.playerA = newPlayer(g.settings.AType)
	g.playerB = newPlayer(g.settings.BType)
	if g.hintAI == nil {
		g.hintAI = NewAIPlayer()
	}
}

func newPlayer(kind PlayerType) IPlayer {
	if kind == PlayerAI {
		return NewAIPlayer()
	}
	return NewHumanPlayer()
}

func (g *Game) stopPlayers() {
	for _, player := range []IPlayer{g.playerA, g.playerB} {
		if ai, ok := player.(*AIPlayer); ok {
			ai.StopThinking()
		}
	}
}

func (g *Game) updateHint(sink func(hintPayload)) {
	key := g.pos.Hash() ^ uint64(len(g.pos.History)+1)
	if g.hintKey == key {
		if !g.hintAI.HasMoveReady() {
			return
		}
		decision := g.hintAI.TakeMove()
		if decision.matches(g.pos) {
			sink(hintFromDecision(decision, g.pos.SideToMove, g.history.Size()))
		}
		return
	}
	g.stopHint(nil)
	g.hintKey = key
	config := GetConfig()
	config.AiDepth = config.HintDepth
	g.hintAI.StartThinking(g.pos, config)
}

func (g *Game) stopHint(sink func(hintPayload)) {
	if g.hintKey == 0 {
		return
	}
	g.hintKey = 0
	if g.hintAI != nil {
		g.hintAI.StopThinking()
	}
	if sink != nil {
		sink(hintPayload{Active: false})
	}
}

func (g *Game) logMatchup() {
	label := func(t PlayerType) string {
		if t == PlayerAI {
			return "AI"
		}
		return "Human"
	}
	g.logger.Info().
		Str("side_a", label(g.settings.AType)).
		Str("side_b", label(g.settings.BType)).
		Msg("new-game")
}

func (g *Game) logMovePlayed(entry MoveRecord) {
	g.logger.Info().
		Str("side", entry.Side.String()).
		Str("move", entry.Notation()).
		Bool("ai", entry.IsAi).
		Bool("capture", entry.Capture).
		Float64("elapsed_ms", entry.ElapsedMs).
		Int("captured_total", g.pos.CapturedBy(entry.Side)).
		Msg("move")
}

func (g *Game) logWin(outcome engine.Outcome) {
	g.logger.Info().
		Str("winner", outcome.Winner.String()).
		Str("reason", outcome.Reason.String()).
		Int("moves", g.history.Size()).
		Msg("game-over")
}
