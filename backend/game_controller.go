package main

import (
	"sync"

	"github.com/sh0ck-zy/fianco-game-AI/engine"
)

type GameController struct {
	mu            sync.Mutex
	game          Game
	hintEnabled   func() bool
	hintPublisher func(hintPayload)
}

func NewGameController(settings GameSettings) *GameController {
	return &GameController{game: NewGame(settings)}
}

func (gc *GameController) SetHintPublisher(enabled func() bool, publisher func(hintPayload)) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.hintEnabled = enabled
	gc.hintPublisher = publisher
}

func (gc *GameController) OnCellMove(move engine.Move) bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.SubmitHumanMove(move)
}

func (gc *GameController) ApplyHumanMove(move engine.Move) (bool, string) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	if !gc.game.CurrentPlayerIsHuman() {
		return false, "not human turn"
	}
	return gc.game.TryApplyMove(move, moveMeta{})
}

func (gc *GameController) Undo() (int, error) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Undo()
}

func (gc *GameController) Tick() bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	hintsEnabled := false
	if gc.hintEnabled != nil {
		hintsEnabled = gc.hintEnabled()
	}
	return gc.game.Tick(hintsEnabled, gc.hintPublisher)
}

func (gc *GameController) State() GameState {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.State()
}

func (gc *GameController) Settings() GameSettings {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.settings
}

func (gc *GameController) History() MoveHistory {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.History()
}

func (gc *GameController) CurrentTurnStartedAtMs() int64 {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.TurnStartedAtMs()
}

func (gc *GameController) LatestHistoryEntry() (MoveRecord, bool) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.history.Last()
}

func (gc *GameController) AiThinking() bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.AiThinking()
}

// LegalMoves lists the moves side could play in the current position.
func (gc *GameController) LegalMoves(side engine.Side) []engine.Move {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return engine.GenerateMoves(gc.game.pos, side)
}

func (gc *GameController) Reset(settings GameSettings) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.game.Reset(settings)
}

func (gc *GameController) StartGame(settings GameSettings) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.game.Reset(settings)
	gc.game.Start()
}

// Restore replays a saved game and returns how many moves were accepted.
func (gc *GameController) Restore(settings GameSettings, moves []engine.Move) int {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Replay(settings, moves)
}

// UpdateSettings swaps the player types in place, keeping the board.
func (gc *GameController) UpdateSettings(update GameSettings) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.game.settings = update
	gc.game.createPlayers()
}

func (gc *GameController) Shutdown() {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.game.stopPlayers()
	gc.game.stopHint(nil)
}
