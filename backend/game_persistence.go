package main

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sh0ck-zy/fianco-game-AI/engine"
)

const gameSnapshotVersion = 1

// gameSnapshot is the on-disk form of a game: the player setup and the move
// list. The position is rebuilt by replaying the moves.
type gameSnapshot struct {
	Version int
	AType   PlayerType
	BType   PlayerType
	Started bool
	Moves   []engine.Move
	SavedAt time.Time
}

var errNoSavedGame = errors.New("no saved game")

func snapshotFromController(controller *GameController) gameSnapshot {
	settings := controller.Settings()
	state := controller.State()
	return gameSnapshot{
		Version: gameSnapshotVersion,
		AType:   settings.AType,
		BType:   settings.BType,
		Started: state.Status != StatusNotStarted,
		Moves:   controller.History().Moves(),
		SavedAt: time.Now(),
	}
}

func saveGame(path string, snapshot gameSnapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	tmp := path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}
	if err := gob.NewEncoder(file).Encode(snapshot); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode game: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	return os.Rename(tmp, path)
}

func loadGame(path string) (gameSnapshot, error) {
	var snapshot gameSnapshot
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return snapshot, errNoSavedGame
		}
		return snapshot, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()
	if err := gob.NewDecoder(file).Decode(&snapshot); err != nil {
		return snapshot, fmt.Errorf("decode %s: %w", path, err)
	}
	if snapshot.Version != gameSnapshotVersion {
		return snapshot, fmt.Errorf("%s: unsupported snapshot version %d", path, snapshot.Version)
	}
	return snapshot, nil
}

func persistGame(controller *GameController, cfg Config) {
	logger := componentLogger("persist")
	if !cfg.PersistGame || cfg.StatePath == "" {
		return
	}
	snapshot := snapshotFromController(controller)
	if err := saveGame(cfg.StatePath, snapshot); err != nil {
		logger.Error().Err(err).Str("path", cfg.StatePath).Msg("save-failed")
		return
	}
	logger.Info().Str("path", cfg.StatePath).Int("moves", len(snapshot.Moves)).Msg("game-saved")
}

// restoreGame replays a saved game into controller. Moves that no longer
// replay legally are dropped along with everything after them.
func restoreGame(controller *GameController, cfg Config) {
	logger := componentLogger("persist")
	if !cfg.PersistGame || cfg.StatePath == "" {
		return
	}
	snapshot, err := loadGame(cfg.StatePath)
	if err != nil {
		if errors.Is(err, errNoSavedGame) {
			logger.Info().Str("path", cfg.StatePath).Msg("no-saved-game")
		} else {
			logger.Warn().Err(err).Msg("load-failed")
		}
		return
	}
	settings := GameSettings{AType: snapshot.AType, BType: snapshot.BType}
	if !snapshot.Started {
		controller.Reset(settings)
		return
	}
	applied := controller.Restore(settings, snapshot.Moves)
	if applied < len(snapshot.Moves) {
		logger.Warn().Int("applied", applied).Int("saved", len(snapshot.Moves)).Msg("replay-truncated")
	}
	logger.Info().Int("moves", applied).Time("saved_at", snapshot.SavedAt).Msg("game-restored")
}
