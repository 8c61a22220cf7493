package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"lukechampine.com/frand"
)

const (
	modeArena = "arena"
	modeWatch = "watch"
)

type trainer struct {
	client       *http.Client
	baseURL      string
	pollInterval time.Duration
	logger       zerolog.Logger
	mode         string
	apiAddr      string
	rng          *frand.RNG

	profiles     []searchProfile
	openings     int
	openingPlies int
	eloK         float64
	gameTimeout  time.Duration
	maxPlies     int

	statusMu  sync.RWMutex
	status    trainerStatus
	jobMu     sync.Mutex
	jobCancel context.CancelFunc
	jobDone   chan struct{}
}

type trainerStatus struct {
	Running     bool   `json:"running"`
	Mode        string `json:"mode"`
	Phase       string `json:"phase"`
	Message     string `json:"message"`
	StartedAt   string `json:"started_at"`
	UpdatedAt   string `json:"updated_at"`
	GamesPlayed int    `json:"games_played"`
	Round       int    `json:"round"`
	WinsA       int    `json:"wins_a"`
	WinsB       int    `json:"wins_b"`
	Draws       int    `json:"draws"`
	EtaSeconds  int    `json:"eta_seconds"`

	CurrentMatch *trainerMatch     `json:"current_match,omitempty"`
	Standings    []trainerStanding `json:"standings,omitempty"`
}

type trainerMatch struct {
	AID          string `json:"a_id"`
	BID          string `json:"b_id"`
	OpeningIndex int    `json:"opening_index"`
}

type trainerStanding struct {
	ID      string        `json:"id"`
	Elo     float64       `json:"elo"`
	Games   int           `json:"games"`
	Profile searchProfile `json:"profile"`
}

func (t *trainer) statusRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/api/trainer/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "running": t.getStatus().Running})
	})
	r.Get("/api/trainer/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, t.getStatus())
	})
	r.Post("/api/trainer/start", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Mode string `json:"mode"`
		}
		_ = json.NewDecoder(r.Body).Decode(&payload)
		mode := payload.Mode
		if mode == "" {
			mode = t.mode
		}
		if err := t.startTraining(mode); err != nil {
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, t.getStatus())
	})
	r.Post("/api/trainer/stop", func(w http.ResponseWriter, r *http.Request) {
		if err := t.stopTraining("requested via api"); err != nil {
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, t.getStatus())
	})
	return r
}

func (t *trainer) startStatusAPI() {
	server := &http.Server{Addr: t.apiAddr, Handler: t.statusRouter()}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.logger.Error().Err(err).Msg("trainer api server error")
		}
	}()
}

func (t *trainer) getStatus() trainerStatus {
	t.statusMu.RLock()
	defer t.statusMu.RUnlock()
	return t.status
}

func (t *trainer) updateStatus(mutator func(*trainerStatus)) {
	t.statusMu.Lock()
	defer t.statusMu.Unlock()
	mutator(&t.status)
	t.status.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
}

func (t *trainer) startTraining(mode string) error {
	t.jobMu.Lock()
	defer t.jobMu.Unlock()
	if t.jobCancel != nil {
		return fmt.Errorf("training already running")
	}
	switch mode {
	case "":
		mode = t.mode
	case modeArena, modeWatch:
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	t.jobCancel = cancel
	t.jobDone = done
	t.updateStatus(func(s *trainerStatus) {
		s.Running = true
		s.Mode = mode
		s.Phase = "starting"
		s.Message = "training starting"
		s.GamesPlayed = 0
		s.WinsA, s.WinsB, s.Draws = 0, 0, 0
	})
	go func() {
		defer close(done)
		if err := t.waitBackendReady(ctx); err != nil {
			t.updateStatus(func(s *trainerStatus) {
				s.Phase = "error"
				s.Message = err.Error()
			})
		} else if err := t.runMode(ctx, mode); err != nil && !errors.Is(err, context.Canceled) {
			t.logger.Error().Err(err).Str("mode", mode).Msg("training failed")
			t.updateStatus(func(s *trainerStatus) {
				s.Phase = "error"
				s.Message = err.Error()
			})
		}
		t.updateStatus(func(s *trainerStatus) {
			s.Running = false
			s.CurrentMatch = nil
			if s.Phase != "error" {
				s.Phase = "idle"
				s.Message = "service ready"
			}
		})
		t.jobMu.Lock()
		t.jobCancel = nil
		t.jobDone = nil
		t.jobMu.Unlock()
	}()
	return nil
}

func (t *trainer) stopTraining(reason string) error {
	t.jobMu.Lock()
	cancel := t.jobCancel
	done := t.jobDone
	t.jobMu.Unlock()
	if cancel == nil {
		return fmt.Errorf("no running training job")
	}
	t.logger.Info().Str("reason", reason).Msg("stopping training")
	cancel()
	if done != nil {
		<-done
	}
	t.updateStatus(func(s *trainerStatus) {
		s.Running = false
		s.Phase = "idle"
		s.Message = "service ready"
	})
	return nil
}

func (t *trainer) runMode(ctx context.Context, mode string) error {
	if mode == modeWatch {
		return t.runWatch(ctx)
	}
	return t.runArena(ctx)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// buildLogger writes to stdout and appends to the file at path.
func buildLogger(path string) (zerolog.Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	out := io.MultiWriter(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.DateTime}, f)
	logger := zerolog.New(out).With().Timestamp().Str("component", "trainer").Logger()
	return logger, func() { _ = f.Close() }, nil
}
