package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lukechampine.com/frand"
)

func main() {
	logger, closeLog, err := buildLogger(getenv("TRAINER_LOG_PATH", "/logs/AITrainer.log"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	baseURL := getenv("BACKEND_URL", "http://backend:8080")
	pollMs := getenvInt("POLL_INTERVAL_MS", 2000)
	mode := getenv("TRAINER_MODE", modeArena)
	apiAddr := getenv("TRAINER_API_ADDR", ":8090")
	autostart := getenv("TRAINER_AUTOSTART_MODE", "")
	profiles, err := parseProfiles(getenv("TRAINER_PROFILES", defaultProfiles))
	if err != nil {
		logger.Warn().Err(err).Msg("invalid TRAINER_PROFILES, using defaults")
		profiles, _ = parseProfiles(defaultProfiles)
	}
	openings := getenvInt("TRAINER_OPENINGS", 4)
	openingPlies := getenvInt("TRAINER_OPENING_PLIES", 4)
	if openingPlies%2 != 0 {
		openingPlies++
	}
	eloK := getenvFloat("TRAINER_ELO_K", 20)
	if eloK <= 0 {
		eloK = 20
	}
	gameTimeoutSec := getenvInt("TRAINER_GAME_TIMEOUT_SEC", 600)
	maxPlies := getenvInt("TRAINER_MAX_PLIES", 300)

	t := &trainer{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:      baseURL,
		pollInterval: time.Duration(pollMs) * time.Millisecond,
		logger:       logger,
		mode:         mode,
		apiAddr:      apiAddr,
		rng:          frand.New(),
		profiles:     profiles,
		openings:     openings,
		openingPlies: openingPlies,
		eloK:         eloK,
		gameTimeout:  time.Duration(gameTimeoutSec) * time.Second,
		maxPlies:     maxPlies,
		status: trainerStatus{
			Running:   false,
			Mode:      mode,
			Phase:     "idle",
			Message:   "service ready",
			StartedAt: time.Now().UTC().Format(time.RFC3339),
			UpdatedAt: time.Now().UTC().Format(time.RFC3339),
		},
	}

	t.logger.Info().
		Str("backend", t.baseURL).
		Str("mode", t.mode).
		Dur("poll_interval", t.pollInterval).
		Int("profiles", len(t.profiles)).
		Msg("AI trainer service started")
	t.startStatusAPI()

	if autostart != "" {
		startMode := autostart
		if startMode == "1" || startMode == "true" || startMode == "yes" {
			startMode = mode
		}
		if err := t.startTraining(startMode); err != nil {
			t.logger.Error().Err(err).Msg("autostart failed")
		}
	}

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()
	<-sigCtx.Done()
	_ = t.stopTraining("shutdown")
	t.logger.Info().Msg("trainer service stopping")
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var parsed int
	if _, err := fmt.Sscanf(value, "%d", &parsed); err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func getenvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var parsed float64
	if _, err := fmt.Sscanf(value, "%f", &parsed); err != nil {
		return fallback
	}
	return parsed
}
