package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const tickInterval = 50 * time.Millisecond

func main() {
	setupLogging()
	logger := componentLogger("backend")

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("config")
	}
	configStore.Update(cfg)

	controller := NewGameController(DefaultGameSettings())
	restoreGame(controller, cfg)

	hub := NewHub("status")
	hintHub := NewHub("hint")
	controller.SetHintPublisher(
		func() bool { return hintHub.HasClients() && GetConfig().HintsEnabled },
		func(payload hintPayload) { hintHub.Publish("hint", payload) },
	)
	srv := newServer(controller, hub, hintHub)
	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()
	g, ctx := errgroup.WithContext(sigCtx)

	g.Go(func() error {
		hub.Run(ctx.Done())
		return nil
	})
	g.Go(func() error {
		hintHub.Run(ctx.Done())
		return nil
	})
	g.Go(func() error {
		ticker := time.NewTicker(tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if controller.Tick() {
					srv.publishLatest()
				}
			}
		}
	})
	g.Go(func() error {
		logger.Info().Str("addr", cfg.ListenAddr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info().Msg("shutting-down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn().Err(err).Msg("graceful-shutdown-failed")
			return server.Close()
		}
		return nil
	})

	runErr := g.Wait()
	controller.Shutdown()
	persistGame(controller, GetConfig())
	if runErr != nil {
		log.Error().Err(runErr).Msg("backend exited with error")
		os.Exit(1)
	}
}
