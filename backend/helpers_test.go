package main

import (
	"testing"
	"time"
)

// withConfig installs a fast search configuration for the duration of a test.
func withConfig(t *testing.T, mutate func(*Config)) {
	t.Helper()
	prev := GetConfig()
	cfg := prev
	cfg.AiDepth = 1
	cfg.AiTimeBudgetMs = 2000
	cfg.PersistGame = false
	if mutate != nil {
		mutate(&cfg)
	}
	configStore.Update(cfg)
	t.Cleanup(func() { configStore.Update(prev) })
}

// tickUntil drives the controller until cond holds or the deadline passes.
func tickUntil(t *testing.T, controller *GameController, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		controller.Tick()
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not reached within %s", timeout)
}

func humanVsHuman() GameSettings {
	return GameSettings{AType: PlayerHuman, BType: PlayerHuman}
}
