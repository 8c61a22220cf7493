package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sh0ck-zy/fianco-game-AI/engine"
)

type Config struct {
	AiDepth          int    `json:"ai_depth"`
	AiTimeBudgetMs   int    `json:"ai_time_budget_ms"`
	AiRootWorkers    int    `json:"ai_root_workers"`
	AiTtSize         int    `json:"ai_tt_size"`
	AiTtBuckets      int    `json:"ai_tt_buckets"`
	AiDisableTT      bool   `json:"ai_disable_tt"`
	AiLogSearchStats bool   `json:"ai_log_search_stats"`
	HintsEnabled     bool   `json:"hints_enabled"`
	HintDepth        int    `json:"hint_depth"`
	PersistGame      bool   `json:"persist_game"`
	ListenAddr       string `json:"listen_addr"`
	StatePath        string `json:"state_path"`
}

type ConfigStore struct {
	mu     sync.RWMutex
	config Config
}

func DefaultConfig() Config {
	return Config{
		AiDepth:        3,
		AiTimeBudgetMs: 5000,
		AiRootWorkers:  1,

		// Per worker; cleared before every search.
		AiTtSize:    1 << 14,
		AiTtBuckets: 2,

		HintsEnabled: false,
		HintDepth:    2,

		PersistGame: true,
		ListenAddr:  ":8080",
		StatePath:   "/cache_logs/fianco_game.gob",
	}
}

var configStore = &ConfigStore{config: DefaultConfig()}

func GetConfig() Config {
	return configStore.Get()
}

func (c *ConfigStore) Get() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

func (c *ConfigStore) Update(newConfig Config) {
	c.mu.Lock()
	c.config = newConfig.normalized()
	c.mu.Unlock()
}

// loadConfig starts from the defaults, overlays the JSON file named by
// FIANCO_CONFIG and then the FIANCO_ADDR / FIANCO_STATE_PATH variables.
func loadConfig() (Config, error) {
	cfg := DefaultConfig()
	if path := os.Getenv("FIANCO_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("decode config %s: %w", path, err)
		}
	}
	if addr := os.Getenv("FIANCO_ADDR"); addr != "" {
		cfg.ListenAddr = addr
	}
	if path := os.Getenv("FIANCO_STATE_PATH"); path != "" {
		cfg.StatePath = path
	}
	return cfg.normalized(), nil
}

func (c Config) normalized() Config {
	if c.AiDepth < 1 {
		c.AiDepth = 1
	}
	if c.AiTimeBudgetMs < 0 {
		c.AiTimeBudgetMs = 0
	}
	if c.AiRootWorkers < 1 {
		c.AiRootWorkers = 1
	}
	if c.AiTtSize < 1 {
		c.AiTtSize = 1 << 14
	}
	if c.AiTtSize > int(engine.MaxTTSize) {
		c.AiTtSize = int(engine.MaxTTSize)
	}
	if c.AiTtBuckets < 1 {
		c.AiTtBuckets = 2
	}
	if c.AiTtBuckets > engine.MaxTTBuckets {
		c.AiTtBuckets = engine.MaxTTBuckets
	}
	if c.HintDepth < 1 {
		c.HintDepth = 1
	}
	return c
}

func (c Config) TimeBudget() time.Duration {
	return time.Duration(c.AiTimeBudgetMs) * time.Millisecond
}

func (c Config) SearchOptions(logger *zerolog.Logger) engine.SearchOptions {
	opts := engine.DefaultSearchOptions()
	opts.TTSize = uint64(c.AiTtSize)
	opts.TTBuckets = c.AiTtBuckets
	opts.DisableTT = c.AiDisableTT
	opts.RootWorkers = c.AiRootWorkers
	opts.LogStats = c.AiLogSearchStats
	opts.Logger = logger
	return opts
}
