package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sh0ck-zy/fianco-game-AI/engine"
)

const defaultProfiles = "d2:500,d3:2000,d3:2000:w4,d4:5000"

// searchProfile is one contender's search setup, written as
// d<depth>:<budget ms>[:w<workers>][:nott].
type searchProfile struct {
	Name        string `json:"name"`
	Depth       int    `json:"depth"`
	BudgetMs    int    `json:"budget_ms"`
	RootWorkers int    `json:"root_workers"`
	DisableTT   bool   `json:"disable_tt"`
}

func (p searchProfile) Budget() time.Duration {
	return time.Duration(p.BudgetMs) * time.Millisecond
}

func (p searchProfile) SearchOptions() engine.SearchOptions {
	opts := engine.DefaultSearchOptions()
	opts.RootWorkers = p.RootWorkers
	opts.DisableTT = p.DisableTT
	return opts
}

func parseProfile(text string) (searchProfile, error) {
	text = strings.TrimSpace(text)
	parts := strings.Split(text, ":")
	if len(parts) < 2 {
		return searchProfile{}, fmt.Errorf("profile %q: want d<depth>:<budget ms>", text)
	}
	profile := searchProfile{Name: text, RootWorkers: 1}
	if !strings.HasPrefix(parts[0], "d") {
		return searchProfile{}, fmt.Errorf("profile %q: depth must start with d", text)
	}
	depth, err := strconv.Atoi(parts[0][1:])
	if err != nil || depth < 1 {
		return searchProfile{}, fmt.Errorf("profile %q: bad depth", text)
	}
	profile.Depth = depth
	budget, err := strconv.Atoi(parts[1])
	if err != nil || budget <= 0 {
		return searchProfile{}, fmt.Errorf("profile %q: bad budget", text)
	}
	profile.BudgetMs = budget
	for _, extra := range parts[2:] {
		switch {
		case extra == "nott":
			profile.DisableTT = true
		case strings.HasPrefix(extra, "w"):
			workers, err := strconv.Atoi(extra[1:])
			if err != nil || workers < 1 {
				return searchProfile{}, fmt.Errorf("profile %q: bad worker count", text)
			}
			profile.RootWorkers = workers
		default:
			return searchProfile{}, fmt.Errorf("profile %q: unknown option %q", text, extra)
		}
	}
	return profile, nil
}

func parseProfiles(text string) ([]searchProfile, error) {
	var profiles []searchProfile
	seen := map[string]bool{}
	for _, item := range strings.Split(text, ",") {
		if strings.TrimSpace(item) == "" {
			continue
		}
		profile, err := parseProfile(item)
		if err != nil {
			return nil, err
		}
		if seen[profile.Name] {
			return nil, fmt.Errorf("duplicate profile %q", profile.Name)
		}
		seen[profile.Name] = true
		profiles = append(profiles, profile)
	}
	if len(profiles) < 2 {
		return nil, fmt.Errorf("need at least two profiles, got %d", len(profiles))
	}
	return profiles, nil
}
