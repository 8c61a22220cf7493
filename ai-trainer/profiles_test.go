package main

import (
	"testing"
	"time"
)

func TestParseProfile(t *testing.T) {
	p, err := parseProfile(" d3:1500:w4:nott ")
	if err != nil {
		t.Fatalf("parseProfile failed: %v", err)
	}
	if p.Depth != 3 || p.BudgetMs != 1500 || p.RootWorkers != 4 || !p.DisableTT {
		t.Fatalf("unexpected profile %+v", p)
	}
	if p.Budget() != 1500*time.Millisecond {
		t.Fatalf("expected 1.5s budget, got %s", p.Budget())
	}
	opts := p.SearchOptions()
	if opts.RootWorkers != 4 || !opts.DisableTT {
		t.Fatalf("search options not carried over: %+v", opts)
	}
}

func TestParseProfileDefaultsToOneWorker(t *testing.T) {
	p, err := parseProfile("d2:500")
	if err != nil {
		t.Fatalf("parseProfile failed: %v", err)
	}
	if p.RootWorkers != 1 || p.DisableTT {
		t.Fatalf("unexpected defaults %+v", p)
	}
}

func TestParseProfileRejects(t *testing.T) {
	for _, text := range []string{"", "d3", "x3:100", "d0:100", "d3:0", "d3:100:w0", "d3:100:fast"} {
		if _, err := parseProfile(text); err == nil {
			t.Fatalf("expected %q to be rejected", text)
		}
	}
}

func TestParseProfiles(t *testing.T) {
	profiles, err := parseProfiles(defaultProfiles)
	if err != nil {
		t.Fatalf("default profiles rejected: %v", err)
	}
	if len(profiles) != 4 {
		t.Fatalf("expected 4 default profiles, got %d", len(profiles))
	}
	if _, err := parseProfiles("d2:500"); err == nil {
		t.Fatalf("expected a single profile to be rejected")
	}
	if _, err := parseProfiles("d2:500,d2:500"); err == nil {
		t.Fatalf("expected duplicate profiles to be rejected")
	}
	if _, err := parseProfiles("d2:500, ,d3:900"); err != nil {
		t.Fatalf("blank entries should be skipped: %v", err)
	}
}

func TestGetenvHelpers(t *testing.T) {
	t.Setenv("TRAINER_TEST_INT", "12")
	t.Setenv("TRAINER_TEST_BAD_INT", "-3")
	t.Setenv("TRAINER_TEST_FLOAT", "0.25")
	if got := getenvInt("TRAINER_TEST_INT", 1); got != 12 {
		t.Fatalf("expected 12, got %d", got)
	}
	if got := getenvInt("TRAINER_TEST_BAD_INT", 7); got != 7 {
		t.Fatalf("non positive ints should fall back, got %d", got)
	}
	if got := getenvFloat("TRAINER_TEST_FLOAT", 1); got != 0.25 {
		t.Fatalf("expected 0.25, got %f", got)
	}
	if got := getenv("TRAINER_TEST_MISSING", "x"); got != "x" {
		t.Fatalf("expected fallback, got %q", got)
	}
}
