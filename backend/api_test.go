package main

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sh0ck-zy/fianco-game-AI/engine"
)

func newTestAPI(t *testing.T, settings GameSettings) (*GameController, http.Handler) {
	t.Helper()
	controller := NewGameController(settings)
	t.Cleanup(controller.Shutdown)
	srv := newServer(controller, NewHub("status"), NewHub("hint"))
	return controller, srv.routes()
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeStatus(t *testing.T, rec *httptest.ResponseRecorder) StatusResponse {
	t.Helper()
	var status StatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode status: %v (%s)", err, rec.Body.String())
	}
	return status
}

func startHumanGame(t *testing.T, handler http.Handler) StatusResponse {
	t.Helper()
	rec := doJSON(t, handler, http.MethodPost, "/api/start", map[string]any{
		"settings": GameSettingsDTO{Mode: ModeHumanVsHuman},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("start: %d %s", rec.Code, rec.Body.String())
	}
	return decodeStatus(t, rec)
}

func TestAPIPing(t *testing.T) {
	_, handler := newTestAPI(t, humanVsHuman())
	rec := doJSON(t, handler, http.MethodGet, "/api/ping", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "true") {
		t.Fatalf("unexpected ping response %d %s", rec.Code, rec.Body.String())
	}
}

func TestAPIStartAndStatus(t *testing.T) {
	_, handler := newTestAPI(t, humanVsHuman())
	status := startHumanGame(t, handler)
	if status.Status != "running" || status.NextPlayer != "A" {
		t.Fatalf("unexpected status after start: %+v", status)
	}
	if status.Settings.Mode != ModeHumanVsHuman {
		t.Fatalf("expected human vs human, got %s", status.Settings.Mode)
	}
	if status.Board[8][0] != int(1) || status.Board[0][0] != int(2) {
		t.Fatalf("unexpected opening board %v", status.Board)
	}
}

func TestAPIMoveNotationAndCoordinates(t *testing.T) {
	_, handler := newTestAPI(t, humanVsHuman())
	startHumanGame(t, handler)

	rec := doJSON(t, handler, http.MethodPost, "/api/move", map[string]any{"notation": "D4 D5"})
	if rec.Code != http.StatusOK {
		t.Fatalf("notation move: %d %s", rec.Code, rec.Body.String())
	}
	status := decodeStatus(t, rec)
	if status.NextPlayer != "B" || len(status.History) != 1 {
		t.Fatalf("unexpected status after move: %+v", status)
	}
	if status.History[0].Move.Notation != "D4 D5" || status.History[0].Side != "A" {
		t.Fatalf("unexpected history entry %+v", status.History[0])
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/move", map[string]int{
		"from_row": 3, "from_col": 5, "to_row": 4, "to_col": 5,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("coordinate move: %d %s", rec.Code, rec.Body.String())
	}
	if status := decodeStatus(t, rec); status.MoveCount != 2 {
		t.Fatalf("expected 2 moves, got %d", status.MoveCount)
	}
}

func TestAPIRejectsBadMoves(t *testing.T) {
	_, handler := newTestAPI(t, humanVsHuman())
	startHumanGame(t, handler)

	cases := []any{
		map[string]any{"notation": "A1 A3"},
		map[string]any{"notation": "Z9 Z8"},
		map[string]int{"from_row": 8, "from_col": 0},
		map[string]int{"from_row": 8, "from_col": 0, "to_row": 9, "to_col": 0},
	}
	for i, body := range cases {
		rec := doJSON(t, handler, http.MethodPost, "/api/move", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("case %d: expected 400, got %d %s", i, rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), "error") {
			t.Fatalf("case %d: expected an error body, got %s", i, rec.Body.String())
		}
	}
}

func TestAPIUndo(t *testing.T) {
	_, handler := newTestAPI(t, humanVsHuman())
	startHumanGame(t, handler)
	doJSON(t, handler, http.MethodPost, "/api/move", map[string]any{"notation": "D4 D5"})

	rec := doJSON(t, handler, http.MethodPost, "/api/undo", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("undo: %d %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Undone int            `json:"undone"`
		Status StatusResponse `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Undone != 1 || body.Status.NextPlayer != "A" || len(body.Status.History) != 0 {
		t.Fatalf("unexpected undo result %+v", body)
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/undo", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on empty history, got %d", rec.Code)
	}
}

func TestAPIMovesAndEvaluate(t *testing.T) {
	_, handler := newTestAPI(t, humanVsHuman())
	startHumanGame(t, handler)

	rec := doJSON(t, handler, http.MethodGet, "/api/moves?side=A", nil)
	var moves movesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &moves); err != nil {
		t.Fatalf("decode moves: %v", err)
	}
	if moves.Side != "A" || len(moves.Moves) != 25 {
		t.Fatalf("expected 25 opening moves for A, got %s/%d", moves.Side, len(moves.Moves))
	}
	if rec := doJSON(t, handler, http.MethodGet, "/api/moves?side=C", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown side, got %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/evaluate", nil)
	var eval evaluateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &eval); err != nil {
		t.Fatalf("decode evaluate: %v", err)
	}
	if eval.Terminal || math.Abs(eval.Score) > 1e-9 || eval.Terms.A.Material != 15 {
		t.Fatalf("unexpected opening evaluation %+v", eval)
	}
}

func TestAPISettingsUpdatesConfig(t *testing.T) {
	withConfig(t, nil)
	controller, handler := newTestAPI(t, humanVsHuman())
	cfg := GetConfig()
	cfg.HintsEnabled = true
	cfg.AiDepth = 2
	rec := doJSON(t, handler, http.MethodPost, "/api/settings", map[string]any{
		"config":   cfg,
		"settings": GameSettingsDTO{Mode: ModeHumanVsAI, HumanSide: "B"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("settings: %d %s", rec.Code, rec.Body.String())
	}
	if got := GetConfig(); !got.HintsEnabled || got.AiDepth != 2 {
		t.Fatalf("config not applied: %+v", got)
	}
	settings := controller.Settings()
	if settings.AType != PlayerAI || settings.BType != PlayerHuman {
		t.Fatalf("settings not applied: %+v", settings)
	}
}

func TestAPIBoardSVG(t *testing.T) {
	_, handler := newTestAPI(t, humanVsHuman())
	startHumanGame(t, handler)
	rec := doJSON(t, handler, http.MethodGet, "/api/board.svg", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("svg: %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if got := strings.Count(rec.Body.String(), "<circle"); got != 30 {
		t.Fatalf("expected 30 pieces drawn, got %d", got)
	}
}

func TestAPISettingsPartialConfigKeepsOtherKeys(t *testing.T) {
	withConfig(t, func(cfg *Config) {
		cfg.PersistGame = true
		cfg.StatePath = "/tmp/fianco-partial.gob"
	})
	_, handler := newTestAPI(t, humanVsHuman())
	before := GetConfig()
	rec := doJSON(t, handler, http.MethodPost, "/api/settings", map[string]any{
		"config": map[string]any{"ai_depth": 4},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("settings: %d %s", rec.Code, rec.Body.String())
	}
	got := GetConfig()
	if got.AiDepth != 4 {
		t.Fatalf("ai_depth not applied: %+v", got)
	}
	want := before
	want.AiDepth = 4
	if got != want {
		t.Fatalf("partial update changed other keys:\nwant %+v\ngot  %+v", want, got)
	}
	if got.AiTimeBudgetMs == 0 || !got.PersistGame || got.StatePath == "" {
		t.Fatalf("budget or persistence reset by a partial update: %+v", got)
	}
}

func TestAPISettingsHugeTableDoesNotCrashSearch(t *testing.T) {
	withConfig(t, nil)
	_, handler := newTestAPI(t, humanVsHuman())
	rec := doJSON(t, handler, http.MethodPost, "/api/settings", map[string]any{
		"config": map[string]any{"ai_tt_size": 1 << 62, "ai_tt_buckets": 1 << 20},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("settings: %d %s", rec.Code, rec.Body.String())
	}
	cfg := GetConfig()
	if cfg.AiTtSize != int(engine.MaxTTSize) || cfg.AiTtBuckets != engine.MaxTTBuckets {
		t.Fatalf("table shape not clamped: %+v", cfg)
	}
	opts := cfg.SearchOptions(nil)
	opts.TTSize = 1 << 62
	opts.TTBuckets = 1
	searcher := engine.NewSearcher(opts)
	if _, err := searcher.Search(context.Background(), engine.NewGame(), 1, time.Second); err != nil {
		t.Fatalf("search with an oversized table request failed: %v", err)
	}
}
