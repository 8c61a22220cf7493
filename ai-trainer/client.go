package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type statusResponse struct {
	Status     string            `json:"status"`
	Winner     string            `json:"winner"`
	WinReason  string            `json:"win_reason"`
	NextPlayer string            `json:"next_player"`
	MoveCount  int               `json:"move_count"`
	History    []json.RawMessage `json:"history"`
}

type moveEntry struct {
	Notation string `json:"notation"`
}

type movesResponse struct {
	Side  string      `json:"side"`
	Moves []moveEntry `json:"moves"`
}

func (t *trainer) waitBackendReady(ctx context.Context) error {
	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := t.ping(); err == nil {
			return nil
		}
		if !sleepWithContext(ctx, 1*time.Second) {
			return ctx.Err()
		}
	}
	return fmt.Errorf("timeout after 60s")
}

func (t *trainer) ping() error {
	req, err := http.NewRequest(http.MethodGet, t.baseURL+"/api/ping", nil)
	if err != nil {
		return err
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ping status %d", resp.StatusCode)
	}
	return nil
}

func (t *trainer) startGame(mode string) error {
	return t.postJSON("/api/start", map[string]any{
		"settings": map[string]any{"mode": mode},
	}, nil)
}

func (t *trainer) stopGame() error {
	return t.postJSON("/api/stop", map[string]any{}, nil)
}

func (t *trainer) playMove(notation string) error {
	return t.postJSON("/api/move", map[string]any{"notation": notation}, nil)
}

func (t *trainer) fetchStatus() (statusResponse, error) {
	var status statusResponse
	if err := t.getJSON("/api/status", &status); err != nil {
		return statusResponse{}, err
	}
	return status, nil
}

func (t *trainer) fetchMoves() ([]string, error) {
	var moves movesResponse
	if err := t.getJSON("/api/moves", &moves); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(moves.Moves))
	for _, m := range moves.Moves {
		out = append(out, m.Notation)
	}
	return out, nil
}

func (t *trainer) getJSON(path string, out any) error {
	req, err := http.NewRequest(http.MethodGet, t.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("GET %s -> %d: %s", path, resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (t *trainer) postJSON(path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, t.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("POST %s -> %d: %s", path, resp.StatusCode, string(respBody))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
