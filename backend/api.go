package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/sh0ck-zy/fianco-game-AI/engine"
	"github.com/sh0ck-zy/fianco-game-AI/notation"
)

type StatusResponse struct {
	Settings        GameSettingsDTO    `json:"settings"`
	Config          Config             `json:"config"`
	Board           [][]int            `json:"board"`
	NextPlayer      string             `json:"next_player"`
	Winner          string             `json:"winner"`
	WinReason       string             `json:"win_reason"`
	Status          string             `json:"status"`
	MoveCount       int                `json:"move_count"`
	Captures        map[string]int     `json:"captures"`
	ClocksMs        map[string]float64 `json:"clocks_ms"`
	History         []historyEntryDTO  `json:"history"`
	LastMessage     string             `json:"last_message,omitempty"`
	AiThinking      bool               `json:"ai_thinking"`
	TurnStartedAtMs int64              `json:"turn_started_at_ms"`
}

type GameSettingsDTO struct {
	Mode      string `json:"mode"`
	HumanSide string `json:"human_side"`
}

type moveDTO struct {
	FromRow  int    `json:"from_row"`
	FromCol  int    `json:"from_col"`
	ToRow    int    `json:"to_row"`
	ToCol    int    `json:"to_col"`
	Notation string `json:"notation"`
}

type moveRequest struct {
	FromRow  *int   `json:"from_row"`
	FromCol  *int   `json:"from_col"`
	ToRow    *int   `json:"to_row"`
	ToCol    *int   `json:"to_col"`
	Notation string `json:"notation"`
}

type historyEntryDTO struct {
	Move      moveDTO `json:"move"`
	Side      string  `json:"side"`
	ElapsedMs float64 `json:"elapsed_ms"`
	IsAi      bool    `json:"is_ai"`
	Depth     int     `json:"depth"`
	Score     float64 `json:"score"`
	Capture   bool    `json:"capture"`
}

type historyPayload struct {
	History []historyEntryDTO `json:"history"`
}

type settingsPayload struct {
	Settings GameSettingsDTO `json:"settings"`
	Config   Config          `json:"config"`
}

type movesResponse struct {
	Side  string    `json:"side"`
	Moves []moveDTO `json:"moves"`
}

type evaluateResponse struct {
	Side     string           `json:"side"`
	Score    float64          `json:"score"`
	Terms    engine.EvalTerms `json:"terms"`
	Terminal bool             `json:"terminal"`
}

type server struct {
	controller *GameController
	hub        *Hub
	hintHub    *Hub
	logger     zerolog.Logger
}

func newServer(controller *GameController, hub, hintHub *Hub) *server {
	return &server{
		controller: controller,
		hub:        hub,
		hintHub:    hintHub,
		logger:     componentLogger("http"),
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, controllerStatus(s.controller))
	})
	r.Post("/api/start", s.handleStart)
	r.Post("/api/stop", s.handleStop)
	r.Post("/api/settings", s.handleSettings)
	r.Post("/api/move", s.handleMove)
	r.Post("/api/undo", s.handleUndo)
	r.Get("/api/moves", s.handleMoves)
	r.Get("/api/evaluate", s.handleEvaluate)
	r.Get("/api/board.svg", s.handleBoardSVG)

	r.Get("/ws/", func(w http.ResponseWriter, r *http.Request) {
		serveWS(s.hub, w, r,
			func(c *Client) {
				c.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(controllerStatus(s.controller))})
			},
			func(c *Client, msg wsMessage) {
				if msg.Type == "request_status" {
					c.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(controllerStatus(s.controller))})
				}
			})
	})
	r.Get("/ws/hint", func(w http.ResponseWriter, r *http.Request) {
		serveWS(s.hintHub, w, r, nil, nil)
	})
	return r
}

func (s *server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

func (s *server) handleStart(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Settings GameSettingsDTO `json:"settings"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	settings := settingsFromDTO(payload.Settings, DefaultGameSettings())
	s.controller.StartGame(settings)
	s.hub.Publish("reset", controllerStatus(s.controller))
	writeJSON(w, http.StatusOK, controllerStatus(s.controller))
}

func (s *server) handleStop(w http.ResponseWriter, r *http.Request) {
	s.controller.Reset(s.controller.Settings())
	s.hub.Publish("reset", controllerStatus(s.controller))
	writeJSON(w, http.StatusOK, controllerStatus(s.controller))
}

func (s *server) handleSettings(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Settings *GameSettingsDTO `json:"settings"`
		Config   *Config          `json:"config"`
	}
	// Keys missing from a partial config keep their current values.
	current := GetConfig()
	payload.Config = &current
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if payload.Config != nil {
		configStore.Update(*payload.Config)
	}
	if payload.Settings != nil {
		s.controller.UpdateSettings(settingsFromDTO(*payload.Settings, s.controller.Settings()))
	}
	s.hub.Publish("settings", settingsPayload{
		Settings: controllerSettingsDTO(s.controller.Settings()),
		Config:   GetConfig(),
	})
	writeJSON(w, http.StatusOK, controllerStatus(s.controller))
}

func (s *server) handleMove(w http.ResponseWriter, r *http.Request) {
	var payload moveRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	move, err := payload.toMove()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	applied, errMsg := s.controller.ApplyHumanMove(move)
	if !applied {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}
	s.publishLatest()
	writeJSON(w, http.StatusOK, controllerStatus(s.controller))
}

func (s *server) handleUndo(w http.ResponseWriter, r *http.Request) {
	undone, err := s.controller.Undo()
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, engine.ErrNoHistory) {
			status = http.StatusConflict
		}
		writeError(w, status, err.Error())
		return
	}
	s.hub.Publish("reset", controllerStatus(s.controller))
	writeJSON(w, http.StatusOK, map[string]any{
		"undone": undone,
		"status": controllerStatus(s.controller),
	})
}

func (s *server) handleMoves(w http.ResponseWriter, r *http.Request) {
	side := s.controller.State().ToMove()
	switch strings.ToUpper(r.URL.Query().Get("side")) {
	case "":
	case "A":
		side = engine.SideA
	case "B":
		side = engine.SideB
	default:
		writeError(w, http.StatusBadRequest, "side must be A or B")
		return
	}
	moves := s.controller.LegalMoves(side)
	out := make([]moveDTO, 0, len(moves))
	for _, move := range moves {
		out = append(out, moveToDTO(move))
	}
	writeJSON(w, http.StatusOK, movesResponse{Side: side.String(), Moves: out})
}

func (s *server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	pos := s.controller.State().Position
	writeJSON(w, http.StatusOK, evaluateResponse{
		Side:     pos.SideToMove.String(),
		Score:    engine.Evaluate(pos),
		Terms:    engine.EvaluationTerms(pos),
		Terminal: engine.IsTerminal(pos),
	})
}

func (s *server) handleBoardSVG(w http.ResponseWriter, r *http.Request) {
	state := s.controller.State()
	var last *engine.Move
	if entry, ok := state.Position.LastMove(); ok {
		last = &entry.Move
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	renderBoardSVG(w, state.Position, last)
}

func (s *server) publishLatest() {
	if entry, ok := s.controller.LatestHistoryEntry(); ok {
		s.hub.Publish("history", historyPayload{History: []historyEntryDTO{historyEntryToDTO(entry)}})
	}
	s.hub.Publish("status", controllerStatus(s.controller))
}

func (p moveRequest) toMove() (engine.Move, error) {
	if p.Notation != "" {
		return notation.Parse(p.Notation)
	}
	if p.FromRow == nil || p.FromCol == nil || p.ToRow == nil || p.ToCol == nil {
		return engine.Move{}, errors.New("move needs from_row, from_col, to_row, to_col or notation")
	}
	move := engine.NewMove(*p.FromRow, *p.FromCol, *p.ToRow, *p.ToCol)
	if !move.IsValid() {
		return engine.Move{}, errors.New("move out of board")
	}
	return move, nil
}

func controllerStatus(controller *GameController) StatusResponse {
	state := controller.State()
	pos := state.Position
	captures := map[string]int{
		"A": pos.CapturedBy(engine.SideA),
		"B": pos.CapturedBy(engine.SideB),
	}
	clocks := map[string]float64{
		"A": float64(state.Clocks[engine.SideA].Milliseconds()),
		"B": float64(state.Clocks[engine.SideB].Milliseconds()),
	}
	return StatusResponse{
		Settings:        controllerSettingsDTO(controller.Settings()),
		Config:          GetConfig(),
		Board:           boardToSlice(&pos.Board),
		NextPlayer:      pos.SideToMove.String(),
		Winner:          state.Winner(),
		WinReason:       state.Outcome.Reason.String(),
		Status:          state.Status.String(),
		MoveCount:       pos.MoveCount,
		Captures:        captures,
		ClocksMs:        clocks,
		History:         historyToDTO(controller.History()),
		LastMessage:     state.LastMessage,
		AiThinking:      controller.AiThinking(),
		TurnStartedAtMs: controller.CurrentTurnStartedAtMs(),
	}
}

func settingsFromDTO(dto GameSettingsDTO, base GameSettings) GameSettings {
	settings := base
	switch dto.Mode {
	case ModeAIVsAI:
		settings.AType = PlayerAI
		settings.BType = PlayerAI
	case ModeHumanVsHuman:
		settings.AType = PlayerHuman
		settings.BType = PlayerHuman
	case ModeHumanVsAI:
		if strings.EqualFold(dto.HumanSide, "B") {
			settings.AType = PlayerAI
			settings.BType = PlayerHuman
		} else {
			settings.AType = PlayerHuman
			settings.BType = PlayerAI
		}
	}
	return settings
}

func controllerSettingsDTO(settings GameSettings) GameSettingsDTO {
	switch {
	case settings.AType == PlayerAI && settings.BType == PlayerAI:
		return GameSettingsDTO{Mode: ModeAIVsAI}
	case settings.AType == PlayerHuman && settings.BType == PlayerHuman:
		return GameSettingsDTO{Mode: ModeHumanVsHuman, HumanSide: "A"}
	case settings.AType == PlayerHuman:
		return GameSettingsDTO{Mode: ModeHumanVsAI, HumanSide: "A"}
	default:
		return GameSettingsDTO{Mode: ModeHumanVsAI, HumanSide: "B"}
	}
}

func boardToSlice(board *engine.Board) [][]int {
	rows := make([][]int, engine.BoardSize)
	for row := 0; row < engine.BoardSize; row++ {
		rows[row] = make([]int, engine.BoardSize)
		for col := 0; col < engine.BoardSize; col++ {
			rows[row][col] = int(board.At(row, col))
		}
	}
	return rows
}

func moveToDTO(move engine.Move) moveDTO {
	return moveDTO{
		FromRow:  move.FromRow,
		FromCol:  move.FromCol,
		ToRow:    move.ToRow,
		ToCol:    move.ToCol,
		Notation: notation.Format(move),
	}
}

func historyToDTO(history MoveHistory) []historyEntryDTO {
	entries := history.All()
	result := make([]historyEntryDTO, 0, len(entries))
	for _, entry := range entries {
		result = append(result, historyEntryToDTO(entry))
	}
	return result
}

func historyEntryToDTO(entry MoveRecord) historyEntryDTO {
	return historyEntryDTO{
		Move:      moveToDTO(entry.Move),
		Side:      entry.Side.String(),
		ElapsedMs: entry.ElapsedMs,
		IsAi:      entry.IsAi,
		Depth:     entry.Depth,
		Score:     entry.Score,
		Capture:   entry.Capture,
	}
}

func mustMarshal(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
