package main

import (
	"github.com/sh0ck-zy/fianco-game-AI/engine"
	"github.com/sh0ck-zy/fianco-game-AI/notation"
)

// hintPayload is pushed on /ws/hint. Active=false withdraws the previous hint.
type hintPayload struct {
	Active     bool     `json:"active"`
	Move       *moveDTO `json:"move,omitempty"`
	Notation   string   `json:"notation,omitempty"`
	Depth      int      `json:"depth,omitempty"`
	Score      float64  `json:"score,omitempty"`
	NextPlayer string   `json:"next_player,omitempty"`
	HistoryLen int      `json:"history_len,omitempty"`
}

func hintFromDecision(decision aiDecision, side engine.Side, historyLen int) hintPayload {
	move := moveToDTO(decision.Move)
	return hintPayload{
		Active:     true,
		Move:       &move,
		Notation:   notation.Format(decision.Move),
		Depth:      decision.Depth,
		Score:      decision.Score,
		NextPlayer: side.String(),
		HistoryLen: historyLen,
	}
}
