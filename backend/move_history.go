package main

import (
	"github.com/sh0ck-zy/fianco-game-AI/engine"
	"github.com/sh0ck-zy/fianco-game-AI/notation"
)

// MoveRecord is the controller's view of one played move. The engine keeps
// its own side/move history; this adds timing and search metadata.
type MoveRecord struct {
	Move      engine.Move
	Side      engine.Side
	ElapsedMs float64
	IsAi      bool
	Depth     int
	Score     float64
	Capture   bool
}

func (r MoveRecord) Notation() string {
	return notation.Format(r.Move)
}

type MoveHistory struct {
	entries []MoveRecord
}

func (h *MoveHistory) Clear() {
	h.entries = nil
}

func (h *MoveHistory) Push(entry MoveRecord) {
	h.entries = append(h.entries, entry)
}

func (h *MoveHistory) Pop() (MoveRecord, bool) {
	if len(h.entries) == 0 {
		return MoveRecord{}, false
	}
	last := h.entries[len(h.entries)-1]
	h.entries = h.entries[:len(h.entries)-1]
	return last, true
}

func (h MoveHistory) Size() int {
	return len(h.entries)
}

func (h MoveHistory) All() []MoveRecord {
	return append([]MoveRecord(nil), h.entries...)
}

func (h MoveHistory) Last() (MoveRecord, bool) {
	if len(h.entries) == 0 {
		return MoveRecord{}, false
	}
	return h.entries[len(h.entries)-1], true
}

func (h MoveHistory) Moves() []engine.Move {
	moves := make([]engine.Move, 0, len(h.entries))
	for _, entry := range h.entries {
		moves = append(moves, entry.Move)
	}
	return moves
}
