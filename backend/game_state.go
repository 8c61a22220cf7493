package main

import (
	"time"

	"github.com/sh0ck-zy/fianco-game-AI/engine"
)

type GameStatus int

const (
	StatusNotStarted GameStatus = iota
	StatusRunning
	StatusFinished
)

func (s GameStatus) String() string {
	switch s {
	case StatusNotStarted:
		return "not_started"
	case StatusFinished:
		return "finished"
	default:
		return "running"
	}
}

// GameState is a detached snapshot; Position is a clone the caller may keep.
type GameState struct {
	Position    *engine.Position
	Status      GameStatus
	Outcome     engine.Outcome
	LastMessage string
	Clocks      [2]time.Duration
}

func (s GameState) ToMove() engine.Side {
	return s.Position.SideToMove
}

// Winner is "A", "B" or empty while the game is undecided.
func (s GameState) Winner() string {
	if !s.Outcome.Decided() {
		return ""
	}
	return s.Outcome.Winner.String()
}
