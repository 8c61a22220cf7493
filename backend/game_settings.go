package main

import "github.com/sh0ck-zy/fianco-game-AI/engine"

type PlayerType int

const (
	PlayerHuman PlayerType = iota
	PlayerAI
)

const (
	ModeHumanVsAI    = "human_vs_ai"
	ModeAIVsAI       = "ai_vs_ai"
	ModeHumanVsHuman = "human_vs_human"
)

type GameSettings struct {
	AType PlayerType
	BType PlayerType
}

func DefaultGameSettings() GameSettings {
	return GameSettings{
		AType: PlayerHuman,
		BType: PlayerAI,
	}
}

func (s GameSettings) TypeFor(side engine.Side) PlayerType {
	if side == engine.SideA {
		return s.AType
	}
	return s.BType
}

// HasAIOpponent reports a mixed human/AI table, where undo hands the turn
// back to the human.
func (s GameSettings) HasAIOpponent() bool {
	return s.AType != s.BType
}
