package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"lukechampine.com/frand"

	"github.com/sh0ck-zy/fianco-game-AI/engine"
	"github.com/sh0ck-zy/fianco-game-AI/notation"
)

const initialElo = 1200.0

type contender struct {
	ID       string
	Profile  searchProfile
	Elo      float64
	Games    int
	searcher *engine.Searcher
}

func newContenders(profiles []searchProfile) []*contender {
	list := make([]*contender, 0, len(profiles))
	for _, p := range profiles {
		list = append(list, &contender{
			ID:       p.Name,
			Profile:  p,
			Elo:      initialElo,
			searcher: engine.NewSearcher(p.SearchOptions()),
		})
	}
	return list
}

// runArena plays round robin leagues between the configured search profiles
// until ctx is cancelled. Every pairing plays each opening once per side.
func (t *trainer) runArena(ctx context.Context) error {
	population := newContenders(t.profiles)
	pairings := len(population) * (len(population) - 1) / 2
	roundTotal := pairings * t.openings * 2
	t.updateStatus(func(s *trainerStatus) {
		s.Phase = "running"
		s.Message = "arena running"
		s.Standings = toStandings(population)
	})
	games := 0
	for round := 1; ; round++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		suite := buildOpeningSuite(t.rng, t.openings, t.openingPlies)
		roundStart := time.Now()
		roundGames := 0
		t.updateStatus(func(s *trainerStatus) { s.Round = round })
		for i := 0; i < len(population); i++ {
			for j := i + 1; j < len(population); j++ {
				for openingIdx, opening := range suite {
					for _, firstIsA := range []bool{true, false} {
						a, b := population[i], population[j]
						if !firstIsA {
							a, b = b, a
						}
						t.updateStatus(func(s *trainerStatus) {
							s.CurrentMatch = &trainerMatch{AID: a.ID, BID: b.ID, OpeningIndex: openingIdx}
						})
						winner, plies, err := t.playGame(ctx, a, b, opening)
						if err != nil {
							return err
						}
						updateElo(a, b, resultForA(winner), t.eloK)
						games++
						roundGames++
						t.recordGame(winner, population, games, roundStart, roundGames, roundTotal)
						t.logger.Info().
							Int("round", round).
							Int("game", games).
							Str("a", a.ID).
							Str("b", b.ID).
							Str("winner", winner).
							Int("plies", plies).
							Float64("elo_a", a.Elo).
							Float64("elo_b", b.Elo).
							Msg("arena game finished")
					}
				}
			}
		}
	}
}

func (t *trainer) recordGame(winner string, population []*contender, games int, roundStart time.Time, roundGames, roundTotal int) {
	t.updateStatus(func(s *trainerStatus) {
		s.GamesPlayed = games
		switch winner {
		case "A":
			s.WinsA++
		case "B":
			s.WinsB++
		default:
			s.Draws++
		}
		s.Standings = toStandings(population)
		if roundTotal > 0 && roundGames > 0 {
			avgSec := time.Since(roundStart).Seconds() / float64(roundGames)
			remaining := roundTotal - roundGames
			if remaining < 0 {
				remaining = 0
			}
			s.EtaSeconds = int(math.Round(avgSec * float64(remaining)))
		} else {
			s.EtaSeconds = 0
		}
	})
}

// playGame seeds the backend with opening in human vs human mode and then
// submits the contenders' moves one by one. It returns "A", "B" or "" for a
// game cut off at maxPlies.
func (t *trainer) playGame(ctx context.Context, a, b *contender, opening []engine.Move) (string, int, error) {
	if err := t.startGame("human_vs_human"); err != nil {
		return "", 0, err
	}
	pos := engine.NewGame()
	for _, move := range opening {
		if err := t.submit(pos, move); err != nil {
			return "", 0, err
		}
	}
	deadline := time.Now().Add(t.gameTimeout)
	for {
		if ctx.Err() != nil {
			return "", pos.MoveCount, ctx.Err()
		}
		if outcome := engine.Decide(pos); outcome.Decided() {
			break
		}
		if t.maxPlies > 0 && pos.MoveCount >= t.maxPlies {
			_ = t.stopGame()
			return "", pos.MoveCount, nil
		}
		if t.gameTimeout > 0 && time.Now().After(deadline) {
			_ = t.stopGame()
			return "", pos.MoveCount, fmt.Errorf("arena game timeout after %s", t.gameTimeout)
		}
		player := a
		if pos.SideToMove == engine.SideB {
			player = b
		}
		move, err := chooseMove(ctx, player, pos)
		if err != nil {
			return "", pos.MoveCount, err
		}
		if err := t.submit(pos, move); err != nil {
			return "", pos.MoveCount, err
		}
	}
	local := engine.Decide(pos)
	status, err := t.fetchStatus()
	if err != nil {
		return "", pos.MoveCount, err
	}
	if status.Winner != local.Winner.String() {
		t.logger.Warn().
			Str("backend_winner", status.Winner).
			Str("local_winner", local.Winner.String()).
			Str("reason", local.Reason.String()).
			Msg("backend and local outcome disagree")
	}
	return status.Winner, pos.MoveCount, nil
}

func (t *trainer) submit(pos *engine.Position, move engine.Move) error {
	if err := t.playMove(notation.Format(move)); err != nil {
		return err
	}
	return pos.Apply(move)
}

// chooseMove searches with the contender's profile. A search that runs out of
// budget before finishing any root move falls back to the first ordered move.
func chooseMove(ctx context.Context, c *contender, pos *engine.Position) (engine.Move, error) {
	result, err := c.searcher.Search(ctx, pos, c.Profile.Depth, c.Profile.Budget())
	if err == nil {
		return result.Move, nil
	}
	if !errors.Is(err, engine.ErrSearchExhausted) || ctx.Err() != nil {
		return engine.Move{}, err
	}
	moves := engine.GenerateMoves(pos, pos.SideToMove)
	if len(moves) == 0 {
		return engine.Move{}, engine.ErrNoMovesAvailable
	}
	engine.OrderMoves(moves, pos.SideToMove)
	return moves[0], nil
}

// runWatch lets the backend play AI vs AI games with its own configuration
// and tallies the results.
func (t *trainer) runWatch(ctx context.Context) error {
	t.updateStatus(func(s *trainerStatus) {
		s.Phase = "running"
		s.Message = "watching ai vs ai games"
	})
	games := 0
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := t.startGame("ai_vs_ai"); err != nil {
			return err
		}
		status, err := t.waitFinished(ctx)
		if err != nil {
			return err
		}
		games++
		t.recordGame(status.Winner, nil, games, time.Time{}, 0, 0)
		t.logger.Info().
			Int("game", games).
			Str("winner", status.Winner).
			Str("reason", status.WinReason).
			Int("plies", status.MoveCount).
			Msg("watched game finished")
	}
}

func (t *trainer) waitFinished(ctx context.Context) (statusResponse, error) {
	deadline := time.Now().Add(t.gameTimeout)
	for {
		if ctx.Err() != nil {
			return statusResponse{}, ctx.Err()
		}
		status, err := t.fetchStatus()
		if err != nil {
			return statusResponse{}, err
		}
		if status.Status != "running" {
			return status, nil
		}
		if t.maxPlies > 0 && status.MoveCount >= t.maxPlies {
			_ = t.stopGame()
			return statusResponse{Status: "stopped", MoveCount: status.MoveCount}, nil
		}
		if t.gameTimeout > 0 && time.Now().After(deadline) {
			_ = t.stopGame()
			return statusResponse{}, fmt.Errorf("watched game timeout after %s", t.gameTimeout)
		}
		if !sleepWithContext(ctx, t.pollInterval) {
			return statusResponse{}, ctx.Err()
		}
	}
}

// buildOpeningSuite returns count random move sequences of plies moves each,
// played from the initial position. Sequences that decide the game early are
// redrawn.
func buildOpeningSuite(rng *frand.RNG, count, plies int) [][]engine.Move {
	suite := make([][]engine.Move, 0, count)
	for len(suite) < count {
		pos := engine.NewGame()
		opening := make([]engine.Move, 0, plies)
		for len(opening) < plies {
			if engine.Decide(pos).Decided() {
				break
			}
			moves := engine.GenerateMoves(pos, pos.SideToMove)
			move := moves[rng.Intn(len(moves))]
			pos.Play(move)
			opening = append(opening, move)
		}
		if len(opening) == plies && !engine.Decide(pos).Decided() {
			suite = append(suite, opening)
		}
	}
	return suite
}

func resultForA(winner string) float64 {
	switch winner {
	case "A":
		return 1.0
	case "B":
		return 0.0
	default:
		return 0.5
	}
}

func updateElo(a *contender, b *contender, resultForA float64, k float64) {
	expA := 1.0 / (1.0 + math.Pow(10, (b.Elo-a.Elo)/400.0))
	expB := 1.0 / (1.0 + math.Pow(10, (a.Elo-b.Elo)/400.0))
	a.Elo += k * (resultForA - expA)
	b.Elo += k * ((1.0 - resultForA) - expB)
	a.Games++
	b.Games++
}

func toStandings(list []*contender) []trainerStanding {
	out := make([]trainerStanding, 0, len(list))
	for _, c := range list {
		out = append(out, trainerStanding{ID: c.ID, Elo: c.Elo, Games: c.Games, Profile: c.Profile})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Elo > out[j].Elo })
	return out
}
