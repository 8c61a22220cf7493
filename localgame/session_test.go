package localgame

import (
	"errors"
	"testing"
	"time"

	"github.com/sh0ck-zy/fianco-game-AI/engine"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newTestSession(t *testing.T, human engine.Side) (*Session, *fakeClock) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Depth = 1
	cfg.Budget = 2 * time.Second
	s := New(human, cfg)
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	s.now = clock.now
	s.turnStart = clock.now()
	t.Cleanup(s.Close)
	return s, clock
}

func waitForMoves(t *testing.T, s *Session, count int) View {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		v := s.View()
		if v.MoveCount >= count && !v.Thinking {
			return v
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d moves", count)
	return View{}
}

func TestClickSelectsAndPlays(t *testing.T) {
	s, _ := newTestSession(t, engine.SideA)

	played, err := s.Click(5, 3)
	if err != nil || played {
		t.Fatalf("first click should only select, played=%v err=%v", played, err)
	}
	v := s.View()
	if v.Selected == nil || *v.Selected != [2]int{5, 3} {
		t.Fatalf("expected (5,3) selected, got %v", v.Selected)
	}
	if len(v.Targets) != 3 {
		t.Fatalf("expected 3 targets for the diamond piece, got %d", len(v.Targets))
	}

	played, err = s.Click(4, 3)
	if err != nil || !played {
		t.Fatalf("second click should play, played=%v err=%v", played, err)
	}
	v = s.View()
	if v.MoveCount != 1 || v.ToMove != engine.SideB {
		t.Fatalf("expected B to move after one ply, got %+v", v)
	}
	if v.Selected != nil || len(v.Targets) != 0 {
		t.Fatalf("selection should be cleared after a move")
	}
	if v.LastMove == nil || !v.LastMove.Equals(engine.NewMove(5, 3, 4, 3)) {
		t.Fatalf("unexpected last move %v", v.LastMove)
	}
}

func TestClickOnEmptyOrOpponentClearsSelection(t *testing.T) {
	s, _ := newTestSession(t, engine.SideA)
	if _, err := s.Click(8, 0); err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if played, _ := s.Click(4, 4); played {
		t.Fatalf("a non target square must not play")
	}
	if v := s.View(); v.Selected != nil {
		t.Fatalf("selection should be cleared")
	}
	if _, err := s.Click(0, 0); err != nil {
		t.Fatalf("clicking an opponent piece failed: %v", err)
	}
	if v := s.View(); v.Selected != nil {
		t.Fatalf("opponent pieces must not be selectable")
	}
}

func TestClickRejectedOnAITurn(t *testing.T) {
	s, _ := newTestSession(t, engine.SideB)
	if _, err := s.Click(0, 0); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("expected ErrNotYourTurn, got %v", err)
	}
	if err := s.Play(engine.NewMove(5, 3, 4, 3)); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("expected ErrNotYourTurn from Play, got %v", err)
	}
}

func TestPlayRejectsIllegalMove(t *testing.T) {
	s, _ := newTestSession(t, engine.SideA)
	if err := s.Play(engine.NewMove(8, 0, 6, 0)); !errors.Is(err, engine.ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove, got %v", err)
	}
	if v := s.View(); v.MoveCount != 0 {
		t.Fatalf("illegal move changed the game")
	}
}

func TestClocksChargeTheMover(t *testing.T) {
	s, clock := newTestSession(t, engine.SideA)
	clock.advance(3 * time.Second)
	if v := s.View(); v.Clocks[engine.SideA] != 3*time.Second {
		t.Fatalf("running clock should include the current turn, got %s", v.Clocks[engine.SideA])
	}
	if err := s.Play(engine.NewMove(5, 3, 4, 3)); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	v := s.View()
	if v.Clocks[engine.SideA] != 3*time.Second || v.Clocks[engine.SideB] != 0 {
		t.Fatalf("unexpected clocks %v", v.Clocks)
	}
	if len(v.Recent) != 1 || v.Recent[0].Seconds() != 3 || v.Recent[0].IsAI {
		t.Fatalf("unexpected move log %+v", v.Recent)
	}
}

func TestAIRepliesInBackground(t *testing.T) {
	s, _ := newTestSession(t, engine.SideA)
	if s.StartAI() {
		t.Fatalf("AI must not start on the human's turn")
	}
	if err := s.Play(engine.NewMove(5, 3, 4, 3)); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if !s.StartAI() {
		t.Fatalf("AI should start on its turn")
	}
	v := waitForMoves(t, s, 2)
	if v.ToMove != engine.SideA {
		t.Fatalf("expected the human to move after the AI reply")
	}
	if last := v.Recent[len(v.Recent)-1]; !last.IsAI || last.Side != engine.SideB {
		t.Fatalf("expected an AI move by B, got %+v", last)
	}
}

func TestUndoGivesTheMoveBackToTheHuman(t *testing.T) {
	s, _ := newTestSession(t, engine.SideA)
	if _, err := s.Undo(); !errors.Is(err, engine.ErrNoHistory) {
		t.Fatalf("expected ErrNoHistory, got %v", err)
	}
	if err := s.Play(engine.NewMove(5, 3, 4, 3)); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	s.StartAI()
	waitForMoves(t, s, 2)

	undone, err := s.Undo()
	if err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if undone != 2 {
		t.Fatalf("expected two moves taken back, got %d", undone)
	}
	v := s.View()
	if v.MoveCount != 0 || v.ToMove != engine.SideA || len(v.Recent) != 0 {
		t.Fatalf("expected the initial position, got %+v", v)
	}
	if v.Board != engine.NewGame().Board {
		t.Fatalf("board not restored")
	}
}

func TestUndoCancelsRunningSearch(t *testing.T) {
	s, _ := newTestSession(t, engine.SideB)
	s.cfg.Depth = 6
	s.cfg.Budget = time.Minute
	if !s.StartAI() {
		t.Fatalf("AI should start as side A")
	}
	if _, err := s.Undo(); !errors.Is(err, engine.ErrNoHistory) {
		t.Fatalf("expected ErrNoHistory while nothing was played, got %v", err)
	}
	v := s.View()
	if v.Thinking || v.MoveCount != 0 {
		t.Fatalf("search should be cancelled without a move, got %+v", v)
	}
}

func TestRecentKeepsTheLastMoves(t *testing.T) {
	s, _ := newTestSession(t, engine.SideA)
	for i := 0; i < RecentMoves+5; i++ {
		s.log = append(s.log, MoveLog{Side: engine.SideA, Elapsed: time.Duration(i) * time.Second})
	}
	v := s.View()
	if len(v.Recent) != RecentMoves {
		t.Fatalf("expected %d recent moves, got %d", RecentMoves, len(v.Recent))
	}
	if v.Recent[0].Elapsed != 5*time.Second {
		t.Fatalf("expected the oldest entries to be dropped")
	}
}

func TestParseColor(t *testing.T) {
	cases := map[string]struct {
		side engine.Side
		ok   bool
	}{
		"W":    {engine.SideA, true},
		" b\n": {engine.SideB, true},
		"x":    {engine.SideA, false},
		"":     {engine.SideA, false},
	}
	for input, want := range cases {
		side, ok := ParseColor(input)
		if side != want.side || ok != want.ok {
			t.Fatalf("ParseColor(%q) = %v, %v", input, side, ok)
		}
	}
}
