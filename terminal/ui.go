package main

import (
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/sh0ck-zy/fianco-game-AI/engine"
	"github.com/sh0ck-zy/fianco-game-AI/localgame"
	"github.com/sh0ck-zy/fianco-game-AI/notation"
)

const (
	boardLeft  = 3
	boardTop   = 1
	cellWidth  = 3
	panelLeft  = boardLeft + engine.BoardSize*cellWidth + 4
	statusLine = boardTop + engine.BoardSize + 2
	inputLine  = statusLine + 1
)

var (
	styleDefault = tcell.StyleDefault
	styleLight   = tcell.StyleDefault.Background(tcell.NewRGBColor(205, 170, 125)).Foreground(tcell.ColorBlack)
	styleDark    = tcell.StyleDefault.Background(tcell.NewRGBColor(139, 69, 19)).Foreground(tcell.ColorBlack)
	styleLast    = tcell.StyleDefault.Background(tcell.ColorGold).Foreground(tcell.ColorBlack)
	styleAI      = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleBold    = tcell.StyleDefault.Bold(true)
)

type ui struct {
	screen  tcell.Screen
	session *localgame.Session
	input   []rune
	message string
}

// handleKey applies one key press. It reports false when the user quits.
func (u *ui) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyEnter:
		u.submit()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(u.input) > 0 {
			u.input = u.input[:len(u.input)-1]
		}
	case tcell.KeyRune:
		r := ev.Rune()
		if len(u.input) == 0 {
			switch r {
			case 'q', 'Q':
				return false
			case 'u', 'U':
				u.undo()
				return true
			}
		}
		u.input = append(u.input, r)
	}
	return true
}

func (u *ui) submit() {
	text := string(u.input)
	u.input = u.input[:0]
	if text == "" {
		return
	}
	move, err := notation.Parse(text)
	if err != nil {
		u.message = err.Error()
		return
	}
	if err := u.session.Play(move); err != nil {
		if errors.Is(err, engine.ErrIllegalMove) {
			u.message = fmt.Sprintf("illegal move %s", notation.Format(move))
			return
		}
		u.message = err.Error()
		return
	}
	u.message = fmt.Sprintf("played %s", notation.Format(move))
}

func (u *ui) undo() {
	undone, err := u.session.Undo()
	if err != nil {
		u.message = "nothing to undo"
		return
	}
	u.message = fmt.Sprintf("took back %d move(s)", undone)
}

func (u *ui) draw() {
	view := u.session.View()
	u.screen.Clear()
	u.drawBoard(view)
	u.drawPanel(view)
	u.drawStatus(view)
	u.screen.Show()
}

func (u *ui) drawBoard(view localgame.View) {
	for row := 0; row < engine.BoardSize; row++ {
		y := boardTop + row
		u.print(0, y, styleDefault, fmt.Sprintf("%d", engine.BoardSize-row))
		for col := 0; col < engine.BoardSize; col++ {
			style := styleLight
			if (row+col)%2 == 1 {
				style = styleDark
			}
			if view.LastMove != nil && ((view.LastMove.FromRow == row && view.LastMove.FromCol == col) ||
				(view.LastMove.ToRow == row && view.LastMove.ToCol == col)) {
				style = styleLast
			}
			glyph := ' '
			switch view.Board.At(row, col) {
			case engine.CellA:
				glyph = 'W'
				style = style.Foreground(tcell.ColorWhite).Bold(true)
			case engine.CellB:
				glyph = 'B'
				style = style.Foreground(tcell.ColorBlack).Bold(true)
			}
			x := boardLeft + col*cellWidth
			u.screen.SetContent(x, y, ' ', nil, style)
			u.screen.SetContent(x+1, y, glyph, nil, style)
			u.screen.SetContent(x+2, y, ' ', nil, style)
		}
	}
	for col := 0; col < engine.BoardSize; col++ {
		u.screen.SetContent(boardLeft+col*cellWidth+1, boardTop+engine.BoardSize, rune('A'+col), nil, styleDefault)
	}
}

func (u *ui) drawPanel(view localgame.View) {
	u.print(panelLeft, 0, styleBold, "Moves")
	for i, entry := range view.Recent {
		style := styleDefault
		if entry.IsAI {
			style = styleAI
		}
		u.print(panelLeft, 1+i, style, fmt.Sprintf("%s: %s (%.1fs)", colorName(entry.Side), notation.Format(entry.Move), entry.Seconds()))
	}
	y := 2 + localgame.RecentMoves
	u.print(panelLeft, y, styleDefault, fmt.Sprintf("Captured by W: %d  by B: %d", view.Captures[engine.SideA], view.Captures[engine.SideB]))
	u.print(panelLeft, y+1, styleDefault, fmt.Sprintf("Your Time: %.1fs  AI Time: %.1fs",
		view.Clocks[view.Human].Seconds(), view.Clocks[view.Human.Opponent()].Seconds()))
}

func (u *ui) drawStatus(view localgame.View) {
	u.print(0, statusLine, styleBold, statusText(view))
	if u.message != "" {
		u.print(0, inputLine+1, styleDefault, u.message)
	}
	prompt := "move> " + string(u.input)
	u.print(0, inputLine, styleDefault, prompt)
	u.screen.ShowCursor(len([]rune(prompt)), inputLine)
}

func statusText(view localgame.View) string {
	if view.Outcome.Decided() {
		who := "AI wins"
		if view.Outcome.Winner == view.Human {
			who = "You win"
		}
		return fmt.Sprintf("%s by %s after %d moves. q to quit, u to undo", who, view.Outcome.Reason, view.MoveCount)
	}
	if view.ToMove != view.Human {
		if view.Thinking {
			return "AI is thinking..."
		}
		return "AI to move"
	}
	return fmt.Sprintf("You play %s. Enter a move like D4 D5, u to undo, q to quit", colorName(view.Human))
}

func colorName(side engine.Side) string {
	if side == engine.SideA {
		return "W"
	}
	return "B"
}

func (u *ui) print(x, y int, style tcell.Style, text string) {
	for i, r := range []rune(text) {
		u.screen.SetContent(x+i, y, r, nil, style)
	}
}
