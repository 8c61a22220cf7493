package main

import (
	"bufio"
	"flag"
	"fmt"
	"image/color"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/rs/zerolog"

	"github.com/sh0ck-zy/fianco-game-AI/engine"
	"github.com/sh0ck-zy/fianco-game-AI/localgame"
	"github.com/sh0ck-zy/fianco-game-AI/notation"
)

const (
	squareSize     = 60
	boardWidth     = engine.BoardSize * squareSize
	sidePanelWidth = 200
	timerHeight    = 50
	screenWidth    = boardWidth + sidePanelWidth
	screenHeight   = boardWidth + timerHeight
)

var (
	background  = color.RGBA{245, 245, 220, 255}
	lightSquare = color.RGBA{205, 170, 125, 255}
	darkSquare  = color.RGBA{139, 69, 19, 255}
	panelColor  = color.RGBA{220, 220, 220, 255}
	timerColor  = color.RGBA{200, 200, 200, 255}
	selectColor = color.RGBA{0, 255, 0, 255}
	targetColor = color.RGBA{255, 0, 0, 255}
	lastColor   = color.RGBA{255, 215, 0, 255}
	pieceA      = color.RGBA{255, 255, 255, 255}
	pieceB      = color.RGBA{0, 0, 0, 255}
)

type Game struct {
	session *localgame.Session
	logger  zerolog.Logger
	quit    bool
}

func (g *Game) Update() error {
	if g.quit || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	view := g.session.View()
	if view.Outcome.Decided() {
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) || len(inpututil.AppendJustPressedKeys(nil)) > 0 {
			g.quit = true
		}
		return nil
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyU) {
		if undone, err := g.session.Undo(); err != nil {
			g.logger.Debug().Err(err).Msg("undo-ignored")
		} else {
			g.logger.Info().Int("undone", undone).Msg("undo")
		}
		return nil
	}
	if view.ToMove == g.session.Human() {
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			x, y := ebiten.CursorPosition()
			row, col, ok := notation.CellAt(x, y, squareSize)
			if !ok {
				return nil
			}
			if _, err := g.session.Click(row, col); err != nil {
				g.logger.Warn().Err(err).Msg("click-rejected")
			}
		}
		return nil
	}
	g.session.StartAI()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	view := g.session.View()
	if view.Outcome.Decided() {
		g.drawGameOver(screen, view)
		return
	}
	screen.Fill(background)
	g.drawBoard(screen, view)
	g.drawPanel(screen, view)
	g.drawTimers(screen, view)
}

func (g *Game) drawBoard(screen *ebiten.Image, view localgame.View) {
	for row := 0; row < engine.BoardSize; row++ {
		for col := 0; col < engine.BoardSize; col++ {
			x := float32(col * squareSize)
			y := float32(row * squareSize)
			clr := lightSquare
			if (row+col)%2 == 1 {
				clr = darkSquare
			}
			vector.DrawFilledRect(screen, x, y, squareSize, squareSize, clr, false)
			if view.LastMove != nil && ((view.LastMove.FromRow == row && view.LastMove.FromCol == col) ||
				(view.LastMove.ToRow == row && view.LastMove.ToCol == col)) {
				vector.StrokeRect(screen, x+1, y+1, squareSize-2, squareSize-2, 2, lastColor, false)
			}
			if view.Selected != nil && view.Selected[0] == row && view.Selected[1] == col {
				vector.StrokeRect(screen, x+1, y+1, squareSize-2, squareSize-2, 3, selectColor, false)
			}
			for _, m := range view.Targets {
				if m.ToRow == row && m.ToCol == col {
					vector.StrokeRect(screen, x+1, y+1, squareSize-2, squareSize-2, 3, targetColor, false)
				}
			}
			switch view.Board.At(row, col) {
			case engine.CellA:
				vector.DrawFilledCircle(screen, x+squareSize/2, y+squareSize/2, squareSize/2-10, pieceA, true)
			case engine.CellB:
				vector.DrawFilledCircle(screen, x+squareSize/2, y+squareSize/2, squareSize/2-10, pieceB, true)
			}
			ebitenutil.DebugPrintAt(screen, notation.Square(row, col), int(x)+4, int(y)+squareSize-18)
		}
	}
}

func (g *Game) drawPanel(screen *ebiten.Image, view localgame.View) {
	vector.DrawFilledRect(screen, boardWidth, 0, sidePanelWidth, screenHeight, panelColor, false)
	x := boardWidth + 10
	y := 10
	for _, entry := range view.Recent {
		who := "W"
		if entry.Side == engine.SideB {
			who = "B"
		}
		if entry.IsAI {
			who += "*"
		}
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s: %s (%.1fs)", who, notation.Format(entry.Move), entry.Seconds()), x, y)
		y += 20
	}
	y += 10
	ebitenutil.DebugPrintAt(screen, "Captured Pieces:", x, y)
	for i := 0; i < view.Captures[engine.SideB]; i++ {
		vector.DrawFilledCircle(screen, float32(x+10+i*15), float32(y+30), 6, pieceA, true)
	}
	for i := 0; i < view.Captures[engine.SideA]; i++ {
		vector.DrawFilledCircle(screen, float32(x+10+i*15), float32(y+50), 6, pieceB, true)
	}
	if view.Thinking {
		ebitenutil.DebugPrintAt(screen, "AI thinking...", x, y+70)
	}
}

func (g *Game) drawTimers(screen *ebiten.Image, view localgame.View) {
	vector.DrawFilledRect(screen, 0, boardWidth, boardWidth, timerHeight, timerColor, false)
	human := view.Human
	ai := human.Opponent()
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Your Time: %.1fs", view.Clocks[human].Seconds()), 10, boardWidth+18)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("AI Time: %.1fs", view.Clocks[ai].Seconds()), boardWidth/2, boardWidth+18)
}

func (g *Game) drawGameOver(screen *ebiten.Image, view localgame.View) {
	screen.Fill(color.Black)
	message := "AI wins!"
	if view.Outcome.Winner == view.Human {
		message = "You win!"
	}
	lines := []string{
		message,
		fmt.Sprintf("by %s", view.Outcome.Reason),
		fmt.Sprintf("Total Moves: %d", view.MoveCount),
		fmt.Sprintf("Your Time: %.1fs", view.Clocks[view.Human].Seconds()),
		fmt.Sprintf("AI Time: %.1fs", view.Clocks[view.Human.Opponent()].Seconds()),
		"",
		"press any key to close",
	}
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, screenWidth/2-80, screenHeight/2-100+i*20)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func promptSide(in *bufio.Reader) engine.Side {
	fmt.Print("Choose your color (W/B): ")
	for {
		line, err := in.ReadString('\n')
		if side, ok := localgame.ParseColor(line); ok {
			return side
		}
		if err != nil {
			return engine.SideA
		}
		fmt.Print("Invalid input. Choose your color (W/B): ")
	}
}

func main() {
	colorFlag := flag.String("color", "", "human colour, W (moves first) or B; prompts when empty")
	depth := flag.Int("depth", 3, "AI search depth")
	budget := flag.Duration("budget", 5*time.Second, "AI time budget per move")
	workers := flag.Int("workers", 1, "root search goroutines")
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339Nano
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Str("component", "desktop").Logger()

	human, ok := localgame.ParseColor(*colorFlag)
	if !ok {
		human = promptSide(bufio.NewReader(os.Stdin))
	}

	cfg := localgame.DefaultConfig()
	cfg.Depth = *depth
	cfg.Budget = *budget
	cfg.Search.RootWorkers = *workers
	cfg.Logger = &logger
	session := localgame.New(human, cfg)
	defer session.Close()

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Fianco")
	if err := ebiten.RunGame(&Game{session: session, logger: logger}); err != nil {
		logger.Fatal().Err(err).Msg("desktop exited")
	}
}
