package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/sh0ck-zy/fianco-game-AI/engine"
	"github.com/sh0ck-zy/fianco-game-AI/localgame"
)

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
	logPath := flag.String("log", "", "append logs to this file; logging is off when empty")
	flag.Parse()

	logger := zerolog.Nop()
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger = zerolog.New(f).With().Timestamp().Str("component", "terminal").Logger()
	}

	human, ok := localgame.ParseColor(*colorFlag)
	if !ok {
		human = promptSide(bufio.NewReader(os.Stdin))
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "terminal: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "terminal: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	cfg := localgame.DefaultConfig()
	cfg.Depth = *depth
	cfg.Budget = *budget
	cfg.Logger = &logger
	cfg.OnChange = func() { _ = screen.PostEvent(tcell.NewEventInterrupt(nil)) }
	session := localgame.New(human, cfg)
	defer session.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}
	}()

	u := &ui{screen: screen, session: session}
	run(u)
}

func run(u *ui) {
	for {
		u.session.StartAI()
		u.draw()
		switch ev := u.screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventResize:
			u.screen.Sync()
		case *tcell.EventKey:
			if !u.handleKey(ev) {
				return
			}
		}
	}
}
