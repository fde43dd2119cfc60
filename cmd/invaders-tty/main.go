// Command invaders-tty plays the game in a terminal.
package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"

	"SpaceInvaders/internal/arcade"
	"SpaceInvaders/internal/config"
	"SpaceInvaders/internal/hiscore"
)

type command int

const (
	cmdEnter command = iota
	cmdHelp
	cmdExit
	cmdMute
	cmdResize
	cmdQuit
)

// app owns the simulation; only the loop goroutine touches it.
type app struct {
	screen tcell.Screen
	sim    *arcade.Game
	p      arcade.Params
	board  *board
	snd    *speakerSounder
	keys   *latch
	help   bool

	cmds chan command
	done chan struct{}
}

func newApp(screen tcell.Screen, cfg config.Config, store arcade.HighScoreStore, snd *speakerSounder, seed int64) *app {
	a := &app{
		screen: screen,
		p:      cfg.Arcade(),
		board:  &board{},
		snd:    snd,
		keys:   &latch{},
		cmds:   make(chan command, 16),
		done:   make(chan struct{}),
	}
	a.sim = arcade.New(a.p, arcade.Options{
		HUD:   a.board,
		Store: store,
		Sound: snd,
		Rand:  rand.New(rand.NewSource(seed)),
	})
	return a
}

// run drives the event poller and the frame loop until quit or ctx ends.
func (a *app) run(ctx context.Context, fps int) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(a.poll)
	g.Go(func() error {
		defer a.screen.Fini() // unblocks PollEvent
		defer close(a.done)
		return a.loop(ctx, fps)
	})
	return g.Wait()
}

func (a *app) poll() error {
	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}
		a.handle(ev, time.Now())
	}
}

func (a *app) send(c command) {
	select {
	case a.cmds <- c:
	case <-a.done:
	}
}

// handle runs on the poll goroutine: held keys go to the latch, everything
// else becomes a command for the loop.
func (a *app) handle(ev tcell.Event, now time.Time) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyLeft:
			a.keys.press(actLeft, now)
		case tcell.KeyRight:
			a.keys.press(actRight, now)
		case tcell.KeyEnter:
			a.send(cmdEnter)
		case tcell.KeyEscape:
			a.send(cmdExit)
		case tcell.KeyCtrlC:
			a.send(cmdQuit)
		case tcell.KeyRune:
			switch unicode.ToLower(ev.Rune()) {
			case 'a':
				a.keys.press(actLeft, now)
			case 'd':
				a.keys.press(actRight, now)
			case ' ', 'j':
				a.keys.press(actFire, now)
			case 'x', 'k':
				a.keys.press(actSuper, now)
			case 'h':
				a.send(cmdHelp)
			case 'm':
				a.send(cmdMute)
			case 'q':
				a.send(cmdQuit)
			}
		}
	case *tcell.EventMouse:
		x, _ := ev.Position()
		if ev.Buttons()&tcell.Button1 != 0 {
			a.keys.drag(newView(a.screen, a.p).fieldX(x))
		} else {
			a.keys.release()
		}
	case *tcell.EventResize:
		a.send(cmdResize)
	}
}

func (a *app) loop(ctx context.Context, fps int) error {
	if fps <= 0 {
		fps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	a.render()
	for {
		select {
		case <-ctx.Done():
			return nil
		case c := <-a.cmds:
			if a.apply(c) {
				return nil
			}
			a.render()
		case now := <-ticker.C:
			a.sim.Frame(a.keys.snapshot(now))
			a.render()
		}
	}
}

// apply executes a command and reports whether the program should quit.
func (a *app) apply(c command) bool {
	switch c {
	case cmdEnter:
		switch a.sim.State() {
		case arcade.StateIdle:
			a.sim.Start()
		case arcade.StatePaused:
			a.help = false
			a.sim.Resume()
		}
	case cmdHelp:
		switch a.sim.State() {
		case arcade.StateRunning:
			a.help = true
			a.sim.Pause()
		case arcade.StatePaused:
			a.help = false
			a.sim.Resume()
		}
	case cmdExit:
		a.help = false
		a.sim.Exit()
	case cmdMute:
		if a.snd.toggle() {
			log.Println("sound muted")
		}
	case cmdResize:
		a.screen.Sync()
	case cmdQuit:
		return true
	}
	return false
}

func (a *app) render() {
	a.screen.Clear()
	newView(a.screen, a.p).draw(a.screen, a.sim.Snapshot(), a.board, a.snd.isMuted(), a.help)
	a.screen.Show()
}

func main() {
	cfgPath := flag.String("config", "invaders.toml", "TOML config file (optional)")
	scorePath := flag.String("hiscore", hiscore.DefaultPath(), "high score file")
	logPath := flag.String("log", "invaders-tty.log", "log file; the terminal is busy drawing")
	mute := flag.Bool("mute", false, "start with sound off")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	fps := flag.Int("fps", 60, "frames per second")
	flag.Parse()

	if f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
		log.SetOutput(f)
		defer f.Close()
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal(err)
	}

	store, err := hiscore.Open(*scorePath)
	if err != nil {
		log.Printf("starting with empty high score: %v", err)
	}

	snd, err := newSpeakerSounder(cfg.Audio.SampleRate, cfg.Audio.Muted || *mute)
	if err != nil {
		// non-fatal, the game runs without sound
		log.Printf("audio unavailable: %v", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}
	screen.EnableMouse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(screen, cfg, store, snd, *seed).run(ctx, *fps); err != nil {
		log.Fatal(err)
	}
}
