package main

import (
	"flag"
	"fmt"
	"image/color"
	_ "image/jpeg" // let ebiten load .jpg backgrounds
	_ "image/png"  // let ebiten load .png sprites
	"log"
	"math/rand"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"SpaceInvaders/internal/arcade"
	"SpaceInvaders/internal/config"
	"SpaceInvaders/internal/hiscore"
	"SpaceInvaders/internal/sound"
)

const (
	// centered message panel (menus, tutorial, game over)
	panelW = 360
	panelH = 140

	// background scroll speed (pixels per frame)
	bgScrollSpeed = 1.2
	starCount     = 80
)

var (
	colPlayer    = color.RGBA{255, 255, 255, 255}
	colRed       = color.RGBA{0xff, 0x55, 0x55, 255}
	colCyan      = color.RGBA{0x55, 0xff, 0xff, 255}
	colShot      = color.RGBA{255, 255, 255, 255}
	colPowerShot = color.RGBA{240, 220, 60, 255}
	colStar      = color.RGBA{200, 200, 220, 255}
)

// used only if there is no background image
type star struct{ x, y, v float64 }

// hud is the on-screen scoreboard; the loop pushes values into it.
type hud struct {
	score, lives, charge int
	level                string
}

func (h *hud) SetScore(s int)    { h.score = s }
func (h *hud) SetLives(l int)    { h.lives = l }
func (h *hud) SetLevel(l string) { h.level = l }
func (h *hud) SetCharge(c int)   { h.charge = c }

func (h *hud) String() string {
	return fmt.Sprintf("SCORE %d   %s   LIVES %s  CHARGE %d%%",
		h.score, h.level, strings.Repeat("<3 ", h.lives), h.charge)
}

// Game adapts the arcade loop to ebiten's Update/Draw/Layout.
type Game struct {
	sim   *arcade.Game
	p     arcade.Params
	hud   *hud
	sound *sound.Bank

	tutorial bool // overlay is up and the run is paused

	stars []star
	bgImg *ebiten.Image
	bgOff float64

	// optional sprites (nil → draw rectangles)
	shipImg   *ebiten.Image
	redImg    *ebiten.Image
	cyanImg   *ebiten.Image
	shotImg   *ebiten.Image
	assetsDir string

	rng *rand.Rand
}

func newGame(cfg config.Config, store arcade.HighScoreStore, seed int64) *Game {
	g := &Game{
		p:         cfg.Arcade(),
		hud:       &hud{},
		assetsDir: cfg.Assets.Dir,
		rng:       rand.New(rand.NewSource(seed)),
	}

	ctx := audio.NewContext(cfg.Audio.SampleRate)
	g.sound = sound.New(ctx, cfg.Assets.Dir, cfg.Audio.Muted)

	g.sim = arcade.New(g.p, arcade.Options{
		HUD:   g.hud,
		Store: store,
		Sound: g.sound,
		Rand:  rand.New(rand.NewSource(g.rng.Int63())),
	})

	// make some stars in case there is no background image
	g.stars = make([]star, starCount)
	for i := range g.stars {
		g.stars[i] = star{
			x: g.rng.Float64() * (g.p.FieldW - 2),
			y: g.rng.Float64() * g.p.FieldH,
			v: 0.5 + g.rng.Float64(),
		}
	}

	g.initImages()
	return g
}

// load images (with fallbacks)
func (g *Game) initImages() {
	load := func(names ...string) *ebiten.Image {
		for _, name := range names {
			if img, _, err := ebitenutil.NewImageFromFile(filepath.Join(g.assetsDir, name)); err == nil {
				return img
			}
		}
		return nil
	}

	g.bgImg = load("background.png", "space.png", "background.jpg", "space.jpg")
	if g.bgImg == nil {
		log.Println("no background image found; using star fallback")
	}
	g.shipImg = load("ship.png", "player.png")
	g.redImg = load("enemy1.png", "enemy.png")
	g.cyanImg = load("enemy2.png", "enemy.png")
	g.shotImg = load("shot.png")
}

// Update handles menus, then feeds one input snapshot to the loop.
func (g *Game) Update() error {
	g.scrollBackground()

	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		if g.sound.Toggle() {
			log.Println("sound muted")
		}
	}

	switch g.sim.State() {
	case arcade.StateIdle:
		if g.startPressed() {
			g.sim.Start()
		}
		return nil
	case arcade.StatePaused:
		if inpututil.IsKeyJustPressed(ebiten.KeyH) || inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			g.tutorial = false
			g.sim.Resume()
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
			g.tutorial = false
			g.sim.Exit()
		}
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.tutorial = true
		g.sim.Pause()
		return nil
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.sim.Exit()
		return nil
	}

	g.sim.Frame(g.readInput())
	return nil
}

func (g *Game) startPressed() bool {
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		return true
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return true
	}
	return len(inpututil.AppendJustPressedTouchIDs(nil)) > 0
}

// readInput takes the keyboard, mouse and touch state for this frame.
func (g *Game) readInput() arcade.Input {
	in := arcade.Input{
		Left:  ebiten.IsKeyPressed(ebiten.KeyLeft) || ebiten.IsKeyPressed(ebiten.KeyA),
		Right: ebiten.IsKeyPressed(ebiten.KeyRight) || ebiten.IsKeyPressed(ebiten.KeyD),
		Fire:  ebiten.IsKeyPressed(ebiten.KeySpace) || ebiten.IsKeyPressed(ebiten.KeyJ),
		Super: ebiten.IsKeyPressed(ebiten.KeyX) || ebiten.IsKeyPressed(ebiten.KeyK),
	}

	// mouse drag moves the ship
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		x, _ := ebiten.CursorPosition()
		in.Pointer, in.PointerX = true, float64(x)
	}

	// touch: drag to position, a fresh tap also fires
	if ids := ebiten.AppendTouchIDs(nil); len(ids) > 0 {
		x, _ := ebiten.TouchPosition(ids[0])
		in.Pointer, in.PointerX = true, float64(x)
		if len(inpututil.AppendJustPressedTouchIDs(nil)) > 0 {
			in.Fire = true
		}
	}
	return in
}

// tile the background vertically, or move the stars
func (g *Game) scrollBackground() {
	if g.bgImg != nil {
		h := g.bgImg.Bounds().Dy()
		g.bgOff += bgScrollSpeed
		if h > 0 && g.bgOff >= float64(h) {
			g.bgOff -= float64(h)
		}
		return
	}
	for i := range g.stars {
		g.stars[i].y += g.stars[i].v
		if g.stars[i].y > g.p.FieldH {
			g.stars[i].y = -2
			g.stars[i].x = g.rng.Float64() * (g.p.FieldW - 2)
		}
	}
}

// drawing (screen render)
func (g *Game) Draw(screen *ebiten.Image) {
	g.drawBackground(screen)

	s := g.sim.Snapshot()
	if s.State == arcade.StateIdle {
		if s.GameOver {
			g.drawCenterPanel(screen, "GAME OVER",
				fmt.Sprintf("Final score: %d\nHigh score: %d\n\nENTER to play again", s.Score, s.HighScore))
			return
		}
		g.drawCenterPanel(screen, "SPACE INVADERS",
			fmt.Sprintf("High score: %d\n\nENTER / click to start\nH help  M mute", s.HighScore))
		return
	}

	pl := s.Player
	drawSprite(screen, g.shipImg, pl.X, pl.Y, pl.W, pl.H, func() {
		ebitenutil.DrawRect(screen, pl.X, pl.Y+10, pl.W, pl.H-10, colPlayer)
		ebitenutil.DrawRect(screen, pl.X+pl.W/2-5, pl.Y, 10, 10, colPlayer) // tip
	})

	for _, e := range s.Enemies {
		img, col := g.redImg, colRed
		if e.Tier == arcade.TierCyan {
			img, col = g.cyanImg, colCyan
		}
		drawSprite(screen, img, e.X, e.Y, e.W, e.H, func() {
			ebitenutil.DrawRect(screen, e.X, e.Y, e.W, e.H, col)
		})
	}

	for _, sh := range s.Shots {
		col := colShot
		switch {
		case sh.Kind == arcade.EnemyShot:
			col = colRed
		case sh.Power:
			col = colPowerShot
		}
		if sh.Kind == arcade.PlayerShot && !sh.Power && g.shotImg != nil {
			drawSprite(screen, g.shotImg, sh.X, sh.Y, sh.W, sh.H, nil)
			continue
		}
		ebitenutil.DrawRect(screen, sh.X, sh.Y, sh.W, sh.H, col)
	}

	ebitenutil.DebugPrint(screen, g.hud.String())

	if g.tutorial {
		g.drawCenterPanel(screen, "HOW TO PLAY",
			"A/D or arrows: move   SPACE: fire\nX: super shot at 100% charge\nmouse/touch: drag, tap to fire\n\nH/ENTER resume   ESC menu")
	}
}

func (g *Game) drawBackground(screen *ebiten.Image) {
	if g.bgImg != nil {
		h := g.bgImg.Bounds().Dy()
		for y := -int(g.bgOff); y < int(g.p.FieldH); y += h {
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(0, float64(y))
			screen.DrawImage(g.bgImg, op)
		}
		return
	}
	for _, s := range g.stars {
		ebitenutil.DrawRect(screen, s.x, s.y, 2, 2, colStar)
	}
}

// drawSprite scales img into the box, or calls fallback when there is no image.
func drawSprite(screen, img *ebiten.Image, x, y, w, h float64, fallback func()) {
	if img == nil {
		if fallback != nil {
			fallback()
		}
		return
	}
	iw, ih := img.Bounds().Dx(), img.Bounds().Dy()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w/float64(iw), h/float64(ih))
	op.GeoM.Translate(x, y)
	screen.DrawImage(img, op)
}

func (g *Game) Layout(_, _ int) (int, int) { return int(g.p.FieldW), int(g.p.FieldH) }

// basic center panel (text only)
func (g *Game) drawCenterPanel(screen *ebiten.Image, title, body string) {
	px := (int(g.p.FieldW) - panelW) / 2
	py := (int(g.p.FieldH) - panelH) / 2
	panel := ebiten.NewImage(panelW, panelH)
	panel.Fill(color.RGBA{0, 0, 0, 200})
	ebitenutil.DebugPrint(panel, title+"\n\n"+body)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(px), float64(py))
	screen.DrawImage(panel, op)
}

// program entry
func main() {
	cfgPath := flag.String("config", "invaders.toml", "TOML config file (optional)")
	scorePath := flag.String("hiscore", hiscore.DefaultPath(), "high score file")
	mute := flag.Bool("mute", false, "start with sound off")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	if *mute {
		cfg.Audio.Muted = true
	}

	store, err := hiscore.Open(*scorePath)
	if err != nil {
		log.Printf("starting with empty high score: %v", err)
	}

	ebiten.SetWindowTitle("Space Invaders")
	ebiten.SetWindowSize(int(cfg.Field.Width), int(cfg.Field.Height))
	if err := ebiten.RunGame(newGame(cfg, store, *seed)); err != nil {
		log.Fatal(err)
	}
}
