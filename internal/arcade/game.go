// Package arcade is the invaders simulation: one owned state value advanced a
// frame at a time, with collisions resolved through a resolv space.
package arcade

import (
	"math/rand"
	"time"

	"github.com/solarlune/resolv"
)

const (
	cellSize  = 32
	fullMeter = 100
)

// Options wires the collaborators. Nil fields fall back to no-ops, a
// memory-only store and a time-seeded generator.
type Options struct {
	HUD   HUD
	Store HighScoreStore
	Sound Sounder
	Rand  *rand.Rand
}

// Game is the whole simulation. It is not safe for concurrent use; front ends
// that collect input on other goroutines hand it over as one Input per frame.
type Game struct {
	p Params

	hud   HUD
	store HighScoreStore
	snd   Sounder
	rng   *rand.Rand

	state State
	over  bool
	frame uint64

	score, lives, level int
	charge              int

	player   Player
	playerSh resolv.IShape
	enemies  []Enemy
	shots    []Shot
	space    *resolv.Space

	// swarm
	dir       float64
	stepTimer int

	cooldown int
}

func New(p Params, opt Options) *Game {
	g := &Game{
		p:     p,
		hud:   opt.HUD,
		store: opt.Store,
		snd:   opt.Sound,
		rng:   opt.Rand,
		level: 1,
		lives: p.StartLives,
	}
	if g.hud == nil {
		g.hud = nopHUD{}
	}
	if g.store == nil {
		g.store = &MemoryStore{}
	}
	if g.snd == nil {
		g.snd = nopSounder{}
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	g.reset()
	return g
}

func (g *Game) Params() Params { return g.p }
func (g *Game) State() State   { return g.state }

// GameOver reports whether the last run ended because the player lost.
func (g *Game) GameOver() bool { return g.over }

// HighScore reads through to the store.
func (g *Game) HighScore() int { return g.store.Get() }

// Start begins a fresh run. It does nothing unless the loop is idle.
func (g *Game) Start() {
	if g.state != StateIdle {
		return
	}
	g.score, g.lives, g.level, g.charge = 0, g.p.StartLives, 1, 0
	g.over = false
	g.reset()
	g.spawnFormation()
	g.state = StateRunning
	g.pushHUD()
}

// Pause freezes a run without touching its data (tutorial overlay).
func (g *Game) Pause() {
	if g.state == StateRunning {
		g.state = StatePaused
	}
}

func (g *Game) Resume() {
	if g.state == StatePaused {
		g.state = StateRunning
	}
}

// Exit abandons the run and goes back to idle. Abandoned runs are not recorded.
func (g *Game) Exit() {
	if g.state == StateIdle {
		return
	}
	g.state = StateIdle
	g.over = false
}

// Frame advances the simulation by one display frame. Outside a running
// state it is a no-op, so a stale frame callback can never act.
func (g *Game) Frame(in Input) {
	if g.state != StateRunning {
		return
	}
	g.frame++

	g.movePlayer(in)
	g.fire(in)
	g.stepSwarm()
	g.updatePlayerShots()
	g.enemyFire()
	g.updateEnemyShots()
	if g.state != StateRunning {
		return
	}
	g.checkBreach()
}

// Snapshot copies the state for renderers and tests.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		State:     g.state,
		GameOver:  g.over,
		Frame:     g.frame,
		Score:     g.score,
		Lives:     g.lives,
		Level:     g.level,
		Charge:    g.charge,
		HighScore: g.store.Get(),
		Player:    g.player,
		Enemies:   append([]Enemy(nil), g.enemies...),
		Shots:     append([]Shot(nil), g.shots...),
	}
}

// reset rebuilds the collision space with only the player in it.
func (g *Game) reset() {
	g.space = resolv.NewSpace(int(g.p.FieldW), int(g.p.FieldH), cellSize, cellSize)

	g.player = Player{
		X:     g.p.FieldW/2 - g.p.PlayerW/2,
		Y:     g.p.FieldH - g.p.PlayerLift,
		W:     g.p.PlayerW,
		H:     g.p.PlayerH,
		Speed: g.p.PlayerSpeed,
	}
	sh := resolv.NewRectangleFromTopLeft(g.player.X, g.player.Y, g.player.W, g.player.H)
	sh.Tags().Set(tagPlayer)
	g.space.Add(sh)
	g.playerSh = sh

	g.enemies = nil
	g.shots = nil
	g.dir = 1
	g.stepTimer = 0
	g.cooldown = 0
	g.frame = 0
}

func (g *Game) pushHUD() {
	g.hud.SetScore(g.score)
	g.hud.SetLives(g.lives)
	g.hud.SetLevel(SectorLabel(g.level))
	g.hud.SetCharge(g.charge)
}

// place moves a shape so its top-left corner is at x, y; resolv positions
// rectangles by their centre.
func place(sh resolv.IShape, x, y, w, h float64) {
	sh.SetPosition(x+w/2, y+h/2)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
