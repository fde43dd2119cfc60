package arcade

import (
	"math/rand"
	"testing"
)

type recHUD struct {
	score, lives, charge int
	level                string
	scoreCalls           int
}

func (h *recHUD) SetScore(s int)    { h.score = s; h.scoreCalls++ }
func (h *recHUD) SetLives(l int)    { h.lives = l }
func (h *recHUD) SetLevel(l string) { h.level = l }
func (h *recHUD) SetCharge(c int)   { h.charge = c }

type recStore struct {
	best int
	sets []int
}

func (s *recStore) Get() int { return s.best }
func (s *recStore) Set(v int) {
	s.best = v
	s.sets = append(s.sets, v)
}

type recSounder struct{ played map[Sound]int }

func (r *recSounder) Play(s Sound) {
	if r.played == nil {
		r.played = make(map[Sound]int)
	}
	r.played[s]++
}

// quietParams disables enemy fire so tests control every shot.
func quietParams() Params {
	p := DefaultParams()
	p.EnemyFireBase = 0
	p.EnemyFireLevel = 0
	return p
}

type fixture struct {
	g     *Game
	hud   *recHUD
	store *recStore
	snd   *recSounder
}

func newFixture(t *testing.T, p Params) *fixture {
	t.Helper()
	f := &fixture{hud: &recHUD{}, store: &recStore{}, snd: &recSounder{}}
	f.g = New(p, Options{HUD: f.hud, Store: f.store, Sound: f.snd, Rand: rand.New(rand.NewSource(1))})
	f.g.Start()
	if f.g.State() != StateRunning {
		t.Fatalf("expected running after Start, got %s", f.g.State())
	}
	return f
}

// keepEnemies trims the swarm down to its first n members.
func keepEnemies(g *Game, n int) {
	for _, e := range g.enemies[n:] {
		g.space.Remove(e.sh)
	}
	g.enemies = g.enemies[:n]
}

// moveEnemy puts the first enemy's top-left corner at x, y.
func moveEnemy(g *Game, x, y float64) {
	e := &g.enemies[0]
	e.X, e.Y = x, y
	place(e.sh, e.X, e.Y, e.W, e.H)
}

// shootAt puts a player shot just under e so the next frame's advance overlaps it.
func shootAt(g *Game, e Enemy) {
	g.addShot(Shot{
		Kind: PlayerShot,
		X:    e.X + e.W/2 - g.p.ShotW/2,
		Y:    e.Y + e.H - 5,
		W:    g.p.ShotW,
		H:    g.p.ShotH,
		VY:   -g.p.PlayerShotSpeed,
	})
}

// dropOnPlayer puts an enemy shot just above the player's top edge.
func dropOnPlayer(g *Game) {
	pl := g.player
	g.addShot(Shot{
		Kind: EnemyShot,
		X:    pl.X + pl.W/2 - g.p.ShotW/2,
		Y:    pl.Y - 10,
		W:    g.p.ShotW,
		H:    g.p.ShotH,
		VY:   g.p.EnemyShotSpeed,
	})
}

func TestStartResetsRun(t *testing.T) {
	p := quietParams()
	f := newFixture(t, p)

	s := f.g.Snapshot()
	if s.Score != 0 || s.Lives != 3 || s.Level != 1 {
		t.Errorf("got score=%d lives=%d level=%d, want 0/3/1", s.Score, s.Lives, s.Level)
	}
	if want := p.Grid.Rows * p.Grid.Cols; len(s.Enemies) != want {
		t.Errorf("got %d enemies, want %d", len(s.Enemies), want)
	}
	if f.hud.lives != 3 || f.hud.level != "SECTOR 1" || f.hud.score != 0 {
		t.Errorf("HUD not primed: %+v", f.hud)
	}

	// starting again while running is ignored
	f.g.score = 700
	f.g.Start()
	if f.g.score != 700 {
		t.Error("Start while running must not reset the run")
	}
}

func TestFrameIdleIsNoop(t *testing.T) {
	g := New(quietParams(), Options{Rand: rand.New(rand.NewSource(1))})
	before := g.Snapshot()
	g.Frame(Input{Right: true, Fire: true})
	after := g.Snapshot()
	if after.Frame != before.Frame || after.Player.X != before.Player.X || len(after.Shots) != 0 {
		t.Error("idle frame changed state")
	}
}

func TestPlayerStaysInField(t *testing.T) {
	p := quietParams()
	f := newFixture(t, p)

	for i := 0; i < 200; i++ {
		f.g.Frame(Input{Left: true})
		if x := f.g.player.X; x < 0 || x > p.FieldW-p.PlayerW {
			t.Fatalf("frame %d: x=%.1f outside field", i, x)
		}
	}
	if f.g.player.X != 0 {
		t.Errorf("expected ship pinned left, x=%.1f", f.g.player.X)
	}

	for i := 0; i < 200; i++ {
		f.g.Frame(Input{Right: true})
	}
	if want := p.FieldW - p.PlayerW; f.g.player.X != want {
		t.Errorf("expected ship pinned right at %.1f, x=%.1f", want, f.g.player.X)
	}

	f.g.Frame(Input{Pointer: true, PointerX: -500})
	if f.g.player.X != 0 {
		t.Errorf("pointer drag must clamp, x=%.1f", f.g.player.X)
	}
	f.g.Frame(Input{Pointer: true, PointerX: 300})
	if want := 300 - p.PlayerW/2; f.g.player.X != want {
		t.Errorf("pointer drag should centre ship: x=%.1f want %.1f", f.g.player.X, want)
	}
}

func TestFireCooldown(t *testing.T) {
	p := quietParams()
	p.MaxPlayerShots = 100
	f := newFixture(t, p)

	var fired []uint64
	for i := 0; i < 61; i++ {
		before := f.snd.played[SoundShoot]
		f.g.Frame(Input{Fire: true})
		if f.snd.played[SoundShoot] > before {
			fired = append(fired, f.g.frame)
		}
	}

	if len(fired) != 5 {
		t.Fatalf("expected 5 shots in 61 frames, got %d (%v)", len(fired), fired)
	}
	for i := 1; i < len(fired); i++ {
		if gap := fired[i] - fired[i-1]; gap < uint64(p.FireCooldown) {
			t.Errorf("shots %d and %d only %d frames apart", i-1, i, gap)
		}
	}
}

func TestMaxPlayerShots(t *testing.T) {
	p := quietParams()
	p.FireCooldown = 0
	p.MaxPlayerShots = 2
	f := newFixture(t, p)
	keepEnemies(f.g, 0)

	for i := 0; i < 5; i++ {
		f.g.Frame(Input{Fire: true})
	}
	if n := f.g.countShots(PlayerShot); n != 2 {
		t.Errorf("expected 2 shots in the air, got %d", n)
	}
}

func TestShotKillsEnemy(t *testing.T) {
	f := newFixture(t, quietParams())
	before := len(f.g.enemies)
	target := f.g.enemies[0]

	shootAt(f.g, target)
	f.g.Frame(Input{})

	s := f.g.Snapshot()
	if s.Score != 100 {
		t.Errorf("score = %d, want 100", s.Score)
	}
	if len(s.Enemies) != before-1 {
		t.Errorf("enemies = %d, want %d", len(s.Enemies), before-1)
	}
	if s.Lives != 3 {
		t.Errorf("lives = %d, want 3", s.Lives)
	}
	if len(s.Shots) != 0 {
		t.Errorf("shot should be removed with the enemy, %d left", len(s.Shots))
	}
	for _, e := range s.Enemies {
		if e.Row == target.Row && e.Col == target.Col {
			t.Error("hit enemy still alive")
		}
	}
	if f.hud.score != 100 || f.hud.scoreCalls != 2 {
		t.Errorf("HUD score=%d after %d calls, want 100 after 2", f.hud.score, f.hud.scoreCalls)
	}
	if f.hud.charge != quietParams().ChargePerKill {
		t.Errorf("charge meter = %d", f.hud.charge)
	}
}

func TestFiredShotFliesToKill(t *testing.T) {
	p := quietParams()
	p.StepBaseFrames, p.StepMinFrames = 1000, 1000
	f := newFixture(t, p)

	var target Enemy
	for _, e := range f.g.enemies {
		if e.Row == p.Grid.Rows-1 && e.Col == 2 {
			target = e
		}
	}
	aim := Input{Pointer: true, PointerX: target.X + target.W/2}

	// frames until the shot's top edge is above the target's bottom edge
	muzzle := f.g.player.Y - p.ShotH
	want := 1
	for muzzle-float64(want)*p.PlayerShotSpeed >= target.Y+target.H {
		want++
	}

	in := aim
	in.Fire = true
	f.g.Frame(in)
	if n := f.g.countShots(PlayerShot); n != 1 {
		t.Fatalf("expected a shot at the muzzle, got %d", n)
	}
	for f.g.score == 0 && f.g.frame < 120 {
		f.g.Frame(aim)
	}

	if f.g.score != 100 {
		t.Fatalf("shot never landed, score=%d", f.g.score)
	}
	if f.g.frame != uint64(want) {
		t.Errorf("kill on frame %d, want %d", f.g.frame, want)
	}
	for _, e := range f.g.enemies {
		if e.Row == target.Row && e.Col == target.Col {
			t.Error("target still alive")
		}
	}
	if n := f.g.countShots(PlayerShot); n != 0 {
		t.Errorf("%d player shots left after the kill", n)
	}
}

func TestEnemyOverShotIsHit(t *testing.T) {
	p := quietParams()
	tests := []struct {
		name         string
		ex, ey       float64
		step         bool
		shotX, shotY float64
		wantScore    int
	}{
		{"shot inside enemy", 100, 100, false, 118, 122, 100},
		{"step onto shot", 100, 100, true, 150, 122, 100},
		{"no step, no hit", 100, 100, false, 150, 122, 0},
		{"drop onto shot", p.FieldW - p.EnemyW, 100, true, p.FieldW - 22, 157, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, p)
			keepEnemies(f.g, 1)
			moveEnemy(f.g, tt.ex, tt.ey)
			f.g.dir = 1
			if tt.step {
				f.g.stepTimer = p.StepThreshold(f.g.level)
			}
			f.g.addShot(Shot{
				Kind: PlayerShot,
				X:    tt.shotX, Y: tt.shotY,
				W: p.ShotW, H: p.ShotH,
				VY: -p.PlayerShotSpeed,
			})

			f.g.Frame(Input{})

			if f.g.score != tt.wantScore {
				t.Fatalf("score = %d, want %d", f.g.score, tt.wantScore)
			}
			hit := tt.wantScore > 0
			if n := f.g.countShots(PlayerShot); (n == 0) != hit {
				t.Errorf("%d player shots left, hit=%v", n, hit)
			}
			if hit && f.g.level != 2 {
				t.Errorf("level = %d, want 2 after the last enemy", f.g.level)
			}
		})
	}
}

func TestEnemyShotSpawnsInsidePlayer(t *testing.T) {
	p := quietParams()
	p.EnemyFireBase = 1
	p.BreachEndsRun = false
	f := newFixture(t, p)
	keepEnemies(f.g, 1)

	pl := f.g.player
	moveEnemy(f.g, pl.X+pl.W/2-p.EnemyW/2, pl.Y+5-p.EnemyH)
	f.g.Frame(Input{})

	if f.g.lives != p.StartLives-1 {
		t.Errorf("lives = %d, want %d", f.g.lives, p.StartLives-1)
	}
	if n := f.g.countShots(EnemyShot); n != 0 {
		t.Errorf("%d enemy shots left, want the hit one removed", n)
	}
	if f.snd.played[SoundDamage] != 1 {
		t.Errorf("damage sound played %d times", f.snd.played[SoundDamage])
	}
}

func TestTwoShotsOneEnemy(t *testing.T) {
	f := newFixture(t, quietParams())
	target := f.g.enemies[0]

	shootAt(f.g, target)
	shootAt(f.g, target)
	f.g.Frame(Input{})

	if f.g.score != 100 {
		t.Errorf("one enemy must pay once, score=%d", f.g.score)
	}
	if n := f.g.countShots(PlayerShot); n != 1 {
		t.Errorf("second shot should keep flying, got %d shots", n)
	}
}

func TestShotLeavesTop(t *testing.T) {
	f := newFixture(t, quietParams())
	keepEnemies(f.g, 0)
	f.g.addShot(Shot{Kind: PlayerShot, X: 10, Y: 5, W: 4, H: 15, VY: -12})
	f.g.Frame(Input{})
	f.g.Frame(Input{})
	if len(f.g.shots) != 0 {
		t.Errorf("shot past the top should be gone, %d left", len(f.g.shots))
	}
}

func TestLevelClear(t *testing.T) {
	p := quietParams()
	f := newFixture(t, p)
	keepEnemies(f.g, 1)
	f.g.stepTimer = 7
	f.g.dir = -1

	shootAt(f.g, f.g.enemies[0])
	f.g.Frame(Input{})

	s := f.g.Snapshot()
	if s.Level != 2 {
		t.Fatalf("level = %d, want 2", s.Level)
	}
	if want := p.Grid.Rows * p.Grid.Cols; len(s.Enemies) != want {
		t.Errorf("enemies = %d, want %d", len(s.Enemies), want)
	}
	if f.g.stepTimer != 0 || f.g.dir != 1 {
		t.Errorf("swarm not reset: timer=%d dir=%.0f", f.g.stepTimer, f.g.dir)
	}
	if f.hud.level != "SECTOR 2" {
		t.Errorf("HUD level = %q", f.hud.level)
	}
	if f.snd.played[SoundLevelUp] != 1 {
		t.Error("expected level-up sound")
	}

	// level 2 uses the vee; its centre columns hang lower than the edges
	var edgeY, midY float64
	for _, e := range s.Enemies {
		if e.Row != 0 {
			continue
		}
		switch e.Col {
		case 0:
			edgeY = e.Y
		case p.Grid.Cols / 2:
			midY = e.Y
		}
	}
	if midY <= edgeY {
		t.Errorf("level 2 formation should be a vee: edge %.1f mid %.1f", edgeY, midY)
	}
}

func TestPowerShot(t *testing.T) {
	f := newFixture(t, quietParams())

	f.g.charge = 50
	f.g.Frame(Input{Super: true})
	if len(f.g.shots) != 0 {
		t.Fatal("super shot needs a full meter")
	}

	f.g.charge = 100
	f.g.Frame(Input{Super: true})
	if len(f.g.shots) != 1 || !f.g.shots[0].Power {
		t.Fatalf("expected one power shot, got %+v", f.g.shots)
	}
	if f.g.charge != 0 || f.hud.charge != 0 {
		t.Errorf("meter should drain, charge=%d hud=%d", f.g.charge, f.hud.charge)
	}

	// a power shot survives its kill
	keepEnemies(f.g, 1)
	e := f.g.enemies[0]
	f.g.shots[0].X = e.X + e.W/2 - f.g.shots[0].W/2
	f.g.shots[0].Y = e.Y + e.H - 5
	f.g.Frame(Input{})
	if f.g.score != 100 {
		t.Errorf("score = %d, want 100", f.g.score)
	}
	if n := f.g.countShots(PlayerShot); n != 1 {
		t.Errorf("power shot should pierce, %d player shots left", n)
	}
}

func TestChargeCaps(t *testing.T) {
	f := newFixture(t, quietParams())
	for i := 0; i < 15; i++ {
		f.g.addKill()
	}
	if f.g.charge != 100 {
		t.Errorf("charge = %d, want 100", f.g.charge)
	}
}

func TestEnemyShotCostsLife(t *testing.T) {
	f := newFixture(t, quietParams())
	dropOnPlayer(f.g)
	f.g.Frame(Input{})

	if f.g.lives != 2 || f.hud.lives != 2 {
		t.Errorf("lives = %d (hud %d), want 2", f.g.lives, f.hud.lives)
	}
	if f.g.State() != StateRunning {
		t.Errorf("state = %s, want running", f.g.State())
	}
	if len(f.g.shots) != 0 {
		t.Error("enemy shot should be removed on hit")
	}
}

func TestEnemyShotLeavesBottom(t *testing.T) {
	p := quietParams()
	f := newFixture(t, p)
	f.g.addShot(Shot{Kind: EnemyShot, X: 5, Y: p.FieldH - 3, W: 4, H: 15, VY: 5})
	f.g.Frame(Input{})
	if len(f.g.shots) != 0 {
		t.Error("shot past the bottom should be gone")
	}
}

func TestLastLifeEndsRun(t *testing.T) {
	f := newFixture(t, quietParams())
	f.g.lives = 1
	f.g.score = 500

	dropOnPlayer(f.g)
	dropOnPlayer(f.g)
	f.g.Frame(Input{})

	s := f.g.Snapshot()
	if s.Lives != 0 {
		t.Errorf("lives = %d, want 0", s.Lives)
	}
	if s.State != StateIdle || !s.GameOver {
		t.Errorf("state=%s over=%v, want idle game over", s.State, s.GameOver)
	}
	if len(f.store.sets) != 1 || f.store.sets[0] != 500 {
		t.Errorf("store sets = %v, want [500]", f.store.sets)
	}
	if f.snd.played[SoundGameOver] != 1 {
		t.Errorf("game over fired %d times", f.snd.played[SoundGameOver])
	}

	// nothing happens until the next start
	f.g.Frame(Input{Fire: true})
	if f.g.Snapshot().Frame != s.Frame {
		t.Error("frame advanced after game over")
	}

	f.g.Start()
	if f.g.lives != 3 || f.g.score != 0 || f.g.GameOver() {
		t.Error("restart did not reset the run")
	}
}

func TestHighScoreOnlyWhenBeaten(t *testing.T) {
	f := newFixture(t, quietParams())
	f.store.best = 1000
	f.g.lives = 1
	f.g.score = 500

	dropOnPlayer(f.g)
	f.g.Frame(Input{})

	if len(f.store.sets) != 0 {
		t.Errorf("lower score must not be stored, sets=%v", f.store.sets)
	}
	if f.g.HighScore() != 1000 {
		t.Errorf("high score = %d", f.g.HighScore())
	}
}

func TestBreachRule(t *testing.T) {
	tests := []struct {
		name    string
		breach  bool
		wantRun State
	}{
		{"ends run", true, StateIdle},
		{"ignored", false, StateRunning},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := quietParams()
			p.BreachEndsRun = tt.breach
			f := newFixture(t, p)

			keepEnemies(f.g, 1)
			e := &f.g.enemies[0]
			e.Y = f.g.player.Y - e.H + 1
			e.X = 0
			place(e.sh, e.X, e.Y, e.W, e.H)

			f.g.Frame(Input{})
			if f.g.State() != tt.wantRun {
				t.Errorf("state = %s, want %s", f.g.State(), tt.wantRun)
			}
			if f.g.GameOver() != tt.breach {
				t.Errorf("game over = %v", f.g.GameOver())
			}
		})
	}
}

func TestBreachNeedsToPassPlayerTop(t *testing.T) {
	f := newFixture(t, quietParams())
	keepEnemies(f.g, 1)

	moveEnemy(f.g, 0, f.g.player.Y-f.g.enemies[0].H)
	f.g.Frame(Input{})
	if f.g.State() != StateRunning {
		t.Fatal("an enemy level with the player's top must not end the run")
	}

	moveEnemy(f.g, 0, f.g.enemies[0].Y+1)
	f.g.Frame(Input{})
	if f.g.State() != StateIdle || !f.g.GameOver() {
		t.Errorf("enemy past the player's top: state=%s over=%v", f.g.State(), f.g.GameOver())
	}
}

func TestSwarmStepsAndDrops(t *testing.T) {
	p := quietParams()
	p.Grid = Grid{Rows: 1, Cols: 1, Spacing: 70, OriginX: p.FieldW - p.EnemyW - 10, OriginY: 100}
	f := newFixture(t, p)
	start := f.g.enemies[0]
	n := p.StepThreshold(1) + 1

	for i := 0; i < n-1; i++ {
		f.g.Frame(Input{})
	}
	if f.g.enemies[0] != start {
		t.Fatal("swarm moved before its step threshold")
	}

	// the move right would cross the edge, so the swarm drops and turns
	f.g.Frame(Input{})
	e := f.g.enemies[0]
	if e.X != start.X || e.Y != start.Y+p.StepDrop {
		t.Errorf("after edge step got (%.1f, %.1f), want (%.1f, %.1f)", e.X, e.Y, start.X, start.Y+p.StepDrop)
	}
	if f.g.dir != -1 {
		t.Errorf("dir = %.0f, want -1", f.g.dir)
	}

	for i := 0; i < n; i++ {
		f.g.Frame(Input{})
	}
	if e := f.g.enemies[0]; e.X != start.X-p.StepX || e.Y != start.Y+p.StepDrop {
		t.Errorf("after second step got (%.1f, %.1f)", e.X, e.Y)
	}
}

func TestStepThreshold(t *testing.T) {
	p := DefaultParams()
	tests := []struct{ level, want int }{
		{1, 35},
		{2, 30},
		{6, 10},
		{20, 10},
	}
	for _, tt := range tests {
		if got := p.StepThreshold(tt.level); got != tt.want {
			t.Errorf("StepThreshold(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestFireChance(t *testing.T) {
	p := DefaultParams()
	if p.FireChance(2) <= p.FireChance(1) {
		t.Error("fire chance should grow with level")
	}
	if p.FireChance(1000) != 1 {
		t.Errorf("fire chance must cap at 1, got %f", p.FireChance(1000))
	}
}

func TestEnemyFires(t *testing.T) {
	p := quietParams()
	p.EnemyFireBase = 1
	f := newFixture(t, p)

	f.g.Frame(Input{})
	if n := f.g.countShots(EnemyShot); n != 1 {
		t.Fatalf("expected one enemy shot, got %d", n)
	}
	s := f.g.shots[0]
	found := false
	for _, e := range f.g.enemies {
		if s.X == e.X+e.W/2-p.ShotW/2 && s.Y == e.Y+e.H+p.EnemyShotSpeed {
			found = true
		}
	}
	if !found {
		t.Errorf("shot %+v did not come from any enemy", s)
	}
}

func TestPauseResume(t *testing.T) {
	f := newFixture(t, quietParams())
	f.g.Frame(Input{})
	f.g.score = 300

	f.g.Pause()
	if f.g.State() != StatePaused {
		t.Fatalf("state = %s, want paused", f.g.State())
	}
	f.g.Frame(Input{Right: true})
	if f.g.frame != 1 {
		t.Error("paused loop advanced")
	}

	f.g.Resume()
	f.g.Frame(Input{})
	if f.g.frame != 2 || f.g.score != 300 {
		t.Errorf("resume lost state: frame=%d score=%d", f.g.frame, f.g.score)
	}
}

func TestExitDoesNotRecord(t *testing.T) {
	f := newFixture(t, quietParams())
	f.g.score = 9000
	f.g.Exit()

	if f.g.State() != StateIdle || f.g.GameOver() {
		t.Errorf("exit: state=%s over=%v", f.g.State(), f.g.GameOver())
	}
	if len(f.store.sets) != 0 {
		t.Error("abandoned run should not be recorded")
	}
}
