package arcade

import "github.com/solarlune/resolv"

// step 1: horizontal movement, keys or pointer drag, clamped to the field
func (g *Game) movePlayer(in Input) {
	pl := &g.player
	if in.Pointer {
		pl.X = in.PointerX - pl.W/2
	} else {
		if in.Left {
			pl.X -= pl.Speed
		}
		if in.Right {
			pl.X += pl.Speed
		}
	}
	pl.X = clamp(pl.X, 0, g.p.FieldW-pl.W)
	place(g.playerSh, pl.X, pl.Y, pl.W, pl.H)
}

// step 2: shooting, limited by cooldown and by how many shots may be in the air
func (g *Game) fire(in Input) {
	if g.cooldown > 0 {
		g.cooldown--
	}
	if g.cooldown > 0 {
		return
	}

	switch {
	case in.Super && g.charge >= fullMeter:
		g.addPlayerShot(true)
		g.charge = 0
		g.hud.SetCharge(g.charge)
		g.snd.Play(SoundSuperShot)
	case in.Fire && g.countShots(PlayerShot) < g.p.MaxPlayerShots:
		g.addPlayerShot(false)
		g.snd.Play(SoundShoot)
	default:
		return
	}
	g.cooldown = g.p.FireCooldown
}

func (g *Game) addPlayerShot(power bool) {
	w, h := g.p.ShotW, g.p.ShotH
	if power {
		w, h = g.p.PowerShotW, g.p.PowerShotH
	}
	x := g.player.X + g.player.W/2 - w/2
	y := g.player.Y - h
	g.addShot(Shot{Kind: PlayerShot, X: x, Y: y, W: w, H: h, VY: -g.p.PlayerShotSpeed, Power: power})
}

func (g *Game) addShot(s Shot) {
	sh := resolv.NewRectangleFromTopLeft(s.X, s.Y, s.W, s.H)
	g.space.Add(sh)
	s.sh = sh
	g.shots = append(g.shots, s)
}

func (g *Game) countShots(kind ShotKind) int {
	n := 0
	for _, s := range g.shots {
		if s.Kind == kind {
			n++
		}
	}
	return n
}

// step 3: the swarm moves as one block every StepThreshold frames and drops
// a row instead of moving whenever the move would leave the field
func (g *Game) stepSwarm() {
	g.stepTimer++
	if g.stepTimer <= g.p.StepThreshold(g.level) {
		return
	}
	g.stepTimer = 0

	dx := g.p.StepX * g.dir
	edge := false
	for _, e := range g.enemies {
		if e.X+dx < 0 || e.X+dx+e.W > g.p.FieldW {
			edge = true
			break
		}
	}

	if edge {
		g.dir = -g.dir
		for i := range g.enemies {
			g.enemies[i].Y += g.p.StepDrop
		}
		g.snd.Play(SoundStep)
	} else {
		for i := range g.enemies {
			g.enemies[i].X += dx
		}
	}
	for _, e := range g.enemies {
		place(e.sh, e.X, e.Y, e.W, e.H)
	}
}

// advanceShots moves every shot of one kind, drops the ones that left the
// field and calls hit for each target shape a surviving shot overlaps. hit
// returns whether the shot is spent and whether to keep testing targets.
// Spent shots are removed before anything else can collide with them.
func (g *Game) advanceShots(kind ShotKind, target resolv.Tags, hit func(s *Shot, other resolv.IShape) (spent, more bool)) {
	kept := g.shots[:0]
	for i := range g.shots {
		s := g.shots[i]
		if s.Kind != kind {
			kept = append(kept, s)
			continue
		}

		s.Y += s.VY
		place(s.sh, s.X, s.Y, s.W, s.H)
		if s.Y+s.H <= 0 || s.Y >= g.p.FieldH {
			g.space.Remove(s.sh)
			continue
		}

		// resolv's cells give the candidates; the box test decides. A shot
		// wholly inside a target crosses no edges, so IntersectionTest
		// would miss it.
		spent, stop := false, false
		box := s.sh.Bounds()
		s.sh.SelectTouchingCells(0).FilterShapes().ByTags(target).ForEach(func(other resolv.IShape) bool {
			if stop || !overlaps(box, other.Bounds()) {
				return true
			}
			done, more := hit(&s, other)
			spent = spent || done
			stop = !more
			return more
		})
		if spent {
			g.space.Remove(s.sh)
			continue
		}
		kept = append(kept, s)
	}
	for i := len(kept); i < len(g.shots); i++ {
		g.shots[i] = Shot{}
	}
	g.shots = kept
}

// steps 4 and 5: player shots fly up and take out the first enemy they touch;
// power shots keep going through the swarm
func (g *Game) updatePlayerShots() {
	dead := make(map[resolv.IShape]bool)
	g.advanceShots(PlayerShot, tagEnemy, func(s *Shot, other resolv.IShape) (bool, bool) {
		if dead[other] {
			return false, true
		}
		dead[other] = true
		g.addKill()
		if s.Power {
			return false, true
		}
		return true, false
	})
	if len(dead) == 0 {
		return
	}

	ew := 0
	for _, e := range g.enemies {
		if dead[e.sh] {
			g.space.Remove(e.sh)
			continue
		}
		g.enemies[ew] = e
		ew++
	}
	g.enemies = g.enemies[:ew]

	if len(g.enemies) == 0 {
		g.nextLevel()
	}
}

func (g *Game) addKill() {
	g.score += g.p.KillReward
	g.charge += g.p.ChargePerKill
	if g.charge > fullMeter {
		g.charge = fullMeter
	}
	g.hud.SetScore(g.score)
	g.hud.SetCharge(g.charge)
	g.snd.Play(SoundHit)
}

func (g *Game) nextLevel() {
	g.level++
	g.spawnFormation()
	g.stepTimer = 0
	g.dir = 1
	g.hud.SetLevel(SectorLabel(g.level))
	g.snd.Play(SoundLevelUp)
}

// spawnFormation replaces the swarm with the formation for the current level.
func (g *Game) spawnFormation() {
	for _, e := range g.enemies {
		g.space.Remove(e.sh)
	}
	slots := FormationFor(g.level).Layout(g.p.Grid, g.p.EnemyW, g.p.FieldW)
	g.enemies = make([]Enemy, 0, len(slots))
	for _, s := range slots {
		sh := resolv.NewRectangleFromTopLeft(s.X, s.Y, g.p.EnemyW, g.p.EnemyH)
		sh.Tags().Set(tagEnemy)
		g.space.Add(sh)
		g.enemies = append(g.enemies, Enemy{
			X: s.X, Y: s.Y, W: g.p.EnemyW, H: g.p.EnemyH,
			Row: s.Row, Col: s.Col,
			Tier: tierForRow(s.Row),
			sh:   sh,
		})
	}
}

// step 6: a random enemy may shoot, more often on later levels
func (g *Game) enemyFire() {
	if len(g.enemies) == 0 || g.rng.Float64() >= g.p.FireChance(g.level) {
		return
	}
	e := g.enemies[g.rng.Intn(len(g.enemies))]
	g.addShot(Shot{
		Kind: EnemyShot,
		X:    e.X + e.W/2 - g.p.ShotW/2,
		Y:    e.Y + e.H,
		W:    g.p.ShotW,
		H:    g.p.ShotH,
		VY:   g.p.EnemyShotSpeed,
	})
}

// step 7: enemy shots fall and cost a life on contact
func (g *Game) updateEnemyShots() {
	g.advanceShots(EnemyShot, tagPlayer, func(*Shot, resolv.IShape) (bool, bool) {
		if g.state != StateRunning {
			return false, false
		}
		g.loseLife()
		return true, false
	})
}

func (g *Game) loseLife() {
	if g.lives > 0 {
		g.lives--
	}
	g.hud.SetLives(g.lives)
	g.snd.Play(SoundDamage)
	if g.lives == 0 {
		g.endRun()
	}
}

// step 8: an enemy below the player's top edge ends the run when the rule is on
func (g *Game) checkBreach() {
	if !g.p.BreachEndsRun {
		return
	}
	for _, e := range g.enemies {
		if e.Y+e.H > g.player.Y {
			g.endRun()
			return
		}
	}
}

// endRun is the game-over transition. It runs at most once per run.
func (g *Game) endRun() {
	if g.state == StateIdle {
		return
	}
	g.state = StateIdle
	g.over = true
	g.snd.Play(SoundGameOver)
	if g.score > g.store.Get() {
		g.store.Set(g.score)
	}
}

// overlaps reports whether two boxes share some area. Boxes that only touch
// along an edge do not overlap.
func overlaps(a, b resolv.Bounds) bool {
	return a.Min.X < b.Max.X && b.Min.X < a.Max.X &&
		a.Min.Y < b.Max.Y && b.Min.Y < a.Max.Y
}
