package arcade

import (
	"fmt"

	"github.com/solarlune/resolv"
)

// State is the run state of the loop.
type State int

const (
	StateIdle State = iota
	StateRunning
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Tier is the row based visual class of an enemy.
type Tier int

const (
	TierRed Tier = iota
	TierCyan
)

// ShotKind tells who fired a shot and therefore which way it flies and what it hits.
type ShotKind int

const (
	PlayerShot ShotKind = iota
	EnemyShot
)

// Sound names the effects the loop asks its Sounder to play.
type Sound int

const (
	SoundShoot Sound = iota
	SoundHit
	SoundStep
	SoundDamage
	SoundLevelUp
	SoundSuperShot
	SoundGameOver
)

func (s Sound) String() string {
	switch s {
	case SoundShoot:
		return "shoot"
	case SoundHit:
		return "hit"
	case SoundStep:
		return "step"
	case SoundDamage:
		return "damage"
	case SoundLevelUp:
		return "levelup"
	case SoundSuperShot:
		return "supershot"
	case SoundGameOver:
		return "gameover"
	}
	return fmt.Sprintf("Sound(%d)", int(s))
}

// tags select the targets a shot is tested against; shots themselves are
// never a target, so they stay untagged
var (
	tagPlayer = resolv.NewTag("player")
	tagEnemy  = resolv.NewTag("enemy")
)

type Player struct {
	X, Y, W, H float64
	Speed      float64
}

type Enemy struct {
	X, Y, W, H float64
	Row, Col   int
	Tier       Tier

	sh resolv.IShape // collision box
}

// Shot is a projectile from either side. VY is negative for player shots.
type Shot struct {
	Kind       ShotKind
	X, Y, W, H float64
	VY         float64
	Power      bool // charged shot, pierces enemies

	sh resolv.IShape // collision box
}

// Input is one frame's worth of player intent.
type Input struct {
	Left, Right bool
	Fire        bool
	Super       bool

	// drag-to-position: when Pointer is set the ship centres on PointerX
	Pointer  bool
	PointerX float64
}

// Snapshot is a copy of the run state, safe to keep across frames.
type Snapshot struct {
	State     State
	GameOver  bool
	Frame     uint64
	Score     int
	Lives     int
	Level     int
	Charge    int
	HighScore int

	Player  Player
	Enemies []Enemy
	Shots   []Shot
}

// SectorLabel is the HUD label for a level.
func SectorLabel(level int) string { return fmt.Sprintf("SECTOR %d", level) }
