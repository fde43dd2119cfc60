package arcade

// Grid describes the enemy formation before any shaping is applied.
type Grid struct {
	Rows, Cols       int
	Spacing          float64
	OriginX, OriginY float64
}

// Params holds every tunable of the simulation. All distances are in
// playfield pixels, all timings in frames.
type Params struct {
	FieldW, FieldH float64

	PlayerW, PlayerH float64
	PlayerSpeed      float64
	PlayerLift       float64 // distance from the bottom edge to the player's top

	Grid           Grid
	EnemyW, EnemyH float64

	// swarm stepping: threshold = max(StepMinFrames, StepBaseFrames - level*StepLevelFrames)
	StepBaseFrames  int
	StepLevelFrames int
	StepMinFrames   int
	StepX           float64
	StepDrop        float64

	ShotW, ShotH           float64
	PowerShotW, PowerShotH float64
	PlayerShotSpeed        float64
	EnemyShotSpeed         float64
	FireCooldown           int
	MaxPlayerShots         int

	// enemy fire chance per frame = EnemyFireBase + level*EnemyFireLevel
	EnemyFireBase  float64
	EnemyFireLevel float64

	StartLives    int
	KillReward    int
	ChargePerKill int

	// an enemy reaching the player's row ends the run
	BreachEndsRun bool
}

// DefaultParams returns the tuning of the browser game this loop replaces.
func DefaultParams() Params {
	return Params{
		FieldW: 960,
		FieldH: 720,

		PlayerW:     50,
		PlayerH:     50,
		PlayerSpeed: 8,
		PlayerLift:  100,

		Grid:   Grid{Rows: 4, Cols: 8, Spacing: 70, OriginX: 100, OriginY: 100},
		EnemyW: 40,
		EnemyH: 40,

		StepBaseFrames:  40,
		StepLevelFrames: 5,
		StepMinFrames:   10,
		StepX:           15,
		StepDrop:        30,

		ShotW:           4,
		ShotH:           15,
		PowerShotW:      12,
		PowerShotH:      30,
		PlayerShotSpeed: 12,
		EnemyShotSpeed:  5,
		FireCooldown:    15,
		MaxPlayerShots:  3,

		EnemyFireBase:  0.01,
		EnemyFireLevel: 0.005,

		StartLives:    3,
		KillReward:    100,
		ChargePerKill: 10,

		BreachEndsRun: true,
	}
}

// StepThreshold is the number of frames between swarm steps at level.
func (p Params) StepThreshold(level int) int {
	n := p.StepBaseFrames - level*p.StepLevelFrames
	if n < p.StepMinFrames {
		return p.StepMinFrames
	}
	return n
}

// FireChance is the per-frame probability that the swarm shoots at level.
func (p Params) FireChance(level int) float64 {
	c := p.EnemyFireBase + float64(level)*p.EnemyFireLevel
	if c > 1 {
		return 1
	}
	return c
}
