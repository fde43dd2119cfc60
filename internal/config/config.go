// Package config loads game tuning from a TOML file layered over defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"SpaceInvaders/internal/arcade"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Field   Field   `toml:"field"`
	Player  Player  `toml:"player"`
	Enemies Enemies `toml:"enemies"`
	Shots   Shots   `toml:"shots"`
	Rules   Rules   `toml:"rules"`
	Audio   Audio   `toml:"audio"`
	Assets  Assets  `toml:"assets"`
}

type Field struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

type Player struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
	Speed  float64 `toml:"speed"`
	Lift   float64 `toml:"lift"`
}

type Enemies struct {
	Rows    int     `toml:"rows"`
	Cols    int     `toml:"cols"`
	Spacing float64 `toml:"spacing"`
	OriginX float64 `toml:"origin_x"`
	OriginY float64 `toml:"origin_y"`
	Width   float64 `toml:"width"`
	Height  float64 `toml:"height"`

	StepBase  int     `toml:"step_base"`
	StepLevel int     `toml:"step_level"`
	StepMin   int     `toml:"step_min"`
	StepX     float64 `toml:"step_x"`
	StepDrop  float64 `toml:"step_drop"`

	FireBase  float64 `toml:"fire_base"`
	FireLevel float64 `toml:"fire_level"`
}

type Shots struct {
	Width       float64 `toml:"width"`
	Height      float64 `toml:"height"`
	PowerWidth  float64 `toml:"power_width"`
	PowerHeight float64 `toml:"power_height"`
	PlayerSpeed float64 `toml:"player_speed"`
	EnemySpeed  float64 `toml:"enemy_speed"`
	Cooldown    int     `toml:"cooldown"`
	Max         int     `toml:"max"`
}

type Rules struct {
	Lives         int  `toml:"lives"`
	KillReward    int  `toml:"kill_reward"`
	ChargePerKill int  `toml:"charge_per_kill"`
	BreachEndsRun bool `toml:"breach_ends_run"`
}

type Audio struct {
	Muted      bool `toml:"muted"`
	SampleRate int  `toml:"sample_rate"`
}

// Assets points at optional sprites and sound overrides.
type Assets struct {
	Dir string `toml:"dir"`
}

// Default mirrors arcade.DefaultParams.
func Default() Config {
	p := arcade.DefaultParams()
	return Config{
		Field:  Field{Width: p.FieldW, Height: p.FieldH},
		Player: Player{Width: p.PlayerW, Height: p.PlayerH, Speed: p.PlayerSpeed, Lift: p.PlayerLift},
		Enemies: Enemies{
			Rows: p.Grid.Rows, Cols: p.Grid.Cols,
			Spacing: p.Grid.Spacing, OriginX: p.Grid.OriginX, OriginY: p.Grid.OriginY,
			Width: p.EnemyW, Height: p.EnemyH,
			StepBase: p.StepBaseFrames, StepLevel: p.StepLevelFrames, StepMin: p.StepMinFrames,
			StepX: p.StepX, StepDrop: p.StepDrop,
			FireBase: p.EnemyFireBase, FireLevel: p.EnemyFireLevel,
		},
		Shots: Shots{
			Width: p.ShotW, Height: p.ShotH,
			PowerWidth: p.PowerShotW, PowerHeight: p.PowerShotH,
			PlayerSpeed: p.PlayerShotSpeed, EnemySpeed: p.EnemyShotSpeed,
			Cooldown: p.FireCooldown, Max: p.MaxPlayerShots,
		},
		Rules: Rules{
			Lives: p.StartLives, KillReward: p.KillReward,
			ChargePerKill: p.ChargePerKill, BreachEndsRun: p.BreachEndsRun,
		},
		Audio:  Audio{SampleRate: 44100},
		Assets: Assets{Dir: "assets"},
	}
}

// Load reads path over the defaults. An empty path or a missing file yields
// the defaults; unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if u := md.Undecoded(); len(u) > 0 {
		keys := make([]string, len(u))
		for i, k := range u {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%w: unknown keys %s", ErrInvalid, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values the loop cannot run without.
func (c Config) Validate() error {
	switch {
	case c.Field.Width <= 0 || c.Field.Height <= 0:
		return fmt.Errorf("%w: field must have a positive size", ErrInvalid)
	case c.Player.Width <= 0 || c.Player.Width > c.Field.Width:
		return fmt.Errorf("%w: player width %.0f does not fit field", ErrInvalid, c.Player.Width)
	case c.Player.Height <= 0:
		return fmt.Errorf("%w: player height must be positive", ErrInvalid)
	case c.Player.Lift <= 0 || c.Player.Lift > c.Field.Height:
		return fmt.Errorf("%w: player lift %.0f outside field", ErrInvalid, c.Player.Lift)
	case c.Enemies.Rows <= 0 || c.Enemies.Cols <= 0:
		return fmt.Errorf("%w: formation needs at least one row and column", ErrInvalid)
	case c.Enemies.Width <= 0 || c.Enemies.Height <= 0:
		return fmt.Errorf("%w: enemies must have a positive size", ErrInvalid)
	case c.Enemies.Spacing <= 0:
		return fmt.Errorf("%w: enemy spacing must be positive", ErrInvalid)
	case c.Enemies.StepMin < 0 || c.Enemies.StepBase < c.Enemies.StepMin:
		return fmt.Errorf("%w: step_base must be >= step_min >= 0", ErrInvalid)
	case c.Enemies.FireBase < 0 || c.Enemies.FireLevel < 0:
		return fmt.Errorf("%w: fire chances cannot be negative", ErrInvalid)
	case c.Shots.Width <= 0 || c.Shots.Height <= 0 || c.Shots.PowerWidth <= 0 || c.Shots.PowerHeight <= 0:
		return fmt.Errorf("%w: shots must have a positive size", ErrInvalid)
	case c.Shots.Cooldown < 0 || c.Shots.Max <= 0:
		return fmt.Errorf("%w: shots need cooldown >= 0 and max > 0", ErrInvalid)
	case c.Shots.PlayerSpeed <= 0 || c.Shots.EnemySpeed <= 0:
		return fmt.Errorf("%w: shot speeds must be positive", ErrInvalid)
	case c.Rules.Lives <= 0:
		return fmt.Errorf("%w: lives must be positive", ErrInvalid)
	case c.Rules.KillReward < 0 || c.Rules.ChargePerKill < 0:
		return fmt.Errorf("%w: rewards cannot be negative", ErrInvalid)
	case c.Audio.SampleRate <= 0:
		return fmt.Errorf("%w: sample_rate must be positive", ErrInvalid)
	}
	return nil
}

// Arcade converts the file layout into simulation params.
func (c Config) Arcade() arcade.Params {
	return arcade.Params{
		FieldW: c.Field.Width,
		FieldH: c.Field.Height,

		PlayerW:     c.Player.Width,
		PlayerH:     c.Player.Height,
		PlayerSpeed: c.Player.Speed,
		PlayerLift:  c.Player.Lift,

		Grid: arcade.Grid{
			Rows: c.Enemies.Rows, Cols: c.Enemies.Cols,
			Spacing: c.Enemies.Spacing, OriginX: c.Enemies.OriginX, OriginY: c.Enemies.OriginY,
		},
		EnemyW: c.Enemies.Width,
		EnemyH: c.Enemies.Height,

		StepBaseFrames:  c.Enemies.StepBase,
		StepLevelFrames: c.Enemies.StepLevel,
		StepMinFrames:   c.Enemies.StepMin,
		StepX:           c.Enemies.StepX,
		StepDrop:        c.Enemies.StepDrop,

		ShotW:           c.Shots.Width,
		ShotH:           c.Shots.Height,
		PowerShotW:      c.Shots.PowerWidth,
		PowerShotH:      c.Shots.PowerHeight,
		PlayerShotSpeed: c.Shots.PlayerSpeed,
		EnemyShotSpeed:  c.Shots.EnemySpeed,
		FireCooldown:    c.Shots.Cooldown,
		MaxPlayerShots:  c.Shots.Max,

		EnemyFireBase:  c.Enemies.FireBase,
		EnemyFireLevel: c.Enemies.FireLevel,

		StartLives:    c.Rules.Lives,
		KillReward:    c.Rules.KillReward,
		ChargePerKill: c.Rules.ChargePerKill,
		BreachEndsRun: c.Rules.BreachEndsRun,
	}
}
