package arena

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// RewardConfig tunes the per-tick shaping and terminal rewards.
// Terminal rewards dominate: on the terminating tick the shaping terms are
// replaced by the terminal sum so the bonus is paid exactly once.
type RewardConfig struct {
	StepPenalty   float64 `yaml:"step_penalty"`   // applied every tick
	SurvivalBonus float64 `yaml:"survival_bonus"` // applied every non-terminal tick
	AimBonus      float64 `yaml:"aim_bonus"`      // max per-tick bonus for facing the opponent with line of sight
	ApproachBonus float64 `yaml:"approach_bonus"` // per tick the player closes distance
	FirePenalty   float64 `yaml:"fire_penalty"`   // each player shot, discourages spraying
	WinReward     float64 `yaml:"win_reward"`     // bot destroyed
	LossPenalty   float64 `yaml:"loss_penalty"`   // player destroyed
}

// Config is the full tunable surface of the environment. It is fixed for the
// lifetime of an Env; per-episode state lives in the Env itself.
type Config struct {
	ArenaWidth  float64 `yaml:"arena_width"`
	ArenaHeight float64 `yaml:"arena_height"`

	TankSize   float64 `yaml:"tank_size"`   // tank collision diameter, px
	BulletSize float64 `yaml:"bullet_size"` // bullet collision diameter, px

	TankSpeed     float64 `yaml:"tank_speed"`     // px per tick
	RotationSpeed float64 `yaml:"rotation_speed"` // radians per tick
	BulletSpeed   float64 `yaml:"bullet_speed"`   // px per tick
	BulletRange   float64 `yaml:"bullet_range"`   // travel-distance budget, px

	FireCooldown      int `yaml:"fire_cooldown"`        // ticks between shots
	MaxBulletsPerTank int `yaml:"max_bullets_per_tank"` // live bullets per owner

	CellSize        float64 `yaml:"cell_size"`        // occupancy grid cell, px
	ClearanceRadius int     `yaml:"clearance_radius"` // inflation radius, cells

	VisionDistance      float64 `yaml:"vision_distance"`       // engage gate, px
	AngleTolerance      float64 `yaml:"angle_tolerance"`       // firing tolerance, radians
	PathRecomputeEvery  int     `yaml:"path_recompute_every"`  // ticks between BFS runs
	NodeArrivalDistance float64 `yaml:"node_arrival_distance"` // waypoint arrival radius, px

	DodgeEnabled     bool    `yaml:"dodge_enabled"`     // bullet-evasion reflex
	DodgeDistance    float64 `yaml:"dodge_distance"`    // px at which incoming bullets trigger evasion
	FlankProbability float64 `yaml:"flank_probability"` // chance per flank window of navigating to a side goal
	PredictionFactor float64 `yaml:"prediction_factor"` // scales the lead-aim travel-time estimate

	MaxEpisodeSteps int `yaml:"max_episode_steps"`
	ObservedBullets int `yaml:"observed_bullets"` // nearest-bullet slots in the observation

	// Spawn positions. A zero bot spawn means "randomize per episode".
	PlayerSpawnX float64 `yaml:"player_spawn_x"`
	PlayerSpawnY float64 `yaml:"player_spawn_y"`
	BotSpawnX    float64 `yaml:"bot_spawn_x"`
	BotSpawnY    float64 `yaml:"bot_spawn_y"`

	// Walls overrides the built-in maze layout when non-empty. Arena border
	// walls are always added.
	Walls []Rect `yaml:"walls"`

	Reward RewardConfig `yaml:"reward"`
}

// DefaultConfig returns the baseline arena: a 600x600 maze with the stock
// wall layout and the tuning the environment was trained against.
func DefaultConfig() Config {
	return Config{
		ArenaWidth:  600,
		ArenaHeight: 600,

		TankSize:   30,
		BulletSize: 6,

		TankSpeed:     4,
		RotationSpeed: 4 * math.Pi / 180,
		BulletSpeed:   5,
		BulletRange:   800,

		FireCooldown:      20,
		MaxBulletsPerTank: 5,

		CellSize:        20,
		ClearanceRadius: 1,

		VisionDistance:      300,
		AngleTolerance:      10 * math.Pi / 180,
		PathRecomputeEvery:  10,
		NodeArrivalDistance: 20,

		DodgeEnabled:     true,
		DodgeDistance:    80,
		FlankProbability: 0.3,
		PredictionFactor: 1.2,

		MaxEpisodeSteps: 1500,
		ObservedBullets: 4,

		PlayerSpawnX: 80,
		PlayerSpawnY: 80,

		Reward: RewardConfig{
			StepPenalty:   -0.005,
			SurvivalBonus: 0.001,
			AimBonus:      0.05,
			ApproachBonus: 0.002,
			FirePenalty:   -0.05,
			WinReward:     30.0,
			LossPenalty:   -10.0,
		},
	}
}

// Validate reports the first configuration error. Construction fails fast on
// invalid tuning rather than producing a degenerate simulation.
func (c Config) Validate() error {
	switch {
	case c.ArenaWidth <= 0 || c.ArenaHeight <= 0:
		return fmt.Errorf("arena dimensions must be positive, got %gx%g", c.ArenaWidth, c.ArenaHeight)
	case c.TankSize <= 0:
		return fmt.Errorf("tank size must be positive, got %g", c.TankSize)
	case c.BulletSize <= 0:
		return fmt.Errorf("bullet size must be positive, got %g", c.BulletSize)
	case c.TankSpeed <= 0:
		return fmt.Errorf("tank speed must be positive, got %g", c.TankSpeed)
	case c.RotationSpeed <= 0:
		return fmt.Errorf("rotation speed must be positive, got %g", c.RotationSpeed)
	case c.BulletSpeed <= 0:
		return fmt.Errorf("bullet speed must be positive, got %g", c.BulletSpeed)
	case c.BulletRange <= 0:
		return fmt.Errorf("bullet range must be positive, got %g", c.BulletRange)
	case c.FireCooldown <= 0:
		return fmt.Errorf("fire cooldown must be positive, got %d", c.FireCooldown)
	case c.MaxBulletsPerTank <= 0:
		return fmt.Errorf("max bullets per tank must be positive, got %d", c.MaxBulletsPerTank)
	case c.CellSize <= 0:
		return fmt.Errorf("grid cell size must be positive, got %g", c.CellSize)
	case c.CellSize > c.ArenaWidth || c.CellSize > c.ArenaHeight:
		return fmt.Errorf("grid cell size %g exceeds arena dimensions", c.CellSize)
	case c.ClearanceRadius < 0:
		return fmt.Errorf("clearance radius must be >= 0, got %d", c.ClearanceRadius)
	case c.VisionDistance <= 0:
		return fmt.Errorf("vision distance must be positive, got %g", c.VisionDistance)
	case c.AngleTolerance <= 0:
		return fmt.Errorf("angle tolerance must be positive, got %g", c.AngleTolerance)
	case c.PathRecomputeEvery <= 0:
		return fmt.Errorf("path recompute interval must be positive, got %d", c.PathRecomputeEvery)
	case c.NodeArrivalDistance <= 0:
		return fmt.Errorf("node arrival distance must be positive, got %g", c.NodeArrivalDistance)
	case c.FlankProbability < 0 || c.FlankProbability > 1:
		return fmt.Errorf("flank probability must be in [0,1], got %g", c.FlankProbability)
	case c.PredictionFactor <= 0:
		return fmt.Errorf("prediction factor must be positive, got %g", c.PredictionFactor)
	case c.MaxEpisodeSteps <= 0:
		return fmt.Errorf("max episode steps must be positive, got %d", c.MaxEpisodeSteps)
	case c.ObservedBullets < 0:
		return fmt.Errorf("observed bullets must be >= 0, got %d", c.ObservedBullets)
	}
	return nil
}

// ObservationSize returns the fixed length of the observation vector:
// 7 values per tank for both tanks, then 4 per observed bullet slot.
func (c Config) ObservationSize() int {
	return 14 + 4*c.ObservedBullets
}

// LoadConfig reads a YAML config file over the defaults, so partial files
// only override the keys they name.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}
