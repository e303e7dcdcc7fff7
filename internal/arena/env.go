package arena

import (
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidAction is returned by Step for an action outside the action
	// space. The episode state is left untouched.
	ErrInvalidAction = errors.New("arena: action outside action space")

	// ErrEpisodeOver is returned by Step after termination or truncation
	// without an intervening Reset.
	ErrEpisodeOver = errors.New("arena: episode over, call Reset")
)

// Info carries per-step diagnostics. Nothing in it is required for training.
type Info struct {
	EpisodeID string `json:"episode_id"`
	Tick      int    `json:"tick"`
	Outcome   string `json:"outcome"`
	BotMode   string `json:"bot_mode"`
}

// StepResult bundles the outputs of one environment step.
type StepResult struct {
	Obs        []float64
	Reward     float64
	Terminated bool
	Truncated  bool
	Info       Info
}

// Env is the step-driven battle environment: one player tank driven by
// external actions against one bot tank driven by the decision engine.
// Single-threaded; one Step call is one fixed-duration tick. Each Env owns
// its grid and entities, so concurrent episodes can run in separate
// instances.
type Env struct {
	cfg Config

	walls   []Rect
	grid    *GridMap
	player  *Tank
	bot     *Tank
	bullets []*Bullet
	engine  *BotDecisionEngine
	log     *EpisodeLog

	rng       *rand.Rand
	tick      int
	done      bool
	outcome   Outcome
	episodeID string
	prevDist  float64 // player-bot distance last tick, for approach shaping
}

// NewEnv validates the configuration and creates an environment. Reset must
// be called before the first Step.
func NewEnv(cfg Config) (*Env, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Env{
		cfg:  cfg,
		log:  NewEpisodeLog(),
		done: true, // no live episode until Reset
	}
	e.engine = NewBotDecisionEngine(nil, cfg, nil, e.log)
	return e, nil
}

// Reset starts a new episode and returns the initial observation. A negative
// seed draws one from the clock; any other value replays deterministically.
func (e *Env) Reset(seed int64) ([]float64, Info) {
	if seed < 0 {
		seed = time.Now().UnixNano()
	}
	e.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- simulation only

	e.walls = buildWalls(e.cfg)
	e.grid = NewGridMap(e.walls, e.cfg.ArenaWidth, e.cfg.ArenaHeight, e.cfg.CellSize, e.cfg.ClearanceRadius)

	e.player = NewTank(TankPlayer, Vec{X: e.cfg.PlayerSpawnX, Y: e.cfg.PlayerSpawnY}, e.cfg)
	e.bot = NewTank(TankBot, e.botSpawn(), e.cfg)
	e.bullets = e.bullets[:0]

	e.log.Reset()
	e.engine.Reset(e.grid, e.rng)

	e.tick = 0
	e.done = false
	e.outcome = OutcomeNone
	e.episodeID = uuid.NewString()
	e.prevDist = e.bot.Pos.Sub(e.player.Pos).Len()

	return e.observation(), e.info()
}

// botSpawn picks the bot start position: the configured point when set,
// otherwise a random wall-free, walkable spot.
func (e *Env) botSpawn() Vec {
	if e.cfg.BotSpawnX != 0 || e.cfg.BotSpawnY != 0 {
		return Vec{X: e.cfg.BotSpawnX, Y: e.cfg.BotSpawnY}
	}
	radius := e.cfg.TankSize / 2
	for attempt := 0; attempt < 1000; attempt++ {
		p := Vec{
			X: 100 + e.rng.Float64()*(e.cfg.ArenaWidth-200),
			Y: 100 + e.rng.Float64()*(e.cfg.ArenaHeight-200),
		}
		if e.spawnFree(p, radius) {
			return p
		}
	}
	// Degenerate layout: take the first free cell instead of spinning.
	for cy := 1; cy < e.grid.Rows()-1; cy++ {
		for cx := 1; cx < e.grid.Cols()-1; cx++ {
			p := e.grid.CellToWorld(Cell{X: cx, Y: cy})
			if e.spawnFree(p, radius) {
				return p
			}
		}
	}
	return Vec{X: e.cfg.ArenaWidth / 2, Y: e.cfg.ArenaHeight / 2}
}

func (e *Env) spawnFree(p Vec, radius float64) bool {
	for _, w := range e.walls {
		if w.ContainsCircle(p, radius) {
			return false
		}
	}
	return !e.grid.IsBlocked(e.grid.WorldToCell(p), true)
}

// Step advances the simulation by one tick: apply both actions, integrate,
// resolve collisions, then score and report.
func (e *Env) Step(action Action) (StepResult, error) {
	if e.done {
		return StepResult{}, ErrEpisodeOver
	}
	if !action.Valid() {
		return StepResult{}, ErrInvalidAction
	}
	e.tick++

	// 1. Actions: external action to the player, engine decision to the bot.
	e.player.ApplyAction(action)
	botAction := e.engine.Decide(e.bot, e.player, e.walls, e.bullets, e.tick)
	e.bot.ApplyAction(botAction)

	// 2. Motion.
	e.player.Integrate(1)
	e.bot.Integrate(1)
	e.fire(e.player)
	e.fire(e.bot)
	for _, b := range e.bullets {
		b.Integrate(1)
	}

	// 3. Collisions, in fixed order.
	res := resolver{walls: e.walls, tanks: []*Tank{e.player, e.bot}, bullets: e.bullets}
	res.resolve()
	for _, h := range res.hits {
		e.log.Add(e.tick, h.shooter.String(), "hit", "tank_destroyed", h.victim.String(), 0)
	}

	// 4. Drop consumed and expired bullets.
	live := e.bullets[:0]
	for _, b := range e.bullets {
		if !b.dead && !b.Expired(e.cfg.ArenaWidth, e.cfg.ArenaHeight) {
			live = append(live, b)
		}
	}
	e.bullets = live

	e.player.UpdateVelocity()
	e.bot.UpdateVelocity()

	// 5. Termination.
	terminated, truncated := e.updateOutcome()

	// 6–7. Observation and reward.
	reward := e.reward(action, terminated)
	dist := e.bot.Pos.Sub(e.player.Pos).Len()
	e.prevDist = dist

	return StepResult{
		Obs:        e.observation(),
		Reward:     reward,
		Terminated: terminated,
		Truncated:  truncated,
		Info:       e.info(),
	}, nil
}

// fire spawns a bullet for the tank if its action, cooldown and live-bullet
// cap allow it.
func (e *Env) fire(t *Tank) {
	owned := 0
	for _, b := range e.bullets {
		if b.Owner == t.ID {
			owned++
		}
	}
	if b := t.TryFire(owned, e.cfg); b != nil {
		e.bullets = append(e.bullets, b)
		e.log.Add(e.tick, t.ID.String(), "fire", "shot", "", 0)
	}
}

// updateOutcome classifies the episode state after collision resolution.
func (e *Env) updateOutcome() (terminated, truncated bool) {
	playerDead := !e.player.Alive
	botDead := !e.bot.Alive

	switch {
	case playerDead && botDead:
		e.outcome = OutcomeDraw
	case playerDead:
		e.outcome = OutcomeLoss
	case botDead:
		e.outcome = OutcomeWin
	case e.tick >= e.cfg.MaxEpisodeSteps:
		e.outcome = OutcomeTruncated
	default:
		return false, false
	}

	e.done = true
	truncated = e.outcome == OutcomeTruncated
	terminated = !truncated
	e.log.Add(e.tick, "--", "episode", "outcome", e.outcome.String(), 0)
	return terminated, truncated
}

// reward computes the tick's reward. On a terminating tick the terminal sum
// replaces the shaping terms entirely, so the terminal bonus is paid exactly
// once and never diluted or repeated.
func (e *Env) reward(action Action, terminated bool) float64 {
	if terminated {
		switch e.outcome {
		case OutcomeWin:
			return e.cfg.Reward.WinReward
		case OutcomeLoss:
			return e.cfg.Reward.LossPenalty
		case OutcomeDraw:
			// Both terminal events happened; both components are reported.
			return e.cfg.Reward.WinReward + e.cfg.Reward.LossPenalty
		}
	}

	r := e.cfg.Reward.StepPenalty + e.cfg.Reward.SurvivalBonus
	if action == ActionFire {
		r += e.cfg.Reward.FirePenalty
	}

	dist := e.bot.Pos.Sub(e.player.Pos).Len()
	if dist < e.prevDist {
		r += e.cfg.Reward.ApproachBonus
	}

	// Aiming bonus scales with how squarely the player faces the bot, gated
	// on line of sight so aiming at a wall earns nothing.
	aimErr := math.Abs(NormalizeAngle(HeadingTo(e.player.Pos, e.bot.Pos) - e.player.Heading))
	if aimErr < math.Pi/4 && HasLineOfSight(e.player.Pos, e.bot.Pos, e.walls) {
		r += e.cfg.Reward.AimBonus * (1 - aimErr/(math.Pi/4))
	}
	return r
}

func (e *Env) info() Info {
	return Info{
		EpisodeID: e.episodeID,
		Tick:      e.tick,
		Outcome:   e.outcome.String(),
		BotMode:   e.engine.Mode().String(),
	}
}

// Close releases resources. The core holds none; the method completes the
// environment boundary contract.
func (e *Env) Close() {}

// Config returns the environment's configuration.
func (e *Env) Config() Config { return e.cfg }

// Log returns the current episode's event log.
func (e *Env) Log() *EpisodeLog { return e.log }

// Walls returns the episode's wall layout, for rendering.
func (e *Env) Walls() []Rect { return e.walls }

// Grid returns the episode's occupancy grid, for rendering and tests.
func (e *Env) Grid() *GridMap { return e.grid }

// PlayerTank returns the player-controlled tank.
func (e *Env) PlayerTank() *Tank { return e.player }

// BotTank returns the bot-controlled tank.
func (e *Env) BotTank() *Tank { return e.bot }

// Bullets returns the live bullets.
func (e *Env) Bullets() []*Bullet { return e.bullets }

// BotPath returns the bot's cached navigation path, for debug overlays.
func (e *Env) BotPath() []Cell { return e.engine.Path() }
