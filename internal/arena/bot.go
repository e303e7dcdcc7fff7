package arena

import (
	"math"
	"math/rand"
)

// BotMode is the bot's behaviour state. The transition function runs once per
// tick; evasion pre-empts combat, combat pre-empts pathfinding.
type BotMode int

const (
	ModeNavigate BotMode = iota // following a path toward the player
	ModeEngage                  // line of sight held, aiming and firing
	ModeEvade                   // incoming bullet, breaking off
)

func (m BotMode) String() string {
	switch m {
	case ModeNavigate:
		return "navigate"
	case ModeEngage:
		return "engage"
	case ModeEvade:
		return "evade"
	default:
		return "unknown"
	}
}

// Steering thresholds, degrees-derived. Wide errors rotate in place; shallow
// errors advance while occasionally correcting.
var (
	steerHardTurn = 30 * math.Pi / 180
	steerSoftTurn = 10 * math.Pi / 180
	engageWideArc = 45 * math.Pi / 180
)

// BotDecisionEngine turns observed state into one action per tick. It is a
// pure decision function over the entities it is shown — it never mutates a
// tank or bullet. Internal state is the behaviour mode, the cached path and
// the flank goal, all reset per episode.
type BotDecisionEngine struct {
	grid *GridMap
	cfg  Config
	rng  *rand.Rand
	log  *EpisodeLog

	mode      BotMode
	path      []Cell
	flankGoal *Cell
	dodgeDir  float64 // -1 or +1 while evading, 0 otherwise; sticky to avoid oscillation
}

// NewBotDecisionEngine creates an engine over the episode's grid. The RNG is
// seeded by the caller so episodes replay deterministically.
func NewBotDecisionEngine(grid *GridMap, cfg Config, rng *rand.Rand, log *EpisodeLog) *BotDecisionEngine {
	return &BotDecisionEngine{grid: grid, cfg: cfg, rng: rng, log: log}
}

// Reset rebinds the engine to a fresh episode's grid and clears all state.
func (e *BotDecisionEngine) Reset(grid *GridMap, rng *rand.Rand) {
	e.grid = grid
	e.rng = rng
	e.mode = ModeNavigate
	e.path = nil
	e.flankGoal = nil
	e.dodgeDir = 0
}

// Mode returns the behaviour mode chosen on the last Decide call.
func (e *BotDecisionEngine) Mode() BotMode { return e.mode }

// Path returns the cached navigation path, for debug overlays.
func (e *BotDecisionEngine) Path() []Cell { return e.path }

// Decide selects the bot's action for this tick.
func (e *BotDecisionEngine) Decide(bot, target *Tank, walls []Rect, bullets []*Bullet, tick int) Action {
	threat := e.incomingBullet(bot, bullets)
	pred := e.leadPoint(bot, target)

	mode := e.transition(bot, target, pred, walls, threat)
	if mode != e.mode {
		e.log.Add(tick, "bot", "bot", "mode_change", e.mode.String()+" → "+mode.String(), 0)
		e.mode = mode
	}
	if mode != ModeEvade {
		e.dodgeDir = 0
	}

	switch mode {
	case ModeEvade:
		return e.evade(bot, threat)
	case ModeEngage:
		e.path = nil // combat pre-empts pathfinding; stale waypoints are useless
		return e.engage(bot, target, pred)
	default:
		return e.navigate(bot, target, tick)
	}
}

// transition picks the mode for this tick. Priority: evade > engage >
// navigate, re-evaluated every tick.
func (e *BotDecisionEngine) transition(bot, target *Tank, pred Vec, walls []Rect, threat *Bullet) BotMode {
	if e.cfg.DodgeEnabled && threat != nil {
		return ModeEvade
	}
	dist := target.Pos.Sub(bot.Pos).Len()
	if dist < e.cfg.VisionDistance && HasLineOfSight(bot.Pos, pred, walls) {
		return ModeEngage
	}
	return ModeNavigate
}

// leadPoint computes the predictive aim point: target position advanced by
// its velocity over the estimated bullet travel time. A single linear
// estimate — the prediction factor is the tunable in place of an iterative
// solve.
func (e *BotDecisionEngine) leadPoint(bot, target *Tank) Vec {
	dist := target.Pos.Sub(bot.Pos).Len()
	if dist <= 0 {
		return target.Pos
	}
	t := dist / e.cfg.BulletSpeed * e.cfg.PredictionFactor
	return Vec{
		X: clamp(target.Pos.X+target.Vel.X*t, e.cfg.TankSize, e.cfg.ArenaWidth-e.cfg.TankSize),
		Y: clamp(target.Pos.Y+target.Vel.Y*t, e.cfg.TankSize, e.cfg.ArenaHeight-e.cfg.TankSize),
	}
}

// incomingBullet returns the first hostile bullet close enough and on a
// track that passes near the bot, or nil.
func (e *BotDecisionEngine) incomingBullet(bot *Tank, bullets []*Bullet) *Bullet {
	for _, b := range bullets {
		if b.Owner == bot.ID {
			continue
		}
		if b.Pos.Sub(bot.Pos).Len() > e.cfg.DodgeDistance {
			continue
		}
		if e.bulletThreatens(bot, b) {
			return b
		}
	}
	return nil
}

// bulletThreatens projects the bot onto the bullet's track: the bullet is a
// threat when it is moving toward the bot and its closest approach falls
// within 1.5 tank radii.
func (e *BotDecisionEngine) bulletThreatens(bot *Tank, b *Bullet) bool {
	speed := b.Vel.Len()
	if speed == 0 {
		return false
	}
	toBot := bot.Pos.Sub(b.Pos)
	along := (toBot.X*b.Vel.X + toBot.Y*b.Vel.Y) / speed
	if along < 0 {
		return false // moving away
	}
	lateral := math.Abs(toBot.X*b.Vel.Y-toBot.Y*b.Vel.X) / speed
	return lateral < e.cfg.TankSize*1.5
}

// evade breaks perpendicular to the threatening bullet's track. The side is
// chosen once and held until the threat clears, so the bot does not wobble
// between directions.
func (e *BotDecisionEngine) evade(bot *Tank, threat *Bullet) Action {
	if threat == nil {
		return ActionNoOp
	}
	if e.dodgeDir == 0 {
		e.dodgeDir = 1
		if e.rng.Float64() > 0.5 {
			e.dodgeDir = -1
		}
	}
	bulletAngle := math.Atan2(threat.Vel.Y, threat.Vel.X)
	dodgeAngle := bulletAngle + math.Pi/2*e.dodgeDir
	diff := NormalizeAngle(dodgeAngle - bot.Heading)

	switch {
	case math.Abs(diff) > math.Pi/2:
		return ActionMoveBackward // reversing clears the track faster than turning around
	case math.Abs(diff) < math.Pi/4:
		return ActionMoveForward
	case diff > 0:
		return ActionRotateCW
	default:
		return ActionRotateCCW
	}
}

// engage rotates toward the lead point and fires once the angular error is
// inside tolerance. The tolerance widens with distance: far targets subtend a
// smaller angle, so demanding pinpoint alignment just wastes ticks.
func (e *BotDecisionEngine) engage(bot, target *Tank, pred Vec) Action {
	dist := target.Pos.Sub(bot.Pos).Len()
	diff := NormalizeAngle(HeadingTo(bot.Pos, pred) - bot.Heading)
	tolerance := e.cfg.AngleTolerance * (1 + dist/e.cfg.VisionDistance)

	if math.Abs(diff) < tolerance {
		if bot.Cooldown == 0 {
			return ActionFire
		}
		// Waiting on cooldown: keep moving so the bot is a harder target.
		if dist > 100 {
			if e.rng.Float64() > 0.3 {
				return ActionMoveForward
			}
			return ActionMoveBackward
		}
		return ActionNoOp
	}

	// Big corrections at range sometimes advance instead, closing distance
	// while the turret comes around.
	if math.Abs(diff) > engageWideArc && dist > 150 {
		if e.rng.Float64() > 0.5 {
			if diff > 0 {
				return ActionRotateCW
			}
			return ActionRotateCCW
		}
		return ActionMoveForward
	}
	if diff > 0 {
		return ActionRotateCW
	}
	return ActionRotateCCW
}

// navigate follows the cached path toward the player, recomputing on the
// configured interval rather than every tick to bound BFS cost. When no path
// exists the bot falls back to direct-line approach.
func (e *BotDecisionEngine) navigate(bot, target *Tank, tick int) Action {
	botCell := e.grid.WorldToCell(bot.Pos)
	targetCell := e.grid.WorldToCell(target.Pos)

	// Occasionally swing toward a flanking goal instead of charging head-on.
	if e.flankGoal == nil &&
		tick%(e.cfg.PathRecomputeEvery*3) == 0 &&
		e.rng.Float64() < e.cfg.FlankProbability {
		if fp, ok := e.flankPoint(bot.Pos, target.Pos); ok {
			c := e.grid.WorldToCell(fp)
			e.flankGoal = &c
			e.log.Add(tick, "bot", "bot", "flank_set", "", 0)
		}
	}

	if tick%e.cfg.PathRecomputeEvery == 0 || len(e.path) == 0 {
		goal := targetCell
		if e.flankGoal != nil {
			goal = *e.flankGoal
		}
		e.path = FindPath(e.grid, botCell, goal)
		e.log.Add(tick, "bot", "path", "recompute", "", float64(len(e.path)))

		// A flank goal nearly reached has done its job.
		if e.flankGoal != nil && len(e.path) < 3 {
			e.flankGoal = nil
		}
	}

	if len(e.path) == 0 {
		// Unreachable: approach in a straight line rather than stalling.
		return e.steerToward(bot, target.Pos)
	}

	next := e.grid.CellToWorld(e.path[0])
	if next.Sub(bot.Pos).Len() < e.cfg.NodeArrivalDistance {
		e.path = e.path[1:]
		if len(e.path) == 0 {
			return ActionNoOp
		}
		next = e.grid.CellToWorld(e.path[0])
	}
	return e.steerWaypoint(bot, next)
}

// steerWaypoint turns and advances toward a path waypoint.
func (e *BotDecisionEngine) steerWaypoint(bot *Tank, wp Vec) Action {
	diff := NormalizeAngle(HeadingTo(bot.Pos, wp) - bot.Heading)
	switch {
	case math.Abs(diff) > steerHardTurn:
		if diff > 0 {
			return ActionRotateCW
		}
		return ActionRotateCCW
	case math.Abs(diff) > steerSoftTurn:
		// Shallow error: mostly keep rolling, correct now and then.
		if e.rng.Float64() > 0.7 {
			if diff > 0 {
				return ActionRotateCW
			}
			return ActionRotateCCW
		}
		return ActionMoveForward
	default:
		return ActionMoveForward
	}
}

// steerToward is the no-path fallback: rotate to face the goal, then drive.
func (e *BotDecisionEngine) steerToward(bot *Tank, goal Vec) Action {
	diff := NormalizeAngle(HeadingTo(bot.Pos, goal) - bot.Heading)
	if math.Abs(diff) > steerHardTurn {
		if diff > 0 {
			return ActionRotateCW
		}
		return ActionRotateCCW
	}
	return ActionMoveForward
}

// flankPoint offsets the target position perpendicular to the bot-target
// line, picking a side at random, clamped into the arena.
func (e *BotDecisionEngine) flankPoint(botPos, targetPos Vec) (Vec, bool) {
	d := targetPos.Sub(botPos)
	length := d.Len()
	if length == 0 {
		return Vec{}, false
	}
	perp := Vec{X: -d.Y / length, Y: d.X / length}
	offset := 100.0
	if e.rng.Float64() > 0.5 {
		offset = -offset
	}
	margin := e.cfg.TankSize * 2
	return Vec{
		X: clamp(targetPos.X+perp.X*offset, margin, e.cfg.ArenaWidth-margin),
		Y: clamp(targetPos.Y+perp.Y*offset, margin, e.cfg.ArenaHeight-margin),
	}, true
}
