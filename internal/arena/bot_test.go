package arena

import (
	"math"
	"math/rand"
	"testing"
)

// newTestEngine builds an engine over the config's wall layout with a fixed
// RNG seed so decisions replay.
func newTestEngine(cfg Config) (*BotDecisionEngine, []Rect) {
	walls := buildWalls(cfg)
	grid := NewGridMap(walls, cfg.ArenaWidth, cfg.ArenaHeight, cfg.CellSize, cfg.ClearanceRadius)
	eng := NewBotDecisionEngine(grid, cfg, rand.New(rand.NewSource(1)), NewEpisodeLog())
	return eng, walls
}

// openConfig is an arena with no interior walls and flanking disabled, so
// navigation and engagement decisions are fully predictable.
func openConfig() Config {
	cfg := DefaultConfig()
	cfg.Walls = []Rect{{X: 0, Y: 0, W: 1, H: 1}} // non-empty overrides the maze
	cfg.FlankProbability = 0
	return cfg
}

func TestBot_EngagesAndFiresWithSight(t *testing.T) {
	cfg := openConfig()
	eng, walls := newTestEngine(cfg)

	bot := NewTank(TankBot, Vec{X: 200, Y: 300}, cfg)
	target := NewTank(TankPlayer, Vec{X: 400, Y: 300}, cfg)

	// Facing the target dead-on with a cold gun: fire immediately.
	a := eng.Decide(bot, target, walls, nil, 1)
	if eng.Mode() != ModeEngage {
		t.Fatalf("expected engage mode with clear sight, got %s", eng.Mode())
	}
	if a != ActionFire {
		t.Fatalf("expected fire when aligned and cold, got %s", a)
	}
}

func TestBot_EngageRotatesTowardTarget(t *testing.T) {
	cfg := openConfig()
	eng, walls := newTestEngine(cfg)

	bot := NewTank(TankBot, Vec{X: 200, Y: 300}, cfg)
	bot.Heading = math.Pi // facing away
	target := NewTank(TankPlayer, Vec{X: 330, Y: 300}, cfg)

	// Within vision, sight clear, but badly misaligned and close: must turn,
	// not fire and not advance.
	a := eng.Decide(bot, target, walls, nil, 1)
	if eng.Mode() != ModeEngage {
		t.Fatalf("expected engage mode, got %s", eng.Mode())
	}
	if a != ActionRotateCW && a != ActionRotateCCW {
		t.Fatalf("expected rotation toward the target, got %s", a)
	}
}

func TestBot_NavigatesBeyondVision(t *testing.T) {
	cfg := openConfig()
	eng, walls := newTestEngine(cfg)

	bot := NewTank(TankBot, Vec{X: 100, Y: 100}, cfg)
	target := NewTank(TankPlayer, Vec{X: 500, Y: 500}, cfg) // ~565px away, past vision

	eng.Decide(bot, target, walls, nil, 1)
	if eng.Mode() != ModeNavigate {
		t.Fatalf("expected navigate mode beyond vision range, got %s", eng.Mode())
	}
	if len(eng.Path()) == 0 {
		t.Fatal("navigation should have computed a path")
	}
}

func TestBot_NavigatesWhenWallBlocksSight(t *testing.T) {
	cfg := DefaultConfig() // stock maze
	cfg.FlankProbability = 0
	eng, walls := newTestEngine(cfg)

	// The vertical wall at x=100..120 stands between these two positions.
	bot := NewTank(TankBot, Vec{X: 60, Y: 200}, cfg)
	target := NewTank(TankPlayer, Vec{X: 200, Y: 200}, cfg)

	eng.Decide(bot, target, walls, nil, 1)
	if eng.Mode() != ModeNavigate {
		t.Fatalf("expected navigate mode without sight, got %s", eng.Mode())
	}
	for _, c := range eng.Path() {
		if eng.grid.IsBlocked(c, true) {
			t.Fatalf("navigation path enters inflated-blocked cell %v", c)
		}
	}
}

func TestBot_EvadePreemptsEngage(t *testing.T) {
	cfg := openConfig()
	eng, walls := newTestEngine(cfg)

	bot := NewTank(TankBot, Vec{X: 200, Y: 300}, cfg)
	target := NewTank(TankPlayer, Vec{X: 400, Y: 300}, cfg)
	// Hostile bullet 50px out, heading straight at the bot.
	threat := NewBullet(Vec{X: 150, Y: 300}, 0, TankPlayer, cfg)

	eng.Decide(bot, target, walls, []*Bullet{threat}, 1)
	if eng.Mode() != ModeEvade {
		t.Fatalf("incoming bullet should pre-empt engagement, got %s", eng.Mode())
	}
	if !eng.log.HasEntry("bot", "mode_change", "evade") {
		t.Fatal("mode change to evade should be logged")
	}
}

func TestBot_IgnoresOwnBullets(t *testing.T) {
	cfg := openConfig()
	eng, walls := newTestEngine(cfg)

	bot := NewTank(TankBot, Vec{X: 200, Y: 300}, cfg)
	target := NewTank(TankPlayer, Vec{X: 400, Y: 300}, cfg)
	own := NewBullet(Vec{X: 150, Y: 300}, 0, TankBot, cfg)

	eng.Decide(bot, target, walls, []*Bullet{own}, 1)
	if eng.Mode() == ModeEvade {
		t.Fatal("bot must not dodge its own bullets")
	}
}

func TestBot_IgnoresRecedingBullets(t *testing.T) {
	cfg := openConfig()
	eng, walls := newTestEngine(cfg)

	bot := NewTank(TankBot, Vec{X: 200, Y: 300}, cfg)
	target := NewTank(TankPlayer, Vec{X: 400, Y: 300}, cfg)
	// Close by, but moving directly away from the bot.
	receding := NewBullet(Vec{X: 150, Y: 300}, math.Pi, TankPlayer, cfg)

	eng.Decide(bot, target, walls, []*Bullet{receding}, 1)
	if eng.Mode() == ModeEvade {
		t.Fatal("a bullet moving away is not a threat")
	}
}

func TestBot_DodgeDisabledByConfig(t *testing.T) {
	cfg := openConfig()
	cfg.DodgeEnabled = false
	eng, walls := newTestEngine(cfg)

	bot := NewTank(TankBot, Vec{X: 200, Y: 300}, cfg)
	target := NewTank(TankPlayer, Vec{X: 400, Y: 300}, cfg)
	threat := NewBullet(Vec{X: 150, Y: 300}, 0, TankPlayer, cfg)

	eng.Decide(bot, target, walls, []*Bullet{threat}, 1)
	if eng.Mode() == ModeEvade {
		t.Fatal("evasion should be off when disabled in config")
	}
}

func TestBot_EngageClearsCachedPath(t *testing.T) {
	cfg := openConfig()
	eng, walls := newTestEngine(cfg)

	bot := NewTank(TankBot, Vec{X: 100, Y: 100}, cfg)
	far := NewTank(TankPlayer, Vec{X: 500, Y: 500}, cfg)
	eng.Decide(bot, far, walls, nil, 1)
	if len(eng.Path()) == 0 {
		t.Fatal("test setup: expected a cached path")
	}

	near := NewTank(TankPlayer, Vec{X: 250, Y: 100}, cfg)
	eng.Decide(bot, near, walls, nil, 2)
	if eng.Mode() != ModeEngage {
		t.Fatalf("expected engage against a visible target, got %s", eng.Mode())
	}
	if len(eng.Path()) != 0 {
		t.Fatal("engaging should drop the stale path")
	}
}

func TestBot_LeadPointAheadOfMovingTarget(t *testing.T) {
	cfg := openConfig()
	eng, _ := newTestEngine(cfg)

	bot := NewTank(TankBot, Vec{X: 100, Y: 300}, cfg)
	target := NewTank(TankPlayer, Vec{X: 300, Y: 300}, cfg)
	target.Vel = Vec{X: 0, Y: 4} // moving down-screen

	pred := eng.leadPoint(bot, target)
	if pred.Y <= target.Pos.Y {
		t.Fatalf("lead point should be ahead of the target's motion, got y=%g", pred.Y)
	}
	if pred.X != target.Pos.X {
		t.Fatalf("lead along X should be zero for pure Y motion, got x=%g", pred.X)
	}
}

func TestBot_LeadPointStationaryTargetIsExact(t *testing.T) {
	cfg := openConfig()
	eng, _ := newTestEngine(cfg)

	bot := NewTank(TankBot, Vec{X: 100, Y: 300}, cfg)
	target := NewTank(TankPlayer, Vec{X: 300, Y: 300}, cfg)

	if pred := eng.leadPoint(bot, target); pred != target.Pos {
		t.Fatalf("stationary target needs no lead, got %v", pred)
	}
}

func TestBot_FlankGoalSetAndClearedOnArrival(t *testing.T) {
	cfg := openConfig()
	cfg.FlankProbability = 1 // flank on every window
	cfg.VisionDistance = 50  // keep the bot navigating even near the flank point
	eng, walls := newTestEngine(cfg)

	bot := NewTank(TankBot, Vec{X: 100, Y: 100}, cfg)
	target := NewTank(TankPlayer, Vec{X: 500, Y: 500}, cfg)

	// Tick 30 opens a flank window (3x the recompute interval).
	eng.Decide(bot, target, walls, nil, 30)
	if eng.flankGoal == nil {
		t.Fatal("flank window with probability 1 should set a flank goal")
	}
	if !eng.log.HasEntry("bot", "flank_set", "") {
		t.Fatal("flank decision should be logged")
	}

	// Teleport the bot onto the flank goal; the next recompute sees a
	// near-empty path and retires the goal.
	bot.Pos = eng.grid.CellToWorld(*eng.flankGoal)
	eng.Decide(bot, target, walls, nil, 40)
	if eng.flankGoal != nil {
		t.Fatal("flank goal should be cleared once reached")
	}
}

func TestBot_ResetClearsState(t *testing.T) {
	cfg := openConfig()
	eng, walls := newTestEngine(cfg)

	bot := NewTank(TankBot, Vec{X: 100, Y: 100}, cfg)
	target := NewTank(TankPlayer, Vec{X: 500, Y: 500}, cfg)
	eng.Decide(bot, target, walls, nil, 1)

	eng.Reset(eng.grid, rand.New(rand.NewSource(2)))
	if eng.Mode() != ModeNavigate || len(eng.Path()) != 0 {
		t.Fatal("reset should return the engine to navigate with no path")
	}
}
