package arena

import "math"

// TankID identifies which side a tank (or a bullet's owner) belongs to.
type TankID int

const (
	TankPlayer TankID = 1
	TankBot    TankID = 2
)

func (id TankID) String() string {
	switch id {
	case TankPlayer:
		return "player"
	case TankBot:
		return "bot"
	default:
		return "unknown"
	}
}

// Tank is one combatant: a circle with a heading, a fire cooldown and a
// per-tick velocity estimate used for lead aiming and the observation.
type Tank struct {
	ID      TankID
	Pos     Vec
	Heading float64 // radians; 0 faces +X, positive turns clockwise on screen
	Radius  float64
	Alive   bool

	Cooldown int // ticks until the next shot is allowed
	Vel      Vec // position delta over the last tick

	// Intent set by ApplyAction and consumed by Integrate/TryFire.
	linear  float64 // -1 backward, 0 hold, +1 forward
	angular float64 // -1 ccw, 0 hold, +1 cw
	firing  bool

	speed    float64
	rotSpeed float64
	lastPos  Vec
}

// NewTank creates a live tank at the given position facing +X.
func NewTank(id TankID, pos Vec, cfg Config) *Tank {
	return &Tank{
		ID:       id,
		Pos:      pos,
		Radius:   cfg.TankSize / 2,
		Alive:    true,
		speed:    cfg.TankSpeed,
		rotSpeed: cfg.RotationSpeed,
		lastPos:  pos,
	}
}

// ApplyAction records the tick's intent. Movement and rotation take effect in
// Integrate; FIRE is attempted afterwards via TryFire.
func (t *Tank) ApplyAction(a Action) {
	t.linear = 0
	t.angular = 0
	t.firing = false
	switch a {
	case ActionMoveForward:
		t.linear = 1
	case ActionMoveBackward:
		t.linear = -1
	case ActionRotateCW:
		t.angular = 1
	case ActionRotateCCW:
		t.angular = -1
	case ActionFire:
		t.firing = true
	}
}

// Integrate advances heading and position by one tick of the current intent
// and decays the fire cooldown. Collision resolution afterwards corrects any
// wall or tank penetration.
func (t *Tank) Integrate(dt float64) {
	if !t.Alive {
		return
	}
	t.Heading = NormalizeAngle(t.Heading + t.angular*t.rotSpeed*dt)
	t.Pos.X += math.Cos(t.Heading) * t.speed * t.linear * dt
	t.Pos.Y += math.Sin(t.Heading) * t.speed * t.linear * dt
	if t.Cooldown > 0 {
		t.Cooldown--
	}
}

// TryFire returns a new bullet if the tank wants to fire, its cooldown has
// expired and it has fewer than the allowed number of bullets in flight.
// Firing resets the cooldown.
func (t *Tank) TryFire(liveOwned int, cfg Config) *Bullet {
	if !t.firing || !t.Alive || t.Cooldown > 0 || liveOwned >= cfg.MaxBulletsPerTank {
		return nil
	}
	t.Cooldown = cfg.FireCooldown

	// Spawn ahead of the hull so the shot clears the shooter.
	muzzle := cfg.TankSize / 1.5
	origin := Vec{
		X: t.Pos.X + math.Cos(t.Heading)*muzzle,
		Y: t.Pos.Y + math.Sin(t.Heading)*muzzle,
	}
	return NewBullet(origin, t.Heading, t.ID, cfg)
}

// UpdateVelocity refreshes the per-tick velocity estimate from the position
// delta. Called after collision resolution so the estimate reflects actual
// displacement, not intent.
func (t *Tank) UpdateVelocity() {
	t.Vel = t.Pos.Sub(t.lastPos)
	t.lastPos = t.Pos
}
