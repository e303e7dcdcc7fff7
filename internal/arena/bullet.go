package arena

import "math"

// Bullet is a projectile in flight. It carries its owner's identity so
// collision resolution can exclude self-hits, and a travel-distance budget in
// place of a wall-clock TTL so its lifetime is independent of tick rate.
type Bullet struct {
	Pos   Vec
	Vel   Vec // px per tick
	Owner TankID

	Radius    float64
	travelled float64
	budget    float64
	prev      Vec // position before the last Integrate, for swept wall tests
	dead      bool
}

// NewBullet creates a bullet at origin moving along heading.
func NewBullet(origin Vec, heading float64, owner TankID, cfg Config) *Bullet {
	return &Bullet{
		Pos:    origin,
		Vel:    Vec{X: math.Cos(heading) * cfg.BulletSpeed, Y: math.Sin(heading) * cfg.BulletSpeed},
		Owner:  owner,
		Radius: cfg.BulletSize / 2,
		budget: cfg.BulletRange,
		prev:   origin,
	}
}

// Integrate advances the bullet one tick and charges the travel budget.
func (b *Bullet) Integrate(dt float64) {
	b.prev = b.Pos
	step := b.Vel.Scale(dt)
	b.Pos = b.Pos.Add(step)
	b.travelled += step.Len()
}

// Expired reports whether the bullet has exhausted its travel budget or left
// the arena bounds.
func (b *Bullet) Expired(arenaW, arenaH float64) bool {
	if b.travelled >= b.budget {
		return true
	}
	return b.Pos.X < 0 || b.Pos.X > arenaW || b.Pos.Y < 0 || b.Pos.Y > arenaH
}
