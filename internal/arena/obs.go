package arena

import (
	"math"
	"sort"
)

// observation assembles the fixed-length vector the training collaborator
// consumes. Layout (all values roughly in [-1, 1]):
//
//	[0:7]   player: x, y (arena-normalised), sin/cos heading,
//	        vx, vy (over tank size), cooldown fraction
//	[7:14]  bot: same seven fields
//	[14:]   nearest bullets, 4 values each: position relative to the player
//	        (arena-normalised), velocity (over tank size); zero-padded
//
// The shape never changes between ticks or episodes.
func (e *Env) observation() []float64 {
	obs := make([]float64, 0, e.cfg.ObservationSize())
	obs = e.appendTank(obs, e.player)
	obs = e.appendTank(obs, e.bot)

	sorted := make([]*Bullet, len(e.bullets))
	copy(sorted, e.bullets)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Pos.Sub(e.player.Pos).Len() < sorted[j].Pos.Sub(e.player.Pos).Len()
	})

	for i := 0; i < e.cfg.ObservedBullets; i++ {
		if i < len(sorted) {
			b := sorted[i]
			rel := b.Pos.Sub(e.player.Pos)
			obs = append(obs,
				rel.X/e.cfg.ArenaWidth,
				rel.Y/e.cfg.ArenaHeight,
				b.Vel.X/e.cfg.TankSize,
				b.Vel.Y/e.cfg.TankSize,
			)
		} else {
			obs = append(obs, 0, 0, 0, 0)
		}
	}
	return obs
}

func (e *Env) appendTank(obs []float64, t *Tank) []float64 {
	return append(obs,
		t.Pos.X/e.cfg.ArenaWidth,
		t.Pos.Y/e.cfg.ArenaHeight,
		math.Sin(t.Heading),
		math.Cos(t.Heading),
		t.Vel.X/e.cfg.TankSize,
		t.Vel.Y/e.cfg.TankSize,
		float64(t.Cooldown)/float64(e.cfg.FireCooldown),
	)
}
