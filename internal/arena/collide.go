package arena

import "math"

// Kind tags the closed set of physical entity types for collision dispatch.
type Kind int

const (
	KindWall Kind = iota
	KindBullet
	KindTank
)

// hit records a bullet striking a tank, consumed by the reward computation.
type hit struct {
	shooter TankID
	victim  TankID
}

// resolver applies one tick of collision resolution over the live entities.
type resolver struct {
	walls   []Rect
	tanks   []*Tank
	bullets []*Bullet
	hits    []hit
}

type collisionFn func(*resolver)

// collisionOrder fixes the evaluation sequence so outcomes are deterministic:
// bullets die on walls before they can strike tanks, and tanks are pushed out
// of walls before being separated from each other.
var collisionOrder = [4][2]Kind{
	{KindBullet, KindWall},
	{KindBullet, KindTank},
	{KindTank, KindWall},
	{KindTank, KindTank},
}

var collisionTable = map[[2]Kind]collisionFn{
	{KindBullet, KindWall}: (*resolver).bulletWall,
	{KindBullet, KindTank}: (*resolver).bulletTank,
	{KindTank, KindWall}:   (*resolver).tankWall,
	{KindTank, KindTank}:   (*resolver).tankTank,
}

func (r *resolver) resolve() {
	for _, pair := range collisionOrder {
		collisionTable[pair](r)
	}
}

// bulletWall removes bullets whose swept segment crossed a wall this tick.
// The swept test prevents fast bullets from tunnelling through thin walls.
func (r *resolver) bulletWall() {
	for _, b := range r.bullets {
		if b.dead {
			continue
		}
		for _, w := range r.walls {
			if segmentIntersectsRect(b.prev, b.Pos, w) {
				b.dead = true
				break
			}
		}
	}
}

// bulletTank resolves bullet strikes: circle vs circle, excluding the
// bullet's owner. A struck tank is marked dead; the bullet is consumed.
func (r *resolver) bulletTank() {
	for _, b := range r.bullets {
		if b.dead {
			continue
		}
		for _, t := range r.tanks {
			if !t.Alive || t.ID == b.Owner {
				continue
			}
			if t.Pos.Sub(b.Pos).Len() < t.Radius+b.Radius {
				b.dead = true
				t.Alive = false
				r.hits = append(r.hits, hit{shooter: b.Owner, victim: t.ID})
				break
			}
		}
	}
}

// tankWall pushes each tank out of any wall it penetrates, along the axis of
// minimum penetration. Two passes settle the corner case where the first
// correction nudges the tank into an adjacent wall.
func (r *resolver) tankWall() {
	for pass := 0; pass < 2; pass++ {
		moved := false
		for _, t := range r.tanks {
			for _, w := range r.walls {
				if pushCircleOutOfRect(t, w) {
					moved = true
				}
			}
		}
		if !moved {
			break
		}
	}
}

// tankTank applies a symmetric separating correction so tanks never overlap.
// Contact does no damage; only rule bulletTank destroys a tank.
func (r *resolver) tankTank() {
	for i := 0; i < len(r.tanks); i++ {
		for j := i + 1; j < len(r.tanks); j++ {
			a, b := r.tanks[i], r.tanks[j]
			d := b.Pos.Sub(a.Pos)
			dist := d.Len()
			overlap := a.Radius + b.Radius - dist
			if overlap <= 0 {
				continue
			}
			var n Vec
			if dist > 1e-9 {
				n = d.Scale(1 / dist)
			} else {
				n = Vec{X: 1} // coincident centres: pick a fixed axis
			}
			half := n.Scale(overlap / 2)
			a.Pos = a.Pos.Sub(half)
			b.Pos = b.Pos.Add(half)
		}
	}
}

// pushCircleOutOfRect corrects a circle/rectangle penetration in place and
// reports whether a correction was applied.
func pushCircleOutOfRect(t *Tank, w Rect) bool {
	cx := clamp(t.Pos.X, w.MinX(), w.MaxX())
	cy := clamp(t.Pos.Y, w.MinY(), w.MaxY())
	dx := t.Pos.X - cx
	dy := t.Pos.Y - cy
	distSq := dx*dx + dy*dy

	if distSq >= t.Radius*t.Radius {
		return false
	}

	if distSq > 1e-12 {
		// Centre outside the rectangle: push away from the closest point.
		dist := math.Sqrt(distSq)
		pen := t.Radius - dist
		t.Pos.X += dx / dist * pen
		t.Pos.Y += dy / dist * pen
		return true
	}

	// Centre inside the rectangle: exit along the minimum-penetration axis.
	left := t.Pos.X - w.MinX()
	right := w.MaxX() - t.Pos.X
	top := t.Pos.Y - w.MinY()
	bottom := w.MaxY() - t.Pos.Y

	minH := math.Min(left, right)
	minV := math.Min(top, bottom)
	if minH < minV {
		if left < right {
			t.Pos.X = w.MinX() - t.Radius
		} else {
			t.Pos.X = w.MaxX() + t.Radius
		}
	} else {
		if top < bottom {
			t.Pos.Y = w.MinY() - t.Radius
		} else {
			t.Pos.Y = w.MaxY() + t.Radius
		}
	}
	return true
}
