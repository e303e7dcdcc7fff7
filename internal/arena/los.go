package arena

import "math"

// HasLineOfSight returns true if the straight segment from a to b does not
// intersect any wall rectangle. Uses slab-based segment-vs-AABB tests.
func HasLineOfSight(a, b Vec, walls []Rect) bool {
	for _, w := range walls {
		if segmentIntersectsRect(a, b, w) {
			return false
		}
	}
	return true
}

// segmentHitT returns the first segment parameter t in [0,1] where the line
// from a to b enters the rectangle. The bool is false when no hit exists.
func segmentHitT(a, b Vec, r Rect) (float64, bool) {
	dx := b.X - a.X
	dy := b.Y - a.Y

	tMin := 0.0
	tMax := 1.0

	// X slab.
	if math.Abs(dx) < 1e-12 {
		if a.X < r.MinX() || a.X > r.MaxX() {
			return 0, false
		}
	} else {
		invD := 1.0 / dx
		t1 := (r.MinX() - a.X) * invD
		t2 := (r.MaxX() - a.X) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	// Y slab.
	if math.Abs(dy) < 1e-12 {
		if a.Y < r.MinY() || a.Y > r.MaxY() {
			return 0, false
		}
	} else {
		invD := 1.0 / dy
		t1 := (r.MinY() - a.Y) * invD
		t2 := (r.MaxY() - a.Y) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	if tMax < 0 || tMin > 1 {
		return 0, false
	}
	if tMin < 0 {
		tMin = 0
	}
	return tMin, true
}

func segmentIntersectsRect(a, b Vec, r Rect) bool {
	_, hit := segmentHitT(a, b, r)
	return hit
}
