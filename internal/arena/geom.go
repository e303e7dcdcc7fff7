package arena

import "math"

// Vec is a 2D point or direction in world pixels. Y grows downward.
type Vec struct {
	X, Y float64
}

func (v Vec) Add(o Vec) Vec       { return Vec{v.X + o.X, v.Y + o.Y} }
func (v Vec) Sub(o Vec) Vec       { return Vec{v.X - o.X, v.Y - o.Y} }
func (v Vec) Scale(s float64) Vec { return Vec{v.X * s, v.Y * s} }
func (v Vec) Len() float64        { return math.Hypot(v.X, v.Y) }

// Rect is an axis-aligned rectangle (walls, arena bounds).
type Rect struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

func (r Rect) MinX() float64 { return r.X }
func (r Rect) MinY() float64 { return r.Y }
func (r Rect) MaxX() float64 { return r.X + r.W }
func (r Rect) MaxY() float64 { return r.Y + r.H }

// ContainsCircle reports whether the circle at c with radius rad overlaps r.
func (r Rect) ContainsCircle(c Vec, rad float64) bool {
	cx := clamp(c.X, r.MinX(), r.MaxX())
	cy := clamp(c.Y, r.MinY(), r.MaxY())
	dx := c.X - cx
	dy := c.Y - cy
	return dx*dx+dy*dy < rad*rad
}

// HeadingTo returns the angle in radians from a toward b.
func HeadingTo(a, b Vec) float64 {
	return math.Atan2(b.Y-a.Y, b.X-a.X)
}

// NormalizeAngle wraps an angle into (-pi, pi].
func NormalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
