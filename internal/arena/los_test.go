package arena

import (
	"math"
	"testing"
)

func TestLOS_ClearWithNoWalls(t *testing.T) {
	if !HasLineOfSight(Vec{X: 0, Y: 0}, Vec{X: 100, Y: 100}, nil) {
		t.Fatal("expected clear sight with no walls")
	}
}

func TestLOS_BlockedByWall(t *testing.T) {
	walls := []Rect{{X: 40, Y: 0, W: 20, H: 200}}
	if HasLineOfSight(Vec{X: 0, Y: 100}, Vec{X: 200, Y: 100}, walls) {
		t.Fatal("expected sight blocked by the wall")
	}
}

func TestLOS_WallBeyondEndpoint(t *testing.T) {
	walls := []Rect{{X: 300, Y: 0, W: 50, H: 50}}
	if !HasLineOfSight(Vec{X: 0, Y: 25}, Vec{X: 200, Y: 25}, walls) {
		t.Fatal("wall beyond the segment endpoint should not block sight")
	}
}

func TestLOS_DiagonalBlocked(t *testing.T) {
	walls := []Rect{{X: 80, Y: 80, W: 40, H: 40}}
	if HasLineOfSight(Vec{X: 0, Y: 0}, Vec{X: 200, Y: 200}, walls) {
		t.Fatal("diagonal segment through the wall should be blocked")
	}
}

func TestSegmentHitT_EntryParameter(t *testing.T) {
	// Horizontal segment from x=0 to x=100 entering a wall at x=40.
	tHit, ok := segmentHitT(Vec{X: 0, Y: 50}, Vec{X: 100, Y: 50}, Rect{X: 40, Y: 0, W: 20, H: 100})
	if !ok {
		t.Fatal("expected a hit")
	}
	if math.Abs(tHit-0.4) > 1e-9 {
		t.Fatalf("expected entry at t=0.4, got %g", tHit)
	}
}

func TestSegmentHitT_StartInsideRect(t *testing.T) {
	tHit, ok := segmentHitT(Vec{X: 50, Y: 50}, Vec{X: 200, Y: 50}, Rect{X: 0, Y: 0, W: 100, H: 100})
	if !ok {
		t.Fatal("segment starting inside the rect should hit")
	}
	if tHit != 0 {
		t.Fatalf("entry parameter for an inside start should be 0, got %g", tHit)
	}
}

func TestSegmentHitT_Miss(t *testing.T) {
	if _, ok := segmentHitT(Vec{X: 0, Y: 0}, Vec{X: 100, Y: 0}, Rect{X: 0, Y: 50, W: 100, H: 20}); ok {
		t.Fatal("segment above the rect should miss")
	}
}

func TestNormalizeAngle_Wraps(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{3 * math.Pi, math.Pi},
		{math.Pi / 2, math.Pi / 2},
		{2*math.Pi + 0.25, 0.25},
		{-2*math.Pi - 0.25, -0.25},
	}
	for _, c := range cases {
		if got := NormalizeAngle(c.in); math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("NormalizeAngle(%g) = %g, want %g", c.in, got, c.want)
		}
	}
}
