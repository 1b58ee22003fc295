package arm

import (
	"errors"
	"math"
	"testing"
)

func TestAngles(t *testing.T) {
	g := Geometry{Inner: 8, Outer: 8}
	cases := []struct {
		desc            string
		x, y            float64
		shoulder, elbow float64
	}{
		{"parked", -8, 8, -90, 90},
		{"straight ahead", 0, 8, -60, 120},
		{"fully extended", 0, 16, 0, 0},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			shoulder, elbow, err := g.Angles(c.x, c.y)
			if err != nil {
				t.Fatalf("Angles(%g, %g): %v", c.x, c.y, err)
			}
			if math.Abs(shoulder-c.shoulder) > 1e-9 || math.Abs(elbow-c.elbow) > 1e-9 {
				t.Errorf("Angles(%g, %g) = (%g, %g), want (%g, %g)",
					c.x, c.y, shoulder, elbow, c.shoulder, c.elbow)
			}
		})
	}
}

func TestAnglesUnreachable(t *testing.T) {
	cases := []struct {
		desc string
		g    Geometry
		x, y float64
	}{
		{"too far", Geometry{8, 8}, 20, 20},
		{"just past full reach", Geometry{8, 8}, 0, 16.001},
		{"at the pivot", Geometry{8, 8}, 0, 0},
		{"inside the annulus hole", Geometry{8, 4}, 0, 2},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			_, _, err := c.g.Angles(c.x, c.y)
			var ue *UnreachableError
			if !errors.As(err, &ue) {
				t.Fatalf("Angles(%g, %g) = %v, want UnreachableError", c.x, c.y, err)
			}
			if ue.X != c.x || ue.Y != c.y {
				t.Errorf("error position = (%g, %g), want (%g, %g)", ue.X, ue.Y, c.x, c.y)
			}
		})
	}
}

// TestAnglesXYRoundTrip checks that XY inverts Angles over a grid of
// reachable positions in front of the plotter.
func TestAnglesXYRoundTrip(t *testing.T) {
	geoms := []Geometry{{8, 8}, {9, 7.5}, {8.2, 8.85}}
	for _, g := range geoms {
		for x := -12.0; x <= 12; x += 1.5 {
			for y := 2.0; y <= 15; y += 1.3 {
				shoulder, elbow, err := g.Angles(x, y)
				if err != nil {
					continue
				}
				gx, gy := g.XY(shoulder, elbow)
				if math.Abs(gx-x) > 1e-6 || math.Abs(gy-y) > 1e-6 {
					t.Errorf("geometry %v: XY(Angles(%g, %g)) = (%g, %g)", g, x, y, gx, gy)
				}
			}
		}
	}
}

func TestParked(t *testing.T) {
	g := Geometry{Inner: 8, Outer: 8.5}
	x, y := g.Parked()
	if x != -8 || y != 8.5 {
		t.Fatalf("Parked = (%g, %g), want (-8, 8.5)", x, y)
	}
	shoulder, elbow, err := g.Angles(x, y)
	if err != nil {
		t.Fatalf("Angles of parked position: %v", err)
	}
	if math.Abs(shoulder-(-90)) > 1e-9 || math.Abs(elbow-90) > 1e-9 {
		t.Errorf("parked angles = (%g, %g), want (-90, 90)", shoulder, elbow)
	}
}
