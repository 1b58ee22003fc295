package paths

import (
	"errors"
	"fmt"
	"math"
)

// ErrDegenerate is reported by Fit when a drawing has zero extent
// along an axis, so that no uniform scale can fit it to a box.
var ErrDegenerate = errors.New("drawing has zero extent")

// Fit rescales the drawing so that it fits inside the box b,
// preserving proportions. The drawing is centered in the box, and
// rotated a quarter turn if its orientation (landscape or portrait)
// differs from the box's: of the two choices, whichever lets the
// drawing be drawn larger. With flip set, the x coordinates are
// mirrored, to correct for plotters whose x axis runs opposite to
// the drawing's. The bounds are updated to b.
//
// Fit fails with an error wrapping ErrDegenerate if all the
// drawing's points share an x or a y coordinate.
func (ps *Paths) Fit(b Bounds, flip bool) error {
	ps.TightenBounds()

	r := ps.Bounds.Range()
	mid := ps.Bounds.Mid()
	boxR := b.Range()
	boxMid := b.Mid()

	if r[0] == 0 || r[1] == 0 {
		return fmt.Errorf("fit to %v..%v: %w", b.Min, b.Max, ErrDegenerate)
	}

	// If drawing and box are both landscape, or both portrait, the
	// drawing is not rotated. Otherwise it is rotated a quarter
	// turn, and scaled against the box's swapped axes.
	rotate := (r[0] >= r[1]) != (boxR[0] >= boxR[1])
	var divider float64
	if rotate {
		divider = math.Max(r[0]/boxR[1], r[1]/boxR[0])
		mid[0], mid[1] = mid[1], mid[0]
	} else {
		divider = math.Max(r[0]/boxR[0], r[1]/boxR[1])
	}

	for _, p := range ps.P {
		for i, v := range p.V {
			if rotate {
				v[0], v[1] = v[1], v[0]
			}
			x := (v[0]-mid[0])/divider + boxMid[0]
			if flip != rotate {
				x = -x
			}
			y := (v[1]-mid[1])/divider + boxMid[1]
			p.V[i] = Vec2{x, y}
		}
	}
	ps.Bounds = b
	return nil
}
