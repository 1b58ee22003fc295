package paths

import (
	"fmt"
	"io"
	"math"

	rsvg "github.com/rustyoz/svg"
)

// curveSegments controls how finely cubic curves are flattened
// into line segments. The plotter's own interpolation re-samples
// every segment anyway, so this only needs to be fine enough that
// chords are not visible.
const curveSegments = 16

// FromSVGFull parses an SVG file using a full path-data parser, so
// that curved path commands are handled (flattened into line
// segments). The bounds are tightened around the parsed points.
func FromSVGFull(r io.Reader, scale float64) (*Paths, error) {
	if scale == 0 {
		scale = 1
	}
	sv, err := rsvg.ParseSvgFromReader(r, "", scale)
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}

	ins, errs := sv.ParseDrawingInstructions()
	perr := make(chan error, 1)
	go func() {
		var first error
		for err := range errs {
			if err != nil && first == nil {
				first = err
			}
		}
		perr <- first
	}()

	ps := &Paths{}
	var cur, subStart Vec2
	// line guards against path data that draws before any move.
	line := func(v Vec2) {
		if len(ps.P) == 0 {
			ps.move(cur)
		}
		ps.line(v)
	}
	for di := range ins {
		switch di.Kind {
		case rsvg.MoveInstruction:
			cur = Vec2{di.M[0], di.M[1]}
			subStart = cur
			ps.move(cur)
		case rsvg.LineInstruction:
			cur = Vec2{di.M[0], di.M[1]}
			line(cur)
		case rsvg.CurveInstruction:
			c1 := Vec2{di.CurvePoints.C1[0], di.CurvePoints.C1[1]}
			c2 := Vec2{di.CurvePoints.C2[0], di.CurvePoints.C2[1]}
			t := Vec2{di.CurvePoints.T[0], di.CurvePoints.T[1]}
			for i := 1; i <= curveSegments; i++ {
				line(cubicAt(cur, c1, c2, t, float64(i)/curveSegments))
			}
			cur = t
		case rsvg.CircleInstruction:
			c := Vec2{di.M[0], di.M[1]}
			r := *di.Radius
			ps.move(Vec2{c[0] + r, c[1]})
			for i := 1; i <= 4*curveSegments; i++ {
				a := 2 * math.Pi * float64(i) / (4 * curveSegments)
				ps.line(Vec2{c[0] + r*math.Cos(a), c[1] + r*math.Sin(a)})
			}
			cur = Vec2{c[0] + r, c[1]}
		case rsvg.CloseInstruction:
			line(subStart)
			cur = subStart
		case rsvg.PaintInstruction:
			// end of an element; nothing to draw
		}
	}
	if err := <-perr; err != nil {
		return nil, fmt.Errorf("parse svg drawing: %w", err)
	}
	ps.TightenBounds()
	return ps, nil
}

func cubicAt(p0, c1, c2, p1 Vec2, t float64) Vec2 {
	u := 1 - t
	var v Vec2
	for i := 0; i < 2; i++ {
		v[i] = u*u*u*p0[i] + 3*u*u*t*c1[i] + 3*u*t*t*c2[i] + t*t*t*p1[i]
	}
	return v
}
