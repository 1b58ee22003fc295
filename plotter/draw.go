package plotter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/paulhankin/brachio/paths"
)

// PlotOptions control how drawings are plotted. The zero value
// gets sensible defaults.
type PlotOptions struct {
	// Pace is how long to spend per drawing unit of travel, in
	// seconds. Default 0.1.
	Pace float64
	// Density is how many interpolation steps to cut each drawing
	// unit of travel into. Default 10.
	Density float64
	// PreStart approaches each line through a short lead-in point,
	// to take up backlash before the pen goes down.
	PreStart bool
	// Flip mirrors the drawing's x axis when fitting.
	Flip bool
	// Simplify drops points within this tolerance (drawing units,
	// applied after fitting) of the straightened path. 0 disables.
	Simplify float64
	// Sort reorders the drawing's lines to reduce pen-up travel.
	Sort bool
	// ContinueOnError plots the remaining lines when one line of a
	// drawing fails.
	ContinueOnError bool
}

func (o PlotOptions) withDefaults() PlotOptions {
	if o.Pace == 0 {
		o.Pace = 0.1
	}
	if o.Density == 0 {
		o.Density = 10
	}
	return o
}

// plotLine draws a single path: an optional lead-in, a pen-up move
// to the first point, then pen-down moves through the rest. A
// single-point path becomes a dot.
func (p *Plotter) plotLine(ctx context.Context, path paths.Path, o PlotOptions) error {
	v := path.V
	if o.PreStart && len(v) >= 2 {
		pre := PreStart(v[0], v[1])
		if err := p.MoveTo(ctx, pre[0], pre[1], o.Pace, o.Density, false); err != nil {
			return err
		}
	}
	if err := p.MoveTo(ctx, v[0][0], v[0][1], o.Pace, o.Density, false); err != nil {
		return err
	}
	if len(v) == 1 {
		return p.MoveTo(ctx, v[0][0], v[0][1], o.Pace, o.Density, true)
	}
	for _, pt := range v[1:] {
		if err := p.MoveTo(ctx, pt[0], pt[1], o.Pace, o.Density, true); err != nil {
			return err
		}
	}
	return nil
}

// PlotPaths fits the drawing into the configured bounds and plots
// it line by line, parking the arm afterwards. Lines that fail are
// skipped if opts.ContinueOnError is set; the first error is still
// returned. The drawing is modified in place by the fit.
func (p *Plotter) PlotPaths(ctx context.Context, ps *paths.Paths, opts PlotOptions) error {
	o := opts.withDefaults()
	b, err := p.Bounds()
	if err != nil {
		return err
	}
	if err := ps.Fit(b, o.Flip); err != nil {
		return err
	}
	if o.Simplify > 0 {
		ps.Simplify(o.Simplify)
	}
	if o.Sort {
		ps.Sort(&paths.SortConfig{Reverse: true})
	}
	// A flipped fit into an off-centre box can push points outside
	// the machine's safe area; clip rather than plot them.
	ps.Clip(b)

	var firstErr error
	for i, path := range ps.P {
		p.cfg.Log.Info().Int("line", i+1).Int("lines", len(ps.P)).Msg("plotting line")
		err := p.plotLine(ctx, path, o)
		if err == nil {
			continue
		}
		if ctx.Err() != nil {
			firstErr = err
			break
		}
		p.cfg.Log.Warn().Err(err).Int("line", i+1).Msg("line failed")
		if firstErr == nil {
			firstErr = err
		}
		if !o.ContinueOnError {
			break
		}
	}

	// Park even after a failure or cancellation; the arm must not
	// be left mid-drawing with the pen down and torque applied.
	if err := p.Park(context.WithoutCancel(ctx)); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// PlotFile loads a drawing from a file and plots it. Files ending
// in .json are read in the lines format; anything else is parsed
// as SVG. The drawing is flipped, matching how drawings captured in
// image coordinates come out on the plotter.
func (p *Plotter) PlotFile(ctx context.Context, name string, opts PlotOptions) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	var ps *paths.Paths
	if filepath.Ext(name) == ".json" {
		ps, err = paths.FromJSON(f)
	} else {
		ps, err = paths.FromSVGFull(f, 1)
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}
	opts.Flip = true
	return p.PlotPaths(ctx, ps, opts)
}

// DrawLine draws a straight line between two points, optionally
// approaching it through a lead-in point.
func (p *Plotter) DrawLine(ctx context.Context, start, end paths.Vec2, opts PlotOptions) error {
	o := opts.withDefaults()
	return p.plotLine(ctx, paths.Path{V: []paths.Vec2{start, end}}, o)
}

// Box draws the outline of the configured bounds the given number
// of times, then parks. It is the quickest check that the bounds
// are physically reachable. With reverse, the box is drawn
// anticlockwise.
func (p *Plotter) Box(ctx context.Context, repeat int, reverse bool, opts PlotOptions) error {
	o := opts.withDefaults()
	b, err := p.Bounds()
	if err != nil {
		return err
	}
	if repeat < 1 {
		repeat = 1
	}

	corners := []paths.Vec2{
		{b.Max[0], b.Min[1]},
		{b.Max[0], b.Max[1]},
		{b.Min[0], b.Max[1]},
		{b.Min[0], b.Min[1]},
	}
	if reverse {
		corners = []paths.Vec2{
			{b.Min[0], b.Max[1]},
			{b.Max[0], b.Max[1]},
			{b.Max[0], b.Min[1]},
			{b.Min[0], b.Min[1]},
		}
	}

	if err := p.MoveTo(ctx, b.Min[0], b.Min[1], o.Pace, o.Density, false); err != nil {
		return err
	}
	for r := 0; r < repeat; r++ {
		for _, c := range corners {
			if err := p.MoveTo(ctx, c[0], c[1], o.Pace, o.Density, true); err != nil {
				return err
			}
		}
	}
	return p.Park(context.WithoutCancel(ctx))
}

// TestPattern rasters back and forth across the bounds in
// alternating drawn rows, two units apart, to show how horizontal
// strokes come out across the whole drawing area.
func (p *Plotter) TestPattern(ctx context.Context, repeat int, opts PlotOptions) error {
	o := opts.withDefaults()
	b, err := p.Bounds()
	if err != nil {
		return err
	}
	if repeat < 1 {
		repeat = 1
	}
	for r := 0; r < repeat; r++ {
		for y := b.Min[1]; y <= b.Max[1]-1; y += 2 {
			moves := []struct {
				x, y float64
				draw bool
			}{
				{b.Min[0], y, false},
				{b.Max[0], y, true},
				{b.Max[0], y + 1, false},
				{b.Min[0], y + 1, true},
			}
			for _, m := range moves {
				if err := p.MoveTo(ctx, m.x, m.y, o.Pace, o.Density, m.draw); err != nil {
					return err
				}
			}
		}
	}
	return p.Park(context.WithoutCancel(ctx))
}

// VerticalLines draws n+1 evenly spaced vertical rules across the
// bounds, then parks. With reverse, each rule is drawn bottom to
// top.
func (p *Plotter) VerticalLines(ctx context.Context, n int, reverse bool, opts PlotOptions) error {
	o := opts.withDefaults()
	b, err := p.Bounds()
	if err != nil {
		return err
	}
	if n < 1 {
		n = 1
	}
	top, bottom := b.Min[1], b.Max[1]
	if reverse {
		top, bottom = bottom, top
	}
	step := (b.Max[0] - b.Min[0]) / float64(n)
	for x := b.Min[0]; x <= b.Max[0]; x += step {
		err := p.DrawLine(ctx, paths.Vec2{x, top}, paths.Vec2{x, bottom}, o)
		if err != nil {
			return err
		}
	}
	return p.Park(context.WithoutCancel(ctx))
}

// HorizontalLines draws n+1 evenly spaced horizontal rules across
// the bounds, then parks. With reverse, each rule is drawn right
// to left.
func (p *Plotter) HorizontalLines(ctx context.Context, n int, reverse bool, opts PlotOptions) error {
	o := opts.withDefaults()
	b, err := p.Bounds()
	if err != nil {
		return err
	}
	if n < 1 {
		n = 1
	}
	left, right := b.Min[0], b.Max[0]
	if reverse {
		left, right = right, left
	}
	step := (b.Max[1] - b.Min[1]) / float64(n)
	for y := b.Min[1]; y <= b.Max[1]; y += step {
		err := p.DrawLine(ctx, paths.Vec2{left, y}, paths.Vec2{right, y}, o)
		if err != nil {
			return err
		}
	}
	return p.Park(context.WithoutCancel(ctx))
}

// Centre raises the pen, moves to the middle of the bounds and
// releases the servos, leaving the arm ready to be positioned by
// hand.
func (p *Plotter) Centre(ctx context.Context, opts PlotOptions) error {
	o := opts.withDefaults()
	b, err := p.Bounds()
	if err != nil {
		return err
	}
	mid := b.Mid()
	if err := p.MoveTo(ctx, mid[0], mid[1], o.Pace, o.Density, false); err != nil {
		return err
	}
	return p.Quiet()
}
