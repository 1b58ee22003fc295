// Package plotter turns target pen positions into paced sequences
// of small servo moves for a two-link pantograph plotting arm.
package plotter

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/paulhankin/brachio/arm"
	"github.com/paulhankin/brachio/paths"
	"github.com/paulhankin/brachio/servo"
)

// ErrNoBounds is reported by operations that scale a drawing into
// the machine's safe area when no bounds have been configured.
var ErrNoBounds = errors.New("no drawing bounds configured")

// State is the plotter's belief about where the arm is. The angles
// are always the ones derived from the position; nothing updates
// them independently.
type State struct {
	X, Y            float64
	Shoulder, Elbow float64
}

// Config wires up a Plotter.
type Config struct {
	Geometry arm.Geometry

	// Bounds is the safe drawing rectangle, if known. Operations
	// that fit a drawing to the machine require it.
	Bounds *paths.Bounds

	// Shoulder and Elbow convert angles to pulse-widths.
	Shoulder, Elbow arm.Calibration

	// ShoulderChannel and ElbowChannel are the driver channels the
	// two arm servos are wired to.
	ShoulderChannel, ElbowChannel int

	Driver servo.Driver
	Pen    *servo.Pen

	// Log receives progress events. The zero logger is fine for
	// library use; the CLI passes a console logger.
	Log zerolog.Logger
}

// channelStats tracks the extremes of what a servo channel was
// asked to do, for calibration reports.
type channelStats struct {
	n                  int
	minAngle, maxAngle float64
	minPW, maxPW       float64
}

func (cs *channelStats) add(angle, pw float64) {
	if cs.n == 0 {
		cs.minAngle, cs.maxAngle = angle, angle
		cs.minPW, cs.maxPW = pw, pw
	}
	cs.n++
	cs.minAngle = math.Min(cs.minAngle, angle)
	cs.maxAngle = math.Max(cs.maxAngle, angle)
	cs.minPW = math.Min(cs.minPW, pw)
	cs.maxPW = math.Max(cs.maxPW, pw)
}

// Plotter drives the arm. It is not safe for concurrent use: all
// motion is synchronous, paced by blocking sleeps, and there must
// be exactly one writer to the driver.
type Plotter struct {
	cfg   Config
	state State
	sleep func(time.Duration)

	shoulderStats, elbowStats channelStats
}

// frequencyHz is the servo pulse frequency. Servos are specified
// for 50Hz; driving them faster risks damage.
const frequencyHz = 50

// New wires up a plotter and puts the arm into a known safe state:
// pen up, both servos driven to the parked pose (shoulder -90,
// elbow +90), with a settle pause after each.
func New(cfg *Config) (*Plotter, error) {
	if cfg.Geometry.Inner <= 0 || cfg.Geometry.Outer <= 0 {
		return nil, fmt.Errorf("bad arm geometry %+v", cfg.Geometry)
	}
	if cfg.Driver == nil || cfg.Pen == nil || cfg.Shoulder == nil || cfg.Elbow == nil {
		return nil, errors.New("plotter config missing driver, pen or calibration")
	}
	p := &Plotter{cfg: *cfg, sleep: time.Sleep}

	for _, ch := range []int{cfg.ShoulderChannel, cfg.ElbowChannel} {
		if err := cfg.Driver.SetFrequency(ch, frequencyHz); err != nil {
			return nil, fmt.Errorf("set frequency on channel %d: %w", ch, err)
		}
	}
	if err := cfg.Pen.Up(); err != nil {
		return nil, err
	}

	// Drive straight to the parked pulse-widths, one servo at a
	// time with a pause, so the arm swings to a known pose gently.
	for _, m := range []struct {
		ch    int
		cal   arm.Calibration
		angle float64
	}{
		{cfg.ShoulderChannel, cfg.Shoulder, -90},
		{cfg.ElbowChannel, cfg.Elbow, 90},
	} {
		pw := m.cal.PulseWidth(m.angle)
		if err := servo.CheckPulseWidth(m.ch, pw); err != nil {
			return nil, err
		}
		if err := cfg.Driver.SetPulseWidth(m.ch, pw); err != nil {
			return nil, err
		}
		p.sleep(300 * time.Millisecond)
	}

	px, py := cfg.Geometry.Parked()
	p.state = State{X: px, Y: py, Shoulder: -90, Elbow: 90}
	p.cfg.Log.Info().
		Float64("x", px).Float64("y", py).
		Msg("plotter initialised at parked position")
	return p, nil
}

// State returns the plotter's current position and angles.
func (p *Plotter) State() State {
	return p.state
}

// Bounds returns the configured safe drawing area, or ErrNoBounds.
func (p *Plotter) Bounds() (paths.Bounds, error) {
	if p.cfg.Bounds == nil {
		return paths.Bounds{}, ErrNoBounds
	}
	return *p.cfg.Bounds, nil
}

// pulseWidths converts a position to the pair of pulse-widths that
// reach it, failing before anything touches the hardware if the
// position is unreachable or a pulse-width is out of the safe band.
func (p *Plotter) pulseWidths(x, y float64) (shoulder, elbow, pw1, pw2 float64, err error) {
	shoulder, elbow, err = p.cfg.Geometry.Angles(x, y)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	pw1 = p.cfg.Shoulder.PulseWidth(shoulder)
	pw2 = p.cfg.Elbow.PulseWidth(elbow)
	if err := servo.CheckPulseWidth(p.cfg.ShoulderChannel, pw1); err != nil {
		return 0, 0, 0, 0, err
	}
	if err := servo.CheckPulseWidth(p.cfg.ElbowChannel, pw2); err != nil {
		return 0, 0, 0, 0, err
	}
	return shoulder, elbow, pw1, pw2, nil
}

// setAngles drives both servos to the given angles.
func (p *Plotter) setAngles(shoulder, elbow float64) error {
	pw1 := p.cfg.Shoulder.PulseWidth(shoulder)
	pw2 := p.cfg.Elbow.PulseWidth(elbow)
	if err := servo.CheckPulseWidth(p.cfg.ShoulderChannel, pw1); err != nil {
		return err
	}
	if err := servo.CheckPulseWidth(p.cfg.ElbowChannel, pw2); err != nil {
		return err
	}
	if err := p.cfg.Driver.SetPulseWidth(p.cfg.ShoulderChannel, pw1); err != nil {
		return err
	}
	if err := p.cfg.Driver.SetPulseWidth(p.cfg.ElbowChannel, pw2); err != nil {
		return err
	}
	p.shoulderStats.add(shoulder, pw1)
	p.elbowStats.add(elbow, pw2)
	return nil
}

// MoveTo moves the pen to (x, y), drawing if draw is set.
//
// The move is cut into steps of roughly 1/density drawing units,
// and each step is paced with a blocking sleep so the whole move
// takes about dist*pace seconds; a final longer settle pause lets
// the arm stop swinging. ctx is checked between steps, so a
// cancelled context abandons the move there.
//
// On any failure the plotter's state is rolled back to its value
// before the call, so a later move does not jump.
func (p *Plotter) MoveTo(ctx context.Context, x, y float64, pace, density float64, draw bool) (err error) {
	saved := p.state
	defer func() {
		if err != nil {
			p.state = saved
		}
	}()

	if draw != p.cfg.Pen.IsDown() {
		var perr error
		if draw {
			perr = p.cfg.Pen.Down()
		} else {
			perr = p.cfg.Pen.Up()
		}
		if perr != nil {
			return perr
		}
	}

	_, _, pw1, pw2, err := p.pulseWidths(x, y)
	if err != nil {
		return err
	}

	// If the servos are already being driven with the target
	// pulse-widths there is nothing to move, but the logical
	// position must still advance, or a later move would jump.
	// Note this compares pulse-widths, not positions: with a
	// non-invertible calibration curve, two distinct targets can
	// collide and the second move is skipped.
	cur1, err := p.cfg.Driver.PulseWidth(p.cfg.ShoulderChannel)
	if err != nil {
		return err
	}
	cur2, err := p.cfg.Driver.PulseWidth(p.cfg.ElbowChannel)
	if err != nil {
		return err
	}
	if pw1 == cur1 && pw2 == cur2 {
		sh, el, aerr := p.cfg.Geometry.Angles(x, y)
		if aerr != nil {
			return aerr
		}
		p.state = State{X: x, Y: y, Shoulder: sh, Elbow: el}
		return nil
	}

	dx, dy := x-p.state.X, y-p.state.Y
	dist := math.Hypot(dx, dy)
	steps := int(math.Round(dist * density))
	if steps < 1 {
		steps = 1
	}
	stepX, stepY := dx/float64(steps), dy/float64(steps)

	p.cfg.Log.Debug().
		Float64("x", x).Float64("y", y).Bool("draw", draw).
		Int("steps", steps).
		Msg("move")

	for step := 0; step < steps; step++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		nx, ny := p.state.X+stepX, p.state.Y+stepY
		sh, el, err := p.cfg.Geometry.Angles(nx, ny)
		if err != nil {
			return err
		}
		if err := p.setAngles(sh, el); err != nil {
			return err
		}
		p.state = State{X: nx, Y: ny, Shoulder: sh, Elbow: el}
		if step+1 < steps {
			p.sleep(time.Duration(dist * pace / float64(steps) * float64(time.Second)))
		}
	}
	p.sleep(time.Duration(dist * pace / 10 * float64(time.Second)))
	return nil
}

// PreStart returns a lead-in point half a unit from start, on the
// side away from end. Approaching a line from here takes up the
// backlash in the linkage before the pen goes down, so the start of
// the drawn line is not smeared by a direction change.
func PreStart(start, end paths.Vec2) paths.Vec2 {
	pre := start
	for i := 0; i < 2; i++ {
		switch d := start[i] - end[i]; {
		case d > 0:
			pre[i] += 0.5
		case d < 0:
			pre[i] -= 0.5
		}
	}
	return pre
}

// Park raises the pen, returns the arm to the parked position and
// stops driving the servos.
func (p *Plotter) Park(ctx context.Context) error {
	if err := p.cfg.Pen.Up(); err != nil {
		return err
	}
	px, py := p.cfg.Geometry.Parked()
	if err := p.MoveTo(ctx, px, py, 0.1, 10, false); err != nil {
		return err
	}
	p.sleep(time.Second)
	return p.Quiet()
}

// Quiet stops the pulses on all three channels, releasing the
// servos' torque.
func (p *Plotter) Quiet() error {
	for _, ch := range []int{p.cfg.ShoulderChannel, p.cfg.ElbowChannel, p.cfg.Pen.Channel()} {
		if err := p.cfg.Driver.Stop(ch); err != nil {
			return fmt.Errorf("stop channel %d: %w", ch, err)
		}
	}
	p.cfg.Log.Info().Msg("servos released")
	return nil
}

// ChannelReport is one servo's usage extremes for Report.
type ChannelReport struct {
	MinAngle, MaxAngle, MidAngle float64
	MinPW, MaxPW, MidPW          float64
}

// Report returns the extremes of the angles and pulse-widths each
// arm servo has been driven with this session, which is the raw
// material for building a calibration table. ok is false if no
// moves have happened yet.
func (p *Plotter) Report() (shoulder, elbow ChannelReport, ok bool) {
	if p.shoulderStats.n == 0 || p.elbowStats.n == 0 {
		return ChannelReport{}, ChannelReport{}, false
	}
	mk := func(cs channelStats) ChannelReport {
		return ChannelReport{
			MinAngle: cs.minAngle, MaxAngle: cs.maxAngle, MidAngle: (cs.minAngle + cs.maxAngle) / 2,
			MinPW: cs.minPW, MaxPW: cs.maxPW, MidPW: (cs.minPW + cs.maxPW) / 2,
		}
	}
	return mk(p.shoulderStats), mk(p.elbowStats), true
}
