package servo

import (
	"fmt"
	"time"
)

// PenConfig configures the pen-lift servo.
type PenConfig struct {
	Channel    int
	Up, Down   float64       // pulse-widths for the two positions
	SettleTime time.Duration // how long a transition takes
}

// DefaultPenConfig is the conventional pen wiring: channel 18, up
// at 1500us, down at 1100us, quarter-second transitions.
var DefaultPenConfig = PenConfig{
	Channel:    18,
	Up:         1500,
	Down:       1100,
	SettleTime: 250 * time.Millisecond,
}

// Pen raises and lowers the pen through a driver channel. Up and
// Down block for the configured settle time before returning, so
// that drawing never starts while the pen is still in flight.
type Pen struct {
	d     Driver
	cfg   PenConfig
	sleep func(time.Duration)
	down  bool
}

// NewPen returns a pen on the given driver. It exercises the pen
// once (up, down, up) so a misconfigured channel fails here rather
// than mid-drawing.
func NewPen(d Driver, cfg PenConfig) (*Pen, error) {
	if err := CheckPulseWidth(cfg.Channel, cfg.Up); err != nil {
		return nil, fmt.Errorf("pen up position: %w", err)
	}
	if err := CheckPulseWidth(cfg.Channel, cfg.Down); err != nil {
		return nil, fmt.Errorf("pen down position: %w", err)
	}
	p := &Pen{d: d, cfg: cfg, sleep: time.Sleep, down: true}
	for _, f := range []func() error{p.Up, p.Down, p.Up} {
		if err := f(); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Up raises the pen, blocking until the transition has settled.
func (p *Pen) Up() error {
	if err := p.d.SetPulseWidth(p.cfg.Channel, p.cfg.Up); err != nil {
		return fmt.Errorf("raise pen: %w", err)
	}
	p.sleep(p.cfg.SettleTime)
	p.down = false
	return nil
}

// Down lowers the pen, blocking until the transition has settled.
func (p *Pen) Down() error {
	if err := p.d.SetPulseWidth(p.cfg.Channel, p.cfg.Down); err != nil {
		return fmt.Errorf("lower pen: %w", err)
	}
	p.sleep(p.cfg.SettleTime)
	p.down = true
	return nil
}

// IsDown reports whether the pen is lowered.
func (p *Pen) IsDown() bool {
	return p.down
}

// Channel returns the driver channel the pen is wired to.
func (p *Pen) Channel() int {
	return p.cfg.Channel
}
