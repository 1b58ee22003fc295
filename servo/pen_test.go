package servo

import (
	"testing"
	"time"
)

func newTestPen(t *testing.T, d Driver, cfg PenConfig) (*Pen, *int) {
	t.Helper()
	p, err := NewPen(d, cfg)
	if err != nil {
		t.Fatalf("NewPen: %v", err)
	}
	sleeps := new(int)
	p.sleep = func(time.Duration) { *sleeps++ }
	return p, sleeps
}

func TestPen(t *testing.T) {
	s := NewSim()
	cfg := PenConfig{Channel: 18, Up: 1500, Down: 1100, SettleTime: time.Millisecond}
	p, sleeps := newTestPen(t, s, cfg)

	// NewPen exercises the pen up, down, up.
	want := []Command{{18, 1500}, {18, 1100}, {18, 1500}}
	if len(s.Trace) != len(want) {
		t.Fatalf("trace after NewPen = %v, want %v", s.Trace, want)
	}
	for i := range want {
		if s.Trace[i] != want[i] {
			t.Errorf("trace[%d] = %v, want %v", i, s.Trace[i], want[i])
		}
	}
	if p.IsDown() {
		t.Error("pen starts down, want up")
	}

	if err := p.Down(); err != nil {
		t.Fatalf("Down: %v", err)
	}
	if !p.IsDown() {
		t.Error("IsDown = false after Down")
	}
	if pw, _ := s.PulseWidth(18); pw != 1100 {
		t.Errorf("channel 18 pulse-width = %g, want 1100", pw)
	}

	if err := p.Up(); err != nil {
		t.Fatalf("Up: %v", err)
	}
	if p.IsDown() {
		t.Error("IsDown = true after Up")
	}
	if *sleeps != 2 {
		t.Errorf("slept %d times, want 2 (one per transition)", *sleeps)
	}
	if got := p.Channel(); got != 18 {
		t.Errorf("Channel = %d, want 18", got)
	}
}

func TestNewPenValidatesPositions(t *testing.T) {
	cases := []struct {
		desc string
		cfg  PenConfig
	}{
		{"up position too high", PenConfig{Channel: 18, Up: 2600, Down: 1100}},
		{"down position too low", PenConfig{Channel: 18, Up: 1500, Down: 400}},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			s := NewSim()
			if _, err := NewPen(s, c.cfg); err == nil {
				t.Error("NewPen succeeded, want error")
			}
			if len(s.Trace) != 0 {
				t.Errorf("trace = %v, want no commands", s.Trace)
			}
		})
	}
}
