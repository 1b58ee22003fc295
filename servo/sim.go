package servo

import "fmt"

// A Command is one recorded simulator action.
type Command struct {
	Channel    int
	PulseWidth float64 // 0 for a stop
}

// Sim is a simulated Driver for running without hardware. It
// remembers the pulse-width of every channel and records every
// command issued, which the tests use to observe motion.
type Sim struct {
	pw    map[int]float64
	Trace []Command
}

// NewSim returns a simulator with all channels stopped.
func NewSim() *Sim {
	return &Sim{pw: map[int]float64{}}
}

// SetPulseWidth implements Driver. Like the real backends, it
// refuses pulse-widths outside the safe band.
func (s *Sim) SetPulseWidth(channel int, us float64) error {
	if err := CheckPulseWidth(channel, us); err != nil {
		return err
	}
	s.pw[channel] = us
	s.Trace = append(s.Trace, Command{Channel: channel, PulseWidth: us})
	return nil
}

// PulseWidth implements Driver.
func (s *Sim) PulseWidth(channel int) (float64, error) {
	return s.pw[channel], nil
}

// SetFrequency implements Driver. The simulator has no timing, so
// this only validates the frequency.
func (s *Sim) SetFrequency(channel, hz int) error {
	if hz <= 0 {
		return fmt.Errorf("bad frequency %dHz for channel %d", hz, channel)
	}
	return nil
}

// Stop implements Driver.
func (s *Sim) Stop(channel int) error {
	s.pw[channel] = 0
	s.Trace = append(s.Trace, Command{Channel: channel})
	return nil
}
