// Package servo drives RC servos through interchangeable backends:
// real hardware (Raspberry Pi PWM pins, or a Pololu Maestro servo
// controller on a serial port) or a simulator.
package servo

import "fmt"

// Pulse-widths outside this band can drive a servo past its
// mechanical stops.
const (
	MinPulseWidth = 500
	MaxPulseWidth = 2500
)

// Driver drives servo channels with microsecond pulse-widths.
// Implementations are not safe for concurrent use; the motion
// engine is the only writer.
type Driver interface {
	// SetPulseWidth drives the channel's servo with the given
	// pulse-width in microseconds.
	SetPulseWidth(channel int, us float64) error
	// PulseWidth reports the pulse-width the channel is currently
	// driven with (0 if stopped).
	PulseWidth(channel int) (float64, error)
	// SetFrequency sets the channel's pulse frequency in Hz.
	SetFrequency(channel int, hz int) error
	// Stop stops driving the channel (zero pulse-width), releasing
	// the servo's torque.
	Stop(channel int) error
}

// PulseWidthError reports an attempt to drive a channel with a
// pulse-width outside the safe band. It is returned before
// anything is written to the hardware; pulse-widths are never
// clamped.
type PulseWidthError struct {
	Channel    int
	PulseWidth float64
}

func (e *PulseWidthError) Error() string {
	return fmt.Sprintf("pulse-width %g out of safe range %d..%d on channel %d",
		e.PulseWidth, MinPulseWidth, MaxPulseWidth, e.Channel)
}

// CheckPulseWidth fails with a *PulseWidthError if us is outside
// the safe band.
func CheckPulseWidth(channel int, us float64) error {
	if us < MinPulseWidth || us > MaxPulseWidth {
		return &PulseWidthError{Channel: channel, PulseWidth: us}
	}
	return nil
}
