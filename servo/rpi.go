package servo

import (
	"fmt"

	"github.com/stianeikeland/go-rpio/v4"
)

// pwmCycle is the number of divisions of one PWM period. With the
// pin clocked at hz*pwmCycle, one duty unit is one microsecond at
// 50Hz (20000us period).
const pwmCycle = 20000

// Raspberry Pi pins with hardware PWM support (BCM numbering).
// 12/18 and 13/19 share the two PWM channels.
var rpiPWMPins = map[int]bool{
	12: true,
	13: true,
	18: true,
	19: true,
}

// RPi is a Driver backed by the Raspberry Pi's hardware PWM pins,
// for servos wired directly to the Pi's header. The channel numbers
// are BCM pin numbers. The caller is responsible for rpio.Open and
// rpio.Close.
type RPi struct {
	hz   map[int]int
	pw   map[int]float64
	pins map[int]rpio.Pin
}

// NewRPi returns a driver for the given BCM pins.
func NewRPi(pins ...int) (*RPi, error) {
	r := &RPi{
		hz:   map[int]int{},
		pw:   map[int]float64{},
		pins: map[int]rpio.Pin{},
	}
	for _, p := range pins {
		if !rpiPWMPins[p] {
			return nil, fmt.Errorf("pin %d has no hardware PWM", p)
		}
		pin := rpio.Pin(p)
		pin.Mode(rpio.Pwm)
		r.pins[p] = pin
	}
	return r, nil
}

func (r *RPi) pin(channel int) (rpio.Pin, error) {
	pin, ok := r.pins[channel]
	if !ok {
		return 0, fmt.Errorf("channel %d not configured", channel)
	}
	return pin, nil
}

// SetPulseWidth implements Driver.
func (r *RPi) SetPulseWidth(channel int, us float64) error {
	if err := CheckPulseWidth(channel, us); err != nil {
		return err
	}
	pin, err := r.pin(channel)
	if err != nil {
		return err
	}
	hz := r.hz[channel]
	if hz == 0 {
		return fmt.Errorf("channel %d has no frequency set", channel)
	}
	// Scale the microsecond pulse-width into duty units of the
	// channel's actual period.
	period := 1e6 / float64(hz)
	duty := uint32(us / period * pwmCycle)
	pin.DutyCycle(duty, pwmCycle)
	r.pw[channel] = us
	return nil
}

// PulseWidth implements Driver.
func (r *RPi) PulseWidth(channel int) (float64, error) {
	if _, err := r.pin(channel); err != nil {
		return 0, err
	}
	return r.pw[channel], nil
}

// SetFrequency implements Driver.
func (r *RPi) SetFrequency(channel, hz int) error {
	pin, err := r.pin(channel)
	if err != nil {
		return err
	}
	if hz <= 0 {
		return fmt.Errorf("bad frequency %dHz for channel %d", hz, channel)
	}
	pin.Freq(hz * pwmCycle)
	r.hz[channel] = hz
	return nil
}

// Stop implements Driver.
func (r *RPi) Stop(channel int) error {
	pin, err := r.pin(channel)
	if err != nil {
		return err
	}
	pin.DutyCycle(0, pwmCycle)
	r.pw[channel] = 0
	return nil
}
