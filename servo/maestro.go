package servo

import (
	"fmt"
	"io"
)

// Pololu Maestro compact-protocol command bytes.
// See https://www.pololu.com/docs/pdf/0J40/maestro.pdf
const (
	maestroSetTarget   = 0x84
	maestroGetPosition = 0x90
)

// Maestro is a Driver backed by a Pololu Maestro servo controller
// on a serial port (compact protocol, single device on the bus).
// Maestro targets are in quarter-microseconds; the conversion is
// internal, channels speak microseconds like every other backend.
type Maestro struct {
	port io.ReadWriter
}

// NewMaestro returns a driver that speaks to a Maestro over port,
// typically a *serial.Port from github.com/tarm/serial.
func NewMaestro(port io.ReadWriter) *Maestro {
	return &Maestro{port: port}
}

func maestroLo(x uint16) byte {
	return byte(x & 0x7f)
}

func maestroHi(x uint16) byte {
	return byte((x >> 7) & 0x7f)
}

func (m *Maestro) setTarget(channel int, quarterUS uint16) error {
	cmd := []byte{maestroSetTarget, byte(channel), maestroLo(quarterUS), maestroHi(quarterUS)}
	if _, err := m.port.Write(cmd); err != nil {
		return fmt.Errorf("maestro set target: %w", err)
	}
	return nil
}

// SetPulseWidth implements Driver.
func (m *Maestro) SetPulseWidth(channel int, us float64) error {
	if err := CheckPulseWidth(channel, us); err != nil {
		return err
	}
	return m.setTarget(channel, uint16(us*4))
}

// PulseWidth implements Driver. The Maestro reports the position it
// is currently commanding, in quarter-microseconds.
func (m *Maestro) PulseWidth(channel int) (float64, error) {
	cmd := []byte{maestroGetPosition, byte(channel)}
	if _, err := m.port.Write(cmd); err != nil {
		return 0, fmt.Errorf("maestro get position: %w", err)
	}
	buf := make([]byte, 2)
	if _, err := io.ReadFull(m.port, buf); err != nil {
		return 0, fmt.Errorf("maestro get position: %w", err)
	}
	quarterUS := uint16(buf[0]) | uint16(buf[1])<<8
	return float64(quarterUS) / 4, nil
}

// SetFrequency implements Driver. The Maestro's servo period is
// fixed by its firmware configuration, so there is nothing to set.
func (m *Maestro) SetFrequency(channel, hz int) error {
	return nil
}

// Stop implements Driver. A zero target stops the pulses on the
// channel.
func (m *Maestro) Stop(channel int) error {
	return m.setTarget(channel, 0)
}
