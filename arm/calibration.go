package arm

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// A Calibration converts a servo angle (degrees) into the
// pulse-width (microseconds) that drives the servo to that angle.
type Calibration interface {
	PulseWidth(angle float64) float64
}

// Sample is one measured (angle, pulse-width) calibration point.
type Sample struct {
	Angle      float64
	PulseWidth float64
}

// Linear is the fallback calibration for an uncalibrated servo:
// a pulse-width at a reference angle, and a slope in microseconds
// per degree. The slope's sign differs between the two servos
// because the elbow servo is mounted mirrored.
type Linear struct {
	Reference float64 // angle at which the servo is at Zero
	Zero      float64 // pulse-width at the reference angle
	PerDegree float64 // microseconds per degree
}

// PulseWidth implements Calibration.
func (l Linear) PulseWidth(angle float64) float64 {
	return (angle-l.Reference)*l.PerDegree + l.Zero
}

// Cubic is a least-squares degree-3 polynomial fit through a table
// of calibration samples, for servos whose response is not linear
// enough for the naive model.
type Cubic struct {
	// coefficients, constant term first
	c [4]float64
}

// FitCubic fits a cubic polynomial through the given samples. At
// least 4 samples with distinct angles are required for a stable
// fit; fewer is a configuration error, not a silent downgrade to
// the linear model.
func FitCubic(samples []Sample) (*Cubic, error) {
	seen := map[float64]bool{}
	for _, s := range samples {
		if seen[s.Angle] {
			return nil, fmt.Errorf("duplicate calibration sample for angle %g", s.Angle)
		}
		seen[s.Angle] = true
	}
	if len(samples) < 4 {
		return nil, fmt.Errorf("cubic calibration needs at least 4 samples, got %d", len(samples))
	}

	n := len(samples)
	a := mat.NewDense(n, 4, nil)
	b := mat.NewVecDense(n, nil)
	for i, s := range samples {
		p := 1.0
		for j := 0; j < 4; j++ {
			a.Set(i, j, p)
			p *= s.Angle
		}
		b.SetVec(i, s.PulseWidth)
	}

	var qr mat.QR
	qr.Factorize(a)
	var x mat.VecDense
	if err := qr.SolveVecTo(&x, false, b); err != nil {
		return nil, fmt.Errorf("cubic calibration fit: %w", err)
	}
	var c Cubic
	for j := 0; j < 4; j++ {
		c.c[j] = x.AtVec(j)
	}
	return &c, nil
}

// PulseWidth implements Calibration.
func (c *Cubic) PulseWidth(angle float64) float64 {
	// Horner evaluation.
	return ((c.c[3]*angle+c.c[2])*angle+c.c[1])*angle + c.c[0]
}
