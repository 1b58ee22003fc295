package arm

import (
	"math"
	"strings"
	"testing"
)

func TestLinearPulseWidth(t *testing.T) {
	cases := []struct {
		desc  string
		cal   Linear
		angle float64
		want  float64
	}{
		{"shoulder at reference", Linear{Reference: -90, Zero: 1500, PerDegree: -10}, -90, 1500},
		{"shoulder at zero degrees", Linear{Reference: -90, Zero: 1500, PerDegree: -10}, 0, 600},
		{"elbow at reference", Linear{Reference: 90, Zero: 1500, PerDegree: 10}, 90, 1500},
		{"elbow at zero degrees", Linear{Reference: 90, Zero: 1500, PerDegree: 10}, 0, 600},
		{"elbow at 120 degrees", Linear{Reference: 90, Zero: 1500, PerDegree: 10}, 120, 1800},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			if got := c.cal.PulseWidth(c.angle); math.Abs(got-c.want) > 1e-9 {
				t.Errorf("%+v.PulseWidth(%g) = %g, want %g", c.cal, c.angle, got, c.want)
			}
		})
	}
}

// TestFitCubicRecovers fits samples generated from a known cubic and
// checks the fit reproduces it, including between the samples.
func TestFitCubicRecovers(t *testing.T) {
	poly := func(a float64) float64 {
		return 1500 - 10*a + 0.02*a*a + 0.0005*a*a*a
	}
	var samples []Sample
	for a := -90.0; a <= 90; a += 30 {
		samples = append(samples, Sample{Angle: a, PulseWidth: poly(a)})
	}
	cal, err := FitCubic(samples)
	if err != nil {
		t.Fatalf("FitCubic: %v", err)
	}
	for a := -90.0; a <= 90; a += 7 {
		if got, want := cal.PulseWidth(a), poly(a); math.Abs(got-want) > 1e-6 {
			t.Errorf("PulseWidth(%g) = %g, want %g", a, got, want)
		}
	}
}

// With exactly 4 distinct samples the fit interpolates them exactly.
func TestFitCubicInterpolatesFourSamples(t *testing.T) {
	samples := []Sample{
		{-90, 2048}, {-30, 1550}, {30, 1010}, {90, 538},
	}
	cal, err := FitCubic(samples)
	if err != nil {
		t.Fatalf("FitCubic: %v", err)
	}
	for _, s := range samples {
		if got := cal.PulseWidth(s.Angle); math.Abs(got-s.PulseWidth) > 1e-6 {
			t.Errorf("PulseWidth(%g) = %g, want %g", s.Angle, got, s.PulseWidth)
		}
	}
}

// TestCalibrationMonotone checks that calibrations built from
// monotone data stay monotone over the servo's whole range, in the
// direction the data runs: increasing angles never double back to a
// pulse-width already passed.
func TestCalibrationMonotone(t *testing.T) {
	up := Linear{Reference: 90, Zero: 1500, PerDegree: 10}
	down := Linear{Reference: -90, Zero: 1500, PerDegree: -10}
	for a := -90.0; a < 90; a += 5 {
		if !(up.PulseWidth(a+5) > up.PulseWidth(a)) {
			t.Errorf("rising linear calibration not increasing at %g", a)
		}
		if !(down.PulseWidth(a+5) < down.PulseWidth(a)) {
			t.Errorf("falling linear calibration not decreasing at %g", a)
		}
	}

	// A measured table for a mirrored servo: strictly decreasing,
	// not quite linear.
	samples := []Sample{
		{-90, 2392}, {-60, 2088}, {-30, 1795}, {0, 1500},
		{30, 1202}, {60, 898}, {90, 600},
	}
	cal, err := FitCubic(samples)
	if err != nil {
		t.Fatalf("FitCubic: %v", err)
	}
	for a := -90.0; a < 90; a += 5 {
		if !(cal.PulseWidth(a+5) < cal.PulseWidth(a)) {
			t.Errorf("cubic fit of a decreasing table not decreasing at %g", a)
		}
	}
}

func TestFitCubicErrors(t *testing.T) {
	cases := []struct {
		desc    string
		samples []Sample
		wantSub string
	}{
		{
			"too few samples",
			[]Sample{{-90, 2000}, {0, 1500}, {90, 1000}},
			"at least 4 samples",
		},
		{
			"duplicate angle",
			[]Sample{{-90, 2000}, {-30, 1700}, {-30, 1710}, {30, 1300}, {90, 1000}},
			"duplicate",
		},
		{
			"no samples",
			nil,
			"at least 4 samples",
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			_, err := FitCubic(c.samples)
			if err == nil || !strings.Contains(err.Error(), c.wantSub) {
				t.Errorf("FitCubic = %v, want error containing %q", err, c.wantSub)
			}
		})
	}
}
