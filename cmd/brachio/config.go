package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/paulhankin/brachio/arm"
	"github.com/paulhankin/brachio/paths"
)

// MachineConfig is the JSON machine profile: the arm geometry,
// wiring, calibration and safe drawing area of one physical
// plotter.
type MachineConfig struct {
	InnerArm float64 `json:"inner_arm"`
	OuterArm float64 `json:"outer_arm"`

	// Bounds is the safe drawing rectangle minx, miny, maxx, maxy.
	Bounds *[4]float64 `json:"bounds,omitempty"`

	// Driver selects the backend: "sim", "rpi" or "maestro".
	Driver string `json:"driver,omitempty"`
	// Port is the serial device for the maestro driver.
	Port string `json:"port,omitempty"`

	ShoulderChannel int `json:"shoulder_channel"`
	ElbowChannel    int `json:"elbow_channel"`
	PenChannel      int `json:"pen_channel"`

	// Measured (angle, pulse-width) samples per servo. With 4 or
	// more samples a cubic calibration is fitted; with none, the
	// linear fallback below is used.
	ShoulderSamples [][2]float64 `json:"shoulder_samples,omitempty"`
	ElbowSamples    [][2]float64 `json:"elbow_samples,omitempty"`

	ShoulderZero   float64 `json:"shoulder_zero,omitempty"`
	ShoulderPerDeg float64 `json:"shoulder_degree_us,omitempty"`
	ElbowZero      float64 `json:"elbow_zero,omitempty"`
	ElbowPerDeg    float64 `json:"elbow_degree_us,omitempty"`

	PenUp   float64 `json:"pen_up,omitempty"`
	PenDown float64 `json:"pen_down,omitempty"`
}

// defaultConfig is a simulated 8cm/8cm arm, wired like a Maestro:
// shoulder, elbow and pen on channels 0, 1 and 2.
func defaultConfig() *MachineConfig {
	cfg := &MachineConfig{
		InnerArm:        8,
		OuterArm:        8,
		Bounds:          &[4]float64{-8, 4, 6, 13},
		Driver:          "sim",
		ShoulderChannel: 0,
		ElbowChannel:    1,
		PenChannel:      2,
	}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *MachineConfig) {
	if cfg.Driver == "" {
		cfg.Driver = "sim"
	}
	if cfg.ShoulderZero == 0 {
		cfg.ShoulderZero = 1500
	}
	if cfg.ShoulderPerDeg == 0 {
		// negative: the shoulder servo is mounted mirrored
		cfg.ShoulderPerDeg = -10
	}
	if cfg.ElbowZero == 0 {
		cfg.ElbowZero = 1500
	}
	if cfg.ElbowPerDeg == 0 {
		cfg.ElbowPerDeg = 10
	}
	if cfg.PenUp == 0 {
		cfg.PenUp = 1500
	}
	if cfg.PenDown == 0 {
		cfg.PenDown = 1100
	}
}

// loadConfig reads a machine profile, filling in defaults for
// anything unset.
func loadConfig(name string) (*MachineConfig, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read machine profile: %w", err)
	}
	cfg := &MachineConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse machine profile: %w", err)
	}
	if cfg.InnerArm <= 0 || cfg.OuterArm <= 0 {
		return nil, fmt.Errorf("machine profile needs positive inner_arm and outer_arm")
	}
	applyDefaults(cfg)
	return cfg, nil
}

func (cfg *MachineConfig) bounds() *paths.Bounds {
	if cfg.Bounds == nil {
		return nil
	}
	b := cfg.Bounds
	return &paths.Bounds{
		Min: paths.Vec2{b[0], b[1]},
		Max: paths.Vec2{b[2], b[3]},
	}
}

// calibration builds one servo's calibration: a cubic fit when
// samples are given, the linear fallback otherwise.
func calibration(samples [][2]float64, reference, zero, perDeg float64) (arm.Calibration, error) {
	if len(samples) == 0 {
		return arm.Linear{Reference: reference, Zero: zero, PerDegree: perDeg}, nil
	}
	ss := make([]arm.Sample, 0, len(samples))
	for _, s := range samples {
		ss = append(ss, arm.Sample{Angle: s[0], PulseWidth: s[1]})
	}
	return arm.FitCubic(ss)
}
