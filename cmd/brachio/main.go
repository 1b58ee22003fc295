// Command brachio plots line drawings on a two-servo pantograph
// plotter. It loads a machine profile describing the arm, fits a
// drawing (SVG or JSON lines format) into the machine's safe
// drawing area, and plots it; or draws one of the built-in test
// patterns used for calibration.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/stianeikeland/go-rpio/v4"
	"github.com/tarm/serial"

	"github.com/paulhankin/brachio/arm"
	"github.com/paulhankin/brachio/paths"
	"github.com/paulhankin/brachio/plotter"
	"github.com/paulhankin/brachio/servo"
)

var (
	flagConfig  string
	flagSim     bool
	flagIn      string
	flagPreview string

	flagBox     bool
	flagPattern bool
	flagVLines  int
	flagHLines  int
	flagCentre  bool
	flagRepeat  int
	flagReverse bool

	flagPace     float64
	flagDensity  float64
	flagSimplify float64
	flagSort     bool
	flagPreStart bool
	flagContinue bool
	flagReport   bool
	flagVerbose  bool
)

func init() {
	flag.StringVar(&flagConfig, "config", "", "machine profile (json); built-in simulated 8cm arm if unset")
	flag.BoolVar(&flagSim, "sim", false, "use the simulated driver regardless of the profile")
	flag.StringVar(&flagIn, "in", "", "drawing to plot (.json lines file, or svg)")
	flag.StringVar(&flagPreview, "preview", "", "don't plot; write the fitted drawing to this svg file")

	flag.BoolVar(&flagBox, "box", false, "draw the outline of the drawing bounds")
	flag.BoolVar(&flagPattern, "pattern", false, "draw a raster test pattern over the bounds")
	flag.IntVar(&flagVLines, "vlines", 0, "draw this many vertical rules over the bounds")
	flag.IntVar(&flagHLines, "hlines", 0, "draw this many horizontal rules over the bounds")
	flag.BoolVar(&flagCentre, "centre", false, "move to the centre of the bounds and release")
	flag.IntVar(&flagRepeat, "repeat", 1, "how many times to repeat the test pattern")
	flag.BoolVar(&flagReverse, "reverse", false, "draw test patterns in the reverse direction")

	flag.Float64Var(&flagPace, "pace", 0.1, "seconds of travel time per drawing unit")
	flag.Float64Var(&flagDensity, "density", 10, "interpolation steps per drawing unit")
	flag.Float64Var(&flagSimplify, "simplify", 0, "drop points within this tolerance of the drawn line (0 to disable)")
	flag.BoolVar(&flagSort, "sort", false, "reorder lines to reduce pen-up travel")
	flag.BoolVar(&flagPreStart, "prestart", false, "approach each line through a lead-in point")
	flag.BoolVar(&flagContinue, "continue", false, "keep plotting remaining lines when one fails")
	flag.BoolVar(&flagReport, "report", false, "print angle/pulse-width usage after plotting")
	flag.BoolVar(&flagVerbose, "v", false, "log every interpolated move")
}

// openDriver builds the servo driver the profile asks for, and
// returns a cleanup function for whatever hardware was claimed.
func openDriver(cfg *MachineConfig) (servo.Driver, func(), error) {
	if flagSim {
		return servo.NewSim(), func() {}, nil
	}
	switch cfg.Driver {
	case "sim":
		return servo.NewSim(), func() {}, nil
	case "rpi":
		if err := rpio.Open(); err != nil {
			return nil, nil, fmt.Errorf("open gpio: %w", err)
		}
		d, err := servo.NewRPi(cfg.ShoulderChannel, cfg.ElbowChannel, cfg.PenChannel)
		if err != nil {
			rpio.Close()
			return nil, nil, err
		}
		return d, func() { rpio.Close() }, nil
	case "maestro":
		port, err := serial.OpenPort(&serial.Config{Name: cfg.Port, Baud: 9600})
		if err != nil {
			return nil, nil, fmt.Errorf("open %s: %w", cfg.Port, err)
		}
		return servo.NewMaestro(port), func() { port.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown driver %q", cfg.Driver)
	}
}

func preview(cfg *MachineConfig) error {
	if flagIn == "" {
		return fmt.Errorf("must specify -in with -preview")
	}
	b := cfg.bounds()
	if b == nil {
		return plotter.ErrNoBounds
	}
	f, err := os.Open(flagIn)
	if err != nil {
		return err
	}
	defer f.Close()
	var ps *paths.Paths
	if filepath.Ext(flagIn) == ".json" {
		ps, err = paths.FromJSON(f)
	} else {
		ps, err = paths.FromSVGFull(f, 1)
	}
	if err != nil {
		return err
	}
	if err := ps.Fit(*b, false); err != nil {
		return err
	}
	out, err := os.Create(flagPreview)
	if err != nil {
		return err
	}
	if err := ps.SVG(out); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func run(log zerolog.Logger) error {
	cfg := defaultConfig()
	if flagConfig != "" {
		var err error
		cfg, err = loadConfig(flagConfig)
		if err != nil {
			return err
		}
	}

	if flagPreview != "" {
		return preview(cfg)
	}

	shoulder, err := calibration(cfg.ShoulderSamples, -90, cfg.ShoulderZero, cfg.ShoulderPerDeg)
	if err != nil {
		return fmt.Errorf("shoulder calibration: %w", err)
	}
	elbow, err := calibration(cfg.ElbowSamples, 90, cfg.ElbowZero, cfg.ElbowPerDeg)
	if err != nil {
		return fmt.Errorf("elbow calibration: %w", err)
	}

	driver, closeDriver, err := openDriver(cfg)
	if err != nil {
		return err
	}
	defer closeDriver()

	penCfg := servo.DefaultPenConfig
	penCfg.Channel = cfg.PenChannel
	penCfg.Up = cfg.PenUp
	penCfg.Down = cfg.PenDown
	pen, err := servo.NewPen(driver, penCfg)
	if err != nil {
		return err
	}

	p, err := plotter.New(&plotter.Config{
		Geometry:        arm.Geometry{Inner: cfg.InnerArm, Outer: cfg.OuterArm},
		Bounds:          cfg.bounds(),
		Shoulder:        shoulder,
		Elbow:           elbow,
		ShoulderChannel: cfg.ShoulderChannel,
		ElbowChannel:    cfg.ElbowChannel,
		Driver:          driver,
		Pen:             pen,
		Log:             log,
	})
	if err != nil {
		return err
	}

	// Interrupt stops the motion between steps; the arm is still
	// parked before exit.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := plotter.PlotOptions{
		Pace:            flagPace,
		Density:         flagDensity,
		Simplify:        flagSimplify,
		Sort:            flagSort,
		PreStart:        flagPreStart,
		ContinueOnError: flagContinue,
	}

	switch {
	case flagIn != "":
		err = p.PlotFile(ctx, flagIn, opts)
	case flagBox:
		err = p.Box(ctx, flagRepeat, flagReverse, opts)
	case flagPattern:
		err = p.TestPattern(ctx, flagRepeat, opts)
	case flagVLines > 0:
		err = p.VerticalLines(ctx, flagVLines, flagReverse, opts)
	case flagHLines > 0:
		err = p.HorizontalLines(ctx, flagHLines, flagReverse, opts)
	case flagCentre:
		err = p.Centre(ctx, opts)
	default:
		return fmt.Errorf("nothing to do: specify -in, -box, -pattern, -vlines, -hlines or -centre")
	}
	if err != nil {
		return err
	}

	if flagReport {
		sh, el, ok := p.Report()
		if !ok {
			fmt.Println("no movement recorded")
		} else {
			fmt.Printf("              shoulder                 elbow\n")
			fmt.Printf("              min    max    mid        min    max    mid\n")
			fmt.Printf("angles       %5.0f  %5.0f  %5.0f      %5.0f  %5.0f  %5.0f\n",
				sh.MinAngle, sh.MaxAngle, sh.MidAngle, el.MinAngle, el.MaxAngle, el.MidAngle)
			fmt.Printf("pulse-widths %5.0f  %5.0f  %5.0f      %5.0f  %5.0f  %5.0f\n",
				sh.MinPW, sh.MaxPW, sh.MidPW, el.MinPW, el.MaxPW, el.MidPW)
		}
	}
	return nil
}

func main() {
	flag.Parse()
	level := zerolog.InfoLevel
	if flagVerbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).With().Timestamp().Logger()

	if err := run(log); err != nil {
		log.Error().Err(err).Msg("brachio failed")
		os.Exit(1)
	}
}
