package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/cjeanneret/SmoothServo/internal/config"
	"github.com/cjeanneret/SmoothServo/internal/debug"
	"github.com/cjeanneret/SmoothServo/internal/hw/gpio"
	"github.com/cjeanneret/SmoothServo/internal/hw/servo"
	"github.com/cjeanneret/SmoothServo/internal/logic/easing"
	"github.com/cjeanneret/SmoothServo/internal/logic/motion"
	"github.com/cjeanneret/SmoothServo/internal/logic/script"
)

// Upper bounds for CLI overrides.
const (
	maxTimeMs = 10 * 60 * 1000
	maxTickMs = 10 * 1000
)

// overrides holds values given on the command line. Zero values mean "use config default".
type overrides struct {
	Curve  string
	TimeMs int
	TickMs int
}

func main() {
	// CLI flags
	cfgPath := flag.String("config", filepath.Join("configs", "default.yaml"), "path to config file")
	list := flag.Bool("list", false, "list the available curves and exit")
	curve := flag.String("curve", "", "override the default curve (name or alias, see -list)")
	value := flag.Int("value", 0, "target position; with -print/-describe the curve end value, otherwise a single move on -axis")
	timeMs := flag.Int("time_ms", 0, "override the move duration in milliseconds")
	start := flag.Int("start", 0, "start value for -print/-describe (hardware moves start from the current position)")
	tickMs := flag.Int("tick_ms", 0, "override the interval between two positions in milliseconds")
	axis := flag.String("axis", string(motion.Pan), "axis for a single move: pan or tilt")
	printSeq := flag.Bool("print", false, "print the generated positions without touching hardware")
	describe := flag.Bool("describe", false, "print profile statistics of the generated positions")
	run := flag.Bool("run", false, "play the moves listed in the config file")
	flag.Parse()

	if *list {
		listCurves(os.Stdout)
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Load configuration
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	// Validate CLI overrides (only non-zero values are applied; zero means "use config default")
	o := overrides{Curve: *curve, TimeMs: *timeMs, TickMs: *tickMs}
	if err := validateCLIOverrides(o); err != nil {
		log.Fatalf("invalid CLI override: %v", err)
	}
	if *value < 0 {
		log.Fatalf("invalid CLI override: value must be >= 0, got %d", *value)
	}

	// Apply CLI overrides to config
	applyOverrides(cfg, o)

	// Initialize debug system
	debug.Init(cfg.Defaults.DebugLevel)
	debug.Section("Initialization")
	debug.Value("Config path", *cfgPath)
	debug.Value("Debug level", debug.Level())
	debug.PrintStruct("Motion defaults", cfg.Motion)

	if *printSeq || *describe {
		c, err := easing.New(cfg.Motion.Curve, *value, cfg.Motion.TimeMs, *start)
		if err != nil {
			log.Fatalf("build curve failed: %v", err)
		}
		if *printSeq {
			printSequence(os.Stdout, c, cfg.Motion.TickMs)
		}
		if *describe {
			describeCurve(os.Stdout, c, cfg.Motion.TickMs)
		}
		return
	}

	if *value == 0 && !*run {
		fmt.Fprintln(os.Stderr, "nothing to do: use -value, -run, -print, -describe or -list")
		flag.Usage()
		os.Exit(2)
	}

	// Initialize GPIO driver
	debug.Value("Mock GPIO", cfg.Defaults.MockGPIO)
	debug.Step(1, "Initializing GPIO driver")
	gpioDriver, err := gpio.NewDriver(cfg.Defaults.MockGPIO)
	if err != nil {
		log.Fatalf("init GPIO failed: %v", err)
	}
	defer func() {
		if err := gpioDriver.Close(); err != nil {
			log.Printf("closing GPIO driver failed: %v", err)
		}
	}()

	// Initialize servos
	debug.Step(2, "Initializing servos")
	panServo, err := newServoFromConfig(gpioDriver, cfg.PanServo)
	if err != nil {
		log.Fatalf("init pan servo failed: %v", err)
	}
	debug.PrintStruct("Pan servo config", cfg.PanServo)
	tiltServo, err := newServoFromConfig(gpioDriver, cfg.TiltServo)
	if err != nil {
		log.Fatalf("init tilt servo failed: %v", err)
	}
	if tiltServo != nil {
		debug.PrintStruct("Tilt servo config", cfg.TiltServo)
	}

	debug.Step(3, "Homing servos")
	ctrl := motion.NewController(panServo, tiltServo, motion.NewPlanner(0))
	if err := ctrl.Home(); err != nil {
		log.Fatalf("home servos failed: %v", err)
	}

	if *value > 0 {
		err = executeMove(ctx, cfg, ctrl, motion.Axis(*axis), *value)
	} else {
		err = executeScript(ctx, cfg, ctrl)
	}
	if err != nil {
		log.Fatalf("move failed: %v", err)
	}
}

// executeMove performs one eased move with the motion defaults.
func executeMove(ctx context.Context, cfg *config.Config, ctrl *motion.Controller, axis motion.Axis, target int) error {
	debug.Step(4, fmt.Sprintf("Moving %s to %d", axis, target))
	if err := ctrl.EnableMotors(); err != nil {
		return fmt.Errorf("enable servos: %w", err)
	}
	return ctrl.Move(ctx, axis, motion.MoveParams{
		Curve:    cfg.Motion.Curve,
		Target:   target,
		Duration: cfg.MoveDuration(),
		Tick:     cfg.Tick(),
	})
}

// executeScript plays the configured moves.
func executeScript(ctx context.Context, cfg *config.Config, ctrl *motion.Controller) error {
	steps := scriptSteps(cfg)
	if len(steps) == 0 {
		debug.Info("No moves configured, nothing to play")
		return nil
	}

	debug.Step(4, "Playing script")
	debug.Summary("Script Summary")
	debug.Value("Moves", len(steps))
	debug.Value("Repeat", cfg.Motion.Repeat)
	debug.Value("Tick", cfg.Tick())
	debug.Value("Dwell", cfg.Dwell())

	runner := script.NewRunner(ctrl)
	err := runner.Run(ctx, script.Params{
		Steps:  steps,
		Tick:   cfg.Tick(),
		Dwell:  cfg.Dwell(),
		Repeat: cfg.Motion.Repeat,
	})
	if err != nil {
		return err
	}

	debug.Section("Script Complete")
	return nil
}

// scriptSteps converts the configured moves into runner steps.
func scriptSteps(cfg *config.Config) []script.Step {
	steps := make([]script.Step, 0, len(cfg.Moves))
	for _, m := range cfg.Moves {
		steps = append(steps, script.Step{
			Axis:     motion.Axis(m.Axis),
			Target:   m.Target,
			Curve:    m.Kind(),
			Duration: m.Duration(),
		})
	}
	return steps
}

// validateCLIOverrides checks that non-zero CLI overrides are within valid ranges.
// Zero values are ignored (they mean "use config default").
func validateCLIOverrides(o overrides) error {
	if o.Curve != "" {
		if _, err := easing.ParseKind(o.Curve); err != nil {
			return err
		}
	}
	if o.TimeMs < 0 || o.TimeMs > maxTimeMs {
		return fmt.Errorf("time_ms must be between 0 (default) and %d, got %d", maxTimeMs, o.TimeMs)
	}
	if o.TickMs < 0 || o.TickMs > maxTickMs {
		return fmt.Errorf("tick_ms must be between 0 (default) and %d, got %d", maxTickMs, o.TickMs)
	}
	return nil
}

// applyOverrides mutates cfg with overrides. Only non-zero override values are applied.
func applyOverrides(cfg *config.Config, o overrides) {
	if k, err := easing.ParseKind(o.Curve); o.Curve != "" && err == nil {
		cfg.Motion.Curve = k
	}
	if o.TimeMs > 0 {
		cfg.Motion.TimeMs = o.TimeMs
	}
	if o.TickMs > 0 {
		cfg.Motion.TickMs = o.TickMs
	}
}

// newServoFromConfig builds the servo of one axis, or returns nil when the axis is not wired.
func newServoFromConfig(g gpio.Driver, sc config.ServoConfig) (*servo.Servo, error) {
	if !sc.Configured() {
		return nil, nil
	}
	return servo.NewServo(g, servo.Config{
		PWMPin:      sc.PWMPin,
		EnablePin:   sc.EnablePin,
		FrequencyHz: sc.FrequencyHz,
		MinPulseUs:  sc.MinPulseUs,
		MaxPulseUs:  sc.MaxPulseUs,
		Range:       sc.Range,
		Home:        sc.HomePosition(),
	})
}

func listCurves(w io.Writer) {
	for _, k := range easing.Kinds() {
		fmt.Fprintf(w, "%-20s %s\n", k, k.Alias())
	}
}

// printSequence writes one position per line.
func printSequence(w io.Writer, c *easing.Curve, tickMs int) {
	for v := range c.Values(tickMs) {
		fmt.Fprintln(w, v)
	}
}

func describeCurve(w io.Writer, c *easing.Curve, tickMs int) {
	p := c.Params()
	prof := c.Profile(tickMs)
	fmt.Fprintf(w, "curve:      %s\n", c.Kind())
	fmt.Fprintf(w, "move:       %d -> %d in %v, tick %v\n", p.StartValue, p.Value,
		time.Duration(p.TimeMs)*time.Millisecond, time.Duration(tickMs)*time.Millisecond)
	fmt.Fprintf(w, "samples:    %d\n", prof.Samples)
	fmt.Fprintf(w, "min/max:    %d / %d\n", prof.Min, prof.Max)
	fmt.Fprintf(w, "mean:       %.2f\n", prof.Mean)
	fmt.Fprintf(w, "max jump:   %d\n", prof.MaxJump)
	fmt.Fprintf(w, "undershoot: %d\n", prof.Undershoot)
	fmt.Fprintf(w, "overshoot:  %d\n", prof.Overshoot)
}
