package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cjeanneret/SmoothServo/internal/logic/easing"
)

// ---------- ValidateConfigPath ----------

func TestValidateConfigPath(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "configs")
	if err := os.Mkdir(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"valid", filepath.Join(cfgDir, "default.yaml"), false},
		{"relative", "configs/servo.yaml", false},
		{"space", filepath.Join(cfgDir, "pan tilt.yaml"), false},
		{"unicode", filepath.Join(cfgDir, "caméra.yaml"), false},
		{"empty", "", true},
		{"traversal", "../../etc/passwd", true},
		{"traversal_inside", "configs/../../../etc/shadow", true},
		{"yml", "configs/default.yml", true},
		{"json", "configs/default.json", true},
		{"no_extension", "configs/default", true},
		{"other_dir", "other/default.yaml", true},
		{"bare_file", "default.yaml", true},
		{"absolute_other", "/tmp/default.yaml", true},
		{"nested", "configs/sub/default.yaml", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateConfigPath(tc.path)
			if tc.wantErr && err == nil {
				t.Errorf("ValidateConfigPath(%q) = nil, want error", tc.path)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("ValidateConfigPath(%q) unexpected error: %v", tc.path, err)
			}
		})
	}
}

func TestValidateConfigPath_VeryLongPath(t *testing.T) {
	long := "configs/" + strings.Repeat("a", 1000) + ".yaml"
	// Only checks the path shape, so length does not matter.
	if err := ValidateConfigPath(long); err != nil {
		t.Errorf("unexpected error for long path: %v", err)
	}
}

// ---------- Load ----------

// writeConfig creates a temporary configs/ dir with the given YAML content and returns the path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "configs")
	if err := os.Mkdir(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(cfgDir, "test.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const validYAML = `
pan_servo:
  pwm_pin: 18
  enable_pin: 5
  frequency_hz: 50
  min_pulse_us: 600
  max_pulse_us: 2400
  range: 180
  home: 90
tilt_servo:
  pwm_pin: 13
  range: 120
motion:
  curve: ease_in_out_quad
  time_ms: 1500
  tick_ms: 20
  dwell_ms: 250
  repeat: 2
moves:
  - axis: pan
    target: 150
    curve: ease_out_back
    time_ms: 800
  - axis: tilt
    target: 30
defaults:
  debug_level: 0
  mock_gpio: true
`

func TestLoad_ValidFullConfig(t *testing.T) {
	path := writeConfig(t, validYAML)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.PanServo.PWMPin != 18 {
		t.Errorf("pan_servo.pwm_pin = %d, want 18", cfg.PanServo.PWMPin)
	}
	if cfg.PanServo.MinPulseUs != 600 || cfg.PanServo.MaxPulseUs != 2400 {
		t.Errorf("pan_servo pulses = %d-%d, want 600-2400", cfg.PanServo.MinPulseUs, cfg.PanServo.MaxPulseUs)
	}
	if cfg.PanServo.HomePosition() != 90 {
		t.Errorf("pan_servo.home = %d, want 90", cfg.PanServo.HomePosition())
	}
	if !cfg.TiltServo.Configured() {
		t.Fatal("tilt_servo should be configured")
	}
	if cfg.TiltServo.HomePosition() != 60 {
		t.Errorf("tilt_servo.home default = %d, want 60 (range/2)", cfg.TiltServo.HomePosition())
	}
	if cfg.Motion.Curve != easing.EaseInOutQuad {
		t.Errorf("motion.curve = %v, want ease_in_out_quad", cfg.Motion.Curve)
	}
	if cfg.Motion.Repeat != 2 {
		t.Errorf("motion.repeat = %d, want 2", cfg.Motion.Repeat)
	}
	if len(cfg.Moves) != 2 {
		t.Fatalf("len(moves) = %d, want 2", len(cfg.Moves))
	}
	if cfg.Moves[0].Kind() != easing.EaseOutBack || cfg.Moves[0].TimeMs != 800 {
		t.Errorf("moves[0] = %+v, want ease_out_back 800ms", cfg.Moves[0])
	}
	// Second move inherits the motion defaults.
	if cfg.Moves[1].Kind() != easing.EaseInOutQuad || cfg.Moves[1].TimeMs != 1500 {
		t.Errorf("moves[1] = %s %dms, want ease_in_out_quad 1500ms", cfg.Moves[1].Kind(), cfg.Moves[1].TimeMs)
	}
}

func TestLoad_MissingPanServo(t *testing.T) {
	yaml := `
motion:
  time_ms: 1000
`
	path := writeConfig(t, yaml)
	_, err := Load(path)
	if err == nil {
		t.Error("expected error for missing pan_servo.pwm_pin, got nil")
	}
}

func TestLoad_InvalidPulseRange(t *testing.T) {
	yaml := `
pan_servo:
  pwm_pin: 18
  min_pulse_us: 2000
  max_pulse_us: 1000
`
	path := writeConfig(t, yaml)
	_, err := Load(path)
	if err == nil {
		t.Error("expected error for min_pulse_us >= max_pulse_us, got nil")
	}
}

func TestLoad_HomeOutOfRange(t *testing.T) {
	cases := []struct {
		name string
		home int
	}{
		{"negative", -1},
		{"over_range", 181},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			yaml := `
pan_servo:
  pwm_pin: 18
  home: ` + fmt.Sprint(tc.home)
			path := writeConfig(t, yaml)
			_, err := Load(path)
			if err == nil {
				t.Errorf("expected error for home=%d, got nil", tc.home)
			}
		})
	}
}

func TestLoad_HomeZeroIsKept(t *testing.T) {
	yaml := `
pan_servo:
  pwm_pin: 18
  home: 0
`
	path := writeConfig(t, yaml)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := cfg.PanServo.HomePosition(); got != 0 {
		t.Errorf("home = %d, want 0", got)
	}
}

func TestLoad_UnknownCurve(t *testing.T) {
	yaml := `
pan_servo:
  pwm_pin: 18
motion:
  curve: ease_in_bounce
`
	path := writeConfig(t, yaml)
	_, err := Load(path)
	if !errors.Is(err, easing.ErrUnknownCurve) {
		t.Errorf("expected ErrUnknownCurve, got %v", err)
	}
}

func TestLoad_CurveAliases(t *testing.T) {
	yaml := `
pan_servo:
  pwm_pin: 18
motion:
  curve: SmoothEaseOutExpo
`
	path := writeConfig(t, yaml)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Motion.Curve != easing.EaseOutExpo {
		t.Errorf("motion.curve = %v, want ease_out_expo", cfg.Motion.Curve)
	}
}

func TestLoad_TickLongerThanMove(t *testing.T) {
	yaml := `
pan_servo:
  pwm_pin: 18
motion:
  time_ms: 100
  tick_ms: 200
`
	path := writeConfig(t, yaml)
	_, err := Load(path)
	if err == nil {
		t.Error("expected error for tick_ms > time_ms, got nil")
	}
}

func TestLoad_NegativeDwell(t *testing.T) {
	yaml := `
pan_servo:
  pwm_pin: 18
motion:
  dwell_ms: -5
`
	path := writeConfig(t, yaml)
	_, err := Load(path)
	if err == nil {
		t.Error("expected error for negative dwell_ms, got nil")
	}
}

func TestLoad_InvalidMoves(t *testing.T) {
	cases := []struct {
		name  string
		moves string
	}{
		{"unknown_axis", "  - axis: roll\n    target: 10\n"},
		{"tilt_not_configured", "  - axis: tilt\n    target: 10\n"},
		{"target_over_range", "  - axis: pan\n    target: 181\n"},
		{"target_negative", "  - axis: pan\n    target: -1\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			yaml := "pan_servo:\n  pwm_pin: 18\nmoves:\n" + tc.moves
			path := writeConfig(t, yaml)
			_, err := Load(path)
			if err == nil {
				t.Errorf("expected error for %s, got nil", tc.name)
			}
		})
	}
}

func TestLoad_DebugLevelOutOfRange(t *testing.T) {
	yaml := `
pan_servo:
  pwm_pin: 18
defaults:
  debug_level: 7
`
	path := writeConfig(t, yaml)
	_, err := Load(path)
	if err == nil {
		t.Error("expected error for debug_level > 4, got nil")
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	yaml := `
pan_servo:
  pwm_pin: 18
`
	path := writeConfig(t, yaml)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.PanServo.FrequencyHz != 50 {
		t.Errorf("frequency_hz default = %d, want 50", cfg.PanServo.FrequencyHz)
	}
	if cfg.PanServo.MinPulseUs != 500 || cfg.PanServo.MaxPulseUs != 2500 {
		t.Errorf("pulse defaults = %d-%d, want 500-2500", cfg.PanServo.MinPulseUs, cfg.PanServo.MaxPulseUs)
	}
	if cfg.PanServo.Range != 180 {
		t.Errorf("range default = %d, want 180", cfg.PanServo.Range)
	}
	if cfg.PanServo.HomePosition() != 90 {
		t.Errorf("home default = %d, want 90", cfg.PanServo.HomePosition())
	}
	if cfg.TiltServo.Configured() {
		t.Error("tilt_servo should not be configured")
	}
	if cfg.Motion.Curve != easing.Linear {
		t.Errorf("curve default = %v, want linear", cfg.Motion.Curve)
	}
	if cfg.Motion.TimeMs != 1000 {
		t.Errorf("time_ms default = %d, want 1000", cfg.Motion.TimeMs)
	}
	if cfg.Motion.TickMs != 20 {
		t.Errorf("tick_ms default = %d, want 20", cfg.Motion.TickMs)
	}
	if cfg.Motion.Repeat != 1 {
		t.Errorf("repeat default = %d, want 1", cfg.Motion.Repeat)
	}
}

func TestLoad_FileTooLarge(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "configs")
	if err := os.Mkdir(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(cfgDir, "big.yaml")
	data := make([]byte, MaxConfigFileBytes+1)
	for i := range data {
		data[i] = '#'
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if err == nil {
		t.Error("expected error for oversized config file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "{{{{invalid yaml!!!!")
	_, err := Load(path)
	if err == nil {
		t.Error("expected error for invalid YAML, got nil")
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	path := writeConfig(t, "")
	_, err := Load(path)
	if err == nil {
		t.Error("expected error for empty config (pan_servo missing), got nil")
	}
}

func TestLoad_UnknownFields(t *testing.T) {
	yaml := `
pan_servo:
  pwm_pin: 18
extra:
  foo: bar
`
	path := writeConfig(t, yaml)
	_, err := Load(path)
	if err != nil {
		t.Errorf("unknown fields should be ignored, got error: %v", err)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "configs")
	if err := os.Mkdir(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(cfgDir, "nonexistent.yaml")
	_, err := Load(path)
	if err == nil {
		t.Error("expected error for nonexistent file, got nil")
	}
}

func TestLoad_RejectsPathOutsideConfigs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "default.yaml")
	if err := os.WriteFile(path, []byte("pan_servo:\n  pwm_pin: 18\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for config outside configs/, got nil")
	}
}

// ---------- Helper methods ----------

func TestConfig_Durations(t *testing.T) {
	cfg := &Config{Motion: MotionConfig{TimeMs: 1500, TickMs: 20, DwellMs: 250}}
	if got, want := cfg.MoveDuration(), 1500*time.Millisecond; got != want {
		t.Errorf("MoveDuration() = %v, want %v", got, want)
	}
	if got, want := cfg.Tick(), 20*time.Millisecond; got != want {
		t.Errorf("Tick() = %v, want %v", got, want)
	}
	if got, want := cfg.Dwell(), 250*time.Millisecond; got != want {
		t.Errorf("Dwell() = %v, want %v", got, want)
	}
}

func TestMoveConfig_Accessors(t *testing.T) {
	m := MoveConfig{TimeMs: 800}
	if got, want := m.Duration(), 800*time.Millisecond; got != want {
		t.Errorf("Duration() = %v, want %v", got, want)
	}
	if m.Kind() != easing.Linear {
		t.Errorf("Kind() without curve = %v, want linear", m.Kind())
	}
	k := easing.EaseInCirc
	m.Curve = &k
	if m.Kind() != easing.EaseInCirc {
		t.Errorf("Kind() = %v, want ease_in_circ", m.Kind())
	}
}

func TestServoConfig_HomePosition(t *testing.T) {
	s := ServoConfig{Range: 270}
	if got := s.HomePosition(); got != 135 {
		t.Errorf("HomePosition() default = %d, want 135", got)
	}
	home := 10
	s.Home = &home
	if got := s.HomePosition(); got != 10 {
		t.Errorf("HomePosition() = %d, want 10", got)
	}
}
