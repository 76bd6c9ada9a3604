// internal/config/load_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "sequencer.yaml", `
sequencer:
  device_name: BENCH-1
  gpio:
    backend: chardev
    chip: gpiochip0
  timing:
    bounce_ms: 300
  unmatched: idle
  pins:
    - position: 9
      button: 5
      actuator: -1
  mirror:
    endpoint: 127.0.0.1:1502
    unit_id: 7
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	s := cfg.Sequencer

	if s.GPIO.Backend != "chardev" || s.GPIO.Chip != "gpiochip0" {
		t.Fatalf("gpio=%+v", s.GPIO)
	}
	if s.Timing.BounceMs != 300 {
		t.Fatalf("bounce=%d", s.Timing.BounceMs)
	}
	if len(s.Pins) != 1 || s.Pins[0].Position != 9 {
		t.Fatalf("pins=%+v", s.Pins)
	}
	if s.Pins[0].Button == nil || *s.Pins[0].Button != 5 {
		t.Fatalf("button override lost")
	}
	if s.Pins[0].Indicator != nil {
		t.Fatalf("indicator should keep default (nil)")
	}
	if s.Pins[0].Actuator == nil || *s.Pins[0].Actuator != -1 {
		t.Fatalf("actuator should be explicitly unwired")
	}
	if s.Mirror == nil || s.Mirror.UnitID != 7 {
		t.Fatalf("mirror=%+v", s.Mirror)
	}
}

func TestLoad_YAMLUnknownField(t *testing.T) {
	path := writeFile(t, "bad.yaml", "sequencer:\n  bounce: 3\n")

	if _, err := Load(path); err == nil {
		t.Fatalf("expected unknown field error, got nil")
	}
}

func TestLoad_EmptyYAML(t *testing.T) {
	path := writeFile(t, "empty.yaml", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("empty config should validate: %v", err)
	}
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "sequencer.toml", `
[sequencer]
device_name = "BENCH-2"
unmatched = "retain"

[sequencer.timing]
dilute_settle_ms = 2500

[[sequencer.pins]]
position = 14
indicator = 40
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	s := cfg.Sequencer

	if s.DeviceName != "BENCH-2" {
		t.Fatalf("device_name=%q", s.DeviceName)
	}
	if s.Timing.DiluteSettleMs != 2500 {
		t.Fatalf("settle=%d", s.Timing.DiluteSettleMs)
	}
	if len(s.Pins) != 1 || s.Pins[0].Indicator == nil || *s.Pins[0].Indicator != 40 {
		t.Fatalf("pins=%+v", s.Pins)
	}
	if s.Mirror != nil {
		t.Fatalf("mirror should be disabled")
	}
}

func TestLoad_TOMLUnknownField(t *testing.T) {
	path := writeFile(t, "sequencer.toml", `
[sequencer]
device_nmae = "typo"
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected unknown field error, got nil")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected read error, got nil")
	}
}

func TestLoad_ShippedExample(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "configs", "sequencer.yaml"))
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("example config invalid: %v", err)
	}
	if cfg.Sequencer.Mirror == nil || cfg.Sequencer.Mirror.Endpoint == "" {
		t.Fatalf("example should enable the mirror")
	}
}
