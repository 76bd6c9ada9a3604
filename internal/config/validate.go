// internal/config/validate.go
package config

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tamzrod/valve-sequencer/internal/status"
)

const maxPosition = 15

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
// Zero values are allowed everywhere Normalize supplies a default.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil")
	}
	s := cfg.Sequencer

	// device_name sanity (ASCII only)
	for i := 0; i < len(s.DeviceName); i++ {
		if s.DeviceName[i] > 0x7F {
			return fmt.Errorf("device_name must contain ASCII characters only")
		}
	}

	// ------------------------------------------------------------
	// GPIO
	// ------------------------------------------------------------

	switch s.GPIO.Backend {
	case "", "sim", "rpio":
	case "chardev":
		if s.GPIO.Chip == "" {
			return fmt.Errorf("gpio: backend chardev requires chip")
		}
	default:
		return fmt.Errorf("gpio: unknown backend %q", s.GPIO.Backend)
	}

	// ------------------------------------------------------------
	// TIMING
	// ------------------------------------------------------------

	if s.Timing.PollIntervalMs < 0 {
		return fmt.Errorf("timing: poll_interval_ms must be >= 0")
	}
	if s.Timing.BounceMs < 0 {
		return fmt.Errorf("timing: bounce_ms must be >= 0")
	}
	if s.Timing.DiluteSettleMs < 0 {
		return fmt.Errorf("timing: dilute_settle_ms must be >= 0")
	}

	switch s.Unmatched {
	case "", "retain", "idle":
	default:
		return fmt.Errorf("unmatched: unknown policy %q (want retain or idle)", s.Unmatched)
	}

	// ------------------------------------------------------------
	// PIN OVERRIDES
	// ------------------------------------------------------------

	seenPos := make(map[uint8]bool)
	// key = pin number, value = "position/role" that claimed it
	pinOwner := make(map[int]string)

	for _, p := range s.Pins {
		if p.Position > maxPosition {
			return fmt.Errorf("pins: position %d out of range 0-%d", p.Position, maxPosition)
		}
		if seenPos[p.Position] {
			return fmt.Errorf("pins: position %d overridden twice", p.Position)
		}
		seenPos[p.Position] = true

		roles := []struct {
			name string
			pin  *int
		}{
			{"button", p.Button},
			{"indicator", p.Indicator},
			{"actuator", p.Actuator},
		}
		for _, r := range roles {
			if r.pin == nil || *r.pin == -1 {
				continue
			}
			if *r.pin < -1 {
				return fmt.Errorf("pins: position %d %s pin %d invalid", p.Position, r.name, *r.pin)
			}
			owner := fmt.Sprintf("%d/%s", p.Position, r.name)
			if prev, exists := pinOwner[*r.pin]; exists {
				return fmt.Errorf(
					"pins: pin %d wired twice (%s and %s)",
					*r.pin,
					prev,
					owner,
				)
			}
			pinOwner[*r.pin] = owner
		}
	}

	// ------------------------------------------------------------
	// DIAGNOSTICS
	// ------------------------------------------------------------

	switch s.Diag.Output {
	case "", "stdout":
	case "serial":
		if s.Diag.SerialPort == "" {
			return fmt.Errorf("diag: output serial requires serial_port")
		}
	default:
		return fmt.Errorf("diag: unknown output %q", s.Diag.Output)
	}
	if s.Diag.Baud < 0 {
		return fmt.Errorf("diag: baud must be >= 0")
	}
	if _, err := zerolog.ParseLevel(s.Diag.Level); err != nil {
		return fmt.Errorf("diag: level: %w", err)
	}

	// ------------------------------------------------------------
	// MIRROR (OPT-IN)
	// ------------------------------------------------------------

	if m := s.Mirror; m != nil {
		if m.Endpoint == "" {
			return fmt.Errorf("mirror: endpoint required")
		}
		if m.TimeoutMs < 0 {
			return fmt.Errorf("mirror: timeout_ms must be >= 0")
		}
		end := int(m.BaseSlot)*status.SlotsPerDevice + status.SlotsPerDevice - 1
		if end > 0xFFFF {
			return fmt.Errorf("mirror: base_slot %d overflows register space", m.BaseSlot)
		}
	}

	return nil
}
