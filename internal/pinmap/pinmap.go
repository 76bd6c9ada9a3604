// internal/pinmap/pinmap.go
package pinmap

import (
	"fmt"

	cfg "github.com/tamzrod/valve-sequencer/internal/config"
	"github.com/tamzrod/valve-sequencer/internal/gpio"
	"github.com/tamzrod/valve-sequencer/internal/mask"
)

// Entry wires the three roles of one logical position.
type Entry struct {
	Position  mask.Position
	Button    gpio.Pin
	Indicator gpio.Pin
	Actuator  gpio.Pin
}

// Map is the full 16-position wiring, indexed by logical position.
type Map [mask.Width]Entry

// ---- default wiring ----
//
// Actuators sit on lines 0–11 (positions 0–11):
//   0 purge valve     4 septum valve    8 mix valve
//   1 sample valve    5 loop A valve    9 waste pump
//   2 inject valve    6 loop B valve   10 standard valve
//   3 discrete valve  7 diluent valve  11 detector enable
// Buttons sit on lines 16–24 and indicators on 25–33 (positions 7–15).

const (
	defaultButtonBase    = 16
	defaultIndicatorBase = 25
	lastActuator         = mask.Position(11)
)

// Default returns the built-in wiring.
func Default() Map {
	var m Map
	for p := mask.FirstPosition; p <= mask.LastPosition; p++ {
		e := Entry{
			Position:  p,
			Button:    gpio.NoPin,
			Indicator: gpio.NoPin,
			Actuator:  gpio.NoPin,
		}
		if p >= mask.Purge {
			e.Button = gpio.Pin(defaultButtonBase + int(p-mask.Purge))
			e.Indicator = gpio.Pin(defaultIndicatorBase + int(p-mask.Purge))
		}
		if p <= lastActuator {
			e.Actuator = gpio.Pin(p)
		}
		m[p] = e
	}
	return m
}

// Build returns the default wiring with config overrides applied.
// Overrides are assumed validated.
func Build(overrides []cfg.PinConfig) (Map, error) {
	m := Default()
	for _, o := range overrides {
		p := mask.Position(o.Position)
		if !p.Valid() {
			return Map{}, fmt.Errorf("pinmap: position %d out of range", o.Position)
		}
		e := m[p]
		if o.Button != nil {
			e.Button = gpio.Pin(*o.Button)
		}
		if o.Indicator != nil {
			e.Indicator = gpio.Pin(*o.Indicator)
		}
		if o.Actuator != nil {
			e.Actuator = gpio.Pin(*o.Actuator)
		}
		m[p] = e
	}
	if err := m.check(); err != nil {
		return Map{}, err
	}
	return m, nil
}

// check rejects a physical line wired to two roles, which can happen
// when an override lands on a default line.
func (m Map) check() error {
	owner := make(map[gpio.Pin]string)
	claim := func(pin gpio.Pin, who string) error {
		if !pin.Wired() {
			return nil
		}
		if prev, ok := owner[pin]; ok {
			return fmt.Errorf("pinmap: line %d wired to %s and %s", pin, prev, who)
		}
		owner[pin] = who
		return nil
	}
	for _, e := range m {
		if err := claim(e.Button, e.Position.String()+"/button"); err != nil {
			return err
		}
		if err := claim(e.Indicator, e.Position.String()+"/indicator"); err != nil {
			return err
		}
		if err := claim(e.Actuator, e.Position.String()+"/actuator"); err != nil {
			return err
		}
	}
	return nil
}

// Buttons lists wired button lines.
func (m Map) Buttons() []gpio.Pin {
	return m.collect(func(e Entry) gpio.Pin { return e.Button })
}

// Indicators lists wired indicator lines.
func (m Map) Indicators() []gpio.Pin {
	return m.collect(func(e Entry) gpio.Pin { return e.Indicator })
}

// Actuators lists wired actuator lines.
func (m Map) Actuators() []gpio.Pin {
	return m.collect(func(e Entry) gpio.Pin { return e.Actuator })
}

func (m Map) collect(role func(Entry) gpio.Pin) []gpio.Pin {
	var out []gpio.Pin
	for _, e := range m {
		if p := role(e); p.Wired() {
			out = append(out, p)
		}
	}
	return out
}
