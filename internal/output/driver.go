// internal/output/driver.go
package output

import (
	"github.com/rs/zerolog"

	"github.com/tamzrod/valve-sequencer/internal/gpio"
	"github.com/tamzrod/valve-sequencer/internal/mask"
	"github.com/tamzrod/valve-sequencer/internal/pinmap"
)

// Actuators are active-low: LOW engages, HIGH idles.
const (
	ActuatorEngaged = gpio.Low
	ActuatorIdle    = gpio.High
)

// Indicators are active-high: HIGH is visibly on.
const (
	IndicatorOn  = gpio.High
	IndicatorOff = gpio.Low
)

// Driver applies masks to physical lines.
// It never fails: absent pins are skipped and backend errors are logged.
type Driver struct {
	pins   pinmap.Map
	io     gpio.Driver
	logger zerolog.Logger
}

func New(pins pinmap.Map, io gpio.Driver, logger zerolog.Logger) *Driver {
	return &Driver{
		pins:   pins,
		io:     io,
		logger: logger.With().Str("module", "output").Logger(),
	}
}

// Apply drives every wired actuator from plan.
// Plan bit 1 idles the actuator, bit 0 engages it.
func (d *Driver) Apply(plan mask.Mask) {
	for p := mask.FirstPosition; p <= mask.LastPosition; p++ {
		pin := d.pins[p].Actuator
		if !pin.Wired() {
			continue
		}
		level := ActuatorIdle
		if plan.Active(p) {
			level = ActuatorEngaged
		}
		d.write(pin, level, p, "actuator")
	}
}

// Indicator switches one LED. The logic bit and the electrical level
// have opposite polarity: on means bit 0 in the mask and HIGH on the line.
func (d *Driver) Indicator(p mask.Position, on bool) {
	pin := d.pins[p].Indicator
	if !pin.Wired() {
		return
	}
	level := IndicatorOff
	if on {
		level = IndicatorOn
	}
	d.write(pin, level, p, "indicator")
}

// Indicators drives every wired LED from an indicator mask.
func (d *Driver) Indicators(m mask.Mask) {
	for p := mask.FirstPosition; p <= mask.LastPosition; p++ {
		d.Indicator(p, m.Active(p))
	}
}

func (d *Driver) write(pin gpio.Pin, level gpio.Level, p mask.Position, role string) {
	if err := d.io.Write(pin, level); err != nil {
		d.logger.Error().
			Err(err).
			Str("role", role).
			Stringer("position", p).
			Int("pin", int(pin)).
			Msg("write failed")
	}
}
