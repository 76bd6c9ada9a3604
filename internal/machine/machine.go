// internal/machine/machine.go
package machine

import (
	"errors"
	"fmt"
	"time"

	"github.com/tamzrod/valve-sequencer/internal/gpio"
	"github.com/tamzrod/valve-sequencer/internal/mask"
	"github.com/tamzrod/valve-sequencer/internal/output"
	"github.com/tamzrod/valve-sequencer/internal/pinmap"
	"github.com/tamzrod/valve-sequencer/internal/table"
)

// after is the work left for when the current hold expires.
type after uint8

const (
	afterNothing after = iota
	afterDilutePhase2
	afterDiluteRelease
)

// Machine is the button-to-action state machine.
// It is single-threaded: only the goroutine calling Start/Tick/Run may touch it.
type Machine struct {
	cfg   Config
	pins  pinmap.Map
	table *table.Table
	io    gpio.Driver
	out   *output.Driver
	log   Logger

	buttons    mask.Mask
	indicators mask.Mask
	plan       mask.Mask
	levels     [mask.Width]gpio.Level

	started   bool
	stage     Stage
	cursor    mask.Position
	holdUntil time.Time
	next      after
	pair      table.DilutePhases

	seq       uint64
	unmatched uint16
}

// New creates a machine with immutable config. Nothing is driven until Start.
func New(cfg Config, pins pinmap.Map, tbl *table.Table, io gpio.Driver, out *output.Driver, log Logger) (*Machine, error) {
	if cfg.PollInterval <= 0 {
		return nil, errors.New("machine: poll interval must be > 0")
	}
	if cfg.Bounce <= 0 {
		return nil, errors.New("machine: bounce must be > 0")
	}
	if cfg.DiluteSettle <= 0 {
		return nil, errors.New("machine: dilute settle must be > 0")
	}
	if tbl == nil || io == nil || out == nil || log == nil {
		return nil, errors.New("machine: table, gpio, output and logger are required")
	}

	m := &Machine{
		cfg:        cfg,
		pins:       pins,
		table:      tbl,
		io:         io,
		out:        out,
		log:        log,
		buttons:    mask.Inactive,
		indicators: mask.Inactive,
		plan:       mask.Inactive,
		stage:      StageBoot,
		cursor:     mask.Purge,
	}
	for i := range m.levels {
		m.levels[i] = gpio.High
	}
	return m, nil
}

// Start configures every wired line to its safe level, then enters the
// startup configuration: Load + Loop A selected, startup plan applied.
// Button levels at boot are ignored.
func (m *Machine) Start(now time.Time) error {
	for _, e := range m.pins {
		if err := m.io.SetupInput(e.Button); err != nil {
			return fmt.Errorf("machine: setup button %s: %w", e.Position, err)
		}
		if err := m.io.SetupOutput(e.Indicator, output.IndicatorOff); err != nil {
			return fmt.Errorf("machine: setup indicator %s: %w", e.Position, err)
		}
		if err := m.io.SetupOutput(e.Actuator, output.ActuatorIdle); err != nil {
			return fmt.Errorf("machine: setup actuator %s: %w", e.Position, err)
		}
	}

	// ---- startup configuration ----
	m.buttons = table.StartupKey
	m.indicators = table.StartupKey
	m.out.Indicators(m.indicators)
	m.applyPlan(table.StartupPlan)
	m.log.Transition("startup", m.buttons, m.plan)

	m.cursor = mask.Purge
	m.holdUntil = now
	m.next = afterNothing
	m.started = true
	m.setStage(StageScan)
	m.touch()
	return nil
}

// Snapshot returns a copy of the current state.
func (m *Machine) Snapshot() Snapshot {
	return Snapshot{
		Buttons:    m.buttons,
		Indicators: m.indicators,
		Plan:       m.plan,
		Stage:      m.stage,
		HoldUntil:  m.holdUntil,
		Levels:     m.levels,
		Sequence:   m.seq,
		Unmatched:  m.unmatched,
	}
}

// ---- internal helpers ----

func (m *Machine) applyPlan(plan mask.Mask) {
	m.plan = plan
	m.out.Apply(plan)
}

// engage marks p active in both state words and lights its LED.
func (m *Machine) engage(p mask.Position) {
	m.buttons = m.buttons.Activate(p)
	m.indicators = m.indicators.Activate(p)
	m.out.Indicator(p, true)
}

// release marks p inactive in both state words and darkens its LED.
func (m *Machine) release(p mask.Position) {
	m.buttons = m.buttons.Deactivate(p)
	m.indicators = m.indicators.Deactivate(p)
	m.out.Indicator(p, false)
}

// indicator switches an LED that has no ButtonState meaning (dilute feedback).
func (m *Machine) indicator(p mask.Position, on bool) {
	if on {
		m.indicators = m.indicators.Activate(p)
	} else {
		m.indicators = m.indicators.Deactivate(p)
	}
	m.out.Indicator(p, on)
}

// hold arms a deadline; nothing is scanned until it passes.
func (m *Machine) hold(now time.Time, d time.Duration, then after, stage Stage) {
	m.holdUntil = now.Add(d)
	m.next = then
	m.setStage(stage)
}

func (m *Machine) setStage(s Stage) {
	if m.stage != s {
		m.stage = s
		m.touch()
	}
}

func (m *Machine) touch() {
	m.seq++
}

func (m *Machine) countUnmatched() {
	if m.unmatched < 0xFFFF {
		m.unmatched++
	}
}
