// internal/machine/machine_test.go
package machine

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/valve-sequencer/internal/gpio"
	"github.com/tamzrod/valve-sequencer/internal/mask"
	"github.com/tamzrod/valve-sequencer/internal/output"
	"github.com/tamzrod/valve-sequencer/internal/pinmap"
	"github.com/tamzrod/valve-sequencer/internal/table"
)

// ---- fake logger ----

type recLogger struct {
	transitions []string
	modes       []string
	rejected    []string
	unmatched   int
	readFails   int
}

func (l *recLogger) Transition(group string, _, _ mask.Mask) {
	l.transitions = append(l.transitions, group)
}

func (l *recLogger) DiluteMode(mode mask.Position, ok bool) {
	if !ok {
		l.modes = append(l.modes, "???")
		return
	}
	l.modes = append(l.modes, mode.String())
}

func (l *recLogger) DiluteRejected(reason string) { l.rejected = append(l.rejected, reason) }

func (l *recLogger) Unmatched(_, _ mask.Mask, _ string) { l.unmatched++ }

func (l *recLogger) ReadFailed(mask.Position, error) { l.readFails++ }

// ---- recording gpio ----

type write struct {
	pin   gpio.Pin
	level gpio.Level
}

type recIO struct {
	*gpio.Sim
	writes  []write
	badRead gpio.Pin
}

func (r *recIO) Write(p gpio.Pin, l gpio.Level) error {
	r.writes = append(r.writes, write{p, l})
	return r.Sim.Write(p, l)
}

func (r *recIO) Read(p gpio.Pin) (gpio.Level, error) {
	if p == r.badRead {
		return gpio.Low, errors.New("line vanished")
	}
	return r.Sim.Read(p)
}

// index of the first write of level to pin at or after from, or -1
func (r *recIO) indexOf(pin gpio.Pin, level gpio.Level, from int) int {
	for i := from; i < len(r.writes); i++ {
		if r.writes[i] == (write{pin, level}) {
			return i
		}
	}
	return -1
}

// ---- rig ----

const (
	bounce = 100 * time.Millisecond
	settle = 2000 * time.Millisecond
)

var t0 = time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

type rig struct {
	t    *testing.T
	m    *Machine
	io   *recIO
	log  *recLogger
	pins pinmap.Map
	now  time.Time
}

func newRig(t *testing.T, policy Policy) *rig {
	t.Helper()
	pins := pinmap.Default()
	io := &recIO{Sim: gpio.NewSim(), badRead: gpio.NoPin}
	log := &recLogger{}

	m, err := New(
		Config{PollInterval: 5 * time.Millisecond, Bounce: bounce, DiluteSettle: settle, Unmatched: policy},
		pins,
		table.MustNew(),
		io,
		output.New(pins, io, zerolog.Nop()),
		log,
	)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	r := &rig{t: t, m: m, io: io, log: log, pins: pins, now: t0}
	if err := m.Start(r.now); err != nil {
		t.Fatalf("Start() err=%v", err)
	}
	return r
}

// tap presses p, runs one tick, releases p.
func (r *rig) tap(p mask.Position) {
	r.io.Set(r.pins[p].Button, gpio.Low)
	r.m.Tick(r.now)
	r.io.Set(r.pins[p].Button, gpio.High)
}

// wait advances the clock by d and ticks once.
func (r *rig) wait(d time.Duration) {
	r.now = r.now.Add(d)
	r.m.Tick(r.now)
}

func (r *rig) led(p mask.Position) gpio.Level {
	return r.io.Level(r.pins[p].Indicator)
}

func activeIn(m mask.Mask, g mask.Group) []mask.Position {
	var out []mask.Position
	for _, p := range g.Positions() {
		if m.Active(p) {
			out = append(out, p)
		}
	}
	return out
}

// ---- tests ----

func TestNew_Validation(t *testing.T) {
	pins := pinmap.Default()
	sim := gpio.NewSim()
	out := output.New(pins, sim, zerolog.Nop())
	good := Config{PollInterval: time.Millisecond, Bounce: time.Millisecond, DiluteSettle: time.Millisecond}

	bad := []Config{
		{Bounce: time.Millisecond, DiluteSettle: time.Millisecond},
		{PollInterval: time.Millisecond, DiluteSettle: time.Millisecond},
		{PollInterval: time.Millisecond, Bounce: time.Millisecond},
	}
	for i, c := range bad {
		if _, err := New(c, pins, table.MustNew(), sim, out, &recLogger{}); err == nil {
			t.Fatalf("case %d: expected error, got nil", i)
		}
	}
	if _, err := New(good, pins, nil, sim, out, &recLogger{}); err == nil {
		t.Fatalf("expected error for nil table")
	}
	if _, err := New(good, pins, table.MustNew(), sim, out, &recLogger{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParsePolicy(t *testing.T) {
	if p, err := ParsePolicy(""); err != nil || p != RetainPlan {
		t.Fatalf("empty policy=%s err=%v", p, err)
	}
	if p, err := ParsePolicy("idle"); err != nil || p != IdlePlan {
		t.Fatalf("idle policy=%s err=%v", p, err)
	}
	if _, err := ParsePolicy("bogus"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestTick_BeforeStartIsNoOp(t *testing.T) {
	pins := pinmap.Default()
	sim := gpio.NewSim()
	m, err := New(
		Config{PollInterval: time.Millisecond, Bounce: bounce, DiluteSettle: settle},
		pins, table.MustNew(), sim, output.New(pins, sim, zerolog.Nop()), &recLogger{},
	)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	sim.Set(pins[mask.Purge].Button, gpio.Low)
	m.Tick(t0)

	if s := m.Snapshot(); s.Stage != StageBoot || s.Buttons != mask.Inactive {
		t.Fatalf("machine acted before Start: %+v", s)
	}
}

func TestStart_Deterministic(t *testing.T) {
	pins := pinmap.Default()
	io := &recIO{Sim: gpio.NewSim(), badRead: gpio.NoPin}

	// every button held down at power-on
	for _, pin := range pins.Buttons() {
		io.Set(pin, gpio.Low)
	}

	log := &recLogger{}
	m, err := New(
		Config{PollInterval: time.Millisecond, Bounce: bounce, DiluteSettle: settle},
		pins, table.MustNew(), io, output.New(pins, io, zerolog.Nop()), log,
	)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	if err := m.Start(t0); err != nil {
		t.Fatalf("Start() err=%v", err)
	}

	s := m.Snapshot()
	if s.Buttons != table.StartupKey || s.Indicators != table.StartupKey {
		t.Fatalf("startup state buttons=%s indicators=%s", s.Buttons, s.Indicators)
	}
	if s.Plan != table.StartupPlan {
		t.Fatalf("startup plan=%s", s.Plan)
	}
	if s.Stage != StageScan {
		t.Fatalf("stage=%s want scan", s.Stage)
	}

	for p := mask.Purge; p <= mask.Standard; p++ {
		want := gpio.Low
		if p == mask.Load || p == mask.LoopA {
			want = gpio.High
		}
		if got := io.Level(pins[p].Indicator); got != want {
			t.Fatalf("indicator %s=%s want %s", p, got, want)
		}
	}
	for _, pin := range pins.Actuators() {
		if io.Level(pin) != output.ActuatorIdle {
			t.Fatalf("actuator line %d not idle after startup", pin)
		}
	}
	if len(log.transitions) != 1 || log.transitions[0] != "startup" {
		t.Fatalf("transitions=%v", log.transitions)
	}
}

func TestActionGroup_Exclusive(t *testing.T) {
	r := newRig(t, RetainPlan)

	r.tap(mask.Purge)
	s := r.m.Snapshot()

	if got := activeIn(s.Buttons, mask.GroupAction); len(got) != 1 || got[0] != mask.Purge {
		t.Fatalf("action group=%v want [purge]", got)
	}
	if got := activeIn(s.Buttons, mask.GroupMode); len(got) != 1 || got[0] != mask.LoopA {
		t.Fatalf("mode group=%v want [loop-a] untouched", got)
	}
	want, _ := table.MustNew().Lookup(mask.Inactive.Activate(mask.Purge).Activate(mask.LoopA))
	if s.Plan != want {
		t.Fatalf("plan=%s want %s", s.Plan, want)
	}
	if r.led(mask.Purge) != gpio.High || r.led(mask.Load) != gpio.Low {
		t.Fatalf("indicators not exclusive: purge=%s load=%s", r.led(mask.Purge), r.led(mask.Load))
	}

	// second action button flips exclusivity
	r.now = r.now.Add(bounce)
	r.tap(mask.Analyze)
	s = r.m.Snapshot()

	if got := activeIn(s.Buttons, mask.GroupAction); len(got) != 1 || got[0] != mask.Analyze {
		t.Fatalf("action group=%v want [analyze]", got)
	}
	if got := activeIn(s.Buttons, mask.GroupMode); len(got) != 1 || got[0] != mask.LoopA {
		t.Fatalf("mode group changed: %v", got)
	}
	if s.Indicators != s.Buttons {
		t.Fatalf("indicators %s should mirror buttons %s", s.Indicators, s.Buttons)
	}
}

func TestModeGroup_Exclusive(t *testing.T) {
	r := newRig(t, RetainPlan)

	r.tap(mask.Septum)
	s := r.m.Snapshot()

	if got := activeIn(s.Buttons, mask.GroupMode); len(got) != 1 || got[0] != mask.Septum {
		t.Fatalf("mode group=%v want [septum]", got)
	}
	if !s.Buttons.Active(mask.Load) {
		t.Fatalf("action group should still hold load")
	}
	if r.led(mask.LoopA) != gpio.Low || r.led(mask.Septum) != gpio.High {
		t.Fatalf("mode leds wrong: loop-a=%s septum=%s", r.led(mask.LoopA), r.led(mask.Septum))
	}
}

func TestEverySingleStepCombination(t *testing.T) {
	tbl := table.MustNew()

	for _, action := range mask.GroupAction.Positions() {
		for _, mode := range mask.GroupMode.Positions() {
			r := newRig(t, RetainPlan)

			r.tap(mode)
			r.wait(bounce) // finish the pass
			r.tap(action)  // next pass starts at purge

			key := mask.Inactive.Activate(action).Activate(mode)
			want, ok := tbl.Lookup(key)
			if !ok {
				t.Fatalf("%s/%s: no table row", action, mode)
			}
			s := r.m.Snapshot()
			if s.Buttons != key {
				t.Fatalf("%s/%s: buttons=%s want %s", action, mode, s.Buttons, key)
			}
			if s.Plan != want {
				t.Fatalf("%s/%s: plan=%s want %s", action, mode, s.Plan, want)
			}
			for p := mask.FirstPosition; p <= mask.LastPosition; p++ {
				pin := r.pins[p].Actuator
				if !pin.Wired() {
					continue
				}
				level := output.ActuatorIdle
				if want.Bit(p) == 0 {
					level = output.ActuatorEngaged
				}
				if r.io.Level(pin) != level {
					t.Fatalf("%s/%s: actuator %d=%s want %s", action, mode, p, r.io.Level(pin), level)
				}
			}
		}
	}
}

func TestHold_BlocksInput(t *testing.T) {
	r := newRig(t, RetainPlan)

	r.tap(mask.Purge)
	if s := r.m.Snapshot(); s.Stage != StageHold {
		t.Fatalf("stage=%s want hold", s.Stage)
	}

	// analyze pressed inside the bounce window is not seen
	r.io.Set(r.pins[mask.Analyze].Button, gpio.Low)
	r.wait(bounce / 2)
	if r.m.Snapshot().Buttons.Active(mask.Analyze) {
		t.Fatalf("input read during hold")
	}

	// deadline passed: the same pass resumes and finds analyze
	r.wait(bounce / 2)
	r.io.Set(r.pins[mask.Analyze].Button, gpio.High)
	if !r.m.Snapshot().Buttons.Active(mask.Analyze) {
		t.Fatalf("analyze not serviced after hold")
	}
}

func TestScan_ResumesPassInOrder(t *testing.T) {
	r := newRig(t, RetainPlan)

	// purge and discrete both held: purge first, discrete after the hold
	r.io.Set(r.pins[mask.Purge].Button, gpio.Low)
	r.io.Set(r.pins[mask.Discrete].Button, gpio.Low)

	r.m.Tick(r.now)
	s := r.m.Snapshot()
	if !s.Buttons.Active(mask.Purge) || s.Buttons.Active(mask.Discrete) {
		t.Fatalf("first tick should service purge only: %s", s.Buttons)
	}

	r.io.Set(r.pins[mask.Purge].Button, gpio.High)
	r.wait(bounce)
	s = r.m.Snapshot()
	if !s.Buttons.Active(mask.Discrete) {
		t.Fatalf("discrete should be serviced in the same pass: %s", s.Buttons)
	}
	if s.Buttons != mask.Inactive.Activate(mask.Purge).Activate(mask.Discrete) {
		t.Fatalf("buttons=%s", s.Buttons)
	}
}

func TestStandard_ClearsEverything(t *testing.T) {
	r := newRig(t, RetainPlan)

	r.tap(mask.Standard)
	s := r.m.Snapshot()

	if s.Buttons != table.StandardKey || s.Indicators != table.StandardKey {
		t.Fatalf("buttons=%s indicators=%s want %s", s.Buttons, s.Indicators, table.StandardKey)
	}
	if s.Plan != table.StandardPlan {
		t.Fatalf("plan=%s want %s", s.Plan, table.StandardPlan)
	}
	for p := mask.Purge; p <= mask.Standard; p++ {
		want := gpio.Low
		if p == mask.Standard {
			want = gpio.High
		}
		if r.led(p) != want {
			t.Fatalf("indicator %s=%s want %s", p, r.led(p), want)
		}
	}
}

func TestStandardClearGuard_RunsFirst(t *testing.T) {
	r := newRig(t, RetainPlan)

	r.tap(mask.Standard)
	r.now = r.now.Add(bounce)
	mark := len(r.io.writes)

	r.tap(mask.Purge)
	s := r.m.Snapshot()

	if s.Buttons.Active(mask.Standard) || s.Indicators.Active(mask.Standard) {
		t.Fatalf("standard still active: buttons=%s indicators=%s", s.Buttons, s.Indicators)
	}
	if r.led(mask.Standard) != gpio.Low {
		t.Fatalf("standard led still lit")
	}

	off := r.io.indexOf(r.pins[mask.Standard].Indicator, gpio.Low, mark)
	on := r.io.indexOf(r.pins[mask.Purge].Indicator, gpio.High, mark)
	if off < 0 || on < 0 || off > on {
		t.Fatalf("standard must go dark before purge lights: off=%d on=%d", off, on)
	}
}

func TestUnmatched_RetainsPlan(t *testing.T) {
	r := newRig(t, RetainPlan)

	r.tap(mask.Standard)
	r.now = r.now.Add(bounce)

	// purge with no mode selected has no row
	r.tap(mask.Purge)
	s := r.m.Snapshot()

	if s.Plan != table.StandardPlan {
		t.Fatalf("plan=%s want retained standard plan", s.Plan)
	}
	if s.Unmatched != 1 || r.log.unmatched != 1 {
		t.Fatalf("unmatched=%d logged=%d want 1", s.Unmatched, r.log.unmatched)
	}
}

func TestUnmatched_IdlePolicy(t *testing.T) {
	r := newRig(t, IdlePlan)

	r.tap(mask.Standard)
	r.now = r.now.Add(bounce)
	r.tap(mask.Purge)
	s := r.m.Snapshot()

	if s.Plan != table.IdlePlan {
		t.Fatalf("plan=%s want idle", s.Plan)
	}
	for _, pin := range r.pins.Actuators() {
		if r.io.Level(pin) != output.ActuatorIdle {
			t.Fatalf("actuator %d not idle", pin)
		}
	}
}

func TestReadError_TreatedAsReleased(t *testing.T) {
	r := newRig(t, RetainPlan)
	r.io.badRead = r.pins[mask.Purge].Button

	before := r.m.Snapshot()
	r.m.Tick(r.now)
	after := r.m.Snapshot()

	if after.Buttons != before.Buttons {
		t.Fatalf("read error must not press: %s -> %s", before.Buttons, after.Buttons)
	}
	if r.log.readFails != 1 {
		t.Fatalf("readFails=%d want 1", r.log.readFails)
	}
}
