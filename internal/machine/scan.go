// internal/machine/scan.go
package machine

import (
	"time"

	"github.com/tamzrod/valve-sequencer/internal/gpio"
	"github.com/tamzrod/valve-sequencer/internal/mask"
	"github.com/tamzrod/valve-sequencer/internal/table"
)

// Tick performs one cooperative step at time now.
//
// While a hold is armed nothing is read. When it expires, pending
// dilute work runs first; then the scan pass resumes at the position
// after the last serviced button. A pass that reaches Standard wraps
// back to Purge on the next Tick.
func (m *Machine) Tick(now time.Time) {
	if !m.started {
		return
	}
	if now.Before(m.holdUntil) {
		return
	}

	switch m.next {
	case afterDilutePhase2:
		m.next = afterNothing
		m.applyPlan(m.pair.Phase2)
		m.log.Transition("dilute-phase-2", m.buttons, m.plan)
		m.touch()
		m.hold(now, m.cfg.Bounce, afterDiluteRelease, StageDilutePhase2)
		return

	case afterDiluteRelease:
		m.next = afterNothing
		m.indicator(mask.Dilute, false)
		m.touch()
	}

	m.setStage(StageScan)

	if m.cursor > mask.LastPosition {
		m.cursor = mask.Purge
	}
	for m.cursor <= mask.LastPosition {
		p := m.cursor
		m.cursor++

		if !m.pressed(p) {
			continue
		}
		if m.service(p, now) {
			return
		}
	}
}

// pressed reads the button at p. Active is LOW. A read error counts as released.
func (m *Machine) pressed(p mask.Position) bool {
	pin := m.pins[p].Button
	if !pin.Wired() {
		return false
	}
	level, err := m.io.Read(pin)
	if err != nil {
		m.log.ReadFailed(p, err)
		level = gpio.High
	}
	if m.levels[p] != level {
		m.levels[p] = level
		m.touch()
	}
	return level == gpio.Low
}

// service handles one active button. It reports whether a hold was armed.
func (m *Machine) service(p mask.Position, now time.Time) bool {
	// Standard never lingers once any button is seen active.
	if m.indicators.Active(mask.Standard) {
		m.release(mask.Standard)
		m.touch()
	}

	switch {
	case p == mask.Standard:
		return m.pressStandard(now)
	case p == mask.Dilute:
		return m.pressDilute(now)
	case mask.GroupOf(p) == mask.GroupAction, mask.GroupOf(p) == mask.GroupMode:
		return m.pressExclusive(p, now)
	default:
		return false
	}
}

// pressExclusive selects p inside its group and resolves the new state.
func (m *Machine) pressExclusive(p mask.Position, now time.Time) bool {
	group := mask.GroupOf(p)

	m.engage(p)
	for _, q := range group.Positions() {
		if q != p {
			m.release(q)
		}
	}

	plan, ok := m.table.Lookup(m.buttons)
	switch {
	case ok:
		m.applyPlan(plan)
		m.log.Transition(group.String(), m.buttons, m.plan)
	case m.cfg.Unmatched == IdlePlan:
		m.countUnmatched()
		m.applyPlan(table.IdlePlan)
		m.log.Unmatched(m.buttons, m.plan, m.cfg.Unmatched.String())
	default:
		// last plan stays in effect
		m.countUnmatched()
		m.log.Unmatched(m.buttons, m.plan, m.cfg.Unmatched.String())
	}

	m.touch()
	m.hold(now, m.cfg.Bounce, afterNothing, StageHold)
	return true
}

// pressStandard forces every other position inactive and applies the
// fixed standard plan.
func (m *Machine) pressStandard(now time.Time) bool {
	for p := mask.FirstPosition; p <= mask.LastPosition; p++ {
		if p != mask.Standard {
			m.release(p)
		}
	}
	m.engage(mask.Standard)

	m.applyPlan(table.StandardPlan)
	m.log.Transition("standard", m.buttons, m.plan)

	m.touch()
	m.hold(now, m.cfg.Bounce, afterNothing, StageHold)
	return true
}

// pressDilute starts the two-phase dilute sequence when Analyze is engaged.
// Once phase 1 is applied the sequence always runs to completion.
func (m *Machine) pressDilute(now time.Time) bool {
	m.indicator(mask.Dilute, true)
	m.touch()

	if !m.buttons.Active(mask.Analyze) {
		m.log.DiluteRejected("analyze not active")
		m.hold(now, m.cfg.Bounce, afterDiluteRelease, StageHold)
		return true
	}

	idx := -1
	for i, mode := range mask.ModePriority {
		if m.buttons.Active(mode) {
			idx = i
			break
		}
	}
	pair, ok := m.table.DilutePair(idx)
	if !ok {
		// no mode: narrate once per hold, LED off when it expires
		m.log.DiluteMode(0, false)
		m.hold(now, m.cfg.Bounce, afterDiluteRelease, StageHold)
		return true
	}
	m.log.DiluteMode(mask.ModePriority[idx], true)

	m.pair = pair
	m.applyPlan(pair.Phase1)
	m.log.Transition("dilute-phase-1", m.buttons, m.plan)

	m.hold(now, m.cfg.DiluteSettle, afterDilutePhase2, StageDilutePhase1)
	return true
}
