// internal/table/table.go
package table

import (
	"fmt"

	"github.com/tamzrod/valve-sequencer/internal/mask"
)

// Every literal below is written position 0 first (leftmost digit),
// grouped in fours: 0–3 | 4–7 | 8–11 | 12–15.
// 0 = active / engaged, 1 = inactive / idle.
// These values are the authored source of truth. Do not derive them.

// ---- STARTUP ----

// StartupKey is Load + Loop A.
const StartupKey mask.Mask = 0b1111_1111_0111_0111

// StartupPlan leaves every actuator idle.
const StartupPlan mask.Mask = 0b1111_1111_1111_1111

// ---- STANDARD ----

// StandardKey is Standard alone.
const StandardKey mask.Mask = 0b1111_1111_1111_1110

// StandardPlan engages inject, standard valve and detector.
const StandardPlan mask.Mask = 0b1101_1111_1100_1111

// IdlePlan is applied on an unmatched state only under the "idle" policy.
const IdlePlan mask.Mask = mask.Inactive

// Row is one single-step entry: button state -> actuation plan.
type Row struct {
	Key  mask.Mask
	Plan mask.Mask
}

// singleStep is the 12-row Action x Mode section, in authored order.
var singleStep = []Row{
	// purge
	{Key: 0b1111_1110_1101_1111, Plan: 0b0110_1111_1011_1111}, // discrete
	{Key: 0b1111_1110_1110_1111, Plan: 0b0111_0111_1011_1111}, // septum
	{Key: 0b1111_1110_1111_0111, Plan: 0b0111_1011_1011_1111}, // loop a
	{Key: 0b1111_1110_1111_1011, Plan: 0b0111_1101_1011_1111}, // loop b

	// load
	{Key: 0b1111_1111_0101_1111, Plan: 0b1010_1111_1111_1111}, // discrete
	{Key: 0b1111_1111_0110_1111, Plan: 0b1011_0111_1111_1111}, // septum
	{Key: 0b1111_1111_0111_0111, Plan: 0b1011_1011_1111_1111}, // loop a
	{Key: 0b1111_1111_0111_1011, Plan: 0b1011_1101_1111_1111}, // loop b

	// analyze
	{Key: 0b1111_1111_1001_1111, Plan: 0b1100_1111_1110_1111}, // discrete
	{Key: 0b1111_1111_1010_1111, Plan: 0b1101_0111_1110_1111}, // septum
	{Key: 0b1111_1111_1011_0111, Plan: 0b1101_1011_1110_1111}, // loop a
	{Key: 0b1111_1111_1011_1011, Plan: 0b1101_1101_1110_1111}, // loop b
}

// DilutePhases is one phase-1/phase-2 pair.
type DilutePhases struct {
	Phase1 mask.Mask
	Phase2 mask.Mask
}

// dilute is indexed by mask.ModePriority.
var dilute = [4]DilutePhases{
	{Phase1: 0b1100_1110_1111_1111, Phase2: 0b1100_1111_0110_1111}, // discrete
	{Phase1: 0b1101_0110_1111_1111, Phase2: 0b1101_0111_0110_1111}, // septum
	{Phase1: 0b1101_1010_1111_1111, Phase2: 0b1101_1011_0110_1111}, // loop a
	{Phase1: 0b1101_1100_1111_1111, Phase2: 0b1101_1101_0110_1111}, // loop b
}

// Table resolves button states to actuation plans.
// Immutable after New.
type Table struct {
	rows  []Row
	index map[mask.Mask]mask.Mask
}

// New builds the command table from the authored rows.
// A duplicate key is a table authoring error.
func New() (*Table, error) {
	t := &Table{
		rows:  make([]Row, len(singleStep)),
		index: make(map[mask.Mask]mask.Mask, len(singleStep)),
	}
	copy(t.rows, singleStep)

	for _, r := range t.rows {
		if _, dup := t.index[r.Key]; dup {
			return nil, fmt.Errorf("table: duplicate key %s", r.Key)
		}
		t.index[r.Key] = r.Plan
	}
	return t, nil
}

// MustNew is New for package-level setup; it panics on an authoring error.
func MustNew() *Table {
	t, err := New()
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the plan stored for key. Exact match only.
func (t *Table) Lookup(key mask.Mask) (mask.Mask, bool) {
	plan, ok := t.index[key]
	return plan, ok
}

// Rows returns the single-step section in authored order.
func (t *Table) Rows() []Row {
	out := make([]Row, len(t.rows))
	copy(out, t.rows)
	return out
}

// DilutePair returns the phase pair for a mode priority index (0..3).
func (t *Table) DilutePair(i int) (DilutePhases, bool) {
	if i < 0 || i >= len(dilute) {
		return DilutePhases{}, false
	}
	return dilute[i], true
}
