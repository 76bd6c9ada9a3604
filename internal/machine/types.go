// internal/machine/types.go
package machine

import (
	"fmt"
	"time"

	"github.com/tamzrod/valve-sequencer/internal/gpio"
	"github.com/tamzrod/valve-sequencer/internal/mask"
)

// Policy decides what an unmatched button state does to the plan.
type Policy uint8

const (
	// RetainPlan keeps the last applied plan in effect.
	RetainPlan Policy = iota
	// IdlePlan applies table.IdlePlan.
	IdlePlan
)

func (p Policy) String() string {
	if p == IdlePlan {
		return "idle"
	}
	return "retain"
}

// ParsePolicy maps the config spelling to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "retain":
		return RetainPlan, nil
	case "idle":
		return IdlePlan, nil
	default:
		return RetainPlan, fmt.Errorf("machine: unknown unmatched policy %q", s)
	}
}

// Config is the minimal runtime config the machine needs.
type Config struct {
	PollInterval time.Duration
	Bounce       time.Duration
	DiluteSettle time.Duration
	Unmatched    Policy
}

// Logger is the diagnostic sink. Calls are best-effort and must not block.
type Logger interface {
	Transition(group string, buttons, plan mask.Mask)
	DiluteMode(mode mask.Position, ok bool)
	DiluteRejected(reason string)
	Unmatched(buttons, plan mask.Mask, policy string)
	ReadFailed(p mask.Position, err error)
}

// Stage is what the machine is doing right now.
type Stage uint8

const (
	StageBoot Stage = iota
	StageScan
	StageHold
	StageDilutePhase1
	StageDilutePhase2
)

func (s Stage) String() string {
	switch s {
	case StageScan:
		return "scan"
	case StageHold:
		return "hold"
	case StageDilutePhase1:
		return "dilute-phase-1"
	case StageDilutePhase2:
		return "dilute-phase-2"
	default:
		return "boot"
	}
}

// Snapshot is a value copy of machine state, safe to hand to other goroutines.
type Snapshot struct {
	Buttons    mask.Mask
	Indicators mask.Mask
	Plan       mask.Mask
	Stage      Stage
	HoldUntil  time.Time

	// Levels is the last-known raw level of each button (HIGH if never read).
	Levels [mask.Width]gpio.Level

	Sequence  uint64 // bumps on every observable change
	Unmatched uint16 // saturating
}
