// internal/mirror/pump.go
package mirror

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tamzrod/valve-sequencer/internal/machine"
	"github.com/tamzrod/valve-sequencer/internal/status"
)

// Pump forwards machine snapshots to w until ctx is done or in is closed.
// Write failures are logged; the writer re-asserts on its next success.
func Pump(ctx context.Context, in <-chan machine.Snapshot, w StatusWriter, log zerolog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case s, ok := <-in:
			if !ok {
				return
			}
			if err := w.WriteStatus(FromMachine(s)); err != nil {
				log.Warn().Err(err).Msg("status mirror write failed")
			}
		}
	}
}

// FromMachine maps a machine snapshot onto the status block fields.
func FromMachine(s machine.Snapshot) status.Snapshot {
	return status.Snapshot{
		Buttons:    uint16(s.Buttons),
		Indicators: uint16(s.Indicators),
		Plan:       uint16(s.Plan),
		Stage:      stageCode(s.Stage),
		Unmatched:  s.Unmatched,
		Sequence:   uint16(s.Sequence),
	}
}

func stageCode(st machine.Stage) uint16 {
	switch st {
	case machine.StageScan:
		return status.StageScan
	case machine.StageHold:
		return status.StageHold
	case machine.StageDilutePhase1:
		return status.StageDilutePhase1
	case machine.StageDilutePhase2:
		return status.StageDilutePhase2
	default:
		return status.StageBoot
	}
}
