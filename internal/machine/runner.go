// internal/machine/runner.go
package machine

import (
	"context"
	"time"
)

// Run starts the ticker loop and publishes a Snapshot on out after every
// observable change. Sends never block the control loop: if the consumer
// is behind, the snapshot is dropped and a later one supersedes it.
// out may be nil. Run returns when ctx is done.
func (m *Machine) Run(ctx context.Context, out chan<- Snapshot) {
	ticker := time.NewTicker(m.cfg.PollInterval)
	defer ticker.Stop()

	last := m.seq
	publish(out, m.Snapshot())

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.Tick(now)
			if m.seq != last {
				last = m.seq
				publish(out, m.Snapshot())
			}
		}
	}
}

func publish(out chan<- Snapshot, s Snapshot) {
	if out == nil {
		return
	}
	select {
	case out <- s:
	default:
	}
}
