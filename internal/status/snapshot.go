// internal/status/snapshot.go
package status

// Snapshot represents exactly what the mirror is allowed to deliver.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	Buttons    uint16
	Indicators uint16
	Plan       uint16
	Stage      uint16
	Unmatched  uint16
	Sequence   uint16
}
