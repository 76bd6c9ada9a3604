// internal/mirror/writer.go
package mirror

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tamzrod/valve-sequencer/internal/status"
)

// StatusWriter is the delivery-only contract for the status block.
// It receives a snapshot and writes it verbatim.
type StatusWriter interface {
	WriteStatus(s status.Snapshot) error
}

// endpointClient is the subset of EndpointClient the writer needs.
type endpointClient interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}

// Plan locates the controller's block on the endpoint.
type Plan struct {
	UnitID     uint8
	BaseSlot   uint16
	DeviceName string
}

// Writer mirrors status snapshots into holding registers.
type Writer struct {
	plan Plan
	cli  endpointClient

	needFull bool
	last     []uint16
}

// NewWriter builds a writer. The first successful write is a full block.
func NewWriter(plan Plan, cli endpointClient) (*Writer, error) {
	if cli == nil {
		return nil, errors.New("mirror: client required")
	}
	if uint32(plan.BaseSlot)*status.SlotsPerDevice+status.SlotsPerDevice > 0x10000 {
		return nil, fmt.Errorf("mirror: base slot %d out of range", plan.BaseSlot)
	}
	return &Writer{
		plan:     plan,
		cli:      cli,
		needFull: true,
	}, nil
}

// WriteStatus delivers s. After any write failure the next call
// re-asserts the full block, device name included.
func (w *Writer) WriteStatus(s status.Snapshot) error {
	base := w.baseAddr()

	if w.needFull {
		if err := w.cli.WriteRegisters(w.plan.UnitID, base, status.Encode(s, w.plan.DeviceName)); err != nil {
			return fmt.Errorf("mirror: full block write failed: %w", err)
		}
		w.needFull = false
		w.last = status.LiveSlots(s)
		return nil
	}

	var errs []string
	for i, v := range status.LiveSlots(s) {
		if w.last[i] == v {
			continue
		}
		slot := uint16(status.SlotButtons + i)
		if err := w.cli.WriteRegisters(w.plan.UnitID, base+slot, []uint16{v}); err != nil {
			errs = append(errs, fmt.Sprintf("slot%d write failed: %v", slot, err))
			continue
		}
		w.last[i] = v
	}

	if len(errs) > 0 {
		w.needFull = true
		return errors.New("mirror: " + strings.Join(errs, " | "))
	}
	return nil
}

func (w *Writer) baseAddr() uint16 {
	return w.plan.BaseSlot * status.SlotsPerDevice
}
