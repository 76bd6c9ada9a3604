// internal/status/encode.go
package status

// Encode converts a Snapshot into a full status block.
// Layout is protocol-locked.
// No IO. No side effects.
func Encode(s Snapshot, deviceName string) []uint16 {
	regs := make([]uint16, SlotsPerDevice)

	regs[SlotButtons] = s.Buttons
	regs[SlotIndicators] = s.Indicators
	regs[SlotPlan] = s.Plan
	regs[SlotStage] = s.Stage
	regs[SlotUnmatched] = s.Unmatched
	regs[SlotSequence] = s.Sequence

	// Slots 6..10 are RESERVED → left as zero

	name := EncodeDeviceName(deviceName)
	copy(regs[SlotDeviceNameStart:SlotDeviceNameEnd+1], name)

	return regs
}

// LiveSlots returns the per-slot values that change at runtime,
// in slot order starting at SlotButtons.
func LiveSlots(s Snapshot) []uint16 {
	return []uint16{s.Buttons, s.Indicators, s.Plan, s.Stage, s.Unmatched, s.Sequence}
}

// EncodeDeviceName packs up to 16 ASCII characters into 8 uint16 registers.
// Each register stores two ASCII bytes in big-endian order.
func EncodeDeviceName(name string) []uint16 {
	out := make([]uint16, SlotDeviceNameSlots)

	b := []byte(name)
	if len(b) > DeviceNameMaxChars {
		b = b[:DeviceNameMaxChars]
	}

	// sanitize to printable ASCII
	for i := 0; i < len(b); i++ {
		if b[i] < 0x20 || b[i] > 0x7E {
			b[i] = '?'
		}
	}

	for i := 0; i < DeviceNameMaxChars; i += 2 {
		var hi, lo byte
		if i < len(b) {
			hi = b[i]
		}
		if i+1 < len(b) {
			lo = b[i+1]
		}
		out[i/2] = uint16(hi)<<8 | uint16(lo)
	}

	return out
}
