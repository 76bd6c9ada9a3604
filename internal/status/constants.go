// internal/status/constants.go
package status

// Controller Status Block layout constants.
// These values define the protocol and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerDevice is the fixed number of logical slots per controller.
const SlotsPerDevice = 20

// ---- SLOT INDICES ----

// SlotButtons holds ButtonState, bit-for-bit.
const SlotButtons = 0

// SlotIndicators holds IndicatorState, bit-for-bit.
const SlotIndicators = 1

// SlotPlan holds the ActuationPlan last applied.
const SlotPlan = 2

// SlotStage holds the sequencer stage code.
const SlotStage = 3

// SlotUnmatched holds the count of unmatched button states (saturating).
const SlotUnmatched = 4

// SlotSequence holds the low 16 bits of the transition counter.
const SlotSequence = 5

// ---- RESERVED RANGE ----

// Slots 6–10 are reserved for future use.
const SlotReservedStart = 6
const SlotReservedEnd = 10

// ---- DEVICE NAME ----

// SlotDeviceNameStart is the first slot used for the device name.
const SlotDeviceNameStart = 11

// SlotDeviceNameSlots is the number of slots reserved for the device name.
const SlotDeviceNameSlots = 8

// SlotDeviceNameEnd is the last slot used for the device name (inclusive).
const SlotDeviceNameEnd = SlotDeviceNameStart + SlotDeviceNameSlots - 1

// ---- LIMITS ----

// DeviceNameMaxChars is the maximum number of ASCII characters stored for device name.
const DeviceNameMaxChars = 16

// ---- STAGE CODES ----

// StageBoot is reported before the startup configuration is applied.
const StageBoot uint16 = 0

// StageScan means the machine is scanning buttons.
const StageScan uint16 = 1

// StageHold means the machine is inside a bounce hold.
const StageHold uint16 = 2

// StageDilutePhase1 means phase 1 is applied and settling.
const StageDilutePhase1 uint16 = 3

// StageDilutePhase2 means phase 2 is applied.
const StageDilutePhase2 uint16 = 4
