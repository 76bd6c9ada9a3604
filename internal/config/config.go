// internal/config/config.go
package config

type Config struct {
	Sequencer SequencerConfig `yaml:"sequencer" toml:"sequencer"`
}

type SequencerConfig struct {
	DeviceName string        `yaml:"device_name" toml:"device_name"`
	GPIO       GPIOConfig    `yaml:"gpio" toml:"gpio"`
	Timing     TimingConfig  `yaml:"timing" toml:"timing"`
	Unmatched  string        `yaml:"unmatched" toml:"unmatched"` // retain | idle
	Pins       []PinConfig   `yaml:"pins" toml:"pins"`
	Diag       DiagConfig    `yaml:"diag" toml:"diag"`
	Mirror     *MirrorConfig `yaml:"mirror" toml:"mirror"` // optional
}

// ---- GPIO ----

type GPIOConfig struct {
	Backend string `yaml:"backend" toml:"backend"` // sim | rpio | chardev
	Chip    string `yaml:"chip" toml:"chip"`       // chardev only
}

// ---- TIMING ----

type TimingConfig struct {
	PollIntervalMs int `yaml:"poll_interval_ms" toml:"poll_interval_ms"`
	BounceMs       int `yaml:"bounce_ms" toml:"bounce_ms"`
	DiluteSettleMs int `yaml:"dilute_settle_ms" toml:"dilute_settle_ms"`
}

// ---- PIN OVERRIDES ----

// PinConfig overrides the default wiring of one logical position.
// A nil field keeps the default; -1 marks the role as unwired.
type PinConfig struct {
	Position  uint8 `yaml:"position" toml:"position"`
	Button    *int  `yaml:"button" toml:"button"`
	Indicator *int  `yaml:"indicator" toml:"indicator"`
	Actuator  *int  `yaml:"actuator" toml:"actuator"`
}

// ---- DIAGNOSTICS ----

type DiagConfig struct {
	Output     string `yaml:"output" toml:"output"` // stdout | serial
	SerialPort string `yaml:"serial_port" toml:"serial_port"`
	Baud       int    `yaml:"baud" toml:"baud"`
	Level      string `yaml:"level" toml:"level"`
}

// ---- MODBUS MIRROR ----

type MirrorConfig struct {
	Endpoint  string `yaml:"endpoint" toml:"endpoint"`
	UnitID    uint8  `yaml:"unit_id" toml:"unit_id"`
	BaseSlot  uint16 `yaml:"base_slot" toml:"base_slot"`
	TimeoutMs int    `yaml:"timeout_ms" toml:"timeout_ms"`
}
