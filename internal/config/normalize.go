// internal/config/normalize.go
package config

const (
	DefaultBackend        = "sim"
	DefaultPollIntervalMs = 5
	DefaultBounceMs       = 250
	DefaultDiluteSettleMs = 2000
	DefaultUnmatched      = "retain"
	DefaultDiagOutput     = "stdout"
	DefaultDiagLevel      = "info"
	DefaultBaud           = 9600
	DefaultMirrorTimeout  = 1000

	deviceNameMaxChars = 16
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}
	s := &cfg.Sequencer

	if s.GPIO.Backend == "" {
		s.GPIO.Backend = DefaultBackend
	}

	if s.Timing.PollIntervalMs == 0 {
		s.Timing.PollIntervalMs = DefaultPollIntervalMs
	}
	if s.Timing.BounceMs == 0 {
		s.Timing.BounceMs = DefaultBounceMs
	}
	if s.Timing.DiluteSettleMs == 0 {
		s.Timing.DiluteSettleMs = DefaultDiluteSettleMs
	}

	if s.Unmatched == "" {
		s.Unmatched = DefaultUnmatched
	}

	if s.Diag.Output == "" {
		s.Diag.Output = DefaultDiagOutput
	}
	if s.Diag.Level == "" {
		s.Diag.Level = DefaultDiagLevel
	}
	if s.Diag.Baud == 0 {
		s.Diag.Baud = DefaultBaud
	}

	if s.Mirror != nil && s.Mirror.TimeoutMs == 0 {
		s.Mirror.TimeoutMs = DefaultMirrorTimeout
	}

	// ASCII already validated
	if len(s.DeviceName) > deviceNameMaxChars {
		s.DeviceName = s.DeviceName[:deviceNameMaxChars]
	}
}
