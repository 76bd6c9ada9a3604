// internal/diag/sink.go
package diag

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/tamzrod/valve-sequencer/internal/mask"
)

// Module keys, one per component logger.
var LogKey = struct {
	Module string
	Device string
}{
	Module: "module",
	Device: "device",
}

// Sink is the line-oriented diagnostic log of the controller.
// Writes are best-effort: a failing writer never blocks or stops the machine.
type Sink struct {
	root zerolog.Logger
	log  zerolog.Logger
}

// New builds a plain-text sink on w.
func New(w io.Writer, level zerolog.Level) *Sink {
	console := zerolog.ConsoleWriter{
		Out:        bestEffort{w},
		NoColor:    true,
		TimeFormat: "15:04:05.000",
	}
	root := zerolog.New(console).Level(level).With().Timestamp().Logger()
	return &Sink{
		root: root,
		log:  root.With().Str(LogKey.Module, "machine").Logger(),
	}
}

// FromLogger wraps an existing logger (used by tests with zerolog.Nop()).
func FromLogger(l zerolog.Logger) *Sink {
	return &Sink{root: l, log: l.With().Str(LogKey.Module, "machine").Logger()}
}

// Root returns the process logger for other modules.
func (s *Sink) Root() zerolog.Logger {
	return s.root
}

// Banner is the one-time startup announcement.
func (s *Sink) Banner(version, device string) {
	s.root.Info().
		Str("version", version).
		Str(LogKey.Device, device).
		Msg("valve sequencer starting")
}

// ---- machine.Logger ----

// Transition records one resolved press.
func (s *Sink) Transition(group string, buttons, plan mask.Mask) {
	s.log.Info().
		Str("group", group).
		Stringer("buttons", buttons).
		Uint16("buttons_dec", buttons.Decimal()).
		Stringer("plan", plan).
		Uint16("plan_dec", plan.Decimal()).
		Msg(group + " pressed")
}

// DiluteMode narrates which mode selected the phase pair.
func (s *Sink) DiluteMode(mode mask.Position, ok bool) {
	if !ok {
		s.log.Warn().Str("mode", "???").Msg("dilute: no mode selected")
		return
	}
	s.log.Info().Stringer("mode", mode).Msg("dilute: mode selected")
}

// DiluteRejected records a dilute press outside Analyze.
func (s *Sink) DiluteRejected(reason string) {
	s.log.Warn().Str("reason", reason).Msg("dilute rejected")
}

// Unmatched records a button state with no command row.
func (s *Sink) Unmatched(buttons, plan mask.Mask, policy string) {
	s.log.Warn().
		Stringer("buttons", buttons).
		Uint16("buttons_dec", buttons.Decimal()).
		Stringer("plan", plan).
		Uint16("plan_dec", plan.Decimal()).
		Str("policy", policy).
		Msg("no command for button state")
}

// ReadFailed records an input read error; the button is treated as released.
func (s *Sink) ReadFailed(p mask.Position, err error) {
	s.log.Error().Err(err).Stringer("position", p).Msg("button read failed")
}

// ---- helpers ----

// bestEffort drops write errors so a dead diagnostic port cannot
// surface as a zerolog error on stderr every line.
type bestEffort struct {
	w io.Writer
}

func (b bestEffort) Write(p []byte) (int, error) {
	_, _ = b.w.Write(p)
	return len(p), nil
}
