// internal/gpio/gpio.go
package gpio

import "fmt"

// Pin is a backend line number. NoPin marks an unwired role.
type Pin int

const NoPin Pin = -1

// Wired reports whether p refers to a physical line.
func (p Pin) Wired() bool { return p >= 0 }

// Level is an electrical level.
type Level uint8

const (
	Low  Level = 0
	High Level = 1
)

func (l Level) String() string {
	if l == Low {
		return "low"
	}
	return "high"
}

// Driver is the GPIO sink the controller talks to.
// Implementations must treat NoPin as a no-op.
type Driver interface {
	SetupInput(p Pin) error // input with pull-up
	SetupOutput(p Pin, initial Level) error
	Read(p Pin) (Level, error)
	Write(p Pin, l Level) error
	Close() error
}

// ---- backend selection ----

const (
	BackendSim     = "sim"
	BackendRPIO    = "rpio"
	BackendChardev = "chardev"
)

// Opener constructs a backend. Registered by backend packages.
type Opener func(chip string) (Driver, error)

var openers = map[string]Opener{
	BackendSim: func(string) (Driver, error) { return NewSim(), nil },
}

// Register makes a backend available to Open.
func Register(name string, fn Opener) {
	openers[name] = fn
}

// Open returns the named backend.
func Open(backend, chip string) (Driver, error) {
	fn, ok := openers[backend]
	if !ok {
		return nil, fmt.Errorf("gpio: unknown backend %q", backend)
	}
	d, err := fn(chip)
	if err != nil {
		return nil, fmt.Errorf("gpio: open %s: %w", backend, err)
	}
	return d, nil
}
