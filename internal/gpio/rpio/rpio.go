// internal/gpio/rpio/rpio.go
package rpio

import (
	"sync"

	"github.com/stianeikeland/go-rpio/v4"

	"github.com/tamzrod/valve-sequencer/internal/gpio"
)

func init() {
	gpio.Register(gpio.BackendRPIO, func(string) (gpio.Driver, error) {
		return Open()
	})
}

// Driver drives Raspberry Pi header pins (BCM numbering) through /dev/gpiomem.
type Driver struct {
	mu sync.Mutex
}

// Open maps GPIO memory. Only one Driver should be open per process.
func Open() (*Driver, error) {
	if err := rpio.Open(); err != nil {
		return nil, err
	}
	return &Driver{}, nil
}

func (d *Driver) SetupInput(p gpio.Pin) error {
	if !p.Wired() {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	pin := rpio.Pin(p)
	pin.Input()
	pin.PullUp() // GND => button press
	return nil
}

func (d *Driver) SetupOutput(p gpio.Pin, initial gpio.Level) error {
	if !p.Wired() {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	pin := rpio.Pin(p)
	pin.Output()
	pin.Write(toState(initial))
	return nil
}

func (d *Driver) Read(p gpio.Pin) (gpio.Level, error) {
	if !p.Wired() {
		return gpio.High, nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if rpio.Pin(p).Read() == rpio.Low {
		return gpio.Low, nil
	}
	return gpio.High, nil
}

func (d *Driver) Write(p gpio.Pin, l gpio.Level) error {
	if !p.Wired() {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	rpio.Pin(p).Write(toState(l))
	return nil
}

// Close unmaps GPIO memory. Output levels are left as last written.
func (d *Driver) Close() error {
	return rpio.Close()
}

func toState(l gpio.Level) rpio.State {
	if l == gpio.Low {
		return rpio.Low
	}
	return rpio.High
}
