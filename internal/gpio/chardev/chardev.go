// internal/gpio/chardev/chardev.go

//go:build linux

package chardev

import (
	"errors"
	"fmt"
	"sync"

	"github.com/warthog618/gpiod"

	"github.com/tamzrod/valve-sequencer/internal/gpio"
)

const consumer = "valve-sequencer"

func init() {
	gpio.Register(gpio.BackendChardev, func(chip string) (gpio.Driver, error) {
		return Open(chip)
	})
}

// Driver requests lines from a Linux GPIO character device (e.g. gpiochip0).
// Pin numbers are line offsets on that chip.
type Driver struct {
	mu    sync.Mutex
	chip  *gpiod.Chip
	lines map[gpio.Pin]*gpiod.Line
}

// Open opens the named chip.
func Open(chip string) (*Driver, error) {
	if chip == "" {
		return nil, errors.New("chardev: chip name required")
	}
	c, err := gpiod.NewChip(chip, gpiod.WithConsumer(consumer))
	if err != nil {
		return nil, err
	}
	return &Driver{
		chip:  c,
		lines: make(map[gpio.Pin]*gpiod.Line),
	}, nil
}

func (d *Driver) SetupInput(p gpio.Pin) error {
	if !p.Wired() {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.request(p, gpiod.AsInput, gpiod.WithPullUp)
}

func (d *Driver) SetupOutput(p gpio.Pin, initial gpio.Level) error {
	if !p.Wired() {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.request(p, gpiod.AsOutput(int(initial)))
}

func (d *Driver) Read(p gpio.Pin) (gpio.Level, error) {
	if !p.Wired() {
		return gpio.High, nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	l, ok := d.lines[p]
	if !ok {
		return gpio.High, fmt.Errorf("chardev: line %d not requested", p)
	}
	v, err := l.Value()
	if err != nil {
		return gpio.High, err
	}
	if v == 0 {
		return gpio.Low, nil
	}
	return gpio.High, nil
}

func (d *Driver) Write(p gpio.Pin, lv gpio.Level) error {
	if !p.Wired() {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	l, ok := d.lines[p]
	if !ok {
		return fmt.Errorf("chardev: line %d not requested", p)
	}
	return l.SetValue(int(lv))
}

// Close releases every requested line, then the chip.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var last error
	for p, l := range d.lines {
		if err := l.Close(); err != nil {
			last = err
		}
		delete(d.lines, p)
	}
	if err := d.chip.Close(); err != nil {
		last = err
	}
	return last
}

// request (re)requests a line with the given options. Caller holds mu.
func (d *Driver) request(p gpio.Pin, opts ...gpiod.LineReqOption) error {
	if old, ok := d.lines[p]; ok {
		_ = old.Close()
		delete(d.lines, p)
	}
	l, err := d.chip.RequestLine(int(p), opts...)
	if err != nil {
		return fmt.Errorf("chardev: request line %d: %w", p, err)
	}
	d.lines[p] = l
	return nil
}
