// internal/diag/serial.go
package diag

import (
	"errors"
	"fmt"
	"io"

	"go.bug.st/serial"
)

// OpenSerial opens the instrument's diagnostic UART for writing.
func OpenSerial(portName string, baud int) (io.WriteCloser, error) {
	if portName == "" {
		return nil, errors.New("diag: serial port required")
	}
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("diag: open %s: %w", portName, err)
	}
	return port, nil
}
