// internal/gpio/chardev/doc.go

// Package chardev registers the "chardev" GPIO backend on Linux.
// On other platforms importing it registers nothing.
package chardev
