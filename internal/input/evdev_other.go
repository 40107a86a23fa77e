//go:build !linux

package input

import (
	"context"
	"fmt"

	"github.com/delingren/walle-2/internal/eventbus"
)

// EvdevReader is only available on Linux.
type EvdevReader struct{}

// NewEvdevReader creates a stub reader on non-Linux platforms.
func NewEvdevReader(device string, keyCode uint16, bus *eventbus.Bus) *EvdevReader {
	return &EvdevReader{}
}

// Run always fails: there is no evdev here.
func (r *EvdevReader) Run(ctx context.Context) error {
	return fmt.Errorf("evdev input requires linux")
}
