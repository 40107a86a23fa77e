//go:build linux

package input

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"syscall"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/unix"

	"github.com/delingren/walle-2/internal/eventbus"
)

// inputEvent mirrors the kernel's struct input_event on 64-bit platforms.
type inputEvent struct {
	Sec   int64
	Usec  int64
	Type  uint16
	Code  uint16
	Value int32
}

// Kernel input event constants.
const (
	evKey      = 0x01
	keyPressed = 1
)

// EvdevReader publishes button presses from a Linux input device. Key events
// from evdev are already debounced by the kernel, so presses go straight to
// the bus.
type EvdevReader struct {
	device  string
	keyCode uint16
	bus     *eventbus.Bus
}

// NewEvdevReader creates a reader for the device. A zero keyCode accepts any
// key on the device.
func NewEvdevReader(device string, keyCode uint16, bus *eventbus.Bus) *EvdevReader {
	return &EvdevReader{device: device, keyCode: keyCode, bus: bus}
}

// Run reads the device and publishes press events until the context is
// cancelled or the device goes away.
func (r *EvdevReader) Run(ctx context.Context) error {
	f, err := os.Open(r.device)
	if err != nil {
		return fmt.Errorf("failed to open input device: %w", err)
	}
	defer f.Close()

	// Create epoll instance
	epfd, err := unix.EpollCreate1(0)
	if err != nil {
		return fmt.Errorf("epoll_create1: %w", err)
	}
	defer unix.Close(epfd)

	fd := int(f.Fd())
	event := unix.EpollEvent{
		Events: unix.EPOLLIN,
		Fd:     int32(fd),
	}
	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, fd, &event); err != nil {
		return fmt.Errorf("epoll_ctl_add: %w", err)
	}

	log.Info().Str("device", r.device).Msg("Button device opened")

	epollEvents := make([]unix.EpollEvent, 8)
	buf := make([]byte, binary.Size(inputEvent{}))
	reader := bytes.NewReader(buf)

	for {
		if ctx.Err() != nil {
			return nil
		}

		// Short timeout so context cancellation is noticed promptly.
		n, err := unix.EpollWait(epfd, epollEvents, 200)
		if err != nil {
			// Handle interrupted system call (e.g., SIGINT)
			if err == syscall.EINTR {
				continue
			}
			return fmt.Errorf("epoll_wait: %w", err)
		}

		for i := 0; i < n; i++ {
			if epollEvents[i].Events&(unix.EPOLLERR|unix.EPOLLHUP) != 0 {
				return fmt.Errorf("input device error/hangup: %s", r.device)
			}

			if _, err := f.Read(buf); err != nil {
				return fmt.Errorf("read from %s: %w", r.device, err)
			}

			// Parse binary event
			reader.Reset(buf)
			var ev inputEvent
			if err := binary.Read(reader, binary.LittleEndian, &ev); err != nil {
				// Skip malformed events
				continue
			}

			if ev.Type != evKey || ev.Value != keyPressed {
				continue
			}
			if r.keyCode != 0 && ev.Code != r.keyCode {
				continue
			}

			log.Debug().Uint16("code", ev.Code).Msg("Button pressed")
			r.bus.Publish(eventbus.ButtonEvent())
		}
	}
}
