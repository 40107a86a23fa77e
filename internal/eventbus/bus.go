// Package eventbus carries input events into the control loop. The bus is a
// bounded queue with exactly one consumer: publishers never block, and the
// loop drains whatever has arrived once per iteration.
package eventbus

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// EventType represents the type of event
type EventType string

const (
	EventTypeButton EventType = "button"
	EventTypeRemote EventType = "remote"
	EventTypeAction EventType = "action"
)

// DefaultQueueSize bounds the pending event queue.
const DefaultQueueSize = 100

// Event represents an event in the system
type Event struct {
	ID   string
	Type EventType
	Data map[string]interface{}
}

// NewEvent creates an event with a fresh correlation id.
func NewEvent(eventType EventType, data map[string]interface{}) Event {
	return Event{
		ID:   uuid.New().String(),
		Type: eventType,
		Data: data,
	}
}

// ButtonEvent builds a push-button press event.
func ButtonEvent() Event {
	return NewEvent(EventTypeButton, nil)
}

// RemoteEvent builds a decoded remote frame event.
func RemoteEvent(protocol string, code uint32) Event {
	return NewEvent(EventTypeRemote, map[string]interface{}{
		"protocol": protocol,
		"code":     float64(code),
	})
}

// ActionEvent builds a request to run a named action.
func ActionEvent(name string, args map[string]interface{}) Event {
	return NewEvent(EventTypeAction, map[string]interface{}{
		"action": name,
		"args":   args,
	})
}

// Bus provides the input event queue
type Bus struct {
	queue chan Event

	// Shutdown signaling - closing this channel signals publishers to stop
	// Using a channel in select is race-free (unlike mutex + bool)
	closing   chan struct{}
	closeOnce sync.Once
}

// New creates a new event bus with default settings
func New() *Bus {
	return NewWithSize(DefaultQueueSize)
}

// NewWithSize creates a new event bus with a custom queue size
func NewWithSize(queueSize int) *Bus {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	b := &Bus{
		queue:   make(chan Event, queueSize),
		closing: make(chan struct{}),
	}

	log.Debug().Int("queue_size", queueSize).Msg("Event bus started")
	return b
}

// Publish enqueues an event for the control loop.
// Non-blocking: if the queue is full or the bus is closing, events are dropped.
// Uses channel-based signaling for race-free shutdown detection.
func (b *Bus) Publish(event Event) {
	select {
	case <-b.closing:
		log.Warn().Str("event_type", string(event.Type)).Msg("Event bus closing, dropping event")
	case b.queue <- event:
		// Successfully queued
	default:
		// Queue full - drop event with warning
		log.Warn().
			Str("event_type", string(event.Type)).
			Msg("Event bus queue full, dropping event")
	}
}

// Drain hands every queued event to fn and returns without blocking when the
// queue is empty. Only the control loop may call this.
func (b *Bus) Drain(fn func(Event)) {
	for {
		select {
		case event := <-b.queue:
			fn(event)
		default:
			return
		}
	}
}

// Pending returns the number of queued events.
func (b *Bus) Pending() int {
	return len(b.queue)
}

// Close signals publishers to stop sending.
// The queue itself is never closed, avoiding send-on-closed-channel panics;
// undrained events are garbage collected with the bus.
func (b *Bus) Close() {
	b.closeOnce.Do(func() {
		close(b.closing)
	})
}
