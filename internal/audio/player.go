// Package audio drives the sound board: a fire-and-forget player behind an
// interface, and a sequencer that schedules track playback without blocking
// the control loop.
package audio

import "github.com/rs/zerolog/log"

// Player is the audio backend. Begin is called once at startup and is the
// only call allowed to take real time; SetVolume and PlayTrack are
// fire-and-forget and must never block or fail loudly.
type Player interface {
	Begin() error
	SetVolume(level int)
	PlayTrack(track int)
	Close() error
}

// NullPlayer logs playback instead of producing sound. It is the default
// backend and the fallback when audio hardware is unavailable.
type NullPlayer struct{}

// NewNullPlayer creates a logging-only player.
func NewNullPlayer() *NullPlayer {
	return &NullPlayer{}
}

// Begin does nothing.
func (p *NullPlayer) Begin() error { return nil }

// SetVolume logs the requested level.
func (p *NullPlayer) SetVolume(level int) {
	log.Debug().Int("level", level).Msg("Audio volume set")
}

// PlayTrack logs the requested track.
func (p *NullPlayer) PlayTrack(track int) {
	log.Debug().Int("track", track).Msg("Audio track played")
}

// Close does nothing.
func (p *NullPlayer) Close() error { return nil }
