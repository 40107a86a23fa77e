package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/vorbis"
	"github.com/rs/zerolog/log"
)

const beepSampleRate beep.SampleRate = 44100

// maxVolume matches the 0..30 scale of the original sound board.
const maxVolume = 30

// BeepPlayer plays ogg/vorbis tracks through the host sound device. Tracks
// are files in a directory whose names start with the track number
// ("2.ogg", "002-startup.ogg"); they are decoded into memory once at Begin.
type BeepPlayer struct {
	dir string

	mu     sync.Mutex
	tracks map[int]*beep.Buffer
	volume int
	ready  bool
}

// NewBeepPlayer creates a player over the given track directory.
func NewBeepPlayer(dir string) *BeepPlayer {
	return &BeepPlayer{
		dir:    dir,
		tracks: make(map[int]*beep.Buffer),
		volume: 20,
	}
}

// Begin initializes the sound device and preloads all tracks. This is the
// startup call and may take real time; afterwards playback never blocks.
func (p *BeepPlayer) Begin() error {
	if p.dir == "" {
		return fmt.Errorf("no track directory configured")
	}
	if err := speaker.Init(beepSampleRate, int(beepSampleRate)/10); err != nil {
		return fmt.Errorf("failed to initialize speaker: %w", err)
	}

	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return fmt.Errorf("failed to read track directory: %w", err)
	}

	loaded := make([]int, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		track, ok := parseTrackNumber(entry.Name())
		if !ok {
			continue
		}

		path := filepath.Join(p.dir, entry.Name())
		f, err := os.Open(path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Failed to open audio track")
			continue
		}
		streamer, format, err := vorbis.Decode(f)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Failed to decode audio track")
			f.Close()
			continue
		}

		buffer := beep.NewBuffer(format)
		buffer.Append(streamer)
		p.tracks[track] = buffer
		loaded = append(loaded, track)

		streamer.Close()
		f.Close()
	}

	sort.Ints(loaded)
	log.Info().Str("dir", p.dir).Ints("tracks", loaded).Msg("Audio tracks loaded")

	p.mu.Lock()
	p.ready = true
	p.mu.Unlock()
	return nil
}

// SetVolume sets the playback level on the sound board's 0..30 scale.
func (p *BeepPlayer) SetVolume(level int) {
	if level < 0 {
		level = 0
	}
	if level > maxVolume {
		level = maxVolume
	}

	p.mu.Lock()
	p.volume = level
	p.mu.Unlock()

	log.Debug().Int("level", level).Msg("Audio volume set")
}

// PlayTrack starts a track from the beginning. Unknown tracks and playback
// before Begin are logged and ignored.
func (p *BeepPlayer) PlayTrack(track int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.ready {
		log.Debug().Int("track", track).Msg("Audio not ready, dropping playback")
		return
	}
	buffer, ok := p.tracks[track]
	if !ok {
		log.Warn().Int("track", track).Msg("Unknown audio track")
		return
	}

	log.Debug().Int("track", track).Msg("Audio track played")
	speaker.Play(&effects.Volume{
		Streamer: buffer.Streamer(0, buffer.Len()),
		Base:     2,
		Volume:   volumeGain(p.volume),
		Silent:   p.volume == 0,
	})
}

// Close releases the sound device.
func (p *BeepPlayer) Close() error {
	p.mu.Lock()
	ready := p.ready
	p.ready = false
	p.mu.Unlock()

	if ready {
		speaker.Close()
	}
	return nil
}

// volumeGain converts the board's linear 0..30 level into a base-2 gain for
// the volume effect: 30 is unity, each 5 steps halve the output.
func volumeGain(level int) float64 {
	return float64(level-maxVolume) / 5.0
}

// parseTrackNumber extracts the leading track number from a file name.
func parseTrackNumber(name string) (int, bool) {
	i := 0
	for i < len(name) && name[i] >= '0' && name[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, false
	}
	track, err := strconv.Atoi(name[:i])
	if err != nil {
		return 0, false
	}
	return track, true
}
