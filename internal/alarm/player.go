// Package alarm plays the looping emergency siren.
package alarm

import (
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"github.com/pkg/errors"

	"women-safety/internal/logger"
)

var (
	// ErrNoSound means the sound asset does not exist.
	ErrNoSound = errors.New("alarm sound not found")
	// ErrPlayback covers decode and audio device failures.
	ErrPlayback = errors.New("alarm playback failed")
)

// Player starts and stops the alarm.
type Player interface {
	Play() error
	Stop()
	Playing() bool
}

// WavPlayer loops a WAV file through the default audio device.
type WavPlayer struct {
	path   string
	logger logger.Logger

	mu          sync.Mutex
	speakerRate beep.SampleRate
	speakerInit bool
	current     beep.StreamSeekCloser
}

func NewWavPlayer(path string, log logger.Logger) *WavPlayer {
	return &WavPlayer{path: path, logger: log}
}

// Play starts looping the sound. Calling Play while already playing is a no-op.
func (p *WavPlayer) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != nil {
		return nil
	}

	f, err := os.Open(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(ErrNoSound, "%s", p.path)
		}
		return errors.Wrapf(ErrPlayback, "open %s: %v", p.path, err)
	}

	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return errors.Wrapf(ErrPlayback, "decode %s: %v", p.path, err)
	}

	if !p.speakerInit {
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
			streamer.Close()
			return errors.Wrapf(ErrPlayback, "init audio device: %v", err)
		}
		p.speakerInit = true
		p.speakerRate = format.SampleRate
	}

	var s beep.Streamer = beep.Loop(-1, streamer)
	if format.SampleRate != p.speakerRate {
		s = beep.Resample(4, format.SampleRate, p.speakerRate, s)
	}
	speaker.Play(s)
	p.current = streamer

	p.logger.Info("Alarm", "alarm started", map[string]interface{}{
		"path":        p.path,
		"sample_rate": int(format.SampleRate),
	})
	return nil
}

// Stop silences the alarm if it is playing.
func (p *WavPlayer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		return
	}
	speaker.Clear()
	if err := p.current.Close(); err != nil {
		p.logger.Warning("Alarm", "closing sound stream failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	p.current = nil
	p.logger.Info("Alarm", "alarm stopped", nil)
}

func (p *WavPlayer) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current != nil
}

// Shutdown stops playback for the shutdown manager.
func (p *WavPlayer) Shutdown() {
	p.Stop()
}
