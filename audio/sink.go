package audio

import (
	"fmt"
)

// Sink plays finished buffers
// Play blocks until the buffer finished or Stop was called
type Sink interface {
	Name() string
	Play(buf *AudioBuffer) error
	Stop()
	Close() error
}

// NullSink discards audio, used when playback is disabled
type NullSink struct{}

func (NullSink) Name() string                { return BackendNameNone }
func (NullSink) Play(buf *AudioBuffer) error { return buf.Validate() }
func (NullSink) Stop()                       {}
func (NullSink) Close() error                { return nil }

// OpenSink builds the sink named by cfg.Backend
// A disabled config always yields a NullSink
func OpenSink(cfg *AudioConfig) (Sink, error) {
	if cfg == nil {
		cfg = DefaultAudioConfig()
	}
	if !cfg.Enabled {
		return NullSink{}, nil
	}

	switch cfg.Backend {
	case BackendNameSpeaker:
		return NewSpeakerSink(cfg)
	case BackendNamePipe:
		return NewPipeSink(cfg)
	case BackendNameNone, "":
		return NullSink{}, nil
	default:
		return nil, fmt.Errorf("unknown audio backend %q", cfg.Backend)
	}
}
