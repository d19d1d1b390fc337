package audio

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lixenwraith/musicflow/parameter"
)

// Playback backends selectable by config
const (
	BackendNameSpeaker = "speaker"
	BackendNamePipe    = "pipe"
	BackendNameNone    = "none"
)

// AudioConfig holds render geometry and playback settings
type AudioConfig struct {
	Enabled      bool
	MasterVolume float64       // 0.0-1.0, applied at playback only
	SampleRate   int           // Render and playback rate
	Duration     time.Duration // Length of one composition
	Backend      string        // speaker, pipe or none
}

// DefaultAudioConfig returns the stock configuration
func DefaultAudioConfig() *AudioConfig {
	return &AudioConfig{
		Enabled:      true,
		MasterVolume: parameter.DefaultMasterVolume,
		SampleRate:   parameter.AudioSampleRate,
		Duration:     parameter.CompositionDuration,
		Backend:      BackendNameSpeaker,
	}
}

// Frames returns frames per composition for this config
func (c *AudioConfig) Frames() int {
	return parameter.SamplesFor(c.Duration, c.SampleRate)
}

// LoadAudioConfig loads audio configuration from environment variables
func LoadAudioConfig() *AudioConfig {
	cfg := DefaultAudioConfig()

	if enabled := os.Getenv("MUSICFLOW_AUDIO_ENABLED"); enabled != "" {
		if val, err := strconv.ParseBool(enabled); err == nil {
			cfg.Enabled = val
		}
	}

	// Master volume 0-100 converted to 0.0-1.0
	if volume := os.Getenv("MUSICFLOW_MASTER_VOLUME"); volume != "" {
		if val, err := strconv.Atoi(volume); err == nil {
			cfg.MasterVolume = clampVolume(float64(val) / 100.0)
		}
	}

	if sampleRate := os.Getenv("MUSICFLOW_SAMPLE_RATE"); sampleRate != "" {
		if val, err := strconv.Atoi(sampleRate); err == nil && val > 0 {
			cfg.SampleRate = clampSampleRate(val)
		}
	}

	if duration := os.Getenv("MUSICFLOW_DURATION"); duration != "" {
		if val, err := time.ParseDuration(duration); err == nil && val > 0 {
			cfg.Duration = val
		}
	}

	if backend := os.Getenv("MUSICFLOW_BACKEND"); backend != "" {
		switch b := strings.ToLower(backend); b {
		case BackendNameSpeaker, BackendNamePipe, BackendNameNone:
			cfg.Backend = b
		}
	}

	return cfg
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampSampleRate(sr int) int {
	if sr < parameter.MinSampleRate {
		return parameter.MinSampleRate
	}
	if sr > parameter.MaxSampleRate {
		return parameter.MaxSampleRate
	}
	return sr
}
