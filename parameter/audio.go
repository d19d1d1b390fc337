package parameter

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate    = 44100
	AudioChannels      = 2
	AudioBitDepth      = 16
	AudioBytesPerFrame = AudioChannels * (AudioBitDepth / 8) // 4 bytes
	AudioPrecision     = AudioBitDepth / 8                   // bytes per sample for WAV export
)

// Playback Timing
const (
	// SpeakerBufferDuration determines device latency
	SpeakerBufferDuration = 100 * time.Millisecond

	// PipeChunkFrames is frames written to a backend pipe per write call
	PipeChunkFrames = (AudioSampleRate * 50) / 1000 // 2205

	// ResampleQuality passed to beep.Resample when sink and buffer rates differ
	ResampleQuality = 4
)

// Output limiter
const (
	LimiterKnee  = 0.8 // Soft limiting starts here
	LimiterSlope = 5.0
)

// Master volume defaults
const (
	DefaultMasterVolume = 0.8
	MinSampleRate       = 4000
	MaxSampleRate       = 192000
)
