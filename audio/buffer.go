package audio

import (
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/musicflow/parameter"
)

// AudioBuffer is a fixed-length stereo float64 buffer at unity gain
// Stages mix into it additively; length never changes after allocation
type AudioBuffer struct {
	SampleRate int
	Left       []float64
	Right      []float64
}

// NewAudioBuffer allocates a silent buffer of frames length
func NewAudioBuffer(sampleRate, frames int) *AudioBuffer {
	if frames < 0 {
		frames = 0
	}
	return &AudioBuffer{
		SampleRate: sampleRate,
		Left:       make([]float64, frames),
		Right:      make([]float64, frames),
	}
}

// Len returns frames per channel
func (b *AudioBuffer) Len() int {
	return len(b.Left)
}

// Seconds returns buffer length in seconds
func (b *AudioBuffer) Seconds() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(b.Len()) / float64(b.SampleRate)
}

// Duration returns buffer length as a time.Duration
func (b *AudioBuffer) Duration() time.Duration {
	return time.Duration(b.Seconds() * float64(time.Second))
}

// Validate checks channel shape
func (b *AudioBuffer) Validate() error {
	if len(b.Left) != len(b.Right) {
		return fmt.Errorf("%w: left=%d right=%d", ErrBufferShape, len(b.Left), len(b.Right))
	}
	if b.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrBufferShape, b.SampleRate)
	}
	return nil
}

// Peak returns the largest absolute sample across both channels
func (b *AudioBuffer) Peak() float64 {
	peak := 0.0
	for i := range b.Left {
		if v := math.Abs(b.Left[i]); v > peak {
			peak = v
		}
		if v := math.Abs(b.Right[i]); v > peak {
			peak = v
		}
	}
	return peak
}

// Equal reports bit-identical content
func (b *AudioBuffer) Equal(o *AudioBuffer) bool {
	if b.SampleRate != o.SampleRate || len(b.Left) != len(o.Left) || len(b.Right) != len(o.Right) {
		return false
	}
	for i := range b.Left {
		if math.Float64bits(b.Left[i]) != math.Float64bits(o.Left[i]) ||
			math.Float64bits(b.Right[i]) != math.Float64bits(o.Right[i]) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy
func (b *AudioBuffer) Clone() *AudioBuffer {
	c := NewAudioBuffer(b.SampleRate, b.Len())
	copy(c.Left, b.Left)
	copy(c.Right, b.Right)
	return c
}

// Mix adds o into b scaled by gain; o must match b's length
func (b *AudioBuffer) Mix(o *AudioBuffer, gain float64) error {
	if o.Len() != b.Len() || o.SampleRate != b.SampleRate {
		return fmt.Errorf("%w: mix %d@%d into %d@%d", ErrBufferShape, o.Len(), o.SampleRate, b.Len(), b.SampleRate)
	}
	for i := range b.Left {
		b.Left[i] += o.Left[i] * gain
		b.Right[i] += o.Right[i] * gain
	}
	return nil
}

// Format returns the beep format used for encoding and playback
func (b *AudioBuffer) Format() beep.Format {
	return beep.Format{
		SampleRate:  beep.SampleRate(b.SampleRate),
		NumChannels: parameter.AudioChannels,
		Precision:   parameter.AudioPrecision,
	}
}

// Streamer returns a seekable beep stream over the buffer
// The buffer must not be mutated while streaming
func (b *AudioBuffer) Streamer() beep.StreamSeeker {
	return &bufferStreamer{buf: b}
}

// bufferStreamer streams an AudioBuffer as beep stereo frames
type bufferStreamer struct {
	buf *AudioBuffer
	pos int
}

func (s *bufferStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	if s.pos >= s.buf.Len() {
		return 0, false
	}
	for i := range samples {
		if s.pos >= s.buf.Len() {
			return i, true
		}
		samples[i][0] = s.buf.Left[s.pos]
		samples[i][1] = s.buf.Right[s.pos]
		s.pos++
	}
	return len(samples), true
}

func (s *bufferStreamer) Err() error { return nil }

func (s *bufferStreamer) Len() int { return s.buf.Len() }

func (s *bufferStreamer) Position() int { return s.pos }

func (s *bufferStreamer) Seek(p int) error {
	if p < 0 || p > s.buf.Len() {
		return fmt.Errorf("seek %d out of range [0, %d]", p, s.buf.Len())
	}
	s.pos = p
	return nil
}
