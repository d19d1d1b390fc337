package audio

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestWAVRoundTrip verifies a rendered buffer survives encode and decode
func TestWAVRoundTrip(t *testing.T) {
	c := NewComposer(&AudioConfig{SampleRate: 8000, Duration: 500 * time.Millisecond})
	buf, err := c.Synthesize(testParams(11))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	path := filepath.Join(t.TempDir(), "out.wav")
	if err := WriteWAV(path, buf, 1); err != nil {
		t.Fatalf("WriteWAV failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()

	got, err := ReadWAV(f)
	if err != nil {
		t.Fatalf("ReadWAV failed: %v", err)
	}

	if got.SampleRate != 8000 {
		t.Errorf("Expected sample rate 8000, got %d", got.SampleRate)
	}
	if got.Len() != buf.Len() {
		t.Fatalf("Expected %d frames, got %d", buf.Len(), got.Len())
	}

	// 16-bit quantization plus the limiter knee
	const tolerance = 3.0 / 32767
	for i := range buf.Left {
		want := softLimit(buf.Left[i])
		if math.Abs(got.Left[i]-want) > tolerance {
			t.Fatalf("Frame %d: expected %v, got %v", i, want, got.Left[i])
		}
	}
}

// TestWAVLimitsPeaks verifies out-of-range samples are limited, not wrapped
func TestWAVLimitsPeaks(t *testing.T) {
	buf := NewAudioBuffer(8000, 4)
	buf.Left[0], buf.Right[0] = 3, -3
	buf.Left[1], buf.Right[1] = 0.5, -0.5

	path := filepath.Join(t.TempDir(), "peak.wav")
	if err := WriteWAV(path, buf, 1); err != nil {
		t.Fatalf("WriteWAV failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()

	got, err := ReadWAV(f)
	if err != nil {
		t.Fatalf("ReadWAV failed: %v", err)
	}
	if got.Left[0] <= 0.8 || got.Right[0] >= -0.8 {
		t.Errorf("Expected limited peaks above knee, got %v %v", got.Left[0], got.Right[0])
	}
	if math.Abs(got.Left[1]-0.5) > 2.0/32767 {
		t.Errorf("Expected 0.5 below the knee, got %v", got.Left[1])
	}
}

// TestWriteWAVInvalidBuffer verifies shape validation before writing
func TestWriteWAVInvalidBuffer(t *testing.T) {
	buf := &AudioBuffer{SampleRate: 8000, Left: make([]float64, 2)}
	path := filepath.Join(t.TempDir(), "bad.wav")
	if err := WriteWAV(path, buf, 1); err == nil {
		t.Error("Expected error for mismatched channels")
	}
}
