package audio

import (
	"fmt"
	"io"
	"os"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

// EncodeWAV writes buf as 16-bit stereo PCM WAV, scaled by gain
// Samples beyond [-1, 1] are limited the same way as pipe output
func EncodeWAV(w io.WriteSeeker, buf *AudioBuffer, gain float64) error {
	if err := buf.Validate(); err != nil {
		return err
	}
	s := limit(newVolume(buf.Streamer(), gain))
	if err := wav.Encode(w, s, buf.Format()); err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}
	return nil
}

// WriteWAV renders buf into a WAV file at path
func WriteWAV(path string, buf *AudioBuffer, gain float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := EncodeWAV(f, buf, gain); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadWAV decodes a WAV stream into an AudioBuffer
func ReadWAV(r io.Reader) (*AudioBuffer, error) {
	s, format, err := wav.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	defer s.Close()

	out := &AudioBuffer{SampleRate: int(format.SampleRate)}
	chunk := make([][2]float64, 1024)
	for {
		n, ok := s.Stream(chunk)
		for i := 0; i < n; i++ {
			out.Left = append(out.Left, chunk[i][0])
			out.Right = append(out.Right, chunk[i][1])
		}
		if !ok {
			break
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	return out, nil
}

// limit applies the soft limiter to a stream in place
func limit(s beep.Streamer) beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		n, ok = s.Stream(samples)
		for i := 0; i < n; i++ {
			samples[i][0] = softLimit(samples[i][0])
			samples[i][1] = softLimit(samples[i][1])
		}
		return n, ok
	})
}
