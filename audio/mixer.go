package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/lixenwraith/musicflow/parameter"
)

// newVolume wraps s with a linear gain
// math.Log2(0) is -Inf, so 0 volume becomes a silent stream
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// softLimit compresses peaks above the knee, then hard clips to [-1, 1]
func softLimit(v float64) float64 {
	knee := parameter.LimiterKnee
	if v > knee {
		v = knee + (1-knee)*(1.0-1.0/(1.0+(v-knee)*parameter.LimiterSlope))
	} else if v < -knee {
		v = -knee - (1-knee)*(1.0-1.0/(1.0+(-v-knee)*parameter.LimiterSlope))
	}

	if v > 1.0 {
		v = 1.0
	} else if v < -1.0 {
		v = -1.0
	}
	return v
}

// framesToBytes converts stereo frames to interleaved int16 LE bytes
// out must hold len(frames)*AudioBytesPerFrame bytes
func framesToBytes(frames [][2]float64, out []byte) {
	for i, f := range frames {
		l := int16(softLimit(f[0]) * 32767)
		r := int16(softLimit(f[1]) * 32767)
		idx := i * parameter.AudioBytesPerFrame
		binary.LittleEndian.PutUint16(out[idx:], uint16(l))
		binary.LittleEndian.PutUint16(out[idx+2:], uint16(r))
	}
}

// writePCM streams s to w as raw s16le stereo in fixed chunks
// Returns frames written
func writePCM(w io.Writer, s beep.Streamer, stop <-chan struct{}) (int, error) {
	chunk := make([][2]float64, parameter.PipeChunkFrames)
	out := make([]byte, parameter.PipeChunkFrames*parameter.AudioBytesPerFrame)
	total := 0

	for {
		select {
		case <-stop:
			return total, ErrSinkClosed
		default:
		}

		n, ok := s.Stream(chunk)
		if n > 0 {
			framesToBytes(chunk[:n], out)
			if _, err := w.Write(out[:n*parameter.AudioBytesPerFrame]); err != nil {
				return total, fmt.Errorf("%w: %v", ErrPipeClosed, err)
			}
			total += n
		}
		if !ok {
			return total, s.Err()
		}
	}
}
