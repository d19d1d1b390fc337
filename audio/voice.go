package audio

import (
	"math"

	"github.com/lixenwraith/musicflow/core"
	"github.com/lixenwraith/musicflow/parameter"
)

// DrumHit is one percussion trigger on the render timeline
type DrumHit struct {
	Offset    int // Frame index where the voice starts
	Kind      core.DrumKind
	Amplitude float64
}

// Frames returns the voice length in frames at sampleRate
func (h DrumHit) Frames(sampleRate int) int {
	switch h.Kind {
	case core.DrumKick:
		return parameter.SamplesFor(parameter.KickDuration, sampleRate)
	case core.DrumSnare:
		return parameter.SamplesFor(parameter.SnareDuration, sampleRate)
	default:
		return 0
	}
}

// AddKick mixes a kick at start: sine with falling pitch and exponential decay
func AddKick(buf *AudioBuffer, start int, amplitude float64) {
	sr := float64(buf.SampleRate)
	n := parameter.SamplesFor(parameter.KickDuration, buf.SampleRate)

	for i := 0; i < n && start+i < buf.Len(); i++ {
		t := float64(i) / sr
		env := math.Exp(-t * parameter.KickDecayRate)
		// Exponential pitch drop
		freq := parameter.KickBaseFreq * math.Exp(-t*parameter.KickSweepRate)

		s := math.Sin(2*math.Pi*freq*t) * amplitude * env * parameter.KickGain
		buf.Left[start+i] += s
		buf.Right[start+i] += s
	}
}

// AddSnare mixes a snare at start: decaying white noise burst
// Noise comes from rng so renders stay reproducible
func AddSnare(buf *AudioBuffer, start int, amplitude float64, rng *SeededRandom) {
	sr := float64(buf.SampleRate)
	n := parameter.SamplesFor(parameter.SnareDuration, buf.SampleRate)

	for i := 0; i < n && start+i < buf.Len(); i++ {
		t := float64(i) / sr
		env := math.Exp(-t * parameter.SnareDecayRate)

		s := (rng.Random()*2 - 1) * amplitude * env * parameter.SnareGain
		buf.Left[start+i] += s
		buf.Right[start+i] += s
	}
}

// playHit dispatches a hit to its voice
func playHit(buf *AudioBuffer, hit DrumHit, rng *SeededRandom) {
	if hit.Offset < 0 || hit.Offset >= buf.Len() {
		return
	}
	switch hit.Kind {
	case core.DrumKick:
		AddKick(buf, hit.Offset, hit.Amplitude)
	case core.DrumSnare:
		AddSnare(buf, hit.Offset, hit.Amplitude, rng)
	}
}
