package audio

import (
	"math"

	"github.com/lixenwraith/musicflow/parameter"
)

// RenderMelody mixes melody into buf with additive sine synthesis
// The buffer is split into equal slots, one per note, looping the sequence
// rng draw order per frame: pitch jitter, amplitude jitter, stereo scale
func RenderMelody(buf *AudioBuffer, melody []float64, params MusicParameters, rng *SeededRandom) error {
	if len(melody) == 0 {
		return ErrEmptyNotePool
	}
	if buf.Len() == 0 || buf.SampleRate <= 0 {
		return nil
	}

	sr := float64(buf.SampleRate)
	noteDuration := buf.Seconds() / float64(len(melody))
	energy := params.EnergyLevel
	variation := params.Variation
	experimental := params.Experimental
	withPartial := experimental > parameter.ExperimentalMinimum

	for i := range buf.Left {
		t := float64(i) / sr

		noteIndex := int(math.Floor(t/noteDuration)) % len(melody)
		freq := melody[noteIndex]
		freq *= 1 + (rng.Random()-0.5)*variation*parameter.PitchJitterScale

		// Linear fade at slot edges
		progress := (t - float64(noteIndex)*noteDuration) / noteDuration
		amp := energy * parameter.MelodyGain
		if progress < parameter.MelodyFadeFraction {
			amp *= progress / parameter.MelodyFadeFraction
		} else if progress > 1-parameter.MelodyFadeFraction {
			amp *= (1 - progress) / parameter.MelodyFadeFraction
		}
		amp *= 1 + (rng.Random()-0.5)*variation*parameter.AmplitudeJitterScale
		if amp < 0 {
			amp = 0
		}

		phase := 2 * math.Pi * freq * t
		sample := math.Sin(phase) * amp
		sample += math.Sin(phase*2) * amp * parameter.SecondHarmonicGain
		sample += math.Sin(phase*3) * amp * parameter.ThirdHarmonicGain
		if withPartial {
			sample += math.Sin(phase*parameter.ExperimentalRatio) * amp * experimental * parameter.ExperimentalGain
		}

		buf.Left[i] += sample
		buf.Right[i] += sample * (parameter.StereoFloor + rng.Random()*parameter.StereoSpread)
	}
	return nil
}
