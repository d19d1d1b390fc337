package audio

import (
	"math"

	"github.com/lixenwraith/musicflow/parameter"
)

// chordProgression cycles every ChordDuration
var chordProgression = [...][3]float64{
	{261.63, 329.63, 392.00}, // C
	{293.66, 349.23, 440.00}, // Dm
	{329.63, 392.00, 493.88}, // Em
	{349.23, 440.00, 523.25}, // F
}

// RenderHarmony mixes the chord pad into buf
// Only energy affects the pad; harmony complexity is accepted but inert
func RenderHarmony(buf *AudioBuffer, params MusicParameters) {
	if buf.Len() == 0 || buf.SampleRate <= 0 {
		return
	}

	sr := float64(buf.SampleRate)
	chordFrames := parameter.SamplesFor(parameter.ChordDuration, buf.SampleRate)
	if chordFrames < 1 {
		chordFrames = 1
	}
	gain := params.EnergyLevel * parameter.HarmonyGain

	for start := 0; start < buf.Len(); start += chordFrames {
		chord := chordProgression[(start/chordFrames)%len(chordProgression)]

		for j := 0; j < chordFrames && start+j < buf.Len(); j++ {
			t := float64(start+j) / sr
			pad := 0.0
			for _, f := range chord {
				pad += math.Sin(2*math.Pi*f*t) * gain
			}
			buf.Left[start+j] += pad
			buf.Right[start+j] += pad * parameter.HarmonyRightLR
		}
	}
}
