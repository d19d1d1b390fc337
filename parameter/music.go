package parameter

import (
	"math"
	"time"
)

// Composition geometry
const (
	CompositionDuration = 30 * time.Second // Length of one rendered battle track
	ChordDuration       = 2 * time.Second  // Each harmony chord holds this long
)

// Tempo
const (
	DefaultTempo = 120.0

	// MaxTempo keeps one beat at least as long as a kick voice (600 BPM)
	MaxTempo = float64(time.Minute / KickDuration)

	// maxBeatSamples caps the stride of very slow tempos before int conversion
	maxBeatSamples = math.MaxInt32
)

// Time signature
const (
	DefaultTimeSignature   = "4/4"
	DefaultBeatsPerMeasure = 4
)

// Parameter defaults, applied once when a parameter set is built
const (
	DefaultKey               = "C"
	DefaultMelodyComplexity  = 0.5
	DefaultEnergyLevel       = 0.5
	DefaultRhythmComplexity  = 0.5
	DefaultHarmonyComplexity = 0.5
	DefaultNoteDensity       = 0.5
	DefaultPitchRange        = 0.5
	DefaultExperimental      = 0.1
	DefaultVariation         = 0.2
	DefaultSyncopation       = 0.1
)

// Melody sequencing
const (
	SequenceBaseNotes    = 4  // Minimum notes in a sequence
	SequenceDensityNotes = 16 // Extra notes at full density
	RepetitionCycle      = 4  // simple_repetition loops the first N notes
	WaveIndexRate        = 0.5
	ComplexityThreshold  = 0.5 // Random note replacement kicks in above this
)

// Pitch range thresholds for note pool expansion
const (
	PitchRangeWide   = 0.7 // Above: octave below + octave above
	PitchRangeMedium = 0.4 // Above: octave above only
)

// Melody voice
const (
	MelodyGain           = 0.3
	MelodyFadeFraction   = 0.1 // Fade in/out over this share of a note slot
	SecondHarmonicGain   = 0.3
	ThirdHarmonicGain    = 0.1
	ExperimentalRatio    = 1.5 // Non-harmonic partial above the fundamental
	ExperimentalGain     = 0.1
	ExperimentalMinimum  = 0.3 // Partial only added above this factor
	PitchJitterScale     = 0.1
	AmplitudeJitterScale = 0.2
	StereoFloor          = 0.8 // Right channel scale lower bound
	StereoSpread         = 0.2
)

// Drum voices
const (
	KickDuration   = 100 * time.Millisecond
	KickDecayRate  = 20.0
	KickBaseFreq   = 60.0
	KickSweepRate  = 10.0
	KickGain       = 0.5
	SnareDuration  = 50 * time.Millisecond
	SnareDecayRate = 30.0
	SnareGain      = 0.3
	SnareVelocity  = 0.7 // Snare hits at this share of energy
)

// Harmony pad
const (
	HarmonyGain    = 0.1
	HarmonyRightLR = 0.7 // Right channel share of the pad
)

// RhythmSeedSalt decorrelates the rhythm generator from the melody generator
const RhythmSeedSalt uint32 = 0x9E3779B9

// SamplesFor converts a duration to a frame count at the given rate
func SamplesFor(d time.Duration, sampleRate int) int {
	return int(d.Seconds() * float64(sampleRate))
}

// BeatSamples returns frames per beat at tempo, never below 1
// Slow tempos whose beat outlasts any buffer saturate at maxBeatSamples
func BeatSamples(tempo float64, sampleRate int) int {
	if math.IsNaN(tempo) || tempo <= 0 {
		tempo = DefaultTempo
	}
	f := 60.0 / tempo * float64(sampleRate)
	if f >= maxBeatSamples {
		return maxBeatSamples
	}
	n := int(f)
	if n < 1 {
		return 1
	}
	return n
}
