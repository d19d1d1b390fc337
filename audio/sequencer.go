package audio

import (
	"math"

	"github.com/lixenwraith/musicflow/core"
	"github.com/lixenwraith/musicflow/parameter"
)

// SequenceLength returns the note count for a density: floor(density*16)+4
// Density is clamped to [0,1], so the result is in [4,20]
func SequenceLength(density float64) int {
	density = clampUnit(density, parameter.DefaultNoteDensity)
	return int(math.Floor(density*parameter.SequenceDensityNotes)) + parameter.SequenceBaseNotes
}

// GenerateSequence walks notes with pattern and returns the melody frequencies
// Complexity above 0.5 randomly replaces notes with probability complexity
func GenerateSequence(notes []float64, pattern core.MelodyPattern, density, complexity float64, rng *SeededRandom) ([]float64, error) {
	n := len(notes)
	if n == 0 {
		return nil, ErrEmptyNotePool
	}

	count := SequenceLength(density)
	sequence := make([]float64, 0, count)

	for i := 0; i < count; i++ {
		idx := patternIndex(pattern, i, n, rng)

		if complexity > parameter.ComplexityThreshold && rng.Random() < complexity {
			idx = rng.Intn(n)
		}

		sequence = append(sequence, notes[idx])
	}
	return sequence, nil
}

// patternIndex computes the note index for step i in a pool of n (n > 0)
func patternIndex(pattern core.MelodyPattern, i, n int, rng *SeededRandom) int {
	var idx int
	switch pattern {
	case core.MelodyAscendingScale:
		idx = i % n
	case core.MelodyDescendingScale:
		idx = (n - 1) - (i % n)
	case core.MelodyZigzag:
		if i%2 == 0 {
			idx = (i / 2) % n
		} else {
			idx = (n - 1) - ((i-1)/2)%n
		}
	case core.MelodyWave:
		half := float64(n-1) / 2
		idx = int(math.Floor(math.Sin(float64(i)*parameter.WaveIndexRate)*half + half))
	case core.MelodyStepwise:
		idx = (i * 2) % n
	case core.MelodyLeapAndStep:
		// Leap every third note, otherwise step back one
		if i%3 == 0 {
			idx = rng.Intn(n)
		} else {
			idx = (i - 1) % n
		}
	case core.MelodyArpeggio:
		idx = (i * 3) % n
	default:
		idx = (i % parameter.RepetitionCycle) % n
	}

	if idx < 0 {
		idx = 0
	} else if idx >= n {
		idx = n - 1
	}
	return idx
}
