package audio

import (
	"strconv"
	"strings"

	"github.com/lixenwraith/musicflow/core"
	"github.com/lixenwraith/musicflow/parameter"
)

// BeatsPerMeasure parses the numerator of an "N/D" time signature
// Malformed or non-positive numerators fall back to 4
func BeatsPerMeasure(timeSignature string) int {
	num, _, _ := strings.Cut(strings.TrimSpace(timeSignature), "/")
	n, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil || n <= 0 {
		return parameter.DefaultBeatsPerMeasure
	}
	return n
}

// RhythmHits computes the drum timeline for a buffer of totalFrames
// Only the irregular pattern consumes rng
func RhythmHits(params MusicParameters, totalFrames, sampleRate int, rng *SeededRandom) []DrumHit {
	beatFrames := parameter.BeatSamples(params.Tempo, sampleRate)
	beatsPerMeasure := BeatsPerMeasure(params.TimeSignature)
	pattern := params.Rhythm()
	energy := params.EnergyLevel

	var hits []DrumHit
	for offset := 0; offset < totalFrames; offset += beatFrames {
		beat := (offset / beatFrames) % beatsPerMeasure

		play, kind := beatRule(pattern, beat, params, rng)
		if !play {
			continue
		}

		amp := energy
		if kind == core.DrumSnare {
			amp = energy * parameter.SnareVelocity
		}
		hits = append(hits, DrumHit{Offset: offset, Kind: kind, Amplitude: amp})
	}
	return hits
}

// beatRule decides whether beat (position within measure) plays and with which voice
func beatRule(pattern core.RhythmPattern, beat int, p MusicParameters, rng *SeededRandom) (bool, core.DrumKind) {
	kickOr := func(kick bool) core.DrumKind {
		if kick {
			return core.DrumKick
		}
		return core.DrumSnare
	}

	switch pattern {
	case core.RhythmSyncopated:
		play := beat == 0 || (beat == 2 && p.Syncopation > 0.3) || (beat == 1 && p.Syncopation > 0.6)
		return play, kickOr(beat == 0)

	case core.RhythmPolyrhythmic:
		play := beat%3 == 0 || (beat%2 == 0 && p.RhythmComplexity > 0.7)
		return play, kickOr(beat%3 == 0)

	case core.RhythmIrregular:
		// Both draws are taken every beat to keep the stream aligned
		play := rng.Random() < p.RhythmComplexity*0.3+0.1
		kick := rng.Random() < 0.5
		return play, kickOr(kick)

	case core.RhythmSwing:
		play := beat == 0 || (beat == 2 && p.RhythmComplexity > 0.4)
		return play, kickOr(beat == 0)

	case core.RhythmShuffle:
		play := beat%2 == 0 || (beat%3 == 0 && p.RhythmComplexity > 0.5)
		return play, kickOr(beat%2 == 0)

	case core.RhythmOffbeat:
		return beat == 1 || beat == 3, core.DrumSnare

	default:
		play := beat == 0 || (beat == 2 && p.RhythmComplexity > 0.5)
		return play, kickOr(beat == 0)
	}
}

// RenderRhythm mixes the drum timeline for params into buf
func RenderRhythm(buf *AudioBuffer, params MusicParameters, rng *SeededRandom) []DrumHit {
	if buf.Len() == 0 || buf.SampleRate <= 0 {
		return nil
	}
	hits := RhythmHits(params, buf.Len(), buf.SampleRate, rng)
	for _, h := range hits {
		playHit(buf, h, rng)
	}
	return hits
}
