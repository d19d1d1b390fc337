package audio

import (
	"testing"

	"github.com/lixenwraith/musicflow/core"
)

// TestBeatsPerMeasure verifies numerator parsing and fallback
func TestBeatsPerMeasure(t *testing.T) {
	cases := map[string]int{
		"4/4":     4,
		"3/4":     3,
		"7/8":     7,
		" 5 / 4 ": 5,
		"6":       6,
		"":        4,
		"abc":     4,
		"x/4":     4,
		"0/4":     4,
		"-3/4":    4,
	}
	for ts, want := range cases {
		if got := BeatsPerMeasure(ts); got != want {
			t.Errorf("%q: expected %d, got %d", ts, want, got)
		}
	}
}

func beatHits(t *testing.T, p MusicParameters, beats int) []DrumHit {
	t.Helper()
	// 120 BPM at 1000 Hz: 500 frames per beat
	return RhythmHits(p.Normalized(), beats*500, 1000, NewSeededRandom(1))
}

// TestRhythmStraightThreeFour verifies beat 0 always and beat 2 only above 0.5 complexity
func TestRhythmStraightThreeFour(t *testing.T) {
	p := DefaultMusicParameters()
	p.TimeSignature = "3/4"
	p.RhythmComplexity = 0.5

	hits := beatHits(t, p, 6)
	if len(hits) != 2 {
		t.Fatalf("Expected 2 hits, got %d", len(hits))
	}
	for i, h := range hits {
		if h.Offset != i*1500 || h.Kind != core.DrumKick {
			t.Errorf("Hit %d: expected kick at %d, got %+v", i, i*1500, h)
		}
	}

	p.RhythmComplexity = 0.6
	hits = beatHits(t, p, 6)
	if len(hits) != 4 {
		t.Fatalf("Expected 4 hits, got %d", len(hits))
	}
	wantOffsets := []int{0, 1000, 1500, 2500}
	wantKinds := []core.DrumKind{core.DrumKick, core.DrumSnare, core.DrumKick, core.DrumSnare}
	for i, h := range hits {
		if h.Offset != wantOffsets[i] || h.Kind != wantKinds[i] {
			t.Errorf("Hit %d: expected %s at %d, got %+v", i, wantKinds[i], wantOffsets[i], h)
		}
	}
}

// TestRhythmAmplitudes verifies kick at energy and snare at 0.7 energy
func TestRhythmAmplitudes(t *testing.T) {
	energy := 0.8
	p := DefaultMusicParameters()
	p.EnergyLevel = energy
	p.RhythmComplexity = 0.9

	for _, h := range beatHits(t, p, 4) {
		want := energy
		if h.Kind == core.DrumSnare {
			want = energy * 0.7
		}
		if h.Amplitude != want {
			t.Errorf("%s at %d: expected amplitude %v, got %v", h.Kind, h.Offset, want, h.Amplitude)
		}
	}
}

// TestRhythmPatterns verifies the per-beat rules over one 4/4 measure
func TestRhythmPatterns(t *testing.T) {
	cases := []struct {
		pattern     core.RhythmPattern
		complexity  float64
		syncopation float64
		wantBeats   []int
		wantKick    []bool
	}{
		{core.RhythmSyncopated, 0.5, 0.1, []int{0}, []bool{true}},
		{core.RhythmSyncopated, 0.5, 0.7, []int{0, 1, 2}, []bool{true, false, false}},
		{core.RhythmPolyrhythmic, 0.5, 0, []int{0, 3}, []bool{true, true}},
		{core.RhythmPolyrhythmic, 0.8, 0, []int{0, 2, 3}, []bool{true, false, true}},
		{core.RhythmSwing, 0.45, 0, []int{0, 2}, []bool{true, false}},
		{core.RhythmShuffle, 0.6, 0, []int{0, 2, 3}, []bool{true, true, false}},
		{core.RhythmOffbeat, 0.5, 0, []int{1, 3}, []bool{false, false}},
	}

	for _, c := range cases {
		p := DefaultMusicParameters()
		p.RhythmPattern = c.pattern.String()
		p.RhythmComplexity = c.complexity
		p.Syncopation = c.syncopation

		hits := beatHits(t, p, 4)
		if len(hits) != len(c.wantBeats) {
			t.Errorf("%s: expected %d hits, got %d", c.pattern, len(c.wantBeats), len(hits))
			continue
		}
		for i, h := range hits {
			if h.Offset != c.wantBeats[i]*500 {
				t.Errorf("%s hit %d: expected beat %d, got offset %d", c.pattern, i, c.wantBeats[i], h.Offset)
			}
			if (h.Kind == core.DrumKick) != c.wantKick[i] {
				t.Errorf("%s hit %d: expected kick=%v, got %s", c.pattern, i, c.wantKick[i], h.Kind)
			}
		}
	}
}

// TestRhythmIrregularDrawsTwicePerBeat verifies the stream advances even on silent beats
func TestRhythmIrregularDrawsTwicePerBeat(t *testing.T) {
	p := DefaultMusicParameters()
	p.RhythmPattern = core.RhythmIrregular.String()

	rng := NewSeededRandom(10)
	RhythmHits(p.Normalized(), 8*500, 1000, rng)

	ref := NewSeededRandom(10)
	for i := 0; i < 16; i++ {
		ref.Random()
	}
	if rng.State() != ref.State() {
		t.Error("Expected exactly two draws per beat")
	}
}

// TestRhythmIrregularDeterministic verifies the same seed picks the same hits
func TestRhythmIrregularDeterministic(t *testing.T) {
	p := DefaultMusicParameters()
	p.RhythmPattern = core.RhythmIrregular.String()
	p.RhythmComplexity = 1

	a := RhythmHits(p, 64*500, 1000, NewSeededRandom(5))
	b := RhythmHits(p, 64*500, 1000, NewSeededRandom(5))
	if len(a) != len(b) {
		t.Fatalf("Expected equal hit counts, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("Hit %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
	if len(a) == 0 {
		t.Error("Expected some hits at full complexity over 64 beats")
	}
}

// TestRhythmUnknownPatternFallback verifies unknown names behave as straight
func TestRhythmUnknownPatternFallback(t *testing.T) {
	p := DefaultMusicParameters()
	p.RhythmComplexity = 0.9
	p.RhythmPattern = "breakbeat"
	got := beatHits(t, p, 8)

	p.RhythmPattern = core.RhythmStraight.String()
	want := beatHits(t, p, 8)

	if len(got) != len(want) {
		t.Fatalf("Expected %d hits, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Hit %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}
