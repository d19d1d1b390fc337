package core

import "testing"

// TestParseMelodyPatternRoundTrip verifies every name maps back to itself
func TestParseMelodyPatternRoundTrip(t *testing.T) {
	for _, name := range MelodyPatternNames() {
		p, ok := ParseMelodyPattern(name)
		if !ok {
			t.Errorf("Expected %q to be recognized", name)
		}
		if p.String() != name {
			t.Errorf("Expected %q, got %q", name, p.String())
		}
	}
}

// TestParseMelodyPatternFallback verifies unknown names fall back to simple repetition
func TestParseMelodyPatternFallback(t *testing.T) {
	p, ok := ParseMelodyPattern("twelve_tone")
	if ok {
		t.Error("Expected unknown pattern to report ok=false")
	}
	if p != MelodySimpleRepetition {
		t.Errorf("Expected MelodySimpleRepetition, got %v", p)
	}
}

// TestParseRhythmPatternFallback verifies unknown names fall back to straight
func TestParseRhythmPatternFallback(t *testing.T) {
	p, ok := ParseRhythmPattern("")
	if ok {
		t.Error("Expected empty pattern to report ok=false")
	}
	if p != RhythmStraight {
		t.Errorf("Expected RhythmStraight, got %v", p)
	}

	if p, _ := ParseRhythmPattern("offbeat"); p != RhythmOffbeat {
		t.Errorf("Expected RhythmOffbeat, got %v", p)
	}
}

// TestPatternCounts verifies name tables cover every enum value
func TestPatternCounts(t *testing.T) {
	if len(MelodyPatternNames()) != int(MelodyPatternCount) {
		t.Errorf("Expected %d melody names, got %d", MelodyPatternCount, len(MelodyPatternNames()))
	}
	if len(RhythmPatternNames()) != int(RhythmPatternCount) {
		t.Errorf("Expected %d rhythm names, got %d", RhythmPatternCount, len(RhythmPatternNames()))
	}
	if DrumSnare.String() != "snare" || DrumKind(9).String() != "unknown" {
		t.Error("Unexpected DrumKind names")
	}
}
