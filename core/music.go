package core

// MelodyPattern identifies how note indices are walked through a pool
type MelodyPattern int

const (
	MelodySimpleRepetition MelodyPattern = iota // Fallback for unknown names
	MelodyAscendingScale
	MelodyDescendingScale
	MelodyZigzag
	MelodyWave
	MelodyStepwise
	MelodyLeapAndStep
	MelodyArpeggio
	MelodyPatternCount
)

// RhythmPattern identifies the per-beat drum placement rule
type RhythmPattern int

const (
	RhythmStraight RhythmPattern = iota // Fallback for unknown names
	RhythmSyncopated
	RhythmPolyrhythmic
	RhythmIrregular
	RhythmSwing
	RhythmShuffle
	RhythmOffbeat
	RhythmPatternCount
)

// DrumKind identifies a percussion voice
type DrumKind int

const (
	DrumKick DrumKind = iota
	DrumSnare
	DrumKindCount
)

var melodyPatternNames = [...]string{
	"simple_repetition",
	"ascending_scale",
	"descending_scale",
	"zigzag",
	"wave",
	"stepwise",
	"leap_and_step",
	"arpeggio",
}

var rhythmPatternNames = [...]string{
	"straight",
	"syncopated",
	"polyrhythmic",
	"irregular",
	"swing",
	"shuffle",
	"offbeat",
}

func (p MelodyPattern) String() string {
	if p >= 0 && int(p) < len(melodyPatternNames) {
		return melodyPatternNames[p]
	}
	return "unknown"
}

func (p RhythmPattern) String() string {
	if p >= 0 && int(p) < len(rhythmPatternNames) {
		return rhythmPatternNames[p]
	}
	return "unknown"
}

func (d DrumKind) String() string {
	names := [...]string{"kick", "snare"}
	if d >= 0 && int(d) < len(names) {
		return names[d]
	}
	return "unknown"
}

// ParseMelodyPattern maps a pattern name to its ID
// Unknown names resolve to MelodySimpleRepetition with ok=false
func ParseMelodyPattern(name string) (MelodyPattern, bool) {
	for i, n := range melodyPatternNames {
		if n == name {
			return MelodyPattern(i), true
		}
	}
	return MelodySimpleRepetition, false
}

// ParseRhythmPattern maps a pattern name to its ID
// Unknown names resolve to RhythmStraight with ok=false
func ParseRhythmPattern(name string) (RhythmPattern, bool) {
	for i, n := range rhythmPatternNames {
		if n == name {
			return RhythmPattern(i), true
		}
	}
	return RhythmStraight, false
}

// MelodyPatternNames returns all known melody pattern names
func MelodyPatternNames() []string {
	out := make([]string, len(melodyPatternNames))
	copy(out, melodyPatternNames[:])
	return out
}

// RhythmPatternNames returns all known rhythm pattern names
func RhythmPatternNames() []string {
	out := make([]string, len(rhythmPatternNames))
	copy(out, rhythmPatternNames[:])
	return out
}
