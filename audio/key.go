package audio

import (
	"github.com/lixenwraith/musicflow/parameter"
)

// keyOrder lists table labels, majors first
var keyOrder = [...]string{
	"C", "G", "D", "A", "E", "B", "F#", "C#",
	"Am", "Em", "Bm", "F#m", "C#m", "G#m", "D#m", "A#m",
}

// keyNotes maps a key label to its 8 base frequencies in Hz
var keyNotes = map[string][8]float64{
	"C":   {261.63, 293.66, 329.63, 349.23, 392.00, 440.00, 493.88, 523.25},
	"G":   {293.66, 329.63, 369.99, 392.00, 440.00, 493.88, 554.37, 587.33},
	"D":   {293.66, 329.63, 369.99, 415.30, 440.00, 493.88, 554.37, 622.25},
	"A":   {220.00, 246.94, 277.18, 293.66, 329.63, 369.99, 415.30, 440.00},
	"E":   {164.81, 185.00, 207.65, 220.00, 246.94, 277.18, 311.13, 329.63},
	"B":   {123.47, 138.59, 155.56, 164.81, 185.00, 207.65, 233.08, 246.94},
	"F#":  {92.50, 103.83, 116.54, 123.47, 138.59, 155.56, 174.61, 185.00},
	"C#":  {69.30, 77.78, 87.31, 92.50, 103.83, 116.54, 130.81, 138.59},
	"Am":  {220.00, 246.94, 261.63, 293.66, 329.63, 349.23, 392.00, 440.00},
	"Em":  {164.81, 185.00, 196.00, 220.00, 246.94, 261.63, 293.66, 329.63},
	"Bm":  {123.47, 138.59, 146.83, 164.81, 185.00, 196.00, 220.00, 246.94},
	"F#m": {92.50, 103.83, 110.00, 123.47, 138.59, 146.83, 164.81, 185.00},
	"C#m": {69.30, 77.78, 82.41, 92.50, 103.83, 110.00, 123.47, 138.59},
	"G#m": {51.91, 58.27, 61.74, 69.30, 77.78, 82.41, 92.50, 103.83},
	"D#m": {38.89, 43.65, 46.25, 51.91, 58.27, 61.74, 69.30, 77.78},
	"A#m": {29.14, 32.70, 34.65, 38.89, 43.65, 46.25, 51.91, 58.27},
}

// Keys returns known key labels in table order
func Keys() []string {
	out := make([]string, len(keyOrder))
	copy(out, keyOrder[:])
	return out
}

// HasKey reports whether label is in the key table
func HasKey(label string) bool {
	_, ok := keyNotes[label]
	return ok
}

// NotesForKey returns the note pool for key, expanded by pitch range
// Unknown keys fall back to C major
// pitchRange > 0.7: octave below + base + octave above (24 notes)
// pitchRange in (0.4, 0.7]: base + octave above (16 notes)
func NotesForKey(key string, pitchRange float64) []float64 {
	base, ok := keyNotes[key]
	if !ok {
		base = keyNotes[parameter.DefaultKey]
	}

	switch {
	case pitchRange > parameter.PitchRangeWide:
		notes := make([]float64, 0, len(base)*3)
		for _, f := range base {
			notes = append(notes, f/2)
		}
		notes = append(notes, base[:]...)
		for _, f := range base {
			notes = append(notes, f*2)
		}
		return notes

	case pitchRange > parameter.PitchRangeMedium:
		notes := make([]float64, 0, len(base)*2)
		notes = append(notes, base[:]...)
		for _, f := range base {
			notes = append(notes, f*2)
		}
		return notes

	default:
		notes := make([]float64, len(base))
		copy(notes, base[:])
		return notes
	}
}
