package audio

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/lixenwraith/musicflow/core"
	"github.com/lixenwraith/musicflow/parameter"
)

// MusicParameters drives one synthesis call
// JSON tags follow the battle API field names
type MusicParameters struct {
	Tempo         float64 `json:"tempo"`
	Key           string  `json:"key"`
	TimeSignature string  `json:"time_signature"`

	MelodyComplexity  float64 `json:"melody_complexity"`
	EnergyLevel       float64 `json:"energy_level"`
	RhythmComplexity  float64 `json:"rhythm_complexity"`
	HarmonyComplexity float64 `json:"harmony_complexity"` // Accepted, currently inert
	NoteDensity       float64 `json:"note_density"`
	PitchRange        float64 `json:"pitch_range"`
	Experimental      float64 `json:"experimental_factor"`
	Variation         float64 `json:"variation_factor"`
	Syncopation       float64 `json:"syncopation"`

	MelodyPattern string `json:"melody_pattern"`
	RhythmPattern string `json:"rhythm_pattern"`

	// BattleSeed must be set before synthesis; nil is rejected with ErrMissingSeed
	BattleSeed *uint32 `json:"battle_seed,omitempty"`
}

// DefaultMusicParameters returns a parameter set with every default applied
func DefaultMusicParameters() MusicParameters {
	return MusicParameters{
		Tempo:             parameter.DefaultTempo,
		Key:               parameter.DefaultKey,
		TimeSignature:     parameter.DefaultTimeSignature,
		MelodyComplexity:  parameter.DefaultMelodyComplexity,
		EnergyLevel:       parameter.DefaultEnergyLevel,
		RhythmComplexity:  parameter.DefaultRhythmComplexity,
		HarmonyComplexity: parameter.DefaultHarmonyComplexity,
		NoteDensity:       parameter.DefaultNoteDensity,
		PitchRange:        parameter.DefaultPitchRange,
		Experimental:      parameter.DefaultExperimental,
		Variation:         parameter.DefaultVariation,
		Syncopation:       parameter.DefaultSyncopation,
		MelodyPattern:     core.MelodySimpleRepetition.String(),
		RhythmPattern:     core.RhythmStraight.String(),
	}
}

// UnmarshalJSON decodes on top of defaults, so absent fields keep their
// default while explicit zeros are preserved
func (p *MusicParameters) UnmarshalJSON(data []byte) error {
	type plain MusicParameters
	v := plain(DefaultMusicParameters())
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decode music params: %w", err)
	}
	*p = MusicParameters(v)
	return nil
}

// WithSeed returns a copy with the battle seed set
func (p MusicParameters) WithSeed(seed uint32) MusicParameters {
	p.BattleSeed = &seed
	return p
}

// Seed returns the battle seed and whether it is set
func (p MusicParameters) Seed() (uint32, bool) {
	if p.BattleSeed == nil {
		return 0, false
	}
	return *p.BattleSeed, true
}

// Normalized returns a copy safe for synthesis
// Unit factors are clamped to [0,1], NaN falls back to the default,
// tempo keeps any finite positive value up to MaxTempo, empty labels get defaults
func (p MusicParameters) Normalized() MusicParameters {
	d := DefaultMusicParameters()

	p.Tempo = normalizeTempo(p.Tempo)
	p.MelodyComplexity = clampUnit(p.MelodyComplexity, d.MelodyComplexity)
	p.EnergyLevel = clampUnit(p.EnergyLevel, d.EnergyLevel)
	p.RhythmComplexity = clampUnit(p.RhythmComplexity, d.RhythmComplexity)
	p.HarmonyComplexity = clampUnit(p.HarmonyComplexity, d.HarmonyComplexity)
	p.NoteDensity = clampUnit(p.NoteDensity, d.NoteDensity)
	p.PitchRange = clampUnit(p.PitchRange, d.PitchRange)
	p.Experimental = clampUnit(p.Experimental, d.Experimental)
	p.Variation = clampUnit(p.Variation, d.Variation)
	p.Syncopation = clampUnit(p.Syncopation, d.Syncopation)

	if p.Key == "" {
		p.Key = d.Key
	}
	if p.TimeSignature == "" {
		p.TimeSignature = d.TimeSignature
	}
	if p.MelodyPattern == "" {
		p.MelodyPattern = d.MelodyPattern
	}
	if p.RhythmPattern == "" {
		p.RhythmPattern = d.RhythmPattern
	}
	if p.BattleSeed != nil {
		seed := *p.BattleSeed
		p.BattleSeed = &seed
	}
	return p
}

// Melody resolves the melody pattern name, unknown names fall back
func (p MusicParameters) Melody() core.MelodyPattern {
	m, _ := core.ParseMelodyPattern(p.MelodyPattern)
	return m
}

// Rhythm resolves the rhythm pattern name, unknown names fall back
func (p MusicParameters) Rhythm() core.RhythmPattern {
	r, _ := core.ParseRhythmPattern(p.RhythmPattern)
	return r
}

func clampUnit(v, fallback float64) float64 {
	if math.IsNaN(v) {
		return fallback
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func normalizeTempo(tempo float64) float64 {
	if math.IsNaN(tempo) || math.IsInf(tempo, 0) || tempo <= 0 {
		return parameter.DefaultTempo
	}
	// Faster beats would overlap kick voices and multiply render work
	if tempo > parameter.MaxTempo {
		return parameter.MaxTempo
	}
	return tempo
}
