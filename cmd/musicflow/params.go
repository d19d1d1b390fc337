package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/lixenwraith/musicflow/audio"
)

type floatParam struct {
	name  string
	usage string
	field func(*audio.MusicParameters) *float64
}

type stringParam struct {
	name  string
	usage string
	field func(*audio.MusicParameters) *string
}

var floatParams = []floatParam{
	{"tempo", "beats per minute", func(p *audio.MusicParameters) *float64 { return &p.Tempo }},
	{"melody-complexity", "melody complexity 0-1", func(p *audio.MusicParameters) *float64 { return &p.MelodyComplexity }},
	{"energy", "energy level 0-1", func(p *audio.MusicParameters) *float64 { return &p.EnergyLevel }},
	{"rhythm-complexity", "rhythm complexity 0-1", func(p *audio.MusicParameters) *float64 { return &p.RhythmComplexity }},
	{"harmony-complexity", "harmony complexity 0-1", func(p *audio.MusicParameters) *float64 { return &p.HarmonyComplexity }},
	{"note-density", "note density 0-1", func(p *audio.MusicParameters) *float64 { return &p.NoteDensity }},
	{"pitch-range", "pitch range 0-1", func(p *audio.MusicParameters) *float64 { return &p.PitchRange }},
	{"experimental", "experimental factor 0-1", func(p *audio.MusicParameters) *float64 { return &p.Experimental }},
	{"variation", "variation factor 0-1", func(p *audio.MusicParameters) *float64 { return &p.Variation }},
	{"syncopation", "syncopation 0-1", func(p *audio.MusicParameters) *float64 { return &p.Syncopation }},
}

var stringParams = []stringParam{
	{"key", "musical key, e.g. C, Am, F#", func(p *audio.MusicParameters) *string { return &p.Key }},
	{"time-signature", "time signature, e.g. 4/4", func(p *audio.MusicParameters) *string { return &p.TimeSignature }},
	{"melody-pattern", "melody pattern name", func(p *audio.MusicParameters) *string { return &p.MelodyPattern }},
	{"rhythm-pattern", "rhythm pattern name", func(p *audio.MusicParameters) *string { return &p.RhythmPattern }},
}

// paramFlags binds every music parameter to a flag
// Only flags given on the command line override the base parameters
type paramFlags struct {
	fs     *pflag.FlagSet
	values audio.MusicParameters
	seed   uint32
	file   string
}

func bindParamFlags(fs *pflag.FlagSet) *paramFlags {
	pf := &paramFlags{fs: fs, values: audio.DefaultMusicParameters()}
	for _, f := range floatParams {
		ptr := f.field(&pf.values)
		fs.Float64Var(ptr, f.name, *ptr, f.usage)
	}
	for _, f := range stringParams {
		ptr := f.field(&pf.values)
		fs.StringVar(ptr, f.name, *ptr, f.usage)
	}
	fs.Uint32Var(&pf.seed, "seed", 0, "battle seed (random when unset)")
	fs.StringVar(&pf.file, "params", "", "JSON file with music_params")
	return pf
}

// resolve builds parameters from the params file, then applies explicit flags
// The second result reports whether a random seed had to be drawn
func (pf *paramFlags) resolve() (audio.MusicParameters, bool, error) {
	params := audio.DefaultMusicParameters()
	if pf.file != "" {
		data, err := os.ReadFile(pf.file)
		if err != nil {
			return params, false, err
		}
		if err := json.Unmarshal(data, &params); err != nil {
			return params, false, fmt.Errorf("%s: %w", pf.file, err)
		}
	}

	floats := make(map[string]floatParam, len(floatParams))
	for _, f := range floatParams {
		floats[f.name] = f
	}
	strs := make(map[string]stringParam, len(stringParams))
	for _, f := range stringParams {
		strs[f.name] = f
	}

	pf.fs.Visit(func(fl *pflag.Flag) {
		if f, ok := floats[fl.Name]; ok {
			*f.field(&params) = *f.field(&pf.values)
		}
		if f, ok := strs[fl.Name]; ok {
			*f.field(&params) = *f.field(&pf.values)
		}
	})

	if pf.fs.Changed("seed") {
		params = params.WithSeed(pf.seed)
	}
	if _, ok := params.Seed(); ok {
		return params, false, nil
	}
	return params.WithSeed(audio.NewSeed()), true, nil
}
