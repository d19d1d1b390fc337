package audio

import (
	"fmt"
	"time"

	"github.com/lixenwraith/musicflow/parameter"
)

// Composer renders parameter sets into stereo buffers
// Stateless between calls; safe for concurrent use since every call
// owns its generators and buffer
type Composer struct {
	sampleRate int
	duration   time.Duration
}

// NewComposer creates a composer using the config's render geometry
// A nil cfg uses DefaultAudioConfig
func NewComposer(cfg *AudioConfig) *Composer {
	config := cfg
	if config == nil {
		config = DefaultAudioConfig()
	}

	c := &Composer{
		sampleRate: config.SampleRate,
		duration:   config.Duration,
	}
	if c.sampleRate <= 0 {
		c.sampleRate = parameter.AudioSampleRate
	}
	if c.duration <= 0 {
		c.duration = parameter.CompositionDuration
	}
	return c
}

// SampleRate returns the render rate
func (c *Composer) SampleRate() int {
	return c.sampleRate
}

// Frames returns frames per channel of every rendered buffer
func (c *Composer) Frames() int {
	return parameter.SamplesFor(c.duration, c.sampleRate)
}

// Synthesize renders melody, rhythm and harmony into one buffer
func (c *Composer) Synthesize(params MusicParameters) (*AudioBuffer, error) {
	return c.Render(params, StageAll)
}

// Render renders the selected stages into a fresh buffer
// Stages sum into the buffer, so any subset is a stem of the full mix
func (c *Composer) Render(params MusicParameters, stages Stage) (*AudioBuffer, error) {
	seed, ok := params.Seed()
	if !ok {
		return nil, ErrMissingSeed
	}
	p := params.Normalized()

	buf := NewAudioBuffer(c.sampleRate, c.Frames())

	if stages&StageMelody != 0 {
		melody, err := c.sequence(p, seed)
		if err != nil {
			return nil, err
		}
		// Sequence and waveform share one generator, in that order
		if err := RenderMelody(buf, melody.notes, p, melody.rng); err != nil {
			return nil, fmt.Errorf("render melody: %w", err)
		}
	}

	if stages&StageRhythm != 0 {
		RenderRhythm(buf, p, NewSeededRandom(seed^parameter.RhythmSeedSalt))
	}

	if stages&StageHarmony != 0 {
		RenderHarmony(buf, p)
	}

	return buf, nil
}

// Sequence returns the note frequencies the melody stage plays for params
func (c *Composer) Sequence(params MusicParameters) ([]float64, error) {
	seed, ok := params.Seed()
	if !ok {
		return nil, ErrMissingSeed
	}
	melody, err := c.sequence(params.Normalized(), seed)
	if err != nil {
		return nil, err
	}
	return melody.notes, nil
}

// DrumHits returns the rhythm timeline the rhythm stage plays for params
func (c *Composer) DrumHits(params MusicParameters) ([]DrumHit, error) {
	seed, ok := params.Seed()
	if !ok {
		return nil, ErrMissingSeed
	}
	// Hits are fixed before any voice draws noise, so no buffer is needed
	rng := NewSeededRandom(seed ^ parameter.RhythmSeedSalt)
	return RhythmHits(params.Normalized(), c.Frames(), c.sampleRate, rng), nil
}

type melodyPlan struct {
	notes []float64
	rng   *SeededRandom
}

// sequence builds the note pool and melody for normalized params
func (c *Composer) sequence(p MusicParameters, seed uint32) (melodyPlan, error) {
	rng := NewSeededRandom(seed)
	notes := NotesForKey(p.Key, p.PitchRange)
	seq, err := GenerateSequence(notes, p.Melody(), p.NoteDensity, p.MelodyComplexity, rng)
	if err != nil {
		return melodyPlan{}, fmt.Errorf("generate sequence: %w", err)
	}
	return melodyPlan{notes: seq, rng: rng}, nil
}
