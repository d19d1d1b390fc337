package battle

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/lixenwraith/musicflow/audio"
	"github.com/lixenwraith/musicflow/core"
)

// DefaultCacheSize holds the current and previous battle
const DefaultCacheSize = 4

// Pair holds both rendered networks of a battle
type Pair struct {
	A *audio.AudioBuffer
	B *audio.AudioBuffer
}

// Buffer returns the buffer for side s
func (p Pair) Buffer(s Side) *audio.AudioBuffer {
	switch s {
	case SideA:
		return p.A
	case SideB:
		return p.B
	default:
		return nil
	}
}

// Renderer turns battles into audio through a shared composer and cache
type Renderer struct {
	composer *audio.Composer
	cache    *Cache
}

// NewRenderer creates a renderer; a nil cache disables caching
func NewRenderer(composer *audio.Composer, cache *Cache) *Renderer {
	if composer == nil {
		composer = audio.NewComposer(nil)
	}
	return &Renderer{composer: composer, cache: cache}
}

// Composer returns the underlying composer
func (r *Renderer) Composer() *audio.Composer {
	return r.composer
}

// RenderSide renders one network of b
// The battle must carry seeds; see Battle.EnsureSeeds
func (r *Renderer) RenderSide(ctx context.Context, b *Battle, s Side) (*audio.AudioBuffer, error) {
	n := b.Network(s)
	if n == nil {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSide, s)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seed, ok := n.Params.Seed()
	if !ok {
		return nil, fmt.Errorf("battle %s %s: %w", b.ID, s.Key(), audio.ErrMissingSeed)
	}

	render := func() (*audio.AudioBuffer, error) {
		start := time.Now()
		buf, err := r.composer.Synthesize(n.Params)
		if err != nil {
			return nil, fmt.Errorf("battle %s %s: %w", b.ID, s.Key(), err)
		}
		log.Printf("battle %s: rendered %s (%s) in %v", b.ID, s.Key(), n.Name, time.Since(start).Round(time.Millisecond))
		return buf, nil
	}

	if r.cache == nil {
		return render()
	}
	return r.cache.get(cacheKey{battle: b.ID, side: s, seed: seed}, render)
}

// RenderPair renders both networks concurrently
// Each render owns its generators and buffer, so no coordination is needed
func (r *Renderer) RenderPair(ctx context.Context, b *Battle) (Pair, error) {
	var (
		wg   sync.WaitGroup
		pair Pair
		errs [2]error
	)

	for _, s := range []Side{SideA, SideB} {
		wg.Add(1)
		core.Go(func() {
			defer wg.Done()
			buf, err := r.RenderSide(ctx, b, s)
			errs[s-1] = err
			if s == SideA {
				pair.A = buf
			} else {
				pair.B = buf
			}
		})
	}
	wg.Wait()

	if err := errors.Join(errs[:]...); err != nil {
		return Pair{}, err
	}
	return pair, nil
}

// ExportStems writes the mix and each stage of one network as WAV files into dir
// Returns the written paths in mix, melody, rhythm, harmony order
func (r *Renderer) ExportStems(ctx context.Context, b *Battle, s Side, dir string, gain float64) ([]string, error) {
	n := b.Network(s)
	if n == nil {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSide, s)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	stages := []audio.Stage{audio.StageAll, audio.StageMelody, audio.StageRhythm, audio.StageHarmony}
	paths := make([]string, 0, len(stages))

	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return paths, err
		}

		var (
			buf *audio.AudioBuffer
			err error
		)
		if stage == audio.StageAll {
			buf, err = r.RenderSide(ctx, b, s)
		} else {
			buf, err = r.composer.Render(n.Params, stage)
		}
		if err != nil {
			return paths, fmt.Errorf("export %s %s: %w", s.Key(), stage, err)
		}

		path := filepath.Join(dir, fmt.Sprintf("%s_%s_%s.wav", fileSafe(string(b.ID)), s.Key(), stage))
		if err := audio.WriteWAV(path, buf, gain); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// fileSafe replaces characters that would escape or break a file name
func fileSafe(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, name)
}
