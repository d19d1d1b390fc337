package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/pflag"

	"github.com/lixenwraith/musicflow/audio"
	"github.com/lixenwraith/musicflow/parameter"
	"github.com/lixenwraith/musicflow/service"
)

// bindAudioFlags exposes render geometry and playback settings
// Defaults come from cfg, so flags override environment values
func bindAudioFlags(fs *pflag.FlagSet, cfg *audio.AudioConfig) {
	fs.IntVar(&cfg.SampleRate, "sample-rate", cfg.SampleRate, "render and playback sample rate")
	fs.DurationVar(&cfg.Duration, "duration", cfg.Duration, "composition length")
	fs.Float64Var(&cfg.MasterVolume, "volume", cfg.MasterVolume, "playback and export gain 0-1")
	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, "playback backend: speaker, pipe or none")
}

func checkAudioConfig(cfg *audio.AudioConfig) error {
	if cfg.SampleRate < parameter.MinSampleRate || cfg.SampleRate > parameter.MaxSampleRate {
		return fmt.Errorf("sample rate %d outside %d-%d", cfg.SampleRate, parameter.MinSampleRate, parameter.MaxSampleRate)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %v", cfg.Duration)
	}
	if cfg.MasterVolume < 0 || cfg.MasterVolume > 1 {
		return fmt.Errorf("volume %.2f outside 0-1", cfg.MasterVolume)
	}
	switch cfg.Backend {
	case audio.BackendNameSpeaker, audio.BackendNamePipe, audio.BackendNameNone:
	default:
		return fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	return nil
}

// stemPath derives the file name of one stage from the mix output path
func stemPath(out string, stage audio.Stage) string {
	ext := filepath.Ext(out)
	return strings.TrimSuffix(out, ext) + "_" + stage.String() + ext
}

func runRender(args []string) error {
	cfg := audio.LoadAudioConfig()

	fs := newFlagSet("render")
	pf := bindParamFlags(fs)
	bindAudioFlags(fs, cfg)
	out := fs.StringP("output", "o", "musicflow.wav", "output WAV path")
	stems := fs.Bool("stems", false, "also write melody, rhythm and harmony stems")
	play := fs.BoolP("play", "p", false, "play the result after writing it")
	dump := fs.Bool("dump", false, "dump parameters, melody and drum hits")
	debug := fs.Bool("debug", false, "write debug log to logs/musicflow.log")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if f := setupLogging(*debug); f != nil {
		defer f.Close()
	}
	if err := checkAudioConfig(cfg); err != nil {
		return err
	}

	params, drawn, err := pf.resolve()
	if err != nil {
		return err
	}
	seed, _ := params.Seed()
	if drawn {
		logger.Printf("No seed given, using %d", seed)
	}

	composer := audio.NewComposer(cfg)
	if *dump {
		if err := dumpComposition(composer, params); err != nil {
			return err
		}
	}

	start := time.Now()
	buf, err := composer.Synthesize(params)
	if err != nil {
		return err
	}
	logger.Printf("Rendered %.1fs at %d Hz in %v (peak %.3f)", buf.Seconds(), buf.SampleRate, time.Since(start).Round(time.Millisecond), buf.Peak())

	if err := audio.WriteWAV(*out, buf, cfg.MasterVolume); err != nil {
		return err
	}
	logger.Printf("Wrote %s", *out)

	if *stems {
		for _, stage := range []audio.Stage{audio.StageMelody, audio.StageRhythm, audio.StageHarmony} {
			stem, err := composer.Render(params, stage)
			if err != nil {
				return err
			}
			path := stemPath(*out, stage)
			if err := audio.WriteWAV(path, stem, cfg.MasterVolume); err != nil {
				return err
			}
			logger.Printf("Wrote %s", path)
		}
	}

	if *play {
		return playBuffer(cfg, buf)
	}
	return nil
}

// playBuffer runs the audio service just long enough to play buf
func playBuffer(cfg *audio.AudioConfig, buf *audio.AudioBuffer) error {
	hub := service.NewHub()
	if err := hub.Register(audio.NewService(cfg)); err != nil {
		return err
	}
	if err := hub.InitAll(); err != nil {
		return err
	}
	defer hub.StopAll()
	if err := hub.StartAll(); err != nil {
		return err
	}

	svc, err := service.Lookup[*audio.Service](hub, "audio")
	if err != nil {
		return err
	}
	if svc.IsDisabled() {
		logger.Printf("Playback unavailable, WAV output only")
		return nil
	}

	logger.Printf("Playing through %s", svc.Sink().Name())
	return svc.Sink().Play(buf)
}

func dumpComposition(composer *audio.Composer, params audio.MusicParameters) error {
	melody, err := composer.Sequence(params)
	if err != nil {
		return err
	}
	hits, err := composer.DrumHits(params)
	if err != nil {
		return err
	}
	cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
	cfg.Fdump(os.Stdout, params.Normalized())
	cfg.Fdump(os.Stdout, melody)
	fmt.Fprintf(os.Stdout, "%d drum hits\n", len(hits))
	cfg.Fdump(os.Stdout, hits)
	return nil
}
