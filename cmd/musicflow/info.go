package main

import (
	"fmt"
	"strings"

	"github.com/lixenwraith/musicflow/audio"
	"github.com/lixenwraith/musicflow/core"
)

func runInfo(args []string) error {
	cfg := audio.LoadAudioConfig()
	fs := newFlagSet("info")
	bindAudioFlags(fs, cfg)
	if err := fs.Parse(args); err != nil {
		return err
	}

	fmt.Printf("Keys:            %s\n", strings.Join(audio.Keys(), " "))
	fmt.Printf("Melody patterns: %s\n", strings.Join(core.MelodyPatternNames(), " "))
	fmt.Printf("Rhythm patterns: %s\n", strings.Join(core.RhythmPatternNames(), " "))
	fmt.Printf("Render:          %d Hz, %v, %d frames\n", cfg.SampleRate, cfg.Duration, cfg.Frames())
	fmt.Printf("Backend:         %s (enabled=%t, volume=%.2f)\n", cfg.Backend, cfg.Enabled, cfg.MasterVolume)

	if backend, err := audio.DetectBackend(cfg.SampleRate); err != nil {
		fmt.Printf("Pipe backend:    none (%v)\n", err)
	} else {
		fmt.Printf("Pipe backend:    %s (%s)\n", backend.Name, backend.Path)
		for _, alt := range audio.AvailableBackends(cfg.SampleRate)[1:] {
			fmt.Printf("  fallback:      %s (%s)\n", alt.Name, alt.Path)
		}
	}
	return nil
}
