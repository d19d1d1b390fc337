package audio

import (
	"errors"
)

// BackendType identifies a pipe playback backend
type BackendType int

const (
	BackendPulse BackendType = iota
	BackendPipeWire
	BackendALSA
	BackendSoX
	BackendFFplay
	BackendOSS
)

// BackendConfig describes a CLI audio backend
type BackendConfig struct {
	Type BackendType
	Name string
	Path string
	Args []string
}

// Stage selects synthesis layers for Composer.Render
type Stage uint8

const (
	StageMelody Stage = 1 << iota
	StageRhythm
	StageHarmony

	StageAll = StageMelody | StageRhythm | StageHarmony
)

// Sentinel errors
var (
	ErrEmptyNotePool  = errors.New("empty note pool")
	ErrMissingSeed    = errors.New("battle seed is required")
	ErrBufferShape    = errors.New("invalid audio buffer shape")
	ErrNoAudioBackend = errors.New("no compatible audio backend found")
	ErrPipeClosed     = errors.New("audio pipe closed")
	ErrSinkClosed     = errors.New("audio sink closed")
)

func (s Stage) String() string {
	switch s {
	case StageMelody:
		return "melody"
	case StageRhythm:
		return "rhythm"
	case StageHarmony:
		return "harmony"
	case StageAll:
		return "mix"
	default:
		return "stages"
	}
}
