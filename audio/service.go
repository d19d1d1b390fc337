package audio

import (
	"log"
	"sync"
	"sync/atomic"
)

// Service owns the playback sink for the process
// Degrades to a NullSink when no device or backend is available
type Service struct {
	config *AudioConfig

	mu       sync.Mutex
	sink     Sink
	disabled atomic.Bool
}

// NewService creates an audio service using cfg (nil for defaults)
func NewService(cfg *AudioConfig) *Service {
	if cfg == nil {
		cfg = DefaultAudioConfig()
	}
	return &Service{config: cfg}
}

// Name implements service.Service
func (s *Service) Name() string {
	return "audio"
}

// Dependencies implements service.Service
func (s *Service) Dependencies() []string {
	return nil
}

// Init implements service.Service
// args[0]: *AudioConfig (optional, overrides constructor config)
// Backend failures disable playback instead of returning an error
func (s *Service) Init(args ...any) error {
	if len(args) > 0 {
		if cfg, ok := args[0].(*AudioConfig); ok && cfg != nil {
			s.config = cfg
		}
	}

	sink, err := OpenSink(s.config)
	if err != nil {
		log.Printf("audio: %s backend unavailable, playback disabled: %v", s.config.Backend, err)
		sink = NullSink{}
	}
	if _, null := sink.(NullSink); null {
		s.disabled.Store(true)
	}

	s.mu.Lock()
	s.sink = sink
	s.mu.Unlock()
	return nil
}

// Start implements service.Service
func (s *Service) Start() error {
	return nil
}

// Stop implements service.Service
func (s *Service) Stop() error {
	s.mu.Lock()
	sink := s.sink
	s.mu.Unlock()

	if sink == nil {
		return nil
	}
	return sink.Close()
}

// Sink returns the active sink, NullSink before Init
func (s *Service) Sink() Sink {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sink == nil {
		return NullSink{}
	}
	return s.sink
}

// Config returns the effective configuration
func (s *Service) Config() *AudioConfig {
	return s.config
}

// IsDisabled reports whether playback is unavailable
func (s *Service) IsDisabled() bool {
	return s.disabled.Load()
}
