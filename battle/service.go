package battle

import (
	"fmt"
	"os"
	"sync"
)

// TelemetryQueueSize bounds events waiting for delivery
const TelemetryQueueSize = 256

// VoteService owns the vote log file for a hub
type VoteService struct {
	path string

	mu  sync.Mutex
	log *VoteLog
}

// NewVoteService creates a vote service; an empty path keeps votes in memory
func NewVoteService(path string) *VoteService {
	return &VoteService{path: path}
}

// Name implements service.Service
func (s *VoteService) Name() string { return "votes" }

// Dependencies implements service.Service
func (s *VoteService) Dependencies() []string { return nil }

// Init implements service.Service
// args[0]: string path (optional, overrides constructor path)
func (s *VoteService) Init(args ...any) error {
	if len(args) > 0 {
		if path, ok := args[0].(string); ok {
			s.path = path
		}
	}

	var (
		l   *VoteLog
		err error
	)
	if s.path == "" {
		l = NewVoteLog(nil)
	} else if l, err = OpenVoteLog(s.path); err != nil {
		return err
	}

	s.mu.Lock()
	s.log = l
	s.mu.Unlock()
	return nil
}

// Start implements service.Service
func (s *VoteService) Start() error { return nil }

// Stop implements service.Service
func (s *VoteService) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.log == nil {
		return nil
	}
	return s.log.Close()
}

// Log returns the vote log, nil before Init
func (s *VoteService) Log() *VoteLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log
}

// TelemetryService owns the telemetry output and its delivery queue
type TelemetryService struct {
	path string

	mu    sync.Mutex
	file  *os.File
	queue *QueueSender
}

// NewTelemetryService writes events to path; an empty path drops them
func NewTelemetryService(path string) *TelemetryService {
	return &TelemetryService{path: path}
}

// Name implements service.Service
func (s *TelemetryService) Name() string { return "telemetry" }

// Dependencies implements service.Service
func (s *TelemetryService) Dependencies() []string { return nil }

// Init implements service.Service, opening the output file
func (s *TelemetryService) Init(args ...any) error {
	if s.path == "" {
		return nil
	}
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open telemetry: %w", err)
	}
	s.mu.Lock()
	s.file = f
	s.mu.Unlock()
	return nil
}

// Start implements service.Service, launching the delivery goroutine
func (s *TelemetryService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var next Sender = NopSender{}
	if s.file != nil {
		next = NewWriterSender(s.file)
	}
	s.queue = NewQueueSender(next, TelemetryQueueSize)
	s.queue.Send(NewEvent(EventAppLoaded, nil))
	return nil
}

// Stop implements service.Service, draining the queue then closing the file
func (s *TelemetryService) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.queue != nil {
		s.queue.Close()
		s.queue = nil
	}
	if s.file != nil {
		err := s.file.Close()
		s.file = nil
		return err
	}
	return nil
}

// Sender returns the queued sender, a NopSender when not started
func (s *TelemetryService) Sender() Sender {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.queue == nil {
		return NopSender{}
	}
	return s.queue
}
