package audio

import (
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/musicflow/parameter"
)

// speakerOnce guards the process-wide speaker device
var (
	speakerOnce sync.Once
	speakerErr  error
	speakerRate beep.SampleRate
)

// SpeakerSink plays buffers on the default output device
type SpeakerSink struct {
	mu     sync.Mutex // Serializes Play
	ctrlMu sync.Mutex // Protects current and stop
	rate   beep.SampleRate
	volume float64

	current *beep.Ctrl
	stop    chan struct{}
	closed  bool
}

// NewSpeakerSink initializes the speaker at cfg.SampleRate
// The device is opened once per process; later sinks reuse its rate
func NewSpeakerSink(cfg *AudioConfig) (*SpeakerSink, error) {
	if cfg == nil {
		cfg = DefaultAudioConfig()
	}

	speakerOnce.Do(func() {
		speakerRate = beep.SampleRate(cfg.SampleRate)
		speakerErr = speaker.Init(speakerRate, speakerRate.N(parameter.SpeakerBufferDuration))
	})
	if speakerErr != nil {
		return nil, speakerErr
	}

	return &SpeakerSink{
		rate:   speakerRate,
		volume: cfg.MasterVolume,
	}, nil
}

// Name implements Sink
func (s *SpeakerSink) Name() string {
	return BackendNameSpeaker
}

// Play queues buf on the device and blocks until it ends or Stop is called
func (s *SpeakerSink) Play(buf *AudioBuffer) error {
	if err := buf.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var stream beep.Streamer = buf.Streamer()
	if bufRate := beep.SampleRate(buf.SampleRate); bufRate != s.rate {
		stream = beep.Resample(parameter.ResampleQuality, bufRate, s.rate, stream)
	}

	done := make(chan struct{})
	ctrl := &beep.Ctrl{Streamer: newVolume(stream, s.volume), Paused: false}

	s.ctrlMu.Lock()
	if s.closed {
		s.ctrlMu.Unlock()
		return ErrSinkClosed
	}
	stop := make(chan struct{})
	s.current = ctrl
	s.stop = stop
	s.ctrlMu.Unlock()

	speaker.Play(beep.Seq(ctrl, beep.Callback(func() {
		close(done)
	})))

	select {
	case <-done:
	case <-stop:
	}

	s.ctrlMu.Lock()
	s.current = nil
	s.stop = nil
	s.ctrlMu.Unlock()
	return nil
}

// Stop silences the current buffer and releases Play
func (s *SpeakerSink) Stop() {
	s.ctrlMu.Lock()
	defer s.ctrlMu.Unlock()

	if s.current != nil {
		speaker.Lock()
		s.current.Streamer = nil
		s.current.Paused = true
		speaker.Unlock()
	}
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
}

// Close stops playback and clears the device queue
// beep has no per-sink close, the device stays open for the process
func (s *SpeakerSink) Close() error {
	s.Stop()

	s.ctrlMu.Lock()
	s.closed = true
	s.ctrlMu.Unlock()

	speaker.Clear()
	return nil
}
