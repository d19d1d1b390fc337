package audio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
)

// PipeSink plays buffers by piping raw PCM into a system tool
type PipeSink struct {
	config  *AudioConfig
	backend *BackendConfig

	mu      sync.Mutex // Serializes Play
	stopMu  sync.Mutex // Protects cmd and stop
	cmd     *exec.Cmd
	stop    chan struct{}
	stopped bool

	closed atomic.Bool
	played atomic.Uint64
}

// NewPipeSink detects a backend for cfg.SampleRate
func NewPipeSink(cfg *AudioConfig) (*PipeSink, error) {
	if cfg == nil {
		cfg = DefaultAudioConfig()
	}
	backend, err := DetectBackend(cfg.SampleRate)
	if err != nil {
		return nil, err
	}
	return &PipeSink{config: cfg, backend: backend}, nil
}

// Name returns the backend tool name
func (p *PipeSink) Name() string {
	return "pipe:" + p.backend.Name
}

// Backend returns the detected backend
func (p *PipeSink) Backend() *BackendConfig {
	return p.backend
}

// Play streams buf to a fresh backend process and waits for it to drain
func (p *PipeSink) Play(buf *AudioBuffer) error {
	if p.closed.Load() {
		return ErrSinkClosed
	}
	if err := buf.Validate(); err != nil {
		return err
	}
	if buf.SampleRate != p.config.SampleRate {
		return fmt.Errorf("%w: buffer rate %d, backend rate %d", ErrBufferShape, buf.SampleRate, p.config.SampleRate)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	writer, finish, err := p.open()
	if err != nil {
		return err
	}

	_, werr := writePCM(writer, newVolume(buf.Streamer(), p.config.MasterVolume), p.stopChan())
	ferr := finish()

	p.stopMu.Lock()
	interrupted := p.stopped
	p.cmd = nil
	p.stop = nil
	p.stopMu.Unlock()

	// Killed or interrupted on purpose
	if interrupted || errors.Is(werr, ErrSinkClosed) {
		return nil
	}
	if werr != nil {
		return werr
	}
	if ferr != nil {
		return fmt.Errorf("%s exited: %w", p.backend.Name, ferr)
	}
	p.played.Add(1)
	return nil
}

// open starts the backend and returns its input plus a finisher
func (p *PipeSink) open() (io.Writer, func() error, error) {
	stop := make(chan struct{})

	if p.backend.Type == BackendOSS {
		// Direct file write for OSS
		f, err := os.OpenFile(p.backend.Path, os.O_WRONLY, 0)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrNoAudioBackend, err)
		}
		p.setRunning(nil, stop)
		return f, f.Close, nil
	}

	cmd := exec.Command(p.backend.Path, p.backend.Args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrNoAudioBackend, err)
	}
	if err := cmd.Start(); err != nil {
		stdin.Close()
		return nil, nil, fmt.Errorf("%w: %v", ErrNoAudioBackend, err)
	}
	p.setRunning(cmd, stop)

	finish := func() error {
		stdin.Close()
		return cmd.Wait()
	}
	return stdin, finish, nil
}

func (p *PipeSink) setRunning(cmd *exec.Cmd, stop chan struct{}) {
	p.stopMu.Lock()
	p.cmd = cmd
	p.stop = stop
	p.stopped = false
	p.stopMu.Unlock()
}

func (p *PipeSink) stopChan() <-chan struct{} {
	p.stopMu.Lock()
	defer p.stopMu.Unlock()
	return p.stop
}

// Stop interrupts the current playback, if any
func (p *PipeSink) Stop() {
	p.stopMu.Lock()
	defer p.stopMu.Unlock()

	if p.stop != nil && !p.stopped {
		close(p.stop)
		p.stopped = true
	}
	if p.cmd != nil && p.cmd.Process != nil {
		p.cmd.Process.Kill()
	}
}

// Close stops playback and rejects further Play calls
func (p *PipeSink) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	p.Stop()
	return nil
}

// Played returns the number of buffers fully delivered
func (p *PipeSink) Played() uint64 {
	return p.played.Load()
}
