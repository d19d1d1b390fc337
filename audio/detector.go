package audio

import (
	"os"
	"os/exec"
	"runtime"
	"strconv"
)

// Swapped in tests
var (
	lookPath   = exec.LookPath
	statDevice = func(path string) error { _, err := os.Stat(path); return err }
)

// pipeBackend describes how to find one tool and feed it s16le stereo
type pipeBackend struct {
	kind BackendType
	name string
	tool string // Executable looked up on PATH, empty for device backends
	dev  string // Device written directly when tool is empty
	goos string // Restricts the backend to one OS when set
	args func(rate string) []string
}

// pipeBackends is ordered by preference
var pipeBackends = []pipeBackend{
	{kind: BackendPulse, name: "pacat", tool: "pacat", args: func(rate string) []string {
		return []string{"--raw", "--format=s16le", "--rate=" + rate, "--channels=2", "--latency-msec=50", "--playback"}
	}},
	{kind: BackendPipeWire, name: "pw-cat", tool: "pw-cat", args: func(rate string) []string {
		return []string{"--playback", "--format=s16", "--rate=" + rate, "--channels=2", "--latency=50ms", "-"}
	}},
	{kind: BackendALSA, name: "aplay", tool: "aplay", args: func(rate string) []string {
		return []string{"-t", "raw", "-f", "S16_LE", "-r", rate, "-c", "2", "-q"}
	}},
	{kind: BackendSoX, name: "sox", tool: "play", args: func(rate string) []string {
		return []string{"-t", "raw", "-e", "signed", "-b", "16", "-c", "2", "-r", rate, "-", "-d", "-q"}
	}},
	{kind: BackendFFplay, name: "ffplay", tool: "ffplay", args: func(rate string) []string {
		return []string{
			"-nodisp", "-autoexit",
			"-f", "s16le", "-ac", "2", "-ar", rate,
			"-probesize", "32", "-analyzeduration", "0",
			"-i", "pipe:0", "-loglevel", "quiet",
		}
	}},
	{kind: BackendOSS, name: "oss", dev: "/dev/dsp", goos: "freebsd"},
}

// resolve returns the backend config when the tool or device is present
func (b pipeBackend) resolve(rate string) (*BackendConfig, bool) {
	if b.goos != "" && b.goos != runtime.GOOS {
		return nil, false
	}

	cfg := &BackendConfig{Type: b.kind, Name: b.name}
	if b.tool == "" {
		if statDevice(b.dev) != nil {
			return nil, false
		}
		cfg.Path = b.dev
		return cfg, true
	}

	path, err := lookPath(b.tool)
	if err != nil {
		return nil, false
	}
	cfg.Path = path
	cfg.Args = b.args(rate)
	return cfg, true
}

// AvailableBackends lists every installed pipe backend for sampleRate, best first
func AvailableBackends(sampleRate int) []*BackendConfig {
	rate := strconv.Itoa(sampleRate)
	var found []*BackendConfig
	for _, b := range pipeBackends {
		if cfg, ok := b.resolve(rate); ok {
			found = append(found, cfg)
		}
	}
	return found
}

// DetectBackend returns the preferred pipe backend for sampleRate
// Priority: pacat > pw-cat > aplay > play (sox) > ffplay > OSS
func DetectBackend(sampleRate int) (*BackendConfig, error) {
	rate := strconv.Itoa(sampleRate)
	for _, b := range pipeBackends {
		if cfg, ok := b.resolve(rate); ok {
			return cfg, nil
		}
	}
	return nil, ErrNoAudioBackend
}
