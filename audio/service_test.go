package audio

import "testing"

// TestServiceGracefulDegradation verifies a missing backend disables playback without error
func TestServiceGracefulDegradation(t *testing.T) {
	stubLookPath(t)
	cfg := DefaultAudioConfig()
	cfg.Backend = BackendNamePipe

	svc := NewService(cfg)
	if err := svc.Init(); err != nil {
		t.Fatalf("Expected no error from Init, got %v", err)
	}
	if svc.Sink() == nil {
		t.Fatal("Expected non-nil sink")
	}
	if err := svc.Stop(); err != nil {
		t.Errorf("Unexpected stop error: %v", err)
	}
	if err := svc.Stop(); err != nil {
		t.Errorf("Expected idempotent stop, got %v", err)
	}
}

// TestServiceDisabledConfig verifies Init args override the constructor config
func TestServiceDisabledConfig(t *testing.T) {
	svc := NewService(nil)
	if svc.Name() != "audio" || svc.Dependencies() != nil {
		t.Error("Unexpected service identity")
	}

	cfg := DefaultAudioConfig()
	cfg.Enabled = false
	if err := svc.Init(cfg); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !svc.IsDisabled() {
		t.Error("Expected disabled playback")
	}
	if svc.Config() != cfg {
		t.Error("Expected Init config to replace default")
	}
	if _, ok := svc.Sink().(NullSink); !ok {
		t.Errorf("Expected NullSink, got %T", svc.Sink())
	}
}

// TestServiceSinkBeforeInit verifies callers never see a nil sink
func TestServiceSinkBeforeInit(t *testing.T) {
	if _, ok := NewService(nil).Sink().(NullSink); !ok {
		t.Error("Expected NullSink before Init")
	}
}
