package service

// Service is a long-lived resource owned by the CLI: audio device, vote log,
// telemetry queue
//
// Lifecycle:
//  1. Register with a Hub, optionally with init args
//  2. Init(args...) - open files or devices
//  3. Start() - launch background goroutines
//  4. [battle session runs]
//  5. Stop() - flush and release, reverse dependency order
type Service interface {
	// Name returns the unique identifier for this service
	Name() string

	// Dependencies returns names of services that must Init before this one
	Dependencies() []string

	// Init configures the service from the args given at registration
	Init(args ...any) error

	// Start begins service operation
	Start() error

	// Stop halts the service; must be idempotent
	Stop() error
}
