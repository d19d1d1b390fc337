package service

import (
	"errors"
	"fmt"
	"log"
	"slices"
	"sync"
)

// ErrCycle is returned when service dependencies form a loop
var ErrCycle = errors.New("circular service dependency")

type entry struct {
	svc  Service
	args []any
}

// Hub owns registered services and drives their lifecycle in dependency order
type Hub struct {
	mu      sync.RWMutex
	entries map[string]entry
	order   []string // Dependency order, computed on InitAll
	started []string // Started services, stopped in reverse
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{entries: make(map[string]entry)}
}

// Register adds svc; args are passed to its Init
func (h *Hub) Register(svc Service, args ...any) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	name := svc.Name()
	if _, exists := h.entries[name]; exists {
		return fmt.Errorf("service already registered: %s", name)
	}
	h.entries[name] = entry{svc: svc, args: args}
	h.order = nil
	return nil
}

// Get retrieves a service by name
func (h *Hub) Get(name string) (Service, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	e, ok := h.entries[name]
	return e.svc, ok
}

// Lookup retrieves a service by name typed as T
func Lookup[T any](h *Hub, name string) (T, error) {
	var zero T
	svc, ok := h.Get(name)
	if !ok {
		return zero, fmt.Errorf("service not found: %s", name)
	}
	typed, ok := svc.(T)
	if !ok {
		return zero, fmt.Errorf("service %s: type mismatch, got %T", name, svc)
	}
	return typed, nil
}

// InitAll calls Init on every service in dependency order
// On failure, already-initialized services are stopped in reverse order
func (h *Hub) InitAll() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.order == nil {
		order, err := h.resolve()
		if err != nil {
			return err
		}
		h.order = order
	}

	var done []string
	for _, name := range h.order {
		e := h.entries[name]
		if err := e.svc.Init(e.args...); err != nil {
			h.stopReverse(done)
			return fmt.Errorf("service %s init: %w", name, err)
		}
		done = append(done, name)
	}
	return nil
}

// StartAll calls Start in dependency order, rolling back on failure
func (h *Hub) StartAll() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.order == nil {
		return errors.New("services not initialized")
	}

	h.started = h.started[:0]
	for _, name := range h.order {
		if err := h.entries[name].svc.Start(); err != nil {
			h.stopReverse(h.started)
			h.started = nil
			return fmt.Errorf("service %s start: %w", name, err)
		}
		h.started = append(h.started, name)
	}
	return nil
}

// StopAll stops started services in reverse order
// Errors are logged so every service gets its Stop call
func (h *Hub) StopAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.stopReverse(h.started)
	h.started = nil
}

func (h *Hub) stopReverse(names []string) {
	for i := len(names) - 1; i >= 0; i-- {
		if err := h.entries[names[i]].svc.Stop(); err != nil {
			log.Printf("service %s stop: %v", names[i], err)
		}
	}
}

// resolve orders services with Kahn's algorithm
// Ties are broken by name so the order is stable across runs
func (h *Hub) resolve() ([]string, error) {
	inDegree := make(map[string]int, len(h.entries))
	dependents := make(map[string][]string)

	for name := range h.entries {
		inDegree[name] += 0
	}
	for name, e := range h.entries {
		for _, dep := range e.svc.Dependencies() {
			if _, ok := h.entries[dep]; !ok {
				return nil, fmt.Errorf("service %s depends on unregistered service: %s", name, dep)
			}
			inDegree[name]++
			dependents[dep] = append(dependents[dep], name)
		}
	}

	var ready []string
	for name, d := range inDegree {
		if d == 0 {
			ready = append(ready, name)
		}
	}
	slices.Sort(ready)

	order := make([]string, 0, len(h.entries))
	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		order = append(order, name)

		var next []string
		for _, dep := range dependents[name] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				next = append(next, dep)
			}
		}
		slices.Sort(next)
		ready = append(ready, next...)
	}

	if len(order) != len(h.entries) {
		return nil, ErrCycle
	}
	return order, nil
}

// Names returns registered service names, sorted
func (h *Hub) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.entries))
	for name := range h.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
