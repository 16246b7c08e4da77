package config

import (
	"sync"

	"github.com/tmarsden/daybook/internal/input/key"
	"github.com/tmarsden/daybook/internal/input/shortcut"
)

// Observer is called with the new configuration after every update.
type Observer func(Config)

// Registry holds the live configuration and notifies observers of changes.
// It implements shortcut.Source: bindings are parsed from the descriptors
// current at call time, so reconfiguration reaches the next keystroke.
type Registry struct {
	mu        sync.RWMutex
	cfg       Config
	observers map[uint64]Observer
	nextID    uint64
}

// NewRegistry creates a registry seeded with cfg.
func NewRegistry(cfg Config) *Registry {
	return &Registry{
		cfg:       cfg,
		observers: make(map[uint64]Observer),
	}
}

// Current returns a copy of the live configuration.
func (r *Registry) Current() Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg
}

// Update applies fn to a copy of the configuration, normalizes the result,
// installs it, and notifies observers.
func (r *Registry) Update(fn func(*Config)) {
	r.mu.Lock()
	cfg := r.cfg
	fn(&cfg)
	cfg.normalize()
	r.cfg = cfg

	observers := make([]Observer, 0, len(r.observers))
	for _, obs := range r.observers {
		observers = append(observers, obs)
	}
	r.mu.Unlock()

	// Observers run outside the lock so they may read the registry.
	for _, obs := range observers {
		obs(cfg)
	}
}

// SetShortcuts replaces the undo/redo descriptors.
func (r *Registry) SetShortcuts(s Shortcuts) {
	r.Update(func(c *Config) { c.Shortcuts = s })
}

// Subscription represents a registered observer.
type Subscription struct {
	id       uint64
	registry *Registry
}

// Unsubscribe removes the observer.
func (s *Subscription) Unsubscribe() {
	if s.registry != nil {
		s.registry.unsubscribe(s.id)
	}
}

// Subscribe registers an observer for configuration updates.
func (r *Registry) Subscribe(obs Observer) *Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	r.observers[id] = obs

	return &Subscription{id: id, registry: r}
}

// Bindings parses the current shortcut descriptors. Part of the
// shortcut.Source contract; called on every keystroke.
func (r *Registry) Bindings() shortcut.Bindings {
	r.mu.RLock()
	s := r.cfg.Shortcuts
	r.mu.RUnlock()

	return shortcut.Bindings{
		Undo: key.ParseChord(s.Undo),
		Redo: key.ParseChord(s.Redo),
	}
}

func (r *Registry) unsubscribe(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.observers, id)
}
