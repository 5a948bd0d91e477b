// Package theme resolves the user's theme choice to a concrete color
// scheme. An explicit light/dark choice resolves to itself; "auto"
// follows the host environment's preference and keeps following it live
// for as long as auto stays selected.
package theme

import (
	"sync"

	"github.com/halmert/pagemason/internal/settings"
)

// Scheme is a concrete resolved color scheme.
type Scheme string

const (
	SchemeLight Scheme = "light"
	SchemeDark  Scheme = "dark"
)

// PreferenceSource reports the host environment's light/dark preference.
type PreferenceSource interface {
	Current() Scheme
	// Subscribe registers a preference-change listener and returns a
	// cancel function.
	Subscribe(fn func(Scheme)) func()
}

// HostPreference is a settable PreferenceSource. The editor server feeds
// it from the browser's prefers-color-scheme reports.
type HostPreference struct {
	mu        sync.Mutex
	scheme    Scheme
	listeners map[int]func(Scheme)
	nextID    int
}

// NewHostPreference starts with the given scheme.
func NewHostPreference(initial Scheme) *HostPreference {
	return &HostPreference{scheme: initial, listeners: make(map[int]func(Scheme))}
}

// Current returns the host preference.
func (h *HostPreference) Current() Scheme {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.scheme
}

// Set records a new host preference and notifies subscribers.
func (h *HostPreference) Set(s Scheme) {
	h.mu.Lock()
	if h.scheme == s {
		h.mu.Unlock()
		return
	}
	h.scheme = s
	fns := make([]func(Scheme), 0, len(h.listeners))
	for _, fn := range h.listeners {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}

// Subscribe registers a listener; the returned function cancels it.
func (h *HostPreference) Subscribe(fn func(Scheme)) func() {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.listeners, id)
		h.mu.Unlock()
	}
}

// Resolver tracks the current theme choice and produces the resolved
// scheme, re-resolving on host preference changes while auto is selected.
type Resolver struct {
	mu        sync.Mutex
	choice    settings.ThemeChoice
	source    PreferenceSource
	cancel    func()
	listeners map[int]func(Scheme)
	nextID    int
}

// NewResolver creates a resolver over the given preference source.
func NewResolver(choice settings.ThemeChoice, source PreferenceSource) *Resolver {
	r := &Resolver{
		choice:    choice,
		source:    source,
		listeners: make(map[int]func(Scheme)),
	}
	r.cancel = source.Subscribe(r.onPreference)
	return r
}

// Close stops following the preference source.
func (r *Resolver) Close() {
	if r.cancel != nil {
		r.cancel()
	}
}

// SetChoice records a new theme choice and notifies listeners of the
// newly resolved scheme.
func (r *Resolver) SetChoice(choice settings.ThemeChoice) {
	r.mu.Lock()
	r.choice = choice
	r.mu.Unlock()
	r.notify()
}

// Resolved returns the concrete scheme for the current choice.
func (r *Resolver) Resolved() Scheme {
	r.mu.Lock()
	choice := r.choice
	r.mu.Unlock()

	switch choice {
	case settings.ThemeLight:
		return SchemeLight
	case settings.ThemeDark:
		return SchemeDark
	default:
		return r.source.Current()
	}
}

// OnChange registers a listener for resolved-scheme changes; the returned
// function cancels it.
func (r *Resolver) OnChange(fn func(Scheme)) func() {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.listeners[id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.listeners, id)
		r.mu.Unlock()
	}
}

// onPreference handles a host preference flip. Explicit choices ignore
// it; auto re-resolves.
func (r *Resolver) onPreference(Scheme) {
	r.mu.Lock()
	choice := r.choice
	r.mu.Unlock()
	if choice != settings.ThemeAuto && choice != "" {
		return
	}
	r.notify()
}

func (r *Resolver) notify() {
	resolved := r.Resolved()
	r.mu.Lock()
	fns := make([]func(Scheme), 0, len(r.listeners))
	for _, fn := range r.listeners {
		fns = append(fns, fn)
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn(resolved)
	}
}
