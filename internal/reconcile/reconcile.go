// Package reconcile resolves which template a live page should render:
// the server-chosen one, or a locally cached override that wins once the
// page has loaded. The same transition rules drive later cross-context
// notifications, so a change made anywhere converges every open page.
package reconcile

import (
	"sync"
	"time"
)

// State is the lifecycle stage of a reconciling page.
type State int

const (
	// ServerSide renders the server-chosen template only; the local
	// override has not been consulted yet.
	ServerSide State = iota
	// Transitioning briefly shows a neutral indicator while the active
	// template is being swapped.
	Transitioning
	// Stable renders the resolved template.
	Stable
)

func (s State) String() string {
	switch s {
	case ServerSide:
		return "server-side"
	case Transitioning:
		return "transitioning"
	default:
		return "stable"
	}
}

// DefaultTransitionDelay bridges the visual swap so it is not jarring.
// It is cosmetic, not a technical necessity.
const DefaultTransitionDelay = 50 * time.Millisecond

// Storage is the slice of the local template cache the wrapper needs.
type Storage interface {
	ReadLocal() string
	Subscribe(fn func(id string)) (unsubscribe func())
}

// Wrapper reconciles the server-provided template with local overrides
// and cross-context change notifications.
type Wrapper struct {
	storage Storage
	delay   time.Duration

	// onSettle, when set, is called each time the wrapper lands in
	// Stable with a new active template.
	onSettle func(id string)

	mu          sync.Mutex
	server      string
	active      string
	state       State
	timer       *time.Timer
	unsubscribe func()
}

// Option configures a Wrapper.
type Option func(*Wrapper)

// WithDelay overrides the transition delay (tests use zero).
func WithDelay(d time.Duration) Option {
	return func(w *Wrapper) { w.delay = d }
}

// WithOnSettle registers a callback fired after each settled swap.
func WithOnSettle(fn func(id string)) Option {
	return func(w *Wrapper) { w.onSettle = fn }
}

// New creates a Wrapper for a page whose markup was rendered with the
// given server-chosen template. The wrapper starts in ServerSide.
func New(serverTemplate string, storage Storage, opts ...Option) *Wrapper {
	w := &Wrapper{
		storage: storage,
		delay:   DefaultTransitionDelay,
		server:  serverTemplate,
		active:  serverTemplate,
		state:   ServerSide,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Hydrate consults the local override and subscribes to cross-context
// notifications for the wrapper's lifetime. An override that differs
// from the server choice is applied after the transition delay; an
// absent or equal override settles immediately on the server template.
// Unavailable storage reads as absent, so the page still renders.
func (w *Wrapper) Hydrate() {
	override := w.storage.ReadLocal()

	w.mu.Lock()
	if override != "" && override != w.server {
		w.beginTransitionLocked(override)
	} else {
		w.state = Stable
	}
	w.mu.Unlock()

	unsubscribe := w.storage.Subscribe(w.Apply)
	w.mu.Lock()
	w.unsubscribe = unsubscribe
	w.mu.Unlock()
}

// Apply re-runs the transition logic against a newly announced id, as
// when another context changes the template.
func (w *Wrapper) Apply(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if id == "" || id == w.active {
		if w.state != Transitioning {
			w.state = Stable
		}
		return
	}
	w.beginTransitionLocked(id)
}

// beginTransitionLocked swaps to id after the delay. A newer transition
// supersedes a pending one; the stale timer's result is ignored.
func (w *Wrapper) beginTransitionLocked(id string) {
	w.state = Transitioning
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, func() {
		w.mu.Lock()
		w.active = id
		w.state = Stable
		onSettle := w.onSettle
		w.mu.Unlock()

		if onSettle != nil {
			onSettle(id)
		}
	})
}

// Active returns the template the page should currently render and the
// wrapper's state. During ServerSide and Transitioning that is the last
// settled template, never a half-applied override.
func (w *Wrapper) Active() (id string, state State) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active, w.state
}

// Close detaches the wrapper from cross-context notifications and stops
// any pending transition. Safe to call more than once.
func (w *Wrapper) Close() {
	w.mu.Lock()
	unsubscribe := w.unsubscribe
	w.unsubscribe = nil
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}
