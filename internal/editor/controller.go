// Package editor keeps the textual source view in sync with the live
// document. Forward sync (document to text) runs on every engine change
// event, coalesced to at most one regeneration per rendering frame.
// Reverse sync (text to document) only happens on an explicit apply, and
// only while advanced editing mode is enabled.
package editor

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/halmert/pagemason/internal/engine"
	"github.com/halmert/pagemason/internal/format"
)

// Tab names one pane of the source view.
type Tab string

const (
	TabHTML Tab = "html"
	TabCSS  Tab = "css"
	TabJS   Tab = "js"
)

var (
	// ErrNoSelection is returned when an HTML apply has no target component.
	ErrNoSelection = errors.New("no component selected")
	// ErrAdvancedMode is returned when apply is attempted in read-only mode.
	ErrAdvancedMode = errors.New("advanced editing mode must be enabled before applying source changes")
	// ErrUnknownTab is returned for tabs outside html/css/js.
	ErrUnknownTab = errors.New("unknown source tab")
)

// Source is the textual projection of the document. HTML and CSS are
// derived from the engine and replaced wholesale on every forward sync;
// JS has no canvas representation and is authoritative as-is.
type Source struct {
	HTML string `json:"html"`
	CSS  string `json:"css"`
	JS   string `json:"js"`
}

// Controller owns the synced source text and the advanced-mode gate.
type Controller struct {
	mu        sync.Mutex
	eng       engine.Engine
	sched     FrameScheduler
	subID     string
	armed     bool
	src       Source
	advanced  bool
	listeners map[string]func(Source)
}

// NewController creates a controller using the given frame scheduler.
// A nil scheduler falls back to a real-time one.
func NewController(sched FrameScheduler) *Controller {
	if sched == nil {
		sched = NewTickScheduler(0)
	}
	return &Controller{
		sched:     sched,
		listeners: make(map[string]func(Source)),
	}
}

// Attach connects the controller to a document engine, subscribes to its
// change events and runs an immediate forward sync. A later load event
// from the engine (the readiness signal) re-syncs through the normal
// coalescing path.
func (c *Controller) Attach(eng engine.Engine) {
	c.mu.Lock()
	if c.eng != nil {
		c.eng.Unsubscribe(c.subID)
	}
	c.eng = eng
	c.mu.Unlock()

	subID := eng.Subscribe(func(engine.Event) { c.arm() })
	c.mu.Lock()
	c.subID = subID
	c.mu.Unlock()

	c.Refresh()
}

// Detach disconnects the engine. Further applies become no-ops or
// precondition failures; the last synced text stays readable.
func (c *Controller) Detach() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.eng != nil {
		c.eng.Unsubscribe(c.subID)
		c.eng = nil
	}
}

// arm schedules one regeneration for the current frame. The first event
// in a frame arms the callback; every later event in the same frame is a
// no-op. The callback clears the flag before regenerating.
func (c *Controller) arm() {
	c.mu.Lock()
	if c.armed {
		c.mu.Unlock()
		return
	}
	c.armed = true
	c.mu.Unlock()

	c.sched.Schedule(c.flush)
}

func (c *Controller) flush() {
	c.mu.Lock()
	c.armed = false
	c.mu.Unlock()

	c.Refresh()
}

// Refresh regenerates the HTML and CSS projection from the engine, in
// that order, replacing both strings. With no engine attached it is a
// no-op.
func (c *Controller) Refresh() {
	c.mu.Lock()
	eng := c.eng
	c.mu.Unlock()
	if eng == nil {
		return
	}

	htmlText := eng.HTML()
	cssText := eng.CSS()

	c.mu.Lock()
	c.src.HTML = htmlText
	c.src.CSS = cssText
	snapshot := c.src
	listeners := c.listenersCopy()
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}

// Source returns the current synced text.
func (c *Controller) Source() Source {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.src
}

// SetJS stores new authoritative script text.
func (c *Controller) SetJS(text string) {
	c.mu.Lock()
	c.src.JS = text
	snapshot := c.src
	listeners := c.listenersCopy()
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}

// SetAdvanced toggles advanced editing mode.
func (c *Controller) SetAdvanced(enabled bool) {
	c.mu.Lock()
	c.advanced = enabled
	c.mu.Unlock()
}

// Advanced reports whether advanced editing mode is on.
func (c *Controller) Advanced() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.advanced
}

// Apply promotes edited text into the document.
//
// css replaces the whole global stylesheet (a no-op without an engine).
// html replaces the selected component's children and fails without a
// selection. js is stored as the authoritative script text; it has no
// document representation, so a js apply never mutates the document.
// Every failure leaves the document unchanged.
func (c *Controller) Apply(tab Tab, text string) error {
	c.mu.Lock()
	advanced := c.advanced
	eng := c.eng
	c.mu.Unlock()

	if !advanced {
		return ErrAdvancedMode
	}

	switch tab {
	case TabCSS:
		if eng == nil {
			return nil
		}
		eng.SetCSS(text)
		return nil
	case TabHTML:
		if eng == nil {
			return ErrNoSelection
		}
		sel, ok := eng.Selected()
		if !ok {
			return ErrNoSelection
		}
		if err := sel.SetChildren(text); err != nil {
			return fmt.Errorf("applying markup: %w", err)
		}
		return nil
	case TabJS:
		c.SetJS(text)
		return nil
	default:
		return ErrUnknownTab
	}
}

// Format pretty-prints the given tab's text. The transform is pure; on
// failure the caller keeps its existing text.
func (c *Controller) Format(tab Tab, text string) (string, error) {
	switch tab {
	case TabHTML:
		return format.Markup(text)
	case TabCSS:
		return format.Stylesheet(text)
	case TabJS:
		return format.Script(text)
	default:
		return "", ErrUnknownTab
	}
}

// OnSync registers a listener observing every regeneration. The returned
// function cancels the registration.
func (c *Controller) OnSync(fn func(Source)) func() {
	id := uuid.New().String()
	c.mu.Lock()
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// listenersCopy snapshots the listener set. Callers must hold c.mu.
func (c *Controller) listenersCopy() []func(Source) {
	fns := make([]func(Source), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	return fns
}
