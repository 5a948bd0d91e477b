// Package engine owns the live page document: the component tree, the
// global stylesheet and the current selection. All mutation goes through
// engine commands; callers never touch the tree directly. Every command
// that changes observable state emits a change event to subscribers.
package engine

// EventKind names one kind of document change.
type EventKind string

const (
	// EventLoad fires when a whole document is (re)loaded into the engine.
	// It doubles as the readiness signal for consumers that attach before
	// the first document arrives.
	EventLoad EventKind = "load"
	// EventUpdate fires for generic node changes such as attribute edits.
	EventUpdate EventKind = "update"
	// EventComponentAdd fires when a fragment is inserted into the tree.
	EventComponentAdd EventKind = "component:add"
	// EventComponentRemove fires when a component is detached.
	EventComponentRemove EventKind = "component:remove"
	// EventComponentUpdate fires when a component's children are replaced.
	EventComponentUpdate EventKind = "component:update"
	// EventComponentSelected fires when the selection changes. NodeID is
	// empty when the selection was cleared.
	EventComponentSelected EventKind = "component:selected"
	// EventStyleChange fires when the global stylesheet is replaced.
	EventStyleChange EventKind = "style"
)

// Event describes a single document change.
type Event struct {
	Kind   EventKind
	NodeID string
}

// Handler receives change events. Handlers run synchronously after the
// mutation that triggered them has committed.
type Handler func(Event)

// Node is a live reference to one component in the document. The reference
// stays valid until the component is removed from the tree.
type Node interface {
	// ID returns the component's stable identity.
	ID() string
	// Tag returns the element tag name, e.g. "div".
	Tag() string
	// OuterHTML returns the serialized component including its own tag.
	OuterHTML() string
	// SetChildren replaces the component's children with the parsed
	// fragment. On parse failure the component is left unchanged and the
	// cause is returned.
	SetChildren(fragment string) error
}

// Engine is the capability set the editor core requires from a document
// engine. An implementation missing any of these cannot be attached; the
// compiler enforces the full set, so there is no runtime probing of
// optional methods.
type Engine interface {
	// HTML returns the serialized body fragment of the current document.
	HTML() string
	// CSS returns the global stylesheet, verbatim as last set.
	CSS() string
	// Selected returns the currently selected component, if any.
	Selected() (Node, bool)
	// SetCSS replaces the global stylesheet.
	SetCSS(css string)
	// Select makes the component with the given id the selection.
	Select(id string) error
	// Deselect clears the selection.
	Deselect()
	// Subscribe registers a handler for the given event kinds (all kinds
	// when none are named) and returns a subscription id.
	Subscribe(h Handler, kinds ...EventKind) string
	// Unsubscribe removes a previously registered handler.
	Unsubscribe(id string)
}
