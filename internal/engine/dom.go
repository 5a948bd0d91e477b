package engine

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DOM is the reference document engine, backed by an x/net/html node tree.
// The body element always exists, even for an empty document. A single
// mutex serializes all commands; change events are dispatched after the
// mutation has committed and the lock has been released.
type DOM struct {
	mu       sync.Mutex
	body     *html.Node
	css      string
	nodes    map[string]*html.Node
	ids      map[*html.Node]string
	selected string
	subs     map[string]subscription
}

type subscription struct {
	kinds map[EventKind]bool // nil means all kinds
	h     Handler
}

// NewDOM creates an empty document engine.
func NewDOM() *DOM {
	return &DOM{
		body: &html.Node{
			Type:     html.ElementNode,
			Data:     "body",
			DataAtom: atom.Body,
		},
		nodes: make(map[string]*html.Node),
		ids:   make(map[*html.Node]string),
		subs:  make(map[string]subscription),
	}
}

// NodeInfo describes one component for listing purposes.
type NodeInfo struct {
	ID  string `json:"id"`
	Tag string `json:"tag"`
}

// LoadDocument replaces the whole document with the parsed body fragment
// and stylesheet, clears the selection and emits a load event. On parse
// failure the previous document is kept.
func (d *DOM) LoadDocument(fragment, css string) error {
	parsed, err := parseFragment(fragment, d.bodyContext())
	if err != nil {
		return fmt.Errorf("parsing document: %w", err)
	}

	d.mu.Lock()
	for c := d.body.FirstChild; c != nil; {
		next := c.NextSibling
		d.body.RemoveChild(c)
		d.unindex(c)
		c = next
	}
	for _, n := range parsed {
		d.body.AppendChild(n)
		d.index(n)
	}
	d.css = css
	d.selected = ""
	hs := d.handlersFor(EventLoad)
	d.mu.Unlock()

	dispatch(hs, Event{Kind: EventLoad})
	return nil
}

// HTML returns the serialized body fragment in document order.
func (d *DOM) HTML() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var buf bytes.Buffer
	for c := d.body.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&buf, c)
	}
	return buf.String()
}

// CSS returns the global stylesheet verbatim.
func (d *DOM) CSS() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.css
}

// SetCSS replaces the global stylesheet.
func (d *DOM) SetCSS(css string) {
	d.mu.Lock()
	d.css = css
	hs := d.handlersFor(EventStyleChange)
	d.mu.Unlock()

	dispatch(hs, Event{Kind: EventStyleChange})
}

// InsertFragment parses the fragment and appends it to the component with
// the given parent id, or to the document root when parentID is empty.
func (d *DOM) InsertFragment(parentID, fragment string) error {
	d.mu.Lock()
	parent := d.body
	if parentID != "" {
		var ok bool
		parent, ok = d.nodes[parentID]
		if !ok {
			d.mu.Unlock()
			return fmt.Errorf("no component with id %s", parentID)
		}
	}
	ctx := bareContext(parent)
	d.mu.Unlock()

	parsed, err := parseFragment(fragment, ctx)
	if err != nil {
		return fmt.Errorf("parsing fragment: %w", err)
	}

	d.mu.Lock()
	for _, n := range parsed {
		parent.AppendChild(n)
		d.index(n)
	}
	hs := d.handlersFor(EventComponentAdd)
	d.mu.Unlock()

	dispatch(hs, Event{Kind: EventComponentAdd, NodeID: parentID})
	return nil
}

// RemoveComponent detaches the component from the tree. A selection inside
// the removed subtree resets to none.
func (d *DOM) RemoveComponent(id string) error {
	d.mu.Lock()
	n, ok := d.nodes[id]
	if !ok {
		d.mu.Unlock()
		return fmt.Errorf("no component with id %s", id)
	}
	n.Parent.RemoveChild(n)
	d.unindex(n)

	var events []Event
	events = append(events, Event{Kind: EventComponentRemove, NodeID: id})
	if d.selected != "" {
		if _, still := d.nodes[d.selected]; !still {
			d.selected = ""
			events = append(events, Event{Kind: EventComponentSelected})
		}
	}
	batches := make([][]Handler, len(events))
	for i, e := range events {
		batches[i] = d.handlersFor(e.Kind)
	}
	d.mu.Unlock()

	for i, e := range events {
		dispatch(batches[i], e)
	}
	return nil
}

// SetAttr sets (or replaces) an attribute on the component.
func (d *DOM) SetAttr(id, key, value string) error {
	d.mu.Lock()
	n, ok := d.nodes[id]
	if !ok {
		d.mu.Unlock()
		return fmt.Errorf("no component with id %s", id)
	}
	replaced := false
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = value
			replaced = true
			break
		}
	}
	if !replaced {
		n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
	}
	hs := d.handlersFor(EventUpdate)
	d.mu.Unlock()

	dispatch(hs, Event{Kind: EventUpdate, NodeID: id})
	return nil
}

// Select makes the component with the given id the current selection.
func (d *DOM) Select(id string) error {
	d.mu.Lock()
	if _, ok := d.nodes[id]; !ok {
		d.mu.Unlock()
		return fmt.Errorf("no component with id %s", id)
	}
	d.selected = id
	hs := d.handlersFor(EventComponentSelected)
	d.mu.Unlock()

	dispatch(hs, Event{Kind: EventComponentSelected, NodeID: id})
	return nil
}

// Deselect clears the selection.
func (d *DOM) Deselect() {
	d.mu.Lock()
	d.selected = ""
	hs := d.handlersFor(EventComponentSelected)
	d.mu.Unlock()

	dispatch(hs, Event{Kind: EventComponentSelected})
}

// Selected returns the current selection, if any.
func (d *DOM) Selected() (Node, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.selected == "" {
		return nil, false
	}
	if _, ok := d.nodes[d.selected]; !ok {
		return nil, false
	}
	return &domNode{d: d, id: d.selected}, true
}

// NodeByID returns a live reference to the component with the given id.
func (d *DOM) NodeByID(id string) (Node, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.nodes[id]; !ok {
		return nil, false
	}
	return &domNode{d: d, id: id}, true
}

// Components lists every element component in document order.
func (d *DOM) Components() []NodeInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	var infos []NodeInfo
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode {
				infos = append(infos, NodeInfo{ID: d.ids[c], Tag: c.Data})
			}
			walk(c)
		}
	}
	walk(d.body)
	return infos
}

// Subscribe registers a handler for the given event kinds. No kinds means
// every kind. The returned id is passed to Unsubscribe.
func (d *DOM) Subscribe(h Handler, kinds ...EventKind) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	sub := subscription{h: h}
	if len(kinds) > 0 {
		sub.kinds = make(map[EventKind]bool, len(kinds))
		for _, k := range kinds {
			sub.kinds[k] = true
		}
	}
	id := uuid.New().String()
	d.subs[id] = sub
	return id
}

// Unsubscribe removes a subscription.
func (d *DOM) Unsubscribe(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.subs, id)
}

// handlersFor collects the handlers subscribed to the given kind.
// Callers must hold d.mu.
func (d *DOM) handlersFor(kind EventKind) []Handler {
	var hs []Handler
	for _, sub := range d.subs {
		if sub.kinds == nil || sub.kinds[kind] {
			hs = append(hs, sub.h)
		}
	}
	return hs
}

func dispatch(hs []Handler, e Event) {
	for _, h := range hs {
		h(e)
	}
}

// index assigns identities to every element node in the subtree.
func (d *DOM) index(n *html.Node) {
	if n.Type == html.ElementNode {
		id := uuid.New().String()
		d.nodes[id] = n
		d.ids[n] = id
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.index(c)
	}
}

// unindex drops identities for every element node in the subtree.
func (d *DOM) unindex(n *html.Node) {
	if n.Type == html.ElementNode {
		if id, ok := d.ids[n]; ok {
			delete(d.nodes, id)
			delete(d.ids, n)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.unindex(c)
	}
}

func (d *DOM) bodyContext() *html.Node {
	return &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
}

// bareContext builds a detached context element matching the given node,
// suitable for fragment parsing.
func bareContext(n *html.Node) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: n.Data, DataAtom: n.DataAtom}
}

func parseFragment(src string, ctx *html.Node) ([]*html.Node, error) {
	return html.ParseFragment(strings.NewReader(src), ctx)
}

// domNode is a live component reference. It resolves the component by id
// on every call, so it naturally reports removal.
type domNode struct {
	d  *DOM
	id string
}

func (n *domNode) ID() string { return n.id }

func (n *domNode) Tag() string {
	n.d.mu.Lock()
	defer n.d.mu.Unlock()
	if node, ok := n.d.nodes[n.id]; ok {
		return node.Data
	}
	return ""
}

func (n *domNode) OuterHTML() string {
	n.d.mu.Lock()
	defer n.d.mu.Unlock()
	node, ok := n.d.nodes[n.id]
	if !ok {
		return ""
	}
	var buf bytes.Buffer
	_ = html.Render(&buf, node)
	return buf.String()
}

// SetChildren replaces the component's children with the parsed fragment.
// On parse failure the component is left unchanged.
func (n *domNode) SetChildren(fragment string) error {
	n.d.mu.Lock()
	node, ok := n.d.nodes[n.id]
	if !ok {
		n.d.mu.Unlock()
		return fmt.Errorf("component %s is no longer in the document", n.id)
	}
	ctx := bareContext(node)
	n.d.mu.Unlock()

	parsed, err := parseFragment(fragment, ctx)
	if err != nil {
		return fmt.Errorf("parsing fragment: %w", err)
	}

	n.d.mu.Lock()
	if _, still := n.d.nodes[n.id]; !still {
		n.d.mu.Unlock()
		return fmt.Errorf("component %s is no longer in the document", n.id)
	}
	for c := node.FirstChild; c != nil; {
		next := c.NextSibling
		node.RemoveChild(c)
		n.d.unindex(c)
		c = next
	}
	for _, p := range parsed {
		node.AppendChild(p)
		n.d.index(p)
	}

	var events []Event
	events = append(events, Event{Kind: EventComponentUpdate, NodeID: n.id})
	if n.d.selected != "" {
		if _, still := n.d.nodes[n.d.selected]; !still {
			n.d.selected = ""
			events = append(events, Event{Kind: EventComponentSelected})
		}
	}
	batches := make([][]Handler, len(events))
	for i, e := range events {
		batches[i] = n.d.handlersFor(e.Kind)
	}
	n.d.mu.Unlock()

	for i, e := range events {
		dispatch(batches[i], e)
	}
	return nil
}

var _ Engine = (*DOM)(nil)
var _ Node = (*domNode)(nil)
