package engine

import (
	"strings"
	"testing"
)

func loadedDOM(t *testing.T) *DOM {
	t.Helper()
	d := NewDOM()
	err := d.LoadDocument(`<section><h1>Hello</h1><p>world</p></section>`, "body{margin:0}")
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	return d
}

func findByTag(t *testing.T, d *DOM, tag string) NodeInfo {
	t.Helper()
	for _, c := range d.Components() {
		if c.Tag == tag {
			return c
		}
	}
	t.Fatalf("no %s component found", tag)
	return NodeInfo{}
}

func TestLoadAndSerialize(t *testing.T) {
	d := loadedDOM(t)

	got := d.HTML()
	want := `<section><h1>Hello</h1><p>world</p></section>`
	if got != want {
		t.Errorf("HTML() = %q, want %q", got, want)
	}
	if d.CSS() != "body{margin:0}" {
		t.Errorf("CSS() = %q, want %q", d.CSS(), "body{margin:0}")
	}

	// Serialization is deterministic: repeated reads are byte-identical.
	if again := d.HTML(); again != got {
		t.Errorf("repeated HTML() differs: %q vs %q", again, got)
	}
}

func TestEmptyDocumentHasRoot(t *testing.T) {
	d := NewDOM()
	if d.HTML() != "" {
		t.Errorf("empty document HTML() = %q, want empty", d.HTML())
	}
	// Inserting at the root works even before any load.
	if err := d.InsertFragment("", "<div>first</div>"); err != nil {
		t.Fatalf("InsertFragment: %v", err)
	}
	if d.HTML() != "<div>first</div>" {
		t.Errorf("HTML() = %q", d.HTML())
	}
}

func TestSelection(t *testing.T) {
	d := loadedDOM(t)

	if _, ok := d.Selected(); ok {
		t.Fatal("fresh document should have no selection")
	}

	h1 := findByTag(t, d, "h1")
	if err := d.Select(h1.ID); err != nil {
		t.Fatalf("Select: %v", err)
	}
	sel, ok := d.Selected()
	if !ok {
		t.Fatal("expected a selection")
	}
	if sel.Tag() != "h1" {
		t.Errorf("selected tag = %q, want h1", sel.Tag())
	}

	d.Deselect()
	if _, ok := d.Selected(); ok {
		t.Error("selection should be cleared after Deselect")
	}

	if err := d.Select("bogus"); err == nil {
		t.Error("selecting an unknown id should fail")
	}
}

func TestRemoveClearsSelection(t *testing.T) {
	d := loadedDOM(t)

	p := findByTag(t, d, "p")
	if err := d.Select(p.ID); err != nil {
		t.Fatalf("Select: %v", err)
	}

	section := findByTag(t, d, "section")
	if err := d.RemoveComponent(section.ID); err != nil {
		t.Fatalf("RemoveComponent: %v", err)
	}

	// The selection pointed into the removed subtree.
	if _, ok := d.Selected(); ok {
		t.Error("selection should reset when its component is removed")
	}
	if d.HTML() != "" {
		t.Errorf("HTML() = %q, want empty after removal", d.HTML())
	}
}

func TestSetChildren(t *testing.T) {
	d := loadedDOM(t)

	section := findByTag(t, d, "section")
	node, ok := d.NodeByID(section.ID)
	if !ok {
		t.Fatal("NodeByID failed")
	}

	if err := node.SetChildren("<ul><li>a</li><li>b</li></ul>"); err != nil {
		t.Fatalf("SetChildren: %v", err)
	}
	want := `<section><ul><li>a</li><li>b</li></ul></section>`
	if d.HTML() != want {
		t.Errorf("HTML() = %q, want %q", d.HTML(), want)
	}

	// The replaced children are gone from the index.
	for _, c := range d.Components() {
		if c.Tag == "h1" || c.Tag == "p" {
			t.Errorf("stale component %q still indexed", c.Tag)
		}
	}
}

func TestSetChildrenOnRemovedComponent(t *testing.T) {
	d := loadedDOM(t)

	p := findByTag(t, d, "p")
	node, ok := d.NodeByID(p.ID)
	if !ok {
		t.Fatal("NodeByID failed")
	}
	if err := d.RemoveComponent(p.ID); err != nil {
		t.Fatalf("RemoveComponent: %v", err)
	}

	if err := node.SetChildren("<em>late</em>"); err == nil {
		t.Error("SetChildren on a removed component should fail")
	}
}

func TestSetAttr(t *testing.T) {
	d := loadedDOM(t)

	h1 := findByTag(t, d, "h1")
	if err := d.SetAttr(h1.ID, "class", "title"); err != nil {
		t.Fatalf("SetAttr: %v", err)
	}
	if !strings.Contains(d.HTML(), `<h1 class="title">`) {
		t.Errorf("attribute not serialized: %q", d.HTML())
	}

	// Setting again replaces rather than duplicates.
	if err := d.SetAttr(h1.ID, "class", "headline"); err != nil {
		t.Fatalf("SetAttr: %v", err)
	}
	if strings.Count(d.HTML(), "class=") != 1 {
		t.Errorf("attribute duplicated: %q", d.HTML())
	}
}

func TestEvents(t *testing.T) {
	d := loadedDOM(t)

	var got []Event
	id := d.Subscribe(func(e Event) { got = append(got, e) })
	defer d.Unsubscribe(id)

	d.SetCSS("p{color:red}")
	h1 := findByTag(t, d, "h1")
	if err := d.Select(h1.ID); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if err := d.InsertFragment("", "<footer>end</footer>"); err != nil {
		t.Fatalf("InsertFragment: %v", err)
	}

	kinds := make([]EventKind, len(got))
	for i, e := range got {
		kinds[i] = e.Kind
	}
	want := []EventKind{EventStyleChange, EventComponentSelected, EventComponentAdd}
	if len(kinds) != len(want) {
		t.Fatalf("got events %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("event %d = %q, want %q", i, kinds[i], want[i])
		}
	}
}

func TestSubscribeKindFilter(t *testing.T) {
	d := loadedDOM(t)

	var styleOnly int
	id := d.Subscribe(func(e Event) { styleOnly++ }, EventStyleChange)
	defer d.Unsubscribe(id)

	d.SetCSS("p{color:blue}")
	d.Deselect()
	_ = d.InsertFragment("", "<div>x</div>")

	if styleOnly != 1 {
		t.Errorf("filtered subscriber saw %d events, want 1", styleOnly)
	}
}

func TestUnsubscribe(t *testing.T) {
	d := loadedDOM(t)

	fired := 0
	id := d.Subscribe(func(e Event) { fired++ })
	d.Unsubscribe(id)

	d.SetCSS("p{}")
	if fired != 0 {
		t.Errorf("unsubscribed handler fired %d times", fired)
	}
}
