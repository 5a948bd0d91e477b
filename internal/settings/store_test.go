package settings

import (
	"context"
	"testing"

	"github.com/halmert/pagemason/internal/db"
)

func memStore(t *testing.T) (*Store, *db.DB) {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	store, err := NewStore(database, DefaultValues())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store, database
}

func TestDefaults(t *testing.T) {
	store, _ := memStore(t)

	v := store.Values()
	if v.Theme != ThemeAuto {
		t.Errorf("theme = %q, want auto", v.Theme)
	}
	if v.Head.ExportBaseName != "page" {
		t.Errorf("base name = %q, want page", v.Head.ExportBaseName)
	}
	if v.PaletteEnabled {
		t.Error("palette should default to disabled")
	}
}

func TestSetAndReload(t *testing.T) {
	store, database := memStore(t)
	ctx := context.Background()

	if err := store.SetTheme(ctx, ThemeDark); err != nil {
		t.Fatalf("SetTheme: %v", err)
	}
	head := HeadSettings{PageTitle: "Portfolio", HeadHTML: `<meta name="robots" content="none" />`, ExportBaseName: "portfolio"}
	if err := store.SetHead(ctx, head); err != nil {
		t.Fatalf("SetHead: %v", err)
	}
	if err := store.SetPaletteEnabled(ctx, true); err != nil {
		t.Fatalf("SetPaletteEnabled: %v", err)
	}
	palette := Palette{"#102030", "#405060", "", "", "", "", "#aabbcc"}
	if err := store.SetPalette(ctx, palette); err != nil {
		t.Fatalf("SetPalette: %v", err)
	}

	// A fresh store over the same database sees the persisted values:
	// the reload path is how settings survive restarts.
	reloaded, err := NewStore(database, DefaultValues())
	if err != nil {
		t.Fatalf("NewStore (reload): %v", err)
	}

	v := reloaded.Values()
	if v.Theme != ThemeDark {
		t.Errorf("reloaded theme = %q", v.Theme)
	}
	if v.Head != head {
		t.Errorf("reloaded head = %+v", v.Head)
	}
	if !v.PaletteEnabled {
		t.Error("reloaded palette_enabled = false")
	}
	if v.Palette != palette {
		t.Errorf("reloaded palette = %+v", v.Palette)
	}
}

func TestSetThemeRejectsUnknown(t *testing.T) {
	store, _ := memStore(t)
	if err := store.SetTheme(context.Background(), "sepia"); err == nil {
		t.Error("expected an error for unknown theme")
	}
}

func TestCorruptEntriesFallBackSilently(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer database.Close()

	// Poison every key with junk a previous version might have left.
	corrupt := map[string]string{
		"theme":           "chartreuse",
		"head":            "{not json",
		"palette_enabled": "maybe",
		"palette":         "[1, 2",
	}
	for k, v := range corrupt {
		if _, err := database.Exec(`INSERT INTO editor_settings (key, value) VALUES (?, ?)`, k, v); err != nil {
			t.Fatalf("seeding %s: %v", k, err)
		}
	}

	store, err := NewStore(database, DefaultValues())
	if err != nil {
		t.Fatalf("NewStore must not fail on corrupt entries: %v", err)
	}

	v := store.Values()
	defaults := DefaultValues()
	if v != defaults {
		t.Errorf("corrupt entries did not fall back to defaults: %+v", v)
	}
}

func TestPaletteTruncatesExtraColors(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer database.Close()

	//  Nine entries stored; only the first seven slots exist.
	if _, err := database.Exec(`INSERT INTO editor_settings (key, value) VALUES ('palette', ?)`,
		`["a","b","c","d","e","f","g","h","i"]`); err != nil {
		t.Fatalf("seeding palette: %v", err)
	}

	store, err := NewStore(database, DefaultValues())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	p := store.Values().Palette
	if p[0] != "a" || p[6] != "g" {
		t.Errorf("palette = %+v", p)
	}
}
