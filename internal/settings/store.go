// Package settings persists user preferences across sessions: theme
// choice, head/export settings and the custom color palette. Each entry
// is read once at startup; a missing or corrupt entry silently falls back
// to its default — persistence problems never surface as user errors.
package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/halmert/pagemason/internal/db"
)

const (
	keyTheme          = "theme"
	keyHead           = "head"
	keyPaletteEnabled = "palette_enabled"
	keyPalette        = "palette"
)

// Store is the durable settings store with an in-memory working copy.
type Store struct {
	db      *db.DB
	mu      sync.RWMutex
	values  Values
	onTheme func(ThemeChoice)
}

// NewStore opens the store, seeding from defaults and overlaying whatever
// is durably stored. Only database access failures are returned; corrupt
// stored values are recovered via the defaults.
func NewStore(database *db.DB, defaults Values) (*Store, error) {
	s := &Store{db: database, values: defaults}

	if raw, ok, err := s.read(keyTheme); err != nil {
		return nil, err
	} else if ok && validThemes[ThemeChoice(raw)] {
		s.values.Theme = ThemeChoice(raw)
	}

	if raw, ok, err := s.read(keyHead); err != nil {
		return nil, err
	} else if ok {
		var head HeadSettings
		if json.Unmarshal([]byte(raw), &head) == nil {
			s.values.Head = head
		}
	}

	if raw, ok, err := s.read(keyPaletteEnabled); err != nil {
		return nil, err
	} else if ok {
		switch raw {
		case "1":
			s.values.PaletteEnabled = true
		case "0":
			s.values.PaletteEnabled = false
		}
	}

	if raw, ok, err := s.read(keyPalette); err != nil {
		return nil, err
	} else if ok {
		var colors []string
		if json.Unmarshal([]byte(raw), &colors) == nil {
			var p Palette
			for i, c := range colors {
				if i >= PaletteSize {
					break
				}
				p[i] = c
			}
			s.values.Palette = p
		}
	}

	return s, nil
}

// Values returns the current settings snapshot.
func (s *Store) Values() Values {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values
}

// OnThemeChange registers a callback invoked after each successful theme
// change. At most one callback is held; later registrations replace it.
func (s *Store) OnThemeChange(fn func(ThemeChoice)) {
	s.mu.Lock()
	s.onTheme = fn
	s.mu.Unlock()
}

// SetTheme stores a new theme choice.
func (s *Store) SetTheme(ctx context.Context, theme ThemeChoice) error {
	if !validThemes[theme] {
		return fmt.Errorf("invalid theme %q: must be one of light, dark, auto", theme)
	}
	if err := s.write(ctx, keyTheme, string(theme)); err != nil {
		return err
	}
	s.mu.Lock()
	s.values.Theme = theme
	fn := s.onTheme
	s.mu.Unlock()
	if fn != nil {
		fn(theme)
	}
	return nil
}

// SetHead stores new head/export settings.
func (s *Store) SetHead(ctx context.Context, head HeadSettings) error {
	data, err := json.Marshal(head)
	if err != nil {
		return fmt.Errorf("marshalling head settings: %w", err)
	}
	if err := s.write(ctx, keyHead, string(data)); err != nil {
		return err
	}
	s.mu.Lock()
	s.values.Head = head
	s.mu.Unlock()
	return nil
}

// SetPaletteEnabled toggles the custom palette.
func (s *Store) SetPaletteEnabled(ctx context.Context, enabled bool) error {
	v := "0"
	if enabled {
		v = "1"
	}
	if err := s.write(ctx, keyPaletteEnabled, v); err != nil {
		return err
	}
	s.mu.Lock()
	s.values.PaletteEnabled = enabled
	s.mu.Unlock()
	return nil
}

// SetPalette stores the custom color palette.
func (s *Store) SetPalette(ctx context.Context, p Palette) error {
	colors := make([]string, PaletteSize)
	copy(colors, p[:])
	data, err := json.Marshal(colors)
	if err != nil {
		return fmt.Errorf("marshalling palette: %w", err)
	}
	if err := s.write(ctx, keyPalette, string(data)); err != nil {
		return err
	}
	s.mu.Lock()
	s.values.Palette = p
	s.mu.Unlock()
	return nil
}

func (s *Store) read(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM editor_settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading setting %s: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) write(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO editor_settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = datetime('now')`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("writing setting %s: %w", key, err)
	}
	return nil
}
