// Package project persists documents between sessions: each project is a
// named {html, css, js} triple, the server-side analog of the browser's
// local storage in a purely client-hosted editor.
package project

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/halmert/pagemason/internal/db"
)

// Project is one stored document.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	HTML      string    `json:"html"`
	CSS       string    `json:"css"`
	JS        string    `json:"js"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store manages persistence of projects.
type Store struct {
	db *db.DB
}

// NewStore creates a new project store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Save upserts a project. A missing id gets a fresh one; the name must be
// unique across projects.
func (s *Store) Save(ctx context.Context, p Project) (*Project, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Name == "" {
		return nil, fmt.Errorf("project name is required")
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO projects (id, name, html, css, js, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name, html = excluded.html, css = excluded.css,
		   js = excluded.js, updated_at = excluded.updated_at`,
		p.ID, p.Name, p.HTML, p.CSS, p.JS, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("saving project: %w", err)
	}
	return &p, nil
}

// Get retrieves a project by id. Returns nil when not found.
func (s *Store) Get(ctx context.Context, id string) (*Project, error) {
	return s.one(ctx, `SELECT id, name, html, css, js, created_at, updated_at
		FROM projects WHERE id = ?`, id)
}

// GetByName retrieves a project by name. Returns nil when not found.
func (s *Store) GetByName(ctx context.Context, name string) (*Project, error) {
	return s.one(ctx, `SELECT id, name, html, css, js, created_at, updated_at
		FROM projects WHERE name = ?`, name)
}

func (s *Store) one(ctx context.Context, query string, arg any) (*Project, error) {
	var p Project
	err := s.db.QueryRowContext(ctx, query, arg).
		Scan(&p.ID, &p.Name, &p.HTML, &p.CSS, &p.JS, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return &p, nil
}

// List returns every project, most recently updated first.
func (s *Store) List(ctx context.Context) ([]Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, html, css, js, created_at, updated_at
		 FROM projects ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.HTML, &p.CSS, &p.JS, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// Delete removes a project by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("no project with id %s", id)
	}
	return nil
}
