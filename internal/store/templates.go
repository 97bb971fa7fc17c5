package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-formkit/pkg/schema"
)

// TemplateStore defines CRUD and duplication over persisted templates.
type TemplateStore interface {
	Create(ctx context.Context, tpl schema.Template) (schema.Template, error)
	Get(ctx context.Context, id string) (schema.Template, error)
	Update(ctx context.Context, tpl schema.Template) (schema.Template, error)
	Delete(ctx context.Context, id string) error
	Duplicate(ctx context.Context, id string) (schema.Template, error)
	List(ctx context.Context) ([]schema.Template, error)
}

// SQLiteTemplateStore implements TemplateStore using SQLite. The whole
// template document is stored as its canonical JSON form so section and field
// ordering round-trips losslessly.
type SQLiteTemplateStore struct {
	db    *sql.DB
	ids   schema.IDGenerator
	clock func() time.Time
}

// NewSQLiteTemplateStore creates a template store with default id and clock
// sources.
func NewSQLiteTemplateStore(db *sql.DB) *SQLiteTemplateStore {
	return &SQLiteTemplateStore{db: db, ids: schema.NewUUIDGenerator(), clock: time.Now}
}

// Create inserts a new template. An empty id is assigned one.
func (s *SQLiteTemplateStore) Create(ctx context.Context, tpl schema.Template) (schema.Template, error) {
	if tpl.ID == "" {
		tpl.ID = s.ids()
	}
	now := s.clock().UTC()
	if tpl.Metadata.CreatedAt.IsZero() {
		tpl.Metadata.CreatedAt = now
	}
	if tpl.Metadata.UpdatedAt.IsZero() {
		tpl.Metadata.UpdatedAt = now
	}

	document, err := schema.Marshal(tpl)
	if err != nil {
		return schema.Template{}, err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO templates (id, name, category, version, document, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tpl.ID, tpl.Name, tpl.Category, tpl.Version, string(document),
		tpl.Metadata.CreatedAt.Format(time.RFC3339Nano),
		tpl.Metadata.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return schema.Template{}, fmt.Errorf("create template: %w", err)
	}
	return tpl, nil
}

// Get loads a template by id.
func (s *SQLiteTemplateStore) Get(ctx context.Context, id string) (schema.Template, error) {
	var document string
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM templates WHERE id = ?`, id,
	).Scan(&document)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return schema.Template{}, fmt.Errorf("template %q: %w", id, ErrNotFound)
		}
		return schema.Template{}, fmt.Errorf("get template: %w", err)
	}
	return schema.Unmarshal([]byte(document))
}

// Update replaces the stored document with the given snapshot and refreshes
// the updated stamp. Partial merges happen in the builder before the snapshot
// reaches the store.
func (s *SQLiteTemplateStore) Update(ctx context.Context, tpl schema.Template) (schema.Template, error) {
	tpl.Metadata.UpdatedAt = s.clock().UTC()

	document, err := schema.Marshal(tpl)
	if err != nil {
		return schema.Template{}, err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE templates SET name = ?, category = ?, version = ?, document = ?, updated_at = ?
		 WHERE id = ?`,
		tpl.Name, tpl.Category, tpl.Version, string(document),
		tpl.Metadata.UpdatedAt.Format(time.RFC3339Nano), tpl.ID,
	)
	if err != nil {
		return schema.Template{}, fmt.Errorf("update template: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return schema.Template{}, fmt.Errorf("update template: %w", err)
	}
	if affected == 0 {
		return schema.Template{}, fmt.Errorf("template %q: %w", tpl.ID, ErrNotFound)
	}
	return tpl, nil
}

// Delete removes a template by id.
func (s *SQLiteTemplateStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("template %q: %w", id, ErrNotFound)
	}
	return nil
}

// Duplicate copies a template under a fresh id with reset lifecycle stamps
// and a duplicatedFrom marker.
func (s *SQLiteTemplateStore) Duplicate(ctx context.Context, id string) (schema.Template, error) {
	original, err := s.Get(ctx, id)
	if err != nil {
		return schema.Template{}, err
	}

	now := s.clock().UTC()
	copyTpl := original.Clone()
	copyTpl.ID = s.ids()
	copyTpl.Name = original.Name + " (Copy)"
	copyTpl.Version = 1
	copyTpl.Metadata.CreatedAt = now
	copyTpl.Metadata.UpdatedAt = now
	if copyTpl.Metadata.Extra == nil {
		copyTpl.Metadata.Extra = map[string]string{}
	}
	copyTpl.Metadata.Extra["duplicatedFrom"] = original.ID

	return s.Create(ctx, copyTpl)
}

// List returns all templates ordered by most recently updated.
func (s *SQLiteTemplateStore) List(ctx context.Context) ([]schema.Template, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT document FROM templates ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []schema.Template
	for rows.Next() {
		var document string
		if err := rows.Scan(&document); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		tpl, err := schema.Unmarshal([]byte(document))
		if err != nil {
			return nil, err
		}
		templates = append(templates, tpl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return templates, nil
}
