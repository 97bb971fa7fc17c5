package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-formkit/pkg/schema"
)

// InstanceStore persists submissions. Create serves both draft saves and
// submits; the two differ only in Status and SubmittedAt.
type InstanceStore interface {
	Create(ctx context.Context, instance schema.Instance) (schema.Instance, error)
	Get(ctx context.Context, id string) (schema.Instance, error)
	ListByTemplate(ctx context.Context, templateID string) ([]schema.Instance, error)
}

// SQLiteInstanceStore implements InstanceStore using SQLite.
type SQLiteInstanceStore struct {
	db    *sql.DB
	ids   schema.IDGenerator
	clock func() time.Time
}

// NewSQLiteInstanceStore creates an instance store with default id and clock
// sources.
func NewSQLiteInstanceStore(db *sql.DB) *SQLiteInstanceStore {
	return &SQLiteInstanceStore{db: db, ids: schema.NewUUIDGenerator(), clock: time.Now}
}

// Create inserts a new instance. An empty id is assigned one.
func (s *SQLiteInstanceStore) Create(ctx context.Context, instance schema.Instance) (schema.Instance, error) {
	if instance.ID == "" {
		instance.ID = s.ids()
	}

	data, err := json.Marshal(instance.Data)
	if err != nil {
		return schema.Instance{}, fmt.Errorf("marshal instance data: %w", err)
	}
	var auditTrail []byte
	if len(instance.AuditTrail) > 0 {
		auditTrail, err = json.Marshal(instance.AuditTrail)
		if err != nil {
			return schema.Instance{}, fmt.Errorf("marshal audit trail: %w", err)
		}
	}
	var submittedAt any
	if instance.SubmittedAt != nil {
		submittedAt = instance.SubmittedAt.UTC().Format(time.RFC3339Nano)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO instances (id, template_id, data, status, progress, current_step, submitted_at, audit_trail, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		instance.ID, instance.TemplateID, string(data), string(instance.Status),
		instance.Progress, instance.CurrentStep, submittedAt, nullableString(auditTrail),
		s.clock().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return schema.Instance{}, fmt.Errorf("create instance: %w", err)
	}
	return instance, nil
}

// Get loads an instance by id.
func (s *SQLiteInstanceStore) Get(ctx context.Context, id string) (schema.Instance, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, template_id, data, status, progress, current_step, submitted_at, audit_trail
		 FROM instances WHERE id = ?`, id)

	instance, err := scanInstance(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return schema.Instance{}, fmt.Errorf("instance %q: %w", id, ErrNotFound)
		}
		return schema.Instance{}, fmt.Errorf("get instance: %w", err)
	}
	return instance, nil
}

// ListByTemplate returns all instances for a template, newest first.
func (s *SQLiteInstanceStore) ListByTemplate(ctx context.Context, templateID string) ([]schema.Instance, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, template_id, data, status, progress, current_step, submitted_at, audit_trail
		 FROM instances WHERE template_id = ? ORDER BY created_at DESC`, templateID)
	if err != nil {
		return nil, fmt.Errorf("list instances: %w", err)
	}
	defer rows.Close()

	var instances []schema.Instance
	for rows.Next() {
		instance, err := scanInstance(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan instance: %w", err)
		}
		instances = append(instances, instance)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list instances: %w", err)
	}
	return instances, nil
}

func scanInstance(scan func(...any) error) (schema.Instance, error) {
	var (
		instance    schema.Instance
		data        string
		status      string
		submittedAt sql.NullString
		auditTrail  sql.NullString
	)
	if err := scan(
		&instance.ID, &instance.TemplateID, &data, &status,
		&instance.Progress, &instance.CurrentStep, &submittedAt, &auditTrail,
	); err != nil {
		return schema.Instance{}, err
	}

	instance.Status = schema.InstanceStatus(status)
	if err := json.Unmarshal([]byte(data), &instance.Data); err != nil {
		return schema.Instance{}, fmt.Errorf("unmarshal instance data: %w", err)
	}
	if submittedAt.Valid && submittedAt.String != "" {
		parsed, err := time.Parse(time.RFC3339Nano, submittedAt.String)
		if err != nil {
			return schema.Instance{}, fmt.Errorf("parse submitted_at: %w", err)
		}
		instance.SubmittedAt = &parsed
	}
	if auditTrail.Valid && auditTrail.String != "" {
		if err := json.Unmarshal([]byte(auditTrail.String), &instance.AuditTrail); err != nil {
			return schema.Instance{}, fmt.Errorf("unmarshal audit trail: %w", err)
		}
	}
	return instance, nil
}

func nullableString(payload []byte) any {
	if len(payload) == 0 {
		return nil
	}
	return string(payload)
}
