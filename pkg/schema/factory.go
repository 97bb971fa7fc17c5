package schema

import (
	"time"

	"github.com/google/uuid"
)

// IDGenerator supplies identifiers for templates, sections, fields and
// instances. Injecting one keeps tests deterministic.
type IDGenerator func() string

// NewUUIDGenerator returns the default generator backed by random UUIDs.
func NewUUIDGenerator() IDGenerator {
	return uuid.NewString
}

// Factory builds fresh templates and their parts with consistent id and
// timestamp handling.
type Factory struct {
	ids   IDGenerator
	clock func() time.Time
}

// FactoryOption customises a Factory.
type FactoryOption func(*Factory)

// WithIDGenerator overrides the id source.
func WithIDGenerator(ids IDGenerator) FactoryOption {
	return func(f *Factory) {
		if ids != nil {
			f.ids = ids
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(clock func() time.Time) FactoryOption {
	return func(f *Factory) {
		if clock != nil {
			f.clock = clock
		}
	}
}

// NewFactory constructs a Factory with UUID ids and the wall clock.
func NewFactory(options ...FactoryOption) *Factory {
	f := &Factory{
		ids:   NewUUIDGenerator(),
		clock: time.Now,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	return f
}

// NewTemplate creates a template with a fresh id, one default section and
// lifecycle stamps set to now.
func (f *Factory) NewTemplate(name, category, createdBy string) Template {
	now := f.clock()
	return Template{
		ID:       f.ids(),
		Name:     name,
		Category: category,
		Version:  1,
		Sections: []Section{f.NewSection("New Section")},
		Settings: Settings{
			AutoSave:   true,
			AllowDraft: true,
		},
		Metadata: Metadata{
			CreatedBy: createdBy,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// NewSection creates an empty section with a fresh id.
func (f *Factory) NewSection(title string) Section {
	return Section{
		ID:     f.ids(),
		Title:  title,
		Fields: []Field{},
	}
}

// NewField creates a field of the given type with a fresh id.
func (f *Factory) NewField(fieldType FieldType, label string) Field {
	return Field{
		ID:    f.ids(),
		Type:  fieldType,
		Label: label,
	}
}

// NewInstance creates an instance bound to the given template.
func (f *Factory) NewInstance(templateID string, data FormData) Instance {
	return Instance{
		ID:         f.ids(),
		TemplateID: templateID,
		Data:       data.Clone(),
		Status:     StatusDraft,
	}
}
