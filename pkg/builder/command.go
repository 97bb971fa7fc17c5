// Package builder mutates templates through a closed set of commands. Every
// operation is copy-on-write: Apply clones the template, changes the clone and
// returns it, so callers holding the previous value never observe a partial
// write.
package builder

import "github.com/goliatone/go-formkit/pkg/schema"

// Command is the closed union of template mutations. Implementations live in
// this package only.
type Command interface {
	isCommand()
}

// AddField appends a field to the section at SectionIndex. Out-of-range
// indices make the command a no-op.
type AddField struct {
	Field        schema.Field
	SectionIndex int
}

// UpdateField shallow-merges Patch into the first field with a matching id,
// scanning sections in order. Duplicate ids beyond the first are unaffected.
type UpdateField struct {
	FieldID string
	Patch   FieldPatch
}

// RemoveField removes the first field with a matching id; a no-op when the id
// is not found.
type RemoveField struct {
	FieldID string
}

// AddSection appends a section. The result reports the new last index as the
// current section for UIs that track one.
type AddSection struct {
	Section schema.Section
}

// UpdateSection shallow-merges Patch into the first section with a matching
// id.
type UpdateSection struct {
	SectionID string
	Patch     SectionPatch
}

// RemoveSection removes the section with a matching id. Callers tracking a
// current-section index must clamp it to the new section count afterwards.
type RemoveSection struct {
	SectionID string
}

// MoveField removes the field from the source section's list and inserts it
// at ToIndex in the destination section. Moving within one section is a
// reorder. Invalid indices or an unknown field id make the command a no-op.
type MoveField struct {
	FieldID     string
	FromSection int
	ToSection   int
	ToIndex     int
}

func (AddField) isCommand()      {}
func (UpdateField) isCommand()   {}
func (RemoveField) isCommand()   {}
func (AddSection) isCommand()    {}
func (UpdateSection) isCommand() {}
func (RemoveSection) isCommand() {}
func (MoveField) isCommand()     {}

// FieldPatch carries the attributes an UpdateField command overwrites. Nil
// pointers and nil slices leave the current value untouched; the merge is
// shallow by design.
type FieldPatch struct {
	Type             *schema.FieldType
	Label            *string
	Placeholder      *string
	Description      *string
	Required         *bool
	DefaultValue     any
	HasDefaultValue  bool
	Validation       []schema.ValidationRule
	Options          []schema.Option
	Conditional      *schema.ConditionalRule
	ClearConditional bool
	Settings         map[string]any
	Styling          *schema.Styling
	Metadata         map[string]any
}

func (p FieldPatch) apply(field *schema.Field) {
	if p.Type != nil {
		field.Type = *p.Type
	}
	if p.Label != nil {
		field.Label = *p.Label
	}
	if p.Placeholder != nil {
		field.Placeholder = *p.Placeholder
	}
	if p.Description != nil {
		field.Description = *p.Description
	}
	if p.Required != nil {
		field.Required = *p.Required
	}
	if p.HasDefaultValue {
		field.DefaultValue = p.DefaultValue
	}
	if p.Validation != nil {
		field.Validation = append([]schema.ValidationRule(nil), p.Validation...)
	}
	if p.Options != nil {
		field.Options = append([]schema.Option(nil), p.Options...)
	}
	if p.ClearConditional {
		field.Conditional = nil
	} else if p.Conditional != nil {
		cloned := *p.Conditional
		field.Conditional = &cloned
	}
	if p.Settings != nil {
		field.Settings = copyAnyMap(p.Settings)
	}
	if p.Styling != nil {
		styling := *p.Styling
		field.Styling = &styling
	}
	if p.Metadata != nil {
		field.Metadata = copyAnyMap(p.Metadata)
	}
}

// SectionPatch carries the attributes an UpdateSection command overwrites.
type SectionPatch struct {
	Title            *string
	Description      *string
	Collapsed        *bool
	Conditional      *schema.ConditionalRule
	ClearConditional bool
}

func (p SectionPatch) apply(section *schema.Section) {
	if p.Title != nil {
		section.Title = *p.Title
	}
	if p.Description != nil {
		section.Description = *p.Description
	}
	if p.Collapsed != nil {
		section.Collapsed = *p.Collapsed
	}
	if p.ClearConditional {
		section.Conditional = nil
	} else if p.Conditional != nil {
		cloned := *p.Conditional
		section.Conditional = &cloned
	}
}

func copyAnyMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}
