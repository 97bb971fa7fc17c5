package schema

import "time"

// FieldType enumerates the input kinds a field can render as. Unknown values
// survive decoding untouched so evaluation over templates produced by newer
// builders never aborts; consumers render a sentinel for types they do not
// recognise.
type FieldType string

const (
	FieldTypeText        FieldType = "text"
	FieldTypeNumber      FieldType = "number"
	FieldTypeEmail       FieldType = "email"
	FieldTypePhone       FieldType = "phone"
	FieldTypeDate        FieldType = "date"
	FieldTypeDateTime    FieldType = "datetime"
	FieldTypeSelect      FieldType = "select"
	FieldTypeMultiSelect FieldType = "multiselect"
	FieldTypeCheckbox    FieldType = "checkbox"
	FieldTypeRadio       FieldType = "radio"
	FieldTypeTextarea    FieldType = "textarea"
	FieldTypeFile        FieldType = "file"
	FieldTypeSignature   FieldType = "signature"
	FieldTypeSection     FieldType = "section"
	FieldTypeRepeater    FieldType = "repeater"
)

var knownFieldTypes = map[FieldType]struct{}{
	FieldTypeText: {}, FieldTypeNumber: {}, FieldTypeEmail: {}, FieldTypePhone: {},
	FieldTypeDate: {}, FieldTypeDateTime: {}, FieldTypeSelect: {}, FieldTypeMultiSelect: {},
	FieldTypeCheckbox: {}, FieldTypeRadio: {}, FieldTypeTextarea: {}, FieldTypeFile: {},
	FieldTypeSignature: {}, FieldTypeSection: {}, FieldTypeRepeater: {},
}

// Known reports whether the type is part of the supported enumeration.
func (t FieldType) Known() bool {
	_, ok := knownFieldTypes[t]
	return ok
}

// Option is a selectable choice for select, multiselect and radio fields.
type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Disabled bool   `json:"disabled,omitempty"`
}

// Styling carries layout hints renderers may honour. The engine never
// interprets these.
type Styling struct {
	Width  string `json:"width,omitempty"`
	Inline bool   `json:"inline,omitempty"`
}

// Field models a single input inside a section. Struct fields are annotated so
// the value serialises directly into the persisted wire shape.
type Field struct {
	ID           string           `json:"id"`
	Type         FieldType        `json:"type"`
	Label        string           `json:"label"`
	Placeholder  string           `json:"placeholder,omitempty"`
	Description  string           `json:"description,omitempty"`
	DefaultValue any              `json:"defaultValue,omitempty"`
	Required     bool             `json:"required"`
	Validation   []ValidationRule `json:"validation,omitempty"`
	Options      []Option         `json:"options,omitempty"`
	Conditional  *ConditionalRule `json:"conditional,omitempty"`
	Settings     map[string]any   `json:"settings,omitempty"`
	Styling      *Styling         `json:"styling,omitempty"`
	Metadata     map[string]any   `json:"metadata,omitempty"`
}

// Section is an ordered group of fields with its own visibility condition.
// Field order is significant: it drives rendering order and the progress
// denominator.
type Section struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Fields      []Field          `json:"fields"`
	Collapsed   bool             `json:"collapsed,omitempty"`
	Conditional *ConditionalRule `json:"conditional,omitempty"`
}

// Settings configures template-wide behaviour.
type Settings struct {
	MultiStep        bool     `json:"multiStep"`
	AutoSave         bool     `json:"autoSave"`
	AllowDraft       bool     `json:"allowDraft"`
	RequireApproval  bool     `json:"requireApproval"`
	MaxFileSize      int64    `json:"maxFileSize,omitempty"`
	AllowedFileTypes []string `json:"allowedFileTypes,omitempty"`
}

// Metadata records authorship and lifecycle stamps. Extra carries free-form
// entries such as "duplicatedFrom".
type Metadata struct {
	CreatedBy string            `json:"createdBy,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
	Tags      []string          `json:"tags,omitempty"`
	Extra     map[string]string `json:"extra,omitempty"`
}

// Template is the full form schema: ordered sections plus settings and
// metadata. Templates are immutable by convention; mutation goes through the
// builder package, which clones before changing anything.
type Template struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Version     int       `json:"version"`
	Sections    []Section `json:"sections"`
	Settings    Settings  `json:"settings"`
	Metadata    Metadata  `json:"metadata"`
}

// FormData maps field ids to their current values.
type FormData map[string]any

// FieldByID returns the first field with the given id, scanning sections in
// order. Duplicate ids beyond the first are never reached; the validation
// package flags duplicates as a structural error at publish time.
func (t Template) FieldByID(id string) (Field, bool) {
	for si := range t.Sections {
		for fi := range t.Sections[si].Fields {
			if t.Sections[si].Fields[fi].ID == id {
				return t.Sections[si].Fields[fi], true
			}
		}
	}
	return Field{}, false
}

// FieldCount returns the total number of fields across all sections.
func (t Template) FieldCount() int {
	total := 0
	for i := range t.Sections {
		total += len(t.Sections[i].Fields)
	}
	return total
}

// FieldIndex builds a flat id to field lookup. The first occurrence wins on
// duplicate ids, matching the scan order used everywhere else.
func (t Template) FieldIndex() map[string]Field {
	index := make(map[string]Field, t.FieldCount())
	for si := range t.Sections {
		for _, field := range t.Sections[si].Fields {
			if _, exists := index[field.ID]; exists {
				continue
			}
			index[field.ID] = field
		}
	}
	return index
}
