// Package openapi imports OpenAPI operation request bodies as form templates,
// mapping schema constraints onto validation rules.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formkit/pkg/schema"
)

var (
	errEmptyDocument     = errors.New("openapi importer: document payload is empty")
	errOperationNotFound = errors.New("openapi importer: operation not found")
	errNoRequestSchema   = errors.New("openapi importer: operation has no JSON request schema")
)

// Importer converts OpenAPI operations into templates.
type Importer struct {
	ids     schema.IDGenerator
	clock   func() time.Time
	labeler func(string) string
}

// Option customises an Importer.
type Option func(*Importer)

// WithIDGenerator overrides id generation for the produced template.
func WithIDGenerator(ids schema.IDGenerator) Option {
	return func(i *Importer) {
		if ids != nil {
			i.ids = ids
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(clock func() time.Time) Option {
	return func(i *Importer) {
		if clock != nil {
			i.clock = clock
		}
	}
}

// WithLabeler overrides how property names become field labels.
func WithLabeler(labeler func(string) string) Option {
	return func(i *Importer) {
		if labeler != nil {
			i.labeler = labeler
		}
	}
}

// New constructs an Importer with UUID ids, the wall clock and the default
// humanising labeler.
func New(options ...Option) *Importer {
	i := &Importer{
		ids:     schema.NewUUIDGenerator(),
		clock:   time.Now,
		labeler: Humanize,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(i)
	}
	return i
}

// Import parses the document (JSON or YAML) and builds a template from the
// request body of the operation with the given operationId. The result has a
// single section holding one field per body property, with min/max, length,
// pattern and format constraints mapped to validation rules.
func (i *Importer) Import(ctx context.Context, raw []byte, operationID string) (schema.Template, error) {
	if len(raw) == 0 {
		return schema.Template{}, errEmptyDocument
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return schema.Template{}, fmt.Errorf("openapi importer: load document: %w", err)
	}

	operation, ok := findOperation(doc, operationID)
	if !ok {
		return schema.Template{}, fmt.Errorf("%w: %q", errOperationNotFound, operationID)
	}

	body := requestSchema(operation)
	if body == nil {
		return schema.Template{}, fmt.Errorf("%w: %q", errNoRequestSchema, operationID)
	}

	now := i.clock()
	tpl := schema.Template{
		ID:          i.ids(),
		Name:        templateName(operation, operationID),
		Description: operation.Description,
		Category:    "imported",
		Version:     1,
		Settings: schema.Settings{
			AutoSave:   true,
			AllowDraft: true,
		},
		Metadata: schema.Metadata{
			CreatedAt: now,
			UpdatedAt: now,
			Extra:     map[string]string{"importedFrom": operationID},
		},
	}

	section := schema.Section{
		ID:     i.ids(),
		Title:  sectionTitle(operation),
		Fields: i.fieldsFromObject("", body),
	}
	tpl.Sections = []schema.Section{section}
	return tpl, nil
}

func findOperation(doc *openapi3.T, operationID string) (*openapi3.Operation, bool) {
	if doc.Paths == nil {
		return nil, false
	}
	for _, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for _, op := range item.Operations() {
			if op != nil && op.OperationID == operationID {
				return op, true
			}
		}
	}
	return nil, false
}

func requestSchema(op *openapi3.Operation) *openapi3.Schema {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	media := op.RequestBody.Value.Content.Get("application/json")
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return nil
	}
	return media.Schema.Value
}

func templateName(op *openapi3.Operation, fallback string) string {
	if summary := strings.TrimSpace(op.Summary); summary != "" {
		return summary
	}
	return Humanize(fallback)
}

func sectionTitle(op *openapi3.Operation) string {
	if summary := strings.TrimSpace(op.Summary); summary != "" {
		return summary
	}
	return "Details"
}

// fieldsFromObject walks an object schema's properties in sorted name order,
// flattening nested objects with dotted ids.
func (i *Importer) fieldsFromObject(prefix string, obj *openapi3.Schema) []schema.Field {
	requiredSet := make(map[string]struct{}, len(obj.Required))
	for _, name := range obj.Required {
		requiredSet[name] = struct{}{}
	}

	names := make([]string, 0, len(obj.Properties))
	for name := range obj.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	var fields []schema.Field
	for _, name := range names {
		ref := obj.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		prop := ref.Value
		id := name
		if prefix != "" {
			id = prefix + "." + name
		}
		_, required := requiredSet[name]

		if prop.Type != nil && prop.Type.Is("object") {
			fields = append(fields, i.fieldsFromObject(id, prop)...)
			continue
		}
		fields = append(fields, i.fieldFromProperty(id, name, prop, required))
	}
	return fields
}

func (i *Importer) fieldFromProperty(id, name string, prop *openapi3.Schema, required bool) schema.Field {
	field := schema.Field{
		ID:          id,
		Type:        mapFieldType(prop),
		Label:       i.labeler(name),
		Description: prop.Description,
		Required:    required,
	}
	if prop.Default != nil {
		field.DefaultValue = prop.Default
	}
	for _, value := range prop.Enum {
		label := fmt.Sprint(value)
		field.Options = append(field.Options, schema.Option{
			Value: label,
			Label: i.labeler(label),
		})
	}
	field.Validation = rulesFromProperty(field, prop, required)
	return field
}

func mapFieldType(prop *openapi3.Schema) schema.FieldType {
	if prop.Type == nil {
		return schema.FieldTypeText
	}
	switch {
	case prop.Type.Is("boolean"):
		return schema.FieldTypeCheckbox
	case prop.Type.Is("integer"), prop.Type.Is("number"):
		return schema.FieldTypeNumber
	case prop.Type.Is("array"):
		if len(prop.Enum) > 0 || (prop.Items != nil && prop.Items.Value != nil && len(prop.Items.Value.Enum) > 0) {
			return schema.FieldTypeMultiSelect
		}
		return schema.FieldTypeRepeater
	case prop.Type.Is("string"):
		if len(prop.Enum) > 0 {
			return schema.FieldTypeSelect
		}
		switch prop.Format {
		case "email":
			return schema.FieldTypeEmail
		case "date":
			return schema.FieldTypeDate
		case "date-time":
			return schema.FieldTypeDateTime
		case "binary", "byte":
			return schema.FieldTypeFile
		case "tel", "phone":
			return schema.FieldTypePhone
		}
		if prop.MaxLength != nil && *prop.MaxLength > 255 {
			return schema.FieldTypeTextarea
		}
		return schema.FieldTypeText
	default:
		return schema.FieldTypeText
	}
}

func rulesFromProperty(field schema.Field, prop *openapi3.Schema, required bool) []schema.ValidationRule {
	var rules []schema.ValidationRule
	if required {
		rules = append(rules, schema.Required(field.Label+" is required"))
	}
	if prop.Min != nil {
		rules = append(rules, schema.Min(*prop.Min, fmt.Sprintf("%s must be at least %v", field.Label, *prop.Min)))
	}
	if prop.Max != nil {
		rules = append(rules, schema.Max(*prop.Max, fmt.Sprintf("%s must be at most %v", field.Label, *prop.Max)))
	}
	// Length limits ride the same numeric min/max rules; for text fields the
	// thresholds are character counts.
	if prop.MinLength > 0 {
		rules = append(rules, schema.Min(float64(prop.MinLength), fmt.Sprintf("%s must be at least %d characters", field.Label, prop.MinLength)))
	}
	if prop.MaxLength != nil {
		rules = append(rules, schema.Max(float64(*prop.MaxLength), fmt.Sprintf("%s must be at most %d characters", field.Label, *prop.MaxLength)))
	}
	if prop.Pattern != "" {
		rules = append(rules, schema.Pattern(prop.Pattern, field.Label+" has an invalid format"))
	}
	if prop.Format == "email" {
		rules = append(rules, schema.Email(field.Label+" must be a valid email address"))
	}
	if prop.Format == "uri" || prop.Format == "url" {
		rules = append(rules, schema.URL(field.Label+" must be a valid URL"))
	}
	return rules
}
