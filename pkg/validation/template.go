package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-formkit/pkg/schema"
)

// StructuralError describes a template defect that blocks save or publish.
// Path locates the offending element (for example "sections[1].fields[0]").
type StructuralError struct {
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

func (e StructuralError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return e.Path + ": " + e.Message
}

// ValidateTemplate checks the template's structure, not field values: empty
// name, zero sections, sections without titles, fields without labels, rules
// without messages, duplicate field ids and unparseable pattern expressions.
// It gates save/publish, never per-keystroke editing.
func ValidateTemplate(tpl schema.Template) []StructuralError {
	var issues []StructuralError
	add := func(path, message string) {
		issues = append(issues, StructuralError{Path: path, Message: message})
	}

	if strings.TrimSpace(tpl.Name) == "" {
		add("name", "template name is required")
	}
	if len(tpl.Sections) == 0 {
		add("sections", "template must contain at least one section")
	}

	seen := make(map[string]string, tpl.FieldCount())
	for si, section := range tpl.Sections {
		sectionPath := fmt.Sprintf("sections[%d]", si)
		if strings.TrimSpace(section.Title) == "" {
			add(sectionPath+".title", "section title is required")
		}
		for fi, field := range section.Fields {
			fieldPath := fmt.Sprintf("%s.fields[%d]", sectionPath, fi)
			if strings.TrimSpace(field.Label) == "" {
				add(fieldPath+".label", "field label is required")
			}
			if field.ID != "" {
				if first, dup := seen[field.ID]; dup {
					add(fieldPath+".id", fmt.Sprintf("field id %q already used at %s", field.ID, first))
				} else {
					seen[field.ID] = fieldPath
				}
			}
			for ri, rule := range field.Validation {
				rulePath := fmt.Sprintf("%s.validation[%d]", fieldPath, ri)
				if strings.TrimSpace(rule.Message) == "" {
					add(rulePath+".message", "validation rule message is required")
				}
				if rule.Type == schema.RulePattern {
					if _, err := regexp.Compile(rule.Expression); err != nil {
						add(rulePath+".value", "pattern is not a valid regular expression")
					}
				}
			}
		}
	}

	return issues
}
