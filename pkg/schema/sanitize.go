package schema

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

func sanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}

func sanitizeText(raw string) string {
	if raw == "" {
		return ""
	}
	return strings.TrimSpace(sanitizer().Sanitize(raw))
}

// sanitizeTemplate strips markup from every user-authored text attribute of a
// decoded document. Applied on decode only: templates built in-process through
// the factory and builder are trusted.
func sanitizeTemplate(t *Template) {
	if t == nil {
		return
	}
	t.Name = sanitizeText(t.Name)
	t.Description = sanitizeText(t.Description)
	for si := range t.Sections {
		section := &t.Sections[si]
		section.Title = sanitizeText(section.Title)
		section.Description = sanitizeText(section.Description)
		for fi := range section.Fields {
			field := &section.Fields[fi]
			field.Label = sanitizeText(field.Label)
			field.Placeholder = sanitizeText(field.Placeholder)
			field.Description = sanitizeText(field.Description)
			for oi := range field.Options {
				field.Options[oi].Label = sanitizeText(field.Options[oi].Label)
			}
		}
	}
}
