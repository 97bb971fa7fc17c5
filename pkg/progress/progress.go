// Package progress computes form completion over the currently visible
// fields.
package progress

import (
	"math"

	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/visibility"
)

// Completion returns the completion percentage in [0,100]. Hidden sections and
// hidden fields count toward neither the numerator nor the denominator. A
// field is complete when its value is present and not an empty string,
// regardless of whether it is required. Templates with no visible fields
// report 0.
func Completion(tpl schema.Template, data schema.FormData) int {
	total := 0
	completed := 0

	for _, section := range tpl.Sections {
		if !visibility.SectionVisible(section, data) {
			continue
		}
		for _, field := range section.Fields {
			if !visibility.FieldVisible(field, data) {
				continue
			}
			total++
			if filled(data[field.ID]) {
				completed++
			}
		}
	}

	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

func filled(value any) bool {
	if value == nil {
		return false
	}
	if s, ok := value.(string); ok {
		return s != ""
	}
	return true
}
