// Package validation evaluates validation rules against field values and
// checks templates for structural completeness before save or publish.
package validation

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-formkit/pkg/schema"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateField evaluates every rule on the field, in declared order, against
// the given value. Rules are independent, not short-circuited: a field can
// carry multiple simultaneous errors. The returned slice holds the failing
// rules' messages and is nil when the value passes.
func ValidateField(field schema.Field, value any) []string {
	var messages []string
	for _, rule := range field.Validation {
		if msg, failed := evalRule(rule, value); failed {
			messages = append(messages, msg)
		}
	}
	return messages
}

func evalRule(rule schema.ValidationRule, value any) (string, bool) {
	switch rule.Type {
	case schema.RuleRequired:
		if isBlank(value) {
			return rule.Message, true
		}
	case schema.RuleMin:
		// Non-numeric values pass through: min/max compare numbers only.
		if n, ok := numericValue(value); ok && n < rule.Threshold {
			return rule.Message, true
		}
	case schema.RuleMax:
		if n, ok := numericValue(value); ok && n > rule.Threshold {
			return rule.Message, true
		}
	case schema.RulePattern:
		s, ok := value.(string)
		if !ok {
			return "", false
		}
		re, err := regexp.Compile(rule.Expression)
		if err != nil {
			// Invalid expressions are a structural problem reported by
			// ValidateTemplate; runtime evaluation never aborts on them.
			return "", false
		}
		if !re.MatchString(s) {
			return rule.Message, true
		}
	case schema.RuleEmail:
		if s := coerceString(value); s != "" && !emailPattern.MatchString(s) {
			return rule.Message, true
		}
	case schema.RuleURL:
		if s := coerceString(value); s != "" &&
			!strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
			return rule.Message, true
		}
	case schema.RuleCustom:
		if rule.Check == nil {
			return "", false
		}
		ok, override := rule.Check(value)
		if !ok {
			if override != "" {
				return override, true
			}
			return rule.Message, true
		}
	}
	return "", false
}

// isBlank reports whether a value fails a required rule: nil, or a string that
// is empty or whitespace-only.
func isBlank(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// numericValue extracts a float64 for min/max comparison. JSON decoding hands
// numbers over as float64; the remaining cases cover values set in-process.
func numericValue(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func coerceString(value any) string {
	s, ok := value.(string)
	if !ok {
		return ""
	}
	return s
}
