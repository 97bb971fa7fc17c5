// Package visibility resolves conditional show/hide rules for fields and
// sections against the current form data. Evaluation is fail-open: absent
// rules, unknown operators and type-mismatched comparisons never hide an
// element by accident, except where an operator's own semantics require a
// matching type.
package visibility

import (
	"reflect"
	"strings"

	"github.com/goliatone/go-formkit/pkg/schema"
)

// FieldVisible reports whether the field is currently eligible for display,
// validation and progress accounting. Fields without a conditional are always
// visible.
func FieldVisible(field schema.Field, data schema.FormData) bool {
	return eval(field.Conditional, data)
}

// SectionVisible reports whether the section is currently visible. Section
// visibility does not cascade: callers deciding whether a field counts must
// check both the section and the field independently.
func SectionVisible(section schema.Section, data schema.FormData) bool {
	return eval(section.Conditional, data)
}

func eval(rule *schema.ConditionalRule, data schema.FormData) bool {
	if rule == nil {
		return true
	}

	dependent := data[rule.Field]

	switch rule.Operator {
	case schema.OperatorEquals:
		return strictEqual(dependent, rule.Value)
	case schema.OperatorNotEquals:
		return !strictEqual(dependent, rule.Value)
	case schema.OperatorContains:
		s, ok := dependent.(string)
		if !ok {
			return false
		}
		needle, ok := rule.Value.(string)
		if !ok {
			return false
		}
		return strings.Contains(s, needle)
	case schema.OperatorGreaterThan:
		left, right, ok := numericPair(dependent, rule.Value)
		return ok && left > right
	case schema.OperatorLessThan:
		left, right, ok := numericPair(dependent, rule.Value)
		return ok && left < right
	default:
		// Unknown operator: visible.
		return true
	}
}

// strictEqual compares without coercion. Numeric values are compared by value
// so an int set in-process matches the float64 a JSON round-trip produces.
func strictEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if left, right, ok := numericPair(a, b); ok {
		return left == right
	}
	if !reflect.TypeOf(a).Comparable() || !reflect.TypeOf(b).Comparable() {
		return false
	}
	return a == b
}

func numericPair(a, b any) (float64, float64, bool) {
	left, ok := numeric(a)
	if !ok {
		return 0, 0, false
	}
	right, ok := numeric(b)
	if !ok {
		return 0, 0, false
	}
	return left, right, true
}

func numeric(value any) (float64, bool) {
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
	default:
		return 0, false
	}
}
