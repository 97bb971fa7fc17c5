package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// RuleType tags a validation rule variant.
type RuleType string

const (
	RuleRequired RuleType = "required"
	RuleMin      RuleType = "min"
	RuleMax      RuleType = "max"
	RulePattern  RuleType = "pattern"
	RuleEmail    RuleType = "email"
	RuleURL      RuleType = "url"
	RuleCustom   RuleType = "custom"
)

// Predicate is the hook for custom rules. It reports whether the value passes;
// a non-empty message overrides the rule's static message on failure.
// Predicates never travel over the wire.
type Predicate func(value any) (ok bool, message string)

// ValidationRule is a tagged variant: Type selects which payload field is
// meaningful. Min and Max carry Threshold, Pattern carries Expression, Custom
// carries Check. Every rule carries a Message; an empty one is a structural
// error caught by validation.ValidateTemplate, not a runtime crash.
type ValidationRule struct {
	Type       RuleType
	Threshold  float64
	Expression string
	Check      Predicate
	Message    string
}

// Required builds a required rule.
func Required(message string) ValidationRule {
	return ValidationRule{Type: RuleRequired, Message: message}
}

// Min builds a lower-bound rule. The threshold is compared numerically; for
// text fields callers supply a character count, for number fields the numeric
// bound.
func Min(threshold float64, message string) ValidationRule {
	return ValidationRule{Type: RuleMin, Threshold: threshold, Message: message}
}

// Max builds an upper-bound rule with the same comparison semantics as Min.
func Max(threshold float64, message string) ValidationRule {
	return ValidationRule{Type: RuleMax, Threshold: threshold, Message: message}
}

// Pattern builds a regular-expression rule.
func Pattern(expression, message string) ValidationRule {
	return ValidationRule{Type: RulePattern, Expression: expression, Message: message}
}

// Email builds an email-shape rule.
func Email(message string) ValidationRule {
	return ValidationRule{Type: RuleEmail, Message: message}
}

// URL builds a rule requiring an http or https prefix.
func URL(message string) ValidationRule {
	return ValidationRule{Type: RuleURL, Message: message}
}

// Custom builds a rule around a caller-supplied predicate.
func Custom(check Predicate, message string) ValidationRule {
	return ValidationRule{Type: RuleCustom, Check: check, Message: message}
}

// wireRule is the persisted shape: {"type", "value"?, "message"}. The value key
// is present only for rules that carry a payload, and custom predicates are
// not serialisable, so round-trips drop Check by design of the wire format.
type wireRule struct {
	Type    RuleType        `json:"type"`
	Value   json.RawMessage `json:"value,omitempty"`
	Message string          `json:"message"`
}

// MarshalJSON emits the wire shape, omitting the value key for rules without a
// payload so optional-key presence round-trips exactly.
func (r ValidationRule) MarshalJSON() ([]byte, error) {
	wire := wireRule{Type: r.Type, Message: r.Message}
	switch r.Type {
	case RuleMin, RuleMax:
		wire.Value = json.RawMessage(strconv.FormatFloat(r.Threshold, 'f', -1, 64))
	case RulePattern:
		encoded, err := json.Marshal(r.Expression)
		if err != nil {
			return nil, err
		}
		wire.Value = encoded
	}
	return json.Marshal(wire)
}

// UnmarshalJSON decodes the wire shape back into the tagged variant.
func (r *ValidationRule) UnmarshalJSON(data []byte) error {
	var wire wireRule
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	decoded := ValidationRule{Type: wire.Type, Message: wire.Message}
	switch wire.Type {
	case RuleMin, RuleMax:
		if len(wire.Value) > 0 {
			if err := json.Unmarshal(wire.Value, &decoded.Threshold); err != nil {
				return fmt.Errorf("schema: rule %q value: %w", wire.Type, err)
			}
		}
	case RulePattern:
		if len(wire.Value) > 0 {
			if err := json.Unmarshal(wire.Value, &decoded.Expression); err != nil {
				return fmt.Errorf("schema: rule %q value: %w", wire.Type, err)
			}
		}
	}

	*r = decoded
	return nil
}
