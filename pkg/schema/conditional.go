package schema

// ConditionalOperator enumerates the comparison operators a conditional rule
// can apply to the value of its dependency field.
type ConditionalOperator string

const (
	OperatorEquals      ConditionalOperator = "equals"
	OperatorNotEquals   ConditionalOperator = "not_equals"
	OperatorContains    ConditionalOperator = "contains"
	OperatorGreaterThan ConditionalOperator = "greater_than"
	OperatorLessThan    ConditionalOperator = "less_than"
)

// ConditionalRule is a predicate over another field's current value. A field
// or section carrying one is only visible while the predicate holds; the
// visibility package evaluates it fail-open for unknown operators.
type ConditionalRule struct {
	Field    string              `json:"field"`
	Operator ConditionalOperator `json:"operator"`
	Value    any                 `json:"value"`
}
