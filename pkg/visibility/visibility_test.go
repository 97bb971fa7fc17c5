package visibility_test

import (
	"testing"

	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/visibility"
)

func conditionalField(rule *schema.ConditionalRule) schema.Field {
	return schema.Field{ID: "dependent", Type: schema.FieldTypeText, Label: "Dependent", Conditional: rule}
}

func TestVisibleWithoutConditional(t *testing.T) {
	if !visibility.FieldVisible(conditionalField(nil), schema.FormData{}) {
		t.Fatal("field without conditional must be visible")
	}
	section := schema.Section{ID: "s", Title: "S"}
	if !visibility.SectionVisible(section, nil) {
		t.Fatal("section without conditional must be visible")
	}
}

func TestOperatorSemantics(t *testing.T) {
	cases := []struct {
		name string
		rule schema.ConditionalRule
		data schema.FormData
		want bool
	}{
		{
			"equals match",
			schema.ConditionalRule{Field: "plan", Operator: schema.OperatorEquals, Value: "pro"},
			schema.FormData{"plan": "pro"}, true,
		},
		{
			"equals mismatch",
			schema.ConditionalRule{Field: "plan", Operator: schema.OperatorEquals, Value: "pro"},
			schema.FormData{"plan": "free"}, false,
		},
		{
			"equals numeric across int and float",
			schema.ConditionalRule{Field: "seats", Operator: schema.OperatorEquals, Value: 5.0},
			schema.FormData{"seats": 5}, true,
		},
		{
			"equals missing value",
			schema.ConditionalRule{Field: "plan", Operator: schema.OperatorEquals, Value: "pro"},
			schema.FormData{}, false,
		},
		{
			"not_equals on missing value",
			schema.ConditionalRule{Field: "plan", Operator: schema.OperatorNotEquals, Value: "pro"},
			schema.FormData{}, true,
		},
		{
			"contains substring",
			schema.ConditionalRule{Field: "notes", Operator: schema.OperatorContains, Value: "urgent"},
			schema.FormData{"notes": "this is urgent please"}, true,
		},
		{
			"contains missing substring",
			schema.ConditionalRule{Field: "notes", Operator: schema.OperatorContains, Value: "urgent"},
			schema.FormData{"notes": "all calm"}, false,
		},
		{
			"contains non-string dependent is false",
			schema.ConditionalRule{Field: "notes", Operator: schema.OperatorContains, Value: "5"},
			schema.FormData{"notes": 55}, false,
		},
		{
			"greater_than true",
			schema.ConditionalRule{Field: "age", Operator: schema.OperatorGreaterThan, Value: 18.0},
			schema.FormData{"age": 21.0}, true,
		},
		{
			"greater_than equal is false",
			schema.ConditionalRule{Field: "age", Operator: schema.OperatorGreaterThan, Value: 18.0},
			schema.FormData{"age": 18.0}, false,
		},
		{
			"greater_than non-numeric is false",
			schema.ConditionalRule{Field: "age", Operator: schema.OperatorGreaterThan, Value: 18.0},
			schema.FormData{"age": "twenty"}, false,
		},
		{
			"less_than true",
			schema.ConditionalRule{Field: "age", Operator: schema.OperatorLessThan, Value: 18.0},
			schema.FormData{"age": 10.0}, true,
		},
		{
			"less_than missing value is false",
			schema.ConditionalRule{Field: "age", Operator: schema.OperatorLessThan, Value: 18.0},
			schema.FormData{}, false,
		},
		{
			"unknown operator fails open",
			schema.ConditionalRule{Field: "plan", Operator: "matches_regex", Value: ".*"},
			schema.FormData{}, true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rule := tc.rule
			field := conditionalField(&rule)
			if got := visibility.FieldVisible(field, tc.data); got != tc.want {
				t.Fatalf("FieldVisible = %v, want %v", got, tc.want)
			}

			section := schema.Section{ID: "s", Title: "S", Conditional: &rule}
			if got := visibility.SectionVisible(section, tc.data); got != tc.want {
				t.Fatalf("SectionVisible = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSectionVisibilityDoesNotCascade(t *testing.T) {
	// A visible field inside a hidden section still reports visible on its
	// own; callers must check both.
	hidden := &schema.ConditionalRule{Field: "show", Operator: schema.OperatorEquals, Value: true}
	section := schema.Section{
		ID: "s", Title: "S", Conditional: hidden,
		Fields: []schema.Field{{ID: "f", Type: schema.FieldTypeText, Label: "F"}},
	}
	data := schema.FormData{"show": false}

	if visibility.SectionVisible(section, data) {
		t.Fatal("section should be hidden")
	}
	if !visibility.FieldVisible(section.Fields[0], data) {
		t.Fatal("field visibility must not inherit the section's conditional")
	}
}
