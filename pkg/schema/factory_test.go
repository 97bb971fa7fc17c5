package schema_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/goliatone/go-formkit/pkg/schema"
)

func sequentialIDs(prefix string) schema.IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestFactoryDeterministicWithInjectedGenerator(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	factory := schema.NewFactory(
		schema.WithIDGenerator(sequentialIDs("id")),
		schema.WithClock(fixedClock(now)),
	)

	tpl := factory.NewTemplate("Intake", "support", "user-7")

	if tpl.ID != "id-1" {
		t.Fatalf("expected deterministic template id, got %q", tpl.ID)
	}
	if len(tpl.Sections) != 1 {
		t.Fatalf("expected one default section, got %d", len(tpl.Sections))
	}
	if tpl.Sections[0].ID != "id-2" {
		t.Fatalf("expected deterministic section id, got %q", tpl.Sections[0].ID)
	}
	if tpl.Version != 1 {
		t.Fatalf("expected version 1, got %d", tpl.Version)
	}
	if !tpl.Metadata.CreatedAt.Equal(now) || !tpl.Metadata.UpdatedAt.Equal(now) {
		t.Fatalf("expected lifecycle stamps at %v, got %+v", now, tpl.Metadata)
	}
	if tpl.Metadata.CreatedBy != "user-7" {
		t.Fatalf("expected createdBy, got %q", tpl.Metadata.CreatedBy)
	}
	if !tpl.Settings.AllowDraft || !tpl.Settings.AutoSave {
		t.Fatalf("expected draft and autosave defaults on, got %+v", tpl.Settings)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	original := sampleTemplate()
	clone := original.Clone()

	clone.Sections[0].Fields[0].Label = "Changed"
	clone.Sections[0].Fields[0].Validation[0] = schema.Required("other")
	clone.Sections[1].Fields[0].Conditional.Value = "changed"
	clone.Sections[0].Title = "Changed"

	if original.Sections[0].Fields[0].Label != "Full Name" {
		t.Fatal("clone mutation leaked into original field label")
	}
	if original.Sections[0].Fields[0].Validation[0].Message != "Name required" {
		t.Fatal("clone mutation leaked into original validation rules")
	}
	if original.Sections[1].Fields[0].Conditional.Value != "" {
		t.Fatal("clone mutation leaked into original conditional")
	}
	if original.Sections[0].Title != "Personal" {
		t.Fatal("clone mutation leaked into original section title")
	}
}

func TestFieldIndexFirstMatchWins(t *testing.T) {
	tpl := sampleTemplate()
	dup := tpl.Sections[0].Fields[0]
	dup.Label = "Shadow"
	tpl.Sections[1].Fields = append(tpl.Sections[1].Fields, dup)

	index := tpl.FieldIndex()
	if got := index["name"].Label; got != "Full Name" {
		t.Fatalf("expected first occurrence to win, got %q", got)
	}

	field, ok := tpl.FieldByID("name")
	if !ok || field.Label != "Full Name" {
		t.Fatalf("expected FieldByID to return first match, got %+v ok=%v", field, ok)
	}
}
