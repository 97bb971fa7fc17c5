package render_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/schema"
)

type instanceRecorder struct {
	created []schema.Instance
	err     error
}

func (r *instanceRecorder) Create(_ context.Context, instance schema.Instance) (schema.Instance, error) {
	if r.err != nil {
		return schema.Instance{}, r.err
	}
	r.created = append(r.created, instance)
	return instance, nil
}

func sequentialIDs(prefix string) schema.IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func singleStepTemplate() schema.Template {
	return schema.Template{
		ID:   "tpl-1",
		Name: "Contact",
		Sections: []schema.Section{
			{
				ID:    "sec-1",
				Title: "Details",
				Fields: []schema.Field{
					{
						ID: "name", Type: schema.FieldTypeText, Label: "Name",
						Validation: []schema.ValidationRule{schema.Required("Name required")},
					},
					{ID: "notes", Type: schema.FieldTypeTextarea, Label: "Notes"},
				},
			},
		},
		Settings: schema.Settings{AllowDraft: true},
	}
}

func multiStepTemplate() schema.Template {
	return schema.Template{
		ID:   "tpl-2",
		Name: "Wizard",
		Sections: []schema.Section{
			{
				ID:    "step-1",
				Title: "Identity",
				Fields: []schema.Field{
					{
						ID: "name", Type: schema.FieldTypeText, Label: "Name",
						Validation: []schema.ValidationRule{schema.Required("Name required")},
					},
				},
			},
			{
				ID:    "step-2",
				Title: "Extras",
				Fields: []schema.Field{
					{ID: "bio", Type: schema.FieldTypeTextarea, Label: "Bio"},
				},
			},
		},
		Settings: schema.Settings{MultiStep: true, AllowDraft: true},
	}
}

func TestScenarioRequiredName(t *testing.T) {
	session := render.NewSession(singleStepTemplate())

	session.SetValue("name", "")
	if got := session.FieldErrors("name"); len(got) != 1 || got[0] != "Name required" {
		t.Fatalf(`errors for "" = %v, want ["Name required"]`, got)
	}

	session.SetValue("name", "Alice")
	if got := session.FieldErrors("name"); len(got) != 0 {
		t.Fatalf(`errors for "Alice" = %v, want none`, got)
	}
}

func TestScenarioNextAdvancesWithoutValidation(t *testing.T) {
	session := render.NewSession(multiStepTemplate())
	// name is empty and invalid; advancing is still allowed.
	if got := session.Next(); got != 1 {
		t.Fatalf("Next = %d, want 1", got)
	}
	if len(session.Errors()) != 0 {
		t.Fatalf("Next must not raise validation errors, got %v", session.Errors())
	}
}

func TestStepNavigationBounds(t *testing.T) {
	session := render.NewSession(multiStepTemplate())

	if session.StepCount() != 2 {
		t.Fatalf("StepCount = %d, want 2", session.StepCount())
	}
	if got := session.Previous(); got != 0 {
		t.Fatalf("Previous at first step = %d, want clamp at 0", got)
	}
	session.Next()
	if got := session.Next(); got != 1 {
		t.Fatalf("Next past last step = %d, want clamp at 1", got)
	}
	if got := session.Previous(); got != 0 {
		t.Fatalf("Previous = %d, want 0", got)
	}

	single := render.NewSession(singleStepTemplate())
	if single.StepCount() != 1 {
		t.Fatalf("single-step StepCount = %d, want 1", single.StepCount())
	}
	if got := single.Next(); got != 0 {
		t.Fatalf("Next on single-step template = %d, want 0", got)
	}
}

func TestSubmitBlockedByValidation(t *testing.T) {
	rec := &instanceRecorder{}
	session := render.NewSession(singleStepTemplate(), render.WithInstanceStore(rec))

	_, err := session.Submit(context.Background())
	if !errors.Is(err, render.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if session.State() != render.StateEditing {
		t.Fatalf("expected to remain editing, got %v", session.State())
	}
	if got := session.Errors()["name"]; len(got) != 1 || got[0] != "Name required" {
		t.Fatalf("expected populated errors, got %v", session.Errors())
	}
	if len(rec.created) != 0 {
		t.Fatal("no instance may be created on validation failure")
	}
}

func TestSubmitCreatesInstance(t *testing.T) {
	rec := &instanceRecorder{}
	now := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	session := render.NewSession(singleStepTemplate(),
		render.WithInstanceStore(rec),
		render.WithIDGenerator(sequentialIDs("inst")),
		render.WithSessionClock(func() time.Time { return now }),
		render.WithUserID("user-9"),
	)

	session.SetValue("name", "Alice")
	instance, err := session.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if session.State() != render.StateSubmitted {
		t.Fatalf("expected submitted state, got %v", session.State())
	}
	if instance.ID != "inst-1" || instance.TemplateID != "tpl-1" {
		t.Fatalf("unexpected instance identity: %+v", instance)
	}
	if instance.Status != schema.StatusSubmitted {
		t.Fatalf("expected submitted status, got %q", instance.Status)
	}
	if instance.SubmittedAt == nil || !instance.SubmittedAt.Equal(now) {
		t.Fatalf("expected SubmittedAt %v, got %v", now, instance.SubmittedAt)
	}
	if instance.Progress != 50 {
		t.Fatalf("expected progress 50 (1 of 2 fields), got %d", instance.Progress)
	}
	if len(instance.AuditTrail) != 1 || instance.AuditTrail[0].Action != "submitted" || instance.AuditTrail[0].UserID != "user-9" {
		t.Fatalf("unexpected audit trail: %+v", instance.AuditTrail)
	}
}

func TestSubmitHiddenFieldsAreNotValidated(t *testing.T) {
	tpl := singleStepTemplate()
	tpl.Sections[0].Fields[0].Conditional = &schema.ConditionalRule{
		Field: "notes", Operator: schema.OperatorEquals, Value: "show-name",
	}
	rec := &instanceRecorder{}
	session := render.NewSession(tpl, render.WithInstanceStore(rec))

	// name is required but hidden, so submit passes.
	if _, err := session.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
}

func TestSubmitFailureReturnsToEditingOnNextChange(t *testing.T) {
	rec := &instanceRecorder{err: errors.New("backend down")}
	session := render.NewSession(singleStepTemplate(), render.WithInstanceStore(rec))
	session.SetValue("name", "Alice")

	_, err := session.Submit(context.Background())
	if err == nil {
		t.Fatal("expected submit error")
	}
	if session.State() != render.StateFailed {
		t.Fatalf("expected failed state, got %v", session.State())
	}
	if session.SubmitError() == nil {
		t.Fatal("expected submit error retained")
	}
	if session.Submitting() {
		t.Fatal("isSubmitting must reset after failure to allow retry")
	}

	// Failed is not terminal.
	session.SetValue("name", "Alice B")
	if session.State() != render.StateEditing {
		t.Fatalf("expected return to editing, got %v", session.State())
	}

	rec.err = nil
	if _, err := session.Submit(context.Background()); err != nil {
		t.Fatalf("retry submit: %v", err)
	}
	if session.State() != render.StateSubmitted {
		t.Fatalf("expected submitted after retry, got %v", session.State())
	}
}

func TestSaveDraftBypassesValidation(t *testing.T) {
	rec := &instanceRecorder{}
	session := render.NewSession(singleStepTemplate(), render.WithInstanceStore(rec))

	// name invalid/empty: drafts save anyway.
	instance, err := session.SaveDraft(context.Background())
	if err != nil {
		t.Fatalf("save draft: %v", err)
	}
	if instance.Status != schema.StatusDraft {
		t.Fatalf("expected draft status, got %q", instance.Status)
	}
	if instance.SubmittedAt != nil {
		t.Fatal("drafts carry no SubmittedAt")
	}
	if session.State() != render.StateEditing {
		t.Fatalf("draft save must not change state, got %v", session.State())
	}
}

func TestSaveDraftDisabled(t *testing.T) {
	tpl := singleStepTemplate()
	tpl.Settings.AllowDraft = false
	session := render.NewSession(tpl, render.WithInstanceStore(&instanceRecorder{}))

	if _, err := session.SaveDraft(context.Background()); !errors.Is(err, render.ErrDraftDisabled) {
		t.Fatalf("expected ErrDraftDisabled, got %v", err)
	}
}

func TestResetRestoresSeedData(t *testing.T) {
	seed := schema.FormData{"name": "Seeded"}
	session := render.NewSession(singleStepTemplate(), render.WithSeedData(seed))

	if session.Progress() != 50 {
		t.Fatalf("expected seeded progress 50, got %d", session.Progress())
	}

	session.SetValue("name", "")
	session.SetValue("notes", "scratch")
	if len(session.FieldErrors("name")) == 0 {
		t.Fatal("expected validation error before reset")
	}

	session.Reset()
	if got := session.Value("name"); got != "Seeded" {
		t.Fatalf("expected seed restored, got %v", got)
	}
	if got := session.Value("notes"); got != nil {
		t.Fatalf("expected scratch value cleared, got %v", got)
	}
	if len(session.Errors()) != 0 {
		t.Fatalf("expected errors cleared, got %v", session.Errors())
	}
	if session.Progress() != 50 {
		t.Fatalf("expected progress recomputed to 50, got %d", session.Progress())
	}
}

func TestDefaultValuesSeedTheBaseline(t *testing.T) {
	tpl := singleStepTemplate()
	tpl.Sections[0].Fields[1].DefaultValue = "prefilled"
	session := render.NewSession(tpl)

	if got := session.Value("notes"); got != "prefilled" {
		t.Fatalf("expected default applied, got %v", got)
	}
}

func TestChangeListenerFires(t *testing.T) {
	var calls int
	session := render.NewSession(singleStepTemplate(),
		render.WithChangeListener(func() { calls++ }))

	session.SetValue("name", "A")
	session.SetValue("notes", "B")
	session.Reset()

	if calls != 3 {
		t.Fatalf("expected 3 change notifications, got %d", calls)
	}
}

func TestUnknownFieldTypeDoesNotAbortEvaluation(t *testing.T) {
	tpl := singleStepTemplate()
	tpl.Sections[0].Fields = append(tpl.Sections[0].Fields, schema.Field{
		ID: "mystery", Type: "hologram", Label: "Mystery",
	})
	rec := &instanceRecorder{}
	session := render.NewSession(tpl, render.WithInstanceStore(rec))

	session.SetValue("name", "Alice")
	session.SetValue("mystery", "anything")
	if _, err := session.Submit(context.Background()); err != nil {
		t.Fatalf("unknown field type must not abort submit: %v", err)
	}
}

type memUploader struct {
	stored map[string]string
}

func (u *memUploader) Upload(_ context.Context, name string, content io.Reader) (render.Asset, error) {
	payload, err := io.ReadAll(content)
	if err != nil {
		return render.Asset{}, err
	}
	if u.stored == nil {
		u.stored = map[string]string{}
	}
	id := fmt.Sprintf("asset-%d", len(u.stored)+1)
	u.stored[id] = string(payload)
	return render.Asset{ID: id, URL: "mem://" + id + "/" + name}, nil
}

func TestUploadedAssetFlowsIntoFormData(t *testing.T) {
	tpl := singleStepTemplate()
	tpl.Sections[0].Fields = append(tpl.Sections[0].Fields, schema.Field{
		ID: "attachment", Type: schema.FieldTypeFile, Label: "Attachment",
	})
	uploader := &memUploader{}
	session := render.NewSession(tpl)

	asset, err := uploader.Upload(context.Background(), "resume.pdf", strings.NewReader("pdf-bytes"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	session.SetValue("attachment", asset)

	if got := session.Value("attachment"); got != asset {
		t.Fatalf("attachment = %v, want stored asset reference", got)
	}
	if uploader.stored[asset.ID] != "pdf-bytes" {
		t.Fatalf("stored payload = %q", uploader.stored[asset.ID])
	}
	// The asset counts as a filled value: name empty, notes empty, attachment
	// set gives 1 of 3.
	if session.Progress() != 33 {
		t.Fatalf("Progress = %d, want 33", session.Progress())
	}
}

func TestSubmitWithoutStore(t *testing.T) {
	session := render.NewSession(singleStepTemplate())
	session.SetValue("name", "Alice")
	if _, err := session.Submit(context.Background()); !errors.Is(err, render.ErrNoInstanceStore) {
		t.Fatalf("expected ErrNoInstanceStore, got %v", err)
	}
}
