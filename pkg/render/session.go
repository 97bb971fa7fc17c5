// Package render drives a single form-filling session: per-instance form
// data, validation errors, completion progress, multi-step navigation and the
// submission lifecycle. A Session is owned by one logical writer and is not
// safe for concurrent use.
package render

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-formkit/pkg/progress"
	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/validation"
	"github.com/goliatone/go-formkit/pkg/visibility"
)

// State enumerates the submission lifecycle. Failed is never terminal: the
// session returns to Editing with errors attached on the next interaction.
type State int

const (
	StateEditing State = iota
	StateSubmitting
	StateSubmitted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	case StateSubmitted:
		return "submitted"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	// ErrValidation is returned by Submit when visible fields carry errors;
	// the per-field messages are available through Errors.
	ErrValidation = errors.New("render: form has validation errors")
	// ErrSubmitInFlight is returned when Submit is called while a previous
	// submit has not resolved.
	ErrSubmitInFlight = errors.New("render: submit already in flight")
	// ErrDraftDisabled is returned by SaveDraft when the template does not
	// allow drafts.
	ErrDraftDisabled = errors.New("render: template does not allow drafts")
	// ErrNoInstanceStore is returned when Submit or SaveDraft is called on a
	// session constructed without a persistence collaborator.
	ErrNoInstanceStore = errors.New("render: no instance store configured")
)

// InstanceCreator is the persistence collaborator consumed by Submit and
// SaveDraft. One call creates one instance; draft and submit are
// distinguished by Status and SubmittedAt.
type InstanceCreator interface {
	Create(ctx context.Context, instance schema.Instance) (schema.Instance, error)
}

// Session holds the runtime state for filling one template.
type Session struct {
	template schema.Template
	seed     schema.FormData
	data     schema.FormData
	errs     map[string][]string
	state    State
	step     int
	pct      int

	submitting bool
	submitErr  error

	instances InstanceCreator
	ids       schema.IDGenerator
	clock     func() time.Time
	userID    string
	onChange  func()
}

// SessionOption customises a Session.
type SessionOption func(*Session)

// WithSeedData prefills form data. Seed values overlay field defaults and are
// what Reset restores.
func WithSeedData(seed schema.FormData) SessionOption {
	return func(s *Session) { s.seed = seed.Clone() }
}

// WithInstanceStore wires the persistence collaborator for Submit/SaveDraft.
func WithInstanceStore(store InstanceCreator) SessionOption {
	return func(s *Session) { s.instances = store }
}

// WithIDGenerator overrides instance id generation.
func WithIDGenerator(ids schema.IDGenerator) SessionOption {
	return func(s *Session) {
		if ids != nil {
			s.ids = ids
		}
	}
}

// WithSessionClock overrides the timestamp source.
func WithSessionClock(clock func() time.Time) SessionOption {
	return func(s *Session) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithUserID attributes audit-trail entries to a user.
func WithUserID(userID string) SessionOption {
	return func(s *Session) { s.userID = userID }
}

// WithChangeListener registers a callback fired after every data mutation.
// The autosave controller hooks in here.
func WithChangeListener(fn func()) SessionOption {
	return func(s *Session) { s.onChange = fn }
}

// NewSession starts a session over a read-only template. Field defaults are
// applied first, then the seed data on top; the merged map is the baseline
// Reset restores.
func NewSession(tpl schema.Template, options ...SessionOption) *Session {
	s := &Session{
		template: tpl,
		data:     schema.FormData{},
		errs:     map[string][]string{},
		ids:      schema.NewUUIDGenerator(),
		clock:    time.Now,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}

	baseline := schema.FormData{}
	for _, section := range tpl.Sections {
		for _, field := range section.Fields {
			if field.DefaultValue != nil {
				baseline[field.ID] = field.DefaultValue
			}
		}
	}
	for key, value := range s.seed {
		baseline[key] = value
	}
	s.seed = baseline
	s.data = baseline.Clone()
	s.pct = progress.Completion(tpl, s.data)
	return s
}

// Template returns the template the session renders.
func (s *Session) Template() schema.Template { return s.template }

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Step returns the current step index.
func (s *Session) Step() int { return s.step }

// Progress returns the completion percentage over visible fields.
func (s *Session) Progress() int { return s.pct }

// Submitting reports whether a submit call is in flight; UIs disable the
// submit control while true.
func (s *Session) Submitting() bool { return s.submitting }

// SubmitError returns the persistence error attached to the Failed state.
func (s *Session) SubmitError() error { return s.submitErr }

// Value returns the current value for a field id.
func (s *Session) Value(fieldID string) any { return s.data[fieldID] }

// Data returns a copy of the current form data.
func (s *Session) Data() schema.FormData { return s.data.Clone() }

// Errors returns a copy of the per-field validation errors.
func (s *Session) Errors() map[string][]string {
	out := make(map[string][]string, len(s.errs))
	for key, msgs := range s.errs {
		out[key] = append([]string(nil), msgs...)
	}
	return out
}

// FieldErrors returns the current messages for one field.
func (s *Session) FieldErrors(fieldID string) []string {
	return append([]string(nil), s.errs[fieldID]...)
}

// SetValue records a field change, revalidates that field and recomputes
// progress. A session in the Failed state returns to Editing. Values for ids
// the template does not define are stored untouched; they simply never count
// toward validation or progress.
func (s *Session) SetValue(fieldID string, value any) {
	s.data[fieldID] = value
	if s.state == StateFailed {
		s.state = StateEditing
		s.submitErr = nil
	}

	if field, ok := s.template.FieldByID(fieldID); ok {
		if msgs := validation.ValidateField(field, value); len(msgs) > 0 {
			s.errs[fieldID] = msgs
		} else {
			delete(s.errs, fieldID)
		}
	}

	s.pct = progress.Completion(s.template, s.data)
	s.notify()
}

// StepCount returns the number of steps: one per section for multi-step
// templates, otherwise a single step.
func (s *Session) StepCount() int {
	if !s.template.Settings.MultiStep {
		return 1
	}
	return len(s.template.Sections)
}

// Next advances to the next step. Advancement does not gate on the current
// step's field validity; the last step's submit runs the full-form check.
func (s *Session) Next() int {
	if s.template.Settings.MultiStep && s.step < s.StepCount()-1 {
		s.step++
	}
	return s.step
}

// Previous moves back one step, clamped at the first.
func (s *Session) Previous() int {
	if s.step > 0 {
		s.step--
	}
	return s.step
}

// ValidateAll runs validation over every currently-visible field across all
// sections and replaces the error map with the outcome. Hidden sections and
// hidden fields are skipped entirely.
func (s *Session) ValidateAll() map[string][]string {
	errs := map[string][]string{}
	for _, section := range s.template.Sections {
		if !visibility.SectionVisible(section, s.data) {
			continue
		}
		for _, field := range section.Fields {
			if !visibility.FieldVisible(field, s.data) {
				continue
			}
			if msgs := validation.ValidateField(field, s.data[field.ID]); len(msgs) > 0 {
				errs[field.ID] = msgs
			}
		}
	}
	s.errs = errs
	return s.Errors()
}

// Submit validates the whole form and, when clean, persists a submitted
// instance through the collaborator. On validation errors the session stays
// in Editing with the errors populated and ErrValidation is returned. On
// persistence failure the session moves to Failed, the error is retained and
// submission is re-enabled for retry.
func (s *Session) Submit(ctx context.Context) (schema.Instance, error) {
	if s.submitting {
		return schema.Instance{}, ErrSubmitInFlight
	}
	if s.instances == nil {
		return schema.Instance{}, ErrNoInstanceStore
	}

	if errs := s.ValidateAll(); len(errs) > 0 {
		s.state = StateEditing
		return schema.Instance{}, ErrValidation
	}

	s.state = StateSubmitting
	s.submitting = true
	defer func() { s.submitting = false }()

	now := s.clock()
	instance := schema.Instance{
		ID:          s.ids(),
		TemplateID:  s.template.ID,
		Data:        s.data.Clone(),
		Status:      schema.StatusSubmitted,
		Progress:    s.pct,
		CurrentStep: s.step,
		SubmittedAt: &now,
		AuditTrail: []schema.AuditEntry{{
			Action:    "submitted",
			Timestamp: now,
			UserID:    s.userID,
		}},
	}

	created, err := s.instances.Create(ctx, instance)
	if err != nil {
		s.state = StateFailed
		s.submitErr = err
		return schema.Instance{}, fmt.Errorf("render: submit: %w", err)
	}

	s.state = StateSubmitted
	s.submitErr = nil
	return created, nil
}

// SaveDraft persists the current data as a draft instance. Drafts bypass
// validation entirely and leave the editing state untouched.
func (s *Session) SaveDraft(ctx context.Context) (schema.Instance, error) {
	if !s.template.Settings.AllowDraft {
		return schema.Instance{}, ErrDraftDisabled
	}
	if s.instances == nil {
		return schema.Instance{}, ErrNoInstanceStore
	}

	now := s.clock()
	instance := schema.Instance{
		ID:          s.ids(),
		TemplateID:  s.template.ID,
		Data:        s.data.Clone(),
		Status:      schema.StatusDraft,
		Progress:    s.pct,
		CurrentStep: s.step,
		AuditTrail: []schema.AuditEntry{{
			Action:    "draft_saved",
			Timestamp: now,
			UserID:    s.userID,
		}},
	}

	created, err := s.instances.Create(ctx, instance)
	if err != nil {
		return schema.Instance{}, fmt.Errorf("render: save draft: %w", err)
	}
	return created, nil
}

// Reset restores the seed data, clears errors and recomputes progress. The
// step index is left where it is.
func (s *Session) Reset() {
	s.data = s.seed.Clone()
	s.errs = map[string][]string{}
	s.state = StateEditing
	s.submitErr = nil
	s.pct = progress.Completion(s.template, s.data)
	s.notify()
}

func (s *Session) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}
