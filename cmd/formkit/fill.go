package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/visibility"
)

// ErrAborted is returned when the user interrupts a prompt.
var ErrAborted = errors.New("fill aborted")

// prompter abstracts the terminal prompts so the fill loop can be exercised
// without a TTY.
type prompter interface {
	Input(message, help, placeholder string) (string, error)
	Confirm(message string, def bool) (bool, error)
	Select(message string, options []string) (int, error)
	MultiSelect(message string, options []string) ([]int, error)
	Info(message string)
}

type surveyPrompter struct{}

func (surveyPrompter) Input(message, help, placeholder string) (string, error) {
	var out string
	prompt := &survey.Input{Message: message, Help: help, Default: placeholder}
	if err := survey.AskOne(prompt, &out); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (surveyPrompter) Confirm(message string, def bool) (bool, error) {
	var out bool
	if err := survey.AskOne(&survey.Confirm{Message: message, Default: def}, &out); err != nil {
		return false, translateSurveyErr(err)
	}
	return out, nil
}

func (surveyPrompter) Select(message string, options []string) (int, error) {
	var out int
	if err := survey.AskOne(&survey.Select{Message: message, Options: options}, &out); err != nil {
		return 0, translateSurveyErr(err)
	}
	return out, nil
}

func (surveyPrompter) MultiSelect(message string, options []string) ([]int, error) {
	var out []int
	if err := survey.AskOne(&survey.MultiSelect{Message: message, Options: options}, &out); err != nil {
		return nil, translateSurveyErr(err)
	}
	return out, nil
}

func (surveyPrompter) Info(message string) {
	fmt.Println(message)
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

// filler walks every visible section and field of a session, prompting for
// values and surfacing per-field validation errors as they happen.
type filler struct {
	session  *render.Session
	prompter prompter
}

func (f *filler) run(ctx context.Context, draft bool) error {
	tpl := f.session.Template()

	for si, section := range tpl.Sections {
		if !visibility.SectionVisible(section, f.session.Data()) {
			continue
		}
		if tpl.Settings.MultiStep {
			f.prompter.Info(fmt.Sprintf("-- Step %d/%d: %s", si+1, f.session.StepCount(), section.Title))
		} else {
			f.prompter.Info("-- " + section.Title)
		}

		for _, field := range section.Fields {
			if !visibility.FieldVisible(field, f.session.Data()) {
				continue
			}
			if err := f.fillField(field); err != nil {
				return err
			}
		}

		if tpl.Settings.MultiStep && si < f.session.StepCount()-1 {
			f.session.Next()
		}
		f.prompter.Info(fmt.Sprintf("Progress: %d%%", f.session.Progress()))
	}

	if draft {
		instance, err := f.session.SaveDraft(ctx)
		if err != nil {
			return err
		}
		f.prompter.Info("Draft saved: " + instance.ID)
		return nil
	}

	instance, err := f.session.Submit(ctx)
	if err != nil {
		if errors.Is(err, render.ErrValidation) {
			for fieldID, messages := range f.session.Errors() {
				for _, message := range messages {
					f.prompter.Info(fmt.Sprintf("  %s: %s", fieldID, message))
				}
			}
		}
		return err
	}
	f.prompter.Info("Submitted: " + instance.ID)
	return nil
}

func (f *filler) fillField(field schema.Field) error {
	label := field.Label
	if label == "" {
		label = field.ID
	}
	if field.Required {
		label += " *"
	}

	switch field.Type {
	case schema.FieldTypeCheckbox:
		def, _ := f.session.Value(field.ID).(bool)
		value, err := f.prompter.Confirm(label, def)
		if err != nil {
			return err
		}
		f.session.SetValue(field.ID, value)

	case schema.FieldTypeSelect, schema.FieldTypeRadio:
		labels, values := selectable(field.Options)
		if len(labels) == 0 {
			return f.promptText(field, label)
		}
		idx, err := f.prompter.Select(label, labels)
		if err != nil {
			return err
		}
		f.session.SetValue(field.ID, values[idx])

	case schema.FieldTypeMultiSelect:
		labels, values := selectable(field.Options)
		if len(labels) == 0 {
			return f.promptText(field, label)
		}
		picked, err := f.prompter.MultiSelect(label, labels)
		if err != nil {
			return err
		}
		selected := make([]any, 0, len(picked))
		for _, idx := range picked {
			selected = append(selected, values[idx])
		}
		f.session.SetValue(field.ID, selected)

	case schema.FieldTypeNumber:
		raw, err := f.prompter.Input(label, field.Description, field.Placeholder)
		if err != nil {
			return err
		}
		if trimmed := strings.TrimSpace(raw); trimmed != "" {
			if parsed, perr := strconv.ParseFloat(trimmed, 64); perr == nil {
				f.session.SetValue(field.ID, parsed)
			} else {
				f.session.SetValue(field.ID, raw)
			}
		} else {
			f.session.SetValue(field.ID, nil)
		}

	case schema.FieldTypeFile, schema.FieldTypeSignature:
		f.prompter.Info(fmt.Sprintf("  [%s] %s: attachment fields are skipped in terminal fill", field.Type, label))
		return nil

	default:
		if !field.Type.Known() {
			// Unknown types render a sentinel instead of aborting the fill.
			f.prompter.Info(fmt.Sprintf("  [unknown type %q] %s: skipped", field.Type, label))
			return nil
		}
		return f.promptText(field, label)
	}

	f.reportErrors(field.ID)
	return nil
}

func (f *filler) promptText(field schema.Field, label string) error {
	raw, err := f.prompter.Input(label, field.Description, field.Placeholder)
	if err != nil {
		return err
	}
	f.session.SetValue(field.ID, raw)
	f.reportErrors(field.ID)
	return nil
}

func (f *filler) reportErrors(fieldID string) {
	for _, message := range f.session.FieldErrors(fieldID) {
		f.prompter.Info("  ! " + message)
	}
}

// selectable returns prompt labels and their values with disabled options
// filtered out, keeping the two slices index-aligned.
func selectable(options []schema.Option) ([]string, []string) {
	labels := make([]string, 0, len(options))
	values := make([]string, 0, len(options))
	for _, opt := range options {
		if opt.Disabled {
			continue
		}
		labels = append(labels, opt.Label)
		values = append(values, opt.Value)
	}
	return labels, values
}
