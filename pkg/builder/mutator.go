package builder

import (
	"time"

	"github.com/goliatone/go-formkit/pkg/schema"
)

// CurrentSectionUnchanged is reported in Result.CurrentSection when a command
// has no opinion about which section the UI should focus.
const CurrentSectionUnchanged = -1

// Result is the outcome of applying one command. Template is a fresh value
// (never aliased with the input), Dirty reports whether the command changed
// anything, and CurrentSection suggests a focus index for section-tracking
// UIs. After RemoveSection callers must clamp any tracked index to
// min(current, len(sections)-1).
type Result struct {
	Template       schema.Template
	Dirty          bool
	CurrentSection int
}

// Mutator applies commands to templates. The zero configuration uses the wall
// clock for the UpdatedAt stamp.
type Mutator struct {
	clock func() time.Time
}

// Option customises a Mutator.
type Option func(*Mutator)

// WithClock overrides the timestamp source used for Metadata.UpdatedAt.
func WithClock(clock func() time.Time) Option {
	return func(m *Mutator) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// New constructs a Mutator.
func New(options ...Option) *Mutator {
	m := &Mutator{clock: time.Now}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(m)
	}
	return m
}

// Apply executes one command against the template and returns the resulting
// snapshot. Commands that cannot take effect (index out of range, id not
// found) return the input template unchanged with Dirty=false. Every
// successful mutation refreshes Metadata.UpdatedAt.
func (m *Mutator) Apply(tpl schema.Template, cmd Command) Result {
	unchanged := Result{Template: tpl, CurrentSection: CurrentSectionUnchanged}

	switch c := cmd.(type) {
	case AddField:
		if c.SectionIndex < 0 || c.SectionIndex >= len(tpl.Sections) {
			return unchanged
		}
		next := tpl.Clone()
		section := &next.Sections[c.SectionIndex]
		section.Fields = append(section.Fields, c.Field.Clone())
		return m.dirty(next, CurrentSectionUnchanged)

	case UpdateField:
		next := tpl.Clone()
		field, _, ok := findField(&next, c.FieldID)
		if !ok {
			return unchanged
		}
		c.Patch.apply(field)
		return m.dirty(next, CurrentSectionUnchanged)

	case RemoveField:
		next := tpl.Clone()
		_, loc, ok := findField(&next, c.FieldID)
		if !ok {
			return unchanged
		}
		fields := next.Sections[loc.section].Fields
		next.Sections[loc.section].Fields = append(fields[:loc.index], fields[loc.index+1:]...)
		return m.dirty(next, CurrentSectionUnchanged)

	case AddSection:
		next := tpl.Clone()
		next.Sections = append(next.Sections, c.Section.Clone())
		return m.dirty(next, len(next.Sections)-1)

	case UpdateSection:
		next := tpl.Clone()
		section, ok := findSection(&next, c.SectionID)
		if !ok {
			return unchanged
		}
		c.Patch.apply(section)
		return m.dirty(next, CurrentSectionUnchanged)

	case RemoveSection:
		next := tpl.Clone()
		idx := -1
		for i := range next.Sections {
			if next.Sections[i].ID == c.SectionID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return unchanged
		}
		next.Sections = append(next.Sections[:idx], next.Sections[idx+1:]...)
		return m.dirty(next, CurrentSectionUnchanged)

	case MoveField:
		if c.FromSection < 0 || c.FromSection >= len(tpl.Sections) {
			return unchanged
		}
		if c.ToSection < 0 || c.ToSection >= len(tpl.Sections) {
			return unchanged
		}
		next := tpl.Clone()
		source := &next.Sections[c.FromSection]
		fieldIdx := -1
		for i := range source.Fields {
			if source.Fields[i].ID == c.FieldID {
				fieldIdx = i
				break
			}
		}
		if fieldIdx < 0 {
			return unchanged
		}
		moved := source.Fields[fieldIdx]
		source.Fields = append(source.Fields[:fieldIdx], source.Fields[fieldIdx+1:]...)

		dest := &next.Sections[c.ToSection]
		at := c.ToIndex
		if at < 0 {
			at = 0
		}
		if at > len(dest.Fields) {
			at = len(dest.Fields)
		}
		dest.Fields = append(dest.Fields, schema.Field{})
		copy(dest.Fields[at+1:], dest.Fields[at:])
		dest.Fields[at] = moved
		return m.dirty(next, CurrentSectionUnchanged)
	}

	return unchanged
}

func (m *Mutator) dirty(tpl schema.Template, currentSection int) Result {
	tpl.Metadata.UpdatedAt = m.clock()
	return Result{Template: tpl, Dirty: true, CurrentSection: currentSection}
}

type fieldLocation struct {
	section int
	index   int
}

// findField scans sections in order and stops at the first matching id.
func findField(tpl *schema.Template, id string) (*schema.Field, fieldLocation, bool) {
	for si := range tpl.Sections {
		for fi := range tpl.Sections[si].Fields {
			if tpl.Sections[si].Fields[fi].ID == id {
				return &tpl.Sections[si].Fields[fi], fieldLocation{section: si, index: fi}, true
			}
		}
	}
	return nil, fieldLocation{}, false
}

func findSection(tpl *schema.Template, id string) (*schema.Section, bool) {
	for i := range tpl.Sections {
		if tpl.Sections[i].ID == id {
			return &tpl.Sections[i], true
		}
	}
	return nil, false
}
