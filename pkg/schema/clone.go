package schema

// Clone returns a deep copy of the template. The builder relies on this for
// copy-on-write mutation: every operation clones, changes the clone and
// returns it, so a template value handed out earlier is never aliased.
func (t Template) Clone() Template {
	out := t
	out.Sections = cloneSections(t.Sections)
	out.Settings.AllowedFileTypes = cloneStrings(t.Settings.AllowedFileTypes)
	out.Metadata.Tags = cloneStrings(t.Metadata.Tags)
	out.Metadata.Extra = cloneStringMap(t.Metadata.Extra)
	return out
}

// Clone returns a deep copy of the section and its fields.
func (s Section) Clone() Section {
	out := s
	out.Conditional = cloneConditional(s.Conditional)
	if s.Fields != nil {
		out.Fields = make([]Field, len(s.Fields))
		for i := range s.Fields {
			out.Fields[i] = s.Fields[i].Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the field.
func (f Field) Clone() Field {
	out := f
	if f.Validation != nil {
		out.Validation = append([]ValidationRule(nil), f.Validation...)
	}
	if f.Options != nil {
		out.Options = append([]Option(nil), f.Options...)
	}
	out.Conditional = cloneConditional(f.Conditional)
	if f.Styling != nil {
		styling := *f.Styling
		out.Styling = &styling
	}
	out.Settings = cloneAnyMap(f.Settings)
	out.Metadata = cloneAnyMap(f.Metadata)
	return out
}

// Clone returns a shallow-value copy of the form data map. Values are shared;
// the engine treats them as immutable.
func (d FormData) Clone() FormData {
	if d == nil {
		return nil
	}
	out := make(FormData, len(d))
	for key, value := range d {
		out[key] = value
	}
	return out
}

func cloneSections(sections []Section) []Section {
	if sections == nil {
		return nil
	}
	out := make([]Section, len(sections))
	for i := range sections {
		out[i] = sections[i].Clone()
	}
	return out
}

func cloneConditional(rule *ConditionalRule) *ConditionalRule {
	if rule == nil {
		return nil
	}
	cloned := *rule
	return &cloned
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

func cloneStringMap(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func cloneAnyMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}
