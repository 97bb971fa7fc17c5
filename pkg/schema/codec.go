package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

var errEmptyDocument = errors.New("schema: document payload is empty")

// Marshal serialises the template to its canonical JSON wire form. Section and
// field order is preserved, nested validation arrays keep their declared
// order, and optional keys are omitted when absent.
func Marshal(t Template) ([]byte, error) {
	payload, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("schema: marshal template: %w", err)
	}
	return payload, nil
}

// Unmarshal decodes a JSON template document.
func Unmarshal(data []byte) (Template, error) {
	if len(data) == 0 {
		return Template{}, errEmptyDocument
	}
	var tpl Template
	if err := json.Unmarshal(data, &tpl); err != nil {
		return Template{}, fmt.Errorf("schema: unmarshal template: %w", err)
	}
	return tpl, nil
}

// Decode reads a template document in either JSON or YAML and sanitises
// untrusted text fields. YAML documents are converted to JSON before decoding
// so both paths share the same wire semantics.
func Decode(data []byte) (Template, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Template{}, errEmptyDocument
	}

	payload := data
	if !looksLikeJSON(data) {
		converted, err := yamlToJSON(data)
		if err != nil {
			return Template{}, err
		}
		payload = converted
	}

	tpl, err := Unmarshal(payload)
	if err != nil {
		return Template{}, err
	}
	sanitizeTemplate(&tpl)
	return tpl, nil
}

func looksLikeJSON(data []byte) bool {
	trimmed := strings.TrimSpace(string(data))
	return strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")
}

func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("schema: parse yaml document: %w", err)
	}
	converted, err := json.Marshal(normalizeYAMLValue(doc))
	if err != nil {
		return nil, fmt.Errorf("schema: convert yaml document: %w", err)
	}
	return converted, nil
}

// normalizeYAMLValue rewrites map[any]any trees produced by older yaml
// payloads into map[string]any so they serialise as JSON objects.
func normalizeYAMLValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, val := range typed {
			out[key] = normalizeYAMLValue(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, val := range typed {
			out[fmt.Sprint(key)] = normalizeYAMLValue(val)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, val := range typed {
			out[i] = normalizeYAMLValue(val)
		}
		return out
	default:
		return value
	}
}
