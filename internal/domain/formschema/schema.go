// Package formschema parses the dynamic field definitions attached to approval
// templates and validates submitted form values against them.
package formschema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

type FieldType string

const (
	FieldText        FieldType = "text"
	FieldTextarea    FieldType = "textarea"
	FieldNumber      FieldType = "number"
	FieldDate        FieldType = "date"
	FieldSelect      FieldType = "select"
	FieldMultiSelect FieldType = "multiSelect"
	FieldFile        FieldType = "file"
	FieldCheckbox    FieldType = "checkbox"
)

// Valid reports whether t belongs to the closed set of supported field types.
func (t FieldType) Valid() bool {
	switch t {
	case FieldText, FieldTextarea, FieldNumber, FieldDate,
		FieldSelect, FieldMultiSelect, FieldFile, FieldCheckbox:
		return true
	}
	return false
}

// HasOptions reports whether the type draws its values from an options list.
func (t FieldType) HasOptions() bool {
	return t == FieldSelect || t == FieldMultiSelect
}

type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type FieldDefinition struct {
	ID           string    `json:"id"`
	Label        string    `json:"label"`
	Type         FieldType `json:"type"`
	Required     bool      `json:"required,omitempty"`
	Placeholder  string    `json:"placeholder,omitempty"`
	HelpText     string    `json:"helpText,omitempty"`
	Options      []Option  `json:"options,omitempty"`
	DefaultValue any       `json:"defaultValue,omitempty"`
	Min          *float64  `json:"min,omitempty"`
	Max          *float64  `json:"max,omitempty"`
}

func (f *FieldDefinition) hasOption(value string) bool {
	for _, o := range f.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// FormSchema is the canonical, ordered set of fields of a template. A schema
// embedded in a template is never edited in place; edits produce a new value.
type FormSchema struct {
	Items        []FieldDefinition `json:"items"`
	Instructions string            `json:"instructions,omitempty"`
	Version      string            `json:"version,omitempty"`
}

// Field returns the definition with the given id.
func (s *FormSchema) Field(id string) (*FieldDefinition, bool) {
	for i := range s.Items {
		if s.Items[i].ID == id {
			return &s.Items[i], true
		}
	}
	return nil, false
}

// JSON returns the canonical serialization stored alongside a template.
func (s *FormSchema) JSON() ([]byte, error) {
	return json.Marshal(s)
}

// SchemaError collects every structural problem found while parsing a schema
// or decoding a payload.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return "invalid form schema: " + strings.Join(e.Problems, "; ")
}

func (e *SchemaError) add(format string, args ...any) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

var fieldIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

type rawSchema struct {
	Items        json.RawMessage `json:"items"`
	Instructions string          `json:"instructions"`
	Version      any             `json:"version"`
}

// Parse turns an untyped JSON field definition into a FormSchema. All problems
// are reported at once through a *SchemaError.
func Parse(raw []byte) (*FormSchema, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, &SchemaError{Problems: []string{"schema must be a JSON object"}}
	}

	var rs rawSchema
	if err := json.Unmarshal(raw, &rs); err != nil {
		return nil, &SchemaError{Problems: []string{"schema is malformed: " + err.Error()}}
	}

	var items []json.RawMessage
	if len(rs.Items) == 0 || string(rs.Items) == "null" {
		return nil, &SchemaError{Problems: []string{"items is required"}}
	}
	if err := json.Unmarshal(rs.Items, &items); err != nil {
		return nil, &SchemaError{Problems: []string{"items must be an array"}}
	}
	if len(items) == 0 {
		return nil, &SchemaError{Problems: []string{"items must contain at least one field"}}
	}

	schemaErr := &SchemaError{}
	schema := &FormSchema{
		Items:        make([]FieldDefinition, 0, len(items)),
		Instructions: rs.Instructions,
		Version:      versionString(rs.Version),
	}
	seen := make(map[string]bool, len(items))

	for i, item := range items {
		var f FieldDefinition
		if err := json.Unmarshal(item, &f); err != nil {
			schemaErr.add("items[%d] is malformed: %v", i, err)
			continue
		}
		f.ID = strings.TrimSpace(f.ID)
		f.Label = strings.TrimSpace(f.Label)

		switch {
		case f.ID == "":
			schemaErr.add("items[%d].id is required", i)
		case !fieldIDPattern.MatchString(f.ID):
			schemaErr.add("items[%d].id %q may only contain letters, digits, '_' and '-'", i, f.ID)
		case seen[f.ID]:
			schemaErr.add("items[%d].id %q is duplicated", i, f.ID)
		default:
			seen[f.ID] = true
		}

		if f.Label == "" {
			schemaErr.add("items[%d].label is required", i)
		}

		if !f.Type.Valid() {
			schemaErr.add("items[%d].type %q is not supported", i, f.Type)
		} else if f.Type.HasOptions() {
			if len(f.Options) == 0 {
				schemaErr.add("items[%d].options must not be empty for %s fields", i, f.Type)
			}
			for j, o := range f.Options {
				if strings.TrimSpace(o.Label) == "" || strings.TrimSpace(o.Value) == "" {
					schemaErr.add("items[%d].options[%d] needs a label and a value", i, j)
				}
			}
		}

		if f.Min != nil && f.Max != nil && *f.Min > *f.Max {
			schemaErr.add("items[%d].min must not exceed max", i)
		}

		schema.Items = append(schema.Items, f)
	}

	if len(schemaErr.Problems) > 0 {
		return nil, schemaErr
	}
	return schema, nil
}

func versionString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return fmt.Sprintf("%g", x)
	default:
		return fmt.Sprint(x)
	}
}
