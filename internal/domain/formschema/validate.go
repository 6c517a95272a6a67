package formschema

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Result is the outcome of a validation pass. Cleaned holds the normalized
// value of every schema field, keyed by field id.
type Result struct {
	Errors  []string       `json:"errors"`
	Cleaned map[string]any `json:"cleaned"`
}

// OK reports whether the pass found no errors.
func (r Result) OK() bool {
	return len(r.Errors) == 0
}

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// DecodeData decodes a raw submission. Anything but a JSON object (or null)
// is a structural error.
func DecodeData(raw []byte) (map[string]any, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return map[string]any{}, nil
	}
	if raw[0] != '{' {
		return nil, &SchemaError{Problems: []string{"form data must be a JSON object"}}
	}
	data := map[string]any{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, &SchemaError{Problems: []string{"form data is malformed: " + err.Error()}}
	}
	return data, nil
}

// ValidateJSON decodes raw and validates it against schema.
func ValidateJSON(schema *FormSchema, raw []byte) (Result, error) {
	data, err := DecodeData(raw)
	if err != nil {
		return Result{}, err
	}
	return Validate(schema, data)
}

// Validate normalizes every field of schema from data and collects all errors.
// Keys of data that are not schema fields are dropped.
func Validate(schema *FormSchema, data map[string]any) (Result, error) {
	if schema == nil || len(schema.Items) == 0 {
		return Result{}, &SchemaError{Problems: []string{"schema has no fields"}}
	}

	res := Result{Errors: []string{}, Cleaned: make(map[string]any, len(schema.Items))}
	for i := range schema.Items {
		f := &schema.Items[i]
		value, problem := normalize(f, data[f.ID])
		res.Cleaned[f.ID] = value
		if problem != "" {
			res.Errors = append(res.Errors, problem)
			continue
		}
		if f.Required && isEmpty(value) {
			res.Errors = append(res.Errors, f.Label+" is required")
		}
	}
	return res, nil
}

// normalize dispatches on the field type. It returns the cleaned value and a
// non-empty message when the raw value is unacceptable.
func normalize(f *FieldDefinition, v any) (any, string) {
	switch f.Type {
	case FieldNumber:
		return normalizeNumber(f, v)
	case FieldDate:
		return normalizeDate(f, v)
	case FieldSelect:
		return normalizeSelect(f, v)
	case FieldMultiSelect:
		return normalizeMultiSelect(f, v)
	case FieldCheckbox:
		return normalizeCheckbox(f, v)
	case FieldFile:
		s, problem := normalizeString(f, v)
		if problem != "" || s == "" {
			return nil, problem
		}
		return s, ""
	default:
		return normalizeString(f, v)
	}
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case []string:
		return len(x) == 0
	}
	return false
}

func normalizeNumber(f *FieldDefinition, v any) (any, string) {
	if isBlank(v) {
		return nil, ""
	}
	var n float64
	switch x := v.(type) {
	case float64:
		n = x
	case float32:
		n = float64(x)
	case int:
		n = float64(x)
	case int64:
		n = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return nil, f.Label + " must be a number"
		}
		n = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return nil, f.Label + " must be a number"
		}
		n = parsed
	default:
		return nil, f.Label + " must be a number"
	}

	if math.IsNaN(n) || math.IsInf(n, 0) {
		return nil, f.Label + " must be a number"
	}
	if f.Min != nil && n < *f.Min {
		return nil, f.Label + " must be at least " + formatFloat(*f.Min)
	}
	if f.Max != nil && n > *f.Max {
		return nil, f.Label + " must be at most " + formatFloat(*f.Max)
	}
	return n, ""
}

func formatFloat(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func normalizeDate(f *FieldDefinition, v any) (any, string) {
	if isBlank(v) {
		return nil, ""
	}
	s, ok := v.(string)
	if !ok {
		return nil, f.Label + " must be a date (YYYY-MM-DD)"
	}
	s = strings.TrimSpace(s)
	if !datePattern.MatchString(s) {
		return nil, f.Label + " must be a date (YYYY-MM-DD)"
	}
	if _, err := time.Parse(time.DateOnly, s); err != nil {
		return nil, f.Label + " must be a date (YYYY-MM-DD)"
	}
	return s, ""
}

func normalizeSelect(f *FieldDefinition, v any) (any, string) {
	if isBlank(v) {
		return nil, ""
	}
	s, ok := v.(string)
	if !ok || !f.hasOption(s) {
		return nil, f.Label + " has an invalid option"
	}
	return s, ""
}

func normalizeMultiSelect(f *FieldDefinition, v any) (any, string) {
	if isBlank(v) {
		return []string{}, ""
	}

	var entries []any
	switch x := v.(type) {
	case []any:
		entries = x
	case []string:
		entries = make([]any, len(x))
		for i := range x {
			entries[i] = x[i]
		}
	default:
		return []string{}, f.Label + " must be a list"
	}

	out := make([]string, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		s, ok := e.(string)
		if !ok || !f.hasOption(s) {
			return []string{}, f.Label + " has an invalid option"
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out, ""
}

func normalizeCheckbox(f *FieldDefinition, v any) (any, string) {
	if isBlank(v) {
		return false, ""
	}
	switch x := v.(type) {
	case bool:
		return x, ""
	case string:
		switch strings.TrimSpace(x) {
		case "true", "1":
			return true, ""
		case "false", "0":
			return false, ""
		}
	}
	return false, f.Label + " must be true or false"
}

func normalizeString(f *FieldDefinition, v any) (string, string) {
	if v == nil {
		return "", ""
	}
	s, ok := v.(string)
	if !ok {
		return "", f.Label + " must be a string"
	}
	return strings.TrimSpace(s), ""
}
