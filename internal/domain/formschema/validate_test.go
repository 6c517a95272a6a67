package formschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) *FormSchema {
	t.Helper()
	s, err := Parse([]byte(raw))
	require.NoError(t, err)
	return s
}

func TestValidate_RoundTrip(t *testing.T) {
	s := mustParse(t, expenseSchema)

	res, err := ValidateJSON(s, []byte(`{
		"title": "  Flight to Osaka ",
		"amount": "1200.5",
		"spent_on": "2024-03-01",
		"category": "travel",
		"tags": ["b", "a", "b"],
		"receipt": "attachments/5f1c.pdf",
		"urgent": "1",
		"note": "",
		"unknown": "dropped"
	}`))
	require.NoError(t, err)

	assert.Empty(t, res.Errors)
	assert.True(t, res.OK())
	assert.Equal(t, map[string]any{
		"title":    "Flight to Osaka",
		"amount":   1200.5,
		"spent_on": "2024-03-01",
		"category": "travel",
		"tags":     []string{"b", "a"},
		"receipt":  "attachments/5f1c.pdf",
		"urgent":   true,
		"note":     "",
	}, res.Cleaned)
}

func TestValidate_EmptyValues(t *testing.T) {
	s := mustParse(t, `{"items": [
		{"id": "n", "label": "N", "type": "number"},
		{"id": "d", "label": "D", "type": "date"},
		{"id": "s", "label": "S", "type": "select", "options": [{"label": "x", "value": "x"}]},
		{"id": "m", "label": "M", "type": "multiSelect", "options": [{"label": "x", "value": "x"}]},
		{"id": "c", "label": "C", "type": "checkbox"},
		{"id": "f", "label": "F", "type": "file"},
		{"id": "t", "label": "T", "type": "text"}
	]}`)

	res, err := Validate(s, map[string]any{"n": "", "d": " ", "f": "   "})
	require.NoError(t, err)
	assert.Empty(t, res.Errors)
	assert.Nil(t, res.Cleaned["n"])
	assert.Nil(t, res.Cleaned["d"])
	assert.Nil(t, res.Cleaned["s"])
	assert.Equal(t, []string{}, res.Cleaned["m"])
	assert.Equal(t, false, res.Cleaned["c"])
	assert.Nil(t, res.Cleaned["f"])
	assert.Equal(t, "", res.Cleaned["t"])
}

func TestValidate_BelowMinProducesSingleError(t *testing.T) {
	s := mustParse(t, `{"items": [{"id": "amount", "label": "Amount", "type": "number", "required": true, "min": 0}]}`)

	res, err := Validate(s, map[string]any{"amount": -5.0})
	require.NoError(t, err)
	assert.Equal(t, []string{"Amount must be at least 0"}, res.Errors)
}

func TestValidate_NumberRules(t *testing.T) {
	s := mustParse(t, `{"items": [{"id": "q", "label": "Qty", "type": "number", "min": 1, "max": 10}]}`)

	cases := map[string]struct {
		value any
		want  []string
		clean any
	}{
		"upper bound inclusive": {value: 10.0, want: []string{}, clean: 10.0},
		"lower bound inclusive": {value: "1", want: []string{}, clean: 1.0},
		"above max":             {value: 11.0, want: []string{"Qty must be at most 10"}},
		"not numeric":           {value: "ten", want: []string{"Qty must be a number"}},
		"infinity":              {value: "Inf", want: []string{"Qty must be a number"}},
		"wrong type":            {value: true, want: []string{"Qty must be a number"}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			res, err := Validate(s, map[string]any{"q": tc.value})
			require.NoError(t, err)
			assert.Equal(t, tc.want, res.Errors)
			if len(tc.want) == 0 {
				assert.Equal(t, tc.clean, res.Cleaned["q"])
			}
		})
	}
}

func TestValidate_TypeErrors(t *testing.T) {
	s := mustParse(t, expenseSchema)

	res, err := Validate(s, map[string]any{
		"title":    42.0,
		"amount":   "12",
		"spent_on": "01/03/2024",
		"category": "rent",
		"tags":     "a",
		"urgent":   "yes",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Title must be a string",
		"Spent on must be a date (YYYY-MM-DD)",
		"Category has an invalid option",
		"Tags must be a list",
		"Urgent must be true or false",
	}, res.Errors)
}

func TestValidate_RequiredCollectsEveryField(t *testing.T) {
	s := mustParse(t, `{"items": [
		{"id": "a", "label": "A", "type": "text", "required": true},
		{"id": "b", "label": "B", "type": "multiSelect", "required": true, "options": [{"label": "x", "value": "x"}]},
		{"id": "c", "label": "C", "type": "file", "required": true},
		{"id": "d", "label": "D", "type": "checkbox", "required": true}
	]}`)

	res, err := Validate(s, map[string]any{"a": "  ", "b": []any{}})
	require.NoError(t, err)
	assert.Equal(t, []string{"A is required", "B is required", "C is required"}, res.Errors)
}

func TestValidate_InvalidCalendarDate(t *testing.T) {
	s := mustParse(t, `{"items": [{"id": "d", "label": "Due", "type": "date"}]}`)

	res, err := Validate(s, map[string]any{"d": "2024-02-30"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Due must be a date (YYYY-MM-DD)"}, res.Errors)
}

func TestValidate_MultiSelectRejectsUnknownEntry(t *testing.T) {
	s := mustParse(t, `{"items": [{"id": "m", "label": "M", "type": "multiSelect", "options": [{"label": "x", "value": "x"}]}]}`)

	res, err := Validate(s, map[string]any{"m": []any{"x", 3.0}})
	require.NoError(t, err)
	assert.Equal(t, []string{"M has an invalid option"}, res.Errors)
}

func TestValidateJSON_StructuralErrors(t *testing.T) {
	s := mustParse(t, expenseSchema)

	for _, raw := range []string{`[]`, `"text"`, `{"title":`} {
		_, err := ValidateJSON(s, []byte(raw))
		var schemaErr *SchemaError
		assert.ErrorAs(t, err, &schemaErr, raw)
	}

	res, err := ValidateJSON(s, []byte(`null`))
	require.NoError(t, err)
	assert.Contains(t, res.Errors, "Title is required")
}

func TestValidate_NilSchema(t *testing.T) {
	_, err := Validate(nil, map[string]any{})
	var schemaErr *SchemaError
	assert.ErrorAs(t, err, &schemaErr)
}
