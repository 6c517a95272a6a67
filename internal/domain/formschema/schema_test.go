package formschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const expenseSchema = `{
	"instructions": "Attach the receipt.",
	"version": 2,
	"items": [
		{"id": "title", "label": "Title", "type": "text", "required": true},
		{"id": "amount", "label": "Amount", "type": "number", "required": true, "min": 0, "max": 100000},
		{"id": "spent_on", "label": "Spent on", "type": "date"},
		{"id": "category", "label": "Category", "type": "select",
			"options": [{"label": "Travel", "value": "travel"}, {"label": "Meals", "value": "meals"}]},
		{"id": "tags", "label": "Tags", "type": "multiSelect",
			"options": [{"label": "A", "value": "a"}, {"label": "B", "value": "b"}]},
		{"id": "receipt", "label": "Receipt", "type": "file"},
		{"id": "urgent", "label": "Urgent", "type": "checkbox"},
		{"id": "note", "label": "Note", "type": "textarea"}
	]
}`

func TestParse_Valid(t *testing.T) {
	s, err := Parse([]byte(expenseSchema))
	require.NoError(t, err)

	assert.Len(t, s.Items, 8)
	assert.Equal(t, "Attach the receipt.", s.Instructions)
	assert.Equal(t, "2", s.Version)

	amount, ok := s.Field("amount")
	require.True(t, ok)
	assert.Equal(t, FieldNumber, amount.Type)
	require.NotNil(t, amount.Min)
	assert.Equal(t, 0.0, *amount.Min)
}

func TestParse_Failures(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		problem string
	}{
		{"not an object", `[1,2]`, "schema must be a JSON object"},
		{"missing items", `{}`, "items is required"},
		{"items not array", `{"items": {"id": "a"}}`, "items must be an array"},
		{"empty items", `{"items": []}`, "items must contain at least one field"},
		{"bad id", `{"items": [{"id": "a b", "label": "A", "type": "text"}]}`, `items[0].id "a b" may only contain letters, digits, '_' and '-'`},
		{"duplicate id", `{"items": [{"id": "a", "label": "A", "type": "text"}, {"id": "a", "label": "B", "type": "text"}]}`, `items[1].id "a" is duplicated`},
		{"missing label", `{"items": [{"id": "a", "type": "text"}]}`, "items[0].label is required"},
		{"unknown type", `{"items": [{"id": "a", "label": "A", "type": "color"}]}`, `items[0].type "color" is not supported`},
		{"select without options", `{"items": [{"id": "a", "label": "A", "type": "select"}]}`, "items[0].options must not be empty for select fields"},
		{"blank option", `{"items": [{"id": "a", "label": "A", "type": "multiSelect", "options": [{"label": "", "value": "x"}]}]}`, "items[0].options[0] needs a label and a value"},
		{"min above max", `{"items": [{"id": "a", "label": "A", "type": "number", "min": 5, "max": 1}]}`, "items[0].min must not exceed max"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.raw))
			var schemaErr *SchemaError
			require.ErrorAs(t, err, &schemaErr)
			assert.Contains(t, schemaErr.Problems, tc.problem)
		})
	}
}

func TestParse_CollectsAllProblems(t *testing.T) {
	raw := `{"items": [
		{"id": "", "label": "", "type": "text"},
		{"id": "ok", "label": "Fine", "type": "nope"}
	]}`
	_, err := Parse([]byte(raw))

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Len(t, schemaErr.Problems, 3)
}

func TestSchemaJSONRoundTrip(t *testing.T) {
	s, err := Parse([]byte(expenseSchema))
	require.NoError(t, err)

	canonical, err := s.JSON()
	require.NoError(t, err)

	again, err := Parse(canonical)
	require.NoError(t, err)
	assert.Equal(t, s, again)
}
