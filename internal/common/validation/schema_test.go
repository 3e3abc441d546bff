package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const personSchema = `{
	"type": "object",
	"required": ["name"],
	"properties": {
		"name": {"type": "string", "minLength": 1},
		"age": {"type": "integer", "minimum": 0}
	}
}`

func TestSchema_ValidateBytes(t *testing.T) {
	s := MustCompile(personSchema)

	tests := []struct {
		name      string
		doc       string
		wantValid bool
		wantField string
	}{
		{name: "valid", doc: `{"name":"ann","age":3}`, wantValid: true},
		{name: "missing required", doc: `{"age":3}`, wantField: "(root)"},
		{name: "wrong type", doc: `{"name":"ann","age":"three"}`, wantField: "age"},
		{name: "below minimum", doc: `{"name":"ann","age":-1}`, wantField: "age"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.ValidateBytes([]byte(tt.doc))
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, res.Valid)
			if tt.wantValid {
				assert.NoError(t, res.Err())
				return
			}
			require.NotEmpty(t, res.Errors)
			assert.Equal(t, tt.wantField, res.Errors[0].Field)
			assert.Error(t, res.Err())
		})
	}
}

func TestSchema_ValidateBytes_NotJSON(t *testing.T) {
	_, err := MustCompile(personSchema).ValidateBytes([]byte("<html>"))
	assert.Error(t, err)
}

func TestSchema_ValidateValue(t *testing.T) {
	res, err := MustCompile(personSchema).ValidateValue(map[string]interface{}{"name": ""})
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, "name", res.Errors[0].Field)
}

func TestCompile_Invalid(t *testing.T) {
	_, err := Compile(`{"type": 12}`)
	assert.Error(t, err)
	assert.Panics(t, func() { MustCompile(`not json`) })
}
