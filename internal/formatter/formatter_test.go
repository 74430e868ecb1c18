package formatter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mcncl/jsonbee/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat_Compact(t *testing.T) {
	value := models.JSONObject{
		"name": "John",
		"age":  json.Number("30"),
	}

	formatted, err := NewFormatter().Format(value)
	require.NoError(t, err)
	assert.Equal(t, `{"age":30,"name":"John"}`, formatted)
}

func TestFormat_Pretty(t *testing.T) {
	value := models.JSONObject{
		"spam": models.JSONArray{json.Number("42")},
		"cow":  models.JSONObject{"food": "milk"},
	}

	f := NewFormatter()
	f.Pretty = true
	formatted, err := f.Format(value)
	require.NoError(t, err)

	expected := `{
  "cow": {
    "food": "milk"
  },
  "spam": [
    42
  ]
}`
	assert.Equal(t, expected, formatted)
}

func TestFormat_PrettyCustomIndent(t *testing.T) {
	f := &Formatter{Pretty: true, Indent: 4}
	formatted, err := f.Format(models.JSONArray{"a"})
	require.NoError(t, err)
	assert.Equal(t, "[\n    \"a\"\n]", formatted)
}

func TestFormat_EdgeValues(t *testing.T) {
	tests := []struct {
		name     string
		value    models.JSONValue
		expected string
	}{
		{"empty list", models.JSONArray{}, `[]`},
		{"empty dict", models.JSONObject{}, `{}`},
		{"html not escaped", "<a&b>", `"<a&b>"`},
		{"unicode kept", "日本", `"日本"`},
		{"control characters escaped", "a\nb", `"a\nb"`},
		{"negative number", json.Number("-42"), `-42`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatted, err := NewFormatter().Format(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, formatted)
		})
	}
}

func TestFormat_Colored(t *testing.T) {
	f := &Formatter{Pretty: true, Indent: 2, Color: true}
	formatted, err := f.Format(models.JSONObject{"name": "John"})
	require.NoError(t, err)

	assert.Contains(t, formatted, "\x1b[")
	assert.Contains(t, formatted, "name")
	assert.Contains(t, formatted, "John")
}

func TestUseColor(t *testing.T) {
	file, err := os.Create(filepath.Join(t.TempDir(), "out.json"))
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	assert.True(t, UseColor("always", file))
	assert.False(t, UseColor("never", file))
	assert.False(t, UseColor("auto", file))
	assert.False(t, UseColor("auto", nil))
	assert.False(t, IsTerminal(file))
}

func TestStdout(t *testing.T) {
	assert.Equal(t, os.Stdout, Stdout(false))
	assert.NotNil(t, Stdout(true))
}
