package parser

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	stderrors "errors"

	"github.com/mcncl/jsonbee/internal/errors"
	"github.com/mcncl/jsonbee/internal/models"
)

func TestParse_SimpleObject(t *testing.T) {
	jsonStr := `{"name": "John", "age": 30, "active": false, "city": null}`
	ir, err := Parse(strings.NewReader(jsonStr))
	if err != nil {
		t.Fatalf("Parse() error = %v, wantErr nil", err)
	}

	if kind := models.KindOf(ir.Root); kind != models.KindObject {
		t.Errorf("Parse() root kind = %s, want object", kind)
	}
	if ir.Format != "json" {
		t.Errorf("Parse() ir.Format = %q, want json", ir.Format)
	}

	expectedRoot := models.JSONObject{
		"name":   "John",
		"age":    json.Number("30"),
		"active": false,
		"city":   nil,
	}
	if !reflect.DeepEqual(ir.Root, expectedRoot) {
		t.Errorf("Parse() root = %v, want %v", ir.Root, expectedRoot)
	}
}

func TestParse_NestedArray(t *testing.T) {
	jsonStr := `[42, -42, "spam", {"cow": {"food": "milk"}}, []]`
	ir, err := Parse(strings.NewReader(jsonStr))
	if err != nil {
		t.Fatalf("Parse() error = %v, wantErr nil", err)
	}

	if kind := models.KindOf(ir.Root); kind != models.KindArray {
		t.Errorf("Parse() root kind = %s, want array", kind)
	}

	expectedRoot := models.JSONArray{
		json.Number("42"),
		json.Number("-42"),
		"spam",
		models.JSONObject{"cow": models.JSONObject{"food": "milk"}},
		models.JSONArray{},
	}
	if !reflect.DeepEqual(ir.Root, expectedRoot) {
		t.Errorf("Parse() root = %#v, want %#v", ir.Root, expectedRoot)
	}
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		name     string
		jsonStr  string
		sentinel error
		contains string
	}{
		{"empty", "", errors.ErrEmptyInput, "input is empty"},
		{"missing brace", `{"name": "John", "age": 30`, errors.ErrInvalidJSON, "unexpected end of JSON input"},
		{"bad literal", `{"invalid": json}`, errors.ErrInvalidJSON, "JSON syntax error at offset"},
		{"two documents", `{"a": 1} {"b": 2}`, errors.ErrMultipleJSON, "multiple JSON values"},
		{"trailing garbage", `{"a": 1} }`, errors.ErrInvalidJSON, "invalid trailing data"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.jsonStr))
			if err == nil {
				t.Fatalf("Parse() err = nil, want error")
			}
			if !stderrors.Is(err, tc.sentinel) {
				t.Errorf("Parse() err = %v, want %v", err, tc.sentinel)
			}
			if !stderrors.Is(err, &errors.AppError{Type: errors.ErrorTypeParsing}) {
				t.Errorf("Parse() err = %v, want a parsing error", err)
			}
			if !strings.Contains(err.Error(), tc.contains) {
				t.Errorf("Parse() err = %v, want error containing %q", err, tc.contains)
			}
		})
	}
}

func TestParseBytes_EmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t"} {
		_, err := ParseBytes([]byte(input), FormatAuto)
		if err == nil {
			t.Fatalf("ParseBytes(%q) err = nil, want error", input)
		}
		if !stderrors.Is(err, errors.ErrEmptyInput) {
			t.Errorf("ParseBytes(%q) err = %v, want ErrEmptyInput", input, err)
		}
	}
}

func TestParse_RootPrimitives(t *testing.T) {
	testCases := []struct {
		name        string
		jsonStr     string
		expectedVal interface{}
	}{
		{"RootString", `"hello world"`, "hello world"},
		{"RootNumber", `123.45`, json.Number("123.45")},
		{"RootBooleanTrue", `true`, true},
		{"RootNull", `null`, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ir, err := Parse(strings.NewReader(tc.jsonStr))
			if err != nil {
				t.Fatalf("Parse() error = %v, wantErr nil for %s", err, tc.name)
			}
			if kind := models.KindOf(ir.Root); kind == models.KindArray || kind == models.KindObject {
				t.Errorf("Parse() root kind = %s for %s, want a primitive", kind, tc.name)
			}
			if !reflect.DeepEqual(ir.Root, tc.expectedVal) {
				t.Errorf("Parse() root = %#v (type %T), want %#v (type %T)", ir.Root, ir.Root, tc.expectedVal, tc.expectedVal)
			}
		})
	}
}

func TestParseJSONC(t *testing.T) {
	data := []byte(`{
		// tracker settings
		"announce": "http://tracker.example/announce",
		"info": {
			"length": 1024, /* bytes */
			"name": "file.txt",
		},
	}`)

	ir, err := ParseJSONC(data)
	if err != nil {
		t.Fatalf("ParseJSONC() error = %v", err)
	}
	if ir.Format != "jsonc" {
		t.Errorf("ParseJSONC() ir.Format = %q, want jsonc", ir.Format)
	}

	expectedRoot := models.JSONObject{
		"announce": "http://tracker.example/announce",
		"info": models.JSONObject{
			"length": json.Number("1024"),
			"name":   "file.txt",
		},
	}
	if !reflect.DeepEqual(ir.Root, expectedRoot) {
		t.Errorf("ParseJSONC() root = %#v, want %#v", ir.Root, expectedRoot)
	}
}

func TestParseBytes_Formats(t *testing.T) {
	testCases := []struct {
		name           string
		data           string
		format         Format
		expectedRoot   models.JSONValue
		expectedFormat string
	}{
		{"json", `{"a": 1}`, FormatJSON, models.JSONObject{"a": json.Number("1")}, "json"},
		{"auto plain json", `[1, "x"]`, FormatAuto, models.JSONArray{json.Number("1"), "x"}, "json"},
		{"auto falls back to jsonc", "[1, 2, // two\n]", FormatAuto, models.JSONArray{json.Number("1"), json.Number("2")}, "jsonc"},
		{"empty format means auto", `"s"`, "", "s", "json"},
		{"yaml", "a: 1\nb: [x, y]\n", FormatYAML, models.JSONObject{"a": json.Number("1"), "b": models.JSONArray{"x", "y"}}, "yaml"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ir, err := ParseBytes([]byte(tc.data), tc.format)
			if err != nil {
				t.Fatalf("ParseBytes() error = %v", err)
			}
			if ir.Format != tc.expectedFormat {
				t.Errorf("ParseBytes() format = %q, want %q", ir.Format, tc.expectedFormat)
			}
			if !reflect.DeepEqual(ir.Root, tc.expectedRoot) {
				t.Errorf("ParseBytes() root = %#v, want %#v", ir.Root, tc.expectedRoot)
			}
		})
	}
}

func TestParseBytes_Errors(t *testing.T) {
	if _, err := ParseBytes([]byte("  \n"), FormatAuto); !stderrors.Is(err, errors.ErrEmptyInput) {
		t.Errorf("ParseBytes() whitespace err = %v, want ErrEmptyInput", err)
	}

	// Neither JSON nor JSONC: the JSON error is reported.
	_, err := ParseBytes([]byte(`{"a": }`), FormatAuto)
	if !stderrors.Is(err, errors.ErrInvalidJSON) {
		t.Errorf("ParseBytes() err = %v, want ErrInvalidJSON", err)
	}

	_, err = ParseBytes([]byte(`{}`), Format("toml"))
	if err == nil || !strings.Contains(err.Error(), "unknown input format 'toml'") {
		t.Errorf("ParseBytes() err = %v, want unknown input format", err)
	}
}

func TestFormatForPath(t *testing.T) {
	testCases := []struct {
		path     string
		format   Format
		expected Format
	}{
		{"torrent.yaml", FormatAuto, FormatYAML},
		{"torrent.YML", "", FormatYAML},
		{"torrent.jsonc", FormatAuto, FormatJSONC},
		{"torrent.json", FormatAuto, FormatAuto},
		{"torrent.yaml", FormatJSON, FormatJSON},
	}

	for _, tc := range testCases {
		if got := FormatForPath(tc.path, tc.format); got != tc.expected {
			t.Errorf("FormatForPath(%q, %q) = %q, want %q", tc.path, tc.format, got, tc.expected)
		}
	}
}

func TestParseFile_SimpleObject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simple.json")
	if err := os.WriteFile(path, []byte(`{"name": "John", "age": 30}`), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}

	ir, err := ParseFile(path, FormatAuto)
	if err != nil {
		t.Fatalf("ParseFile() error = %v, wantErr nil", err)
	}

	expectedRoot := models.JSONObject{"name": "John", "age": json.Number("30")}
	if !reflect.DeepEqual(ir.Root, expectedRoot) {
		t.Errorf("ParseFile() root = %v, want %v", ir.Root, expectedRoot)
	}
}

func TestParseFile_YAMLByExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meta.yaml")
	if err := os.WriteFile(path, []byte("name: John\nage: 30\n"), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}

	ir, err := ParseFile(path, FormatAuto)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if ir.Format != "yaml" {
		t.Errorf("ParseFile() format = %q, want yaml", ir.Format)
	}
}

func TestParseFile_Errors(t *testing.T) {
	_, err := ParseFile("nonexistentfile.json", FormatAuto)
	if !stderrors.Is(err, errors.ErrFileNotFound) {
		t.Errorf("ParseFile() with non-existent file, err = %v, want ErrFileNotFound", err)
	}

	_, err = ParseFile("", FormatAuto)
	if !stderrors.Is(err, errors.ErrInvalidFilePath) {
		t.Errorf("ParseFile() with empty path, err = %v, want ErrInvalidFilePath", err)
	}

	empty := filepath.Join(t.TempDir(), "empty.json")
	if err := os.WriteFile(empty, nil, 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	_, err = ParseFile(empty, FormatAuto)
	if !stderrors.Is(err, errors.ErrFileEmpty) {
		t.Errorf("ParseFile() with empty file, err = %v, want ErrFileEmpty", err)
	}
}
