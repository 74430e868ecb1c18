package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	stderrors "errors" // Standard errors package

	"github.com/mcncl/jsonbee/internal/errors" // Custom errors package
	"github.com/mcncl/jsonbee/internal/models"
	"github.com/tidwall/jsonc"
)

// Format names a structured-data input format.
type Format string

const (
	FormatAuto  Format = "auto"
	FormatJSON  Format = "json"
	FormatJSONC Format = "jsonc"
	FormatYAML  Format = "yaml"
)

// Parse converts JSON data from an io.Reader into an IntermediateRepresentation
func Parse(reader io.Reader) (models.IntermediateRepresentation, error) {
	decoder := json.NewDecoder(reader)
	decoder.UseNumber() // Ensure numbers are read as json.Number

	var rootValue models.JSONValue
	if err := decoder.Decode(&rootValue); err != nil {
		if stderrors.Is(err, io.EOF) {
			return models.IntermediateRepresentation{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		var syntaxError *json.SyntaxError
		if stderrors.As(err, &syntaxError) {
			return models.IntermediateRepresentation{}, errors.NewParsingError(
				fmt.Sprintf("JSON syntax error at offset %d (%v)", syntaxError.Offset, syntaxError),
				errors.ErrInvalidJSON,
			)
		}
		if stderrors.Is(err, io.ErrUnexpectedEOF) {
			return models.IntermediateRepresentation{}, errors.NewParsingError("unexpected end of JSON input", errors.ErrInvalidJSON)
		}
		return models.IntermediateRepresentation{}, errors.NewParsingError("failed to decode JSON", err)
	}

	// Only whitespace may follow the first value. More() cannot be used here
	// since it reports false for a stray '}' or ']'.
	var trailingValue interface{}
	if err := decoder.Decode(&trailingValue); err == nil {
		return models.IntermediateRepresentation{}, errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleJSON)
	} else if !stderrors.Is(err, io.EOF) {
		return models.IntermediateRepresentation{}, errors.NewParsingError("invalid trailing data after first JSON value", errors.ErrInvalidJSON)
	}

	return newRepresentation(normalizeJSONValue(rootValue), FormatJSON), nil
}

// normalizeJSONValue converts raw JSON types into our model types
func normalizeJSONValue(val models.JSONValue) models.JSONValue {
	switch v := val.(type) {
	case map[string]interface{}:
		obj := make(models.JSONObject, len(v))
		for key, value := range v {
			obj[key] = normalizeJSONValue(value)
		}
		return obj
	case []interface{}:
		arr := make(models.JSONArray, len(v))
		for i, value := range v {
			arr[i] = normalizeJSONValue(value)
		}
		return arr
	default:
		return v // Primitives (string, json.Number, bool, nil) are returned as is
	}
}

func newRepresentation(root models.JSONValue, format Format) models.IntermediateRepresentation {
	return models.IntermediateRepresentation{
		Root:   root,
		Format: string(format),
	}
}

// ParseJSONC parses JSON that may contain comments and trailing commas
func ParseJSONC(data []byte) (models.IntermediateRepresentation, error) {
	ir, err := Parse(bytes.NewReader(jsonc.ToJSON(data)))
	if err != nil {
		return ir, err
	}
	ir.Format = string(FormatJSONC)
	return ir, nil
}

// ParseBytes parses data in the given format. FormatAuto reads JSON and
// retries as JSONC when plain JSON is rejected.
func ParseBytes(data []byte, format Format) (models.IntermediateRepresentation, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return models.IntermediateRepresentation{}, errors.NewInputError("input is empty", errors.ErrEmptyInput)
	}

	switch format {
	case FormatJSON:
		return Parse(bytes.NewReader(data))
	case FormatJSONC:
		return ParseJSONC(data)
	case FormatYAML:
		return ParseYAML(data)
	case FormatAuto, "":
		ir, err := Parse(bytes.NewReader(data))
		if err == nil || !stderrors.Is(err, errors.ErrInvalidJSON) {
			return ir, err
		}
		if relaxed, relaxedErr := ParseJSONC(data); relaxedErr == nil {
			return relaxed, nil
		}
		return ir, err
	default:
		return models.IntermediateRepresentation{}, errors.NewInputError(fmt.Sprintf("unknown input format '%s'", format), nil)
	}
}

// FormatForPath resolves FormatAuto from a file extension.
func FormatForPath(path string, format Format) Format {
	if format != FormatAuto && format != "" {
		return format
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return FormatYAML
	case ".jsonc":
		return FormatJSONC
	default:
		return FormatAuto
	}
}

// ParseFile parses a structured-data document from a file path
func ParseFile(filePath string, format Format) (models.IntermediateRepresentation, error) {
	if strings.TrimSpace(filePath) == "" {
		return models.IntermediateRepresentation{}, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return models.IntermediateRepresentation{}, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return models.IntermediateRepresentation{}, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	if len(data) == 0 {
		return models.IntermediateRepresentation{}, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	return ParseBytes(data, FormatForPath(filePath, format))
}
