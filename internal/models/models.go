package models

import "encoding/json"

// JSONValue is a generic type to represent any structured value.
// It holds one of nil, bool, json.Number, string, JSONArray or JSONObject.
type JSONValue interface{}

// JSONObject represents a JSON object, which is a map of strings to JSONValues.
type JSONObject map[string]JSONValue

// JSONArray represents a JSON array, which is a slice of JSONValues.
type JSONArray []JSONValue

// Kind identifies which variant of the structured value a JSONValue holds.
type Kind int

const (
	KindInvalid Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

var kindNames = map[Kind]string{
	KindInvalid: "invalid",
	KindNull:    "null",
	KindBool:    "boolean",
	KindNumber:  "number",
	KindString:  "string",
	KindArray:   "array",
	KindObject:  "object",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "invalid"
}

// KindOf classifies v. Values that are not part of the model report KindInvalid.
func KindOf(v JSONValue) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case json.Number:
		return KindNumber
	case string:
		return KindString
	case JSONArray:
		return KindArray
	case JSONObject:
		return KindObject
	default:
		return KindInvalid
	}
}

// IntermediateRepresentation holds a parsed structured-data document
// together with what the parser learned about it.
type IntermediateRepresentation struct {
	Root   JSONValue
	Format string // Input format that produced Root ("json", "jsonc", "yaml")
}
