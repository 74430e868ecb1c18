package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	stderrors "errors"

	"github.com/mcncl/jsonbee/internal/errors"
	"github.com/mcncl/jsonbee/internal/models"
	"gopkg.in/yaml.v3"
)

// ParseYAML parses a single YAML document into the structured value model.
// Integers and floats become json.Number; scalar mapping keys are used as
// their text.
func ParseYAML(data []byte) (models.IntermediateRepresentation, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))

	var doc yaml.Node
	if err := decoder.Decode(&doc); err != nil {
		if stderrors.Is(err, io.EOF) {
			return models.IntermediateRepresentation{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		return models.IntermediateRepresentation{}, errors.NewParsingError(fmt.Sprintf("YAML syntax error (%v)", err), errors.ErrInvalidYAML)
	}
	if doc.Kind == yaml.DocumentNode && len(doc.Content) == 0 {
		return models.IntermediateRepresentation{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
	}

	var extra yaml.Node
	if err := decoder.Decode(&extra); err == nil {
		return models.IntermediateRepresentation{}, errors.NewParsingError("multiple YAML documents found", errors.ErrMultipleJSON)
	} else if !stderrors.Is(err, io.EOF) {
		return models.IntermediateRepresentation{}, errors.NewParsingError(fmt.Sprintf("YAML syntax error after first document (%v)", err), errors.ErrInvalidYAML)
	}

	root, err := convertYAMLNode(&doc)
	if err != nil {
		return models.IntermediateRepresentation{}, errors.NewParsingError(err.Error(), errors.ErrInvalidYAML)
	}
	return newRepresentation(root, FormatYAML), nil
}

func convertYAMLNode(node *yaml.Node) (models.JSONValue, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return convertYAMLNode(node.Content[0])
	case yaml.AliasNode:
		return convertYAMLNode(node.Alias)
	case yaml.SequenceNode:
		arr := make(models.JSONArray, 0, len(node.Content))
		for _, item := range node.Content {
			value, err := convertYAMLNode(item)
			if err != nil {
				return nil, err
			}
			arr = append(arr, value)
		}
		return arr, nil
	case yaml.MappingNode:
		obj := make(models.JSONObject, len(node.Content)/2)
		explicit := make(map[string]bool, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode := node.Content[i]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", keyNode.Line)
			}
			value, err := convertYAMLNode(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			if keyNode.ShortTag() == "!!merge" {
				if err := mergeYAMLValue(obj, explicit, value, keyNode.Line); err != nil {
					return nil, err
				}
				continue
			}
			if explicit[keyNode.Value] {
				return nil, fmt.Errorf("line %d: duplicate key '%s'", keyNode.Line, keyNode.Value)
			}
			explicit[keyNode.Value] = true
			obj[keyNode.Value] = value
		}
		return obj, nil
	case yaml.ScalarNode:
		return convertYAMLScalar(node)
	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node", node.Line)
	}
}

// mergeYAMLValue applies a "<<" merge key. Keys written in the mapping
// itself win, and among several merged mappings the first one wins.
func mergeYAMLValue(obj models.JSONObject, explicit map[string]bool, value models.JSONValue, line int) error {
	var sources []models.JSONObject
	switch v := value.(type) {
	case models.JSONObject:
		sources = append(sources, v)
	case models.JSONArray:
		for _, item := range v {
			source, ok := item.(models.JSONObject)
			if !ok {
				return fmt.Errorf("line %d: merge key sequence must contain only mappings", line)
			}
			sources = append(sources, source)
		}
	default:
		return fmt.Errorf("line %d: merge key value must be a mapping or a sequence of mappings", line)
	}

	for _, source := range sources {
		for key, v := range source {
			if explicit[key] {
				continue
			}
			if _, merged := obj[key]; merged {
				continue
			}
			obj[key] = v
		}
	}
	return nil
}

func convertYAMLScalar(node *yaml.Node) (models.JSONValue, error) {
	switch node.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return b, nil
	case "!!int":
		var i int64
		if err := node.Decode(&i); err != nil {
			// Out of int64 range; keep the literal so the encoder can report it.
			return json.Number(node.Value), nil
		}
		return json.Number(strconv.FormatInt(i, 10)), nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, fmt.Errorf("line %d: non-finite number %s", node.Line, node.Value)
		}
		// Keep floats recognisable as floats even when they are integral.
		text := strconv.FormatFloat(f, 'g', -1, 64)
		if !strings.ContainsAny(text, ".e") {
			text += ".0"
		}
		return json.Number(text), nil
	default:
		return node.Value, nil
	}
}
