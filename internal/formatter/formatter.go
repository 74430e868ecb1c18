package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
	"github.com/mcncl/jsonbee/internal/models"
)

// Formatter renders decoded values as JSON text
type Formatter struct {
	Pretty bool
	Indent int
	Color  bool
}

// NewFormatter creates a Formatter producing compact, uncoloured JSON
func NewFormatter() *Formatter {
	return &Formatter{Indent: 2}
}

// Format returns value as JSON. Object keys come out sorted, which keeps
// the output deterministic.
func (f *Formatter) Format(value models.JSONValue) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if f.Pretty && !f.Color {
		enc.SetIndent("", strings.Repeat(" ", f.Indent))
	}
	if err := enc.Encode(value); err != nil {
		return "", fmt.Errorf("failed to render JSON: %w", err)
	}
	data := bytes.TrimRight(buf.Bytes(), "\n")

	if !f.Color {
		return string(data), nil
	}
	return f.colorize(data)
}

// colorize highlights JSON for terminal display
func (f *Formatter) colorize(data []byte) (string, error) {
	pf := prettyjson.NewFormatter()
	// fatih/color turns itself off when stdout is not a terminal; the caller
	// has already decided colour is wanted.
	for _, c := range []*color.Color{pf.KeyColor, pf.StringColor, pf.BoolColor, pf.NumberColor, pf.NullColor} {
		c.EnableColor()
	}
	if f.Pretty {
		pf.Indent = f.Indent
	} else {
		pf.Indent = 0
		pf.Newline = ""
	}

	colored, err := pf.Format(data)
	if err != nil {
		return "", fmt.Errorf("failed to colorize JSON: %w", err)
	}
	return string(colored), nil
}
