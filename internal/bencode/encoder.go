package bencode

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mcncl/jsonbee/internal/models"
)

// Encoder serializes structured values into bencode.
// Dictionary keys are always written in byte-lexicographic order.
type Encoder struct {
	opts  Options
	buf   strings.Builder
	depth int
}

// NewEncoder creates an Encoder with the given options.
func NewEncoder(opts Options) *Encoder {
	return &Encoder{opts: opts}
}

// EncodeToString returns the bencode form of value.
func (e *Encoder) EncodeToString(value models.JSONValue) (string, error) {
	e.buf.Reset()
	e.depth = 0
	if err := e.encodeValue(value, ""); err != nil {
		return "", err
	}
	return e.buf.String(), nil
}

// EncodeString returns the bencode form of value.
func EncodeString(value models.JSONValue, opts Options) (string, error) {
	return NewEncoder(opts).EncodeToString(value)
}

// Encode writes the bencode form of value to w. Nothing is written when
// value cannot be encoded.
func Encode(w io.Writer, value models.JSONValue, opts Options) error {
	s, err := EncodeString(value, opts)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, s)
	return err
}

func (e *Encoder) encodeValue(value models.JSONValue, path string) error {
	switch kind := models.KindOf(value); kind {
	case models.KindNumber:
		return e.encodeNumber(value.(json.Number), path)
	case models.KindString:
		e.writeString(value.(string))
		return nil
	case models.KindArray:
		return e.encodeList(value.(models.JSONArray), path)
	case models.KindObject:
		return e.encodeDict(value.(models.JSONObject), path)
	case models.KindBool:
		if e.opts.Booleans == BoolsAsInt {
			if value.(bool) {
				e.buf.WriteString("i1e")
			} else {
				e.buf.WriteString("i0e")
			}
			return nil
		}
		return unsupported(path, "boolean")
	case models.KindNull:
		return unsupported(path, "null")
	default:
		return unsupported(path, fmt.Sprintf("Go type %T", value))
	}
}

func (e *Encoder) encodeNumber(n json.Number, path string) error {
	i, err := strconv.ParseInt(string(n), 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return &Error{Kind: InvalidInteger, Offset: -1, Path: path, Detail: fmt.Sprintf("%s is outside the 64-bit range", n)}
		}
		return unsupported(path, fmt.Sprintf("non-integer number %s", n))
	}
	e.buf.WriteByte('i')
	e.buf.WriteString(strconv.FormatInt(i, 10))
	e.buf.WriteByte('e')
	return nil
}

func (e *Encoder) writeString(s string) {
	length := len(s)
	if e.opts.LengthUnit == LengthChars {
		length = utf8.RuneCountInString(s)
	}
	e.buf.WriteString(strconv.Itoa(length))
	e.buf.WriteByte(':')
	e.buf.WriteString(s)
}

func (e *Encoder) encodeList(list models.JSONArray, path string) error {
	if err := e.enter(path); err != nil {
		return err
	}
	defer e.leave()

	e.buf.WriteByte('l')
	for i, item := range list {
		if err := e.encodeValue(item, path+"/"+strconv.Itoa(i)); err != nil {
			return err
		}
	}
	e.buf.WriteByte('e')
	return nil
}

func (e *Encoder) encodeDict(dict models.JSONObject, path string) error {
	if err := e.enter(path); err != nil {
		return err
	}
	defer e.leave()

	keys := make([]string, 0, len(dict))
	for key := range dict {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	e.buf.WriteByte('d')
	for _, key := range keys {
		e.writeString(key)
		if err := e.encodeValue(dict[key], path+"/"+escapePointer(key)); err != nil {
			return err
		}
	}
	e.buf.WriteByte('e')
	return nil
}

func (e *Encoder) enter(path string) error {
	e.depth++
	if e.depth > e.opts.maxDepth() {
		return &Error{Kind: DepthExceeded, Offset: -1, Path: path, Detail: fmt.Sprintf("limit is %d", e.opts.maxDepth())}
	}
	return nil
}

func (e *Encoder) leave() {
	e.depth--
}

func unsupported(path, what string) *Error {
	return &Error{Kind: UnsupportedValue, Offset: -1, Path: path, Detail: what}
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// escapePointer escapes a key for use as a JSON Pointer reference token.
func escapePointer(key string) string {
	return pointerEscaper.Replace(key)
}
