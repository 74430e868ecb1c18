package bencode

import (
	"encoding/json"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/mcncl/jsonbee/internal/models"
)

// Decoder parses bencode values from an in-memory input.
type Decoder struct {
	opts  Options
	cur   *Cursor
	depth int
}

// NewDecoder creates a Decoder reading from input.
func NewDecoder(input string, opts Options) *Decoder {
	return &Decoder{opts: opts, cur: NewCursor(input)}
}

// Decode parses the next value and leaves the cursor just after it.
func (d *Decoder) Decode() (models.JSONValue, error) {
	d.depth = 0
	return d.decodeValue()
}

// More reports whether unread input remains.
func (d *Decoder) More() bool {
	return !d.cur.Done()
}

// Offset returns the byte offset of the next unread character.
func (d *Decoder) Offset() int {
	return d.cur.Offset()
}

// End skips trailing ASCII whitespace and fails with TrailingData if
// anything else remains.
func (d *Decoder) End() error {
	d.cur.TakeWhile(isSpace)
	if d.More() {
		return d.errorf(TrailingData, "%d unread bytes", d.cur.Remaining())
	}
	return nil
}

// DecodeString parses input as exactly one bencode value.
func DecodeString(input string, opts Options) (models.JSONValue, error) {
	d := NewDecoder(input, opts)
	value, err := d.Decode()
	if err != nil {
		return nil, err
	}
	if d.More() {
		return nil, d.errorf(TrailingData, "%d unread bytes", d.cur.Remaining())
	}
	return value, nil
}

// Decode parses data as exactly one bencode value.
func Decode(data []byte, opts Options) (models.JSONValue, error) {
	return DecodeString(string(data), opts)
}

func (d *Decoder) decodeValue() (models.JSONValue, error) {
	c, ok := d.cur.Peek()
	if !ok {
		return nil, d.errorf(UnexpectedEOF, "expected a value")
	}

	switch {
	case c == 'i':
		return d.decodeInteger()
	case c == 'l':
		return d.decodeList()
	case c == 'd':
		return d.decodeDict()
	case isDigit(c):
		return d.decodeString()
	default:
		return nil, d.errorf(InvalidFormat, "unexpected character %q", c)
	}
}

func (d *Decoder) decodeInteger() (models.JSONValue, error) {
	start := d.cur.Offset()
	d.cur.Next() // 'i'

	text := d.cur.TakeWhile(func(b byte) bool { return b != 'e' })
	if _, ok := d.cur.Next(); !ok {
		return nil, d.errorf(UnexpectedEOF, "unterminated integer")
	}

	// ParseInt tolerates a leading '+', the grammar does not.
	if len(text) > 0 && text[0] == '+' {
		return nil, d.errorAt(start, InvalidInteger, "%q", text)
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, d.errorAt(start, InvalidInteger, "%q", text)
	}
	return json.Number(strconv.FormatInt(n, 10)), nil
}

func (d *Decoder) decodeString() (string, error) {
	start := d.cur.Offset()

	digits := d.cur.TakeWhile(isDigit)
	sep, ok := d.cur.Next()
	if !ok {
		return "", d.errorf(UnexpectedEOF, "unterminated string length")
	}
	if sep != ':' {
		return "", d.errorAt(start, InvalidLength, "expected ':' after length, got %q", sep)
	}

	length, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return "", d.errorAt(start, InvalidLength, "%q", digits)
	}
	// Every unit is at least one byte, so this bounds both length units.
	if length > int64(d.cur.Remaining()) {
		return "", d.errorAt(start, UnexpectedEOF, "string of length %d exceeds remaining input", length)
	}

	var s string
	if d.opts.LengthUnit == LengthBytes {
		s, ok = d.cur.TakeBytes(int(length))
	} else {
		s, ok = d.cur.TakeChars(int(length))
	}
	if !ok {
		return "", d.errorAt(start, UnexpectedEOF, "string of length %d exceeds remaining input", length)
	}
	// JSON strings cannot carry invalid UTF-8.
	if !utf8.ValidString(s) {
		return "", d.errorAt(start, InvalidString, "%d-byte string holds binary data", len(s))
	}
	return s, nil
}

func (d *Decoder) decodeList() (models.JSONValue, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer d.leave()
	d.cur.Next() // 'l'

	list := models.JSONArray{}
	for {
		c, ok := d.cur.Peek()
		if !ok {
			return nil, d.errorf(UnexpectedEOF, "unterminated list")
		}
		if c == 'e' {
			d.cur.Next()
			return list, nil
		}

		item, err := d.decodeValue()
		if err != nil {
			return nil, err
		}
		list = append(list, item)
	}
}

func (d *Decoder) decodeDict() (models.JSONValue, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer d.leave()
	d.cur.Next() // 'd'

	dict := models.JSONObject{}
	for {
		c, ok := d.cur.Peek()
		if !ok {
			return nil, d.errorf(UnexpectedEOF, "unterminated dictionary")
		}
		if c == 'e' {
			d.cur.Next()
			return dict, nil
		}
		if !isDigit(c) {
			return nil, d.errorf(InvalidFormat, "dictionary key must be a string, got %q", c)
		}

		keyOffset := d.cur.Offset()
		key, err := d.decodeString()
		if err != nil {
			return nil, err
		}
		if _, exists := dict[key]; exists && d.opts.DuplicateKeys == DuplicateKeysError {
			return nil, d.errorAt(keyOffset, DuplicateKey, "%q", key)
		}

		value, err := d.decodeValue()
		if err != nil {
			return nil, err
		}
		dict[key] = value
	}
}

func (d *Decoder) enter() error {
	d.depth++
	if d.depth > d.opts.maxDepth() {
		return d.errorf(DepthExceeded, "limit is %d", d.opts.maxDepth())
	}
	return nil
}

func (d *Decoder) leave() {
	d.depth--
}

func (d *Decoder) errorf(kind ErrorKind, format string, args ...interface{}) *Error {
	return d.errorAt(d.cur.Offset(), kind, format, args...)
}

func (d *Decoder) errorAt(offset int, kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Offset: offset, Detail: fmt.Sprintf(format, args...)}
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
