package bencode

import (
	"errors"
	"fmt"
)

// Sentinel errors, one per ErrorKind. Every *Error unwraps to one of these.
var (
	ErrInvalidFormat    = errors.New("invalid bencode format")
	ErrInvalidInteger   = errors.New("invalid integer")
	ErrInvalidLength    = errors.New("invalid string length")
	ErrUnexpectedEOF    = errors.New("unexpected end of input")
	ErrDuplicateKey     = errors.New("duplicate dictionary key")
	ErrTrailingData     = errors.New("trailing data after value")
	ErrDepthExceeded    = errors.New("maximum nesting depth exceeded")
	ErrUnsupportedValue = errors.New("value has no bencode representation")
	ErrInvalidString    = errors.New("string is not valid UTF-8")
)

// ErrorKind categorizes codec failures.
type ErrorKind int

const (
	InvalidFormat ErrorKind = iota + 1
	InvalidInteger
	InvalidLength
	UnexpectedEOF
	DuplicateKey
	TrailingData
	DepthExceeded
	UnsupportedValue
	InvalidString
)

var kindSentinels = map[ErrorKind]error{
	InvalidFormat:    ErrInvalidFormat,
	InvalidInteger:   ErrInvalidInteger,
	InvalidLength:    ErrInvalidLength,
	UnexpectedEOF:    ErrUnexpectedEOF,
	DuplicateKey:     ErrDuplicateKey,
	TrailingData:     ErrTrailingData,
	DepthExceeded:    ErrDepthExceeded,
	UnsupportedValue: ErrUnsupportedValue,
	InvalidString:    ErrInvalidString,
}

func (k ErrorKind) String() string {
	if err, ok := kindSentinels[k]; ok {
		return err.Error()
	}
	return fmt.Sprintf("unknown error kind %d", int(k))
}

// Error describes where and why a decode or encode failed.
// Decode errors carry the input Offset; encode errors carry the Path of the
// offending value and an Offset of -1.
type Error struct {
	Kind   ErrorKind
	Offset int
	Path   string
	Detail string
}

// Error implements error interface
func (e *Error) Error() string {
	var where string
	if e.Offset >= 0 {
		where = fmt.Sprintf("at offset %d", e.Offset)
	} else if e.Path == "" {
		where = "at root"
	} else {
		where = "at " + e.Path
	}

	if e.Detail != "" {
		return fmt.Sprintf("%s %s: %s", e.Kind, where, e.Detail)
	}
	return fmt.Sprintf("%s %s", e.Kind, where)
}

// Unwrap returns the sentinel for the error's kind
func (e *Error) Unwrap() error {
	return kindSentinels[e.Kind]
}

// KindOf reports the ErrorKind of err, or 0 when err is not a codec error.
func KindOf(err error) ErrorKind {
	var codecErr *Error
	if errors.As(err, &codecErr) {
		return codecErr.Kind
	}
	return 0
}
