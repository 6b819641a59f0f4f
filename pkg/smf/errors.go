package smf

import (
	"errors"
	"fmt"
)

// Error kinds reported by the decoder and by field validation.
// Match them with errors.Is.
var (
	ErrTruncatedInput               = errors.New("truncated input")
	ErrMalformedVLQ                 = errors.New("malformed variable length quantity")
	ErrInvalidDataByte              = errors.New("invalid data byte")
	ErrInvalidFieldValue            = errors.New("invalid field value")
	ErrMissingEndOfTrack            = errors.New("missing end of track")
	ErrUnknownMessageClassification = errors.New("unknown message classification")
)

// DecodeError locates a decode failure in the input buffer.
type DecodeError struct {
	Offset int   // absolute byte offset where the failing read started
	Err    error // one of the Err* kinds, or a wrapped FieldError
	Msg    string
}

func (e *DecodeError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("offset %d: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("offset %d: %v: %s", e.Offset, e.Err, e.Msg)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func decodeErrorf(offset int, kind error, format string, args ...interface{}) *DecodeError {
	return &DecodeError{
		Offset: offset,
		Err:    kind,
		Msg:    fmt.Sprintf(format, args...),
	}
}

func truncated(offset, requested, remaining int) *DecodeError {
	return decodeErrorf(offset, ErrTruncatedInput, "need %d byte(s), %d remaining", requested, remaining)
}

// FieldError reports a rejected field assignment.
type FieldError struct {
	Entity string
	Field  string
	Value  interface{}
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%v is not a valid value for %s.%s", e.Value, e.Entity, e.Field)
}

func (e *FieldError) Unwrap() error {
	return ErrInvalidFieldValue
}

func invalidField(entity, field string, value interface{}) error {
	return &FieldError{Entity: entity, Field: field, Value: value}
}
