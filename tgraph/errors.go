package tgraph

import (
	"errors"
	"fmt"
)

var (
	// ErrParseTime is returned when a time string does not match its format.
	ErrParseTime = errors.New("failed to parse time")
	// ErrUnsupportedTime is returned for time inputs of an unknown Go type.
	ErrUnsupportedTime = errors.New("unsupported time input")
	// ErrUnsupportedVertexID is returned for vertex ids that cannot be resolved.
	ErrUnsupportedVertexID = errors.New("unsupported vertex id")
	// ErrUnsupportedProp is returned for property values of an unknown Go type.
	ErrUnsupportedProp = errors.New("unsupported property value")
	ErrVertexNotFound  = errors.New("vertex not found")
	ErrEdgeNotFound    = errors.New("edge not found")
	ErrInvalidLayer    = errors.New("invalid layer")
	ErrJournalClosed   = errors.New("journal closed")
)

// ParseTimeError describes a time string that could not be parsed.
type ParseTimeError struct {
	Input  string
	Format string
	Err    error
}

func (e *ParseTimeError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("%v: %q: %v", ErrParseTime, e.Input, e.Err)
	}
	return fmt.Sprintf("%v: %q with format %q: %v", ErrParseTime, e.Input, e.Format, e.Err)
}

func (e *ParseTimeError) Unwrap() []error {
	return []error{ErrParseTime, e.Err}
}
