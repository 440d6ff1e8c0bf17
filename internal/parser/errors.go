package parser

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a parse failed.
type ErrorKind string

const (
	// KindStructure means the raw message could not be decoded at all.
	KindStructure ErrorKind = "structure"
	// KindDecode means a payload or header could not be decoded.
	KindDecode ErrorKind = "decode"
	// KindMissingHeader means a required header was absent.
	KindMissingHeader ErrorKind = "missing_header"
	// KindInvalidHeader means a required header was present but unusable.
	KindInvalidHeader ErrorKind = "invalid_header"
	// KindInvalidDate means the Date header could not be parsed.
	KindInvalidDate ErrorKind = "invalid_date"
)

// ParseError is the only error type Parse returns. Header names the
// offending header when one is involved.
type ParseError struct {
	Kind    ErrorKind
	Header  string
	Details string
	cause   error
}

func (e *ParseError) Error() string {
	switch {
	case e.Header != "" && e.Details != "":
		return fmt.Sprintf("%s: header %q: %s", e.Kind, e.Header, e.Details)
	case e.Header != "":
		return fmt.Sprintf("%s: header %q", e.Kind, e.Header)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Details)
	}
}

func (e *ParseError) Unwrap() error {
	return e.cause
}

func newStructureError(cause error) *ParseError {
	return &ParseError{Kind: KindStructure, Details: cause.Error(), cause: cause}
}

func newMissingHeaderError(name string) *ParseError {
	return &ParseError{Kind: KindMissingHeader, Header: name}
}

func newInvalidHeaderError(name, details string) *ParseError {
	return &ParseError{Kind: KindInvalidHeader, Header: name, Details: details}
}

// AsParseError unwraps err into a *ParseError if one is in its chain.
func AsParseError(err error) (*ParseError, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
