// internal/parser/parser.go
package parser

import (
	"context"
	"fmt"
	"io"
)

// Visitor receives every CSV document a parser finds at a location. name is
// the document's file name; r is only valid until Visitor returns.
type Visitor func(name string, r io.Reader) error

// Parser defines the interface for the different ways a raw dataset is read
type Parser interface {
	// Method returns the parser type (e.g., "csv", "zip")
	Method() string

	// Parse reads the data at location, a local path or an http(s) URL
	Parse(ctx context.Context, location string, visit Visitor) error

	// Cleanup performs any necessary cleanup
	Cleanup() error
}

// ParseError represents a parsing error with a specific stage
type ParseError struct {
	Stage string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %s stage: %v", e.Stage, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(stage string, err error) *ParseError {
	return &ParseError{
		Stage: stage,
		Err:   err,
	}
}
