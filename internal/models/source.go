package models

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ParseMethod represents the method used to read a data source
type ParseMethod string

const (
	ParseMethodCSV ParseMethod = "csv"
	ParseMethodZIP ParseMethod = "zip"
)

// SourceKind tells which raw dataset a source provides
type SourceKind string

const (
	SourceKindPolitical SourceKind = "political"
	SourceKindPostal    SourceKind = "postal"
)

var validate = validator.New()

// ValidateParseMethod checks if the parse method is valid
func ValidateParseMethod(method ParseMethod) error {
	switch method {
	case ParseMethodCSV, ParseMethodZIP:
		return nil
	default:
		return fmt.Errorf("invalid parse method: %s", method)
	}
}

// ValidateSourceKind checks if the source kind is valid
func ValidateSourceKind(kind SourceKind) error {
	switch kind {
	case SourceKindPolitical, SourceKindPostal:
		return nil
	default:
		return fmt.Errorf("invalid source kind: %s", kind)
	}
}

// DataSource records where one of the raw datasets is read from. Link is
// either a local path or an http(s) URL.
type DataSource struct {
	ID          string      `json:"id,omitempty" yaml:"-"`
	Name        string      `json:"name" yaml:"name" validate:"required"`
	Link        string      `json:"link" yaml:"link" validate:"required"`
	Kind        SourceKind  `json:"kind" yaml:"kind" validate:"required,oneof=political postal"`
	ParseMethod ParseMethod `json:"parse_method" yaml:"parse_method" validate:"required,oneof=csv zip"`
}

// Validate ensures all required fields are present and valid
func (s *DataSource) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid data source %q: %w", s.Name, err)
	}
	return nil
}
