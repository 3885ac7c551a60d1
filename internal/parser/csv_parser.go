package parser

import (
	"context"
	"path"
)

// CSVParser implements Parser for a single CSV document
type CSVParser struct {
	fetch *fetcher
}

// NewCSVParser creates a new CSV parser instance
func NewCSVParser(opts Options) *CSVParser {
	return &CSVParser{fetch: newFetcher(opts.Client, opts.Timeout, opts.Logger)}
}

// Method returns the parser type
func (p *CSVParser) Method() string {
	return "csv"
}

// Parse implements the Parser interface
func (p *CSVParser) Parse(ctx context.Context, location string, visit Visitor) error {
	rc, err := p.fetch.open(ctx, location)
	if err != nil {
		return NewParseError("download", err)
	}
	defer rc.Close()

	if err := visit(path.Base(location), rc); err != nil {
		return NewParseError("process", err)
	}
	return nil
}

// Cleanup is a no-op; the CSV parser keeps no files around
func (p *CSVParser) Cleanup() error {
	return nil
}
