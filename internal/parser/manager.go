package parser

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"swissgeo/internal/models"
)

// Options configure the parsers created by NewParserManager
type Options struct {
	// Timeout bounds each download; DefaultTimeout when zero
	Timeout time.Duration
	// Client overrides the HTTP client used for downloads
	Client *http.Client
	Logger *slog.Logger
}

// ParserManager manages different types of parsers
type ParserManager struct {
	parsers map[string]Parser
	logger  *slog.Logger
}

// NewParserManager creates a new parser manager with the CSV and ZIP parsers
// registered.
func NewParserManager(opts Options) (*ParserManager, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	m := &ParserManager{
		parsers: make(map[string]Parser),
		logger:  opts.Logger,
	}

	m.RegisterParser(NewCSVParser(opts))

	zipParser, err := NewZIPParser(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create ZIP parser: %w", err)
	}
	m.RegisterParser(zipParser)

	return m, nil
}

// RegisterParser adds a new parser to the manager
func (m *ParserManager) RegisterParser(parser Parser) {
	m.parsers[parser.Method()] = parser
}

// GetParser retrieves a parser by method
func (m *ParserManager) GetParser(method string) (Parser, error) {
	parser, ok := m.parsers[method]
	if !ok {
		return nil, fmt.Errorf("no parser found for method: %s", method)
	}
	return parser, nil
}

// ParseSource reads src and appends its rows to ds according to the source
// kind.
func (m *ParserManager) ParseSource(ctx context.Context, src models.DataSource, ds *models.Dataset) error {
	if err := models.ValidateSourceKind(src.Kind); err != nil {
		return err
	}
	if err := models.ValidateParseMethod(src.ParseMethod); err != nil {
		return err
	}
	parser, err := m.GetParser(string(src.ParseMethod))
	if err != nil {
		return err
	}

	m.logger.Info("parsing data source", "name", src.Name, "kind", src.Kind, "method", src.ParseMethod, "link", src.Link)
	return parser.Parse(ctx, src.Link, func(name string, r io.Reader) error {
		switch src.Kind {
		case models.SourceKindPolitical:
			rows, err := DecodePoliticalCommunities(r)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			ds.Political = append(ds.Political, rows...)
			m.logger.Debug("decoded political communities", "file", name, "rows", len(rows))
		case models.SourceKindPostal:
			rows, err := DecodePostalCommunities(r)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			ds.Postal = append(ds.Postal, rows...)
			m.logger.Debug("decoded postal communities", "file", name, "rows", len(rows))
		}
		return nil
	})
}

// Cleanup performs any necessary cleanup
func (m *ParserManager) Cleanup() {
	for _, p := range m.parsers {
		if err := p.Cleanup(); err != nil {
			m.logger.Warn("error cleaning up parser", "method", p.Method(), "error", err)
		}
	}
}
