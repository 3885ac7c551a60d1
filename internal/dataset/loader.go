// Package dataset loads the raw datasets of the registered sources and builds
// a queryable model from them.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"swissgeo/internal/metrics"
	"swissgeo/internal/models"
	"swissgeo/internal/normalizer"
	"swissgeo/internal/query"
)

// ErrMissingSource is returned when the sources do not cover both datasets
var ErrMissingSource = errors.New("both a political and a postal data source are required")

// SourceParser reads one data source into a dataset
type SourceParser interface {
	ParseSource(ctx context.Context, src models.DataSource, ds *models.Dataset) error
}

// Loader builds query engines from data sources
type Loader struct {
	parser SourceParser
	logger *slog.Logger
}

// NewLoader creates a new Loader
func NewLoader(parser SourceParser, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{parser: parser, logger: logger}
}

// Load parses every source and returns an engine over the normalized model
func (l *Loader) Load(ctx context.Context, sources []models.DataSource) (*query.Engine, error) {
	start := time.Now()
	engine, err := l.load(ctx, sources)
	if err != nil {
		metrics.BuildErrors.Inc()
		return nil, err
	}
	metrics.BuildDuration.Observe(time.Since(start).Seconds())
	return engine, nil
}

func (l *Loader) load(ctx context.Context, sources []models.DataSource) (*query.Engine, error) {
	var political, postal bool
	for _, src := range sources {
		switch src.Kind {
		case models.SourceKindPolitical:
			political = true
		case models.SourceKindPostal:
			postal = true
		}
	}
	if !political || !postal {
		return nil, ErrMissingSource
	}

	var ds models.Dataset
	for _, src := range sources {
		if err := l.parser.ParseSource(ctx, src, &ds); err != nil {
			return nil, fmt.Errorf("failed to load data source %s: %w", src.Name, err)
		}
	}

	model := normalizer.New(l.logger).Build(ds.Political, ds.Postal)
	engine := query.New(model)

	counts := map[string]int{
		"canton":              len(model.Cantons()),
		"district":            len(model.Districts()),
		"political_community": len(model.PoliticalCommunities()),
		"postal_community":    len(model.PostalCommunities()),
	}
	for entity, n := range counts {
		metrics.ModelEntities.WithLabelValues(entity).Set(float64(n))
	}
	l.logger.Info("model built",
		"political_rows", len(ds.Political),
		"postal_rows", len(ds.Postal),
		"cantons", counts["canton"],
		"districts", counts["district"],
		"political_communities", counts["political_community"],
		"postal_communities", counts["postal_community"])

	return engine, nil
}
