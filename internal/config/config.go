// Package config loads the service configuration from the environment and an
// optional YAML list of data sources.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"swissgeo/internal/models"
)

// Config is the process configuration
type Config struct {
	Port           string `env:"PORT" envDefault:"8080"`
	DataDir        string `env:"DATA_DIR" envDefault:"./pb_data"`
	PocketBaseHTTP string `env:"POCKETBASE_HTTP" envDefault:"0.0.0.0:8090"`

	// SourcesFile is a YAML file listing data sources
	SourcesFile string `env:"SOURCES_FILE"`
	// PoliticalSource and PostalSource are shortcuts for a single source each
	PoliticalSource string `env:"POLITICAL_SOURCE"`
	PostalSource    string `env:"POSTAL_SOURCE"`

	DownloadTimeout time.Duration `env:"DOWNLOAD_TIMEOUT" envDefault:"30s"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`

	// CollationLanguage is the BCP 47 tag names are sorted by in responses
	CollationLanguage string `env:"COLLATION_LANG" envDefault:"de-CH"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads Config from the environment
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type sourcesFile struct {
	Sources []models.DataSource `yaml:"sources"`
}

// Sources returns the configured data sources: those of SourcesFile followed
// by the POLITICAL_SOURCE and POSTAL_SOURCE shortcuts. Every source is
// validated.
func (c Config) Sources() ([]models.DataSource, error) {
	var sources []models.DataSource
	if c.SourcesFile != "" {
		data, err := os.ReadFile(c.SourcesFile)
		if err != nil {
			return nil, fmt.Errorf("read sources file: %w", err)
		}
		var f sourcesFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("decode sources file %s: %w", c.SourcesFile, err)
		}
		for _, src := range f.Sources {
			if src.ParseMethod == "" {
				src.ParseMethod = MethodForLink(src.Link)
			}
			sources = append(sources, src)
		}
	}
	if c.PoliticalSource != "" {
		sources = append(sources, SourceFromLink("political communities", models.SourceKindPolitical, c.PoliticalSource))
	}
	if c.PostalSource != "" {
		sources = append(sources, SourceFromLink("postal communities", models.SourceKindPostal, c.PostalSource))
	}

	for i := range sources {
		if err := sources[i].Validate(); err != nil {
			return nil, err
		}
	}
	return sources, nil
}

// SourceFromLink builds a data source whose parse method follows the link's
// extension.
func SourceFromLink(name string, kind models.SourceKind, link string) models.DataSource {
	return models.DataSource{
		Name:        name,
		Link:        link,
		Kind:        kind,
		ParseMethod: MethodForLink(link),
	}
}

// MethodForLink returns zip for .zip links and csv otherwise
func MethodForLink(link string) models.ParseMethod {
	if i := strings.IndexAny(link, "?#"); i >= 0 {
		link = link[:i]
	}
	if strings.EqualFold(path.Ext(link), ".zip") {
		return models.ParseMethodZIP
	}
	return models.ParseMethodCSV
}

// Collation returns the language names are collated in. An empty setting
// means German.
func (c Config) Collation() (language.Tag, error) {
	if c.CollationLanguage == "" {
		return language.German, nil
	}
	tag, err := language.Parse(c.CollationLanguage)
	if err != nil {
		return language.Und, fmt.Errorf("invalid COLLATION_LANG %q: %w", c.CollationLanguage, err)
	}
	return tag, nil
}

// NewLogger returns a text logger writing to w at the configured level
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
