package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"swissgeo/internal/models"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "./pb_data", cfg.DataDir)
	assert.Equal(t, 30*time.Second, cfg.DownloadTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DOWNLOAD_TIMEOUT", "2m")
	t.Setenv("POSTAL_SOURCE", "plz.zip")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 2*time.Minute, cfg.DownloadTimeout)
	assert.Equal(t, "plz.zip", cfg.PostalSource)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("DOWNLOAD_TIMEOUT", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}

func TestSources_FileAndShortcuts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`sources:
  - name: Amtliches Gemeindeverzeichnis
    link: https://example.org/gemeinden.zip
    kind: political
  - name: Ortschaftenverzeichnis
    link: ./plz.csv
    kind: postal
    parse_method: csv
`), 0o644))

	cfg := Config{SourcesFile: path, PostalSource: "https://example.org/plz.zip?version=2"}
	sources, err := cfg.Sources()
	require.NoError(t, err)
	require.Len(t, sources, 3)

	assert.Equal(t, models.ParseMethodZIP, sources[0].ParseMethod, "method inferred from link")
	assert.Equal(t, models.SourceKindPolitical, sources[0].Kind)
	assert.Equal(t, models.ParseMethodCSV, sources[1].ParseMethod)
	assert.Equal(t, "postal communities", sources[2].Name)
	assert.Equal(t, models.ParseMethodZIP, sources[2].ParseMethod)
}

func TestSources_InvalidEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sources:\n  - name: broken\n    link: x.csv\n    kind: cities\n"), 0o644))

	_, err := Config{SourcesFile: path}.Sources()
	assert.Error(t, err)
}

func TestSources_MissingFile(t *testing.T) {
	_, err := Config{SourcesFile: filepath.Join(t.TempDir(), "nope.yaml")}.Sources()
	assert.Error(t, err)
}

func TestSources_None(t *testing.T) {
	sources, err := Config{}.Sources()
	require.NoError(t, err)
	assert.Empty(t, sources)
}

func TestMethodForLink(t *testing.T) {
	tests := []struct {
		link string
		want models.ParseMethod
	}{
		{"gemeinden.zip", models.ParseMethodZIP},
		{"https://example.org/PLZ.ZIP", models.ParseMethodZIP},
		{"https://example.org/plz.zip?format=1#top", models.ParseMethodZIP},
		{"gemeinden.csv", models.ParseMethodCSV},
		{"https://example.org/download?file=plz.zip", models.ParseMethodCSV},
		{"", models.ParseMethodCSV},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MethodForLink(tt.link), "MethodForLink(%q)", tt.link)
	}
}

func TestCollation(t *testing.T) {
	tag, err := Config{}.Collation()
	require.NoError(t, err)
	assert.Equal(t, language.German, tag)

	t.Setenv("COLLATION_LANG", "fr-CH")
	cfg, err := Load()
	require.NoError(t, err)
	tag, err = cfg.Collation()
	require.NoError(t, err)
	assert.Equal(t, language.MustParse("fr-CH"), tag)

	_, err = Config{CollationLanguage: "not a tag!"}.Collation()
	assert.Error(t, err)
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := Config{LogLevel: "warn"}.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	Config{LogLevel: "loud"}.NewLogger(&buf).Info("fallback")
	assert.Contains(t, buf.String(), "fallback")
}
