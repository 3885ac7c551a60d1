package parser

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swissgeo/internal/geotest"
)

func TestCSVParser_LocalFile(t *testing.T) {
	path := writeFile(t, "gemeinden.csv", []byte(geotest.PoliticalCSV))
	p := NewCSVParser(Options{})

	var v visited
	require.NoError(t, p.Parse(context.Background(), path, v.visit))
	assert.Equal(t, []string{"gemeinden.csv"}, v.names)
	assert.Equal(t, geotest.PoliticalCSV, v.contents[0])
}

func TestCSVParser_MissingFile(t *testing.T) {
	p := NewCSVParser(Options{})

	var v visited
	err := p.Parse(context.Background(), "/nonexistent/gemeinden.csv", v.visit)
	require.Error(t, err)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "download", parseErr.Stage)
}

func TestCSVParser_Remote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(geotest.PostalCSV))
	}))
	defer srv.Close()

	p := NewCSVParser(Options{Client: srv.Client()})

	var v visited
	require.NoError(t, p.Parse(context.Background(), srv.URL+"/plz.csv", v.visit))
	assert.Equal(t, []string{"plz.csv"}, v.names)
	assert.Equal(t, geotest.PostalCSV, v.contents[0])
}

func TestCSVParser_RemoteStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewCSVParser(Options{})

	var v visited
	err := p.Parse(context.Background(), srv.URL+"/plz.csv", v.visit)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "download", parseErr.Stage)
	assert.Contains(t, err.Error(), "503")
}

func TestCSVParser_VisitorErrorIsProcessStage(t *testing.T) {
	path := writeFile(t, "gemeinden.csv", []byte("x"))
	p := NewCSVParser(Options{})

	boom := errors.New("boom")
	err := p.Parse(context.Background(), path, func(string, io.Reader) error { return boom })

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "process", parseErr.Stage)
	assert.ErrorIs(t, err, boom)
}

func TestIsRemote(t *testing.T) {
	assert.True(t, isRemote("https://example.org/a.csv"))
	assert.True(t, isRemote("HTTP://example.org/a.csv"))
	assert.False(t, isRemote("/tmp/a.csv"))
	assert.False(t, isRemote("ftp://example.org/a.csv"))
}
