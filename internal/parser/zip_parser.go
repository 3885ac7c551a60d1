package parser

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ZIPParser implements Parser interface for ZIP files containing CSV data
type ZIPParser struct {
	tempDir string
	fetch   *fetcher
	logger  *slog.Logger
}

// NewZIPParser creates a new ZIP parser instance
func NewZIPParser(opts Options) (*ZIPParser, error) {
	tempDir, err := os.MkdirTemp("", "swissgeo_data_*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	fetch := newFetcher(opts.Client, opts.Timeout, opts.Logger)
	return &ZIPParser{
		tempDir: tempDir,
		fetch:   fetch,
		logger:  fetch.logger,
	}, nil
}

// Method returns the parser type
func (p *ZIPParser) Method() string {
	return "zip"
}

// Parse implements the Parser interface
func (p *ZIPParser) Parse(ctx context.Context, location string, visit Visitor) error {
	zipPath := location
	if isRemote(location) {
		f, err := os.CreateTemp(p.tempDir, "download_*.zip")
		if err != nil {
			return NewParseError("download", fmt.Errorf("failed to create temp file: %w", err))
		}
		zipPath = f.Name()
		f.Close()
		defer os.Remove(zipPath)

		if err := p.fetch.download(ctx, location, zipPath); err != nil {
			return NewParseError("download", err)
		}
	}

	if err := p.processZIPFile(ctx, zipPath, visit); err != nil {
		return NewParseError("process", err)
	}
	return nil
}

// processZIPFile visits every CSV file in the archive
func (p *ZIPParser) processZIPFile(ctx context.Context, zipPath string, visit Visitor) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("failed to open ZIP: %w", err)
	}
	defer r.Close()

	p.logger.Debug("opened archive", "path", zipPath, "files", len(r.File))

	visited := 0
	for _, f := range r.File {
		if err := ctx.Err(); err != nil {
			return err
		}
		if f.FileInfo().IsDir() || !strings.HasSuffix(strings.ToLower(f.Name), ".csv") {
			p.logger.Debug("skipping non-CSV entry", "name", f.Name)
			continue
		}
		if err := p.processZIPEntry(f, visit); err != nil {
			return fmt.Errorf("failed to process %s: %w", f.Name, err)
		}
		visited++
	}
	if visited == 0 {
		return errors.New("archive contains no CSV file")
	}
	return nil
}

// processZIPEntry handles a single file from the ZIP archive
func (p *ZIPParser) processZIPEntry(f *zip.File, visit Visitor) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open file in ZIP: %w", err)
	}
	defer rc.Close()

	return visit(filepath.Base(f.Name), rc)
}

// Cleanup removes temporary files
func (p *ZIPParser) Cleanup() error {
	return os.RemoveAll(p.tempDir)
}
