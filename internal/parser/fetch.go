package parser

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

// DefaultTimeout bounds a single download
const DefaultTimeout = 30 * time.Second

// fetcher opens locations that are either local files or http(s) URLs
type fetcher struct {
	client *http.Client
	logger *slog.Logger
}

func newFetcher(client *http.Client, timeout time.Duration, logger *slog.Logger) *fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &fetcher{client: client, logger: logger}
}

func isRemote(location string) bool {
	l := strings.ToLower(location)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// open returns the content at location. The caller closes it.
func (f *fetcher) open(ctx context.Context, location string) (io.ReadCloser, error) {
	if !isRemote(location) {
		file, err := os.Open(location)
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}
		return file, nil
	}

	f.logger.Debug("downloading", "url", location)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "*/*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// download copies the content at a remote location into path
func (f *fetcher) download(ctx context.Context, location, path string) error {
	body, err := f.open(ctx, location)
	if err != nil {
		return err
	}
	defer body.Close()

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer out.Close()

	written, err := io.Copy(out, body)
	if err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to save file: %w", err)
	}
	f.logger.Debug("download complete", "url", location, "bytes", written)
	return nil
}
