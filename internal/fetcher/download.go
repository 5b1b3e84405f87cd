package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"QuizSolver/internal/ports"
)

// HTTPDownloader fetches auxiliary resource bytes.
type HTTPDownloader struct {
	client *http.Client
}

var _ ports.Downloader = (*HTTPDownloader)(nil)

// NewDownloader wires an HTTP client; nil gets a 30s-timeout default.
func NewDownloader(client *http.Client) *HTTPDownloader {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPDownloader{client: client}
}

// Download performs a GET and returns the response bytes.
func (d *HTTPDownloader) Download(ctx context.Context, fileURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download returned %s", resp.Status)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read download: %w", err)
	}
	return content, nil
}
