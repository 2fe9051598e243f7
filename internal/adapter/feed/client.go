package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/couchcryptid/covid-data-etl-service/internal/domain"
)

// maxErrorBody caps how much of a non-200 body is echoed into the error.
const maxErrorBody = 512

// Client implements domain.FeedFetcher over HTTP. Every call downloads and
// parses the complete document.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a feed client for the given URL.
func NewClient(url string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Fetch downloads the feed. Transport failures and non-200 responses wrap
// domain.ErrFetchFeed; a malformed body wraps domain.ErrParseFeed.
func (c *Client) Fetch(ctx context.Context) ([]domain.RawRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFeed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrFetchFeed, resp.StatusCode, body)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", domain.ErrFetchFeed, err)
	}

	records, err := domain.ParseFeed(data)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("feed downloaded", "url", c.url, "bytes", len(data), "records", len(records))
	return records, nil
}

// File implements domain.FeedFetcher over a local copy of the feed.
type File struct {
	path string
}

// NewFile creates a fetcher that reads the feed from disk on every call.
func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Fetch(ctx context.Context) ([]domain.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFeed, err)
	}
	return domain.ParseFeed(data)
}
