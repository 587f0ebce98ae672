// Package fetch mirrors archives from a remote flat repository: it retrieves
// the remote Packages index (compressed or plain), extracts the referenced
// archive filenames, optionally scrapes directory listings for additional
// archives, and downloads everything concurrently.
package fetch

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/repoforge/repoctl/internal/errors"
)

// gzipMagic is the two-byte gzip header used to sniff compressed payloads
// served without a compressed file extension.
var gzipMagic = []byte{0x1f, 0x8b}

// Client fetches remote repository content.
// NewClient should be used to create instances of Client.
type Client struct {
	httpClient *http.Client
	logger     hclog.Logger
	retries    int
	retryDelay time.Duration
	userAgent  string
}

// NewClient creates a fetch client with the given options applied.
func NewClient(logger hclog.Logger, opt ...Option) (*Client, error) {
	opts, err := NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	return &Client{
		httpClient: &http.Client{Timeout: opts.timeout},
		logger:     logger.Named("fetch"),
		retries:    opts.retries,
		retryDelay: opts.retryDelay,
		userAgent:  opts.userAgent,
	}, nil
}

// Bytes retrieves the given URL, retrying failed attempts with a linearly
// growing delay.
func (c *Client) Bytes(ctx context.Context, url string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			delay := c.retryDelay * time.Duration(attempt)
			c.logger.Debug("Retrying fetch", "url", url, "attempt", attempt, "delay", delay)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		data, err := c.fetchOnce(ctx, url)
		if err == nil {
			return data, nil
		}
		lastErr = err
	}

	return nil, lastErr
}

func (c *Client) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for '%s': %w", url, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch '%s': %w", url, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status fetching '%s': %s", url, resp.Status)
	}

	return io.ReadAll(resp.Body)
}

// PackagesIndex retrieves the remote Packages index. When overrideURL is set
// it is used verbatim; otherwise the conventional candidates under baseURL are
// tried in order: Packages.gz, Packages.bz2, Packages. Returns the source URL
// that succeeded and the decompressed index text.
func (c *Client) PackagesIndex(ctx context.Context, baseURL, overrideURL string) (string, string, error) {
	var candidates []string
	if overrideURL != "" {
		candidates = []string{overrideURL}
	} else {
		base := strings.TrimRight(baseURL, "/")
		candidates = []string{
			base + "/Packages.gz",
			base + "/Packages.bz2",
			base + "/Packages",
		}
	}

	var lastErr error
	for _, url := range candidates {
		data, err := c.Bytes(ctx, url)
		if err != nil {
			c.logger.Debug("Index candidate failed", "url", url, "error", err)
			lastErr = err
			continue
		}

		text, err := Decompress(data, url)
		if err != nil {
			lastErr = err
			continue
		}

		c.logger.Info("Fetched packages index", "url", url, "bytes", len(data))

		return url, text, nil
	}

	return "", "", fmt.Errorf("%w: tried %s: %w", errors.ErrIndexFetchFailed, strings.Join(candidates, ", "), lastErr)
}

// Decompress interprets raw index bytes based on the source URL's extension,
// falling back to gzip magic sniffing for servers that mislabel content.
func Decompress(data []byte, srcURL string) (string, error) {
	switch {
	case strings.HasSuffix(srcURL, ".gz"), bytes.HasPrefix(data, gzipMagic):
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return "", fmt.Errorf("failed to decompress gzip index from '%s': %w", srcURL, err)
		}
		out, err := io.ReadAll(zr)
		if err != nil {
			return "", fmt.Errorf("failed to read gzip index from '%s': %w", srcURL, err)
		}
		return string(out), nil

	case strings.HasSuffix(srcURL, ".bz2"):
		out, err := io.ReadAll(bzip2.NewReader(bytes.NewReader(data)))
		if err != nil {
			return "", fmt.Errorf("failed to decompress bzip2 index from '%s': %w", srcURL, err)
		}
		return string(out), nil

	default:
		return string(data), nil
	}
}

// ParseFilenames extracts the unique Filename field values from index text,
// preserving first-seen order and normalizing leading './' segments.
func ParseFilenames(text string) []string {
	seen := make(map[string]struct{})
	var out []string

	for _, line := range strings.Split(text, "\n") {
		if !strings.HasPrefix(strings.ToLower(line), "filename:") {
			continue
		}

		val := strings.TrimSpace(line[len("filename:"):])
		for strings.HasPrefix(val, "./") {
			val = val[2:]
		}
		if val == "" {
			continue
		}

		if _, ok := seen[val]; ok {
			continue
		}
		seen[val] = struct{}{}
		out = append(out, val)
	}

	return out
}
