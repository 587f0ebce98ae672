package fetch

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/repoforge/repoctl/internal/errors"
	"github.com/repoforge/repoctl/internal/files"
	"github.com/repoforge/repoctl/internal/perms"
)

// DownloadOptions controls a bulk archive download.
type DownloadOptions struct {
	// Dest is the directory downloads land in.
	Dest string

	// Concurrency bounds the number of simultaneous downloads. Values below 1
	// are treated as 1.
	Concurrency int

	// SkipExisting leaves non-empty files that already exist in Dest alone.
	SkipExisting bool
}

// DownloadSummary reports the outcome of a bulk download by archive basename.
type DownloadSummary struct {
	Downloaded []string
	Skipped    []string
	Failed     []string
}

// DownloadAll retrieves the given archive paths (relative to baseURL, or
// absolute URLs) into opts.Dest. Downloads run concurrently and land under
// their final name only once complete; partial content stays in a '.part'
// file that is removed on failure. A non-nil error is returned when any
// download failed, alongside the summary of what happened.
func (c *Client) DownloadAll(ctx context.Context, baseURL string, paths []string, opts DownloadOptions) (DownloadSummary, error) {
	if err := files.EnsureAtLeastRegularDir(opts.Dest); err != nil {
		return DownloadSummary{}, err
	}

	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	var (
		mu      sync.Mutex
		summary DownloadSummary
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, p := range paths {
		g.Go(func() error {
			name := filepath.Base(p)
			dest := filepath.Join(opts.Dest, name)

			if opts.SkipExisting {
				if info, err := os.Stat(dest); err == nil && info.Size() > 0 {
					c.logger.Debug("Skipping existing archive", "name", name)
					mu.Lock()
					summary.Skipped = append(summary.Skipped, name)
					mu.Unlock()
					return nil
				}
			}

			srcURL, err := resolveArchiveURL(baseURL, p)
			if err != nil {
				c.logger.Warn("Unresolvable archive path", "path", p, "error", err)
				mu.Lock()
				summary.Failed = append(summary.Failed, name)
				mu.Unlock()
				return nil
			}

			if err := c.downloadFile(ctx, srcURL, dest); err != nil {
				c.logger.Warn("Archive download failed", "url", srcURL, "error", err)
				mu.Lock()
				summary.Failed = append(summary.Failed, name)
				mu.Unlock()
				return nil
			}

			c.logger.Info("Downloaded archive", "name", name)
			mu.Lock()
			summary.Downloaded = append(summary.Downloaded, name)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return summary, err
	}

	if len(summary.Failed) > 0 {
		return summary, fmt.Errorf(
			"%w: %d of %d archives failed",
			errors.ErrDownloadFailed,
			len(summary.Failed),
			len(paths),
		)
	}

	return summary, nil
}

// downloadFile fetches srcURL into dest via a '.part' staging file so readers
// never observe partial archives.
func (c *Client) downloadFile(ctx context.Context, srcURL, dest string) error {
	data, err := c.Bytes(ctx, srcURL)
	if err != nil {
		return err
	}

	part := dest + ".part"
	if err := os.WriteFile(part, data, perms.RegularFile); err != nil {
		return fmt.Errorf("failed to stage download '%s': %w", part, err)
	}

	if err := os.Rename(part, dest); err != nil {
		_ = os.Remove(part)
		return fmt.Errorf("failed to finalize download '%s': %w", dest, err)
	}

	return nil
}

// resolveArchiveURL joins a possibly relative archive path onto the repo base URL.
func resolveArchiveURL(baseURL, path string) (string, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path, nil
	}

	base, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return "", fmt.Errorf("invalid base URL '%s': %w", baseURL, err)
	}

	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("invalid archive path '%s': %w", path, err)
	}

	return base.ResolveReference(ref).String(), nil
}
