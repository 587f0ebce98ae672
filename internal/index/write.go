package index

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"os"

	"github.com/dsnet/compress/bzip2"

	"github.com/repoforge/repoctl/internal/perms"
)

// WriteOptions controls which index variants are written.
type WriteOptions struct {
	// Gzip writes a Packages.gz alongside the index.
	Gzip bool

	// Bzip2 writes a Packages.bz2 alongside the index.
	Bzip2 bool
}

// WriteResult reports the files produced by a write.
type WriteResult struct {
	// Written lists the paths written, in order.
	Written []string

	// Backup is the path of the pre-update backup, empty when no previous
	// index existed.
	Backup string
}

// Write persists new index content to path. An existing index is first copied
// to '<path>.bak', then the plain index and any requested compressed variants
// are written with best compression.
func Write(path, content string, opts WriteOptions) (WriteResult, error) {
	var result WriteResult

	if prev, err := os.ReadFile(path); err == nil {
		backup := path + ".bak"
		if err := os.WriteFile(backup, prev, perms.RegularFile); err != nil {
			return WriteResult{}, fmt.Errorf("failed to back up index to '%s': %w", backup, err)
		}
		result.Backup = backup
	} else if !os.IsNotExist(err) {
		return WriteResult{}, fmt.Errorf("failed to read existing index '%s': %w", path, err)
	}

	if err := os.WriteFile(path, []byte(content), perms.RegularFile); err != nil {
		return WriteResult{}, fmt.Errorf("failed to write index '%s': %w", path, err)
	}
	result.Written = append(result.Written, path)

	data := []byte(content)

	if opts.Gzip {
		gzPath := path + ".gz"
		if err := writeGzip(gzPath, data); err != nil {
			return WriteResult{}, err
		}
		result.Written = append(result.Written, gzPath)
	}

	if opts.Bzip2 {
		bz2Path := path + ".bz2"
		if err := writeBzip2(bz2Path, data); err != nil {
			return WriteResult{}, err
		}
		result.Written = append(result.Written, bz2Path)
	}

	return result, nil
}

func writeGzip(path string, data []byte) error {
	var buf bytes.Buffer

	zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return fmt.Errorf("failed to create gzip writer: %w", err)
	}
	if _, err := zw.Write(data); err != nil {
		return fmt.Errorf("failed to compress index: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize gzip index: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), perms.RegularFile); err != nil {
		return fmt.Errorf("failed to write '%s': %w", path, err)
	}

	return nil
}

func writeBzip2(path string, data []byte) error {
	var buf bytes.Buffer

	zw, err := bzip2.NewWriter(&buf, &bzip2.WriterConfig{Level: bzip2.BestCompression})
	if err != nil {
		return fmt.Errorf("failed to create bzip2 writer: %w", err)
	}
	if _, err := zw.Write(data); err != nil {
		return fmt.Errorf("failed to compress index: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize bzip2 index: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), perms.RegularFile); err != nil {
		return fmt.Errorf("failed to write '%s': %w", path, err)
	}

	return nil
}
