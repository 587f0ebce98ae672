// Package deb provides helpers for working with .deb archive files on disk:
// extracting package metadata from conventional filenames and computing the
// digests recorded in the Packages index.
package deb

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// Extension is the archive file extension, including the leading dot.
const Extension = ".deb"

// Metadata holds the package identity encoded in a .deb filename.
type Metadata struct {
	Package      string
	Version      string
	Architecture string
}

// ParseFilename extracts package metadata from a conventional archive name
// such as 'com.example.foo_1.2.3_iphoneos-arm.deb'. A leading 'v' on the
// version is stripped, as is any extra dotted suffix after the architecture
// ('iphoneos-arm.extra' becomes 'iphoneos-arm'). Returns false when the name
// does not follow the convention.
func ParseFilename(name string) (Metadata, bool) {
	if !strings.HasSuffix(name, Extension) {
		return Metadata{}, false
	}

	base := strings.TrimSuffix(name, Extension)
	parts := strings.Split(base, "_")
	if len(parts) < 3 {
		return Metadata{}, false
	}

	// Split on the last two underscores so package IDs containing '_' survive.
	arch := parts[len(parts)-1]
	version := parts[len(parts)-2]
	pkg := strings.Join(parts[:len(parts)-2], "_")

	if (strings.HasPrefix(version, "v") || strings.HasPrefix(version, "V")) && len(version) > 1 {
		version = version[1:]
	}

	if idx := strings.Index(arch, "."); idx != -1 {
		arch = arch[:idx]
	}

	if pkg == "" || version == "" || arch == "" {
		return Metadata{}, false
	}

	return Metadata{
		Package:      pkg,
		Version:      version,
		Architecture: arch,
	}, true
}

// Digest holds the size and checksums recorded for an archive in the index.
type Digest struct {
	Size   int64
	MD5    string
	SHA1   string
	SHA256 string
}

// FileDigest computes the archive digests in a single pass over the file.
func FileDigest(path string) (Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return Digest{}, fmt.Errorf("failed to open archive '%s': %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	md5Hash := md5.New()
	sha1Hash := sha1.New()
	sha256Hash := sha256.New()

	size, err := io.Copy(io.MultiWriter(md5Hash, sha1Hash, sha256Hash), f)
	if err != nil {
		return Digest{}, fmt.Errorf("failed to hash archive '%s': %w", path, err)
	}

	return Digest{
		Size:   size,
		MD5:    hex.EncodeToString(md5Hash.Sum(nil)),
		SHA1:   hex.EncodeToString(sha1Hash.Sum(nil)),
		SHA256: hex.EncodeToString(sha256Hash.Sum(nil)),
	}, nil
}
