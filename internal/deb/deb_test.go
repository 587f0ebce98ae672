package deb

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected Metadata
		ok       bool
	}{
		{
			name:  "conventional name",
			input: "com.example.foo_1.2.3-1_iphoneos-arm.deb",
			expected: Metadata{
				Package:      "com.example.foo",
				Version:      "1.2.3-1",
				Architecture: "iphoneos-arm",
			},
			ok: true,
		},
		{
			name:  "version with leading v",
			input: "com.example.foo_v1.2.3_iphoneos-arm.deb",
			expected: Metadata{
				Package:      "com.example.foo",
				Version:      "1.2.3",
				Architecture: "iphoneos-arm",
			},
			ok: true,
		},
		{
			name:  "extra suffix after architecture",
			input: "com.example.foo_1.0_iphoneos-arm.whatever-more.deb",
			expected: Metadata{
				Package:      "com.example.foo",
				Version:      "1.0",
				Architecture: "iphoneos-arm",
			},
			ok: true,
		},
		{
			name:  "package id containing underscore",
			input: "com.example_thing_2.0_arm64.deb",
			expected: Metadata{
				Package:      "com.example_thing",
				Version:      "2.0",
				Architecture: "arm64",
			},
			ok: true,
		},
		{
			name:  "not a deb file",
			input: "com.example.foo_1.0_arm.tar.gz",
			ok:    false,
		},
		{
			name:  "too few underscore separated parts",
			input: "com.example.foo_1.0.deb",
			ok:    false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			meta, ok := ParseFilename(tc.input)
			require.Equal(t, tc.ok, ok)
			if tc.ok {
				require.Equal(t, tc.expected, meta)
			}
		})
	}
}

func TestFileDigest(t *testing.T) {
	t.Parallel()

	content := []byte("not a real archive, but hashes all the same")
	path := filepath.Join(t.TempDir(), "com.example.foo_1.0_arm.deb")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	digest, err := FileDigest(path)
	require.NoError(t, err)

	require.Equal(t, int64(len(content)), digest.Size)

	expectedSHA256 := sha256.Sum256(content)
	require.Equal(t, hex.EncodeToString(expectedSHA256[:]), digest.SHA256)
	require.Len(t, digest.MD5, 32)
	require.Len(t, digest.SHA1, 40)
}

func TestFileDigest_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := FileDigest(filepath.Join(t.TempDir(), "missing.deb"))
	require.Error(t, err)
}
