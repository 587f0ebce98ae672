package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repoforge/repoctl/internal/errors"
)

func TestEntries(t *testing.T) {
	t.Parallel()

	stanzas := []string{
		"Package: com.example.foo\r\nVersion: 1.0\r\nArchitecture: iphoneos-arm\r\nFilename: ./debs/com.example.foo_1.0_iphoneos-arm.deb\r\nSize: 1234\r\nIcon: icons/com.example.foo.png",
		"Package: com.example.bare\nVersion: 2.0",
		"Description: no package field at all",
	}

	entries := Entries(stanzas)
	require.Len(t, entries, 3)

	assert.Equal(t, Entry{
		Package:      "com.example.foo",
		Version:      "1.0",
		Architecture: "iphoneos-arm",
		Filename:     "./debs/com.example.foo_1.0_iphoneos-arm.deb",
		Size:         1234,
		Icon:         "icons/com.example.foo.png",
	}, entries[0])

	assert.Equal(t, Entry{Package: "com.example.bare", Version: "2.0"}, entries[1])
	assert.Empty(t, entries[2].Package)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("parses stanzas from file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "Packages")
		require.NoError(t, os.WriteFile(path, []byte("Package: a\r\n\r\nPackage: b\r\n"), 0o644))

		stanzas, err := Load(path)
		require.NoError(t, err)
		assert.Len(t, stanzas, 2)
	})

	t.Run("missing index", func(t *testing.T) {
		t.Parallel()

		_, err := Load(filepath.Join(t.TempDir(), "Packages"))
		require.Error(t, err)
		require.ErrorIs(t, err, errors.ErrIndexNotFound)
	})
}
