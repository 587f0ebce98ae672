package control

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseStanzas(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{
			name:     "two stanzas separated by blank line",
			input:    "Package: a\nVersion: 1.0\n\nPackage: b\nVersion: 2.0\n",
			expected: 2,
		},
		{
			name:     "CRLF separators",
			input:    "Package: a\r\nVersion: 1.0\r\n\r\nPackage: b\r\n",
			expected: 2,
		},
		{
			name:     "multiple blank lines collapse",
			input:    "Package: a\n\n\n\nPackage: b\n",
			expected: 2,
		},
		{
			name:     "whitespace only input",
			input:    "  \n\n \r\n",
			expected: 0,
		},
		{
			name:     "single stanza without trailing newline",
			input:    "Package: a\nVersion: 1.0",
			expected: 1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			stanzas := ParseStanzas(tc.input)
			require.Len(t, stanzas, tc.expected)
		})
	}
}

func TestJoinStanzas_RoundTrip(t *testing.T) {
	t.Parallel()

	input := "Package: a\r\nVersion: 1.0\r\n\r\nPackage: b\r\nVersion: 2.0\r\n"
	stanzas := ParseStanzas(input)
	out := JoinStanzas(stanzas)

	require.Equal(t, input, out)
	require.True(t, strings.HasSuffix(out, EOL))
	require.NotContains(t, strings.ReplaceAll(out, EOL, ""), "\n")
}

func TestGetField(t *testing.T) {
	t.Parallel()

	lines := []string{
		"Package: com.example.foo",
		"Version: 1.2.3",
		"  Architecture :  iphoneos-arm  ",
	}

	tests := []struct {
		name          string
		key           string
		expectedIdx   int
		expectedValue string
	}{
		{
			name:          "exact key",
			key:           "Version",
			expectedIdx:   1,
			expectedValue: "1.2.3",
		},
		{
			name:          "case insensitive key",
			key:           "package",
			expectedIdx:   0,
			expectedValue: "com.example.foo",
		},
		{
			name:          "surrounding whitespace tolerated",
			key:           "Architecture",
			expectedIdx:   2,
			expectedValue: "iphoneos-arm",
		},
		{
			name:        "missing key",
			key:         "Icon",
			expectedIdx: -1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			idx, val := GetField(lines, tc.key)
			require.Equal(t, tc.expectedIdx, idx)
			require.Equal(t, tc.expectedValue, val)
		})
	}
}

func TestSetField(t *testing.T) {
	t.Parallel()

	t.Run("replaces existing line in place", func(t *testing.T) {
		t.Parallel()

		lines := []string{"Package: a", "Version: 1.0"}
		lines = SetField(lines, "Version", "2.0")

		require.Equal(t, []string{"Package: a", "Version: 2.0"}, lines)
	})

	t.Run("appends missing key", func(t *testing.T) {
		t.Parallel()

		lines := []string{"Package: a"}
		lines = SetField(lines, "Icon", "icons/a.png")

		require.Equal(t, []string{"Package: a", "Icon: icons/a.png"}, lines)
	})
}

func TestRemoveFields(t *testing.T) {
	t.Parallel()

	lines := []string{
		"Package: a",
		"Size: 123",
		"MD5sum: abc",
		"SHA1: def",
		"SHA256: ghi",
		"Description: keeps hashes out of it",
	}

	out := RemoveFields(lines, "Size", "MD5sum", "SHA1", "SHA256")

	require.Equal(t, []string{"Package: a", "Description: keeps hashes out of it"}, out)
}
