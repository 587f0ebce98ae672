// Package control implements a minimal codec for the flat Debian control
// format used by the Packages index: stanzas of "Key: value" lines separated
// by blank lines. Line endings are normalized to CRLF on output, which some
// package manager clients require.
package control

import (
	"regexp"
	"strings"
)

// EOL is the line ending written to the Packages index.
const EOL = "\r\n"

var (
	stanzaSep  = regexp.MustCompile(`(?:\r?\n){2,}`)
	fieldStart = regexp.MustCompile(`^\s*([^:]+)\s*:\s*`)
)

// ParseStanzas splits raw index content into stanzas, dropping empty chunks.
// Stanza order is preserved.
func ParseStanzas(text string) []string {
	parts := stanzaSep.Split(text, -1)

	stanzas := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			stanzas = append(stanzas, p)
		}
	}

	return stanzas
}

// JoinStanzas renders stanzas back into index content: one blank line between
// stanzas, CRLF line endings, and a trailing newline.
func JoinStanzas(stanzas []string) string {
	trimmed := make([]string, 0, len(stanzas))
	for _, s := range stanzas {
		trimmed = append(trimmed, strings.TrimSpace(s))
	}

	return strings.Join(trimmed, EOL+EOL) + EOL
}

// GetField returns the index of the first line matching the given key
// (case-insensitive) and its trimmed value. Returns (-1, "") when absent.
func GetField(lines []string, key string) (int, string) {
	pattern := regexp.MustCompile(`(?i)^\s*` + regexp.QuoteMeta(key) + `\s*:\s*(.+)$`)
	for i, ln := range lines {
		if m := pattern.FindStringSubmatch(ln); m != nil {
			return i, strings.TrimSpace(m[1])
		}
	}

	return -1, ""
}

// SetField replaces the first line carrying the given key, or appends a new
// line when the key is not present.
func SetField(lines []string, key, value string) []string {
	line := key + ": " + value

	idx, _ := GetField(lines, key)
	if idx == -1 {
		return append(lines, line)
	}

	lines[idx] = line

	return lines
}

// RemoveFields drops every line whose key matches one of the given keys
// (case-insensitive).
func RemoveFields(lines []string, keys ...string) []string {
	drop := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		drop[strings.ToLower(k)] = struct{}{}
	}

	out := make([]string, 0, len(lines))
	for _, ln := range lines {
		if m := fieldStart.FindStringSubmatch(ln); m != nil {
			if _, ok := drop[strings.ToLower(strings.TrimSpace(m[1]))]; ok {
				continue
			}
		}
		out = append(out, ln)
	}

	return out
}
