package index

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/repoforge/repoctl/internal/control"
	"github.com/repoforge/repoctl/internal/errors"
)

// Entry is a read-only view of one index stanza, exposing the fields repoctl
// reports on.
type Entry struct {
	Package      string `json:"package" yaml:"package"`
	Version      string `json:"version" yaml:"version"`
	Architecture string `json:"architecture,omitempty" yaml:"architecture,omitempty"`
	Filename     string `json:"filename,omitempty" yaml:"filename,omitempty"`
	Size         int64  `json:"size,omitempty" yaml:"size,omitempty"`
	Icon         string `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// Entries parses stanzas into read-only entries, preserving index order.
func Entries(stanzas []string) []Entry {
	entries := make([]Entry, 0, len(stanzas))

	for _, stanza := range stanzas {
		lines := strings.Split(stanza, "\n")
		for i := range lines {
			lines[i] = strings.TrimRight(lines[i], "\r")
		}

		var e Entry
		_, e.Package = control.GetField(lines, "Package")
		_, e.Version = control.GetField(lines, "Version")
		_, e.Architecture = control.GetField(lines, "Architecture")
		_, e.Filename = control.GetField(lines, "Filename")
		_, e.Icon = control.GetField(lines, "Icon")

		if _, size := control.GetField(lines, "Size"); size != "" {
			if n, err := strconv.ParseInt(size, 10, 64); err == nil {
				e.Size = n
			}
		}

		entries = append(entries, e)
	}

	return entries
}

// Load reads and parses the index at path into stanzas.
func Load(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", errors.ErrIndexNotFound, path)
		}
		return nil, fmt.Errorf("failed to read index '%s': %w", path, err)
	}

	return control.ParseStanzas(string(raw)), nil
}
