// Package icons resolves per-package icon images by naming convention: a file
// named '<package-id>.<ext>' in the icons directory belongs to that package.
package icons

import (
	"os"
	"path/filepath"
	"strings"
)

// Extensions lists the accepted icon image extensions, in probe order.
// The first match wins.
var Extensions = []string{".png", ".jpg", ".jpeg", ".webp"}

// DefaultDirName is the conventional icons folder name under the repo root.
const DefaultDirName = "icons"

// Resolver locates icon files for package IDs and renders references to them.
// A configured URLPrefix produces absolute URLs; otherwise references are
// relative paths under the repo root, so clients resolve them against the
// repo base URL.
type Resolver struct {
	// Dir is the directory containing per-package icon images.
	Dir string

	// URLPrefix, when set, is prepended to the icon filename to form an
	// absolute URL. Trailing slashes are ignored.
	URLPrefix string
}

// Resolve returns the icon reference for the given package ID, and whether an
// icon file exists. Absence is not an error: a package without an icon simply
// produces no reference.
func (r *Resolver) Resolve(packageID string) (string, bool) {
	name, ok := r.find(packageID)
	if !ok {
		return "", false
	}

	if prefix := strings.TrimRight(strings.TrimSpace(r.URLPrefix), "/"); prefix != "" {
		return prefix + "/" + name, true
	}

	return DefaultDirName + "/" + name, true
}

// Missing reports which of the given package IDs have no icon file.
// Input order is preserved.
func (r *Resolver) Missing(packageIDs []string) []string {
	var missing []string
	for _, id := range packageIDs {
		if _, ok := r.find(id); !ok {
			missing = append(missing, id)
		}
	}

	return missing
}

// find probes the icons directory for '<packageID><ext>' across the allowed
// extensions and returns the matching filename.
func (r *Resolver) find(packageID string) (string, bool) {
	packageID = strings.TrimSpace(packageID)
	if packageID == "" || r.Dir == "" {
		return "", false
	}

	for _, ext := range Extensions {
		name := packageID + ext
		info, err := os.Stat(filepath.Join(r.Dir, name))
		if err != nil || info.IsDir() {
			continue
		}

		return name, true
	}

	return "", false
}
