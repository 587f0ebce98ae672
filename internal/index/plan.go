// Package index plans and applies updates to the Packages index: refreshing
// archive sizes and checksums, realigning stanza metadata with the archive
// filenames on disk, and wiring per-package icon references.
package index

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/repoforge/repoctl/internal/control"
	"github.com/repoforge/repoctl/internal/deb"
	"github.com/repoforge/repoctl/internal/icons"
)

// Plan captures the pending changes for a single stanza. Zero-valued fix
// fields mean the corresponding stanza line is left alone.
type Plan struct {
	// StanzaIndex is the position of the stanza in the parsed index.
	StanzaIndex int

	// Filename is the basename of the archive the stanza describes, after any
	// same-stem resolution.
	Filename string

	// Digest holds the refreshed size and checksums for the archive.
	Digest deb.Digest

	// FixPackage, FixVersion and FixArchitecture realign stanza metadata with
	// the archive filename when requested and mismatched.
	FixPackage      string
	FixVersion      string
	FixArchitecture string

	// FixFilename rewrites the stanza's Filename field when the exact archive
	// was missing but a same-stem candidate exists.
	FixFilename string

	// IconRef is the icon reference to set, when icon wiring is enabled and a
	// matching icon file exists.
	IconRef string
}

// Summary renders a single-line human readable description of the plan.
func (p Plan) Summary() string {
	var b strings.Builder

	md5Short := p.Digest.MD5
	if len(md5Short) > 8 {
		md5Short = md5Short[:8]
	}

	fmt.Fprintf(&b, "[update] %s size=%d md5=%s...", p.Filename, p.Digest.Size, md5Short)

	if p.FixPackage != "" || p.FixVersion != "" || p.FixArchitecture != "" {
		fmt.Fprintf(&b, " fix: pkg=%s ver=%s arch=%s", p.FixPackage, p.FixVersion, p.FixArchitecture)
	}
	if p.FixFilename != "" {
		fmt.Fprintf(&b, " filename->%s", p.FixFilename)
	}
	if p.IconRef != "" {
		fmt.Fprintf(&b, " icon=%s", p.IconRef)
	}

	return b.String()
}

// PlanOptions controls how plans are built.
type PlanOptions struct {
	// DebsDir is the directory containing .deb archives.
	DebsDir string

	// Only restricts planning to the given archive basenames. Empty means all.
	Only []string

	// FixMetadata realigns Package/Version/Architecture fields with the
	// archive filename.
	FixMetadata bool

	// AddIcons wires Icon references using the supplied resolver.
	AddIcons bool

	// IconResolver locates icon files. Required when AddIcons is set.
	IconResolver *icons.Resolver
}

// BuildResult is the outcome of planning a full index pass.
type BuildResult struct {
	// Plans holds one entry per stanza that will be updated.
	Plans []Plan

	// Skipped lists archive basenames referenced by the index but missing on disk.
	Skipped []string
}

// Planner builds update plans for index stanzas.
// NewPlanner should be used to create instances of Planner.
type Planner struct {
	logger hclog.Logger
}

// NewPlanner creates a planner that logs its decisions to the given logger.
func NewPlanner(logger hclog.Logger) *Planner {
	return &Planner{
		logger: logger.Named("planner"),
	}
}

// Build walks the stanzas and produces a plan for every one whose archive can
// be located. Stanzas without a Filename field, stanzas excluded by the Only
// selection, and stanzas whose archive is missing are left untouched.
func (p *Planner) Build(stanzas []string, opts PlanOptions) (BuildResult, error) {
	var result BuildResult

	only := make(map[string]struct{}, len(opts.Only))
	for _, o := range opts.Only {
		only[o] = struct{}{}
	}

	for i, stanza := range stanzas {
		lines := strings.Split(stanza, "\n")
		for j := range lines {
			lines[j] = strings.TrimRight(lines[j], "\r")
		}

		_, filenameField := control.GetField(lines, "Filename")
		if filenameField == "" {
			p.logger.Debug("Stanza has no Filename field", "stanza", i)
			continue
		}

		debName := filepath.Base(filenameField)
		if len(only) > 0 {
			if _, ok := only[debName]; !ok {
				continue
			}
		}

		debPath := filepath.Join(opts.DebsDir, debName)
		actualName := debName
		fixFilename := ""

		if _, err := os.Stat(debPath); err != nil {
			resolvedPath, resolvedName, ok := p.resolveSameStem(opts.DebsDir, debName)
			if !ok {
				p.logger.Info("Missing archive, skipping stanza", "deb", debName)
				result.Skipped = append(result.Skipped, debName)
				continue
			}

			p.logger.Debug("Resolved archive by stem", "requested", debName, "actual", resolvedName)
			debPath = resolvedPath
			actualName = resolvedName
			fixFilename = "./" + filepath.ToSlash(filepath.Join("debs", actualName))
		}

		digest, err := deb.FileDigest(debPath)
		if err != nil {
			return BuildResult{}, err
		}

		plan := Plan{
			StanzaIndex: i,
			Filename:    actualName,
			Digest:      digest,
			FixFilename: fixFilename,
		}

		packageID := p.applyMetadataFixes(&plan, lines, actualName, opts.FixMetadata)

		if opts.AddIcons && opts.IconResolver != nil {
			if ref, ok := opts.IconResolver.Resolve(packageID); ok {
				plan.IconRef = ref
			}
		}

		result.Plans = append(result.Plans, plan)
	}

	return result, nil
}

// resolveSameStem looks for an archive sharing the requested name's stem but
// carrying extra suffixes. The first candidate in sorted order wins.
func (p *Planner) resolveSameStem(debsDir, debName string) (string, string, bool) {
	if !strings.HasSuffix(debName, deb.Extension) {
		return "", "", false
	}

	stem := strings.TrimSuffix(debName, deb.Extension)
	candidates, err := filepath.Glob(filepath.Join(debsDir, stem+"*"+deb.Extension))
	if err != nil || len(candidates) == 0 {
		return "", "", false
	}

	slices.Sort(candidates)

	return candidates[0], filepath.Base(candidates[0]), true
}

// applyMetadataFixes records metadata realignments on the plan and returns the
// package ID to use for icon resolution. When fixing is disabled the existing
// Package field is used as-is.
func (p *Planner) applyMetadataFixes(plan *Plan, lines []string, actualName string, fix bool) string {
	_, currentPackage := control.GetField(lines, "Package")

	if !fix {
		return currentPackage
	}

	meta, ok := deb.ParseFilename(actualName)
	if !ok {
		// Unconventional archive name: fall back to the existing Package field.
		return currentPackage
	}

	_, currentVersion := control.GetField(lines, "Version")
	_, currentArch := control.GetField(lines, "Architecture")

	if currentPackage != meta.Package {
		plan.FixPackage = meta.Package
	}
	if currentVersion != meta.Version {
		plan.FixVersion = meta.Version
	}
	if currentArch != meta.Architecture {
		plan.FixArchitecture = meta.Architecture
	}

	return meta.Package
}
