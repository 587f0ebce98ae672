package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/repoforge/repoctl/internal/cmd"
	cmdopts "github.com/repoforge/repoctl/internal/cmd/options"
	"github.com/repoforge/repoctl/internal/config"
	"github.com/repoforge/repoctl/internal/control"
	"github.com/repoforge/repoctl/internal/errors"
	"github.com/repoforge/repoctl/internal/flags"
	"github.com/repoforge/repoctl/internal/icons"
	"github.com/repoforge/repoctl/internal/index"
)

// UpdateCmd should be used to represent the 'update' command.
type UpdateCmd struct {
	*cmd.BaseCmd
	Only          []string
	FixMetadata   bool
	AddIcons      bool
	IconsDir      string
	IconURLPrefix string
	NoCompress    bool
	DryRun        bool
	Verbose       bool
	cfgLoader     config.Loader
}

// NewUpdateCmd creates a newly configured (Cobra) command.
func NewUpdateCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &UpdateCmd{
		BaseCmd:   baseCmd,
		cfgLoader: opts.ConfigLoader,
	}

	cobraCommand := &cobra.Command{
		Use:   "update",
		Short: "Updates the Packages index from the .deb archives on disk.",
		Long:  c.longDescription(),
		RunE:  c.run,
	}

	cobraCommand.Flags().StringArrayVar(
		&c.Only,
		"only",
		nil,
		"Only update stanzas for these archive basenames (can be repeated)",
	)

	cobraCommand.Flags().BoolVar(
		&c.FixMetadata,
		"fix-metadata",
		false,
		"Align Package/Version/Architecture fields with the archive filename when mismatched",
	)

	cobraCommand.Flags().BoolVar(
		&c.AddIcons,
		"add-icons",
		false,
		"Set an Icon reference on each package with a matching icon image",
	)

	cobraCommand.Flags().StringVar(
		&c.IconsDir,
		"icons-dir",
		"",
		"Directory containing per-package icon images (default: icons dir from config)",
	)

	cobraCommand.Flags().StringVar(
		&c.IconURLPrefix,
		"icon-url-prefix",
		"",
		"Absolute URL prefix for icon files, e.g. https://example.com/repo/icons. If omitted, a relative icons/<file> path is used",
	)

	cobraCommand.Flags().BoolVar(
		&c.NoCompress,
		"no-compress",
		false,
		"Do not write compressed index variants",
	)

	cobraCommand.Flags().BoolVar(
		&c.DryRun,
		"dry-run",
		false,
		"Show planned changes without writing files",
	)

	cobraCommand.Flags().BoolVarP(
		&c.Verbose,
		"verbose",
		"v",
		false,
		"Verbose output",
	)

	return cobraCommand, nil
}

// longDescription returns the long version of the command description.
func (c *UpdateCmd) longDescription() string {
	return `Updates the Packages index from the .deb archives on disk: refreshes sizes and
checksums, optionally realigns stanza metadata with archive filenames, wires
icon references, and rewrites the index along with its compressed variants.
The previous index is kept as Packages.bak.`
}

// run is configured (via NewUpdateCmd) to be called by the Cobra framework when the command is executed.
func (c *UpdateCmd) run(cobraCmd *cobra.Command, _ []string) error {
	logger := c.Logger()
	out := cobraCmd.OutOrStdout()

	cfg, err := c.cfgLoader.Load(flags.ConfigFile)
	if err != nil {
		return err
	}

	if _, err := os.Stat(cfg.PackagesPath()); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", errors.ErrIndexNotFound, cfg.PackagesPath())
	}
	if _, err := os.Stat(cfg.DebsPath()); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", errors.ErrDebsDirNotFound, cfg.DebsPath())
	}

	stanzas, err := index.Load(cfg.PackagesPath())
	if err != nil {
		return err
	}

	resolver := c.iconResolver(cfg)

	planner := index.NewPlanner(logger)
	result, err := planner.Build(stanzas, index.PlanOptions{
		DebsDir:      cfg.DebsPath(),
		Only:         c.Only,
		FixMetadata:  c.FixMetadata,
		AddIcons:     c.AddIcons,
		IconResolver: resolver,
	})
	if err != nil {
		return err
	}

	if c.Verbose {
		for _, skipped := range result.Skipped {
			_, _ = fmt.Fprintf(out, "[skip] missing deb: %s\n", skipped)
		}
	}

	if len(result.Plans) == 0 {
		_, _ = fmt.Fprintln(out, "No stanzas matched deb files or --only selection; nothing to do.")
		return nil
	}

	if c.Verbose || c.DryRun {
		for _, plan := range result.Plans {
			_, _ = fmt.Fprintln(out, plan.Summary())
		}
	}

	stanzas = index.ApplyPlans(stanzas, result.Plans)
	content := control.JoinStanzas(stanzas)

	if c.DryRun {
		_, _ = fmt.Fprintln(out, "\n[dry-run] No files were written.")
		return nil
	}

	writeResult, err := index.Write(cfg.PackagesPath(), content, index.WriteOptions{
		Gzip:  !c.NoCompress && cfg.CompressGzip(),
		Bzip2: !c.NoCompress && cfg.CompressBzip2(),
	})
	if err != nil {
		return err
	}

	logger.Info(
		"Updated packages index",
		"plans", len(result.Plans),
		"skipped", len(result.Skipped),
		"written", strings.Join(writeResult.Written, ","),
	)

	// User-friendly output + logging
	_, err = fmt.Fprintf(
		out,
		"✓ Updated %d package(s)\nWrote: %s\n",
		len(result.Plans),
		strings.Join(writeResult.Written, ", "),
	)

	return err
}

// iconResolver builds the resolver used for icon wiring. Flags override the
// corresponding config values.
func (c *UpdateCmd) iconResolver(cfg *config.Config) *icons.Resolver {
	dir := cfg.IconsPath()
	if strings.TrimSpace(c.IconsDir) != "" {
		dir = c.IconsDir
	}

	prefix := cfg.IconURLPrefix
	if strings.TrimSpace(c.IconURLPrefix) != "" {
		prefix = c.IconURLPrefix
	}

	return &icons.Resolver{
		Dir:       dir,
		URLPrefix: prefix,
	}
}
