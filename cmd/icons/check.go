package icons

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/repoforge/repoctl/internal/cmd"
	cmdopts "github.com/repoforge/repoctl/internal/cmd/options"
	"github.com/repoforge/repoctl/internal/cmd/output"
	"github.com/repoforge/repoctl/internal/config"
	"github.com/repoforge/repoctl/internal/flags"
	"github.com/repoforge/repoctl/internal/icons"
	"github.com/repoforge/repoctl/internal/index"
)

// CheckResult reports icon coverage for one package.
type CheckResult struct {
	Package string `json:"package" yaml:"package"`
	Icon    string `json:"icon,omitempty" yaml:"icon,omitempty"`
	Missing bool   `json:"missing" yaml:"missing"`
}

// CheckCmd should be used to represent the 'icons check' command.
type CheckCmd struct {
	*cmd.BaseCmd
	Format        string
	IconsDir      string
	IconURLPrefix string
	MissingOnly   bool
	cfgLoader     config.Loader
}

// NewCheckCmd creates a newly configured (Cobra) command.
func NewCheckCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &CheckCmd{
		BaseCmd:   baseCmd,
		cfgLoader: opts.ConfigLoader,
	}

	cobraCommand := &cobra.Command{
		Use:   "check",
		Short: "Reports which packages in the index have a matching icon image.",
		RunE:  c.run,
	}

	cobraCommand.Flags().StringVar(
		&c.Format,
		"format",
		string(output.FormatText),
		"Output format (text, json, yaml)",
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
		"Absolute URL prefix for icon files (default: icon_url_prefix from config)",
	)

	cobraCommand.Flags().BoolVar(
		&c.MissingOnly,
		"missing-only",
		false,
		"Only report packages without an icon image",
	)

	return cobraCommand, nil
}

// run is configured (via NewCheckCmd) to be called by the Cobra framework when the command is executed.
func (c *CheckCmd) run(cobraCmd *cobra.Command, _ []string) error {
	format, err := output.ParseFormat(c.Format)
	if err != nil {
		return err
	}

	cfg, err := c.cfgLoader.Load(flags.ConfigFile)
	if err != nil {
		return err
	}

	stanzas, err := index.Load(cfg.PackagesPath())
	if err != nil {
		return err
	}

	resolver := c.resolver(cfg)

	seen := make(map[string]struct{})
	var results []CheckResult

	for _, entry := range index.Entries(stanzas) {
		id := strings.TrimSpace(entry.Package)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		ref, found := resolver.Resolve(id)
		if c.MissingOnly && found {
			continue
		}

		results = append(results, CheckResult{
			Package: id,
			Icon:    ref,
			Missing: !found,
		})
	}

	handler, err := output.NewHandler(format, cobraCmd.OutOrStdout(), checkItem)
	if err != nil {
		return err
	}

	return handler.HandleResults(results...)
}

func (c *CheckCmd) resolver(cfg *config.Config) *icons.Resolver {
	dir := cfg.IconsPath()
	if strings.TrimSpace(c.IconsDir) != "" {
		dir = c.IconsDir
	}

	prefix := cfg.IconURLPrefix
	if strings.TrimSpace(c.IconURLPrefix) != "" {
		prefix = c.IconURLPrefix
	}

	return &icons.Resolver{Dir: dir, URLPrefix: prefix}
}

// checkItem renders one check result for text output.
func checkItem(w io.Writer, r CheckResult) error {
	if r.Missing {
		_, err := fmt.Fprintf(w, "✗ %s (no icon)\n", r.Package)
		return err
	}

	_, err := fmt.Fprintf(w, "✓ %s -> %s\n", r.Package, r.Icon)
	return err
}
