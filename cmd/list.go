package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/repoforge/repoctl/internal/cmd"
	cmdopts "github.com/repoforge/repoctl/internal/cmd/options"
	"github.com/repoforge/repoctl/internal/cmd/output"
	"github.com/repoforge/repoctl/internal/config"
	"github.com/repoforge/repoctl/internal/flags"
	"github.com/repoforge/repoctl/internal/index"
)

// ListCmd should be used to represent the 'list' command.
type ListCmd struct {
	*cmd.BaseCmd
	Format    string
	cfgLoader config.Loader
}

// NewListCmd creates a newly configured (Cobra) command.
func NewListCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &ListCmd{
		BaseCmd:   baseCmd,
		cfgLoader: opts.ConfigLoader,
	}

	cobraCommand := &cobra.Command{
		Use:   "list",
		Short: "Lists the packages in the Packages index.",
		RunE:  c.run,
	}

	cobraCommand.Flags().StringVar(
		&c.Format,
		"format",
		string(output.FormatText),
		"Output format (text, json, yaml)",
	)

	return cobraCommand, nil
}

// run is configured (via NewListCmd) to be called by the Cobra framework when the command is executed.
func (c *ListCmd) run(cobraCmd *cobra.Command, _ []string) error {
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

	handler, err := output.NewHandler(format, cobraCmd.OutOrStdout(), listItem)
	if err != nil {
		return err
	}

	return handler.HandleResults(index.Entries(stanzas)...)
}

// listItem renders one index entry for text output.
func listItem(w io.Writer, e index.Entry) error {
	line := fmt.Sprintf("%s %s (%s)", e.Package, e.Version, e.Architecture)
	if e.Icon != "" {
		line += " icon=" + e.Icon
	}

	_, err := fmt.Fprintln(w, line)
	return err
}
