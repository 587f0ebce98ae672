package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/repoforge/repoctl/internal/cmd"
	cmdopts "github.com/repoforge/repoctl/internal/cmd/options"
	"github.com/repoforge/repoctl/internal/config"
	"github.com/repoforge/repoctl/internal/files"
	"github.com/repoforge/repoctl/internal/flags"
	"github.com/repoforge/repoctl/internal/perms"
)

// InitCmd should be used to represent the 'init' command.
type InitCmd struct {
	*cmd.BaseCmd
	cfgInitializer config.Initializer
	cfgLoader      config.Loader
}

// NewInitCmd creates a newly configured (Cobra) command.
func NewInitCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &InitCmd{
		BaseCmd:        baseCmd,
		cfgInitializer: opts.ConfigInitializer,
		cfgLoader:      opts.ConfigLoader,
	}

	cobraCommand := &cobra.Command{
		Use:   "init",
		Short: "Initializes a repoctl repository in the current directory.",
		Long: `Initializes a repoctl repository: writes a skeleton config file and creates
the debs and icons directories along with an empty Packages index.`,
		RunE: c.run,
	}

	return cobraCommand, nil
}

func (c *InitCmd) run(cobraCmd *cobra.Command, _ []string) error {
	logger := c.Logger()

	path := flags.ConfigFile
	if err := c.cfgInitializer.Init(path); err != nil {
		return err
	}

	cfg, err := c.cfgLoader.Load(path)
	if err != nil {
		return err
	}

	for _, dir := range []string{cfg.DebsPath(), cfg.IconsPath()} {
		if err := files.EnsureAtLeastRegularDir(dir); err != nil {
			return err
		}
	}

	if _, err := os.Stat(cfg.PackagesPath()); os.IsNotExist(err) {
		if err := os.WriteFile(cfg.PackagesPath(), nil, perms.RegularFile); err != nil {
			return fmt.Errorf("failed to create index '%s': %w", cfg.PackagesPath(), err)
		}
	}

	logger.Info("Initialized repository", "config", path)

	_, err = fmt.Fprintf(
		cobraCmd.OutOrStdout(),
		"✓ Initialized repository (config: %s, debs: %s, icons: %s)\n",
		path,
		filepath.Base(cfg.DebsPath()),
		filepath.Base(cfg.IconsPath()),
	)

	return err
}
