// Package icons groups the icon-related subcommands under 'repoctl icons'.
package icons

import (
	"github.com/spf13/cobra"

	"github.com/repoforge/repoctl/internal/cmd"
	cmdopts "github.com/repoforge/repoctl/internal/cmd/options"
)

// NewIconsCmd creates the 'icons' command group.
func NewIconsCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	cobraCommand := &cobra.Command{
		Use:   "icons <subcommand>",
		Short: "Inspect per-package icon images.",
	}

	checkCmd, err := NewCheckCmd(baseCmd, opt...)
	if err != nil {
		return nil, err
	}
	cobraCommand.AddCommand(checkCmd)

	return cobraCommand, nil
}
