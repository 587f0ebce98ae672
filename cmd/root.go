package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	iconscmd "github.com/repoforge/repoctl/cmd/icons"
	"github.com/repoforge/repoctl/internal/cmd"
	"github.com/repoforge/repoctl/internal/flags"
)

var version = "dev" // Set at build time using -ldflags

func Execute() error {
	logger, err := configureLogger()
	if err != nil {
		return fmt.Errorf("error configuring logger: %w", err)
	}

	baseCmd := &cmd.BaseCmd{}
	baseCmd.SetLogger(logger)

	rootCmd, err := NewRootCmd(baseCmd)
	if err != nil {
		return fmt.Errorf("error creating root command: %w", err)
	}

	return rootCmd.Execute()
}

func NewRootCmd(baseCmd *cmd.BaseCmd) (*cobra.Command, error) {
	rootCmd := &cobra.Command{
		Use:          "repoctl <command> [args]",
		Short:        "'repoctl' maintains a flat Debian-style package repository.",
		Long:         longDescription(),
		SilenceUsage: true,
		Version:      version,
	}

	// Global flags
	flags.InitFlags(rootCmd.PersistentFlags())

	initCmd, err := NewInitCmd(baseCmd)
	if err != nil {
		return nil, err
	}
	rootCmd.AddCommand(initCmd)

	updateCmd, err := NewUpdateCmd(baseCmd)
	if err != nil {
		return nil, err
	}
	rootCmd.AddCommand(updateCmd)

	fetchCmd, err := NewFetchCmd(baseCmd)
	if err != nil {
		return nil, err
	}
	rootCmd.AddCommand(fetchCmd)

	listCmd, err := NewListCmd(baseCmd)
	if err != nil {
		return nil, err
	}
	rootCmd.AddCommand(listCmd)

	iconsCmd, err := iconscmd.NewIconsCmd(baseCmd)
	if err != nil {
		return nil, err
	}
	rootCmd.AddCommand(iconsCmd)

	serveCmd, err := NewServeCmd(baseCmd)
	if err != nil {
		return nil, err
	}
	rootCmd.AddCommand(serveCmd)

	return rootCmd, nil
}

func longDescription() string {
	return `The 'repoctl' CLI maintains a flat Debian-style package repository:
a Packages index, a folder of .deb archives, and a folder of per-package icons.
It refreshes index metadata from the archives on disk, mirrors archives from
remote repositories, and serves the repository locally for testing.`
}

func configureLogger() (hclog.Logger, error) {
	logPath := strings.TrimSpace(os.Getenv(flags.EnvVarLogPath))

	// If REPOCTL_LOG_PATH is not set, don't log anywhere.
	logOutput := io.Discard

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file (%s): %w", logPath, err)
		}
		logOutput = f
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "repoctl",
		Level:  hclog.LevelFromString(getLogLevel()),
		Output: logOutput,
	})

	return logger, nil
}

func getLogLevel() string {
	lvl := strings.ToLower(os.Getenv(flags.EnvVarLogLevel))
	switch lvl {
	case "trace", "debug", "info", "warn", "error", "off":
		return lvl
	default:
		return "info"
	}
}
