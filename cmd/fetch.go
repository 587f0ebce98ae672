package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/repoforge/repoctl/internal/cmd"
	cmdopts "github.com/repoforge/repoctl/internal/cmd/options"
	"github.com/repoforge/repoctl/internal/config"
	"github.com/repoforge/repoctl/internal/fetch"
	"github.com/repoforge/repoctl/internal/flags"
)

// FetchCmd should be used to represent the 'fetch' command.
type FetchCmd struct {
	*cmd.BaseCmd
	BaseURL      string
	PackagesURL  string
	Scrape       bool
	Dest         string
	SkipExisting bool
	Concurrency  int
	Timeout      time.Duration
	Retries      int
	cfgLoader    config.Loader
}

// NewFetchCmd creates a newly configured (Cobra) command.
func NewFetchCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &FetchCmd{
		BaseCmd:   baseCmd,
		cfgLoader: opts.ConfigLoader,
	}

	cobraCommand := &cobra.Command{
		Use:   "fetch",
		Short: "Mirrors .deb archives from a remote repository.",
		Long: `Mirrors .deb archives from a remote flat repository: fetches its Packages
index (compressed or plain), downloads every referenced archive, and can
additionally scrape the repository's directory listing for archives the index
does not mention.`,
		RunE: c.run,
	}

	cobraCommand.Flags().StringVar(
		&c.BaseURL,
		"base-url",
		"",
		"Base URL of the remote repository (default: base_url from config)",
	)

	cobraCommand.Flags().StringVar(
		&c.PackagesURL,
		"packages-url",
		"",
		"Optional, explicit URL of the remote Packages index",
	)

	cobraCommand.Flags().BoolVar(
		&c.Scrape,
		"scrape",
		false,
		"Also scrape the repository's HTML directory listing for .deb links",
	)

	cobraCommand.Flags().StringVar(
		&c.Dest,
		"dest",
		"",
		"Destination directory for downloads (default: debs dir from config)",
	)

	cobraCommand.Flags().BoolVar(
		&c.SkipExisting,
		"skip-existing",
		true,
		"Skip archives that already exist in the destination",
	)

	cobraCommand.Flags().IntVar(
		&c.Concurrency,
		"concurrency",
		4,
		"Number of simultaneous downloads",
	)

	cobraCommand.Flags().DurationVar(
		&c.Timeout,
		"timeout",
		20*time.Second,
		"Per-request timeout",
	)

	cobraCommand.Flags().IntVar(
		&c.Retries,
		"retries",
		2,
		"Number of retries after a failed request",
	)

	return cobraCommand, nil
}

// run is configured (via NewFetchCmd) to be called by the Cobra framework when the command is executed.
func (c *FetchCmd) run(cobraCmd *cobra.Command, _ []string) error {
	logger := c.Logger()
	out := cobraCmd.OutOrStdout()

	baseURL, dest := c.BaseURL, c.Dest

	// The config file is optional for fetch: flags alone can drive a mirror.
	if cfg, err := c.cfgLoader.Load(flags.ConfigFile); err == nil {
		if baseURL == "" {
			baseURL = cfg.BaseURL
		}
		if dest == "" {
			dest = cfg.DebsPath()
		}
	}

	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" && strings.TrimSpace(c.PackagesURL) == "" {
		return fmt.Errorf("a remote repository is required: set --base-url (or base_url in config), or --packages-url")
	}
	if dest == "" {
		dest = config.DefaultDebsDir
	}

	client, err := fetch.NewClient(
		logger,
		fetch.WithTimeout(c.Timeout),
		fetch.WithRetries(c.Retries),
	)
	if err != nil {
		return err
	}

	ctx := cobraCmd.Context()

	srcURL, text, err := client.PackagesIndex(ctx, baseURL, strings.TrimSpace(c.PackagesURL))
	if err != nil {
		return err
	}

	paths := fetch.ParseFilenames(text)
	_, _ = fmt.Fprintf(out, "Index %s lists %d archive(s)\n", srcURL, len(paths))

	if c.Scrape {
		links, err := client.ScrapeDebLinks(ctx, baseURL)
		if err != nil {
			logger.Warn("Listing scrape failed", "url", baseURL, "error", err)
		} else {
			paths = mergeUnique(paths, links)
		}
	}

	if len(paths) == 0 {
		_, _ = fmt.Fprintln(out, "No archives to download.")
		return nil
	}

	summary, err := client.DownloadAll(ctx, baseURL, paths, fetch.DownloadOptions{
		Dest:         dest,
		Concurrency:  c.Concurrency,
		SkipExisting: c.SkipExisting,
	})

	_, _ = fmt.Fprintf(
		out,
		"✓ Downloaded %d, skipped %d, failed %d (dest: %s)\n",
		len(summary.Downloaded),
		len(summary.Skipped),
		len(summary.Failed),
		dest,
	)

	return err
}

// mergeUnique appends items from extra that are not already present, keeping order.
func mergeUnique(base, extra []string) []string {
	seen := make(map[string]struct{}, len(base))
	for _, b := range base {
		seen[b] = struct{}{}
	}

	for _, e := range extra {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		base = append(base, e)
	}

	return base
}
