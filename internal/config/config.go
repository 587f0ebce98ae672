package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/repoforge/repoctl/internal/icons"
	"github.com/repoforge/repoctl/internal/perms"
)

// Defaults for a freshly initialized repository.
const (
	DefaultPackagesFile = "Packages"
	DefaultDebsDir      = "debs"
)

// allowedCompress are the compressed index variants repoctl can write.
var allowedCompress = []string{"gz", "bz2"}

// Init creates the base skeleton configuration file for a repoctl repository.
func (d *DefaultLoader) Init(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	content := fmt.Sprintf(
		"packages = %q\ndebs_dir = %q\nicons_dir = %q\ncompress = [\"gz\", \"bz2\"]\n",
		DefaultPackagesFile,
		DefaultDebsDir,
		icons.DefaultDirName,
	)

	if err := os.WriteFile(path, []byte(content), perms.RegularFile); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

func (d *DefaultLoader) Load(path string) (*Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: path cannot be empty", ErrConfigLoadFailed)
	}

	_, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: config file cannot be found, run: 'repoctl init'", ErrConfigLoadFailed)
		}
		return nil, fmt.Errorf("%w: failed to stat config file (%s): %w", ErrConfigLoadFailed, path, err)
	}

	var cfg *Config
	_, err = toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode config from file (%s): %w", ErrConfigLoadFailed, path, err)
	}
	if cfg == nil {
		return nil, fmt.Errorf("%w: config file is empty (%s)", ErrConfigLoadFailed, path)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%w: failed to validate config (%s): %w", ErrConfigLoadFailed, path, err)
	}

	// Update the path that loaded this file to track it.
	cfg.configFilePath = path

	return cfg, nil
}

// applyDefaults fills in conventional values for fields the file omits.
func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.Packages) == "" {
		c.Packages = DefaultPackagesFile
	}
	if strings.TrimSpace(c.DebsDir) == "" {
		c.DebsDir = DefaultDebsDir
	}
	if strings.TrimSpace(c.IconsDir) == "" {
		c.IconsDir = icons.DefaultDirName
	}
	if c.Compress == nil {
		c.Compress = slices.Clone(allowedCompress)
	}
}

func (c *Config) validate() error {
	for _, v := range c.Compress {
		if !slices.Contains(allowedCompress, v) {
			return fmt.Errorf(
				"unsupported compress variant '%s' (allowed: %s)",
				v,
				strings.Join(allowedCompress, ", "),
			)
		}
	}

	return nil
}

// CompressGzip reports whether the gzip index variant should be written.
func (c *Config) CompressGzip() bool {
	return slices.Contains(c.Compress, "gz")
}

// CompressBzip2 reports whether the bzip2 index variant should be written.
func (c *Config) CompressBzip2() bool {
	return slices.Contains(c.Compress, "bz2")
}
