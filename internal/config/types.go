package config

import (
	"path/filepath"
)

var (
	_ Provider = (*DefaultLoader)(nil)
)

type Loader interface {
	Load(path string) (*Config, error)
}

type Initializer interface {
	Init(path string) error
}

type Provider interface {
	Initializer
	Loader
}

type DefaultLoader struct{}

// Config represents the .repoctl.toml file structure. All paths are relative
// to the directory containing the config file unless absolute.
type Config struct {
	// Packages is the path to the Packages index file.
	Packages string `toml:"packages"`

	// DebsDir is the directory holding .deb archives.
	DebsDir string `toml:"debs_dir"`

	// IconsDir is the directory holding per-package icon images.
	IconsDir string `toml:"icons_dir"`

	// IconURLPrefix, when set, makes icon references absolute URLs.
	IconURLPrefix string `toml:"icon_url_prefix,omitempty"`

	// Compress lists the compressed index variants to write ("gz", "bz2").
	Compress []string `toml:"compress"`

	// BaseURL is the default remote repository URL for 'repoctl fetch'.
	BaseURL string `toml:"base_url,omitempty"`

	configFilePath string `toml:"-"`
}

// Dir returns the directory containing the loaded config file, which anchors
// all relative paths in the config.
func (c *Config) Dir() string {
	return filepath.Dir(c.configFilePath)
}

// PackagesPath returns the absolute path to the Packages index.
func (c *Config) PackagesPath() string {
	return c.resolve(c.Packages)
}

// DebsPath returns the absolute path to the debs directory.
func (c *Config) DebsPath() string {
	return c.resolve(c.DebsDir)
}

// IconsPath returns the absolute path to the icons directory.
func (c *Config) IconsPath() string {
	return c.resolve(c.IconsDir)
}

func (c *Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}
