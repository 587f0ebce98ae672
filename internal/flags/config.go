// Package flags wires the global CLI flags and their environment fallbacks.
// Values resolve as flag, then environment variable, then built-in default.
package flags

import (
	"os"
	"strings"

	"github.com/spf13/pflag"
)

const (
	// Env vars
	EnvVarConfigFile = "REPOCTL_CONFIG_FILE"
	EnvVarLogPath    = "REPOCTL_LOG_PATH"
	EnvVarLogLevel   = "REPOCTL_LOG_LEVEL"

	// Defaults
	DefaultConfigFile = ".repoctl.toml"
	DefaultLogLevel   = "info"

	// Flag names
	FlagNameConfigFile = "config-file"
	FlagNameLogPath    = "log-path"
	FlagNameLogLevel   = "log-level"
)

// Globals backing the persistent flags. Commands read these after parsing.
var (
	ConfigFile string
	LogPath    string
	LogLevel   string
)

// InitFlags registers the global flags on the given flag set, seeding each
// from its environment variable when the global is still unset.
func InitFlags(fs *pflag.FlagSet) {
	seed(&ConfigFile, EnvVarConfigFile, DefaultConfigFile, false)
	fs.StringVar(&ConfigFile, FlagNameConfigFile, ConfigFile, "path to the repository config file")

	seed(&LogPath, EnvVarLogPath, "", false)
	fs.StringVar(&LogPath, FlagNameLogPath, LogPath, "path to the generated log file")

	seed(&LogLevel, EnvVarLogLevel, DefaultLogLevel, true)
	fs.StringVar(&LogLevel, FlagNameLogLevel, LogLevel, "log level for repoctl logs")
}

func seed(target *string, envVar, fallback string, lower bool) {
	if *target != "" {
		return
	}

	v := strings.TrimSpace(os.Getenv(envVar))
	if v == "" {
		v = fallback
	}
	if lower {
		v = strings.ToLower(v)
	}

	*target = v
}
