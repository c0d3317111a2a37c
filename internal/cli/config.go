package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idelchi/dircat/internal/consolidate"
)

// EnvPrefix prefixes the environment variables read by dircat (e.g. DIRCAT_MIN_SIZE).
const EnvPrefix = "DIRCAT"

// Settings is the merged configuration of one invocation.
// Precedence is flag, then environment, then config file, then flag default.
type Settings struct {
	// Debug enables debug logging.
	Debug bool `mapstructure:"debug"`
	// Exclude holds directory names that are never descended into.
	Exclude []string `mapstructure:"exclude"`
	// Patterns holds regular expressions for paths to leave out.
	Patterns []string `mapstructure:"pattern"`
	// Extensions are the suffixes to consolidate.
	Extensions []string `mapstructure:"ext"`
	// Output is the report path.
	Output string `mapstructure:"output"`
	// Depth is the maximum traversal depth (0=unlimited).
	Depth int `mapstructure:"depth"`
	// GitIgnore applies the root .gitignore.
	GitIgnore bool `mapstructure:"gitignore"`
	// MinSize is the large-file threshold in humanized form (e.g. 100MiB).
	MinSize string `mapstructure:"min-size"`
	// Top caps the number of large files shown (0 = all).
	Top int `mapstructure:"top"`
	// Format is the large-file output format.
	Format string `mapstructure:"format"`
	// KeepGoing skips files that cannot be stat'ed.
	KeepGoing bool `mapstructure:"keep-going"`
	// Targets are the split command's configurations.
	Targets []consolidate.Target `mapstructure:"targets"`
}

// loadSettings merges the flags of cmd with the environment and the config file.
// An explicitly requested config file must exist; the default locations are optional.
func loadSettings(cmd *cobra.Command, configFile string) (Settings, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return Settings{}, fmt.Errorf("binding flags: %w", err)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("dircat")
		v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "dircat"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return Settings{}, fmt.Errorf("decoding configuration: %w", err)
	}

	if len(settings.Targets) == 0 {
		settings.Targets = consolidate.DefaultTargets()
	}

	return settings, nil
}
