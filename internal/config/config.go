// Package config loads optional site configuration for the probes.
//
// Diagnostic binary names and install locations vary between AFS
// distributions, so both can be overridden from a config file without
// touching the scheduler's command definitions.
package config

import (
	"errors"
	"os"

	"github.com/spf13/viper"
)

// Site holds the site-wide probe configuration. The zero value means
// "use built-in defaults" everywhere.
type Site struct {
	// Commands maps a diagnostic name (rxdebug, vos, bos, udebug) to an
	// absolute path overriding the search.
	Commands map[string]string `mapstructure:"commands"`

	// SearchPaths replaces the built-in list of install directories.
	SearchPaths []string `mapstructure:"search_paths"`

	// Cell is the default AFS cell passed to vos and bos when the
	// command line does not name one.
	Cell string `mapstructure:"cell"`
}

// Load reads the site configuration from $AFSMON_CONFIG if set, otherwise
// from /etc/afsmon/afsmon.yaml. A missing file is not an error.
func Load() (*Site, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if path := os.Getenv("AFSMON_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("afsmon")
		v.AddConfigPath("/etc/afsmon")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || os.IsNotExist(err) {
			return &Site{}, nil
		}
		return nil, err
	}

	var site Site
	if err := v.Unmarshal(&site); err != nil {
		return nil, err
	}
	return &site, nil
}

// CommandOverride returns the configured path for a diagnostic, or the
// explicit flag value when one was given. The flag wins.
func (s *Site) CommandOverride(name, flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if s == nil {
		return ""
	}
	return s.Commands[name]
}
