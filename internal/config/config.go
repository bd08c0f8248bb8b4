// Copyright (c) 2026 Monoxity Team
// Monoxity - key-value tables on embedded SQL
// This source code is licensed under the MIT license found in the LICENSE file.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/monoxity/monoxity/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	configName = "monoxity"
	envPrefix  = "monoxity"
	// localConfigFile is merged on top of the regular config when present in
	// the current directory.
	localConfigFile = ".monoxity.yaml"
)

// Config is the application configuration shared by all commands.
type Config struct {
	Store  store.Config `mapstructure:"store" yaml:"store"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
	Output string       `mapstructure:"output" yaml:"output"`

	// Language selects the translation of human-readable messages.
	Language string `mapstructure:"language" yaml:"language"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// Defaults returns the default value of every known key. Viper only maps
// environment variables for keys it knows, so every key must appear here.
func Defaults() map[string]any {
	def := store.DefaultConfig()
	return map[string]any{
		"store.driver":      def.Driver,
		"store.dsn":         def.DSN,
		"store.table":       def.Table,
		"store.file_name":   def.FileName,
		"store.dir":         def.Dir,
		"store.max_retries": def.MaxRetries,
		"log.level":         "warn",
		"output":            "",
		"language":          "en",
	}
}

// GetConfigPath returns the full path for the configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "Monoxity")
		default: // Linux, macOS, etc.
			configDir = "/etc/monoxity"
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "monoxity")
	}

	return filepath.Join(configDir, configName+".yaml"), nil
}

// LoadConfig builds a T from, in increasing precedence: defaults, the first
// monoxity.yaml found (or configFile when given), .monoxity.yaml in the
// current directory, MONOXITY_* environment variables and the flags of cmd.
// bindings maps config keys to flag names for flags whose name differs from
// the key, e.g. "store.table" -> "table". A missing config file is not an
// error.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, configFile *string, bindings map[string]string) (T, error) {
	var c T
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	if configFile != nil && *configFile != "" {
		v.SetConfigFile(*configFile)
	}
	if userConfigPath, err := GetConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := GetConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return c, fmt.Errorf("read config: %w", err)
		}
	}
	if err := mergeLocalConfig(v); err != nil {
		return c, err
	}

	v.AutomaticEnv()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if cmd != nil {
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return c, err
		}
		for key, name := range bindings {
			if f := cmd.Flags().Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return c, err
				}
			}
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("parse config: %w", err)
	}
	return c, nil
}

// mergeLocalConfig merges .monoxity.yaml from the current directory when it
// exists. A malformed file is an error.
func mergeLocalConfig(v *viper.Viper) error {
	if _, err := os.Stat(localConfigFile); err != nil {
		return nil
	}
	v.SetConfigFile(localConfigFile)
	if err := v.MergeInConfig(); err != nil {
		return fmt.Errorf("merge %s: %w", localConfigFile, err)
	}
	return nil
}

// WriteConfigFile writes c as YAML to the user or system config path and
// returns the path written.
func WriteConfigFile[T any](c *T, system bool) (string, error) {
	path, err := GetConfigPath(system)
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	// 0600: the file may hold a DSN with credentials.
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}
