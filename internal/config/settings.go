package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Setting keys, shared by the config file, flags and environment bindings.
const (
	KeyGardenPath = "garden_path"
	KeyEditor     = "editor"
	KeyLogLevel   = "log_level"
)

// Flag names bound to settings when present on the command.
const (
	FlagGardenPath = "garden-path"
	FlagLogLevel   = "log-level"
)

// Settings are the resolved inputs of one invocation.
type Settings struct {
	GardenPath string
	Editor     string
	LogLevel   string
	// ConfigFile is the config file that was read, if any.
	ConfigFile string
}

// Load resolves settings with the precedence flag > environment > config
// file > default. flags may be nil.
//
// Environment:
//   - GARDEN_PATH
//   - GARDEN_EDITOR, then VISUAL, then EDITOR
//   - GARDEN_LOG_LEVEL
//
// The config file is config.toml in Dir(); a missing file is not an error.
func Load(flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()

	v.SetDefault(KeyEditor, defaultEditor())
	v.SetDefault(KeyLogLevel, "warn")

	if err := bindEnv(v); err != nil {
		return nil, err
	}
	if err := bindFlags(v, flags); err != nil {
		return nil, err
	}

	settings := &Settings{}
	if dir := Dir(); dir != "" {
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		} else {
			settings.ConfigFile = v.ConfigFileUsed()
		}
	}

	settings.GardenPath = strings.TrimSpace(v.GetString(KeyGardenPath))
	settings.Editor = strings.TrimSpace(v.GetString(KeyEditor))
	settings.LogLevel = strings.TrimSpace(v.GetString(KeyLogLevel))

	if settings.GardenPath == "" {
		dir, err := DefaultGardenDir()
		if err != nil {
			return nil, fmt.Errorf("garden path not supplied and home directory unknown: %w", err)
		}
		settings.GardenPath = dir
	}
	settings.GardenPath = expandHome(settings.GardenPath)

	return settings, nil
}

func bindEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		KeyGardenPath: {"GARDEN_PATH"},
		KeyEditor:     {"GARDEN_EDITOR", "VISUAL", "EDITOR"},
		KeyLogLevel:   {"GARDEN_LOG_LEVEL"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return fmt.Errorf("binding %s to environment: %w", key, err)
		}
	}
	return nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	if flags == nil {
		return nil
	}
	bindings := map[string]string{
		KeyGardenPath: FlagGardenPath,
		KeyLogLevel:   FlagLogLevel,
	}
	for key, name := range bindings {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	return nil
}

// defaultEditor is used when no editor variable is set.
func defaultEditor() string {
	if runtime.GOOS == "windows" {
		return "notepad"
	}
	return "vi"
}
