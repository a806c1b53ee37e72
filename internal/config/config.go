// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/nvim-latest/nvim-latest/internal/issue"
	"github.com/nvim-latest/nvim-latest/pkg/cueutil"
	"github.com/nvim-latest/nvim-latest/pkg/platform"
)

const (
	// AppName is the application name.
	AppName = "nvim-latest"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment overrides, e.g. NVIM_LATEST_INSTALL_DIR.
	EnvPrefix = "NVIM_LATEST"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the configuration directory: %APPDATA% on Windows,
// ~/Library/Application Support on macOS and $XDG_CONFIG_HOME (default
// ~/.config) elsewhere, each with AppName appended.
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var base string
	switch runtime.GOOS {
	case platform.Windows:
		base = os.Getenv("APPDATA")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case platform.Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		base = filepath.Join(home, "Library", "Application Support")
	default:
		base = os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			base = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(base, AppName), nil
}

// FilePath returns the config file that Load reads for opts, whether or not
// it exists.
func FilePath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		return opts.ConfigFilePath, nil
	}
	dir := opts.ConfigDirPath
	if dir == "" {
		var err error
		if dir, err = ConfigDir(); err != nil {
			return "", err
		}
	}
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), nil
}

// loadWithOptions builds a Config from defaults, the CUE file selected by
// opts and the environment. It returns the file actually read, or "".
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", fmt.Errorf("load config canceled: %w", err)
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path, err := FilePath(opts)
	if err != nil {
		return nil, "", err
	}

	resolved := ""
	switch {
	case fileExists(path):
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestions(
					"Check that the file contains valid CUE syntax",
					"Run 'nvim-latest config dump' to see every supported key",
				).
				Wrap(err).
				BuildError()
		}
		resolved = path
	case opts.ConfigFilePath != "":
		return nil, "", issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(path).
			WithSuggestions(
				"Verify the file path is correct",
				"Run 'nvim-latest config init' to create a default configuration",
			).
			Wrap(fmt.Errorf("%w: %s", ErrConfigNotFound, path)).
			BuildError()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolved).
			WithSuggestion("Check " + EnvPrefix + "_* environment variables as well as the config file").
			Wrap(err).
			BuildError()
	}

	return &cfg, resolved, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("source.owner", d.Source.Owner)
	v.SetDefault("source.repo", d.Source.Repo)
	v.SetDefault("source.api_url", d.Source.APIURL)
	v.SetDefault("source.token_env", d.Source.TokenEnv)
	v.SetDefault("install.filename", d.Install.Filename)
	v.SetDefault("install.dir", d.Install.Dir)
	v.SetDefault("install.block_size", d.Install.BlockSize)
	v.SetDefault("assets", d.Assets)
	v.SetDefault("alternatives.link", d.Alternatives.Link)
	v.SetDefault("alternatives.name", d.Alternatives.Name)
	v.SetDefault("alternatives.priority", d.Alternatives.Priority)
	v.SetDefault("http.timeout", d.HTTP.Timeout)
	v.SetDefault("http.retries", d.HTTP.Retries)
	v.SetDefault("ui.color_scheme", string(d.UI.ColorScheme))
	v.SetDefault("ui.verbose", d.UI.Verbose)
}

// loadCUEIntoViper validates the CUE file at path against #Config and merges
// the fields it sets over the defaults already registered in v.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	res, err := cueutil.ParseAndDecodeString[map[string]any](configSchema, data, "#Config",
		cueutil.WithFilename(path),
		cueutil.WithConcrete(false),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if err := v.MergeConfigMap(*res.Value); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes the default configuration to the file selected
// by opts. It reports false without touching anything when the file exists.
func CreateDefaultConfig(opts LoadOptions) (string, bool, error) {
	path, err := FilePath(opts)
	if err != nil {
		return "", false, err
	}

	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", false, fmt.Errorf("checking %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", false, fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", false, fmt.Errorf("failed to write config file: %w", err)
	}

	return path, true, nil
}

// GenerateCUE renders cfg as a config file accepted by Load.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder
	sb.WriteString("// nvim-latest configuration file\n\n")

	fmt.Fprintf(&sb, "source: {\n\towner:     %q\n\trepo:      %q\n\tapi_url:   %q\n\ttoken_env: %q\n}\n",
		cfg.Source.Owner, cfg.Source.Repo, cfg.Source.APIURL, cfg.Source.TokenEnv)

	fmt.Fprintf(&sb, "\ninstall: {\n\tfilename:   %q\n\tdir:        %q\n\tblock_size: %d\n}\n",
		cfg.Install.Filename, cfg.Install.Dir, cfg.Install.BlockSize)

	if len(cfg.Assets) > 0 {
		sb.WriteString("\nassets: [\n")
		for _, a := range cfg.Assets {
			fmt.Fprintf(&sb, "\t{os: %q, arch: %q, name: %q},\n", a.OS, a.Arch, a.Name)
		}
		sb.WriteString("]\n")
	}

	fmt.Fprintf(&sb, "\nalternatives: {\n\tlink:     %q\n\tname:     %q\n\tpriority: %d\n}\n",
		cfg.Alternatives.Link, cfg.Alternatives.Name, cfg.Alternatives.Priority)

	fmt.Fprintf(&sb, "\nhttp: {\n\ttimeout: %q\n\tretries: %d\n}\n", cfg.HTTP.Timeout, cfg.HTTP.Retries)

	fmt.Fprintf(&sb, "\nui: {\n\tcolor_scheme: %q\n\tverbose:      %v\n}\n", cfg.UI.ColorScheme, cfg.UI.Verbose)

	return sb.String()
}

// EncodeTOML renders cfg as TOML.
func EncodeTOML(cfg *Config) ([]byte, error) {
	b, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding config as TOML: %w", err)
	}
	return b, nil
}
