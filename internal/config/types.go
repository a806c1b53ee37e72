// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultFilename is the installed executable's file name.
	DefaultFilename = "nvim.appimage"
	// DefaultInstallDir is the directory the executable is installed into.
	DefaultInstallDir = "/usr/local/bin"
	// DefaultBlockSize is the download read size (512 KiB).
	DefaultBlockSize = 512 * 1024

	// DefaultAlternativesLink is the generic symlink managed by update-alternatives.
	DefaultAlternativesLink = "/usr/bin/vi"
	// DefaultAlternativesName is the alternatives group name.
	DefaultAlternativesName = "vi"
	// DefaultAlternativesPriority is the priority registered for the executable.
	DefaultAlternativesPriority = 50

	// DefaultTokenEnv names the environment variable holding a GitHub token.
	DefaultTokenEnv = "GITHUB_TOKEN"
	// DefaultHTTPTimeout bounds each HTTP request, downloads included.
	DefaultHTTPTimeout = "10m"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrConfigNotFound is returned when an explicitly named config file is missing.
	ErrConfigNotFound = errors.New("config file not found")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidConfigError collects field-level validation errors for a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// SourceConfig selects the repository whose releases are installed.
	SourceConfig struct {
		Owner    string `json:"owner" mapstructure:"owner" toml:"owner"`
		Repo     string `json:"repo" mapstructure:"repo" toml:"repo"`
		APIURL   string `json:"api_url" mapstructure:"api_url" toml:"api_url"`
		TokenEnv string `json:"token_env" mapstructure:"token_env" toml:"token_env"`
	}

	// InstallConfig controls where and how the executable is written.
	InstallConfig struct {
		Filename  string `json:"filename" mapstructure:"filename" toml:"filename"`
		Dir       string `json:"dir" mapstructure:"dir" toml:"dir"`
		BlockSize int    `json:"block_size" mapstructure:"block_size" toml:"block_size"`
	}

	// AssetConfig binds an `uname -s`/`uname -m` pair to a release asset name.
	AssetConfig struct {
		OS   string `json:"os" mapstructure:"os" toml:"os"`
		Arch string `json:"arch" mapstructure:"arch" toml:"arch"`
		Name string `json:"name" mapstructure:"name" toml:"name"`
	}

	// AlternativesConfig holds update-alternatives defaults.
	AlternativesConfig struct {
		Link     string `json:"link" mapstructure:"link" toml:"link"`
		Name     string `json:"name" mapstructure:"name" toml:"name"`
		Priority int    `json:"priority" mapstructure:"priority" toml:"priority"`
	}

	// HTTPConfig tunes the GitHub client.
	HTTPConfig struct {
		// Timeout is a Go duration string, e.g. "30s".
		Timeout string `json:"timeout" mapstructure:"timeout" toml:"timeout"`
		// Retries is the number of extra attempts for transient failures.
		Retries int `json:"retries" mapstructure:"retries" toml:"retries"`
	}

	// UIConfig configures terminal output.
	UIConfig struct {
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme" toml:"color_scheme"`
		Verbose     bool        `json:"verbose" mapstructure:"verbose" toml:"verbose"`
	}

	// Config holds the application configuration.
	Config struct {
		Source       SourceConfig       `json:"source" mapstructure:"source" toml:"source"`
		Install      InstallConfig      `json:"install" mapstructure:"install" toml:"install"`
		Assets       []AssetConfig      `json:"assets" mapstructure:"assets" toml:"assets"`
		Alternatives AlternativesConfig `json:"alternatives" mapstructure:"alternatives" toml:"alternatives"`
		HTTP         HTTPConfig         `json:"http" mapstructure:"http" toml:"http"`
		UI           UIConfig           `json:"ui" mapstructure:"ui" toml:"ui"`
	}
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			Owner:    "neovim",
			Repo:     "neovim",
			APIURL:   "https://api.github.com",
			TokenEnv: DefaultTokenEnv,
		},
		Install: InstallConfig{
			Filename:  DefaultFilename,
			Dir:       DefaultInstallDir,
			BlockSize: DefaultBlockSize,
		},
		Assets: []AssetConfig{
			{OS: "Linux", Arch: "x86_64", Name: "nvim-linux-x86_64.appimage"},
			{OS: "Linux", Arch: "aarch64", Name: "nvim-linux-arm64.appimage"},
		},
		Alternatives: AlternativesConfig{
			Link:     DefaultAlternativesLink,
			Name:     DefaultAlternativesName,
			Priority: DefaultAlternativesPriority,
		},
		HTTP: HTTPConfig{
			Timeout: DefaultHTTPTimeout,
			Retries: 0,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// TargetPath joins the install directory and filename.
func (c *Config) TargetPath() string {
	return filepath.Join(c.Install.Dir, c.Install.Filename)
}

// TimeoutDuration parses HTTP.Timeout. An empty value means no timeout.
func (h HTTPConfig) TimeoutDuration() (time.Duration, error) {
	if h.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(h.Timeout)
	if err != nil {
		return 0, fmt.Errorf("http.timeout: %w", err)
	}
	return d, nil
}

// String returns the string representation of the ColorScheme.
func (c ColorScheme) String() string { return string(c) }

// Validate returns an *InvalidColorSchemeError for unknown schemes.
func (c ColorScheme) Validate() error {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return nil
	default:
		return &InvalidColorSchemeError{Value: c}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// Validate checks constraints that also hold for values coming from the
// environment, which bypass the CUE schema.
func (c *Config) Validate() error {
	var errs []error

	if c.Source.Owner == "" || c.Source.Repo == "" {
		errs = append(errs, errors.New("source: owner and repo must be set"))
	}
	if strings.ContainsRune(c.Install.Filename, '/') || c.Install.Filename == "" {
		errs = append(errs, fmt.Errorf("install.filename %q: must be a non-empty base name", c.Install.Filename))
	}
	if c.Install.BlockSize <= 0 {
		errs = append(errs, fmt.Errorf("install.block_size %d: must be positive", c.Install.BlockSize))
	}
	if c.Alternatives.Priority < 0 {
		errs = append(errs, fmt.Errorf("alternatives.priority %d: must not be negative", c.Alternatives.Priority))
	}
	if c.HTTP.Retries < 0 {
		errs = append(errs, fmt.Errorf("http.retries %d: must not be negative", c.HTTP.Retries))
	}
	if _, err := c.HTTP.TimeoutDuration(); err != nil {
		errs = append(errs, err)
	}
	if err := c.UI.ColorScheme.Validate(); err != nil {
		errs = append(errs, err)
	}
	for i, a := range c.Assets {
		if a.OS == "" || a.Arch == "" || a.Name == "" {
			errs = append(errs, fmt.Errorf("assets[%d]: os, arch and name must be set", i))
		}
	}

	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Error lists every field error.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }
