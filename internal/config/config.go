// Package config loads forc's user configuration.
//
// Configuration is applied in order of increasing precedence:
//  1. Hardcoded defaults
//  2. User config ($XDG_CONFIG_HOME/forc/config.yaml or ~/.config/forc/config.yaml)
//  3. Environment variables (FORC_*)
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	ferrors "github.com/swaylang/forc/internal/errors"
	"github.com/swaylang/forc/internal/probe"
)

// Environment variables recognised by Load.
const (
	EnvToolchainRoot = "FORC_TOOLCHAIN_ROOT"
	EnvCompiler      = "FORC_COMPILER"
	EnvNoColor       = "FORC_NO_COLOR"
	EnvLogLevel      = "FORC_LOG_LEVEL"
)

// Config represents the complete forc configuration.
type Config struct {
	Toolchain ToolchainConfig `yaml:"toolchain" json:"toolchain"`
	Output    OutputConfig    `yaml:"output" json:"output"`
	Logging   LoggingConfig   `yaml:"logging" json:"logging"`
}

// ToolchainConfig locates forc's own manifest and the host compiler.
type ToolchainConfig struct {
	// Root is the installation directory holding toolchain.toml.
	// Defaults to the directory of the running executable.
	Root string `yaml:"root" json:"root" validate:"required"`

	// Compiler is the executable whose version is probed.
	Compiler string `yaml:"compiler" json:"compiler" validate:"required"`

	// CompilerArgs are passed to Compiler to make it print its version.
	CompilerArgs []string `yaml:"compiler_args" json:"compiler_args"`
}

// OutputConfig configures terminal output.
type OutputConfig struct {
	NoColor bool `yaml:"no_color" json:"no_color"`
}

// LoggingConfig configures the default logger.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level" validate:"oneof=debug info warn error"`
}

// validate is shared; validator caches struct metadata.
var validate = validator.New()

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		Toolchain: ToolchainConfig{
			Root:         DefaultToolchainRoot(),
			Compiler:     probe.DefaultCommand,
			CompilerArgs: append([]string(nil), probe.DefaultArgs...),
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// DefaultToolchainRoot returns the directory of the running executable,
// falling back to the working directory.
func DefaultToolchainRoot() string {
	exe, err := os.Executable()
	if err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		return filepath.Dir(exe)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// GetUserConfigPath returns the path to the user configuration file.
// It follows XDG Base Directory specification:
//   - $XDG_CONFIG_HOME/forc/config.yaml (if XDG_CONFIG_HOME is set)
//   - ~/.config/forc/config.yaml (default)
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "forc", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "forc", "config.yaml")
	}
	return filepath.Join(home, ".config", "forc", "config.yaml")
}

// Load builds the effective configuration.
func Load() (*Config, error) {
	return LoadFrom(GetUserConfigPath())
}

// LoadFrom builds the effective configuration using the user config at path.
// A missing file is not an error.
func LoadFrom(path string) (*Config, error) {
	cfg := NewConfig()

	if err := cfg.loadYAML(path); err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadYAML merges the YAML file at path into c.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return ferrors.New(ferrors.ErrCodeConfigParse,
			fmt.Sprintf("failed to read config file %s", path), err).
			WithDetail("path", path)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return ferrors.New(ferrors.ErrCodeConfigParse,
			fmt.Sprintf("failed to parse config file %s", path), err).
			WithDetail("path", path)
	}

	c.mergeWith(&parsed)
	return nil
}

// mergeWith merges non-zero values from other into c.
func (c *Config) mergeWith(other *Config) {
	if other.Toolchain.Root != "" {
		c.Toolchain.Root = expandHome(other.Toolchain.Root)
	}
	if other.Toolchain.Compiler != "" {
		c.Toolchain.Compiler = other.Toolchain.Compiler
		// A different compiler rarely takes the default's arguments
		c.Toolchain.CompilerArgs = nil
	}
	if len(other.Toolchain.CompilerArgs) > 0 {
		c.Toolchain.CompilerArgs = other.Toolchain.CompilerArgs
	}
	if other.Output.NoColor {
		c.Output.NoColor = true
	}
	if other.Logging.Level != "" {
		c.Logging.Level = strings.ToLower(other.Logging.Level)
	}
}

// applyEnvOverrides applies FORC_* environment variables.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvToolchainRoot); v != "" {
		c.Toolchain.Root = expandHome(v)
	}
	// "rustc --version" style values carry their own arguments
	if fields := strings.Fields(os.Getenv(EnvCompiler)); len(fields) > 0 {
		c.Toolchain.Compiler = fields[0]
		c.Toolchain.CompilerArgs = fields[1:]
	}
	if v := os.Getenv(EnvNoColor); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Output.NoColor = b
		}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return ferrors.New(ferrors.ErrCodeConfigInvalid,
				fmt.Sprintf("invalid configuration: %s fails %q", fe.Namespace(), fe.Tag()), err).
				WithDetail("field", fe.Namespace())
		}
		return ferrors.New(ferrors.ErrCodeConfigInvalid, "invalid configuration", err)
	}
	return nil
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
