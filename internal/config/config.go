package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alnah/go-diagram-sync/internal/decode"
	"github.com/alnah/go-diagram-sync/internal/fileutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrMissingValue    = errors.New("missing required value")
	ErrInvalidValue    = errors.New("invalid value")
)

// Defaults applied by DefaultConfig.
const (
	DefaultDiagramsDir = "docs/diagrams"
	DefaultJava        = "java"
	DefaultJar         = "plantuml.jar"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "console"
)

// appDir is the directory name under the user config dir.
const appDir = "diagram-sync"

// Config holds all configuration for a synchronization run.
type Config struct {
	Confluence ConfluenceConfig `yaml:"confluence" toml:"confluence"`
	Diagrams   DiagramsConfig   `yaml:"diagrams" toml:"diagrams"`
	PlantUML   PlantUMLConfig   `yaml:"plantuml" toml:"plantuml"`
	Log        LogConfig        `yaml:"log" toml:"log"`
}

// ConfluenceConfig identifies the service, the account and the managed page.
type ConfluenceConfig struct {
	URL    string `yaml:"url" toml:"url"` // e.g. https://example.atlassian.net/wiki
	User   string `yaml:"user" toml:"user"`
	Token  string `yaml:"token" toml:"token"`
	PageID string `yaml:"pageId" toml:"pageId"`
}

// DiagramsConfig locates the PlantUML sources.
type DiagramsConfig struct {
	Dir string `yaml:"dir" toml:"dir"`
}

// PlantUMLConfig locates the renderer.
type PlantUMLConfig struct {
	Java string `yaml:"java" toml:"java"`
	Jar  string `yaml:"jar" toml:"jar"`
}

// LogConfig controls diagnostic output.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`   // trace, debug, info, warn, error
	Format string `yaml:"format" toml:"format"` // console, json
}

var (
	validLevels  = []string{"trace", "debug", "info", "warn", "error"}
	validFormats = []string{"console", "json"}
)

// DefaultConfig returns a configuration with every optional value set.
// Credentials and the page id are left empty.
func DefaultConfig() *Config {
	return &Config{
		Diagrams: DiagramsConfig{Dir: DefaultDiagramsDir},
		PlantUML: PlantUMLConfig{Java: DefaultJava, Jar: DefaultJar},
		Log:      LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
	}
}

// Validate checks that every required value is present and every enumerated
// value is known. Call it after flags and environment have been applied.
func (c *Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"confluence.url", c.Confluence.URL},
		{"confluence.user", c.Confluence.User},
		{"confluence.token", c.Confluence.Token},
		{"confluence.pageId", c.Confluence.PageID},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%w: %s", ErrMissingValue, r.name)
		}
	}
	return c.validateValues()
}

// validateValues checks the values that have a fixed set of choices.
func (c *Config) validateValues() error {
	if c.Log.Level != "" && !slices.Contains(validLevels, strings.ToLower(c.Log.Level)) {
		return fmt.Errorf("%w: log.level %q (must be one of %s)", ErrInvalidValue, c.Log.Level, strings.Join(validLevels, ", "))
	}
	if c.Log.Format != "" && !slices.Contains(validFormats, strings.ToLower(c.Log.Format)) {
		return fmt.Errorf("%w: log.format %q (must be console or json)", ErrInvalidValue, c.Log.Format)
	}
	if c.Confluence.URL != "" && !strings.HasPrefix(c.Confluence.URL, "http://") && !strings.HasPrefix(c.Confluence.URL, "https://") {
		return fmt.Errorf("%w: confluence.url %q (must start with http:// or https://)", ErrInvalidValue, c.Confluence.URL)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name on top of
// DefaultConfig. If nameOrPath contains a path separator, it's treated as a
// file path. Otherwise, it's treated as a config name and searched in
// standard locations. Returns error if the file is not found (no silent
// fallback). Required values are not checked here since flags and
// environment may still supply them.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := decode.Strict(decode.FormatFor(configPath), data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, err)
	}

	if err := cfg.validateValues(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml, .toml
// Tries locations in order: current directory, ~/.config/diagram-sync/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml", ".toml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, appDir, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
