package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dayplan/internal/render"

	"gopkg.in/yaml.v3"
)

const configFileName = "config.yaml"

const (
	DefaultServer  = "http://127.0.0.1:5050"
	DefaultTimeout = 10 * time.Second
)

type Config struct {
	// Server is the planner backend base URL.
	Server string `json:"server,omitempty" yaml:"server,omitempty"`
	// Timeout bounds each HTTP request (e.g. "10s").
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	// LogLevel is one of debug|info|warn|error.
	LogLevel string `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`
	// Format is the default CLI output format (text|json).
	Format string `json:"format,omitempty" yaml:"format,omitempty"`

	// Targets are the daily nutrition/hydration goals used by the summary.
	Targets render.Targets `json:"targets,omitempty" yaml:"targets,omitempty"`

	TUI *TUIConfig `json:"tui,omitempty" yaml:"tui,omitempty"`
}

type TUIConfig struct {
	// Glyphs selects the glyph set ("unicode" or "ascii").
	Glyphs string `json:"glyphs,omitempty" yaml:"glyphs,omitempty"`
}

// DefaultConfig is used for any field the config file leaves unset.
func DefaultConfig() Config {
	return Config{
		Server:   DefaultServer,
		Timeout:  DefaultTimeout,
		LogLevel: "info",
		Format:   "text",
	}
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.dayplan).
	if v := strings.TrimSpace(os.Getenv("DAYPLAN_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".dayplan"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// LoadConfig reads path (or the default config path when empty). A missing
// file yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if strings.TrimSpace(path) == "" {
		p, err := ConfigPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	var file Config
	if err := yaml.Unmarshal(b, &file); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.merge(file)
	return cfg, nil
}

func (c *Config) merge(o Config) {
	if strings.TrimSpace(o.Server) != "" {
		c.Server = strings.TrimSpace(o.Server)
	}
	if o.Timeout > 0 {
		c.Timeout = o.Timeout
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if o.Format != "" {
		c.Format = o.Format
	}
	if o.Targets != (render.Targets{}) {
		c.Targets = o.Targets
	}
	if o.TUI != nil {
		c.TUI = o.TUI
	}
}

// SaveConfig writes cfg to path (or the default config path when empty).
func SaveConfig(path string, cfg Config) error {
	if strings.TrimSpace(path) == "" {
		p, err := ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return atomicWriteFile(dir, "config.yaml.*.tmp", path, b, 0o600)
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}
