// Package config resolves where the todo service lives and how the client
// presents itself. Values layer, highest wins: defaults, the config file,
// environment, then flags.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"

	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/ui"
)

const (
	configDirName  = "todo"
	configFileName = "config.json"

	DefaultBaseURL  = "http://localhost:5000/api"
	DefaultTheme    = "classic"
	DefaultLogLevel = "warn"
)

// Environment overrides.
const (
	EnvBaseURL  = "TODO_API_URL"
	EnvTheme    = "TODO_THEME"
	EnvLogLevel = "TODO_LOG_LEVEL"
	EnvLogFile  = "TODO_LOG_FILE"
)

var (
	errConfigRead    = errors.New("cannot read config file")
	errConfigInvalid = errors.New("invalid config file")
	errBaseURL       = errors.New("base_url must be an absolute http(s) URL")
	errLogLevel      = errors.New("log_level must be debug, info, warn or error")
)

type Config struct {
	BaseURL        string   `json:"base_url"`
	Theme          string   `json:"theme,omitempty"`
	LogLevel       string   `json:"log_level,omitempty"`
	LogFile        string   `json:"log_file,omitempty"`
	RequestTimeout Duration `json:"request_timeout,omitempty"`
}

// Duration reads "5s"-style strings from the config file.
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"10s\": %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func Default() Config {
	return Config{
		BaseURL:  DefaultBaseURL,
		Theme:    DefaultTheme,
		LogLevel: DefaultLogLevel,
	}
}

// Path returns $XDG_CONFIG_HOME/todo/config.json, falling back to
// ~/.config/todo/config.json.
func Path() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, configDirName, configFileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, ".config", configDirName, configFileName), nil
}

// Overrides are flag values; empty fields are not applied.
type Overrides struct {
	BaseURL string
	Theme   string
}

// Load layers defaults, the file at path (the default path when empty),
// the environment and overrides. A missing default file is fine; a missing
// explicit file is an error.
func Load(path string, o Overrides) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return Config{}, err
		}
		path = p
	}

	fromFile, loaded, err := readFile(path)
	if err != nil {
		return Config{}, err
	}
	if !loaded && explicit {
		return Config{}, fmt.Errorf("%w: %s", errConfigRead, path)
	}
	cfg = merge(cfg, fromFile)

	cfg = merge(cfg, Config{
		BaseURL:  os.Getenv(EnvBaseURL),
		Theme:    os.Getenv(EnvTheme),
		LogLevel: os.Getenv(EnvLogLevel),
		LogFile:  os.Getenv(EnvLogFile),
	})
	cfg = merge(cfg, Config{BaseURL: o.BaseURL, Theme: o.Theme})

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readFile(path string) (Config, bool, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, false, nil
		}
		return Config{}, false, fmt.Errorf("%w: %w", errConfigRead, err)
	}
	std, err := hujson.Standardize(b)
	if err != nil {
		return Config{}, false, fmt.Errorf("%w: %s: %w", errConfigInvalid, path, err)
	}
	var cfg Config
	if err := json.Unmarshal(std, &cfg); err != nil {
		return Config{}, false, fmt.Errorf("%w: %s: %w", errConfigInvalid, path, err)
	}
	return cfg, true, nil
}

func merge(base, over Config) Config {
	if v := strings.TrimSpace(over.BaseURL); v != "" {
		base.BaseURL = v
	}
	if v := strings.TrimSpace(over.Theme); v != "" {
		base.Theme = v
	}
	if v := strings.TrimSpace(over.LogLevel); v != "" {
		base.LogLevel = v
	}
	if v := strings.TrimSpace(over.LogFile); v != "" {
		base.LogFile = v
	}
	if over.RequestTimeout > 0 {
		base.RequestTimeout = over.RequestTimeout
	}
	return base
}

func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w, got %q", errBaseURL, c.BaseURL)
	}
	if _, err := ui.ThemeByName(c.Theme); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level maps LogLevel onto slog.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w, got %q", errLogLevel, c.LogLevel)
	}
	return l, nil
}

// Save writes c to path atomically, creating the directory.
func Save(path string, c Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := atomic.WriteFile(path, strings.NewReader(string(b)+"\n")); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
