// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/toasty/internal/platform"
	"github.com/jmylchreest/toasty/internal/strategy"
	"github.com/jmylchreest/toasty/internal/style"
)

// AppName is the directory name used under the XDG base directories.
const AppName = "toasty"

// Default configuration values.
const (
	DefaultStyle     = "dark"
	DefaultGravity   = style.GravityBottomCenter
	DefaultOffsetY   = 64
	DefaultRate      = 0 // unlimited
	DefaultBurst     = 5
	DefaultTermWidth = 80
	DefaultBackend   = strategy.BackendAuto
)

// Config represents the toasty configuration.
// Loaded from ~/.config/toasty/config.toml
type Config struct {
	Style        StyleConfig       `toml:"style"`
	Behavior     BehaviorConfig    `toml:"behavior"`
	Interceptors InterceptorConfig `toml:"interceptors"`
	Strings      map[string]string `toml:"strings"` // resource id -> text
}

// StyleConfig selects the look and placement of toasts.
type StyleConfig struct {
	Name    string  `toml:"name"`     // dark, light
	Gravity string  `toml:"gravity"`  // top-left ... bottom-right, center
	OffsetX int     `toml:"offset_x"` // Pixels (cells for the terminal backend)
	OffsetY int     `toml:"offset_y"`
	MarginH float64 `toml:"margin_h"` // Fraction of the screen width
	MarginV float64 `toml:"margin_v"` // Fraction of the screen height
	Layout  string  `toml:"layout"`   // Layout template; empty keeps the style's own
	Width   int     `toml:"width"`    // Terminal width for the terminal backend
}

// BehaviorConfig contains behavior settings.
type BehaviorConfig struct {
	Debug   *bool    `toml:"debug,omitempty"` // Unset = ask the process context
	Short   Duration `toml:"short"`
	Long    Duration `toml:"long"`
	Backend string   `toml:"backend"` // auto, dbus, beeep, windows, terminal
	Sound   string   `toml:"sound"`   // WAV, OGG or MP3 played with each toast; empty = silent
	Volume  float64  `toml:"volume"`  // 0.0 to 1.0
}

// InterceptorConfig enables the built-in interceptors.
type InterceptorConfig struct {
	DnD          bool     `toml:"dnd"`          // Honour the shared Do Not Disturb state
	RatePerSec   float64  `toml:"rate_per_sec"` // 0 = unlimited
	Burst        int      `toml:"burst"`
	BlockedWords []string `toml:"blocked_words"`
	History      bool     `toml:"history"` // Record shown toasts
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	timings := strategy.DefaultTimings()
	return &Config{
		Style: StyleConfig{
			Name:    DefaultStyle,
			Gravity: string(DefaultGravity),
			OffsetY: DefaultOffsetY,
			Width:   DefaultTermWidth,
		},
		Behavior: BehaviorConfig{
			Short:   Duration(timings.Short),
			Long:    Duration(timings.Long),
			Backend: string(DefaultBackend),
			Volume:  1.0,
		},
		Interceptors: InterceptorConfig{
			DnD:        true,
			RatePerSec: DefaultRate,
			Burst:      DefaultBurst,
			History:    true,
		},
		Strings: make(map[string]string),
	}
}

// ConfigDir returns the toasty config directory.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, AppName)
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.toml")
}

// LayoutsDir returns the directory searched for user layout templates.
func LayoutsDir() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "layouts")
}

// DataPath returns the path to the data directory.
// Uses XDG_DATA_HOME if set, otherwise ~/.local/share.
func DataPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, AppName)
}

// HistoryPath returns the path to the history JSONL file.
func HistoryPath() string {
	return filepath.Join(DataPath(), "history.jsonl")
}

// StatePath returns the path to the shared state file.
func StatePath() string {
	return filepath.Join(DataPath(), "state.json")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	path := DataPath()
	if path == "" {
		return errors.New("unable to determine data directory")
	}
	return os.MkdirAll(path, 0755)
}

// LoadConfig loads configuration from path, or the default path if empty.
// Returns the defaults if the file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then overlay with file contents
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to path, or the default path if empty.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, ok := style.ByName(c.Style.Name); !ok {
		return fmt.Errorf("invalid style %q, must be one of: %v", c.Style.Name, style.Names())
	}
	if _, err := style.ParseGravity(c.Style.Gravity); err != nil {
		return err
	}
	if c.Style.MarginH < 0 || c.Style.MarginH > 1 {
		return fmt.Errorf("margin_h must be between 0 and 1, got %g", c.Style.MarginH)
	}
	if c.Style.MarginV < 0 || c.Style.MarginV > 1 {
		return fmt.Errorf("margin_v must be between 0 and 1, got %g", c.Style.MarginV)
	}
	if c.Style.Width < 0 {
		return fmt.Errorf("width must not be negative, got %d", c.Style.Width)
	}

	if c.Behavior.Short.Duration() <= 0 || c.Behavior.Long.Duration() <= 0 {
		return errors.New("short and long durations must be positive")
	}
	if c.Behavior.Short.Duration() > c.Behavior.Long.Duration() {
		return fmt.Errorf("short duration %s is longer than long duration %s",
			c.Behavior.Short.Duration(), c.Behavior.Long.Duration())
	}
	if _, err := strategy.ParseBackend(c.Behavior.Backend); err != nil {
		return err
	}
	if c.Behavior.Volume < 0 || c.Behavior.Volume > 1 {
		return fmt.Errorf("volume must be between 0 and 1, got %g", c.Behavior.Volume)
	}

	if c.Interceptors.RatePerSec < 0 {
		return fmt.Errorf("rate_per_sec must not be negative, got %g", c.Interceptors.RatePerSec)
	}
	if c.Interceptors.RatePerSec > 0 && c.Interceptors.Burst < 1 {
		return fmt.Errorf("burst must be at least 1 when rate limiting, got %d", c.Interceptors.Burst)
	}

	if _, err := c.ResourceTable(); err != nil {
		return err
	}
	return nil
}

// Gravity returns the configured gravity. Validate has already checked it.
func (c *Config) Gravity() style.Gravity {
	g, err := style.ParseGravity(c.Style.Gravity)
	if err != nil {
		return DefaultGravity
	}
	return g
}

// Placement returns the configured placement.
func (c *Config) Placement() style.Placement {
	return style.Placement{
		Gravity:          c.Gravity(),
		XOffset:          c.Style.OffsetX,
		YOffset:          c.Style.OffsetY,
		HorizontalMargin: c.Style.MarginH,
		VerticalMargin:   c.Style.MarginV,
	}
}

// BaseStyle returns the configured style without placement.
func (c *Config) BaseStyle() style.Style {
	s, ok := style.ByName(c.Style.Name)
	if !ok {
		return style.Dark()
	}
	return s
}

// Timings returns the configured toast lengths.
func (c *Config) Timings() strategy.Timings {
	return strategy.Timings{
		Short: c.Behavior.Short.Duration(),
		Long:  c.Behavior.Long.Duration(),
	}
}

// Backend returns the configured backend.
func (c *Config) Backend() strategy.Backend {
	b, err := strategy.ParseBackend(c.Behavior.Backend)
	if err != nil {
		return DefaultBackend
	}
	return b
}

// ResourceTable converts [strings] into a resource table.
func (c *Config) ResourceTable() (map[platform.ResourceID]string, error) {
	table := make(map[platform.ResourceID]string, len(c.Strings))
	for key, text := range c.Strings {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("invalid resource id %q: must be an integer", key)
		}
		table[platform.ResourceID(id)] = text
	}
	return table, nil
}

// ResourceIDs returns the configured resource ids in ascending order.
func (c *Config) ResourceIDs() []platform.ResourceID {
	table, err := c.ResourceTable()
	if err != nil {
		return nil
	}
	ids := make([]platform.ResourceID, 0, len(table))
	for id := range table {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Duration is a time.Duration that can be unmarshaled from human-readable strings.
// Supports formats like "2s", "3500ms", "1m", or integer milliseconds.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)

	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '2s', '3500ms' or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
