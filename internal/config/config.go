package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"
)

// Defaults.
const (
	DefaultBaseURL       = "https://notehub-public.goit.study/api/"
	DefaultPerPage       = 10
	DefaultTimeout       = 15 * time.Second
	DefaultRetries       = 3
	DefaultRetryDelay    = time.Second
	DefaultDebounce      = 300 * time.Millisecond
	DefaultToastDuration = 3 * time.Second
	DefaultLogLevel      = "info"
	DefaultTheme         = "default"
)

// Config is the root configuration structure.
type Config struct {
	API    APIConfig    `json:"api"`
	Cache  CacheConfig  `json:"cache"`
	Search SearchConfig `json:"search"`
	UI     UIConfig     `json:"ui"`
	Keymap KeymapConfig `json:"keymap"`
	Log    LogConfig    `json:"log"`

	// fileToken is the token as read from the config file, so Save never
	// persists a token that only came from the environment.
	fileToken string
}

// APIConfig configures the NoteHub client.
type APIConfig struct {
	BaseURL string        `json:"baseURL"`
	Token   string        `json:"-"`
	PerPage int           `json:"perPage"`
	Timeout time.Duration `json:"-"`
}

// CacheConfig configures list caching and retries.
type CacheConfig struct {
	Retries    int           `json:"retries"`
	RetryDelay time.Duration `json:"-"`
	StaleTime  time.Duration `json:"-"`
}

// SearchConfig configures the search box.
type SearchConfig struct {
	Debounce time.Duration `json:"-"`
}

// UIConfig configures UI appearance.
type UIConfig struct {
	ToastDuration time.Duration `json:"-"`
	ShowPreview   bool          `json:"showPreview"`
	Theme         ThemeConfig   `json:"theme"`
}

// ThemeConfig configures the color theme.
type ThemeConfig struct {
	Name      string            `json:"name"`
	Overrides map[string]string `json:"overrides,omitempty"` // palette key -> hex color
}

// KeymapConfig holds key binding overrides.
type KeymapConfig struct {
	Overrides map[string]string `json:"overrides"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `json:"level"`
	Pretty bool   `json:"pretty"`
	File   string `json:"file"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			PerPage: DefaultPerPage,
			Timeout: DefaultTimeout,
		},
		Cache: CacheConfig{
			Retries:    DefaultRetries,
			RetryDelay: DefaultRetryDelay,
		},
		Search: SearchConfig{
			Debounce: DefaultDebounce,
		},
		UI: UIConfig{
			ToastDuration: DefaultToastDuration,
			ShowPreview:   true,
			Theme: ThemeConfig{
				Name:      DefaultTheme,
				Overrides: make(map[string]string),
			},
		},
		Keymap: KeymapConfig{
			Overrides: make(map[string]string),
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Pretty: true,
			File:   "~/.local/state/notehub/notehub.log",
		},
	}
}

// Validate corrects out-of-range values and rejects ones that cannot be fixed.
func (c *Config) Validate() error {
	c.API.BaseURL = strings.TrimSpace(c.API.BaseURL)
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.baseURL %q is not an absolute URL", c.API.BaseURL)
	}
	if c.API.PerPage <= 0 {
		c.API.PerPage = DefaultPerPage
	}
	if c.API.Timeout <= 0 {
		c.API.Timeout = DefaultTimeout
	}
	if c.Cache.Retries < 0 {
		c.Cache.Retries = DefaultRetries
	}
	if c.Cache.RetryDelay <= 0 {
		c.Cache.RetryDelay = DefaultRetryDelay
	}
	if c.Cache.StaleTime < 0 {
		c.Cache.StaleTime = 0
	}
	if c.Search.Debounce <= 0 {
		c.Search.Debounce = DefaultDebounce
	}
	if c.UI.ToastDuration <= 0 {
		c.UI.ToastDuration = DefaultToastDuration
	}
	if c.UI.Theme.Name == "" {
		c.UI.Theme.Name = DefaultTheme
	}
	if c.UI.Theme.Overrides == nil {
		c.UI.Theme.Overrides = make(map[string]string)
	}
	if c.Keymap.Overrides == nil {
		c.Keymap.Overrides = make(map[string]string)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// ParseLevel converts a level name into a slog.Level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log.level %q: %w", s, err)
	}
	return lvl, nil
}
