package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	configDir  = ".config/notehub"
	configFile = "config.json"
)

// testConfigPath overrides ConfigPath in tests.
var testConfigPath string

// SetTestConfigPath points ConfigPath at path until ResetTestConfigPath.
func SetTestConfigPath(path string) { testConfigPath = path }

// ResetTestConfigPath restores the default ConfigPath.
func ResetTestConfigPath() { testConfigPath = "" }

// rawConfig is the JSON-unmarshaling intermediary.
type rawConfig struct {
	API    rawAPIConfig    `json:"api"`
	Cache  rawCacheConfig  `json:"cache"`
	Search rawSearchConfig `json:"search"`
	UI     rawUIConfig     `json:"ui"`
	Keymap KeymapConfig    `json:"keymap"`
	Log    rawLogConfig    `json:"log"`
}

type rawAPIConfig struct {
	BaseURL string `json:"baseURL"`
	Token   string `json:"token"`
	PerPage *int   `json:"perPage"`
	Timeout string `json:"timeout"`
}

type rawCacheConfig struct {
	Retries    *int   `json:"retries"`
	RetryDelay string `json:"retryDelay"`
	StaleTime  string `json:"staleTime"`
}

type rawSearchConfig struct {
	Debounce string `json:"debounce"`
}

type rawUIConfig struct {
	ToastDuration string      `json:"toastDuration"`
	ShowPreview   *bool       `json:"showPreview"`
	Theme         ThemeConfig `json:"theme"`
}

type rawLogConfig struct {
	Level  string  `json:"level"`
	Pretty *bool   `json:"pretty"`
	File   *string `json:"file"`
}

// envConfig is the environment overlay. Set variables win over the file.
type envConfig struct {
	Token    string `env:"NOTEHUB_TOKEN"`
	BaseURL  string `env:"NOTEHUB_BASE_URL"`
	PerPage  int    `env:"NOTEHUB_PER_PAGE"`
	LogLevel string `env:"NOTEHUB_LOG_LEVEL"`
}

// Load loads configuration from the default location.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration from a specific path, then applies the
// environment (including a .env file in the working directory).
// If path is empty, uses ~/.config/notehub/config.json
func LoadFrom(path string) (*Config, error) {
	cfg, err := loadFile(path)
	if err != nil {
		return nil, err
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	cfg.Log.File = ExpandPath(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile returns the defaults merged with the file at path, without
// the environment overlay. A missing file yields the defaults.
func loadFile(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = ConfigPath()
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	mergeConfig(cfg, &raw)
	return cfg, nil
}

// applyEnv overlays NOTEHUB_* variables onto cfg.
func applyEnv(cfg *Config) error {
	_ = godotenv.Load()

	var env envConfig
	if err := cleanenv.ReadEnv(&env); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	if env.Token != "" {
		cfg.API.Token = env.Token
	}
	if env.BaseURL != "" {
		cfg.API.BaseURL = env.BaseURL
	}
	// Zero means unset.
	if env.PerPage != 0 {
		cfg.API.PerPage = env.PerPage
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
	return nil
}

// mergeConfig merges raw config values into the config.
func mergeConfig(cfg *Config, raw *rawConfig) {
	// API
	if raw.API.BaseURL != "" {
		cfg.API.BaseURL = raw.API.BaseURL
	}
	if raw.API.Token != "" {
		cfg.API.Token = raw.API.Token
		cfg.fileToken = raw.API.Token
	}
	if raw.API.PerPage != nil {
		cfg.API.PerPage = *raw.API.PerPage
	}
	mergeDuration(&cfg.API.Timeout, raw.API.Timeout)

	// Cache
	if raw.Cache.Retries != nil {
		cfg.Cache.Retries = *raw.Cache.Retries
	}
	mergeDuration(&cfg.Cache.RetryDelay, raw.Cache.RetryDelay)
	mergeDuration(&cfg.Cache.StaleTime, raw.Cache.StaleTime)

	// Search
	mergeDuration(&cfg.Search.Debounce, raw.Search.Debounce)

	// UI
	mergeDuration(&cfg.UI.ToastDuration, raw.UI.ToastDuration)
	if raw.UI.ShowPreview != nil {
		cfg.UI.ShowPreview = *raw.UI.ShowPreview
	}
	if raw.UI.Theme.Name != "" {
		cfg.UI.Theme.Name = raw.UI.Theme.Name
	}
	for k, v := range raw.UI.Theme.Overrides {
		cfg.UI.Theme.Overrides[k] = v
	}

	// Keymap
	for k, v := range raw.Keymap.Overrides {
		cfg.Keymap.Overrides[k] = v
	}

	// Log
	if raw.Log.Level != "" {
		cfg.Log.Level = raw.Log.Level
	}
	if raw.Log.Pretty != nil {
		cfg.Log.Pretty = *raw.Log.Pretty
	}
	if raw.Log.File != nil {
		cfg.Log.File = *raw.Log.File
	}
}

// mergeDuration sets *dst when s parses. Bad values keep the default.
func mergeDuration(dst *time.Duration, s string) {
	if s == "" {
		return
	}
	if d, err := time.ParseDuration(s); err == nil {
		*dst = d
	}
}

// ExpandPath expands ~ to home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	if testConfigPath != "" {
		return testConfigPath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configDir, configFile)
}
