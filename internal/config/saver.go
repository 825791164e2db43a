package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// saveConfig is the JSON-marshaling intermediary that uses string durations.
type saveConfig struct {
	API    saveAPIConfig    `json:"api"`
	Cache  saveCacheConfig  `json:"cache"`
	Search saveSearchConfig `json:"search"`
	UI     saveUIConfig     `json:"ui"`
	Keymap KeymapConfig     `json:"keymap"`
	Log    LogConfig        `json:"log"`
}

type saveAPIConfig struct {
	BaseURL string `json:"baseURL,omitempty"`
	Token   string `json:"token,omitempty"`
	PerPage int    `json:"perPage,omitempty"`
	Timeout string `json:"timeout,omitempty"`
}

type saveCacheConfig struct {
	Retries    *int   `json:"retries,omitempty"`
	RetryDelay string `json:"retryDelay,omitempty"`
	StaleTime  string `json:"staleTime,omitempty"`
}

type saveSearchConfig struct {
	Debounce string `json:"debounce,omitempty"`
}

type saveUIConfig struct {
	ToastDuration string      `json:"toastDuration,omitempty"`
	ShowPreview   bool        `json:"showPreview"`
	Theme         ThemeConfig `json:"theme"`
}

// toSaveConfig converts Config to the JSON-serializable format.
// Only a token that came from the file is written back.
func toSaveConfig(cfg *Config) saveConfig {
	return saveConfig{
		API: saveAPIConfig{
			BaseURL: cfg.API.BaseURL,
			Token:   cfg.fileToken,
			PerPage: cfg.API.PerPage,
			Timeout: cfg.API.Timeout.String(),
		},
		Cache: saveCacheConfig{
			Retries:    &cfg.Cache.Retries,
			RetryDelay: cfg.Cache.RetryDelay.String(),
			StaleTime:  cfg.Cache.StaleTime.String(),
		},
		Search: saveSearchConfig{
			Debounce: cfg.Search.Debounce.String(),
		},
		UI: saveUIConfig{
			ToastDuration: cfg.UI.ToastDuration.String(),
			ShowPreview:   cfg.UI.ShowPreview,
			Theme:         cfg.UI.Theme,
		},
		Keymap: cfg.Keymap,
		Log:    cfg.Log,
	}
}

// Save writes the config to ~/.config/notehub/config.json, keeping any
// top-level keys it does not manage.
func Save(cfg *Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo is Save for an explicit path.
func SaveTo(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config: no home directory")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	merged := make(map[string]json.RawMessage)
	if data, err := os.ReadFile(path); err == nil {
		// An unreadable file is replaced rather than blocking the save.
		_ = json.Unmarshal(data, &merged)
	}

	managed, err := json.Marshal(toSaveConfig(cfg))
	if err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(managed, &fields); err != nil {
		return err
	}
	for k, v := range fields {
		merged[k] = v
	}

	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SavePreview updates only the preview toggle and saves.
func SavePreview(show bool) error {
	return SavePreviewTo(ConfigPath(), show)
}

// SavePreviewTo updates the preview toggle in the file at path. Values
// that came from the environment are not written.
func SavePreviewTo(path string, show bool) error {
	cfg, err := loadFile(path)
	if err != nil {
		return err
	}
	cfg.UI.ShowPreview = show
	return SaveTo(path, cfg)
}
