package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/mindwell/moodboard/internal/core"
)

const (
	DefaultAPIBaseURL            = "http://127.0.0.1:5000"
	defaultRequestTimeoutSeconds = 10
	defaultRequestsPerSecond     = 4.0
	defaultRequestBurst          = 4
)

type APIConfig struct {
	BaseURL               string  `json:"base_url"`
	RequestTimeoutSeconds int     `json:"request_timeout_seconds"`
	RequestsPerSecond     float64 `json:"requests_per_second"`
	RequestBurst          int     `json:"request_burst"`
}

type UIConfig struct {
	DefaultTimeRange core.TimeRange `json:"default_time_range"`
	// AutoRefreshSeconds of zero disables periodic refresh.
	AutoRefreshSeconds int `json:"auto_refresh_seconds"`
}

type Config struct {
	API   APIConfig `json:"api"`
	UI    UIConfig  `json:"ui"`
	Theme string    `json:"theme"`
}

func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL:               DefaultAPIBaseURL,
			RequestTimeoutSeconds: defaultRequestTimeoutSeconds,
			RequestsPerSecond:     defaultRequestsPerSecond,
			RequestBurst:          defaultRequestBurst,
		},
		UI: UIConfig{
			DefaultTimeRange: core.TimeRangeWeek,
		},
		Theme: "Calm Night",
	}
}

// RequestTimeout bounds a single API call.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.API.RequestTimeoutSeconds) * time.Second
}

func ConfigDir() string {
	if dir := strings.TrimSpace(os.Getenv("MOODBOARD_CONFIG_DIR")); dir != "" {
		return dir
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "moodboard")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "moodboard")
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), "settings.json")
}

func Load() (Config, error) {
	cfg, err := LoadFrom(ConfigPath())
	if err != nil {
		return cfg, err
	}
	if url := strings.TrimSpace(os.Getenv("MOODBOARD_API_URL")); url != "" {
		cfg.API.BaseURL = strings.TrimRight(url, "/")
	}
	return cfg, nil
}

func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config %s: %w", path, err)
	}

	defaults := DefaultConfig()
	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.API.BaseURL), "/")
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = defaults.API.BaseURL
	}
	if cfg.API.RequestTimeoutSeconds <= 0 {
		cfg.API.RequestTimeoutSeconds = defaults.API.RequestTimeoutSeconds
	}
	if cfg.API.RequestsPerSecond <= 0 {
		cfg.API.RequestsPerSecond = defaults.API.RequestsPerSecond
	}
	if cfg.API.RequestBurst <= 0 {
		cfg.API.RequestBurst = defaults.API.RequestBurst
	}
	cfg.UI.DefaultTimeRange = core.ParseTimeRange(string(cfg.UI.DefaultTimeRange))
	if cfg.UI.AutoRefreshSeconds < 0 {
		cfg.UI.AutoRefreshSeconds = 0
	}
	if cfg.Theme == "" {
		cfg.Theme = defaults.Theme
	}

	return cfg, nil
}

// saveMu guards read-modify-write cycles on the config file.
var saveMu sync.Mutex

func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

func SaveTo(path string, cfg Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// SaveTimeRange persists the last selected range so the next dashboard opens on it.
func SaveTimeRange(tr core.TimeRange) error {
	return SaveTimeRangeTo(ConfigPath(), tr)
}

func SaveTimeRangeTo(path string, tr core.TimeRange) error {
	saveMu.Lock()
	defer saveMu.Unlock()

	cfg, err := LoadFrom(path)
	if err != nil {
		cfg = DefaultConfig()
	}
	cfg.UI.DefaultTimeRange = core.ParseTimeRange(string(tr))
	return SaveTo(path, cfg)
}

func SaveAPIBaseURL(url string) error {
	return SaveAPIBaseURLTo(ConfigPath(), url)
}

func SaveAPIBaseURLTo(path, url string) error {
	saveMu.Lock()
	defer saveMu.Unlock()

	cfg, err := LoadFrom(path)
	if err != nil {
		cfg = DefaultConfig()
	}
	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(url), "/")
	return SaveTo(path, cfg)
}

func SaveTheme(name string) error {
	return SaveThemeTo(ConfigPath(), name)
}

func SaveThemeTo(path, name string) error {
	saveMu.Lock()
	defer saveMu.Unlock()

	cfg, err := LoadFrom(path)
	if err != nil {
		cfg = DefaultConfig()
	}
	cfg.Theme = strings.TrimSpace(name)
	return SaveTo(path, cfg)
}
