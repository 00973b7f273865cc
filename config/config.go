package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for environment variable overrides, e.g.
// SHOWDECK_SONARR_URL -> sonarr_url.
const EnvPrefix = "SHOWDECK_"

// ConfigPathEnvVar overrides the config file search.
const ConfigPathEnvVar = "SHOWDECK_CONFIG"

// ErrNotFound is returned when no config file exists at any search path.
var ErrNotFound = errors.New("configuration file not found")

// Config holds every setting the tracker needs. Required fields have no
// default and fail validation when absent; the rest default per
// defaultConfig.
type Config struct {
	SonarrURL    string `koanf:"sonarr_url" json:"sonarr_url"`
	SonarrAPIKey string `koanf:"sonarr_api_key" json:"sonarr_api_key"`

	DaysPast   int `koanf:"days_past" json:"days_past"`
	DaysFuture int `koanf:"days_future" json:"days_future"`

	OutputHTMLFile string `koanf:"output_html_file" json:"output_html_file"`
	OutputJSONFile string `koanf:"output_json_file" json:"output_json_file,omitempty"`

	ImageCacheDir    string `koanf:"image_cache_dir" json:"image_cache_dir"`
	EnableImageCache *bool  `koanf:"enable_image_cache" json:"enable_image_cache,omitempty"`
	ImageSize        string `koanf:"image_size" json:"image_size"`

	RefreshIntervalHours int `koanf:"refresh_interval_hours" json:"refresh_interval_hours"`

	HTMLTitle   string `koanf:"html_title" json:"html_title"`
	HTMLTheme   string `koanf:"html_theme" json:"html_theme"`
	GridColumns int    `koanf:"grid_columns" json:"grid_columns"`
}

func defaultConfig() *Config {
	return &Config{
		DaysPast:             -1, // required, no default
		DaysFuture:           -1, // required, no default
		ImageCacheDir:        "sonarr_images/",
		ImageSize:            "500",
		RefreshIntervalHours: 6,
		HTMLTitle:            "Sonarr Calendar Pro",
		HTMLTheme:            "dark",
		GridColumns:          4,
	}
}

// ImageCacheEnabled resolves the optional enable flag, default true.
func (c *Config) ImageCacheEnabled() bool {
	return c.EnableImageCache == nil || *c.EnableImageCache
}

// RefreshInterval is the sleep between cycles.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalHours) * time.Hour
}

// Validate checks required keys and value ranges. Failures here are
// fatal before the loop starts; the message points the operator at the
// setup command.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.SonarrURL) == "" {
		missing = append(missing, "sonarr_url")
	}
	if strings.TrimSpace(c.SonarrAPIKey) == "" {
		missing = append(missing, "sonarr_api_key")
	}
	if c.DaysPast < 0 {
		missing = append(missing, "days_past")
	}
	if c.DaysFuture < 0 {
		missing = append(missing, "days_future")
	}
	if strings.TrimSpace(c.OutputHTMLFile) == "" {
		missing = append(missing, "output_html_file")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings %s: run 'showdeck setup' to configure", strings.Join(missing, ", "))
	}

	u, err := url.Parse(c.SonarrURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("sonarr_url %q is not a valid http(s) URL", c.SonarrURL)
	}
	if c.RefreshIntervalHours < 1 {
		return fmt.Errorf("refresh_interval_hours must be at least 1, got %d", c.RefreshIntervalHours)
	}
	if c.HTMLTheme != "dark" && c.HTMLTheme != "light" {
		return fmt.Errorf("html_theme must be \"dark\" or \"light\", got %q", c.HTMLTheme)
	}
	if c.GridColumns < 1 || c.GridColumns > 8 {
		return fmt.Errorf("grid_columns must be between 1 and 8, got %d", c.GridColumns)
	}
	return nil
}

// DefaultPaths are searched in order when no explicit path is given.
func DefaultPaths() []string {
	paths := []string{".showdeck.json"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "showdeck", "config.json"))
	}
	return paths
}

// FindFile resolves the config file path: explicit argument, then the
// SHOWDECK_CONFIG environment variable, then the default search paths.
// Returns ErrNotFound when nothing exists.
func FindFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file %s: %w", explicit, ErrNotFound)
		}
		return explicit, nil
	}
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
	}
	for _, p := range DefaultPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", ErrNotFound
}

// Load reads configuration in layers: struct defaults, then the JSON
// config file, then SHOWDECK_* environment variables. The result is
// validated; a missing file or failed validation is fatal to the caller.
func Load(path string) (*Config, error) {
	resolved, err := FindFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: run 'showdeck setup' to create one", err)
	}

	k := koanf.New(".")
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	if err := k.Load(file.Provider(resolved), kjson.Parser()); err != nil {
		return nil, fmt.Errorf("load config file %s: %w", resolved, err)
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envTransform maps SHOWDECK_SONARR_URL to sonarr_url and so on.
// Unknown variables are dropped rather than polluting the config.
func envTransform(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	known := map[string]bool{
		"sonarr_url":             true,
		"sonarr_api_key":         true,
		"days_past":              true,
		"days_future":            true,
		"output_html_file":       true,
		"output_json_file":       true,
		"image_cache_dir":        true,
		"enable_image_cache":     true,
		"image_size":             true,
		"refresh_interval_hours": true,
		"html_title":             true,
		"html_theme":             true,
		"grid_columns":           true,
	}
	if known[key] {
		return key
	}
	return ""
}

// Save writes the config to path atomically with owner-only permissions
// (the file carries the API key).
func Save(cfg *Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write config temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace config file: %w", err)
	}
	return nil
}
