package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"skillrise/api/routes"
)

// Duration decodes TOML strings such as "120s" or "2m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	if parsed <= 0 {
		return fmt.Errorf("duration %q must be positive", string(text))
	}
	d.Duration = parsed
	return nil
}

// Tracking holds the route table, dashboard exclusions and client thresholds.
type Tracking struct {
	Routes              routes.Table
	ExcludedPages       []string
	MinFlushSeconds     int
	HeartbeatInterval   time.Duration
	HeartbeatMinSeconds int
}

// DefaultTracking returns the settings used when no config file is present.
func DefaultTracking() Tracking {
	return Tracking{
		Routes:              routes.DefaultTable(),
		ExcludedPages:       []string{"Home", "Browse Courses", "Course Details", "Analytics", "Other"},
		MinFlushSeconds:     5,
		HeartbeatInterval:   120 * time.Second,
		HeartbeatMinSeconds: 60,
	}
}

type trackingFile struct {
	Routes struct {
		Exact    map[string]string   `toml:"exact"`
		Prefixes []routes.PrefixRule `toml:"prefix"`
	} `toml:"routes"`
	Analytics struct {
		ExcludedPages *[]string `toml:"excluded_pages"`
	} `toml:"analytics"`
	Client struct {
		MinFlushSeconds     *int      `toml:"min_flush_seconds"`
		HeartbeatInterval   *Duration `toml:"heartbeat_interval"`
		HeartbeatMinSeconds *int      `toml:"heartbeat_min_seconds"`
	} `toml:"client"`
}

// LoadTracking reads the TOML tracking config at path on top of the
// defaults. An empty path or a missing file is not an error.
func LoadTracking(path string) (Tracking, error) {
	cfg := DefaultTracking()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to stat tracking config: %w", err)
	}

	var file trackingFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return cfg, fmt.Errorf("failed to decode tracking config: %w", err)
	}

	if file.Routes.Exact != nil {
		cfg.Routes.Exact = file.Routes.Exact
	}
	if len(file.Routes.Prefixes) > 0 {
		cfg.Routes.Prefixes = file.Routes.Prefixes
	}
	if file.Analytics.ExcludedPages != nil {
		cfg.ExcludedPages = *file.Analytics.ExcludedPages
	}
	if v := file.Client.MinFlushSeconds; v != nil {
		if *v < 1 {
			return cfg, fmt.Errorf("min_flush_seconds must be at least 1, got %d", *v)
		}
		cfg.MinFlushSeconds = *v
	}
	if v := file.Client.HeartbeatInterval; v != nil {
		cfg.HeartbeatInterval = v.Duration
	}
	if v := file.Client.HeartbeatMinSeconds; v != nil {
		cfg.HeartbeatMinSeconds = *v
	}
	return cfg, nil
}
