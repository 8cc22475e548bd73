// Package config loads server settings from the environment and tracking
// settings from a TOML file.
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite     = "sqlite"
	DriverClickHouse = "clickhouse"
)

type ClickHouse struct {
	Host       string
	NativePort int
	Database   string
	Username   string
	Password   string
}

type Server struct {
	Port           string
	ReleaseMode    bool
	FrontendOrigin string
	JWTSecret      []byte
	StoreDriver    string
	SQLitePath     string
	ClickHouse     ClickHouse
	CatalogURL     string
	TrackingPath   string
	Location       *time.Location
}

// LoadDotEnv loads a .env file into the process environment if one exists.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading .env: %v", err)
	}
}

// LoadServer reads the server configuration from environment variables.
func LoadServer() (*Server, error) {
	cfg := &Server{
		Port:           getenv("PORT", "8080"),
		ReleaseMode:    os.Getenv("GIN_MODE") == "release",
		FrontendOrigin: getenv("FE_ORIGIN", "http://localhost:5173"),
		JWTSecret:      []byte(os.Getenv("JWT_SECRET_KEY")),
		StoreDriver:    getenv("STORE_DRIVER", DriverSQLite),
		SQLitePath:     getenv("SQLITE_PATH", filepath.Join(DataHome(), "skillrise", "tracking.db")),
		CatalogURL:     os.Getenv("DATABASE_URL"),
		TrackingPath:   os.Getenv("TRACKING_CONFIG"),
		Location:       time.Local,
	}

	if len(cfg.JWTSecret) == 0 {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	switch cfg.StoreDriver {
	case DriverSQLite:
	case DriverClickHouse:
		ch, err := loadClickHouse()
		if err != nil {
			return nil, err
		}
		cfg.ClickHouse = ch
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q (want %q or %q)", cfg.StoreDriver, DriverSQLite, DriverClickHouse)
	}

	if tz := os.Getenv("ANALYTICS_TZ"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("invalid ANALYTICS_TZ: %w", err)
		}
		cfg.Location = loc
	}

	return cfg, nil
}

func loadClickHouse() (ClickHouse, error) {
	host := os.Getenv("CLICKHOUSE_HOST")
	nativePortStr := os.Getenv("CLICKHOUSE_NATIVE_PORT")
	dbName := os.Getenv("CLICKHOUSE_DB_NAME")

	if host == "" || nativePortStr == "" || dbName == "" {
		return ClickHouse{}, fmt.Errorf("CLICKHOUSE_HOST, CLICKHOUSE_NATIVE_PORT, or CLICKHOUSE_DB_NAME environment variables are not set")
	}

	nativePort, err := strconv.Atoi(nativePortStr)
	if err != nil {
		return ClickHouse{}, fmt.Errorf("invalid CLICKHOUSE_NATIVE_PORT: %w", err)
	}

	return ClickHouse{
		Host:       host,
		NativePort: nativePort,
		Database:   dbName,
		Username:   os.Getenv("CLICKHOUSE_USERNAME"),
		Password:   os.Getenv("CLICKHOUSE_PASSWORD"),
	}, nil
}

// DataHome returns XDG_DATA_HOME or ~/.local/share.
func DataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
