package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/nilsimda/leaderboard/models"
)

const (
	defaultSheetBaseURL = "https://docs.google.com/spreadsheets/d/18YGpLXlqNiWfBX7bH-HNN4oFBttFMErHyuMduMGEu4I"
	defaultPort         = "8080"
	defaultDBPath       = "./leaderboard.db"
	defaultAdminUser    = "admin"
	defaultFetchTimeout = 10 * time.Second
)

var defaultGIDs = map[models.RoundID]string{
	models.Round1:  "0",
	models.Round2:  "855009639",
	models.Round3:  "2028513950",
	models.Round4:  "893729618",
	models.Overall: "990261427",
}

type Config struct {
	Port          string
	SheetBaseURL  string
	GIDs          map[models.RoundID]string
	DBPath        string
	AdminUser     string
	AdminPassword string
	FetchTimeout  time.Duration
	LogLevel      slog.Level
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		Port:          getenv("PORT", defaultPort),
		SheetBaseURL:  getenv("SHEET_BASE_URL", defaultSheetBaseURL),
		GIDs:          make(map[models.RoundID]string, len(models.Rounds)),
		DBPath:        getenv("DB_PATH", defaultDBPath),
		AdminUser:     getenv("ADMIN_USER", defaultAdminUser),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		FetchTimeout:  defaultFetchTimeout,
	}

	for _, round := range models.Rounds {
		key := strings.ToUpper(string(round)) + "_GID"
		cfg.GIDs[round] = getenv(key, defaultGIDs[round])
	}

	if v := os.Getenv("FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid FETCH_TIMEOUT %q: %w", v, err)
		}
		cfg.FetchTimeout = d
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", v, err)
		}
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.SheetBaseURL == "" {
		return fmt.Errorf("sheet base url cannot be empty")
	}
	for _, round := range models.Rounds {
		if c.GIDs[round] == "" {
			return fmt.Errorf("sheet gid for %s cannot be empty", round)
		}
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be greater than 0")
	}
	if c.DBPath == "" {
		return fmt.Errorf("db path cannot be empty")
	}
	return nil
}

// AdminEnabled is false when no admin password is configured.
func (c *Config) AdminEnabled() bool {
	return c.AdminPassword != ""
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
