package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type Config struct {
	CatalogDSN     string
	RecentSearches int
	PageSize       int
	LogLevel       zerolog.Level
	SeedOnStart    bool
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s: must be positive, got %d", key, n)
	}
	return n, nil
}

func getEnvBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

// Load reads the given .env files (".env" when none are named) and then the
// environment. Missing .env files are fine; variables already set in the
// environment win over the file.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := Config{
		CatalogDSN: getEnv("STOREFRONT_CATALOG_DSN", ":memory:"),
	}

	var err error
	if cfg.RecentSearches, err = getEnvInt("STOREFRONT_RECENT_SEARCHES", 8); err != nil {
		return Config{}, err
	}
	if cfg.PageSize, err = getEnvInt("STOREFRONT_PAGE_SIZE", 20); err != nil {
		return Config{}, err
	}
	if cfg.SeedOnStart, err = getEnvBool("STOREFRONT_SEED", true); err != nil {
		return Config{}, err
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(getEnv("STOREFRONT_LOG_LEVEL", "info")))
	if err != nil {
		return Config{}, fmt.Errorf("STOREFRONT_LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = lvl
	return cfg, nil
}
