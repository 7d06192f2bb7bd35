package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{
	"STOREFRONT_CATALOG_DSN",
	"STOREFRONT_RECENT_SEARCHES",
	"STOREFRONT_PAGE_SIZE",
	"STOREFRONT_LOG_LEVEL",
	"STOREFRONT_SEED",
}

// unsetAll clears the storefront variables for the test and restores them after.
func unsetAll(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_Defaults(t *testing.T) {
	unsetAll(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, Config{
		CatalogDSN:     ":memory:",
		RecentSearches: 8,
		PageSize:       20,
		LogLevel:       zerolog.InfoLevel,
		SeedOnStart:    true,
	}, cfg)
}

func TestLoad_Environment(t *testing.T) {
	unsetAll(t)
	t.Setenv("STOREFRONT_CATALOG_DSN", "file:shop.db")
	t.Setenv("STOREFRONT_RECENT_SEARCHES", "3")
	t.Setenv("STOREFRONT_PAGE_SIZE", " 5 ")
	t.Setenv("STOREFRONT_LOG_LEVEL", "DEBUG")
	t.Setenv("STOREFRONT_SEED", "false")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "file:shop.db", cfg.CatalogDSN)
	assert.Equal(t, 3, cfg.RecentSearches)
	assert.Equal(t, 5, cfg.PageSize)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
	assert.False(t, cfg.SeedOnStart)
}

func TestLoad_DotEnvFile(t *testing.T) {
	unsetAll(t)
	t.Setenv("STOREFRONT_PAGE_SIZE", "7")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("STOREFRONT_RECENT_SEARCHES=4\nSTOREFRONT_PAGE_SIZE=50\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.RecentSearches)
	// already set in the environment
	assert.Equal(t, 7, cfg.PageSize)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"STOREFRONT_RECENT_SEARCHES": "many",
		"STOREFRONT_PAGE_SIZE":       "0",
		"STOREFRONT_SEED":            "sometimes",
		"STOREFRONT_LOG_LEVEL":       "loud",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			unsetAll(t)
			t.Setenv(key, val)
			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			assert.ErrorContains(t, err, key)
		})
	}
}
