package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/piwik/pkg/config"
)

// Each test uses its own type: Load caches per type for the whole process.

type collectorEnv struct {
	URL     string        `env:"LOADER_TEST_COLLECTOR_URL" envDefault:"https://stats.example.org"`
	SiteID  int           `env:"LOADER_TEST_SITE_ID" envDefault:"1"`
	Bulk    bool          `env:"LOADER_TEST_BULK" envDefault:"false"`
	Timeout time.Duration `env:"LOADER_TEST_TIMEOUT" envDefault:"30s"`
}

type collectorDefaults struct {
	URL     string        `env:"LOADER_DEFAULTS_COLLECTOR_URL" envDefault:"https://stats.example.org"`
	SiteID  int           `env:"LOADER_DEFAULTS_SITE_ID" envDefault:"1"`
	Timeout time.Duration `env:"LOADER_DEFAULTS_TIMEOUT" envDefault:"30s"`
}

type tokenEnv struct {
	TokenAuth string `env:"LOADER_CACHE_TOKEN_AUTH"`
}

type requiredSite struct {
	SiteID int `env:"LOADER_REQUIRED_SITE_ID,required"`
}

type mustSite struct {
	SiteID int `env:"LOADER_MUST_SITE_ID,required"`
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("LOADER_TEST_COLLECTOR_URL", "https://piwik.example.com/piwik.php")
	t.Setenv("LOADER_TEST_SITE_ID", "12")
	t.Setenv("LOADER_TEST_BULK", "true")
	t.Setenv("LOADER_TEST_TIMEOUT", "250ms")

	var cfg collectorEnv
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, collectorEnv{
		URL:     "https://piwik.example.com/piwik.php",
		SiteID:  12,
		Bulk:    true,
		Timeout: 250 * time.Millisecond,
	}, cfg)
}

func TestLoad_Defaults(t *testing.T) {
	var cfg collectorDefaults
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, "https://stats.example.org", cfg.URL)
	assert.Equal(t, 1, cfg.SiteID)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestLoad_CachedPerTypeUntilReset(t *testing.T) {
	t.Setenv("LOADER_CACHE_TOKEN_AUTH", "first")

	var first tokenEnv
	require.NoError(t, config.Load(&first))

	t.Setenv("LOADER_CACHE_TOKEN_AUTH", "second")
	var cached tokenEnv
	require.NoError(t, config.Load(&cached))
	assert.Equal(t, "first", cached.TokenAuth)

	config.ResetCache()
	var fresh tokenEnv
	require.NoError(t, config.Load(&fresh))
	assert.Equal(t, "second", fresh.TokenAuth)
}

func TestLoad_MissingRequiredCanRetry(t *testing.T) {
	var cfg requiredSite
	err := config.Load(&cfg)
	assert.ErrorIs(t, err, config.ErrParsingConfig)

	t.Setenv("LOADER_REQUIRED_SITE_ID", "4")
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, 4, cfg.SiteID)
}

func TestLoad_NilPointer(t *testing.T) {
	var cfg *collectorEnv
	assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
}

func TestMustLoad_Panics(t *testing.T) {
	var cfg mustSite
	assert.Panics(t, func() { config.MustLoad(&cfg) })
}
