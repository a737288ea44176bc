package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/piwik/pkg/config"
)

type siteConfig struct {
	URL       string        `yaml:"url" env:"FILE_TEST_URL"`
	SiteID    int           `yaml:"site_id" env:"FILE_TEST_SITE_ID" envDefault:"1"`
	TokenAuth string        `yaml:"token_auth" env:"FILE_TEST_TOKEN_AUTH"`
	Timeout   time.Duration `yaml:"timeout" env:"FILE_TEST_TIMEOUT" envDefault:"30s"`
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile_YAMLWithDefaults(t *testing.T) {
	path := writeFile(t, "piwik.yaml", "url: https://stats.example.org\nsite_id: 7\n")

	var cfg siteConfig
	require.NoError(t, config.LoadFile(path, &cfg))

	assert.Equal(t, "https://stats.example.org", cfg.URL)
	assert.Equal(t, 7, cfg.SiteID, "file value must not be replaced by envDefault")
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Empty(t, cfg.TokenAuth)
}

func TestLoadFile_EnvOverridesFile(t *testing.T) {
	t.Setenv("FILE_TEST_TOKEN_AUTH", "secret")
	t.Setenv("FILE_TEST_SITE_ID", "9")
	path := writeFile(t, "piwik.yaml", "url: https://stats.example.org\nsite_id: 7\n")

	var cfg siteConfig
	require.NoError(t, config.LoadFile(path, &cfg))

	assert.Equal(t, "secret", cfg.TokenAuth)
	assert.Equal(t, 9, cfg.SiteID)
}

func TestLoadFile_Errors(t *testing.T) {
	var cfg siteConfig

	err := config.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), &cfg)
	assert.ErrorIs(t, err, config.ErrReadingFile)

	path := writeFile(t, "broken.yaml", "url: [unterminated\n")
	err = config.LoadFile(path, &cfg)
	assert.ErrorIs(t, err, config.ErrParsingFile)

	var nilCfg *siteConfig
	assert.ErrorIs(t, config.LoadFile(path, nilCfg), config.ErrNilPointer)
}

type envFileConfig struct {
	Value    string `env:"ENVFILE_TEST_VALUE"`
	Priority string `env:"ENVFILE_TEST_PRIORITY"`
}

func TestLoadEnv_LaterFilesOverride(t *testing.T) {
	t.Setenv("ENVFILE_TEST_VALUE", "")
	t.Setenv("ENVFILE_TEST_PRIORITY", "")

	first := writeFile(t, ".env.first", "ENVFILE_TEST_VALUE=first\nENVFILE_TEST_PRIORITY=first\n")
	second := writeFile(t, ".env.second", "ENVFILE_TEST_PRIORITY=second\n")

	require.NoError(t, config.LoadEnv(first, second))
	config.ResetCache()
	t.Cleanup(config.ResetCache)

	var cfg envFileConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "first", cfg.Value)
	assert.Equal(t, "second", cfg.Priority)
}

func TestLoadEnv_MissingFile(t *testing.T) {
	err := config.LoadEnv(filepath.Join(t.TempDir(), ".env.nope"))
	assert.ErrorIs(t, err, config.ErrLoadingEnvFile)
}

type resetConfig struct {
	Value string `env:"RESET_TEST_VALUE"`
}

func TestResetCache(t *testing.T) {
	t.Cleanup(config.ResetCache)

	t.Setenv("RESET_TEST_VALUE", "before")
	var cfg resetConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "before", cfg.Value)

	t.Setenv("RESET_TEST_VALUE", "after")
	config.ResetCache()

	var reloaded resetConfig
	require.NoError(t, config.Load(&reloaded))
	assert.Equal(t, "after", reloaded.Value)
}
