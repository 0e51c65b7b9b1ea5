package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tesh254/pbdocs/internal/config"
	"github.com/tesh254/pbdocs/internal/site"
)

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(config.New())
	require.NoError(t, err)

	assert.Equal(t, "./jsdocs", cfg.OutputDir)
	assert.Equal(t, config.FetcherBrowser, cfg.Fetcher)
	assert.Equal(t, ".page-content", cfg.Scraper.ContentSelector)
	assert.Equal(t, 30*time.Second, cfg.Scraper.Timeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Delay)
	assert.Equal(t, "pocketbase-js-sdk-complete.md", cfg.BundleFile)
	assert.Equal(t, "PocketBase JavaScript SDK Documentation", cfg.BundleTitle)
	assert.Equal(t, logrus.InfoLevel, cfg.LogLevel)
	assert.Equal(t, site.PocketBaseJS(), cfg.Site)
}

func TestLoad_YAMLFile(t *testing.T) {
	t.Parallel()

	v := config.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
output-dir: /tmp/docs
fetcher: HTTP
delay: 2s
log-level: debug
site:
  host: example.com
  docs-path: manual
  slug-prefix: go-
  entry-slug: go-intro
`)))

	cfg, err := config.Load(v)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/docs", cfg.OutputDir)
	assert.Equal(t, config.FetcherHTTP, cfg.Fetcher)
	assert.Equal(t, 2*time.Second, cfg.Delay)
	assert.Equal(t, logrus.DebugLevel, cfg.LogLevel)
	assert.Equal(t, site.Site{
		Scheme:     "https",
		Host:       "example.com",
		DocsPath:   "/manual/",
		SlugPrefix: "go-",
		EntrySlug:  "go-intro",
	}, cfg.Site)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("PBDOCS_OUTPUT_DIR", "./out")
	t.Setenv("PBDOCS_SITE_HOST", "docs.example.org")

	cfg, err := config.Load(config.New())
	require.NoError(t, err)

	assert.Equal(t, "./out", cfg.OutputDir)
	assert.Equal(t, "docs.example.org", cfg.Site.Host)
}

func TestBindEnv(t *testing.T) {
	t.Setenv("PBDOCS_FETCHER", "http")
	t.Setenv("PBDOCS_SITE_ENTRY_SLUG", "js-routing")

	v := viper.New()
	config.SetDefaults(v)
	config.BindEnv(v)

	cfg, err := config.Load(v)
	require.NoError(t, err)
	assert.Equal(t, config.FetcherHTTP, cfg.Fetcher)
	assert.Equal(t, "js-routing", cfg.Site.EntrySlug)
}

func TestLoad_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		key   string
		value any
		want  error
	}{
		{"unknown fetcher", config.KeyFetcher, "curl", config.ErrInvalidFetcher},
		{"bad log level", config.KeyLogLevel, "chatty", config.ErrInvalidValue},
		{"empty output dir", config.KeyOutputDir, " ", config.ErrInvalidValue},
		{"zero timeout", config.KeyTimeout, "0s", config.ErrInvalidValue},
		{"negative delay", config.KeyDelay, "-1s", config.ErrInvalidValue},
		{"bundle file with directory", config.KeyBundleFile, "../all.md", config.ErrInvalidValue},
		{"entry slug without prefix", config.KeySiteEntrySlug, "overview", config.ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v := config.New()
			v.Set(tt.key, tt.value)

			_, err := config.Load(v)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoad_ZeroDelayAllowed(t *testing.T) {
	t.Parallel()

	v := config.New()
	v.Set(config.KeyDelay, 0)

	cfg, err := config.Load(v)
	require.NoError(t, err)
	assert.Zero(t, cfg.Delay)
}
