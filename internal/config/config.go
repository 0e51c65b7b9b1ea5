// Package config resolves pbdocs settings from flags, environment
// variables and an optional YAML file, all through viper.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/tesh254/pbdocs/internal/crawl"
	"github.com/tesh254/pbdocs/internal/scraper"
	"github.com/tesh254/pbdocs/internal/site"
)

// EnvPrefix prefixes every environment variable, e.g. PBDOCS_OUTPUT_DIR.
const EnvPrefix = "PBDOCS"

// Keys.
const (
	KeyOutputDir      = "output-dir"
	KeyFetcher        = "fetcher"
	KeySelector       = "selector"
	KeyUserAgent      = "user-agent"
	KeyTimeout        = "timeout"
	KeyDelay          = "delay"
	KeyBundleFile     = "bundle-file"
	KeyBundleTitle    = "bundle-title"
	KeyLogLevel       = "log-level"
	KeySiteHost       = "site.host"
	KeySiteDocsPath   = "site.docs-path"
	KeySiteSlugPrefix = "site.slug-prefix"
	KeySiteEntrySlug  = "site.entry-slug"
)

// Fetcher names.
const (
	FetcherBrowser = "browser"
	FetcherHTTP    = "http"
)

var (
	// ErrInvalidFetcher is returned when the fetcher setting names no
	// known fetcher.
	ErrInvalidFetcher = errors.New("invalid fetcher")
	// ErrInvalidValue is returned for any other setting out of range.
	ErrInvalidValue = errors.New("invalid configuration value")
)

// Config is the resolved configuration of one pbdocs invocation.
type Config struct {
	OutputDir   string
	Fetcher     string
	Scraper     scraper.Config
	Delay       time.Duration
	BundleFile  string
	BundleTitle string
	LogLevel    logrus.Level
	Site        site.Site
}

// New returns a viper instance with pbdocs defaults and environment
// lookup configured.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	BindEnv(v)
	return v
}

// BindEnv makes v look every key up in the environment, e.g. site.host as
// PBDOCS_SITE_HOST.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	s := site.PocketBaseJS()
	sc := scraper.DefaultConfig()

	v.SetDefault(KeyOutputDir, "./jsdocs")
	v.SetDefault(KeyFetcher, FetcherBrowser)
	v.SetDefault(KeySelector, sc.ContentSelector)
	v.SetDefault(KeyUserAgent, sc.UserAgent)
	v.SetDefault(KeyTimeout, sc.Timeout)
	v.SetDefault(KeyDelay, crawl.DefaultDelay)
	v.SetDefault(KeyBundleFile, "pocketbase-js-sdk-complete.md")
	v.SetDefault(KeyBundleTitle, "PocketBase JavaScript SDK Documentation")
	v.SetDefault(KeyLogLevel, logrus.InfoLevel.String())
	v.SetDefault(KeySiteHost, s.Host)
	v.SetDefault(KeySiteDocsPath, s.DocsPath)
	v.SetDefault(KeySiteSlugPrefix, s.SlugPrefix)
	v.SetDefault(KeySiteEntrySlug, s.EntrySlug)
}

// Load reads and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	fetcher := strings.ToLower(strings.TrimSpace(v.GetString(KeyFetcher)))
	if fetcher != FetcherBrowser && fetcher != FetcherHTTP {
		return nil, fmt.Errorf("%w: %q (want %q or %q)", ErrInvalidFetcher, fetcher, FetcherBrowser, FetcherHTTP)
	}

	level, err := logrus.ParseLevel(v.GetString(KeyLogLevel))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidValue, KeyLogLevel, err)
	}

	cfg := &Config{
		OutputDir: v.GetString(KeyOutputDir),
		Fetcher:   fetcher,
		Scraper: scraper.Config{
			UserAgent:       v.GetString(KeyUserAgent),
			Timeout:         v.GetDuration(KeyTimeout),
			ContentSelector: v.GetString(KeySelector),
		},
		Delay:       v.GetDuration(KeyDelay),
		BundleFile:  v.GetString(KeyBundleFile),
		BundleTitle: v.GetString(KeyBundleTitle),
		LogLevel:    level,
		Site: site.Site{
			Scheme:     "https",
			Host:       v.GetString(KeySiteHost),
			DocsPath:   normalizeDocsPath(v.GetString(KeySiteDocsPath)),
			SlugPrefix: v.GetString(KeySiteSlugPrefix),
			EntrySlug:  v.GetString(KeySiteEntrySlug),
		},
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case strings.TrimSpace(c.OutputDir) == "":
		return fmt.Errorf("%w: %s is empty", ErrInvalidValue, KeyOutputDir)
	case c.Scraper.ContentSelector == "":
		return fmt.Errorf("%w: %s is empty", ErrInvalidValue, KeySelector)
	case c.Scraper.Timeout <= 0:
		return fmt.Errorf("%w: %s must be positive", ErrInvalidValue, KeyTimeout)
	case c.Delay < 0:
		return fmt.Errorf("%w: %s must not be negative", ErrInvalidValue, KeyDelay)
	case c.BundleFile == "" || c.BundleFile != filepath.Base(c.BundleFile):
		return fmt.Errorf("%w: %s must be a plain file name", ErrInvalidValue, KeyBundleFile)
	case c.Site.Host == "":
		return fmt.Errorf("%w: %s is empty", ErrInvalidValue, KeySiteHost)
	case c.Site.EntrySlug == "" || !strings.HasPrefix(c.Site.EntrySlug, c.Site.SlugPrefix):
		return fmt.Errorf("%w: %s must start with %q", ErrInvalidValue, KeySiteEntrySlug, c.Site.SlugPrefix)
	}
	return nil
}

// normalizeDocsPath makes p start and end with a slash.
func normalizeDocsPath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return "/"
	}
	return "/" + p + "/"
}
