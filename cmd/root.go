package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tesh254/pbdocs/internal/config"
	"github.com/tesh254/pbdocs/internal/crawl"
	"github.com/tesh254/pbdocs/internal/render"
	"github.com/tesh254/pbdocs/internal/scraper"
	"github.com/tesh254/pbdocs/internal/storage"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "pbdocs",
	Short: "pbdocs turns the PocketBase JavaScript SDK documentation into Markdown.",
	Long: `pbdocs crawls the PocketBase JavaScript SDK documentation with a headless
browser and converts every page to Markdown, either as one file per page or
as a single bundled document with a table of contents.`,
	Version: buildVersion(),
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	defaults := viper.New()
	config.SetDefaults(defaults)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pbdocs/config.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	flags.StringP(config.KeyOutputDir, "o", defaults.GetString(config.KeyOutputDir), "Directory the Markdown files are written to")
	flags.String(config.KeyFetcher, defaults.GetString(config.KeyFetcher), "Page fetcher: browser or http")
	flags.String(config.KeySelector, defaults.GetString(config.KeySelector), "CSS selector of the page content region")
	flags.String(config.KeyUserAgent, defaults.GetString(config.KeyUserAgent), "User-Agent sent with every request")
	flags.Duration(config.KeyTimeout, defaults.GetDuration(config.KeyTimeout), "Timeout for loading a single page")
	flags.Duration(config.KeyDelay, defaults.GetDuration(config.KeyDelay), "Pause between two page fetches")
	flags.String(config.KeyLogLevel, defaults.GetString(config.KeyLogLevel), "Log level (debug, info, warn, error)")

	for _, key := range []string{
		config.KeyOutputDir,
		config.KeyFetcher,
		config.KeySelector,
		config.KeyUserAgent,
		config.KeyTimeout,
		config.KeyDelay,
		config.KeyLogLevel,
	} {
		viper.BindPFlag(key, flags.Lookup(key))
	}

	config.SetDefaults(viper.GetViper())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(filepath.Join(home, ".pbdocs"))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	config.BindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Println("Error reading config file:", err)
			os.Exit(1)
		}
	}
}

// loadConfig resolves the configuration and the logger of a command.
func loadConfig() (*config.Config, *logrus.Logger) {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	log.SetLevel(cfg.LogLevel)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	if used := viper.ConfigFileUsed(); used != "" {
		log.WithField("file", used).Debug("using config file")
	}
	return cfg, log
}

// newFetcher starts the configured fetcher. The returned func releases it.
func newFetcher(ctx context.Context, cfg *config.Config, log *logrus.Logger) (scraper.Fetcher, func(), error) {
	sc := cfg.Scraper
	switch cfg.Fetcher {
	case config.FetcherHTTP:
		return scraper.NewHTTPFetcher(&sc, log), func() {}, nil
	default:
		b, err := scraper.NewBrowserFetcher(ctx, &sc, log)
		if err != nil {
			return nil, nil, err
		}
		return b, b.Close, nil
	}
}

func openStore(cfg *config.Config) (*storage.FileStore, error) {
	return storage.NewFileStore(afero.NewOsFs(), cfg.OutputDir)
}

// newCrawler wires a crawler writing into the configured output directory.
func newCrawler(ctx context.Context, cfg *config.Config, log *logrus.Logger, out io.Writer) (*crawl.Crawler, func(), error) {
	store, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	fetcher, release, err := newFetcher(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	log.WithFields(logrus.Fields{
		"fetcher": cfg.Fetcher,
		"output":  store.Dir(),
	}).Debug("crawler ready")

	return &crawl.Crawler{
		Site:     cfg.Site,
		Fetcher:  fetcher,
		Renderer: render.New(cfg.Site),
		Store:    store,
		Delay:    cfg.Delay,
		Log:      log,
		Out:      out,
	}, release, nil
}
