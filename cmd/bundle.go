package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tesh254/pbdocs/internal/config"
)

var bundleCmd = &cobra.Command{
	Use:   "bundle",
	Short: "Crawls the documentation into a single Markdown document",
	Long: `Crawls every documentation page and writes them, in reading order, into one
Markdown document with a table of contents. Links between pages become links
to the matching section of the document.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, log := loadConfig()

		c, release, err := newCrawler(cmd.Context(), cfg, log, cmd.OutOrStdout())
		if err != nil {
			log.Fatalf("Failed to initialize crawler: %v", err)
		}

		_, err = c.Bundle(cmd.Context(), cfg.BundleFile, cfg.BundleTitle)
		release()
		if err != nil {
			log.Fatalf("Bundle failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(bundleCmd)

	defaults := viper.New()
	config.SetDefaults(defaults)

	bundleCmd.Flags().String("file", defaults.GetString(config.KeyBundleFile), "Name of the bundled document inside the output directory")
	bundleCmd.Flags().String("title", defaults.GetString(config.KeyBundleTitle), "Top-level heading of the bundled document")
	viper.BindPFlag(config.KeyBundleFile, bundleCmd.Flags().Lookup("file"))
	viper.BindPFlag(config.KeyBundleTitle, bundleCmd.Flags().Lookup("title"))
}
