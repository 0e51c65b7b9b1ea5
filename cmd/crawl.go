package cmd

import (
	"github.com/spf13/cobra"
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Crawls the documentation and writes one Markdown file per page",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, log := loadConfig()

		c, release, err := newCrawler(cmd.Context(), cfg, log, cmd.OutOrStdout())
		if err != nil {
			log.Fatalf("Failed to initialize crawler: %v", err)
		}

		_, err = c.Pages(cmd.Context())
		release()
		if err != nil {
			log.Fatalf("Crawl failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(crawlCmd)
}
