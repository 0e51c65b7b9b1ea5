package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/tesh254/pbdocs/internal/render"
	"github.com/tesh254/pbdocs/internal/scraper"
)

var renderCmd = &cobra.Command{
	Use:   "render [file.html]",
	Short: "Renders a local HTML file to Markdown on stdout",
	Long: `Renders a saved HTML fragment with the same rules the crawler uses and
prints the Markdown. With --page the file is treated as a whole page and only
its content region is rendered.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, log := loadConfig()
		section, _ := cmd.Flags().GetString("section")
		wholePage, _ := cmd.Flags().GetBool("page")

		raw, err := afero.ReadFile(afero.NewOsFs(), args[0])
		if err != nil {
			log.Fatalf("Failed to read %s: %v", args[0], err)
		}

		fragment := string(raw)
		if wholePage {
			page, err := scraper.NewPage(args[0], fragment, cfg.Scraper.ContentSelector)
			if err != nil {
				log.Fatalf("Failed to parse %s: %v", args[0], err)
			}
			if !page.HasContent() {
				log.Fatalf("No element matches %q in %s", cfg.Scraper.ContentSelector, args[0])
			}
			fragment = page.Content
		}

		md, err := render.New(cfg.Site).Render(fragment, section)
		if err != nil {
			log.Fatalf("Failed to render %s: %v", args[0], err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), md)
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().String("section", "", "Render as this section of the bundled document")
	renderCmd.Flags().Bool("page", false, "Treat the file as a full page and render its content region")
}
