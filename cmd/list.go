package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists the Markdown files in the output directory",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, log := loadConfig()

		st, err := openStore(cfg)
		if err != nil {
			log.Fatalf("Failed to open output directory: %v", err)
		}

		files, err := st.List()
		if err != nil {
			log.Fatalf("Failed to list documents: %v", err)
		}

		if len(files) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No documents found.")
			return
		}

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"File", "Size"})
		t.SetColumnConfigs([]table.ColumnConfig{
			{Number: 2, Align: text.AlignRight},
		})
		var total int64
		for _, f := range files {
			t.AppendRow(table.Row{st.Path(f.Name), f.Size})
			total += f.Size
		}
		t.AppendFooter(table.Row{fmt.Sprintf("%d files", len(files)), total})
		t.Render()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
