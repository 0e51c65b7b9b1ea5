package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Deletes all Markdown files from the output directory",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, log := loadConfig()
		yes, _ := cmd.Flags().GetBool("yes")

		st, err := openStore(cfg)
		if err != nil {
			log.Fatalf("Failed to open output directory: %v", err)
		}

		if !yes {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, color.RedString("WARNING: This will delete every Markdown file in %s and is not recoverable.", st.Dir()))
			fmt.Fprint(out, "Are you sure you want to continue? (yes/no): ")

			response, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil {
				log.Fatalf("Failed to read response: %v", err)
			}
			if strings.TrimSpace(strings.ToLower(response)) != "yes" {
				fmt.Fprintln(out, "Clean operation cancelled.")
				return
			}
		}

		n, err := st.Clean()
		if err != nil {
			log.Fatalf("Failed to clean output directory: %v", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d files from %s.\n", n, st.Dir())
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
