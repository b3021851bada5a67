package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List all configured sources",
	Long:  "Reads the config and prints a table of every source a run would fetch.",
	RunE:  runSources,
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	sources, err := buildSources(cmd.Context(), cfg, newHTTPClient(), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build sources: %v\n", err)
		os.Exit(1)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-12s %s\n", "Kind", "Source")
	fmt.Fprintln(out, strings.Repeat("─", 60))

	perKind := make(map[string]int)
	for _, s := range sources {
		fmt.Fprintf(out, "%-12s %s\n", s.Kind(), s.Name())
		perKind[string(s.Kind())]++
	}

	fmt.Fprintf(out, "\nTotal: %d sources", len(sources))
	for _, k := range []string{"search", "websearch", "feed", "scrape", "board"} {
		if perKind[k] > 0 {
			fmt.Fprintf(out, ", %d %s", perKind[k], k)
		}
	}
	fmt.Fprintln(out)
	return nil
}
