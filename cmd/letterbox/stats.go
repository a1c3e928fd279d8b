package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/letterbox/internal/platform/tui"
	"github.com/vovakirdan/letterbox/internal/registry"
)

var (
	flagPlain bool
	flagLimit int
	flagClear bool
)

var statsCmd = &cobra.Command{
	Use:   "stats [scene]",
	Short: "Show recorded runs",
	Long: `Browse the runs recorded in the run database.

Without --plain an interactive browser opens; Tab switches scenes.
With --plain the most recent runs of one scene (or all scenes) are printed.

Examples:
  letterbox stats
  letterbox stats bounce --plain
  letterbox stats bounce --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print runs instead of opening the browser")
	statsCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of runs to print with --plain")
	statsCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the recorded runs of the scene")
}

func runStats(_ *cobra.Command, args []string) {
	sceneID := ""
	if len(args) == 1 {
		sceneID = args[0]
		if !registry.Exists(sceneID) {
			fmt.Fprintf(os.Stderr, "Error: unknown scene %q\n", sceneID)
			fmt.Fprintln(os.Stderr, "Run 'letterbox list' to see available scenes.")
			os.Exit(1)
		}
	}

	store := openStore()
	if store == nil {
		os.Exit(1)
	}
	defer store.Close()

	if flagClear {
		if sceneID == "" {
			fmt.Fprintln(os.Stderr, "Error: --clear needs a scene")
			os.Exit(1)
		}
		if err := store.ClearRuns(sceneID); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing runs: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cleared runs of %s.\n", sceneID)
		return
	}

	if !flagPlain {
		width, height := terminalSize()
		if err := tui.RunStats(store, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	runs, err := store.RecentRuns(sceneID, flagLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	if sceneID == "" {
		fmt.Println("Recent runs - all scenes")
	} else {
		fmt.Printf("Recent runs - %s\n", sceneID)
	}
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return
	}

	columns := tui.RunColumns()
	header := make([]string, len(columns))
	rule := make([]string, len(columns))
	for i, c := range columns {
		header[i] = fmt.Sprintf("%-*s", c.Width, c.Title)
		rule[i] = strings.Repeat("-", c.Width)
	}
	fmt.Println("  " + strings.Join(header, "  "))
	fmt.Println("  " + strings.Join(rule, "  "))

	for _, r := range runs {
		row := tui.RunRow(r)
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = fmt.Sprintf("%-*s", columns[i].Width, v)
		}
		fmt.Println("  " + strings.Join(cells, "  "))
	}
}
