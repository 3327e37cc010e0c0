package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/oddoneout/internal/registry"
	"github.com/vovakirdan/oddoneout/internal/storage"
)

var (
	flagJournalView  string
	flagJournalLimit int
	flagJournalClear bool
)

var journalCmd = &cobra.Command{
	Use:   "journal [variant]",
	Short: "Show journaled trials for a variant",
	Long: `Display the trial journal for a variant (default: oddoneout).

Views:
  levels  - Accuracy and mean reaction time per level
  recent  - The most recent trials

Examples:
  oddoneout journal
  oddoneout journal oddoneout_fixed --view recent --limit 20
  oddoneout journal --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runJournal,
}

func init() {
	journalCmd.Flags().StringVar(&flagJournalView, "view", "levels", "What to show: levels or recent")
	journalCmd.Flags().IntVar(&flagJournalLimit, "limit", 10, "Number of trials in the recent view")
	journalCmd.Flags().BoolVar(&flagJournalClear, "clear", false, "Delete all trials for the variant")
}

func runJournal(_ *cobra.Command, args []string) {
	gameID := "oddoneout"
	if len(args) == 1 {
		gameID = args[0]
	}
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown variant %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'oddoneout list' to see available variants.")
		os.Exit(1)
	}
	if flagJournalView != "levels" && flagJournalView != "recent" {
		fmt.Fprintf(os.Stderr, "Error: unknown view %q (want levels or recent)\n", flagJournalView)
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening trial journal: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagJournalClear {
		if err := store.ClearTrials(gameID); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing journal: %v\n", err)
			return
		}
		fmt.Printf("Cleared journal for %s.\n", gameID)
		return
	}

	stats, err := store.GetJournalStats(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading journal: %v\n", err)
		return
	}

	fmt.Printf("Trial Journal - %s\n", gameID)
	fmt.Println()

	if stats.Trials == 0 {
		fmt.Println("No trials recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'oddoneout play %s' to record some!\n", gameID)
		return
	}

	fmt.Printf("  Trials: %d  Correct: %d  Sessions: %d  Best level: %d  Avg reaction: %.0fms\n",
		stats.Trials, stats.Correct, stats.Sessions, stats.MaxLevel, stats.AvgReactionMs)
	fmt.Printf("  Last played: %s\n", stats.LastPlayed.Format("2006-01-02 15:04"))
	fmt.Println()

	if flagJournalView == "recent" {
		printRecent(store, gameID)
		return
	}
	printLevels(store, gameID)
}

func printLevels(store *storage.Store, gameID string) {
	levels, err := store.StatsByLevel(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading levels: %v\n", err)
		return
	}

	fmt.Printf("  %-5s  %-6s  %-7s  %-8s  %s\n", "Level", "Trials", "Correct", "Accuracy", "Avg ms")
	fmt.Printf("  %-5s  %-6s  %-7s  %-8s  %s\n", "-----", "------", "-------", "--------", "------")
	for _, l := range levels {
		fmt.Printf("  %-5d  %-6d  %-7d  %7.1f%%  %.0f\n",
			l.Level, l.Trials, l.Correct, l.Accuracy()*100, l.AvgReactionMs)
	}
}

func printRecent(store *storage.Store, gameID string) {
	recs, err := store.RecentTrials(gameID, flagJournalLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading trials: %v\n", err)
		return
	}

	fmt.Printf("  %-16s  %-5s  %-5s  %-7s  %-8s  %s\n", "Date", "Level", "Items", "Result", "Reaction", "Session")
	fmt.Printf("  %-16s  %-5s  %-5s  %-7s  %-8s  %s\n", "----", "-----", "-----", "------", "--------", "-------")
	for _, r := range recs {
		result := "wrong"
		if r.Correct {
			result = "correct"
		}
		fmt.Printf("  %-16s  %-5d  %-5d  %-7s  %6dms  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.Level, r.Items, result, r.ReactionMs, r.Session)
	}
}
