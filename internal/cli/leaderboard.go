package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/heritageworks/engage/internal/app/points"
	"github.com/heritageworks/engage/internal/daemon"
	"github.com/heritageworks/engage/internal/domain"
)

func init() {
	leaderboardCmd.Flags().StringVar(&lbWindow, "window", string(domain.WindowAllTime), "Window: allTime, daily, weekly, monthly")
	leaderboardCmd.Flags().StringVar(&lbCategory, "category", string(domain.CategoryOverall), "Category: overall, quizzes, games, courses, community")
	leaderboardCmd.Flags().IntVar(&lbLimit, "limit", 10, "Number of entries")
	leaderboardCmd.Flags().StringVar(&lbViewer, "as", "", "Viewer user id (shown with real identity)")
	rootCmd.AddCommand(leaderboardCmd)
}

var (
	lbWindow   string
	lbCategory string
	lbLimit    int
	lbViewer   string
)

var leaderboardCmd = &cobra.Command{
	Use:     "leaderboard",
	Aliases: []string{"top"},
	Short:   "Show the ranked leaderboard",
	RunE:    runLeaderboard,
}

func runLeaderboard(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	entries, err := d.Leaderboards.Top(context.Background(), points.LeaderboardQuery{
		Window:   domain.Window(lbWindow),
		Category: domain.Category(lbCategory),
		Limit:    lbLimit,
		ViewerID: lbViewer,
	})
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No activity yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tPLAYER\tPOINTS\tLEVEL\tACTIVITIES")
	for _, e := range entries {
		marker := ""
		if e.IsCurrentUser {
			marker = " *"
		}
		fmt.Fprintf(w, "%d\t%s%s\t%d\t%d\t%d\n",
			e.Rank, e.DisplayName, marker, e.Points, e.Level, e.ActivityCount)
	}
	return w.Flush()
}
