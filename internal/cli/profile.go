package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/heritageworks/engage/internal/app/points"
	"github.com/heritageworks/engage/internal/daemon"
)

func init() {
	rootCmd.AddCommand(profileCmd)
}

var profileCmd = &cobra.Command{
	Use:   "profile <user-id>",
	Short: "Show a user's score profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfile,
}

func runProfile(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	ctx := context.Background()
	p, err := d.Awards.Profile(ctx, args[0])
	if err != nil {
		return err
	}

	name := p.DisplayName
	if name == "" {
		name = p.UserID
	}
	fmt.Printf("%s\n", name)
	fmt.Printf("  points:  %d\n", p.TotalPoints)
	fmt.Printf("  level:   %d (%.0f%% to level %d, %d points to go)\n",
		p.Level, points.LevelProgress(p.TotalPoints), p.Level+1,
		points.PointsToNextLevel(p.TotalPoints))
	fmt.Printf("  streak:  %d days (longest %d)\n", p.CurrentStreak, p.LongestStreak)
	fmt.Printf("  activities: %d\n", p.ActivityCount)
	if len(p.Earned) > 0 {
		fmt.Printf("  achievements (%d):\n", len(p.Earned))
		for _, e := range p.Earned {
			fmt.Printf("    %s (+%d) %s\n", e.AchievementID, e.BonusPoints,
				e.EarnedAt.Format("2006-01-02"))
		}
	}
	return nil
}
