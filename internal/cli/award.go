package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/heritageworks/engage/internal/app/points"
	"github.com/heritageworks/engage/internal/daemon"
	"github.com/heritageworks/engage/internal/domain"
)

func init() {
	awardCmd.Flags().StringVar(&awardMeta, "metadata", "", "Activity metadata as JSON (score, difficulty, ...)")
	awardCmd.Flags().StringVar(&awardEvent, "event-id", "", "Idempotency key for this event")
	rootCmd.AddCommand(awardCmd)
}

var (
	awardMeta  string
	awardEvent string
)

var awardCmd = &cobra.Command{
	Use:   "award <user-id> <activity-type>",
	Short: "Credit an activity event to a user",
	Args:  cobra.ExactArgs(2),
	RunE:  runAward,
}

func runAward(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	var meta domain.Metadata
	if awardMeta != "" {
		if err := json.Unmarshal([]byte(awardMeta), &meta); err != nil {
			return fmt.Errorf("parse metadata: %w", err)
		}
	}

	result, err := d.Awards.Award(context.Background(), points.AwardRequest{
		UserID:       args[0],
		ActivityType: domain.ActivityType(args[1]),
		EventID:      awardEvent,
		Metadata:     meta,
	})
	if err != nil {
		return err
	}

	fmt.Printf("+%d points (%s)\n", result.PointsEarned, args[1])
	for _, b := range result.Breakdown.Bonuses {
		fmt.Printf("  %s ×%.2f\n", b.Label, b.Multiplier)
	}
	for _, a := range result.Achievements {
		fmt.Printf("  unlocked: %s (+%d)\n", a.Name, a.BonusPoints())
	}
	fmt.Printf("total: %d  level: %d", result.TotalPoints, result.Level)
	if result.LeveledUp {
		fmt.Printf("  (level up!)")
	}
	fmt.Println()
	return nil
}
