package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/heritageworks/engage/internal/daemon"
)

func init() {
	rootCmd.AddCommand(achievementsCmd)
}

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "List active achievement definitions",
	RunE:  runAchievements,
}

func runAchievements(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	defs, err := d.DB.ListActive(context.Background())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCRITERIA\tTHRESHOLD\tBONUS\tRARITY")
	for _, def := range defs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0f\t%d\t%s\n",
			def.ID, def.Name, def.Criteria, def.Threshold,
			def.BonusPoints(), def.Rarity)
	}
	return w.Flush()
}
