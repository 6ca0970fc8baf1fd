/*
File: stats.go
Description: Stat commands: the per-title stats listing and the single-stat
write.
*/

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xau-tools/xau/pkg/listproc"
)

// RunStats lists the stats of a title.
func RunStats(cmd *cobra.Command, args []string) error {
	app, err := OpenApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := context.Background()
	xuid, err := app.SignedInXUID(ctx)
	if err != nil {
		return err
	}

	titleID, _ := cmd.Flags().GetString("title-id")
	doc, err := app.Session.StatsBatch(ctx, xuid, titleID)
	if err != nil {
		return err
	}

	stats := listproc.ParseStats(doc)
	if len(stats) == 0 {
		fmt.Println("📊 No stats for this title.")
		return nil
	}

	fmt.Printf("📊 %d stats\n", len(stats))
	for _, stat := range stats {
		fmt.Printf("   %-30s %-10s (%s)\n", stat.DisplayName, stat.Value, stat.Name)
	}
	return nil
}

// RunStatWrite writes a value into one named stat.
func RunStatWrite(cmd *cobra.Command, args []string) error {
	app, err := OpenApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := context.Background()
	xuid, err := app.SignedInXUID(ctx)
	if err != nil {
		return err
	}

	titleID, _ := cmd.Flags().GetString("title-id")
	value, _ := cmd.Flags().GetString("value")
	statName := args[0]

	// The write endpoint is keyed by SCID, which only the achievement
	// document carries.
	doc, err := fetchAchievements(ctx, app, xuid, titleID)
	if err != nil {
		return err
	}
	achievements := doc.Array("achievements")
	if len(achievements) == 0 {
		return fmt.Errorf("cannot resolve the SCID of title %s", titleID)
	}
	scid := listproc.ParseAchievement(achievements[0]).ServiceConfigID

	if err := app.Session.WriteStat(ctx, xuid, scid, statName, value); err != nil {
		return err
	}
	fmt.Printf("✅ Wrote %s=%s\n", statName, value)
	return nil
}
