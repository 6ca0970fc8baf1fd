/*
File: achievements.go
Description: Achievement commands: the paginated list view and the unlock
operation, including the bulk unlock that skips event-based achievements.
*/

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xau-tools/xau/pkg/cache"
	"github.com/xau-tools/xau/pkg/jsondoc"
	"github.com/xau-tools/xau/pkg/listproc"
)

// RunAchievements lists the achievements of a title.
func RunAchievements(cmd *cobra.Command, args []string) error {
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
	doc, err := fetchAchievements(ctx, app, xuid, titleID)
	if err != nil {
		return err
	}

	processor := listproc.NewProcessor(doc, "achievements", "name")
	if locked, _ := cmd.Flags().GetBool("locked"); locked {
		processor.SetFilter(listproc.LockedAchievements)
	}
	if unlocked, _ := cmd.Flags().GetBool("unlocked"); unlocked {
		processor.SetFilter(listproc.UnlockedAchievements)
	}
	if search, _ := cmd.Flags().GetString("search"); search != "" {
		processor.SetSearch(search)
	}
	if page, _ := cmd.Flags().GetInt("page"); page > 0 {
		processor.SetPage(page)
	}

	result := processor.Process()
	fmt.Printf("🏆 %d achievements (page %d, showing %d)\n",
		result.TotalCount, processor.Page(), len(result.Items))
	for _, item := range result.Items {
		achievement := listproc.ParseAchievement(item)
		marker := "🔒"
		if achievement.Unlocked() {
			marker = "✅"
		}
		note := ""
		if achievement.EventBased() {
			note = " [event-based]"
		}
		fmt.Printf("   %s %-4s %-40s %s GS%s\n",
			marker, achievement.ID, achievement.Name, achievement.Gamerscore, note)
	}
	return nil
}

// RunUnlock unlocks achievements by id, or everything remaining with --all.
func RunUnlock(cmd *cobra.Command, args []string) error {
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
	all, _ := cmd.Flags().GetBool("all")
	if !all && len(args) == 0 {
		return fmt.Errorf("pass achievement ids or --all")
	}

	doc, err := fetchAchievements(ctx, app, xuid, titleID)
	if err != nil {
		return err
	}

	items := make([]listproc.AchievementItem, 0)
	for _, raw := range doc.Array("achievements") {
		items = append(items, listproc.ParseAchievement(raw))
	}
	if len(items) == 0 {
		return fmt.Errorf("title %s has no achievements", titleID)
	}
	scid := items[0].ServiceConfigID

	var ids []string
	if all {
		skipped := 0
		for _, item := range items {
			if item.Unlocked() {
				continue
			}
			if item.EventBased() {
				skipped++
				continue
			}
			ids = append(ids, item.ID)
		}
		if skipped > 0 {
			fmt.Printf("⚠️  Skipping %d event-based achievements\n", skipped)
		}
		if len(ids) == 0 {
			fmt.Println("Nothing left to unlock.")
			return nil
		}
	} else {
		ids = args
	}

	if err := app.Session.UnlockAchievements(ctx, xuid, scid, titleID, ids); err != nil {
		return err
	}

	// The cached list is stale the moment an unlock lands.
	app.Cache.Invalidate(cache.Key("achievements", titleID))
	fmt.Printf("✅ Unlocked %d achievement(s)\n", len(ids))
	return nil
}

// fetchAchievements loads a title's achievement document through the cache.
func fetchAchievements(ctx context.Context, app *App, xuid, titleID string) (jsondoc.Document, error) {
	key := cache.Key("achievements", titleID)
	return app.CachedDocument(key, cache.ListTTL, func() (jsondoc.Document, error) {
		return app.Session.Achievements(ctx, xuid, titleID)
	})
}
