/*
File: games.go
Description: Games command. Lists the played-titles library with the
filter/search/pagination pipeline, caching the raw document, with optional
CSV export of the full list.
*/

package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/xau-tools/xau/pkg/cache"
	"github.com/xau-tools/xau/pkg/export"
	"github.com/xau-tools/xau/pkg/jsondoc"
	"github.com/xau-tools/xau/pkg/listproc"
)

// RunGames lists the library.
func RunGames(cmd *cobra.Command, args []string) error {
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

	key := cache.Key("games", xuid)
	if refresh, _ := cmd.Flags().GetBool("refresh"); refresh {
		app.Cache.Invalidate(key)
	}
	doc, err := app.CachedDocument(key, cache.ListTTL, func() (jsondoc.Document, error) {
		return app.Session.TitleHistory(ctx, xuid)
	})
	if err != nil {
		return err
	}

	processor := listproc.NewProcessor(doc, "titles", "name")
	if incomplete, _ := cmd.Flags().GetBool("incomplete"); incomplete {
		processor.SetFilter(listproc.IncompleteGames)
	}
	if search, _ := cmd.Flags().GetString("search"); search != "" {
		processor.SetSearch(search)
	}
	if size, _ := cmd.Flags().GetInt("page-size"); size > 0 {
		processor.SetPageSize(size)
	}
	if page, _ := cmd.Flags().GetInt("page"); page > 0 {
		processor.SetPage(page)
	}

	result := processor.Process()
	fmt.Printf("🎮 %d titles (page %d, showing %d)\n", result.TotalCount, processor.Page(), len(result.Items))
	for _, item := range result.Items {
		game := listproc.ParseGame(item)
		fmt.Printf("   %-12s %-45s %s/%s GS (%s%%)\n",
			game.TitleID, game.Name,
			game.CurrentGamerscore, game.TotalGamerscore,
			game.ProgressPercentage)
	}

	if doExport, _ := cmd.Flags().GetBool("export"); doExport {
		games := make([]listproc.GameItem, 0, len(doc.Array("titles")))
		for _, item := range doc.Array("titles") {
			games = append(games, listproc.ParseGame(item))
		}
		path, err := export.WriteGamesCSV(filepath.Join(app.DataDir, "exports"), games)
		if err != nil {
			return err
		}
		fmt.Printf("📄 Exported %d titles to %s\n", len(games), path)
	}
	return nil
}
