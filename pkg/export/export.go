/*
File: export.go
Description: Exports library data to timestamped files under the export
directory. Games go to CSV for spreadsheets; any raw document can be dumped
to indented JSON for inspection.
*/

package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xau-tools/xau/pkg/jsondoc"
	"github.com/xau-tools/xau/pkg/listproc"
)

// gamesHeader is the CSV column layout of a games export.
var gamesHeader = []string{
	"Name",
	"TitleId",
	"CurrentAchievements",
	"CurrentGamerscore",
	"TotalGamerscore",
	"ProgressPercentage",
}

// timestampedPath builds "{dir}/{stem}_{timestamp}.{ext}", creating dir.
func timestampedPath(dir, stem, ext string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	name := fmt.Sprintf("%s_%s.%s", stem, time.Now().Format("2006-01-02_15-04-05"), ext)
	return filepath.Join(dir, name), nil
}

// WriteGamesCSV writes the played-titles list to a timestamped CSV file and
// returns its path.
func WriteGamesCSV(dir string, games []listproc.GameItem) (string, error) {
	path, err := timestampedPath(dir, "games", "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(gamesHeader); err != nil {
		return "", fmt.Errorf("failed to write export header: %w", err)
	}
	for _, game := range games {
		record := []string{
			game.Name,
			game.TitleID,
			game.CurrentAchievements,
			game.CurrentGamerscore,
			game.TotalGamerscore,
			game.ProgressPercentage,
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("failed to write export row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("failed to flush export: %w", err)
	}
	return path, nil
}

// WriteDocumentJSON dumps a raw API document to a timestamped, indented
// JSON file and returns its path.
func WriteDocumentJSON(dir, stem string, doc jsondoc.Document) (string, error) {
	path, err := timestampedPath(dir, stem, "json")
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write document: %w", err)
	}
	return path, nil
}
