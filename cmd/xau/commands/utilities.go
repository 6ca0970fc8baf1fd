/*
File: utilities.go
Description: Auxiliary commands: catalog search, update check,
announcements, and the config show/set pair.
*/

package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xau-tools/xau/pkg/updater"
	"github.com/xau-tools/xau/pkg/xbl"
)

// RunSearch looks a game up in the title catalog.
func RunSearch(cmd *cobra.Command, args []string) error {
	app, err := OpenApp()
	if err != nil {
		return err
	}
	defer app.Close()

	name := strings.Join(args, " ")
	results, err := app.Session.SearchGames(context.Background(), name)
	switch {
	case errors.Is(err, xbl.ErrNoResults):
		fmt.Printf("🔍 No games matched %q\n", name)
		return nil
	case errors.Is(err, xbl.ErrRateLimited):
		return fmt.Errorf("search is rate limited; try again in a minute")
	case errors.Is(err, xbl.ErrUpgradeRequired):
		return fmt.Errorf("this release is too old for the search API; run 'xau update'")
	case err != nil:
		return err
	}

	fmt.Printf("🔍 %d result(s) for %q\n", len(results), name)
	for _, result := range results {
		fmt.Printf("   %-12s %s\n", result.TitleID, result.Name)
	}
	return nil
}

// RunUpdate checks the release feed.
func RunUpdate(cmd *cobra.Command, args []string) error {
	app, err := OpenApp()
	if err != nil {
		return err
	}
	defer app.Close()

	force, _ := cmd.Flags().GetBool("force")
	checker := updater.NewChecker(app.Session, app.Store, app.Logger(), app.DataDir)
	info := checker.CheckForUpdate(context.Background(), force)
	if info == nil {
		fmt.Printf("✅ %s is up to date (or a check already ran today; use --force)\n", Version)
		return nil
	}
	fmt.Printf("⬆️  Version %s is available (running %s)\n", info.Version, Version)
	if info.DownloadURL != "" {
		fmt.Printf("   Download: %s\n", info.DownloadURL)
	}
	if info.Changelog != "" {
		fmt.Println("   Changes:")
		for _, line := range strings.Split(info.Changelog, "\n") {
			fmt.Printf("     - %s\n", line)
		}
	}
	return nil
}

// RunAnnouncements shows the announcement feed.
func RunAnnouncements(cmd *cobra.Command, args []string) error {
	app, err := OpenApp()
	if err != nil {
		return err
	}
	defer app.Close()

	checker := updater.NewChecker(app.Session, app.Store, app.Logger(), app.DataDir)
	announcements, err := checker.FetchAnnouncements(context.Background())
	if err != nil {
		// Fall back to the last persisted payload when the feed is down.
		cached, cacheErr := checker.CachedAnnouncements()
		if cacheErr != nil || len(cached) == 0 {
			return err
		}
		fmt.Println("⚠️  Feed unreachable; showing the last fetched announcements.")
		announcements = cached
	}
	if len(announcements) == 0 {
		fmt.Println("📢 No announcements.")
		return nil
	}

	for _, announcement := range announcements {
		marker := "  "
		if announcement.New {
			marker = "🆕"
		}
		fmt.Printf("%s %s\n", marker, announcement.Title)
		for _, line := range strings.Split(announcement.Body, "\n") {
			fmt.Printf("   %s\n", line)
		}
	}
	checker.MarkAnnouncementSeen()
	return nil
}

// RunConfigShow prints the stored settings.
func RunConfigShow(cmd *cobra.Command, args []string) error {
	app, err := OpenApp()
	if err != nil {
		return err
	}
	defer app.Close()

	signedIn := "no"
	if app.Store.AuthToken() != "" {
		signedIn = "yes"
	}
	customSig := "default"
	if app.Store.UserSignature() != "" {
		customSig = "custom"
	}

	fmt.Println("⚙️  Settings")
	fmt.Printf("   signed in:          %s\n", signedIn)
	fmt.Printf("   signature:          %s\n", customSig)
	fmt.Printf("   signature-enabled:  %t\n", app.Store.SignatureEnabled())
	fmt.Printf("   privacy:            %t\n", app.Store.PrivacyEnabled())
	fmt.Printf("   language:           %s\n", app.Store.Language())
	fmt.Printf("   night-mode:         %t\n", app.Store.NightMode())
	fmt.Printf("   primary-color:      %s\n", app.Store.PrimaryColor())
	return nil
}

// RunConfigSet changes one stored setting.
func RunConfigSet(cmd *cobra.Command, args []string) error {
	app, err := OpenApp()
	if err != nil {
		return err
	}
	defer app.Close()

	key, value := args[0], args[1]
	switch key {
	case "signature":
		app.Store.SetUserSignature(value)
	case "signature-enabled":
		app.Store.SetSignatureEnabled(value == "true")
	case "privacy":
		app.Store.SetPrivacyEnabled(value == "true")
	case "language":
		app.Store.SetLanguage(value)
	case "night-mode":
		app.Store.SetNightMode(value == "true")
	case "primary-color":
		app.Store.SetPrimaryColor(value)
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	fmt.Printf("✅ %s updated\n", key)
	return nil
}
