/*
File: user.go
Description: User command. Shows the signed-in account's detailed profile,
or the public profile card of a searched gamertag.
*/

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// RunUser shows a profile.
func RunUser(cmd *cobra.Command, args []string) error {
	app, err := OpenApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := context.Background()

	if gamertag, _ := cmd.Flags().GetString("gamertag"); gamertag != "" {
		return showGamertag(ctx, app, gamertag)
	}
	return showSelf(ctx, app)
}

func showSelf(ctx context.Context, app *App) error {
	xuid, err := app.SignedInXUID(ctx)
	if err != nil {
		return err
	}

	profile, err := app.Session.DetailedProfile(ctx, xuid)
	if err != nil {
		return err
	}

	fmt.Printf("👤 %s\n", profile.Gamertag)
	fmt.Printf("   XUID:       %s\n", profile.XUID)
	fmt.Printf("   Gamerscore: %s\n", profile.Gamerscore)
	fmt.Printf("   Reputation: %s\n", profile.XboxOneRep)
	fmt.Printf("   Presence:   %s", profile.PresenceText)
	if profile.PresenceDevice != "N/A" {
		fmt.Printf(" (%s)", profile.PresenceDevice)
	}
	fmt.Println()
	fmt.Printf("   Followers:  %d  Following: %d\n", profile.FollowerCount, profile.FollowingCount)
	return nil
}

func showGamertag(ctx context.Context, app *App, gamertag string) error {
	xuid, settings, err := app.Session.GamertagProfile(ctx, gamertag)
	if err != nil {
		return err
	}
	if xuid == "" {
		return fmt.Errorf("no account found for gamertag %q", gamertag)
	}

	fmt.Printf("👤 Profile for %s (XUID %s)\n", gamertag, xuid)
	for _, setting := range settings {
		fmt.Printf("   %s: %s\n", setting.ID, setting.Value)
	}
	return nil
}
