/*
File: login.go
Description: Sign-in command. Captures an authorization token through the
browser flow (or accepts one directly), verifies it against the profile
service, and stores it.
*/

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xau-tools/xau/pkg/auth"
)

// RunLogin performs the interactive sign-in flow.
func RunLogin(cmd *cobra.Command, args []string) error {
	app, err := OpenApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := context.Background()

	token, _ := cmd.Flags().GetString("token")
	if token == "" {
		fmt.Println("🔐 Opening the Xbox sign-in window...")
		flow := auth.NewFlow(app.Logger())
		token, err = flow.Login(ctx)
		if err != nil {
			return err
		}
	}
	if err := auth.ValidateToken(token); err != nil {
		return fmt.Errorf("invalid token: %w", err)
	}

	// Verify before storing so a bad paste does not shadow a working token.
	creds := auth.NewCredentialStore(app.Store)
	previous := creds.Get()
	creds.SetToken(token)
	xuid, err := app.Session.SelfXUID(ctx)
	if err != nil {
		creds.SetToken(previous.AuthToken)
		return fmt.Errorf("token verification failed: %w", err)
	}

	fmt.Printf("✅ Signed in (XUID %s)\n", xuid)
	return nil
}
