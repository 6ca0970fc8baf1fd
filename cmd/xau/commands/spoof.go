/*
File: spoof.go
Description: Spoof command. Runs a presence spoofing session in the
foreground until interrupted, showing elapsed time, then clears presence.
*/

package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/xau-tools/xau/pkg/spoof"
	"github.com/xau-tools/xau/pkg/xbl"
)

// RunSpoof keeps a presence spoofing session alive until Ctrl-C.
func RunSpoof(cmd *cobra.Command, args []string) error {
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
	userAgent, _ := cmd.Flags().GetString("user-agent")
	if !validSpoofAgent(userAgent) {
		return fmt.Errorf("unknown user agent preset %q; presets: %v", userAgent, xbl.SpoofingUserAgents)
	}

	controller := spoof.NewController(app.Session, app.Logger())
	target, err := controller.Start(ctx, xuid, titleID, userAgent)
	if err != nil {
		return fmt.Errorf("failed to start spoofing: %w", err)
	}

	fmt.Printf("🎭 Spoofing %s (title %s)\n", target.Info.Name, target.Info.TitleID)
	if target.MinutesPlayed != "0" {
		fmt.Printf("   Time played so far: %s minutes\n", target.MinutesPlayed)
	}
	fmt.Println("   Press Ctrl-C to stop.")

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	// Seconds tick for the elapsed display, independent of the heartbeat.
	display := time.NewTicker(time.Second)
	defer display.Stop()

	for {
		select {
		case <-display.C:
			fmt.Printf("\r   Active for %s ", controller.Elapsed().Round(time.Second))
		case <-interrupt:
			fmt.Println("\nStopping...")
			controller.Stop(ctx, xuid)
			fmt.Println("✅ Presence cleared.")
			return nil
		case <-controller.Done():
			if err := controller.Err(); err != nil {
				fmt.Println()
				return fmt.Errorf("spoofing session failed: %w", err)
			}
			return nil
		}
	}
}

func validSpoofAgent(agent string) bool {
	for _, preset := range xbl.SpoofingUserAgents {
		if agent == preset {
			return true
		}
	}
	return false
}
