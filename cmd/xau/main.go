/*
File: main.go
Description: Command-line interface for the XAU toolkit. Wires the cobra
command tree, persistent configuration flags, and the logging setup around
the Xbox Live account operations.
*/

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xau-tools/xau/cmd/xau/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "xau",
		Short: "XAU - Xbox Live account toolkit",
		Long: `XAU is a command-line toolkit for managing an Xbox Live account: browse
your game library and achievements, unlock achievements, write title stats,
spoof presence, and look up other players.`,
		Version: commands.Version,
	}

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	defaultDataDir := filepath.Join(home, ".xau")

	// Persistent flags, read through viper by every command.
	rootCmd.PersistentFlags().String("data-dir", defaultDataDir, "Directory for settings, logs, and exports")
	rootCmd.PersistentFlags().String("log-level", "info", "Logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Use JSON log format")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored log output")

	viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("json_logs", rootCmd.PersistentFlags().Lookup("json-logs"))
	viper.BindPFlag("no_color", rootCmd.PersistentFlags().Lookup("no-color"))

	// login
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to Xbox Live through a browser window",
		Long: `Open the Xbox web sign-in page in a browser window and capture the
authorization token once sign-in completes. The token is stored in the
settings file and used by every other command.`,
		RunE: commands.RunLogin,
	}
	loginCmd.Flags().String("token", "", "Store a token directly instead of opening the browser")
	rootCmd.AddCommand(loginCmd)

	// user
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Show the signed-in profile or look up a gamertag",
		RunE:  commands.RunUser,
	}
	userCmd.Flags().String("gamertag", "", "Look up this gamertag instead of the signed-in account")
	rootCmd.AddCommand(userCmd)

	// games
	gamesCmd := &cobra.Command{
		Use:   "games",
		Short: "List the played-titles library",
		RunE:  commands.RunGames,
	}
	gamesCmd.Flags().Int("page", 1, "1-based page index")
	gamesCmd.Flags().Int("page-size", 50, "Items per page")
	gamesCmd.Flags().String("search", "", "Filter titles by name (3+ characters)")
	gamesCmd.Flags().Bool("incomplete", false, "Show only titles with achievements left to earn")
	gamesCmd.Flags().Bool("export", false, "Export the full list to a CSV file")
	gamesCmd.Flags().Bool("refresh", false, "Bypass the cached list")
	rootCmd.AddCommand(gamesCmd)

	// achievements
	achievementsCmd := &cobra.Command{
		Use:   "achievements",
		Short: "List the achievements of a title",
		RunE:  commands.RunAchievements,
	}
	achievementsCmd.Flags().String("title-id", "", "Numeric title id (required)")
	achievementsCmd.Flags().Int("page", 1, "1-based page index")
	achievementsCmd.Flags().String("search", "", "Filter achievements by name (3+ characters)")
	achievementsCmd.Flags().Bool("locked", false, "Show only locked achievements")
	achievementsCmd.Flags().Bool("unlocked", false, "Show only unlocked achievements")
	achievementsCmd.MarkFlagRequired("title-id")
	rootCmd.AddCommand(achievementsCmd)

	// unlock
	unlockCmd := &cobra.Command{
		Use:   "unlock [achievement-id...]",
		Short: "Unlock achievements of a title",
		Long: `Unlock one or more achievements by id, or every remaining regular
achievement with --all. Event-based achievements are skipped by --all since
the service tracks them through stat events rather than progress updates.`,
		RunE: commands.RunUnlock,
	}
	unlockCmd.Flags().String("title-id", "", "Numeric title id (required)")
	unlockCmd.Flags().Bool("all", false, "Unlock every locked non-event achievement")
	unlockCmd.MarkFlagRequired("title-id")
	rootCmd.AddCommand(unlockCmd)

	// stats
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the stats of a title",
		RunE:  commands.RunStats,
	}
	statsCmd.Flags().String("title-id", "", "Numeric title id (required)")
	statsCmd.MarkFlagRequired("title-id")
	rootCmd.AddCommand(statsCmd)

	// stats write
	statWriteCmd := &cobra.Command{
		Use:   "stat-write <stat-name>",
		Short: "Write a value into a title stat",
		Args:  cobra.ExactArgs(1),
		RunE:  commands.RunStatWrite,
	}
	statWriteCmd.Flags().String("title-id", "", "Numeric title id (required)")
	statWriteCmd.Flags().String("value", "", "Value to write (required)")
	statWriteCmd.MarkFlagRequired("title-id")
	statWriteCmd.MarkFlagRequired("value")
	rootCmd.AddCommand(statWriteCmd)

	// spoof
	spoofCmd := &cobra.Command{
		Use:   "spoof",
		Short: "Spoof presence for a title until interrupted",
		Long: `Validate the target title, then keep sending presence heartbeats so the
account appears to be playing it. Runs until Ctrl-C, then clears the
presence record.`,
		RunE: commands.RunSpoof,
	}
	spoofCmd.Flags().String("title-id", "", "Numeric title id (required)")
	spoofCmd.Flags().String("user-agent", "None", "Heartbeat user agent preset")
	spoofCmd.MarkFlagRequired("title-id")
	rootCmd.AddCommand(spoofCmd)

	// search
	searchCmd := &cobra.Command{
		Use:   "search <game name>",
		Short: "Search the title catalog by name",
		Args:  cobra.MinimumNArgs(1),
		RunE:  commands.RunSearch,
	}
	rootCmd.AddCommand(searchCmd)

	// update
	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Check whether a newer release is available",
		RunE:  commands.RunUpdate,
	}
	updateCmd.Flags().Bool("force", false, "Check even if one already ran today")
	rootCmd.AddCommand(updateCmd)

	// announcements
	rootCmd.AddCommand(&cobra.Command{
		Use:   "announcements",
		Short: "Show the latest announcements",
		RunE:  commands.RunAnnouncements,
	})

	// config
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change stored settings",
		RunE:  commands.RunConfigShow,
	}
	configSetCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change a stored setting",
		Long: `Change a stored setting. Supported keys: signature, signature-enabled,
privacy, language, night-mode, primary-color.`,
		Args: cobra.ExactArgs(2),
		RunE: commands.RunConfigSet,
	}
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
