package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"bookctl/internal/util"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the authenticated user's profile",
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func runWhoami(cmd *cobra.Command, args []string) error {
	profile, err := client.Profile(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to fetch profile: %w", err)
	}

	fmt.Printf("👤 %s\n", profile.DisplayName())
	fmt.Println("─────────────────────────────────────────────────")
	fmt.Printf("📧 Email:    %s\n", profile.Email)
	fmt.Printf("🆔 ID:       %s\n", profile.ID)
	if profile.Picture != "" {
		fmt.Printf("🖼️  Avatar:   %s\n", util.MakeHyperlink(profile.Picture, profile.Picture))
	}
	if profile.CalendarConnected {
		fmt.Println("📅 Calendar: Google Calendar connected")
	} else {
		fmt.Println("📅 Calendar: not connected (run 'bookctl calendar connect')")
	}

	return nil
}
