package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Manage the Google Calendar link",
	Long: `Manage the Google Calendar link.

Connecting opens Google's consent page in your browser; the backend
handles the rest of the OAuth flow. bookctl learns the outcome the next
time it loads your profile — check with 'bookctl whoami'.`,
}

var calendarConnectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Link your Google Calendar",
	RunE:  runCalendarConnect,
}

var calendarDisconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Unlink your Google Calendar",
	RunE:  runCalendarDisconnect,
}

var calendarStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a calendar is linked",
	RunE:  runCalendarStatus,
}

func init() {
	rootCmd.AddCommand(calendarCmd)
	calendarCmd.AddCommand(calendarConnectCmd)
	calendarCmd.AddCommand(calendarDisconnectCmd)
	calendarCmd.AddCommand(calendarStatusCmd)
}

func runCalendarConnect(cmd *cobra.Command, args []string) error {
	fmt.Println("🔐 Opening browser for Google Calendar authorization...")

	if err := eng.ConnectCalendar(cmd.Context()); err != nil {
		return fmt.Errorf("failed to start calendar connection: %w", err)
	}

	fmt.Println("\nComplete the consent flow in your browser.")
	fmt.Println("Then run 'bookctl whoami' to confirm the connection.")

	return nil
}

func runCalendarDisconnect(cmd *cobra.Command, args []string) error {
	if err := eng.DisconnectCalendar(cmd.Context()); err != nil {
		return fmt.Errorf("failed to disconnect calendar: %w", err)
	}

	fmt.Println("✅ Google Calendar disconnected")
	return nil
}

func runCalendarStatus(cmd *cobra.Command, args []string) error {
	profile, err := client.Profile(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to fetch profile: %w", err)
	}

	if profile.CalendarConnected {
		fmt.Println("📅 Google Calendar: connected")
	} else {
		fmt.Println("📅 Google Calendar: not connected")
		fmt.Println("\nLink it with: bookctl calendar connect")
	}

	return nil
}
