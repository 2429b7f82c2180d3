package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"bookctl/internal/util"
)

var slotsCmd = &cobra.Command{
	Use:   "slots [date]",
	Short: "Show one day's occupancy",
	Long: `Show everything occupying a day: your bookings plus, when your Google
Calendar is connected, the calendar events the backend sees.

The date defaults to today; 'tomorrow' and YYYY-MM-DD also work.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSlots,
}

func init() {
	rootCmd.AddCommand(slotsCmd)
}

func runSlots(cmd *cobra.Command, args []string) error {
	var dateArg string
	if len(args) > 0 {
		dateArg = args[0]
	}
	date, err := parseDate(dateArg)
	if err != nil {
		return err
	}

	slots, err := client.AvailableSlots(cmd.Context(), date.Format("2006-01-02"))
	if err != nil {
		return fmt.Errorf("failed to fetch slots: %w", err)
	}

	fmt.Printf("📅 Occupancy for %s:\n", date.Format("Monday, January 2, 2006"))
	fmt.Println("─────────────────────────────────────────────────")

	if len(slots.Bookings) == 0 && len(slots.GoogleEvents) == 0 {
		fmt.Println("The whole day is free.")
		return nil
	}

	if len(slots.Bookings) > 0 {
		fmt.Println("\nBookings:")
		for _, b := range slots.Bookings {
			fmt.Printf("  🕐 %s  %s\n", formatTimeRange(b.StartTime, b.EndTime), util.TruncateText(b.Name, 48))
		}
	}

	if len(slots.GoogleEvents) > 0 {
		fmt.Println("\nGoogle Calendar:")
		for _, ev := range slots.GoogleEvents {
			fmt.Printf("  📆 %s  %s\n", formatTimeRange(ev.Start, ev.End), util.TruncateText(ev.Summary, 48))
		}
	}

	fmt.Println("─────────────────────────────────────────────────")
	fmt.Printf("Total: %d bookings, %d calendar events\n", len(slots.Bookings), len(slots.GoogleEvents))

	return nil
}

// formatTimeRange renders just the clock portion of a start/end pair,
// for single-day listings.
func formatTimeRange(start, end time.Time) string {
	return fmt.Sprintf("%s - %s", start.Local().Format("3:04 PM"), end.Local().Format("3:04 PM"))
}
