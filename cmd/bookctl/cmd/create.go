package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"bookctl/internal/core"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a booking",
	Long: `Create a booking from a date and a start/end time.

Times are wall-clock in your local timezone; the backend receives absolute
instants. Whether the slot is free is the backend's decision — on a
conflict the create fails and nothing changes locally.

Example:
  bookctl create --name "Team sync" --date 2026-09-03 --start 09:00 --end 10:00`,
	RunE: runCreate,
}

func init() {
	rootCmd.AddCommand(createCmd)

	createCmd.Flags().String("name", "", "Booking name")
	createCmd.Flags().String("date", "", "Date (YYYY-MM-DD)")
	createCmd.Flags().String("start", "", "Start time (HH:MM)")
	createCmd.Flags().String("end", "", "End time (HH:MM)")
	createCmd.MarkFlagRequired("name")
	createCmd.MarkFlagRequired("date")
	createCmd.MarkFlagRequired("start")
	createCmd.MarkFlagRequired("end")
}

func runCreate(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	date, _ := cmd.Flags().GetString("date")
	start, _ := cmd.Flags().GetString("start")
	end, _ := cmd.Flags().GetString("end")

	eng.SetDraft(core.Draft{
		Name:      name,
		Date:      date,
		StartTime: start,
		EndTime:   end,
	})

	booking, err := eng.CreateBooking(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	fmt.Println("✅ Booking created")
	printBooking(booking)

	return nil
}
