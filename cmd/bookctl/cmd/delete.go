package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <booking-id>",
	Short: "Delete a booking",
	Long: `Delete a booking by its id.

Shows the booking before removing it. Find ids with 'bookctl' or the TUI.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}

func runDelete(cmd *cobra.Command, args []string) error {
	id := args[0]

	booking, err := client.Booking(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to fetch booking %s: %w", id, err)
	}

	fmt.Println("Deleting:")
	printBooking(booking)

	if skip, _ := cmd.Flags().GetBool("yes"); !skip {
		fmt.Print("Proceed? [y/N] ")
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := eng.DeleteBooking(cmd.Context(), id); err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}

	fmt.Println("🗑️  Booking deleted")
	return nil
}
