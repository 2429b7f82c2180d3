package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bookctl/internal/api"
	"bookctl/internal/core"
	"bookctl/internal/engine"
)

var (
	cfgFile     string
	profileFlag string
	client      *api.Client
	eng         *engine.Engine
)

var rootCmd = &cobra.Command{
	Use:   "bookctl",
	Short: "A terminal client for your booking backend",
	Long: `bookctl — manage your bookings without leaving the terminal.

Lists, creates and deletes bookings against your booking backend, and
links your Google Calendar for conflict-aware scheduling. The backend
decides what conflicts; bookctl just keeps your local view honest.`,
	PersistentPreRunE: initEngine,
	RunE:              listBookings,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/bookctl/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&profileFlag, "profile", "p", "", "config profile to use (e.g., work, personal)")
	rootCmd.PersistentFlags().String("api-url", "", "Booking backend base URL")
	rootCmd.PersistentFlags().String("token-file", "", "Path to the saved access token")

	viper.BindPFlag("api_url", rootCmd.PersistentFlags().Lookup("api-url"))
	viper.BindPFlag("token_file", rootCmd.PersistentFlags().Lookup("token-file"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		configDir := filepath.Join(home, ".config", "bookctl")
		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Environment variables
	viper.SetEnvPrefix("BOOKCTL")
	viper.AutomaticEnv()

	viper.SetDefault("token_file", "~/.config/bookctl/token.json")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	applyProfile()
}

// applyProfile merges profile-specific settings over defaults
func applyProfile() {
	activeProfile := profileFlag
	if activeProfile == "" {
		activeProfile = viper.GetString("default_profile")
	}
	if activeProfile == "" {
		return
	}

	profileKey := "profiles." + activeProfile
	if !viper.IsSet(profileKey) {
		fmt.Fprintf(os.Stderr, "Warning: profile '%s' not found in config\n", activeProfile)
		return
	}

	fmt.Fprintf(os.Stderr, "Using profile: %s\n", activeProfile)

	// Settings a profile may override, unless the user already set the
	// matching CLI flag explicitly.
	settings := []string{
		"api_url",
		"token_file",
	}

	for _, key := range settings {
		profileSettingKey := profileKey + "." + key
		if viper.IsSet(profileSettingKey) && !isFlagExplicitlySet(key) {
			viper.Set(key, viper.Get(profileSettingKey))
		}
	}
}

func isFlagExplicitlySet(viperKey string) bool {
	flagName := strings.ReplaceAll(viperKey, "_", "-")
	f := rootCmd.PersistentFlags().Lookup(flagName)

	return f != nil && f.Changed
}

// initEngine builds the backend client, installs the saved token, and
// wires the engine. Commands that never touch the backend skip it.
func initEngine(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "auth" ||
		cmd.Name() == "profile" || cmd.Parent() != nil && cmd.Parent().Name() == "profile" {
		return nil
	}

	apiURL := viper.GetString("api_url")
	if apiURL == "" {
		return fmt.Errorf("api_url not configured\n\nSet it in your config:\n  api_url: \"https://bookings.example.com/api\"\nor pass --api-url / set BOOKCTL_API_URL")
	}

	tokenFile := expandPath(viper.GetString("token_file"))
	tok, err := tokenFromFile(tokenFile)
	if err != nil {
		return fmt.Errorf("read token file %s: %w\n\nRun 'bookctl auth' to authenticate", tokenFile, err)
	}
	if !tok.Valid() {
		return fmt.Errorf("saved token is expired or empty\n\nRun 'bookctl auth' to authenticate again")
	}

	client = api.NewClient(apiURL)
	client.InstallToken(tok.AccessToken)
	eng = engine.New(client, OpenBrowser)

	return nil
}

func listBookings(cmd *cobra.Command, args []string) error {
	if err := eng.Load(cmd.Context()); err != nil {
		return fmt.Errorf("failed to load bookings: %w", err)
	}

	if profile, ok := eng.Profile(); ok {
		calStatus := "not connected"
		if profile.CalendarConnected {
			calStatus = "connected"
		}
		fmt.Printf("👤 %s  ·  Google Calendar: %s\n", profile.DisplayName(), calStatus)
	}

	bookings := eng.SortedBookings()

	fmt.Println("─────────────────────────────────────────────────")
	if len(bookings) == 0 {
		fmt.Println("No bookings yet. Create one with 'bookctl create'.")
		return nil
	}

	for _, booking := range bookings {
		printBooking(booking)
	}

	fmt.Println("─────────────────────────────────────────────────")
	fmt.Printf("Total: %d bookings\n", len(bookings))

	return nil
}

func printBooking(b core.Booking) {
	marker := "  "
	if b.InProgress(time.Now()) {
		marker = "🟢"
	}
	fmt.Printf("%s %s\n", marker, b.Name)
	fmt.Printf("   🕐 %s (%s)\n", formatBookingTime(b.StartTime, b.EndTime), formatDurationCompact(b.Duration()))
	fmt.Printf("   🆔 %s\n", b.ID)
}

// formatBookingTime renders a start/end pair in the viewer's local zone.
func formatBookingTime(start, end time.Time) string {
	localStart := start.Local()
	localEnd := end.Local()

	if localStart.Day() == localEnd.Day() {
		return fmt.Sprintf("%s, %s - %s", localStart.Format("Mon, Jan 2"), localStart.Format("3:04 PM"), localEnd.Format("3:04 PM"))
	}
	return fmt.Sprintf("%s - %s", localStart.Format("Mon, Jan 2 3:04 PM"), localEnd.Format("Mon, Jan 2 3:04 PM"))
}

// formatDurationCompact formats a duration in a compact way
func formatDurationCompact(d time.Duration) string {
	if d < 0 {
		d = -d
	}

	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	if days > 0 {
		if hours > 0 {
			return fmt.Sprintf("%dd %dh", days, hours)
		}
		return fmt.Sprintf("%dd", days)
	}
	if hours > 0 {
		if minutes > 0 {
			return fmt.Sprintf("%dh %dm", hours, minutes)
		}
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dm", minutes)
}

// parseDate parses a date argument: YYYY-MM-DD, "today" or "tomorrow".
func parseDate(s string) (time.Time, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch s {
	case "", "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	}

	if t, err := time.ParseInLocation("2006-01-02", s, now.Location()); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s (use YYYY-MM-DD, 'today' or 'tomorrow')", s)
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenBrowser opens a URL in the default browser
func OpenBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform")
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Start()
}
