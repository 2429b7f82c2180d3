package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/oauth2"

	"bookctl/internal/api"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Install an access token for the booking backend",
	Long: `Install an access token for the booking backend.

The backend's auth service issues bearer tokens (sign in through its web
app and copy the token it shows you). bookctl verifies the token against
the backend and saves it for future use:

  bookctl auth --token eyJhbGci...
  bookctl auth            # prompts for the token on stdin

Expired tokens are not refreshed here; rerun this command with a fresh one.`,
	RunE: runAuth,
}

func init() {
	rootCmd.AddCommand(authCmd)

	authCmd.Flags().String("token", "", "Access token to install (prompted if omitted)")
	authCmd.Flags().Duration("expires-in", 0, "Token lifetime, if known (e.g. 24h); 0 means unknown")
}

func runAuth(cmd *cobra.Command, args []string) error {
	apiURL := viper.GetString("api_url")
	if apiURL == "" {
		return fmt.Errorf("api_url not configured\n\nSet it in your config or pass --api-url")
	}

	token, _ := cmd.Flags().GetString("token")
	if token == "" {
		fmt.Print("Paste your access token: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read token: %w", err)
		}
		token = strings.TrimSpace(line)
	}
	if token == "" {
		return fmt.Errorf("no token provided")
	}

	// Verify before saving: a bad token should fail here, not on the next
	// actual command.
	verifyClient := api.NewClient(apiURL)
	verifyClient.InstallToken(token)
	profile, err := verifyClient.Profile(cmd.Context())
	if err != nil {
		return fmt.Errorf("token rejected by backend: %w", err)
	}

	tok := &oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}
	if expiresIn, _ := cmd.Flags().GetDuration("expires-in"); expiresIn > 0 {
		tok.Expiry = time.Now().Add(expiresIn)
	}

	tokenFile := expandPath(viper.GetString("token_file"))
	if err := saveToken(tokenFile, tok); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	fmt.Println("\n✅ Authentication successful!")
	fmt.Printf("👤 Signed in as %s\n", profile.Email)
	fmt.Printf("📁 Token saved to %s\n", tokenFile)
	fmt.Println("\nYou can now run 'bookctl' to see your bookings.")

	return nil
}

// tokenFromFile reads a saved token from a JSON file.
func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

func saveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}
