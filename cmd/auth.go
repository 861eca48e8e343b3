package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/voicecal/internal/google"
)

func newAuthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authorize access to your Google Calendar",
		Long: `Run the OAuth flow for Google Calendar. Prints an authorization URL,
waits for the code and caches the token for later runs.

Requires GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET to be set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if google.HasToken() {
				fmt.Println("A calendar token is already cached. Continuing will replace it.")
			}
			return runAuthFlow(cmd.Context())
		},
	}
}

// runAuthFlow walks the user through the out-of-band OAuth exchange.
func runAuthFlow(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	url, err := google.GetAuthURL()
	if err != nil {
		return err
	}

	fmt.Println("Open the following URL in your browser and authorize access:")
	fmt.Println()
	fmt.Println("  " + url)
	fmt.Println()
	fmt.Print("Enter the authorization code: ")

	reader := bufio.NewReader(os.Stdin)
	code, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read authorization code: %w", err)
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return fmt.Errorf("no authorization code entered")
	}

	if err := google.SaveToken(ctx, code); err != nil {
		return err
	}

	fmt.Println("Token saved. You can now run 'voicecal'.")
	return nil
}
