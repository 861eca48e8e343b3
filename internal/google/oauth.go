package google

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	calendar "google.golang.org/api/calendar/v3"

	"github.com/teemow/voicecal/internal/errs"
)

// Environment variables carrying the OAuth client credentials.
const (
	EnvClientID     = "GOOGLE_CLIENT_ID"
	EnvClientSecret = "GOOGLE_CLIENT_SECRET"
)

// tokenFileName is the cached token file inside the voicecal cache dir.
const tokenFileName = "google.token"

// HasToken checks if a cached OAuth token exists.
func HasToken() bool {
	_, err := os.ReadFile(tokenFile())
	return err == nil
}

// GetAuthURL returns the OAuth consent URL for user authorization.
func GetAuthURL() (string, error) {
	conf, err := GetOAuthConfig()
	if err != nil {
		return "", err
	}
	return conf.AuthCodeURL("state", oauth2.AccessTypeOffline), nil
}

// SaveToken exchanges an authorization code for tokens and saves them to the
// cache directory for later runs.
func SaveToken(ctx context.Context, authCode string) error {
	conf, err := GetOAuthConfig()
	if err != nil {
		return err
	}

	t, err := conf.Exchange(ctx, authCode)
	if err != nil {
		return fmt.Errorf("failed to exchange auth code: %w", err)
	}

	file := tokenFile()
	if err := os.MkdirAll(filepath.Dir(file), 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tokenData := t.AccessToken + " " + t.RefreshToken
	if err := os.WriteFile(file, []byte(tokenData), 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	return nil
}

// GetOAuthConfig returns the OAuth2 configuration for the Google Calendar
// scope. The client credentials come from the environment; a missing value
// is a fatal ConfigError.
func GetOAuthConfig() (*oauth2.Config, error) {
	clientID := os.Getenv(EnvClientID)
	if clientID == "" {
		return nil, errs.NewConfigError(EnvClientID, "environment variable not set")
	}
	clientSecret := os.Getenv(EnvClientSecret)
	if clientSecret == "" {
		return nil, errs.NewConfigError(EnvClientSecret, "environment variable not set")
	}

	const oob = "urn:ietf:wg:oauth:2.0:oob"
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  oob,
		Scopes: []string{
			calendar.CalendarScope,
		},
	}, nil
}

// GetTokenSource returns an OAuth2 token source backed by the cached token.
// The source refreshes the access token under an explicit expiry check and
// reuses it across calls.
func GetTokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	conf, err := GetOAuthConfig()
	if err != nil {
		return nil, err
	}

	slurp, err := os.ReadFile(tokenFile())
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found; run the auth command first")
	}

	f := strings.Fields(strings.TrimSpace(string(slurp)))
	if len(f) != 2 {
		return nil, fmt.Errorf("invalid token format in %s", tokenFile())
	}

	// Expiry in the past forces a refresh on first use, validating the
	// cached refresh token.
	ts := conf.TokenSource(ctx, &oauth2.Token{
		AccessToken:  f[0],
		TokenType:    "Bearer",
		RefreshToken: f[1],
		Expiry:       time.Unix(1, 0),
	})

	if _, err := ts.Token(); err != nil {
		return nil, fmt.Errorf("cached token is invalid: %w", err)
	}

	return ts, nil
}

func tokenFile() string {
	return filepath.Join(userCacheDir(), "voicecal", tokenFileName)
}

func userCacheDir() string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir(), "Library", "Caches")
	case "windows":
		for _, ev := range []string{"TEMP", "TMP"} {
			if v := os.Getenv(ev); v != "" {
				return v
			}
		}
		panic("No Windows TEMP or TMP environment variables found")
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return xdg
	}
	return filepath.Join(homeDir(), ".cache")
}

func homeDir() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("HOMEDRIVE") + os.Getenv("HOMEPATH")
	}
	return os.Getenv("HOME")
}
