// Package googleauth runs the installed-app OAuth2 flow against Google and
// keeps the resulting token on disk.
package googleauth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/abdullahfadli/caniaffordtobuythis/internal/common"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// DefaultCallbackAddr is where the local callback server listens.
const DefaultCallbackAddr = "localhost:8080"

const authTimeout = 5 * time.Minute

// Config holds OAuth2 configuration.
type Config struct {
	Endpoint     oauth2.Endpoint // zero value means google.Endpoint
	ClientID     string
	ClientSecret string
	TokenFile    string // Where to save the token
	CallbackAddr string
	Scopes       []string
}

// Validate checks that the client credentials and token file are set.
func (c Config) Validate() error {
	if c.ClientID == "" || c.ClientSecret == "" {
		return fmt.Errorf("%w: OAuth client id and secret are required", common.ErrMissingConfig)
	}
	if c.TokenFile == "" {
		return fmt.Errorf("%w: token file path is required", common.ErrMissingConfig)
	}
	return nil
}

func (c Config) oauthConfig() *oauth2.Config {
	endpoint := c.Endpoint
	if endpoint.TokenURL == "" {
		endpoint = google.Endpoint
	}
	addr := c.CallbackAddr
	if addr == "" {
		addr = DefaultCallbackAddr
	}

	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint:     endpoint,
		RedirectURL:  "http://" + addr + "/callback",
		Scopes:       c.Scopes,
	}
}

// Authenticate performs the OAuth2 flow interactively and saves the token.
func Authenticate(ctx context.Context, config Config) (*oauth2.Token, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	oauthConfig := config.oauthConfig()
	state, err := randomState()
	if err != nil {
		return nil, err
	}

	addr := config.CallbackAddr
	if addr == "" {
		addr = DefaultCallbackAddr
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to start callback server: %w", err)
	}

	codeChan := make(chan string, 1)
	errorChan := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", callbackHandler(state, codeChan, errorChan))
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errorChan <- fmt.Errorf("callback server failed: %w", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Warn("Error shutting down callback server", "error", err)
		}
	}()

	authURL := oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)

	slog.Info("Google authentication required")
	slog.Info("Please visit this URL to authenticate", "url", authURL)
	slog.Info("Waiting for authentication...")

	var authCode string
	select {
	case authCode = <-codeChan:
		slog.Info("Received authorization code")
	case err := <-errorChan:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(authTimeout):
		return nil, fmt.Errorf("authentication timeout - no response received within %s", authTimeout)
	}

	token, err := oauthConfig.Exchange(ctx, authCode)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	if err := SaveToken(config.TokenFile, token); err != nil {
		return nil, err
	}
	slog.Info("Token saved successfully", "file", config.TokenFile)

	return token, nil
}

func callbackHandler(state string, codeChan chan<- string, errorChan chan<- error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			return
		}

		code := query.Get("code")
		if code == "" {
			select {
			case errorChan <- fmt.Errorf("no authorization code received: %s", query.Get("error")):
			default:
			}
			_, _ = fmt.Fprint(w, `<html><body>
				<h1>Authentication Failed</h1>
				<p>No authorization code received. Please try again.</p>
			</body></html>`)
			return
		}

		select {
		case codeChan <- code:
		default:
		}
		_, _ = fmt.Fprint(w, `<html><body>
			<h1>Authentication Successful!</h1>
			<p>You can close this window and return to the terminal.</p>
		</body></html>`)
	}
}

func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// LoadToken loads a token from file.
func LoadToken(tokenFile string) (*oauth2.Token, error) {
	f, err := os.Open(tokenFile) // #nosec G304
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	token := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(token); err != nil {
		return nil, fmt.Errorf("failed to decode token file: %w", err)
	}
	return token, nil
}

// SaveToken writes a token to path, creating the directory if needed.
func SaveToken(path string, token *oauth2.Token) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create token file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := json.NewEncoder(f).Encode(token); err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	return nil
}

// TokenSource loads the saved token and returns a source that refreshes it,
// persists refreshed tokens, and reports revoked credentials as
// common.ErrReauthRequired after deleting the token file.
func TokenSource(ctx context.Context, config Config) (oauth2.TokenSource, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	token, err := LoadToken(config.TokenFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: no saved token at %s", common.ErrReauthRequired, config.TokenFile)
		}
		return nil, err
	}

	return &persistingSource{
		base:      config.oauthConfig().TokenSource(ctx, token),
		tokenFile: config.TokenFile,
		last:      token.AccessToken,
	}, nil
}

// HTTPClient returns an authorized client backed by TokenSource.
func HTTPClient(ctx context.Context, config Config) (*http.Client, error) {
	ts, err := TokenSource(ctx, config)
	if err != nil {
		return nil, err
	}
	return oauth2.NewClient(ctx, ts), nil
}

type persistingSource struct {
	base      oauth2.TokenSource
	tokenFile string
	last      string
	mu        sync.Mutex
}

func (s *persistingSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, err := s.base.Token()
	if err != nil {
		if IsRevoked(err) {
			if rmErr := os.Remove(s.tokenFile); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				slog.Warn("Failed to remove revoked token", "file", s.tokenFile, "error", rmErr)
			}
			return nil, fmt.Errorf("%w: %v", common.ErrReauthRequired, err)
		}
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}

	if token.AccessToken != s.last {
		if err := SaveToken(s.tokenFile, token); err != nil {
			slog.Warn("Failed to save refreshed token", "error", err)
		}
		s.last = token.AccessToken
	}

	return token, nil
}

// IsRevoked reports whether err means the refresh token is no longer valid.
func IsRevoked(err error) bool {
	var retrieveErr *oauth2.RetrieveError
	if !errors.As(err, &retrieveErr) {
		return false
	}
	if retrieveErr.ErrorCode == "invalid_grant" {
		return true
	}
	return retrieveErr.Response != nil && retrieveErr.Response.StatusCode == http.StatusUnauthorized
}
