package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"pricefeed/internal/config"
	"pricefeed/internal/logger"
)

// validityMargin refreshes tokens early to avoid a token expiring between
// issuing a request and it reaching the API.
const validityMargin = 60 * time.Second

const defaultExpiresIn = 3600

// TokenProvider hands out bearer tokens for the Pricenow APIs. Refresh
// bypasses every cache and always performs the network exchange.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
	Refresh(ctx context.Context) (string, error)
}

// Token is the cached credential, both in memory and in the cache file.
type Token struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"` // epoch seconds
}

func (t Token) validAt(now time.Time) bool {
	return t.AccessToken != "" && now.Before(time.Unix(t.ExpiresAt, 0).Add(-validityMargin))
}

// Manager obtains tokens via the client-credentials exchange and caches them
// in memory and in a JSON file shared across invocations.
type Manager struct {
	authURL       string
	clientID      string
	clientSecret  string
	audience      string
	grantType     string
	versionHeader string
	cachePath     string
	httpClient    *http.Client
	logger        *logger.Logger

	mu      sync.Mutex
	current Token
	now     func() time.Time
}

func NewManager(cfg *config.Config, logger *logger.Logger) *Manager {
	return &Manager{
		authURL:       cfg.AuthURL,
		clientID:      cfg.ClientID,
		clientSecret:  cfg.ClientSecret,
		audience:      cfg.Audience,
		grantType:     cfg.GrantType,
		versionHeader: cfg.AuthVersionHeader,
		cachePath:     cfg.TokenCachePath,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
		now:    time.Now,
	}
}

// Token returns a token valid for at least another minute, checking the
// in-memory credential first, then the cache file, and finally performing the
// network exchange.
func (m *Manager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current.validAt(m.now()) {
		return m.current.AccessToken, nil
	}

	if tok, ok := m.loadCacheFile(); ok {
		m.logger.Debug("Using token from cache file")
		m.current = tok
		return tok.AccessToken, nil
	}

	return m.exchange(ctx)
}

// Refresh discards all cached state and performs the exchange. Used once as a
// recovery action when the API rejects the current token.
func (m *Manager) Refresh(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exchange(ctx)
}

func (m *Manager) exchange(ctx context.Context) (string, error) {
	body, err := json.Marshal(map[string]string{
		"client_id":     m.clientID,
		"client_secret": m.clientSecret,
		"audience":      m.audience,
		"grant_type":    m.grantType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.authURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("pratiq-api-version", m.versionHeader)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", &AuthError{StatusCode: resp.StatusCode, Reason: string(respBody)}
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", &AuthError{StatusCode: resp.StatusCode, Reason: fmt.Sprintf("malformed token response: %v", err)}
	}
	if payload.AccessToken == "" {
		return "", &AuthError{StatusCode: resp.StatusCode, Reason: "token response missing access_token"}
	}
	if payload.ExpiresIn <= 0 {
		payload.ExpiresIn = defaultExpiresIn
	}

	m.current = Token{
		AccessToken: payload.AccessToken,
		ExpiresAt:   m.now().Unix() + payload.ExpiresIn,
	}
	m.saveCacheFile(m.current)

	return m.current.AccessToken, nil
}

func (m *Manager) loadCacheFile() (Token, bool) {
	data, err := os.ReadFile(m.cachePath)
	if err != nil {
		return Token{}, false
	}
	var tok Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return Token{}, false
	}
	if !tok.validAt(m.now()) {
		return Token{}, false
	}
	return tok, true
}

func (m *Manager) saveCacheFile(tok Token) {
	data, err := json.Marshal(tok)
	if err != nil {
		return
	}
	if err := os.WriteFile(m.cachePath, data, 0600); err != nil {
		m.logger.Warn("Failed to write token cache file: %v", err)
	}
}
