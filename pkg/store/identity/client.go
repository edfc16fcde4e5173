package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/wellfit-labs/wellfit/pkg/models/domain"
	"github.com/wellfit-labs/wellfit/pkg/store/localcache"
)

// SessionKey is the local cache key the current session is persisted under.
const SessionKey = "gotrue.auth.session"

// Client is the capability set the auth layer consumes from the
// identity/session provider.
type Client interface {
	// GetSession returns the current session, or nil when no session is
	// active. An error means the provider or the local cache could not
	// be consulted.
	GetSession(ctx context.Context) (*domain.Session, error)
	GetCurrentUser(ctx context.Context) (*domain.User, error)
	// CheckHealth performs a round trip against the provider's health
	// endpoint. It needs no session and is safe to call at any time.
	CheckHealth(ctx context.Context) error
	RefreshSession(ctx context.Context) (*domain.Session, error)
	SignOut(ctx context.Context) error
	SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error)
	ResendConfirmation(ctx context.Context, email string) error
	ResetPasswordForEmail(ctx context.Context, email string) error
}

type Settings struct {
	// BaseURL is the provider root, e.g. https://project.example.co
	BaseURL string
	// APIKey is the anon/publishable key sent with every request.
	APIKey string
	Client *http.Client
}

type restClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	cache   localcache.Store
}

// NewClient builds a REST client against a GoTrue-compatible auth API.
// The current session is persisted in the given local cache.
func NewClient(settings Settings, cache localcache.Store) (Client, error) {
	if settings.BaseURL == "" {
		return nil, fmt.Errorf("identity provider base URL is required")
	}
	if cache == nil {
		return nil, fmt.Errorf("local cache is required")
	}

	httpClient := settings.Client
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &restClient{
		baseURL: settings.BaseURL,
		apiKey:  settings.APIKey,
		http:    httpClient,
		cache:   cache,
	}, nil
}

type storedSession struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	UserID       string    `json:"user_id"`
	UserEmail    string    `json:"user_email"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type errorResponse struct {
	Message          string `json:"msg"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (c *restClient) GetSession(_ context.Context) (*domain.Session, error) {
	raw, found, err := c.cache.Get(SessionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read session from cache: %w", err)
	}
	if !found {
		return nil, nil
	}

	var stored storedSession
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, fmt.Errorf("failed to decode cached session: %w", err)
	}

	return &domain.Session{
		AccessToken:  stored.AccessToken,
		RefreshToken: stored.RefreshToken,
		ExpiresAt:    stored.ExpiresAt,
		User:         domain.User{ID: stored.UserID, Email: stored.UserEmail},
	}, nil
}

func (c *restClient) GetCurrentUser(ctx context.Context) (*domain.User, error) {
	session, err := c.GetSession(ctx)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("no active session")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req, session.AccessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch current user: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch current user: %s", readError(resp))
	}

	var user userResponse
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user response: %w", err)
	}
	return &domain.User{ID: user.ID, Email: user.Email}, nil
}

func (c *restClient) CheckHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/health", nil)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("provider health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider health check failed: %s", readError(resp))
	}
	return nil
}

func (c *restClient) RefreshSession(ctx context.Context) (*domain.Session, error) {
	session, err := c.GetSession(ctx)
	if err != nil {
		return nil, err
	}
	if session == nil || session.RefreshToken == "" {
		return nil, fmt.Errorf("no refresh token available")
	}

	body := map[string]string{"refresh_token": session.RefreshToken}
	token, err := c.postToken(ctx, "refresh_token", body)
	if err != nil {
		return nil, err
	}
	return c.persistToken(token)
}

func (c *restClient) SignOut(ctx context.Context) error {
	session, err := c.GetSession(ctx)
	if err == nil && session != nil {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/v1/logout", nil)
		if reqErr == nil {
			c.authorize(req, session.AccessToken)
			if resp, doErr := c.http.Do(req); doErr == nil {
				_ = resp.Body.Close()
			}
		}
	}

	// The local session is removed regardless of the remote outcome,
	// matching the provider SDK's sign-out behaviour.
	if err := c.cache.Delete(SessionKey); err != nil {
		return fmt.Errorf("failed to clear local session: %w", err)
	}
	return nil
}

func (c *restClient) SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error) {
	body := map[string]string{"email": email, "password": password}
	token, err := c.postToken(ctx, "password", body)
	if err != nil {
		return nil, err
	}
	return c.persistToken(token)
}

func (c *restClient) ResendConfirmation(ctx context.Context, email string) error {
	return c.postJSON(ctx, "/auth/v1/resend", map[string]string{"type": "signup", "email": email})
}

func (c *restClient) ResetPasswordForEmail(ctx context.Context, email string) error {
	return c.postJSON(ctx, "/auth/v1/recover", map[string]string{"email": email})
}

func (c *restClient) postToken(ctx context.Context, grantType string, body map[string]string) (*tokenResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/auth/v1/token?grant_type=%s", c.baseURL, url.QueryEscape(grantType))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token request failed: %s", readError(resp))
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("token response contained no session")
	}
	return &token, nil
}

func (c *restClient) persistToken(token *tokenResponse) (*domain.Session, error) {
	expiresAt := time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	stored := storedSession{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    expiresAt,
		UserID:       token.User.ID,
		UserEmail:    token.User.Email,
	}

	raw, err := json.Marshal(stored)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(SessionKey, string(raw)); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	return &domain.Session{
		AccessToken:  stored.AccessToken,
		RefreshToken: stored.RefreshToken,
		ExpiresAt:    stored.ExpiresAt,
		User:         domain.User{ID: stored.UserID, Email: stored.UserEmail},
	}, nil
}

func (c *restClient) postJSON(ctx context.Context, path string, body map[string]string) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("request to %s failed: %s", path, readError(resp))
	}
	return nil
}

func (c *restClient) authorize(req *http.Request, accessToken string) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+accessToken)
}

func readError(resp *http.Response) string {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil || len(raw) == 0 {
		return resp.Status
	}

	var body errorResponse
	if err := json.Unmarshal(raw, &body); err == nil {
		switch {
		case body.Message != "":
			return body.Message
		case body.ErrorDescription != "":
			return body.ErrorDescription
		case body.Error != "":
			return body.Error
		}
	}
	return fmt.Sprintf("%s: %s", resp.Status, string(raw))
}
