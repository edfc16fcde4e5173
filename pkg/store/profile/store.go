package profile

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
)

// Store is the application profile table, keyed by the identity
// provider's user id.
type Store interface {
	// GetByID returns the profile for the given user id, or nil when no
	// record exists.
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	Insert(ctx context.Context, profile domain.Profile) error
}

type Settings struct {
	// BaseURL is the data API root, e.g. https://project.example.co
	BaseURL string
	APIKey  string
	Client  *http.Client
}

type restStore struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

type profileRow struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// NewStore builds a REST client against a PostgREST-compatible
// profiles endpoint.
func NewStore(settings Settings) (Store, error) {
	if settings.BaseURL == "" {
		return nil, fmt.Errorf("profile store base URL is required")
	}

	httpClient := settings.Client
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &restStore{
		baseURL: settings.BaseURL,
		apiKey:  settings.APIKey,
		http:    httpClient,
	}, nil
}

func (s *restStore) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	endpoint := fmt.Sprintf("%s/rest/v1/profiles?id=eq.%s&limit=1", s.baseURL, url.QueryEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	s.authorize(req)

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile %q: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch profile %q: %s", id, readBody(resp))
	}

	var rows []profileRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode profile response: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	row := rows[0]
	return &domain.Profile{
		ID:    row.ID,
		Email: row.Email,
		Name:  row.Name,
		Role:  row.Role,
	}, nil
}

func (s *restStore) Insert(ctx context.Context, profile domain.Profile) error {
	payload, err := json.Marshal(profileRow{
		ID:    profile.ID,
		Email: profile.Email,
		Name:  profile.Name,
		Role:  profile.Role,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, s.baseURL+"/rest/v1/profiles", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	s.authorize(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=minimal")

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to insert profile %q: %w", profile.ID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to insert profile %q: %s", profile.ID, readBody(resp))
	}
	return nil
}

func (s *restStore) authorize(req *http.Request) {
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
}

func readBody(resp *http.Response) string {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil || len(raw) == 0 {
		return resp.Status
	}
	return fmt.Sprintf("%s: %s", resp.Status, string(raw))
}
