package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wellfit-labs/wellfit/pkg/models/domain"
)

// Service is a pass-through wrapper around the payment processor's
// hosted checkout API. All billing logic lives with the processor.
type Service interface {
	CreateCheckoutSession(ctx context.Context, plan domain.Plan, successURL, cancelURL string) (domain.CheckoutSession, error)
}

type Settings struct {
	APIURL    string
	SecretKey string
	Client    *http.Client
}

type service struct {
	apiURL    string
	secretKey string
	http      *http.Client
}

type checkoutResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

func NewService(settings Settings) (Service, error) {
	if settings.APIURL == "" {
		return nil, fmt.Errorf("billing API URL is required")
	}
	if settings.SecretKey == "" {
		return nil, fmt.Errorf("billing secret key is required")
	}

	httpClient := settings.Client
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &service{
		apiURL:    settings.APIURL,
		secretKey: settings.SecretKey,
		http:      httpClient,
	}, nil
}

func (s *service) CreateCheckoutSession(
	ctx context.Context,
	plan domain.Plan,
	successURL, cancelURL string,
) (domain.CheckoutSession, error) {
	if plan.PriceID == "" {
		return domain.CheckoutSession{}, fmt.Errorf("plan %q has no price id", plan.ID)
	}

	form := url.Values{}
	form.Set("mode", "subscription")
	form.Set("line_items[0][price]", plan.PriceID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("success_url", successURL)
	form.Set("cancel_url", cancelURL)

	endpoint := s.apiURL + "/v1/checkout/sessions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return domain.CheckoutSession{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+s.secretKey)

	resp, err := s.http.Do(req)
	if err != nil {
		return domain.CheckoutSession{}, fmt.Errorf("checkout session request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return domain.CheckoutSession{}, fmt.Errorf(
			"checkout session request failed: %s: %s", resp.Status, string(raw))
	}

	var session checkoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return domain.CheckoutSession{}, fmt.Errorf("failed to decode checkout response: %w", err)
	}
	if session.URL == "" {
		return domain.CheckoutSession{}, fmt.Errorf("checkout response contained no redirect URL")
	}

	return domain.CheckoutSession{ID: session.ID, URL: session.URL}, nil
}
