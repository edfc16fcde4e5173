package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wellfit-labs/wellfit/pkg/models/api"
	"github.com/wellfit-labs/wellfit/pkg/models/domain"
)

type mockHealthEngine struct {
	mock.Mock
}

func (m *mockHealthEngine) Diagnose(ctx context.Context) domain.DiagnosticReport {
	args := m.Called(ctx)
	return args.Get(0).(domain.DiagnosticReport)
}

func (m *mockHealthEngine) ApplyFixes(ctx context.Context) domain.FixReport {
	args := m.Called(ctx)
	return args.Get(0).(domain.FixReport)
}

func (m *mockHealthEngine) NeedsReauthentication(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *mockHealthEngine) ForceSessionRefresh(ctx context.Context) domain.FixResult {
	args := m.Called(ctx)
	return args.Get(0).(domain.FixResult)
}

func (m *mockHealthEngine) ClearAuthData(ctx context.Context) domain.FixResult {
	args := m.Called(ctx)
	return args.Get(0).(domain.FixResult)
}

type mockVideoService struct {
	mock.Mock
}

func (m *mockVideoService) Upload(
	ctx context.Context,
	title, contentType string,
	body io.Reader,
	size int64,
) (domain.Video, error) {
	args := m.Called(ctx, title, contentType, body, size)
	return args.Get(0).(domain.Video), args.Error(1)
}

func (m *mockVideoService) List(ctx context.Context) ([]domain.Video, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Video), args.Error(1)
}

func (m *mockVideoService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockVideoService) SignedURL(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

type mockPlanService struct {
	mock.Mock
}

func (m *mockPlanService) ListPlans(ctx context.Context) ([]domain.Plan, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Plan), args.Error(1)
}

func (m *mockPlanService) GetPlan(ctx context.Context, id string) (*domain.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Plan), args.Error(1)
}

type mockBillingService struct {
	mock.Mock
}

func (m *mockBillingService) CreateCheckoutSession(
	ctx context.Context,
	plan domain.Plan,
	successURL, cancelURL string,
) (domain.CheckoutSession, error) {
	args := m.Called(ctx, plan, successURL, cancelURL)
	return args.Get(0).(domain.CheckoutSession), args.Error(1)
}

func TestWebAPI_Endpoints(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t))

	mockHealth := new(mockHealthEngine)
	mockVideos := new(mockVideoService)
	mockPlans := new(mockPlanService)
	mockBilling := new(mockBillingService)

	webAPI := NewWebAPI(logger, Config{
		Addr:            ":8080",
		ShutdownTimeout: 10 * time.Second,
		Dependencies: Dependencies{
			Health:  mockHealth,
			Videos:  mockVideos,
			Plans:   mockPlans,
			Billing: mockBilling,
		},
	})
	testServer := httptest.NewServer(webAPI.router)
	defer testServer.Close()

	uploadedAt, _ := time.Parse(time.RFC3339, "2026-08-01T10:00:00Z")
	basicPlan := domain.Plan{
		ID:       "basic",
		Name:     "Basic",
		PriceID:  "price_basic",
		Amount:   999,
		Currency: "usd",
		Interval: "month",
	}

	tests := []struct {
		name           string
		method         string
		path           string
		body           interface{}
		setupMocks     func()
		expectedStatus int
		expected       interface{}
		parseResponse  func([]byte) (interface{}, error)
	}{
		{
			name:   "Diagnose",
			method: http.MethodGet,
			path:   "/api/v1/auth/diagnostics",
			setupMocks: func() {
				mockHealth.On("Diagnose", mock.Anything).
					Return(domain.DiagnosticReport{
						Problems: []domain.ProblemStatus{{
							Problem: domain.Problem{
								ID:       "session_expired",
								Name:     "Expired session",
								Severity: domain.SeverityHigh,
							},
							HasProblem: true,
							Details:    "no active session",
						}},
						Summary: domain.DiagnosticSummary{Total: 1, High: 1},
					})
			},
			expectedStatus: http.StatusOK,
			expected: api.DiagnosticReport{
				Problems: []api.ProblemStatus{{
					Problem: api.Problem{
						Id:       "session_expired",
						Name:     "Expired session",
						Severity: api.SeverityHigh,
					},
					HasProblem: true,
					Details:    "no active session",
				}},
				Summary: api.DiagnosticSummary{Total: 1, High: 1},
			},
			parseResponse: unmarshalResponse[api.DiagnosticReport](),
		},
		{
			name:   "ApplyFixes",
			method: http.MethodPost,
			path:   "/api/v1/auth/diagnostics/fix",
			setupMocks: func() {
				mockHealth.On("ApplyFixes", mock.Anything).
					Return(domain.FixReport{
						Applied: []domain.AppliedFix{{
							Problem: domain.Problem{
								ID:       "session_expired",
								Name:     "Expired session",
								Severity: domain.SeverityHigh,
							},
							Success: true,
							Message: "session refreshed",
						}},
						Summary: domain.FixSummary{Total: 1, Successful: 1},
					})
			},
			expectedStatus: http.StatusOK,
			expected: api.FixReport{
				Applied: []api.AppliedFix{{
					Problem: api.Problem{
						Id:       "session_expired",
						Name:     "Expired session",
						Severity: api.SeverityHigh,
					},
					Success: true,
					Message: "session refreshed",
				}},
				Summary: api.FixSummary{Total: 1, Successful: 1},
			},
			parseResponse: unmarshalResponse[api.FixReport](),
		},
		{
			name:   "Reauth",
			method: http.MethodGet,
			path:   "/api/v1/auth/reauth",
			setupMocks: func() {
				mockHealth.On("NeedsReauthentication", mock.Anything).Return(false)
			},
			expectedStatus: http.StatusOK,
			expected:       api.ReauthStatus{NeedsReauthentication: false},
			parseResponse:  unmarshalResponse[api.ReauthStatus](),
		},
		{
			name:   "Refresh",
			method: http.MethodPost,
			path:   "/api/v1/auth/refresh",
			setupMocks: func() {
				mockHealth.On("ForceSessionRefresh", mock.Anything).
					Return(domain.FixResult{Success: true, Message: "session refreshed"})
			},
			expectedStatus: http.StatusOK,
			expected:       api.FixResult{Success: true, Message: "session refreshed"},
			parseResponse:  unmarshalResponse[api.FixResult](),
		},
		{
			name:   "Clear",
			method: http.MethodPost,
			path:   "/api/v1/auth/clear",
			setupMocks: func() {
				mockHealth.On("ClearAuthData", mock.Anything).
					Return(domain.FixResult{Success: true, Message: "cleared 2 cached entries and signed out"})
			},
			expectedStatus: http.StatusOK,
			expected:       api.FixResult{Success: true, Message: "cleared 2 cached entries and signed out"},
			parseResponse:  unmarshalResponse[api.FixResult](),
		},
		{
			name:   "ListVideos",
			method: http.MethodGet,
			path:   "/api/v1/videos/",
			setupMocks: func() {
				mockVideos.On("List", mock.Anything).
					Return([]domain.Video{{
						ID:          "vid-1",
						Title:       "Morning Yoga",
						ObjectKey:   "videos/vid-1",
						ContentType: "video/mp4",
						Size:        1024,
						UploadedAt:  uploadedAt,
					}}, nil)
			},
			expectedStatus: http.StatusOK,
			expected: []api.Video{{
				Id:          "vid-1",
				Title:       "Morning Yoga",
				ObjectKey:   "videos/vid-1",
				ContentType: "video/mp4",
				Size:        1024,
				UploadedAt:  uploadedAt,
			}},
			parseResponse: unmarshalResponse[[]api.Video](),
		},
		{
			name:   "SignedURL",
			method: http.MethodGet,
			path:   "/api/v1/videos/vid-1/url",
			setupMocks: func() {
				mockVideos.On("SignedURL", mock.Anything, "vid-1").
					Return("https://cdn.example.com/videos/vid-1?sig=abc", nil)
			},
			expectedStatus: http.StatusOK,
			expected: api.VideoURL{
				Id:  "vid-1",
				URL: "https://cdn.example.com/videos/vid-1?sig=abc",
			},
			parseResponse: unmarshalResponse[api.VideoURL](),
		},
		{
			name:   "ListPlans",
			method: http.MethodGet,
			path:   "/api/v1/plans",
			setupMocks: func() {
				mockPlans.On("ListPlans", mock.Anything).
					Return([]domain.Plan{basicPlan}, nil)
			},
			expectedStatus: http.StatusOK,
			expected: []api.Plan{{
				Id:       "basic",
				Name:     "Basic",
				Amount:   999,
				Currency: "usd",
				Interval: "month",
			}},
			parseResponse: unmarshalResponse[[]api.Plan](),
		},
		{
			name:   "Checkout",
			method: http.MethodPost,
			path:   "/api/v1/billing/checkout",
			body: api.CheckoutRequest{
				PlanId:     "basic",
				SuccessURL: "https://app.example.com/welcome",
				CancelURL:  "https://app.example.com/plans",
			},
			setupMocks: func() {
				mockPlans.On("GetPlan", mock.Anything, "basic").Return(&basicPlan, nil)
				mockBilling.On("CreateCheckoutSession",
					mock.Anything,
					basicPlan,
					"https://app.example.com/welcome",
					"https://app.example.com/plans",
				).Return(domain.CheckoutSession{
					ID:  "cs_test_1",
					URL: "https://checkout.example.com/cs_test_1",
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expected: api.CheckoutSession{
				Id:  "cs_test_1",
				URL: "https://checkout.example.com/cs_test_1",
			},
			parseResponse: unmarshalResponse[api.CheckoutSession](),
		},
		{
			name:   "Checkout_UnknownPlan",
			method: http.MethodPost,
			path:   "/api/v1/billing/checkout",
			body: api.CheckoutRequest{
				PlanId: "nonexistent",
			},
			setupMocks: func() {
				mockPlans.On("GetPlan", mock.Anything, "nonexistent").Return(nil, nil)
			},
			expectedStatus: http.StatusNotFound,
			expected:       "unknown plan\n",
			parseResponse: func(data []byte) (interface{}, error) {
				return string(data), nil
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMocks()

			var reqBody io.Reader
			if tc.body != nil {
				raw, err := json.Marshal(tc.body)
				require.NoError(t, err)
				reqBody = bytes.NewReader(raw)
			}

			req, err := http.NewRequest(tc.method, testServer.URL+tc.path, reqBody)
			require.NoError(t, err, "Failed to build request")
			if tc.body != nil {
				req.Header.Set("Content-Type", "application/json")
			}

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err, "Failed to send request")
			defer resp.Body.Close()

			assert.Equal(t, tc.expectedStatus, resp.StatusCode, "Status code mismatch")

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err, "Failed to read response body")

			actual, err := tc.parseResponse(body)
			require.NoError(t, err, "Failed to parse response")

			assert.Equal(t, tc.expected, actual)
		})
	}
}

func unmarshalResponse[T any]() func([]byte) (interface{}, error) {
	return func(data []byte) (interface{}, error) {
		var response T
		err := json.Unmarshal(data, &response)
		return response, err
	}
}
