package authhealth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wellfit-labs/wellfit/pkg/models/api"
	"github.com/wellfit-labs/wellfit/pkg/models/domain"
)

type mockEngine struct{ mock.Mock }

func (m *mockEngine) Diagnose(ctx context.Context) domain.DiagnosticReport {
	args := m.Called(ctx)
	return args.Get(0).(domain.DiagnosticReport)
}

func (m *mockEngine) ApplyFixes(ctx context.Context) domain.FixReport {
	args := m.Called(ctx)
	return args.Get(0).(domain.FixReport)
}

func (m *mockEngine) NeedsReauthentication(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *mockEngine) ForceSessionRefresh(ctx context.Context) domain.FixResult {
	args := m.Called(ctx)
	return args.Get(0).(domain.FixResult)
}

func (m *mockEngine) ClearAuthData(ctx context.Context) domain.FixResult {
	args := m.Called(ctx)
	return args.Get(0).(domain.FixResult)
}

func sampleReport() domain.DiagnosticReport {
	return domain.DiagnosticReport{
		Problems: []domain.ProblemStatus{
			{
				Problem: domain.Problem{
					ID:       "session_expired",
					Name:     "Expired session",
					Severity: domain.SeverityHigh,
				},
				HasProblem: true,
				Details:    "no active session",
			},
			{
				Problem: domain.Problem{
					ID:       "cors",
					Name:     "Cross-origin configuration",
					Severity: domain.SeverityMedium,
				},
			},
		},
		Summary: domain.DiagnosticSummary{Total: 1, High: 1},
	}
}

func TestDiagnoseEndpoint(t *testing.T) {
	engine := new(mockEngine)
	engine.On("Diagnose", mock.Anything).Return(sampleReport())

	handler := NewHandler(engine)
	rec := httptest.NewRecorder()
	handler.Diagnose(rec, httptest.NewRequest(http.MethodGet, "/api/v1/auth/diagnostics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var report api.DiagnosticReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.Len(t, report.Problems, 2)
	assert.Equal(t, "session_expired", report.Problems[0].Problem.Id)
	assert.Equal(t, api.SeverityHigh, report.Problems[0].Problem.Severity)
	assert.True(t, report.Problems[0].HasProblem)
	assert.Equal(t, 1, report.Summary.Total)
}

func TestApplyFixesEndpoint(t *testing.T) {
	engine := new(mockEngine)
	engine.On("ApplyFixes", mock.Anything).Return(domain.FixReport{
		Applied: []domain.AppliedFix{
			{
				Problem: domain.Problem{ID: "session_expired", Severity: domain.SeverityHigh},
				Success: true,
				Message: "session refreshed",
			},
		},
		Summary: domain.FixSummary{Total: 1, Successful: 1},
	})

	handler := NewHandler(engine)
	rec := httptest.NewRecorder()
	handler.ApplyFixes(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/diagnostics/fix", nil))

	var report api.FixReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.Len(t, report.Applied, 1)
	assert.True(t, report.Applied[0].Success)
	assert.Equal(t, report.Summary.Total, report.Summary.Successful+report.Summary.Failed)
}

func TestReauthEndpoint(t *testing.T) {
	engine := new(mockEngine)
	engine.On("NeedsReauthentication", mock.Anything).Return(true)

	handler := NewHandler(engine)
	rec := httptest.NewRecorder()
	handler.Reauth(rec, httptest.NewRequest(http.MethodGet, "/api/v1/auth/reauth", nil))

	var status api.ReauthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.True(t, status.NeedsReauthentication)
}

func TestRefreshEndpoint(t *testing.T) {
	engine := new(mockEngine)
	engine.On("ForceSessionRefresh", mock.Anything).Return(domain.FixResult{
		Success: false,
		Message: "session refresh failed",
		Details: "refresh token revoked",
	})

	handler := NewHandler(engine)
	rec := httptest.NewRecorder()
	handler.Refresh(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil))

	var result api.FixResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Message)
}

func TestClearEndpoint(t *testing.T) {
	engine := new(mockEngine)
	engine.On("ClearAuthData", mock.Anything).Return(domain.FixResult{
		Success: true,
		Message: "cleared 2 cached entries and signed out",
	})

	handler := NewHandler(engine)
	rec := httptest.NewRecorder()
	handler.Clear(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/clear", nil))

	var result api.FixResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	engine.AssertExpectations(t)
}
