package authhealth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/wellfit-labs/wellfit/pkg/adapters"
	"github.com/wellfit-labs/wellfit/pkg/models/api"
	"github.com/wellfit-labs/wellfit/pkg/models/domain"
)

// Engine is the auth health surface the handler exposes over HTTP.
type Engine interface {
	Diagnose(ctx context.Context) domain.DiagnosticReport
	ApplyFixes(ctx context.Context) domain.FixReport
	NeedsReauthentication(ctx context.Context) bool
	ForceSessionRefresh(ctx context.Context) domain.FixResult
	ClearAuthData(ctx context.Context) domain.FixResult
}

type Handler struct {
	engine Engine
}

func NewHandler(engine Engine) *Handler {
	return &Handler{engine: engine}
}

func (h *Handler) Diagnose(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	report := h.engine.Diagnose(ctx)
	writeJSON(ctx, w, adapters.MapDiagnosticReportDomainToApi(report))
}

func (h *Handler) ApplyFixes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	report := h.engine.ApplyFixes(ctx)
	writeJSON(ctx, w, adapters.MapFixReportDomainToApi(report))
}

func (h *Handler) Reauth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	writeJSON(ctx, w, api.ReauthStatus{
		NeedsReauthentication: h.engine.NeedsReauthentication(ctx),
	})
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	result := h.engine.ForceSessionRefresh(ctx)
	writeJSON(ctx, w, adapters.MapFixResultDomainToApi(result))
}

func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	result := h.engine.ClearAuthData(ctx)
	writeJSON(ctx, w, adapters.MapFixResultDomainToApi(result))
}

func writeJSON(ctx context.Context, w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zerolog.Ctx(ctx).Error().
			Err(err).
			Msg("failed to encode response")
	}
}
