package billing

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/wellfit-labs/wellfit/pkg/adapters"
	"github.com/wellfit-labs/wellfit/pkg/models/api"
	"github.com/wellfit-labs/wellfit/pkg/services/billing"
	"github.com/wellfit-labs/wellfit/pkg/services/plans"
)

type Handler struct {
	plans    plans.Service
	checkout billing.Service
}

func NewHandler(planSvc plans.Service, checkoutSvc billing.Service) *Handler {
	return &Handler{
		plans:    planSvc,
		checkout: checkoutSvc,
	}
}

func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	configured, err := h.plans.ListPlans(ctx)
	if err != nil {
		writeError(ctx, w, http.StatusInternalServerError, err)
		return
	}

	response := make([]api.Plan, 0, len(configured))
	for _, p := range configured {
		response = append(response, adapters.MapPlanDomainToApi(p))
	}
	writeJSON(ctx, w, http.StatusOK, response)
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, err)
		return
	}

	plan, err := h.plans.GetPlan(ctx, req.PlanId)
	if err != nil {
		writeError(ctx, w, http.StatusInternalServerError, err)
		return
	}
	if plan == nil {
		http.Error(w, "unknown plan", http.StatusNotFound)
		return
	}

	session, err := h.checkout.CreateCheckoutSession(ctx, *plan, req.SuccessURL, req.CancelURL)
	if err != nil {
		writeError(ctx, w, http.StatusBadGateway, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, adapters.MapCheckoutSessionDomainToApi(session))
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zerolog.Ctx(ctx).Error().
			Err(err).
			Msg("failed to encode response")
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	zerolog.Ctx(ctx).Error().
		Err(err).
		Msg("billing request failed")
	http.Error(w, err.Error(), status)
}
