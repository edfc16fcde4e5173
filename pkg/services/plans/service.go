package plans

import (
	"context"
	"fmt"

	"github.com/wellfit-labs/wellfit/pkg/models/domain"
	"github.com/wellfit-labs/wellfit/pkg/services/config"
)

// Service exposes the configured subscription tiers. Plans are static
// configuration; prices themselves live with the payment processor.
type Service interface {
	ListPlans(ctx context.Context) ([]domain.Plan, error)
	GetPlan(ctx context.Context, id string) (*domain.Plan, error)
}

type service struct {
	plans []domain.Plan
}

func NewService(configured []config.PlanConfig) (Service, error) {
	if len(configured) == 0 {
		return nil, fmt.Errorf("at least one plan must be configured")
	}

	plans := make([]domain.Plan, 0, len(configured))
	seen := map[string]bool{}
	for _, p := range configured {
		if p.ID == "" {
			return nil, fmt.Errorf("plan with empty id in configuration")
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate plan id %q in configuration", p.ID)
		}
		seen[p.ID] = true
		plans = append(plans, domain.Plan{
			ID:          p.ID,
			Name:        p.Name,
			PriceID:     p.PriceID,
			Amount:      p.Amount,
			Currency:    p.Currency,
			Interval:    p.Interval,
			Description: p.Description,
		})
	}

	return &service{plans: plans}, nil
}

func (s *service) ListPlans(_ context.Context) ([]domain.Plan, error) {
	out := make([]domain.Plan, len(s.plans))
	copy(out, s.plans)
	return out, nil
}

func (s *service) GetPlan(_ context.Context, id string) (*domain.Plan, error) {
	for _, p := range s.plans {
		if p.ID == id {
			plan := p
			return &plan, nil
		}
	}
	return nil, nil
}
