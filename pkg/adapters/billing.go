package adapters

import (
	"github.com/wellfit-labs/wellfit/pkg/models/api"
	"github.com/wellfit-labs/wellfit/pkg/models/domain"
)

func MapPlanDomainToApi(p domain.Plan) api.Plan {
	return api.Plan{
		Id:          p.ID,
		Name:        p.Name,
		Amount:      p.Amount,
		Currency:    p.Currency,
		Interval:    p.Interval,
		Description: p.Description,
	}
}

func MapCheckoutSessionDomainToApi(s domain.CheckoutSession) api.CheckoutSession {
	return api.CheckoutSession{
		Id:  s.ID,
		URL: s.URL,
	}
}
