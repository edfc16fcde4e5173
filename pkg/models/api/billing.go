package api

type Plan struct {
	Id          string `json:"id"`
	Name        string `json:"name"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Interval    string `json:"interval"`
	Description string `json:"description,omitempty"`
}

type CheckoutRequest struct {
	PlanId     string `json:"plan_id"`
	SuccessURL string `json:"success_url"`
	CancelURL  string `json:"cancel_url"`
}

type CheckoutSession struct {
	Id  string `json:"id"`
	URL string `json:"url"`
}
