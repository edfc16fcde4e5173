package domain

// Plan is a purchasable subscription tier.
type Plan struct {
	ID          string
	Name        string
	PriceID     string
	Amount      int64
	Currency    string
	Interval    string
	Description string
}

// CheckoutSession is the processor-hosted payment session a
// subscriber is redirected to.
type CheckoutSession struct {
	ID  string
	URL string
}
