package domain

import "time"

type CheckoutStep int

const (
	StepContact CheckoutStep = iota + 1
	StepShipping
	StepPayment
	StepReview
)

// CheckoutSession is the server-held draft accumulated across the four
// checkout steps. It is discarded on submission or TTL expiry; an abandoned
// checkout leaves nothing behind.
type CheckoutSession struct {
	ID        string         `json:"id"`
	CartID    string         `json:"cart_id"`
	Contact   *Contact       `json:"contact,omitempty"`
	Shipping  *Address       `json:"shipping,omitempty"`
	Payment   *PaymentMethod `json:"payment,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Step reports the furthest step the session may enter. A step opens only
// once every earlier one holds validated data; going back is always allowed.
func (s *CheckoutSession) Step() CheckoutStep {
	if s.Contact == nil {
		return StepContact
	}
	if s.Shipping == nil {
		return StepShipping
	}
	if s.Payment == nil {
		return StepPayment
	}
	return StepReview
}
