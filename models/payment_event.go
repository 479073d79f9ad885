package models

import "time"

// PaymentSucceededEvent is the normalized event published on the internal bus
// once a charge confirmation has been verified and correlated to an order.
type PaymentSucceededEvent struct {
	StripePaymentID string    `json:"stripe_payment_id"`
	OrderID         string    `json:"order_id"`
	ReceiptURL      string    `json:"receipt_url,omitempty"`
	Timestamp       time.Time `json:"timestamp"` // UTC event time
}
