package models

import "github.com/shopspring/decimal"

// LineItem is a single order line as supplied by the caller. Price is in
// major currency units (e.g. 19.99 for $19.99).
type LineItem struct {
	Name     string          `json:"name" binding:"required"`
	Price    decimal.Decimal `json:"price" binding:"required"`
	Quantity int64           `json:"quantity" binding:"required,gt=0"`
}

// UnitAmountMinor converts the price to minor currency units (cents),
// rounding to the nearest integer with ties away from zero. No fractional
// minor units ever cross the processor boundary.
func (li LineItem) UnitAmountMinor() int64 {
	return li.Price.Shift(2).Round(0).IntPart()
}

// CheckoutSessionRequest describes the order to open a hosted checkout for.
type CheckoutSessionRequest struct {
	Currency string     `json:"currency" binding:"required,len=3"`
	OrderID  string     `json:"order_id" binding:"required"`
	Items    []LineItem `json:"items" binding:"required,min=1,dive"`
}

// TotalMinor is the total charge across all items in minor units.
func (r CheckoutSessionRequest) TotalMinor() int64 {
	var total int64
	for _, item := range r.Items {
		total += item.UnitAmountMinor() * item.Quantity
	}
	return total
}

// CheckoutSessionResult carries the redirect URLs returned to the caller.
// Processor identifiers stay inside this service.
type CheckoutSessionResult struct {
	SuccessURL string `json:"success_url"`
	CancelURL  string `json:"cancel_url"`
	SessionURL string `json:"session_url"`
}
