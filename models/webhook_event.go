package models

// WebhookEventKind discriminates the decoded webhook payload variants.
type WebhookEventKind int

const (
	// EventUnknown covers every event type this service does not handle.
	EventUnknown WebhookEventKind = iota
	EventChargeSucceeded
	EventChargeFailed
)

// ChargeEvent is the decoded payload of a charge.* webhook event. OrderID
// comes from the payment-intent metadata and may be empty if the charge was
// created without correlation.
type ChargeEvent struct {
	ChargeID   string
	OrderID    string
	ReceiptURL string
}

// WebhookEvent is a verified, decoded processor event. Charge is set for the
// charge.* kinds; unknown kinds carry only the raw type string.
type WebhookEvent struct {
	EventID string
	Type    string
	Kind    WebhookEventKind
	Charge  *ChargeEvent
}
