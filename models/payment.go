package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentSession is the audit record of a checkout session created with the
// processor. Orders themselves live in another service; this row only tracks
// the processor interaction.
type PaymentSession struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID     string    `gorm:"type:varchar(64);index;not null"`
	Currency    string    `gorm:"type:varchar(10);not null"`
	AmountMinor int64     `gorm:"not null"` // total charge in cents/paise
	SessionURL  string    `gorm:"type:varchar(1024)"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

// WebhookDelivery is the audit record of a verified webhook delivery,
// including the raw event payload for debugging.
type WebhookDelivery struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	StripeEventID string    `gorm:"type:varchar(255);index;not null"`
	EventType     string    `gorm:"type:varchar(64);not null"`
	OrderID       *string   `gorm:"type:varchar(64);index"`
	Payload       string    `gorm:"type:jsonb"`
	ReceivedAt    time.Time `gorm:"autoCreateTime"`
}
