package repository

import (
	"context"

	"payments-service/models"

	"gorm.io/gorm"
)

// PaymentRepository persists processor-interaction audit records.
type PaymentRepository interface {
	CreateSession(ctx context.Context, session *models.PaymentSession) error
	CreateDelivery(ctx context.Context, delivery *models.WebhookDelivery) error
	SessionsByOrderID(ctx context.Context, orderID string) ([]models.PaymentSession, error)
}

type gormPaymentRepo struct {
	db *gorm.DB
}

func NewGormPaymentRepo(db *gorm.DB) PaymentRepository {
	return &gormPaymentRepo{db: db}
}

func (r *gormPaymentRepo) CreateSession(ctx context.Context, session *models.PaymentSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *gormPaymentRepo) CreateDelivery(ctx context.Context, delivery *models.WebhookDelivery) error {
	return r.db.WithContext(ctx).Create(delivery).Error
}

func (r *gormPaymentRepo) SessionsByOrderID(ctx context.Context, orderID string) ([]models.PaymentSession, error) {
	var sessions []models.PaymentSession
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("created_at").Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}
