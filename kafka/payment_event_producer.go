package kafka

import (
	"context"
	"encoding/json"
	"time"

	"payments-service/models"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventPublisher publishes normalized payment events to the internal bus.
type EventPublisher interface {
	PublishPaymentSucceeded(ctx context.Context, event models.PaymentSucceededEvent) error
}

// PaymentEventProducer writes payment events to a Kafka topic, keyed by order
// ID so events for the same order land on the same partition.
type PaymentEventProducer struct {
	writer *kafka.Writer
	logger *zap.Logger
}

func NewPaymentEventProducer(brokers []string, topic string, logger *zap.Logger) *PaymentEventProducer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
	}
	logger.Info("Kafka producer initialized",
		zap.String("topic", topic),
		zap.Strings("brokers", brokers),
	)
	return &PaymentEventProducer{writer: w, logger: logger}
}

func (p *PaymentEventProducer) PublishPaymentSucceeded(ctx context.Context, event models.PaymentSucceededEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID),
		Value: data,
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *PaymentEventProducer) Close() {
	if err := p.writer.Close(); err != nil {
		p.logger.Warn("Failed to close Kafka producer", zap.Error(err))
	}
}
