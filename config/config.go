package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	StripeSecretKey  string
	StripeWebhookKey string
	SuccessURL       string
	CancelURL        string
	KafkaBrokers     string
	PaymentTopic     string
	RedisURL         string // optional; enables webhook redelivery dedup
}

func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnv("PORT", "8087"),
		StripeSecretKey:  os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookKey: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		SuccessURL:       os.Getenv("STRIPE_SUCCESS_URL"),
		CancelURL:        os.Getenv("STRIPE_CANCEL_URL"),
		KafkaBrokers:     getEnv("KAFKA_BROKERS", "localhost:9092"),
		PaymentTopic:     getEnv("PAYMENT_EVENTS_TOPIC", "payment.succeeded"),
		RedisURL:         os.Getenv("REDIS_URL"),
	}

	if cfg.StripeSecretKey == "" || cfg.StripeWebhookKey == "" ||
		cfg.SuccessURL == "" || cfg.CancelURL == "" {
		return nil, fmt.Errorf("missing required environment variables")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
