package main

import (
	"log"
	"strings"

	"payments-service/config"
	"payments-service/controllers"
	"payments-service/database"
	"payments-service/kafka"
	"payments-service/middleware"
	"payments-service/models"
	"payments-service/repository"
	"payments-service/routes"
	"payments-service/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("[PaymentsService] failed to load config: ", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("[PaymentsService] failed to initialize logger: ", err)
	}
	defer logger.Sync()

	db, err := database.ConnectPostgres(logger, &models.PaymentSession{}, &models.WebhookDelivery{})
	if err != nil {
		logger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer database.Close(db)

	var deduper services.EventDeduper = services.NoopEventDeduper{}
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		deduper = services.NewRedisEventDeduper(redisClient, logger)
	}

	stripeSvc := services.NewStripeService(
		cfg.StripeSecretKey,
		cfg.StripeWebhookKey,
		cfg.SuccessURL,
		cfg.CancelURL,
		nil,
	)

	producer := kafka.NewPaymentEventProducer(strings.Split(cfg.KafkaBrokers, ","), cfg.PaymentTopic, logger)
	defer producer.Close()

	pc := &controllers.PaymentController{
		Stripe:    stripeSvc,
		Publisher: producer,
		Repo:      repository.NewGormPaymentRepo(db),
		Deduper:   deduper,
		Logger:    logger,
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))
	routes.RegisterPaymentRoutes(r, pc)

	logger.Info("Payments service running", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
