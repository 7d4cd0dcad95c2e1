package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/meuagito/insights/internal/config"
	"github.com/meuagito/insights/internal/handlers"
	"github.com/meuagito/insights/internal/repository"
	"github.com/meuagito/insights/internal/service"
	"github.com/meuagito/insights/pkg/cache"
	"github.com/meuagito/insights/pkg/database"
	"github.com/meuagito/insights/pkg/logger"
	"github.com/meuagito/insights/pkg/messaging"
	"github.com/meuagito/insights/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	log := logger.NewLogger("partner-insights")

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/insights_config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.WithError(err).Fatal("Failed to load config")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mongodb, err := database.NewMongoDB(cfg.MongoDB.URI, cfg.MongoDB.Database, cfg.MongoDB.Timeout)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer mongodb.Close()

	if err := setupIndexes(ctx, mongodb.Database()); err != nil {
		log.WithError(err).Error("Failed to setup indexes")
	}

	redisCache, err := cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redisCache.Close()

	rabbitmq, err := messaging.NewRabbitMQ(cfg.RabbitMQ.URL)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to RabbitMQ")
	}
	defer rabbitmq.Close()

	if err := rabbitmq.DeclareExchange(cfg.RabbitMQ.Exchange, "topic"); err != nil {
		log.WithError(err).Fatal("Failed to declare exchange")
	}

	orderRepo := repository.NewOrderRepository(mongodb.Database())
	forecastRepo := repository.NewForecastRepository(mongodb.Database())
	insightRepo := repository.NewInsightRepository(mongodb.Database())

	forecaster := service.NewForecaster(
		orderRepo, forecastRepo, redisCache, log,
		cfg.Forecasting.Interval, cfg.Forecasting.WindowDays, cfg.Cache.ForecastTTL,
	)
	insightGenerator := service.NewInsightGenerator(
		orderRepo, insightRepo, redisCache, rabbitmq, log,
		cfg.Insights.Interval, cfg.Insights.WindowDays,
		service.InsightThresholds{
			LowTicket:        cfg.Insights.LowTicket,
			HighTicket:       cfg.Insights.HighTicket,
			CancellationRate: cfg.Insights.CancellationRate,
		},
		cfg.RabbitMQ.Exchange, cfg.Cache.InsightsTTL,
	)
	campaignComposer := service.NewCampaignComposer(nil, nil, log)

	insightsService := service.NewInsightsService(forecaster, insightGenerator, campaignComposer, log)

	// Workers de fundo: prognóstico de demanda e regeneração de insights
	go forecaster.Run(ctx)
	go insightGenerator.Run(ctx)

	handler := handlers.NewInsightsHandler(insightsService, log)

	go startHTTPServer(cfg, handler, log)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down partner insights service...")
	cancel()
	time.Sleep(2 * time.Second)
}

func startHTTPServer(cfg *config.Config, handler *handlers.InsightsHandler, log *logger.Logger) {
	router := gin.Default()

	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	auth := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	v1 := router.Group("/api/v1/insights")
	v1.Use(auth.Authenticate())
	{
		v1.GET("/forecast", handler.GetForecastHTTP)
		v1.GET("/optimizations", handler.GetOptimizationsHTTP)
		v1.POST("/campaigns", handler.ComposeCampaignHTTP)
		v1.POST("/campaigns/estimate", handler.EstimateCampaignHTTP)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	log.WithField("port", cfg.Service.HTTPPort).Info("Starting HTTP server")
	if err := router.Run(fmt.Sprintf(":%d", cfg.Service.HTTPPort)); err != nil {
		log.WithError(err).Fatal("Failed to start HTTP server")
	}
}

func setupIndexes(ctx context.Context, db *mongo.Database) error {
	// orders indexes
	orderIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "created_at", Value: -1},
			},
		},
	}
	if _, err := db.Collection("orders").Indexes().CreateMany(ctx, orderIndexes); err != nil {
		return err
	}

	// demand_forecasts indexes
	forecastIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "generated_at", Value: -1}},
		},
		{
			Keys:    bson.D{{Key: "valid_until", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}
	if _, err := db.Collection("demand_forecasts").Indexes().CreateMany(ctx, forecastIndexes); err != nil {
		return err
	}

	// insights indexes
	insightIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "generated_at", Value: -1}},
		},
		{
			Keys:    bson.D{{Key: "valid_until", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}
	if _, err := db.Collection("insights").Indexes().CreateMany(ctx, insightIndexes); err != nil {
		return err
	}

	return nil
}
