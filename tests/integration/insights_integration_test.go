// +build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/meuagito/insights/internal/models"
	"github.com/meuagito/insights/internal/repository"
	"github.com/meuagito/insights/internal/service"
	"github.com/meuagito/insights/pkg/cache"
	"github.com/meuagito/insights/pkg/database"
	"github.com/meuagito/insights/pkg/logger"
	"github.com/meuagito/insights/pkg/testutil"
)

// InsightsIntegrationSuite tests the insights pipeline with real MongoDB and Redis
type InsightsIntegrationSuite struct {
	suite.Suite
	ctx          context.Context
	cancel       context.CancelFunc
	infra        *testutil.TestInfrastructure
	mongodb      *database.MongoDB
	redisCache   *cache.RedisCache
	orderRepo    *repository.OrderRepository
	forecastRepo *repository.ForecastRepository
	insightRepo  *repository.InsightRepository
	log          *logger.Logger
}

func (s *InsightsIntegrationSuite) SetupSuite() {
	s.ctx, s.cancel = context.WithTimeout(context.Background(), 5*time.Minute)
	s.log = logger.NewLogger("integration-test")

	var err error

	s.infra, err = testutil.StartTestInfrastructure(s.ctx)
	s.Require().NoError(err, "Failed to start test infrastructure")

	s.mongodb, err = database.NewMongoDB(s.infra.MongoDB.URI, s.infra.MongoDB.DatabaseName, 10*time.Second)
	s.Require().NoError(err, "Failed to connect to MongoDB")

	s.redisCache, err = cache.NewRedisCache(s.infra.Redis.Addr, "", 0)
	s.Require().NoError(err, "Failed to connect to Redis")

	s.orderRepo = repository.NewOrderRepository(s.mongodb.Database())
	s.forecastRepo = repository.NewForecastRepository(s.mongodb.Database())
	s.insightRepo = repository.NewInsightRepository(s.mongodb.Database())
}

func (s *InsightsIntegrationSuite) TearDownSuite() {
	s.cancel()

	if s.redisCache != nil {
		_ = s.redisCache.Close()
	}
	if s.mongodb != nil {
		_ = s.mongodb.Close()
	}
	if s.infra != nil {
		_ = s.infra.Close(context.Background())
	}
}

func (s *InsightsIntegrationSuite) SetupTest() {
	// Clean collections and cache between tests
	for _, name := range []string{"orders", "demand_forecasts", "insights"} {
		_ = s.mongodb.Collection(name).Drop(s.ctx)
	}
	_ = s.redisCache.Delete(s.ctx, "insights:forecast:latest", "insights:optimizations:latest")
}

func (s *InsightsIntegrationSuite) seedOrders(perDay int, days int, total float64, status string) {
	now := time.Now()
	for day := 0; day < days; day++ {
		for i := 0; i < perDay; i++ {
			order := models.Order{
				CreatedAt: now.AddDate(0, 0, -day).Add(-time.Duration(i) * time.Minute),
				Total:     total,
				Status:    status,
			}
			_, err := s.mongodb.Collection("orders").InsertOne(s.ctx, order)
			s.Require().NoError(err)
		}
	}
}

func TestInsightsIntegrationSuite(t *testing.T) {
	suite.Run(t, new(InsightsIntegrationSuite))
}

// Test forecast generation persists to MongoDB and caches in Redis
func (s *InsightsIntegrationSuite) TestForecastGeneratedAndCached() {
	s.seedOrders(5, 14, 80.0, models.OrderStatusCompleted)

	forecaster := service.NewForecaster(
		s.orderRepo, s.forecastRepo, s.redisCache, s.log,
		time.Hour, 14, time.Hour,
	)

	forecast, err := forecaster.GetForecast(s.ctx)
	s.Require().NoError(err)
	s.Equal("linear_regression", forecast.Model)
	s.Equal(14, forecast.SampleSize)
	s.GreaterOrEqual(forecast.Prediction.Confidence, 0)
	s.LessOrEqual(forecast.Prediction.Confidence, 100)

	// Persisted in MongoDB
	stored, err := s.forecastRepo.GetLatest(s.ctx)
	s.Require().NoError(err)
	s.Equal(forecast.Prediction, stored.Prediction)

	// Cached in Redis
	var cached models.ForecastResult
	err = s.redisCache.GetJSON(s.ctx, "insights:forecast:latest", &cached)
	s.Require().NoError(err)
	s.Equal(forecast.Prediction, cached.Prediction)
}

// Test GetForecast returns the cached forecast on the second call
func (s *InsightsIntegrationSuite) TestForecastServedFromCache() {
	s.seedOrders(3, 14, 60.0, models.OrderStatusCompleted)

	forecaster := service.NewForecaster(
		s.orderRepo, s.forecastRepo, s.redisCache, s.log,
		time.Hour, 14, time.Hour,
	)

	first, err := forecaster.GetForecast(s.ctx)
	s.Require().NoError(err)

	second, err := forecaster.GetForecast(s.ctx)
	s.Require().NoError(err)
	s.Equal(first.Prediction, second.Prediction)
	s.Equal(first.GeneratedAt.Unix(), second.GeneratedAt.Unix())
}

// Test insight generation runs the rule pipeline over stored orders
func (s *InsightsIntegrationSuite) TestInsightsGeneratedFromOrders() {
	s.seedOrders(4, 10, 200.0, models.OrderStatusCompleted)

	generator := service.NewInsightGenerator(
		s.orderRepo, s.insightRepo, s.redisCache, nil, s.log,
		6*time.Hour, 30,
		service.InsightThresholds{LowTicket: 50.0, HighTicket: 150.0, CancellationRate: 0.10},
		"partner.events", 6*time.Hour,
	)

	insight, err := generator.GetOptimizations(s.ctx)
	s.Require().NoError(err)
	s.Equal(40, insight.OrdersAnalyzed)
	s.NotEmpty(insight.Suggestions)

	stored, err := s.insightRepo.GetLatest(s.ctx)
	s.Require().NoError(err)
	s.Equal(insight.Suggestions, stored.Suggestions)
}

// Test order repository time range filtering
func (s *InsightsIntegrationSuite) TestOrderRepositoryTimeRange() {
	now := time.Now()

	recent := models.Order{CreatedAt: now.Add(-2 * time.Hour), Total: 50, Status: models.OrderStatusCompleted}
	old := models.Order{CreatedAt: now.AddDate(0, 0, -40), Total: 50, Status: models.OrderStatusCompleted}

	_, err := s.mongodb.Collection("orders").InsertOne(s.ctx, recent)
	s.Require().NoError(err)
	_, err = s.mongodb.Collection("orders").InsertOne(s.ctx, old)
	s.Require().NoError(err)

	orders, err := s.orderRepo.GetByTimeRange(s.ctx, now.AddDate(0, 0, -30), now)
	s.Require().NoError(err)
	s.Len(orders, 1)
}
