package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/meuagito/insights/internal/models"
	"github.com/meuagito/insights/internal/service"
	"github.com/meuagito/insights/pkg/logger"

	"github.com/gin-gonic/gin"
)

// InsightsHandler expõe o serviço de insights pela API HTTP do painel do
// parceiro
type InsightsHandler struct {
	insightsService *service.InsightsService
	logger          *logger.Logger
}

// NewInsightsHandler cria o handler HTTP
func NewInsightsHandler(insightsService *service.InsightsService, logger *logger.Logger) *InsightsHandler {
	return &InsightsHandler{
		insightsService: insightsService,
		logger:          logger,
	}
}

// GetForecastHTTP retorna a previsão de demanda vigente
func (h *InsightsHandler) GetForecastHTTP(c *gin.Context) {
	start := time.Now()
	defer func() {
		service.RecordHTTPRequest("GET", "/forecast", time.Since(start).Seconds(), c.Writer.Status())
	}()

	forecast, err := h.insightsService.GetDemandForecast(c)
	if err != nil {
		if errors.Is(err, models.ErrNoForecast) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No forecast available"})
			return
		}
		h.logger.WithError(err).Error("Failed to get demand forecast")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get demand forecast"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"prediction":   forecast.Prediction.Prediction,
		"confidence":   forecast.Prediction.Confidence,
		"trend":        forecast.Prediction.Trend,
		"window_days":  forecast.WindowDays,
		"sample_size":  forecast.SampleSize,
		"model":        forecast.Model,
		"generated_at": forecast.GeneratedAt,
		"valid_until":  forecast.ValidUntil,
	})
}

// GetOptimizationsHTTP retorna as sugestões de otimização vigentes
func (h *InsightsHandler) GetOptimizationsHTTP(c *gin.Context) {
	start := time.Now()
	defer func() {
		service.RecordHTTPRequest("GET", "/optimizations", time.Since(start).Seconds(), c.Writer.Status())
	}()

	insight, err := h.insightsService.GetOptimizations(c)
	if err != nil {
		if errors.Is(err, models.ErrNoInsight) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No insights available"})
			return
		}
		h.logger.WithError(err).Error("Failed to get optimizations")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get optimizations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"suggestions":       insight.Suggestions,
		"orders_analyzed":   insight.OrdersAnalyzed,
		"cancellation_rate": insight.CancellationRate,
		"generated_at":      insight.GeneratedAt,
		"valid_until":       insight.ValidUntil,
	})
}

// ComposeCampaignHTTP monta um rascunho de campanha para o parceiro
func (h *InsightsHandler) ComposeCampaignHTTP(c *gin.Context) {
	start := time.Now()
	defer func() {
		service.RecordHTTPRequest("POST", "/campaigns", time.Since(start).Seconds(), c.Writer.Status())
	}()

	var req struct {
		InsightType      string `json:"insight_type" binding:"required"`
		BusinessCategory string `json:"business_category"`
		ProductName      string `json:"product_name" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft := h.insightsService.ComposeCampaign(models.InsightType(req.InsightType), req.BusinessCategory, req.ProductName)

	c.JSON(http.StatusCreated, draft)
}

// EstimateCampaignHTTP estima alcance e custo de um impulso de campanha
func (h *InsightsHandler) EstimateCampaignHTTP(c *gin.Context) {
	start := time.Now()
	defer func() {
		service.RecordHTTPRequest("POST", "/campaigns/estimate", time.Since(start).Seconds(), c.Writer.Status())
	}()

	var req struct {
		RadiusKm     float64 `json:"radius_km" binding:"required"`
		PricingModel string  `json:"pricing_model"`
		Budget       float64 `json:"budget"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.RadiusKm < 1 || req.RadiusKm > 10 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Radius must be between 1 and 10 km"})
		return
	}

	if req.PricingModel == "" {
		req.PricingModel = models.PricingFixedPackage
	}

	estimate := h.insightsService.EstimateCampaign(req.PricingModel, req.RadiusKm, req.Budget)

	c.JSON(http.StatusOK, estimate)
}
