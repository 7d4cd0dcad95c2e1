package service

import (
	"context"

	"github.com/meuagito/insights/internal/models"
	"github.com/meuagito/insights/pkg/logger"
)

// InsightsService fachada que a camada HTTP consome; agrega previsão de
// demanda, sugestões de otimização e composição de campanhas
type InsightsService struct {
	forecaster *Forecaster
	insights   *InsightGenerator
	composer   *CampaignComposer
	logger     *logger.Logger
}

// NewInsightsService cria a fachada sobre os três serviços de domínio
func NewInsightsService(forecaster *Forecaster, insights *InsightGenerator, composer *CampaignComposer, logger *logger.Logger) *InsightsService {
	return &InsightsService{
		forecaster: forecaster,
		insights:   insights,
		composer:   composer,
		logger:     logger,
	}
}

// GetDemandForecast retorna a previsão de demanda vigente
func (s *InsightsService) GetDemandForecast(ctx context.Context) (*models.ForecastResult, error) {
	return s.forecaster.GetForecast(ctx)
}

// GetOptimizations retorna as sugestões de otimização vigentes
func (s *InsightsService) GetOptimizations(ctx context.Context) (*models.Insight, error) {
	return s.insights.GetOptimizations(ctx)
}

// ComposeCampaign monta um rascunho de campanha para o tipo de insight dado
func (s *InsightsService) ComposeCampaign(insightType models.InsightType, businessCategory, productName string) *models.CampaignDraft {
	return s.composer.GenerateCampaign(insightType, businessCategory, productName)
}

// EstimateCampaign estima alcance e custo de um impulso
func (s *InsightsService) EstimateCampaign(pricingModel string, radiusKm, budget float64) models.CampaignEstimate {
	return s.composer.Estimate(pricingModel, radiusKm, budget)
}
