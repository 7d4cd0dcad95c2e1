package service

import (
	"context"
	"math"
	"time"

	"github.com/meuagito/insights/internal/models"
	"github.com/meuagito/insights/internal/repository"
	"github.com/meuagito/insights/pkg/cache"
	"github.com/meuagito/insights/pkg/logger"

	"gonum.org/v1/gonum/stat"
)

const forecastCacheKey = "insights:forecast:latest"

// Limiar de tendência proporcional à média da série: 5% da média para cima
// ou para baixo, invariante à escala do negócio.
const trendThresholdRatio = 0.05

// Forecaster serviço de prognóstico de demanda. PredictDemand é a função
// pura de previsão; o worker Run alimenta o painel com previsões periódicas
// a partir do histórico de pedidos.
type Forecaster struct {
	orderRepo    *repository.OrderRepository
	forecastRepo *repository.ForecastRepository
	cache        *cache.RedisCache
	logger       *logger.Logger
	interval     time.Duration
	windowDays   int
	cacheTTL     time.Duration
}

// NewForecaster cria o serviço de prognóstico
func NewForecaster(
	orderRepo *repository.OrderRepository,
	forecastRepo *repository.ForecastRepository,
	cache *cache.RedisCache,
	logger *logger.Logger,
	interval time.Duration,
	windowDays int,
	cacheTTL time.Duration,
) *Forecaster {
	return &Forecaster{
		orderRepo:    orderRepo,
		forecastRepo: forecastRepo,
		cache:        cache,
		logger:       logger,
		interval:     interval,
		windowDays:   windowDays,
		cacheTTL:     cacheTTL,
	}
}

// PredictDemand ajusta uma reta por mínimos quadrados à série histórica e
// extrapola o próximo período. Série com menos de 3 pontos não é erro: o
// resultado definido é previsão 0 com confiança 0 e tendência estável.
// A função não modifica a série recebida.
//
// A confiança deriva do coeficiente de variação dos resíduos em torno da
// reta ajustada: série que segue a reta de perto tem confiança perto de
// 100, ruído da ordem da média derruba a confiança para perto de 0. Média
// zero é tratada como 1 no denominador para evitar divisão por zero.
func (f *Forecaster) PredictDemand(series []float64) (*models.PredictionResult, error) {
	for _, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return nil, models.ErrInvalidSeries
		}
	}

	if len(series) < 3 {
		return &models.PredictionResult{
			Prediction: 0,
			Confidence: 0,
			Trend:      models.TrendStable,
		}, nil
	}

	xs := make([]float64, len(series))
	for i := range xs {
		xs[i] = float64(i)
	}

	alpha, beta := stat.LinearRegression(xs, series, nil, false)

	// Extrapolação um passo além do fim da série
	raw := alpha + beta*float64(len(series))
	prediction := int(math.Round(raw))
	if prediction < 0 {
		prediction = 0
	}

	mean := stat.Mean(series, nil)

	residuals := make([]float64, len(series))
	for i, y := range series {
		residuals[i] = y - (alpha + beta*xs[i])
	}
	stdDev := stat.PopStdDev(residuals, nil)

	denom := mean
	if denom == 0 {
		denom = 1
	}
	cv := stdDev / denom

	confidence := int(math.Round((1 - cv) * 100))
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 100 {
		confidence = 100
	}

	trend := models.TrendStable
	threshold := trendThresholdRatio * mean
	if beta > threshold {
		trend = models.TrendUp
	} else if beta < -threshold {
		trend = models.TrendDown
	}

	return &models.PredictionResult{
		Prediction: prediction,
		Confidence: confidence,
		Trend:      trend,
	}, nil
}

// Run executa o worker de prognóstico até o contexto ser cancelado
func (f *Forecaster) Run(ctx context.Context) {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	if err := f.generateForecast(ctx); err != nil {
		f.logger.WithError(err).Error("Failed initial forecast generation")
	}

	for {
		select {
		case <-ticker.C:
			RecordWorkerRun("forecaster")
			if err := f.generateForecast(ctx); err != nil {
				f.logger.WithError(err).Error("Failed to generate forecast")
				RecordWorkerError("forecaster")
			}
		case <-ctx.Done():
			f.logger.Info("Stopping forecaster")
			return
		}
	}
}

// generateForecast monta a série diária de pedidos da janela configurada,
// roda a previsão e persiste o resultado
func (f *Forecaster) generateForecast(ctx context.Context) error {
	start := time.Now()

	series, err := f.buildDailySeries(ctx)
	if err != nil {
		return err
	}

	result, err := f.PredictDemand(series)
	if err != nil {
		return err
	}

	forecast := &models.ForecastResult{
		GeneratedAt: time.Now(),
		ValidUntil:  time.Now().Add(f.interval),
		Prediction:  *result,
		WindowDays:  f.windowDays,
		SampleSize:  len(series),
		Model:       "linear_regression",
	}

	if err := f.forecastRepo.Save(ctx, forecast); err != nil {
		return err
	}

	if err := f.cache.Set(ctx, forecastCacheKey, forecast, f.cacheTTL); err != nil {
		f.logger.WithError(err).Warn("Failed to cache forecast")
	}

	forecastGenerationDuration.Observe(time.Since(start).Seconds())
	forecastsGenerated.Inc()
	forecastConfidence.Set(float64(result.Confidence))
	forecastPrediction.Set(float64(result.Prediction))

	f.logger.WithFields(map[string]interface{}{
		"prediction": result.Prediction,
		"confidence": result.Confidence,
		"trend":      result.Trend,
	}).Debug("Demand forecast generated")

	return nil
}

// buildDailySeries agrupa os pedidos da janela em contagens diárias, um
// ponto por dia, em ordem cronológica. Dias sem pedidos contam como zero.
func (f *Forecaster) buildDailySeries(ctx context.Context) ([]float64, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -f.windowDays)

	orders, err := f.orderRepo.GetByTimeRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	series := make([]float64, f.windowDays)
	for _, order := range orders {
		day := int(order.CreatedAt.Sub(start).Hours() / 24)
		if day >= 0 && day < f.windowDays {
			series[day]++
		}
	}

	return series, nil
}

// GetForecast retorna a previsão mais recente: cache, depois banco, e por
// fim gera uma nova sob demanda quando nenhuma previsão válida existe
func (f *Forecaster) GetForecast(ctx context.Context) (*models.ForecastResult, error) {
	var cached models.ForecastResult
	if err := f.cache.GetJSON(ctx, forecastCacheKey, &cached); err == nil {
		cacheHits.Inc()
		return &cached, nil
	}
	cacheMisses.Inc()

	forecast, err := f.forecastRepo.GetLatest(ctx)
	if err == nil {
		return forecast, nil
	}
	if err != models.ErrNoForecast {
		return nil, err
	}

	if err := f.generateForecast(ctx); err != nil {
		return nil, err
	}

	return f.forecastRepo.GetLatest(ctx)
}
