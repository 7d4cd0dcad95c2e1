package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/meuagito/insights/internal/models"
	"github.com/meuagito/insights/internal/repository"
	"github.com/meuagito/insights/pkg/cache"
	"github.com/meuagito/insights/pkg/logger"
	"github.com/meuagito/insights/pkg/messaging"
)

const insightCacheKey = "insights:optimizations:latest"

// InsightThresholds limiares das regras de sugestão, vindos da configuração
type InsightThresholds struct {
	LowTicket        float64 // ticket médio abaixo disso sugere combos
	HighTicket       float64 // ticket médio acima disso sugere fidelidade
	CancellationRate float64 // fração de cancelamentos tolerada (estritamente acima dispara)
}

// suggestion sugestão com a regra que a emitiu, para as métricas por regra
type suggestion struct {
	rule string
	text string
}

// InsightGenerator pipeline de regras que transforma o histórico de pedidos
// em sugestões operacionais para o parceiro. GenerateOptimizations é a
// função pura; o worker Run persiste lotes periódicos e publica alerta de
// cancelamento no broker.
type InsightGenerator struct {
	orderRepo   *repository.OrderRepository
	insightRepo *repository.InsightRepository
	cache       *cache.RedisCache
	rabbitmq    *messaging.RabbitMQ
	logger      *logger.Logger
	interval    time.Duration
	windowDays  int
	thresholds  InsightThresholds
	exchange    string
	cacheTTL    time.Duration
}

// NewInsightGenerator cria o gerador de insights
func NewInsightGenerator(
	orderRepo *repository.OrderRepository,
	insightRepo *repository.InsightRepository,
	cache *cache.RedisCache,
	rabbitmq *messaging.RabbitMQ,
	logger *logger.Logger,
	interval time.Duration,
	windowDays int,
	thresholds InsightThresholds,
	exchange string,
	cacheTTL time.Duration,
) *InsightGenerator {
	return &InsightGenerator{
		orderRepo:   orderRepo,
		insightRepo: insightRepo,
		cache:       cache,
		rabbitmq:    rabbitmq,
		logger:      logger,
		interval:    interval,
		windowDays:  windowDays,
		thresholds:  thresholds,
		exchange:    exchange,
		cacheTTL:    cacheTTL,
	}
}

// GenerateOptimizations roda o pipeline de regras sobre os pedidos e retorna
// as sugestões na ordem fixa de emissão: horário de pico, ticket médio e
// taxa de cancelamento. Coleção vazia tem resposta definida: uma única
// sugestão genérica. A coleção de entrada nunca é modificada.
func (g *InsightGenerator) GenerateOptimizations(orders []models.Order) []string {
	suggestions := g.generateSuggestions(orders)

	out := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		out = append(out, s.text)
	}
	return out
}

func (g *InsightGenerator) generateSuggestions(orders []models.Order) []suggestion {
	if len(orders) == 0 {
		return []suggestion{{
			rule: "no_data",
			text: "Comece a vender para receber insights personalizados sobre o seu negócio.",
		}}
	}

	var suggestions []suggestion

	// Horário de pico: empate resolvido a favor da hora mais cedo do dia
	var hourCounts [24]int
	for _, order := range orders {
		hourCounts[order.CreatedAt.Hour()]++
	}

	peakHour, peakCount := 0, 0
	for hour := 0; hour < 24; hour++ {
		if hourCounts[hour] > peakCount {
			peakHour = hour
			peakCount = hourCounts[hour]
		}
	}

	suggestions = append(suggestions, suggestion{
		rule: "peak_hour",
		text: fmt.Sprintf("Seu horário de pico é às %dh. Considere reforçar a equipe nesse período.", peakHour),
	})

	// Ticket médio: faixa entre os limiares é silenciosa
	var totalSum float64
	for _, order := range orders {
		totalSum += order.Total
	}
	avgTicket := totalSum / float64(len(orders))

	if avgTicket < g.thresholds.LowTicket {
		suggestions = append(suggestions, suggestion{
			rule: "ticket_low",
			text: fmt.Sprintf("Seu ticket médio é de R$ %.2f. Crie combos e kits de produtos para aumentar o valor dos pedidos.", avgTicket),
		})
	} else if avgTicket > g.thresholds.HighTicket {
		suggestions = append(suggestions, suggestion{
			rule: "ticket_high",
			text: fmt.Sprintf("Seus clientes têm ticket médio alto (R$ %.2f). Um programa de fidelidade pode aumentar a recorrência.", avgTicket),
		})
	}

	// Taxa de cancelamento: dispara apenas estritamente acima do limiar
	cancelled := 0
	for _, order := range orders {
		if order.Status == models.OrderStatusCancelled {
			cancelled++
		}
	}
	cancellationRate := float64(cancelled) / float64(len(orders))

	if cancellationRate > g.thresholds.CancellationRate {
		suggestions = append(suggestions, suggestion{
			rule: "cancellation_rate",
			text: fmt.Sprintf("Sua taxa de cancelamento está em %.0f%%. Revise o estoque e o tempo de resposta aos pedidos.", cancellationRate*100),
		})
	}

	return suggestions
}

// Run executa o worker de insights até o contexto ser cancelado
func (g *InsightGenerator) Run(ctx context.Context) {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	if err := g.generateInsights(ctx); err != nil {
		g.logger.WithError(err).Error("Failed initial insights generation")
	}

	for {
		select {
		case <-ticker.C:
			RecordWorkerRun("insight_generator")
			if err := g.generateInsights(ctx); err != nil {
				g.logger.WithError(err).Error("Failed to generate insights")
				RecordWorkerError("insight_generator")
			}
		case <-ctx.Done():
			g.logger.Info("Stopping insight generator")
			return
		}
	}
}

// generateInsights roda o pipeline sobre a janela configurada, persiste o
// lote e publica alerta quando a regra de cancelamento dispara
func (g *InsightGenerator) generateInsights(ctx context.Context) error {
	end := time.Now()
	start := end.AddDate(0, 0, -g.windowDays)

	orders, err := g.orderRepo.GetByTimeRange(ctx, start, end)
	if err != nil {
		return err
	}

	suggestions := g.generateSuggestions(orders)

	cancelled := 0
	for _, order := range orders {
		if order.Status == models.OrderStatusCancelled {
			cancelled++
		}
	}
	cancellationRate := 0.0
	if len(orders) > 0 {
		cancellationRate = float64(cancelled) / float64(len(orders))
	}

	texts := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		suggestionsEmitted.WithLabelValues(s.rule).Inc()
		texts = append(texts, s.text)
	}

	insight := &models.Insight{
		GeneratedAt:      time.Now(),
		ValidUntil:       time.Now().Add(g.interval),
		Suggestions:      texts,
		OrdersAnalyzed:   len(orders),
		CancellationRate: cancellationRate,
	}

	if err := g.insightRepo.Save(ctx, insight); err != nil {
		return err
	}

	if err := g.cache.Set(ctx, insightCacheKey, insight, g.cacheTTL); err != nil {
		g.logger.WithError(err).Warn("Failed to cache insights")
	}

	insightsGenerated.Inc()

	for _, s := range suggestions {
		if s.rule == "cancellation_rate" {
			g.publishCancellationAlert(s.text, cancellationRate, len(orders))
		}
	}

	g.logger.WithFields(map[string]interface{}{
		"orders":      len(orders),
		"suggestions": len(texts),
	}).Debug("Insights generated")

	return nil
}

// publishCancellationAlert avisa o fluxo de notificações que a taxa de
// cancelamento passou do limiar
func (g *InsightGenerator) publishCancellationAlert(message string, rate float64, orderCount int) {
	if g.rabbitmq == nil {
		return
	}

	event := models.Event{
		ID:        uuid.NewString(),
		Type:      "insight.cancellation_rate",
		Message:   message,
		Priority:  "high",
		Timestamp: time.Now(),
		Metadata: map[string]interface{}{
			"cancellation_rate": rate,
			"orders_analyzed":   orderCount,
		},
	}

	if err := g.rabbitmq.Publish(g.exchange, "insights.alert", event); err != nil {
		g.logger.WithError(err).Warn("Failed to publish cancellation alert")
	}
}

// GetOptimizations retorna o lote de sugestões mais recente: cache, banco,
// e por fim geração sob demanda
func (g *InsightGenerator) GetOptimizations(ctx context.Context) (*models.Insight, error) {
	var cached models.Insight
	if err := g.cache.GetJSON(ctx, insightCacheKey, &cached); err == nil {
		cacheHits.Inc()
		return &cached, nil
	}
	cacheMisses.Inc()

	insight, err := g.insightRepo.GetLatest(ctx)
	if err == nil {
		return insight, nil
	}
	if err != models.ErrNoInsight {
		return nil, err
	}

	if err := g.generateInsights(ctx); err != nil {
		return nil, err
	}

	return g.insightRepo.GetLatest(ctx)
}
