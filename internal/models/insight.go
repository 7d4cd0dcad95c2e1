package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InsightType situação de negócio detectada; usada como chave na tabela de
// modelos de campanha
type InsightType string

const (
	InsightSlowSales          InsightType = "slow_sales"
	InsightPeakDemand         InsightType = "peak_demand"
	InsightWeatherOpportunity InsightType = "weather_opportunity"
	InsightHolidayOpportunity InsightType = "holiday_opportunity"
	InsightLowStock           InsightType = "low_stock"
)

// Insight lista de sugestões operacionais persistida pelo worker de insights.
// A ordem das sugestões é a ordem fixa do pipeline de regras (horário de pico,
// ticket médio, taxa de cancelamento), não uma ordenação por severidade.
type Insight struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	GeneratedAt time.Time          `bson:"generated_at" json:"generated_at"`
	ValidUntil  time.Time          `bson:"valid_until" json:"valid_until"` // índice TTL

	Suggestions []string `bson:"suggestions" json:"suggestions"`

	OrdersAnalyzed   int     `bson:"orders_analyzed" json:"orders_analyzed"`
	CancellationRate float64 `bson:"cancellation_rate" json:"cancellation_rate"` // 0-1
}

// Event evento publicado no RabbitMQ para o fluxo de notificações
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Message   string                 `json:"message"`
	Priority  string                 `json:"priority"` // high/medium/low
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}
