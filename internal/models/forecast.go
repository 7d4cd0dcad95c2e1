package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tendência da demanda em relação à média da série
const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)

// PredictionResult resultado de uma previsão de demanda. Sempre construído
// do zero a cada chamada; nunca compartilha memória com a série de entrada.
type PredictionResult struct {
	Prediction int    `bson:"prediction" json:"prediction"` // pedidos no próximo período, >= 0
	Confidence int    `bson:"confidence" json:"confidence"` // 0-100
	Trend      string `bson:"trend" json:"trend"`           // up/down/stable
}

// ForecastResult previsão persistida pelo worker de prognóstico
type ForecastResult struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	GeneratedAt time.Time          `bson:"generated_at" json:"generated_at"`
	ValidUntil  time.Time          `bson:"valid_until" json:"valid_until"` // índice TTL

	Prediction PredictionResult `bson:"prediction" json:"prediction"`

	WindowDays int    `bson:"window_days" json:"window_days"` // dias de histórico usados no ajuste
	SampleSize int    `bson:"sample_size" json:"sample_size"` // pontos da série
	Model      string `bson:"model" json:"model"`             // linear_regression
}
