package repository

import (
	"context"
	"time"

	"github.com/meuagito/insights/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ForecastRepository repositório das previsões de demanda
type ForecastRepository struct {
	collection *mongo.Collection
}

// NewForecastRepository cria o repositório de previsões
func NewForecastRepository(db *mongo.Database) *ForecastRepository {
	return &ForecastRepository{
		collection: db.Collection("demand_forecasts"),
	}
}

// Save persiste uma previsão
func (r *ForecastRepository) Save(ctx context.Context, forecast *models.ForecastResult) error {
	forecast.ID = primitive.NewObjectID()
	_, err := r.collection.InsertOne(ctx, forecast)
	return err
}

// GetLatest retorna a previsão válida mais recente
func (r *ForecastRepository) GetLatest(ctx context.Context) (*models.ForecastResult, error) {
	filter := bson.M{
		"valid_until": bson.M{"$gte": time.Now()},
	}

	opts := options.FindOne().SetSort(bson.D{{Key: "generated_at", Value: -1}})

	var forecast models.ForecastResult
	err := r.collection.FindOne(ctx, filter, opts).Decode(&forecast)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrNoForecast
		}
		return nil, err
	}

	return &forecast, nil
}

// GetHistory retorna as previsões mais recentes, inclusive expiradas
func (r *ForecastRepository) GetHistory(ctx context.Context, limit int) ([]models.ForecastResult, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "generated_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var forecasts []models.ForecastResult
	if err := cursor.All(ctx, &forecasts); err != nil {
		return nil, err
	}

	return forecasts, nil
}
