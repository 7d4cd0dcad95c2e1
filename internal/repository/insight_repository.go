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

// InsightRepository repositório das sugestões operacionais
type InsightRepository struct {
	collection *mongo.Collection
}

// NewInsightRepository cria o repositório de insights
func NewInsightRepository(db *mongo.Database) *InsightRepository {
	return &InsightRepository{
		collection: db.Collection("insights"),
	}
}

// Save persiste um insight
func (r *InsightRepository) Save(ctx context.Context, insight *models.Insight) error {
	insight.ID = primitive.NewObjectID()
	_, err := r.collection.InsertOne(ctx, insight)
	return err
}

// GetLatest retorna o insight válido mais recente
func (r *InsightRepository) GetLatest(ctx context.Context) (*models.Insight, error) {
	filter := bson.M{
		"valid_until": bson.M{"$gte": time.Now()},
	}

	opts := options.FindOne().SetSort(bson.D{{Key: "generated_at", Value: -1}})

	var insight models.Insight
	err := r.collection.FindOne(ctx, filter, opts).Decode(&insight)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrNoInsight
		}
		return nil, err
	}

	return &insight, nil
}
