package repository

import (
	"context"
	"time"

	"github.com/meuagito/insights/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OrderRepository acesso somente-leitura à coleção de pedidos, que pertence
// ao subsistema de pedidos. Nenhum método escreve nela.
type OrderRepository struct {
	collection *mongo.Collection
}

// NewOrderRepository cria o repositório de pedidos
func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{
		collection: db.Collection("orders"),
	}
}

// GetByTimeRange retorna os pedidos criados no intervalo, em ordem cronológica
func (r *OrderRepository) GetByTimeRange(ctx context.Context, start, end time.Time) ([]models.Order, error) {
	filter := bson.M{
		"created_at": bson.M{
			"$gte": start,
			"$lt":  end,
		},
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// CountByStatus conta os pedidos do intervalo com o status informado
func (r *OrderRepository) CountByStatus(ctx context.Context, status string, start, end time.Time) (int64, error) {
	filter := bson.M{
		"status": status,
		"created_at": bson.M{
			"$gte": start,
			"$lt":  end,
		},
	}

	return r.collection.CountDocuments(ctx, filter)
}
