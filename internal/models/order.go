package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status do pedido, controlado pelo subsistema de pedidos. Este serviço
// apenas lê snapshots da coleção.
const (
	OrderStatusPending    = "pending"
	OrderStatusAccepted   = "accepted"
	OrderStatusPreparing  = "preparing"
	OrderStatusReady      = "ready"
	OrderStatusDelivering = "delivering"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// Order pedido do parceiro, consumido somente-leitura
type Order struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	Total     float64            `bson:"total" json:"total"` // R$, não negativo
	Status    string             `bson:"status" json:"status"`
}
