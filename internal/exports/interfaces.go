package exports

import (
	"context"

	"github.com/casa80eventos/casa80-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the full-table reads behind the Excel exports.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListEvents(ctx context.Context) ([]models.Event, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	HoldingQuantities(ctx context.Context) (map[uuid.UUID]int, error)
	ListClients(ctx context.Context) ([]models.Client, error)
	ListDamagedItems(ctx context.Context) ([]models.EventItem, error)
}
