package clients

import (
	"context"

	"github.com/casa80eventos/casa80-backend/pkg/db/models"
	"github.com/casa80eventos/casa80-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for clients.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListClients(ctx context.Context, params pagination.Params) ([]models.Client, int64, error)
	FindClient(ctx context.Context, id uuid.UUID) (*models.Client, error)
	CreateClient(ctx context.Context, client *models.Client) error
	UpdateClient(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DetachEvents(ctx context.Context, clientID uuid.UUID) error
	DeleteClient(ctx context.Context, id uuid.UUID) error
}
