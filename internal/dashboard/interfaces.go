package dashboard

import (
	"context"
	"time"

	"github.com/casa80eventos/casa80-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines the read queries behind the dashboard.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListEventsBetween(ctx context.Context, start, end *time.Time) ([]models.Event, error)
	ListUpcomingEvents(ctx context.Context, after time.Time, limit int) ([]models.Event, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	CountActiveReservations(ctx context.Context) (int64, error)
	CountPendingReturns(ctx context.Context) (int64, error)
}
