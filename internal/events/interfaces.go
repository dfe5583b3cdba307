package events

import (
	"context"
	"time"

	"github.com/casa80eventos/casa80-backend/pkg/db/models"
	"github.com/casa80eventos/casa80-backend/pkg/enums"
	"github.com/casa80eventos/casa80-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for events and their items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListEvents(ctx context.Context, params pagination.Params) ([]models.Event, int64, error)
	FindEvent(ctx context.Context, id uuid.UUID) (*models.Event, error)
	FindOverlappingHolding(ctx context.Context, start, end time.Time, excludeID *uuid.UUID) ([]models.Event, error)
	FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	CreateEvent(ctx context.Context, event *models.Event) error
	UpdateEvent(ctx context.Context, id uuid.UUID, updates map[string]any) error
	UpdateEventStatus(ctx context.Context, id uuid.UUID, status enums.EventStatus) error
	ReplaceItems(ctx context.Context, eventID uuid.UUID, items []models.EventItem) error
	FindItem(ctx context.Context, eventID, productID uuid.UUID) (*models.EventItem, error)
	UpdateItem(ctx context.Context, itemID uuid.UUID, updates map[string]any) error
	AppendInventoryLog(ctx context.Context, log *models.InventoryLog) error
}
