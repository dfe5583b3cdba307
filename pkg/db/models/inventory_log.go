package models

import (
	"time"

	"github.com/casa80eventos/casa80-backend/pkg/enums"
	"github.com/google/uuid"
)

// InventoryLog is the append-only audit trail of stock count changes per
// product. Rows are never updated or deleted.
type InventoryLog struct {
	ID               uuid.UUID             `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ProductID        uuid.UUID             `gorm:"column:product_id;type:uuid;not null;index" json:"product_id"`
	Change           int                   `gorm:"column:change;not null" json:"change"`
	PreviousQuantity int                   `gorm:"column:previous_quantity;not null" json:"previous_quantity"`
	NewQuantity      int                   `gorm:"column:new_quantity;not null" json:"new_quantity"`
	Reason           enums.InventoryReason `gorm:"column:reason;not null" json:"reason"`
	UserID           *uuid.UUID            `gorm:"column:user_id;type:uuid" json:"user_id,omitempty"`
	CreatedAt        time.Time             `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
