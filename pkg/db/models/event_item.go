package models

import (
	"time"

	"github.com/google/uuid"
)

// EventItem allocates a quantity of one product to one event, plus the
// post-return accounting (good/damaged counts and damage restoration).
type EventItem struct {
	ID              uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	EventID         uuid.UUID  `gorm:"column:event_id;type:uuid;not null;uniqueIndex:idx_event_product" json:"event_id"`
	Event           *Event     `gorm:"foreignKey:EventID" json:"event,omitempty"`
	ProductID       uuid.UUID  `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_event_product" json:"product_id"`
	Product         *Product   `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity        int        `gorm:"column:quantity;not null" json:"quantity"`
	ReturnedGood    int        `gorm:"column:returned_good;not null;default:0" json:"returned_good"`
	ReturnedDamaged int        `gorm:"column:returned_damaged;not null;default:0" json:"returned_damaged"`
	DamageRestored  bool       `gorm:"column:damage_restored;not null;default:false" json:"damage_restored"`
	RestoredAt      *time.Time `gorm:"column:restored_at" json:"restored_at,omitempty"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
