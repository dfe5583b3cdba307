package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is one rentable inventory line: the physical stock count plus the
// rental and replacement prices.
type Product struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name             string          `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Category         *string         `gorm:"column:category" json:"category,omitempty"`
	Description      *string         `gorm:"column:description" json:"description,omitempty"`
	TotalQuantity    int             `gorm:"column:total_quantity;not null;default:0" json:"total_quantity"`
	PriceUnit        decimal.Decimal `gorm:"column:price_unit;type:numeric(12,2);not null" json:"price_unit"`
	PriceReplacement decimal.Decimal `gorm:"column:price_replacement;type:numeric(12,2);not null" json:"price_replacement"`
	ImageURL         *string         `gorm:"column:image_url" json:"image_url,omitempty"`
	EventItems       []EventItem     `gorm:"foreignKey:ProductID" json:"-"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
