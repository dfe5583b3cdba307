package inventory

import (
	"time"

	"github.com/casa80eventos/casa80-backend/pkg/db/models"
	"github.com/casa80eventos/casa80-backend/pkg/enums"
	"github.com/casa80eventos/casa80-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductInput carries the fields accepted when registering a product.
type CreateProductInput struct {
	Name             string
	Category         *string
	Description      *string
	ImageURL         *string
	TotalQuantity    int
	PriceUnit        decimal.Decimal
	PriceReplacement decimal.Decimal
	ActorUserID      *uuid.UUID
}

// UpdateProductInput carries the optional fields of a product update.
type UpdateProductInput struct {
	Name             *string
	Category         *string
	Description      *string
	ImageURL         *string
	TotalQuantity    *int
	PriceUnit        *decimal.Decimal
	PriceReplacement *decimal.Decimal
	ActorUserID      *uuid.UUID
}

// ProductView is a product plus its usage figures for list/detail payloads.
type ProductView struct {
	models.Product
	InUse     int `json:"in_use"`
	Available int `json:"available"`
}

// ProductList is one page of products.
type ProductList struct {
	Products []ProductView   `json:"products"`
	Meta     pagination.Meta `json:"meta"`
}

// DamagedItemView is one row of the damages listing.
type DamagedItemView struct {
	EventID          uuid.UUID       `json:"event_id"`
	EventName        string          `json:"event_name"`
	EventDate        time.Time       `json:"event_date"`
	ClientName       *string         `json:"client_name,omitempty"`
	ProductID        uuid.UUID       `json:"product_id"`
	ProductName      string          `json:"product_name"`
	ReturnedDamaged  int             `json:"returned_damaged"`
	ReplacementCost  decimal.Decimal `json:"replacement_cost"`
	DamageRestored   bool            `json:"damage_restored"`
	RestoredAt       *time.Time      `json:"restored_at,omitempty"`
	PriceReplacement decimal.Decimal `json:"price_replacement"`
}

// ImportSummary reports what an inventory import applied.
type ImportSummary struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// logEntry is the internal shape used when appending audit rows.
type logEntry struct {
	productID uuid.UUID
	previous  int
	next      int
	reason    enums.InventoryReason
	userID    *uuid.UUID
}
