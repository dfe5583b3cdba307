package events

import (
	"time"

	"github.com/casa80eventos/casa80-backend/pkg/db/models"
	"github.com/casa80eventos/casa80-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemInput is one requested product/quantity pair.
type ItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// CreateEventInput carries a new reservation request.
type CreateEventInput struct {
	Name      string
	StartDate time.Time
	EndDate   time.Time
	ClientID  *uuid.UUID
	Notes     *string
	Items     []ItemInput
}

// UpdateEventInput carries the optional fields of an event update. Items nil
// means the item set is untouched.
type UpdateEventInput struct {
	Name      *string
	StartDate *time.Time
	EndDate   *time.Time
	ClientID  *uuid.UUID
	Notes     *string
	Items     *[]ItemInput
}

// ReturnItemInput records how one product came back from an event.
type ReturnItemInput struct {
	ProductID       uuid.UUID
	ReturnedGood    int
	ReturnedDamaged int
}

// ReturnResult summarizes a processed return.
type ReturnResult struct {
	Event           *models.Event   `json:"event"`
	TotalDamageCost decimal.Decimal `json:"total_damage_cost"`
}

// EventView is one row of the events listing.
type EventView struct {
	models.Event
	ItemCount int `json:"item_count"`
}

// EventList is one page of events.
type EventList struct {
	Events []EventView     `json:"events"`
	Meta   pagination.Meta `json:"meta"`
}
