package models

import (
	"time"

	"github.com/casa80eventos/casa80-backend/pkg/enums"
	"github.com/google/uuid"
)

// Event is a single rental reservation spanning a date range. Its items hold
// product quantities against stock while the status keeps inventory.
type Event struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name      string            `gorm:"column:name;not null" json:"name"`
	StartDate time.Time         `gorm:"column:start_date;not null" json:"start_date"`
	EndDate   time.Time         `gorm:"column:end_date;not null" json:"end_date"`
	Status    enums.EventStatus `gorm:"column:status;not null;default:SIN_CONFIRMAR" json:"status"`
	ClientID  *uuid.UUID        `gorm:"column:client_id;type:uuid" json:"client_id,omitempty"`
	Client    *Client           `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Notes     *string           `gorm:"column:notes" json:"notes,omitempty"`
	Items     []EventItem       `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
