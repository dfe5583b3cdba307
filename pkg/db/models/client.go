package models

import (
	"time"

	"github.com/google/uuid"
)

// Client is a customer who books events.
type Client struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"column:name;not null" json:"name"`
	Document     *string   `gorm:"column:document" json:"document,omitempty"`
	Email        *string   `gorm:"column:email" json:"email,omitempty"`
	Phone        *string   `gorm:"column:phone" json:"phone,omitempty"`
	Department   *string   `gorm:"column:department" json:"department,omitempty"`
	City         *string   `gorm:"column:city" json:"city,omitempty"`
	Neighborhood *string   `gorm:"column:neighborhood" json:"neighborhood,omitempty"`
	Address      *string   `gorm:"column:address" json:"address,omitempty"`
	Notes        *string   `gorm:"column:notes" json:"notes,omitempty"`
	Events       []Event   `gorm:"foreignKey:ClientID" json:"events,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
