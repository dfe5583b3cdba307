package clients

import (
	"time"

	"github.com/casa80eventos/casa80-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateClientInput carries a new client record.
type CreateClientInput struct {
	Name         string
	Document     *string
	Email        *string
	Phone        *string
	Department   *string
	City         *string
	Neighborhood *string
	Address      *string
	Notes        *string
}

// UpdateClientInput carries the optional fields of a client update.
type UpdateClientInput struct {
	Name         *string
	Document     *string
	Email        *string
	Phone        *string
	Department   *string
	City         *string
	Neighborhood *string
	Address      *string
	Notes        *string
}

// ClientStats aggregates a client's booking history.
type ClientStats struct {
	TotalEvents     int             `json:"total_events"`
	ActiveEvents    int             `json:"active_events"`
	CompletedEvents int             `json:"completed_events"`
	TotalSpent      decimal.Decimal `json:"total_spent"`
}

// ClientView is a client as presented to the caller. Contact fields arrive
// already masked according to the caller's role.
type ClientView struct {
	ID           uuid.UUID   `json:"id"`
	Name         string      `json:"name"`
	Document     string      `json:"document,omitempty"`
	Email        string      `json:"email,omitempty"`
	Phone        string      `json:"phone,omitempty"`
	Department   *string     `json:"department,omitempty"`
	City         *string     `json:"city,omitempty"`
	Neighborhood *string     `json:"neighborhood,omitempty"`
	Address      string      `json:"address,omitempty"`
	Notes        *string     `json:"notes,omitempty"`
	Stats        ClientStats `json:"stats"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// ClientList is one page of clients.
type ClientList struct {
	Clients []ClientView    `json:"clients"`
	Meta    pagination.Meta `json:"meta"`
}
