package enums

import "fmt"

// EventStatus is the lifecycle state of a rental event.
type EventStatus string

const (
	EventStatusSinConfirmar EventStatus = "SIN_CONFIRMAR"
	EventStatusReservado    EventStatus = "RESERVADO"
	EventStatusDespachado   EventStatus = "DESPACHADO"
	EventStatusCompletado   EventStatus = "COMPLETADO"
	EventStatusCancelado    EventStatus = "CANCELADO"
)

var validEventStatuses = []EventStatus{
	EventStatusSinConfirmar,
	EventStatusReservado,
	EventStatusDespachado,
	EventStatusCompletado,
	EventStatusCancelado,
}

// allowedTransitions enumerates the legal successor set per state.
// COMPLETADO and CANCELADO are terminal.
var allowedTransitions = map[EventStatus][]EventStatus{
	EventStatusSinConfirmar: {EventStatusReservado, EventStatusCancelado},
	EventStatusReservado:    {EventStatusDespachado, EventStatusCancelado},
	EventStatusDespachado:   {EventStatusCompletado},
	EventStatusCompletado:   {},
	EventStatusCancelado:    {},
}

var eventStatusLabels = map[EventStatus]string{
	EventStatusSinConfirmar: "Sin Confirmar",
	EventStatusReservado:    "Reservado",
	EventStatusDespachado:   "Despachado",
	EventStatusCompletado:   "Completado",
	EventStatusCancelado:    "Cancelado",
}

var eventStatusDescriptions = map[EventStatus]string{
	EventStatusSinConfirmar: "Evento creado, pendiente de confirmación",
	EventStatusReservado:    "Evento confirmado y reservado",
	EventStatusDespachado:   "Productos entregados, evento en curso",
	EventStatusCompletado:   "Evento finalizado, productos devueltos",
	EventStatusCancelado:    "Evento cancelado",
}

// String implements fmt.Stringer.
func (s EventStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known EventStatus.
func (s EventStatus) IsValid() bool {
	for _, candidate := range validEventStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// Label returns the Spanish display label for the status.
func (s EventStatus) Label() string {
	return eventStatusLabels[s]
}

// Description returns the Spanish long description for the status.
func (s EventStatus) Description() string {
	return eventStatusDescriptions[s]
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s EventStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0 && s.IsValid()
}

// HoldsInventory reports whether events in this status count against
// available stock for overlap checks.
func (s EventStatus) HoldsInventory() bool {
	switch s {
	case EventStatusSinConfirmar, EventStatusReservado, EventStatusDespachado:
		return true
	}
	return false
}

// ItemsEditable reports whether the event's item list may still be changed.
func (s EventStatus) ItemsEditable() bool {
	return s == EventStatusSinConfirmar || s == EventStatusReservado
}

// CanTransition reports whether the transition from -> to is allowed.
func CanTransition(from, to EventStatus) bool {
	for _, candidate := range allowedTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the legal successors of the current status. Terminal
// states return an empty slice.
func NextStatuses(current EventStatus) []EventStatus {
	next := allowedTransitions[current]
	out := make([]EventStatus, len(next))
	copy(out, next)
	return out
}

// HoldingStatuses returns the statuses that reserve inventory.
func HoldingStatuses() []EventStatus {
	return []EventStatus{EventStatusSinConfirmar, EventStatusReservado, EventStatusDespachado}
}

// ParseEventStatus converts raw input into an EventStatus.
func ParseEventStatus(value string) (EventStatus, error) {
	for _, candidate := range validEventStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("estado de evento inválido %q", value)
}
