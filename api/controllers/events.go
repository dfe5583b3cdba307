package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/casa80eventos/casa80-backend/api/responses"
	"github.com/casa80eventos/casa80-backend/api/validators"
	eventsvc "github.com/casa80eventos/casa80-backend/internal/events"
	"github.com/casa80eventos/casa80-backend/pkg/enums"
	pkgerrors "github.com/casa80eventos/casa80-backend/pkg/errors"
	"github.com/casa80eventos/casa80-backend/pkg/logger"
)

// EventsList returns one page of reservations.
func EventsList(svc eventsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "events service unavailable"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// EventsGet returns one reservation with its items.
func EventsGet(svc eventsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "events service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		event, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, event)
	}
}

type eventItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

type createEventRequest struct {
	Name      string             `json:"name" validate:"required"`
	StartDate string             `json:"start_date" validate:"required"`
	EndDate   string             `json:"end_date" validate:"required"`
	ClientID  *uuid.UUID         `json:"client_id,omitempty"`
	Notes     *string            `json:"notes,omitempty"`
	Items     []eventItemRequest `json:"items" validate:"required,min=1,dive"`
}

// EventsCreate books a new reservation after checking availability.
func EventsCreate(svc eventsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "events service unavailable"))
			return
		}

		var payload createEventRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		start, err := parseDate(payload.StartDate, "start_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		end, err := parseDate(payload.EndDate, "end_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		event, err := svc.Create(r.Context(), eventsvc.CreateEventInput{
			Name:      payload.Name,
			StartDate: start,
			EndDate:   end,
			ClientID:  payload.ClientID,
			Notes:     payload.Notes,
			Items:     toItemInputs(payload.Items),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, event)
	}
}

type updateEventRequest struct {
	Name      *string             `json:"name,omitempty"`
	StartDate *string             `json:"start_date,omitempty"`
	EndDate   *string             `json:"end_date,omitempty"`
	ClientID  *uuid.UUID          `json:"client_id,omitempty"`
	Notes     *string             `json:"notes,omitempty"`
	Items     *[]eventItemRequest `json:"items,omitempty" validate:"omitempty,min=1,dive"`
}

// EventsUpdate applies a partial reservation update. Date and item changes
// re-check availability.
func EventsUpdate(svc eventsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "events service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateEventRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := eventsvc.UpdateEventInput{
			Name:     payload.Name,
			ClientID: payload.ClientID,
			Notes:    payload.Notes,
		}
		if payload.StartDate != nil {
			start, err := parseDate(*payload.StartDate, "start_date")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.StartDate = &start
		}
		if payload.EndDate != nil {
			end, err := parseDate(*payload.EndDate, "end_date")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.EndDate = &end
		}
		if payload.Items != nil {
			items := toItemInputs(*payload.Items)
			input.Items = &items
		}

		event, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, event)
	}
}

type updateEventStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// EventsUpdateStatus moves a reservation through its lifecycle.
func EventsUpdateStatus(svc eventsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "events service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateEventStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseEventStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Estado de evento inválido"))
			return
		}

		event, err := svc.UpdateStatus(r.Context(), id, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, event)
	}
}

type returnItemRequest struct {
	ProductID       uuid.UUID `json:"product_id" validate:"required"`
	ReturnedGood    int       `json:"returned_good" validate:"min=0"`
	ReturnedDamaged int       `json:"returned_damaged" validate:"min=0"`
}

type registerReturnRequest struct {
	Items []returnItemRequest `json:"items" validate:"required,min=1,dive"`
}

// EventsRegisterReturn records how items came back and closes the event.
func EventsRegisterReturn(svc eventsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "events service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload registerReturnRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]eventsvc.ReturnItemInput, len(payload.Items))
		for i, item := range payload.Items {
			items[i] = eventsvc.ReturnItemInput{
				ProductID:       item.ProductID,
				ReturnedGood:    item.ReturnedGood,
				ReturnedDamaged: item.ReturnedDamaged,
			}
		}

		result, err := svc.RegisterReturn(r.Context(), id, items)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// EventsRestoreDamage marks a damaged item as repaired.
func EventsRestoreDamage(svc eventsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "events service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := validators.ParseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.RestoreDamage(r.Context(), id, productID, actorUserID(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

func toItemInputs(items []eventItemRequest) []eventsvc.ItemInput {
	inputs := make([]eventsvc.ItemInput, len(items))
	for i, item := range items {
		inputs[i] = eventsvc.ItemInput{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	return inputs
}

// parseDate accepts a calendar date or a full RFC 3339 timestamp.
func parseDate(raw, field string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "La fecha no es válida").WithDetails(map[string]any{"field": field})
}
