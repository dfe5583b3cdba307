package controllers

import (
	"net/http"

	"github.com/casa80eventos/casa80-backend/api/middleware"
	"github.com/casa80eventos/casa80-backend/api/responses"
	"github.com/casa80eventos/casa80-backend/api/validators"
	clientsvc "github.com/casa80eventos/casa80-backend/internal/clients"
	"github.com/casa80eventos/casa80-backend/pkg/enums"
	pkgerrors "github.com/casa80eventos/casa80-backend/pkg/errors"
	"github.com/casa80eventos/casa80-backend/pkg/logger"
)

// callerRole resolves the authenticated caller's role, defaulting to the
// read-only role so unknown callers never see unmasked data.
func callerRole(r *http.Request) enums.UserRole {
	role, err := enums.ParseUserRole(middleware.RoleFromContext(r.Context()))
	if err != nil {
		return enums.UserRoleViewer
	}
	return role
}

// ClientsList returns one page of clients, masked by role.
func ClientsList(svc clientsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "clients service unavailable"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), params, callerRole(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ClientsGet returns one client with booking stats, masked by role.
func ClientsGet(svc clientsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "clients service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		client, err := svc.Get(r.Context(), id, callerRole(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, client)
	}
}

type createClientRequest struct {
	Name         string  `json:"name" validate:"required"`
	Document     *string `json:"document,omitempty"`
	Email        *string `json:"email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Department   *string `json:"department,omitempty"`
	City         *string `json:"city,omitempty"`
	Neighborhood *string `json:"neighborhood,omitempty"`
	Address      *string `json:"address,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

// ClientsCreate registers a new client.
func ClientsCreate(svc clientsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "clients service unavailable"))
			return
		}

		var payload createClientRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		client, err := svc.Create(r.Context(), clientsvc.CreateClientInput{
			Name:         payload.Name,
			Document:     payload.Document,
			Email:        payload.Email,
			Phone:        payload.Phone,
			Department:   payload.Department,
			City:         payload.City,
			Neighborhood: payload.Neighborhood,
			Address:      payload.Address,
			Notes:        payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, client)
	}
}

type updateClientRequest struct {
	Name         *string `json:"name,omitempty"`
	Document     *string `json:"document,omitempty"`
	Email        *string `json:"email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Department   *string `json:"department,omitempty"`
	City         *string `json:"city,omitempty"`
	Neighborhood *string `json:"neighborhood,omitempty"`
	Address      *string `json:"address,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

// ClientsUpdate applies a partial client update.
func ClientsUpdate(svc clientsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "clients service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateClientRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		client, err := svc.Update(r.Context(), id, clientsvc.UpdateClientInput{
			Name:         payload.Name,
			Document:     payload.Document,
			Email:        payload.Email,
			Phone:        payload.Phone,
			Department:   payload.Department,
			City:         payload.City,
			Neighborhood: payload.Neighborhood,
			Address:      payload.Address,
			Notes:        payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, client)
	}
}

// ClientsDelete removes a client, keeping their events as unassigned history.
func ClientsDelete(svc clientsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "clients service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
