package controllers

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/casa80eventos/casa80-backend/api/responses"
	"github.com/casa80eventos/casa80-backend/api/validators"
	seedsvc "github.com/casa80eventos/casa80-backend/internal/seed"
	"github.com/casa80eventos/casa80-backend/internal/users"
	pkgerrors "github.com/casa80eventos/casa80-backend/pkg/errors"
	"github.com/casa80eventos/casa80-backend/pkg/logger"
	"github.com/casa80eventos/casa80-backend/pkg/security"
)

// DebugSeed loads sample inventory into an empty database. Registered only
// outside production.
func DebugSeed(svc seedsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "seed service unavailable"))
			return
		}

		result, err := svc.Run(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type loginCheckRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginCheckResponse struct {
	UserFound     bool `json:"user_found"`
	IsActive      bool `json:"is_active"`
	PasswordValid bool `json:"password_valid"`
}

// DebugLoginCheck reports whether a credential pair would authenticate,
// without creating a session. Registered only outside production.
func DebugLoginCheck(repo users.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users repository unavailable"))
			return
		}

		var payload loginCheckRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(payload.Email))
		user, err := repo.FindUserByEmail(r.Context(), email)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				responses.WriteSuccess(w, loginCheckResponse{})
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Error al verificar credenciales"))
			return
		}

		valid, err := security.VerifyPassword(payload.Password, user.PasswordHash)
		if err != nil {
			valid = false
		}
		responses.WriteSuccess(w, loginCheckResponse{
			UserFound:     true,
			IsActive:      user.IsActive,
			PasswordValid: valid,
		})
	}
}
