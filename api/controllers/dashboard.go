package controllers

import (
	"net/http"

	"github.com/casa80eventos/casa80-backend/api/responses"
	"github.com/casa80eventos/casa80-backend/api/validators"
	dashboardsvc "github.com/casa80eventos/casa80-backend/internal/dashboard"
	pkgerrors "github.com/casa80eventos/casa80-backend/pkg/errors"
	"github.com/casa80eventos/casa80-backend/pkg/logger"
)

// DashboardStats returns the aggregated dashboard figures, optionally
// restricted to a year or a year/month window.
func DashboardStats(svc dashboardsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}

		year, err := validators.ParseOptionalQueryInt(r, "year", 2000, 2200)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		month, err := validators.ParseOptionalQueryInt(r, "month", 1, 12)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stats, err := svc.Stats(r.Context(), dashboardsvc.StatsFilter{Year: year, Month: month})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
