package controllers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/xuri/excelize/v2"

	"github.com/casa80eventos/casa80-backend/api/responses"
	exportsvc "github.com/casa80eventos/casa80-backend/internal/exports"
	pkgerrors "github.com/casa80eventos/casa80-backend/pkg/errors"
	"github.com/casa80eventos/casa80-backend/pkg/logger"
)

// ExportEvents streams the events workbook.
func ExportEvents(svc exportsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "exports service unavailable"))
			return
		}

		file, filename, err := svc.Events(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeWorkbook(r.Context(), logg, w, file, filename)
	}
}

// ExportInventory streams the inventory workbook.
func ExportInventory(svc exportsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "exports service unavailable"))
			return
		}

		file, filename, err := svc.Inventory(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeWorkbook(r.Context(), logg, w, file, filename)
	}
}

// ExportClients streams the clients workbook, masked by the caller's role.
func ExportClients(svc exportsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "exports service unavailable"))
			return
		}

		file, filename, err := svc.Clients(r.Context(), callerRole(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeWorkbook(r.Context(), logg, w, file, filename)
	}
}

// ExportDamages streams the damaged items workbook.
func ExportDamages(svc exportsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "exports service unavailable"))
			return
		}

		file, filename, err := svc.Damages(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeWorkbook(r.Context(), logg, w, file, filename)
	}
}

func writeWorkbook(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, file *excelize.File, filename string) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := file.WriteTo(w); err != nil && logg != nil {
		logg.Error(ctx, "exports.write_failed", err)
	}
}
