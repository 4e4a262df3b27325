// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 mantix contributors
// https://github.com/ferrovia/mantix

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ferrovia/mantix/internal/models"
	"github.com/ferrovia/mantix/internal/pkg/logger"
	"github.com/ferrovia/mantix/internal/services/report"
)

// ReportHandler handles persisted report API requests.
type ReportHandler struct {
	BaseHandler
	reportService *report.Service
}

// NewReportHandler creates a new report handler.
func NewReportHandler(reportService *report.Service, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		BaseHandler:   NewBaseHandler(log),
		reportService: reportService,
	}
}

// Routes registers report API routes.
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/generate", h.Generate)
	r.Get("/by-year/{maintenanceID}/{year}", h.GetByYear)
	r.Get("/{id}", h.Get)
	r.Delete("/{id}", h.Delete)

	return r
}

// List returns reports matching the query filters.
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	params := h.GetPagination(r)
	filter := models.ReportFilter{
		MaintenanceID: h.QueryParamUUID(r, "maintenance_id"),
		Year:          h.QueryParamInt(r, "year", 0),
		Status:        models.ReportStatus(h.QueryParam(r, "status")),
		Limit:         params.PerPage,
		Offset:        params.Offset,
	}

	reports, total, err := h.reportService.List(r.Context(), filter)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	if reports == nil {
		reports = []*models.Report{}
	}
	h.OK(w, NewPaginatedResponse(reports, total, params))
}

// Generate builds and persists a year report for a maintenance item,
// replacing any previous report for the same item and year.
func (h *ReportHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var input models.GenerateReportInput
	if err := h.ParseJSON(r, &input); err != nil {
		h.HandleError(w, err)
		return
	}

	generated, err := h.reportService.Generate(r.Context(), &input)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.Created(w, generated)
}

// Get returns a single report with its grid payload.
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.URLParamUUID(r, "id")
	if err != nil {
		h.HandleError(w, err)
		return
	}

	rep, err := h.reportService.Get(r.Context(), id)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.OK(w, rep)
}

// GetByYear returns the report of a maintenance item for a given year.
func (h *ReportHandler) GetByYear(w http.ResponseWriter, r *http.Request) {
	maintenanceID, err := h.URLParamUUID(r, "maintenanceID")
	if err != nil {
		h.HandleError(w, err)
		return
	}

	year := h.URLParamInt(r, "year", 0)
	if year < 2000 || year > 2100 {
		h.BadRequest(w, "year must be between 2000 and 2100")
		return
	}

	rep, err := h.reportService.GetByYear(r.Context(), maintenanceID, year)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.OK(w, rep)
}

// Delete removes a report.
func (h *ReportHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.URLParamUUID(r, "id")
	if err != nil {
		h.HandleError(w, err)
		return
	}

	if err := h.reportService.Delete(r.Context(), id); err != nil {
		h.HandleError(w, err)
		return
	}

	h.NoContent(w)
}
