// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 mantix contributors
// https://github.com/ferrovia/mantix

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ferrovia/mantix/internal/models"
	"github.com/ferrovia/mantix/internal/pkg/logger"
	"github.com/ferrovia/mantix/internal/services/inspection"
)

// InspectionHandler handles inspection record API requests.
type InspectionHandler struct {
	BaseHandler
	inspectionService *inspection.Service
}

// NewInspectionHandler creates a new inspection handler.
func NewInspectionHandler(inspectionService *inspection.Service, log *logger.Logger) *InspectionHandler {
	return &InspectionHandler{
		BaseHandler:       NewBaseHandler(log),
		inspectionService: inspectionService,
	}
}

// Routes registers inspection API routes.
func (h *InspectionHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}/status", h.SetStatus)
	r.Delete("/{id}", h.Delete)

	return r
}

// List returns inspection records matching the query filters. The from and
// to parameters bound the inspection date, inclusive on both ends.
func (h *InspectionHandler) List(w http.ResponseWriter, r *http.Request) {
	params := h.GetPagination(r)
	filter := models.InspectionFilter{
		MaintenanceID: h.QueryParamUUID(r, "maintenance_id"),
		AssetID:       h.QueryParamUUID(r, "asset_id"),
		From:          h.QueryParam(r, "from"),
		To:            h.QueryParam(r, "to"),
		Limit:         params.PerPage,
		Offset:        params.Offset,
	}

	records, total, err := h.inspectionService.List(r.Context(), filter)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	if records == nil {
		records = []*models.InspectionRecord{}
	}
	h.OK(w, NewPaginatedResponse(records, total, params))
}

// Create submits an inspection record.
func (h *InspectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input models.CreateInspectionInput
	if err := h.ParseJSON(r, &input); err != nil {
		h.HandleError(w, err)
		return
	}

	created, err := h.inspectionService.Create(r.Context(), &input)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.Created(w, created)
}

// Get returns a single inspection record.
func (h *InspectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.URLParamUUID(r, "id")
	if err != nil {
		h.HandleError(w, err)
		return
	}

	record, err := h.inspectionService.Get(r.Context(), id)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.OK(w, record)
}

// setStatusRequest represents the request body for changing an inspection's
// completion status.
type setStatusRequest struct {
	Status    string `json:"status" validate:"required,oneof=open complete"`
	Condition string `json:"condition,omitempty" validate:"omitempty,oneof=normal fault abnormal"`
	Notes     string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// SetStatus updates the completion status of an inspection record.
func (h *InspectionHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := h.URLParamUUID(r, "id")
	if err != nil {
		h.HandleError(w, err)
		return
	}

	var req setStatusRequest
	if err := h.ParseJSON(r, &req); err != nil {
		h.HandleError(w, err)
		return
	}

	updated, err := h.inspectionService.SetStatus(r.Context(), id, req.Status, req.Condition, req.Notes)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.OK(w, updated)
}

// Delete removes an inspection record.
func (h *InspectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.URLParamUUID(r, "id")
	if err != nil {
		h.HandleError(w, err)
		return
	}

	if err := h.inspectionService.Delete(r.Context(), id); err != nil {
		h.HandleError(w, err)
		return
	}

	h.NoContent(w)
}
