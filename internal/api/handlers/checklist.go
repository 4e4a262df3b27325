// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 mantix contributors
// https://github.com/ferrovia/mantix

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ferrovia/mantix/internal/models"
	"github.com/ferrovia/mantix/internal/pkg/logger"
	"github.com/ferrovia/mantix/internal/services/grid"
)

// ChecklistHandler serves the interactive year checklist projection.
type ChecklistHandler struct {
	BaseHandler
	gridService *grid.Service
}

// NewChecklistHandler creates a new checklist handler.
func NewChecklistHandler(gridService *grid.Service, log *logger.Logger) *ChecklistHandler {
	return &ChecklistHandler{
		BaseHandler: NewBaseHandler(log),
		gridService: gridService,
	}
}

// Routes registers checklist API routes.
func (h *ChecklistHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/{id}/{year}", h.Get)

	return r
}

// checklistResponse wraps the per-task grids of one maintenance item and
// year.
type checklistResponse struct {
	MaintenanceID uuid.UUID         `json:"maintenance_id"`
	Year          int               `json:"year"`
	Tasks         []models.TaskGrid `json:"tasks"`
}

// Get builds and returns the checklist grid for a maintenance item and
// year.
func (h *ChecklistHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.URLParamUUID(r, "id")
	if err != nil {
		h.HandleError(w, err)
		return
	}

	year := h.URLParamInt(r, "year", 0)
	if year < 2000 || year > 2100 {
		h.BadRequest(w, "year must be between 2000 and 2100")
		return
	}

	tasks, err := h.gridService.BuildChecklist(r.Context(), id, year)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	if tasks == nil {
		tasks = []models.TaskGrid{}
	}
	h.OK(w, checklistResponse{
		MaintenanceID: id,
		Year:          year,
		Tasks:         tasks,
	})
}
