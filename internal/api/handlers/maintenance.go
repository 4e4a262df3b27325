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
	"github.com/ferrovia/mantix/internal/services/maintenance"
)

// MaintenanceHandler handles maintenance item, task, and asset link API
// requests.
type MaintenanceHandler struct {
	BaseHandler
	maintenanceService *maintenance.Service
}

// NewMaintenanceHandler creates a new maintenance handler.
func NewMaintenanceHandler(maintenanceService *maintenance.Service, log *logger.Logger) *MaintenanceHandler {
	return &MaintenanceHandler{
		BaseHandler:        NewBaseHandler(log),
		maintenanceService: maintenanceService,
	}
}

// Routes registers maintenance API routes.
func (h *MaintenanceHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListItems)
	r.Post("/", h.CreateItem)

	// Tasks are addressed by their own ID once created.
	r.Route("/tasks/{taskID}", func(r chi.Router) {
		r.Get("/", h.GetTask)
		r.Put("/", h.UpdateTask)
		r.Delete("/", h.DeleteTask)
	})

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.GetItem)
		r.Put("/", h.UpdateItem)
		r.Delete("/", h.DeleteItem)
		r.Put("/staff", h.SetStaff)

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", h.ListTasks)
			r.Post("/", h.CreateTask)
		})

		r.Route("/assets", func(r chi.Router) {
			r.Get("/", h.ListLinks)
			r.Post("/", h.LinkAsset)
			r.Delete("/{linkID}", h.UnlinkAsset)
		})
	})

	return r
}

// ============================================================================
// Item Handlers
// ============================================================================

// ListItems returns maintenance items matching the query filters.
func (h *MaintenanceHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	params := h.GetPagination(r)
	filter := models.MaintenanceFilter{
		Branch:   h.QueryParam(r, "branch"),
		Location: h.QueryParam(r, "location"),
		Search:   h.QueryParam(r, "search"),
		Limit:    params.PerPage,
		Offset:   params.Offset,
	}

	items, total, err := h.maintenanceService.ListItems(r.Context(), filter)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	if items == nil {
		items = []*models.MaintenanceItem{}
	}
	h.OK(w, NewPaginatedResponse(items, total, params))
}

// CreateItem creates a maintenance item.
func (h *MaintenanceHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var input models.CreateMaintenanceItemInput
	if err := h.ParseJSON(r, &input); err != nil {
		h.HandleError(w, err)
		return
	}

	created, err := h.maintenanceService.CreateItem(r.Context(), &input)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.Created(w, created)
}

// GetItem returns a single maintenance item with its assigned staff.
func (h *MaintenanceHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, err := h.URLParamUUID(r, "id")
	if err != nil {
		h.HandleError(w, err)
		return
	}

	item, err := h.maintenanceService.GetItem(r.Context(), id)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.OK(w, item)
}

// UpdateItem modifies a maintenance item.
func (h *MaintenanceHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := h.URLParamUUID(r, "id")
	if err != nil {
		h.HandleError(w, err)
		return
	}

	var input models.UpdateMaintenanceItemInput
	if err := h.ParseJSON(r, &input); err != nil {
		h.HandleError(w, err)
		return
	}

	updated, err := h.maintenanceService.UpdateItem(r.Context(), id, &input)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.OK(w, updated)
}

// DeleteItem removes a maintenance item and its tasks.
func (h *MaintenanceHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := h.URLParamUUID(r, "id")
	if err != nil {
		h.HandleError(w, err)
		return
	}

	if err := h.maintenanceService.DeleteItem(r.Context(), id); err != nil {
		h.HandleError(w, err)
		return
	}

	h.NoContent(w)
}

// setStaffRequest represents the request body for replacing staff
// assignments.
type setStaffRequest struct {
	StaffIDs []uuid.UUID `json:"staff_ids"`
}

// SetStaff replaces the staff assigned to a maintenance item.
func (h *MaintenanceHandler) SetStaff(w http.ResponseWriter, r *http.Request) {
	id, err := h.URLParamUUID(r, "id")
	if err != nil {
		h.HandleError(w, err)
		return
	}

	var req setStaffRequest
	if err := h.ParseJSON(r, &req); err != nil {
		h.HandleError(w, err)
		return
	}

	if err := h.maintenanceService.SetStaff(r.Context(), id, req.StaffIDs); err != nil {
		h.HandleError(w, err)
		return
	}

	h.NoContent(w)
}

// ============================================================================
// Task Handlers
// ============================================================================

// ListTasks returns the inspection tasks of a maintenance item.
func (h *MaintenanceHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	id, err := h.URLParamUUID(r, "id")
	if err != nil {
		h.HandleError(w, err)
		return
	}

	tasks, err := h.maintenanceService.ListTasks(r.Context(), id)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	if tasks == nil {
		tasks = []*models.InspectionTask{}
	}
	h.OK(w, tasks)
}

// CreateTask adds an inspection task to a maintenance item.
func (h *MaintenanceHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	id, err := h.URLParamUUID(r, "id")
	if err != nil {
		h.HandleError(w, err)
		return
	}

	var input models.CreateTaskInput
	if err := h.ParseJSON(r, &input); err != nil {
		h.HandleError(w, err)
		return
	}

	created, err := h.maintenanceService.CreateTask(r.Context(), id, &input)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.Created(w, created)
}

// GetTask returns a single inspection task.
func (h *MaintenanceHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := h.URLParamUUID(r, "taskID")
	if err != nil {
		h.HandleError(w, err)
		return
	}

	task, err := h.maintenanceService.GetTask(r.Context(), taskID)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.OK(w, task)
}

// UpdateTask modifies an inspection task, including its schedule.
func (h *MaintenanceHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := h.URLParamUUID(r, "taskID")
	if err != nil {
		h.HandleError(w, err)
		return
	}

	var input models.UpdateTaskInput
	if err := h.ParseJSON(r, &input); err != nil {
		h.HandleError(w, err)
		return
	}

	updated, err := h.maintenanceService.UpdateTask(r.Context(), taskID, &input)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.OK(w, updated)
}

// DeleteTask removes an inspection task.
func (h *MaintenanceHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := h.URLParamUUID(r, "taskID")
	if err != nil {
		h.HandleError(w, err)
		return
	}

	if err := h.maintenanceService.DeleteTask(r.Context(), taskID); err != nil {
		h.HandleError(w, err)
		return
	}

	h.NoContent(w)
}

// ============================================================================
// Asset Link Handlers
// ============================================================================

// linkAssetRequest represents the request body for linking an asset to a
// maintenance item or one of its tasks.
type linkAssetRequest struct {
	AssetID uuid.UUID  `json:"asset_id" validate:"required"`
	TaskID  *uuid.UUID `json:"task_id,omitempty"`
}

// ListLinks returns the asset links of a maintenance item.
func (h *MaintenanceHandler) ListLinks(w http.ResponseWriter, r *http.Request) {
	id, err := h.URLParamUUID(r, "id")
	if err != nil {
		h.HandleError(w, err)
		return
	}

	links, err := h.maintenanceService.ListLinks(r.Context(), id)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	if links == nil {
		links = []*models.AssetLink{}
	}
	h.OK(w, links)
}

// LinkAsset associates an asset with a maintenance item.
func (h *MaintenanceHandler) LinkAsset(w http.ResponseWriter, r *http.Request) {
	id, err := h.URLParamUUID(r, "id")
	if err != nil {
		h.HandleError(w, err)
		return
	}

	var req linkAssetRequest
	if err := h.ParseJSON(r, &req); err != nil {
		h.HandleError(w, err)
		return
	}

	link, err := h.maintenanceService.LinkAsset(r.Context(), id, req.AssetID, req.TaskID)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.Created(w, link)
}

// UnlinkAsset removes an asset link.
func (h *MaintenanceHandler) UnlinkAsset(w http.ResponseWriter, r *http.Request) {
	id, err := h.URLParamUUID(r, "id")
	if err != nil {
		h.HandleError(w, err)
		return
	}

	linkID, err := h.URLParamUUID(r, "linkID")
	if err != nil {
		h.HandleError(w, err)
		return
	}

	if err := h.maintenanceService.UnlinkAsset(r.Context(), id, linkID); err != nil {
		h.HandleError(w, err)
		return
	}

	h.NoContent(w)
}
