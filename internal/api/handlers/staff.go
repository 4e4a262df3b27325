// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 mantix contributors
// https://github.com/ferrovia/mantix

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ferrovia/mantix/internal/models"
	"github.com/ferrovia/mantix/internal/pkg/logger"
	"github.com/ferrovia/mantix/internal/services/staff"
)

// StaffHandler handles staff roster API requests.
type StaffHandler struct {
	BaseHandler
	staffService *staff.Service
}

// NewStaffHandler creates a new staff handler.
func NewStaffHandler(staffService *staff.Service, log *logger.Logger) *StaffHandler {
	return &StaffHandler{
		BaseHandler:  NewBaseHandler(log),
		staffService: staffService,
	}
}

// Routes registers staff API routes.
func (h *StaffHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	return r
}

// List returns staff members matching the query filters.
func (h *StaffHandler) List(w http.ResponseWriter, r *http.Request) {
	params := h.GetPagination(r)
	filter := models.StaffFilter{
		Role:   models.StaffRole(h.QueryParam(r, "role")),
		Active: h.QueryParamBool(r, "active"),
		Search: h.QueryParam(r, "search"),
		Limit:  params.PerPage,
		Offset: params.Offset,
	}

	members, total, err := h.staffService.List(r.Context(), filter)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	if members == nil {
		members = []*models.Staff{}
	}
	h.OK(w, NewPaginatedResponse(members, total, params))
}

// Create adds a staff member.
func (h *StaffHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input models.CreateStaffInput
	if err := h.ParseJSON(r, &input); err != nil {
		h.HandleError(w, err)
		return
	}

	created, err := h.staffService.Create(r.Context(), &input)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.Created(w, created)
}

// Get returns a single staff member.
func (h *StaffHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.URLParamUUID(r, "id")
	if err != nil {
		h.HandleError(w, err)
		return
	}

	member, err := h.staffService.Get(r.Context(), id)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.OK(w, member)
}

// Update modifies a staff member.
func (h *StaffHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := h.URLParamUUID(r, "id")
	if err != nil {
		h.HandleError(w, err)
		return
	}

	var input models.UpdateStaffInput
	if err := h.ParseJSON(r, &input); err != nil {
		h.HandleError(w, err)
		return
	}

	updated, err := h.staffService.Update(r.Context(), id, &input)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.OK(w, updated)
}

// Delete removes a staff member.
func (h *StaffHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.URLParamUUID(r, "id")
	if err != nil {
		h.HandleError(w, err)
		return
	}

	if err := h.staffService.Delete(r.Context(), id); err != nil {
		h.HandleError(w, err)
		return
	}

	h.NoContent(w)
}
