// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 mantix contributors
// https://github.com/ferrovia/mantix

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ferrovia/mantix/internal/models"
	"github.com/ferrovia/mantix/internal/pkg/logger"
	"github.com/ferrovia/mantix/internal/services/asset"
)

// AssetHandler handles asset inventory API requests.
type AssetHandler struct {
	BaseHandler
	assetService *asset.Service
}

// NewAssetHandler creates a new asset handler.
func NewAssetHandler(assetService *asset.Service, log *logger.Logger) *AssetHandler {
	return &AssetHandler{
		BaseHandler:  NewBaseHandler(log),
		assetService: assetService,
	}
}

// Routes registers asset API routes.
func (h *AssetHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/categories", h.Categories)
	r.Get("/by-tag/{tag}", h.GetByTag)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	return r
}

// List returns assets matching the query filters.
func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	params := h.GetPagination(r)
	filter := models.AssetFilter{
		Category: h.QueryParam(r, "category"),
		Status:   models.AssetStatus(h.QueryParam(r, "status")),
		Location: h.QueryParam(r, "location"),
		Search:   h.QueryParam(r, "search"),
		Limit:    params.PerPage,
		Offset:   params.Offset,
	}

	assets, total, err := h.assetService.List(r.Context(), filter)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	if assets == nil {
		assets = []*models.Asset{}
	}
	h.OK(w, NewPaginatedResponse(assets, total, params))
}

// Create registers a new asset.
func (h *AssetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input models.CreateAssetInput
	if err := h.ParseJSON(r, &input); err != nil {
		h.HandleError(w, err)
		return
	}

	created, err := h.assetService.Create(r.Context(), &input)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.Created(w, created)
}

// Get returns a single asset by ID.
func (h *AssetHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.URLParamUUID(r, "id")
	if err != nil {
		h.HandleError(w, err)
		return
	}

	a, err := h.assetService.Get(r.Context(), id)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.OK(w, a)
}

// GetByTag returns a single asset by its inventory tag.
func (h *AssetHandler) GetByTag(w http.ResponseWriter, r *http.Request) {
	tag := h.URLParam(r, "tag")
	if tag == "" {
		h.BadRequest(w, "asset tag is required")
		return
	}

	a, err := h.assetService.GetByTag(r.Context(), tag)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.OK(w, a)
}

// Update modifies an existing asset.
func (h *AssetHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := h.URLParamUUID(r, "id")
	if err != nil {
		h.HandleError(w, err)
		return
	}

	var input models.UpdateAssetInput
	if err := h.ParseJSON(r, &input); err != nil {
		h.HandleError(w, err)
		return
	}

	updated, err := h.assetService.Update(r.Context(), id, &input)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.OK(w, updated)
}

// Delete removes an asset.
func (h *AssetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.URLParamUUID(r, "id")
	if err != nil {
		h.HandleError(w, err)
		return
	}

	if err := h.assetService.Delete(r.Context(), id); err != nil {
		h.HandleError(w, err)
		return
	}

	h.NoContent(w)
}

// Categories returns the distinct asset categories in use.
func (h *AssetHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.assetService.Categories(r.Context())
	if err != nil {
		h.HandleError(w, err)
		return
	}

	if categories == nil {
		categories = []string{}
	}
	h.OK(w, categories)
}
