package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/package-manager/backend/internal/models"
	"github.com/package-manager/backend/internal/repository"
	"github.com/package-manager/backend/internal/service"
)

// ItemHandler handles catalog item HTTP requests.
type ItemHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewItemHandler creates a new item handler.
func NewItemHandler(service *service.CatalogService, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{
		service: service,
		logger:  logger,
	}
}

// ListItems handles GET /api/items.
// Returns all catalog items ordered by name.
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListItems(r.Context())
	if err != nil {
		h.logger.Error("failed to list items", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, items, h.logger)
}

// GetItem handles GET /api/items/{itemId}.
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	item, err := h.service.GetItem(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err, id)
		return
	}

	WriteJSON(w, http.StatusOK, item, h.logger)
}

// CreateItem handles POST /api/items.
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req models.CreateItemRequest
	if err := DecodeJSON(r, &req); err != nil {
		h.logger.Warn("failed to decode create item request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	item, err := h.service.CreateItem(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, err, 0)
		return
	}

	h.logger.Info("item created", "item_id", item.ID, "name", item.Name)
	WriteJSON(w, http.StatusCreated, item, h.logger)
}

// UpdateItem handles PUT /api/items/{itemId}.
// The update replaces name and image; package lines keep their snapshots.
func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	var req models.UpdateItemRequest
	if err := DecodeJSON(r, &req); err != nil {
		h.logger.Warn("failed to decode update item request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	if err := h.service.UpdateItem(r.Context(), id, req); err != nil {
		h.writeServiceError(w, err, id)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// DeleteItem handles DELETE /api/items/{itemId}.
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteItem(r.Context(), id); err != nil {
		h.writeServiceError(w, err, id)
		return
	}

	h.logger.Info("item deleted", "item_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// itemID parses the itemId URL parameter, writing a 400 response on failure.
func (h *ItemHandler) itemID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "itemId")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.logger.Warn("invalid item ID format", "itemId", raw, "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", h.logger)
		return 0, false
	}
	return id, true
}

func (h *ItemHandler) writeServiceError(w http.ResponseWriter, err error, id int64) {
	switch {
	case errors.Is(err, repository.ErrItemNotFound):
		h.logger.Info("item not found", "item_id", id)
		WriteError(w, http.StatusNotFound, "Item not found", h.logger)
	case errors.Is(err, service.ErrNameRequired), errors.Is(err, service.ErrNameTooLong):
		h.logger.Warn("item validation failed", "error", err)
		WriteError(w, http.StatusBadRequest, err.Error(), h.logger)
	default:
		h.logger.Error("item request failed", "item_id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
	}
}
