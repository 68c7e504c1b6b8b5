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

// PackageHandler handles package HTTP requests.
type PackageHandler struct {
	service *service.PackageService
	logger  *slog.Logger
}

// NewPackageHandler creates a new package handler.
func NewPackageHandler(service *service.PackageService, logger *slog.Logger) *PackageHandler {
	return &PackageHandler{
		service: service,
		logger:  logger,
	}
}

// ListPackages handles GET /api/packages.
// Returns all packages newest first, lines included.
func (h *PackageHandler) ListPackages(w http.ResponseWriter, r *http.Request) {
	packages, err := h.service.ListPackages(r.Context())
	if err != nil {
		h.logger.Error("failed to list packages", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, packages, h.logger)
}

// GetPackage handles GET /api/packages/{packageId}.
func (h *PackageHandler) GetPackage(w http.ResponseWriter, r *http.Request) {
	id, ok := h.urlID(w, r, "packageId")
	if !ok {
		return
	}

	pkg, err := h.service.GetPackage(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err, id)
		return
	}

	WriteJSON(w, http.StatusOK, pkg, h.logger)
}

// CreatePackage handles POST /api/packages.
func (h *PackageHandler) CreatePackage(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePackageRequest
	if err := DecodeJSON(r, &req); err != nil {
		h.logger.Warn("failed to decode create package request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	pkg, err := h.service.CreatePackage(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, err, 0)
		return
	}

	h.logger.Info("package created", "package_id", pkg.ID, "name", pkg.Name)
	WriteJSON(w, http.StatusCreated, pkg, h.logger)
}

// DeletePackage handles DELETE /api/packages/{packageId}.
// Deleting a package removes all of its lines with it.
func (h *PackageHandler) DeletePackage(w http.ResponseWriter, r *http.Request) {
	id, ok := h.urlID(w, r, "packageId")
	if !ok {
		return
	}

	if err := h.service.DeletePackage(r.Context(), id); err != nil {
		h.writeServiceError(w, err, id)
		return
	}

	h.logger.Info("package deleted", "package_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// AddItem handles POST /api/packages/{packageId}/items.
// Adding an item already in the package increments its line quantity.
func (h *PackageHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.urlID(w, r, "packageId")
	if !ok {
		return
	}

	var req models.AddItemRequest
	if err := DecodeJSON(r, &req); err != nil {
		h.logger.Warn("failed to decode add item request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	if err := h.service.AddItem(r.Context(), id, req.ItemID); err != nil {
		h.writeServiceError(w, err, id)
		return
	}

	h.logger.Info("item added to package", "package_id", id, "item_id", req.ItemID)
	w.WriteHeader(http.StatusOK)
}

// RemoveItem handles DELETE /api/packages/{packageId}/items/{itemId}.
// Removes one unit; the line disappears when its quantity reaches zero.
func (h *PackageHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.urlID(w, r, "packageId")
	if !ok {
		return
	}
	itemID, ok := h.urlID(w, r, "itemId")
	if !ok {
		return
	}

	if err := h.service.RemoveItem(r.Context(), id, itemID); err != nil {
		h.writeServiceError(w, err, id)
		return
	}

	h.logger.Info("item removed from package", "package_id", id, "item_id", itemID)
	w.WriteHeader(http.StatusOK)
}

// UpdateWeight handles PUT /api/packages/{packageId}/weight.
func (h *PackageHandler) UpdateWeight(w http.ResponseWriter, r *http.Request) {
	id, ok := h.urlID(w, r, "packageId")
	if !ok {
		return
	}

	var req models.UpdateWeightRequest
	if err := DecodeJSON(r, &req); err != nil {
		h.logger.Warn("failed to decode update weight request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	if err := h.service.SetWeight(r.Context(), id, req.Weight); err != nil {
		h.writeServiceError(w, err, id)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// UpdateBoxSize handles PUT /api/packages/{packageId}/boxsize.
func (h *PackageHandler) UpdateBoxSize(w http.ResponseWriter, r *http.Request) {
	id, ok := h.urlID(w, r, "packageId")
	if !ok {
		return
	}

	var req models.UpdateBoxSizeRequest
	if err := DecodeJSON(r, &req); err != nil {
		h.logger.Warn("failed to decode update box size request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	if err := h.service.SetBoxSize(r.Context(), id, req.BoxSize); err != nil {
		h.writeServiceError(w, err, id)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Complete handles PUT /api/packages/{packageId}/complete.
func (h *PackageHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.urlID(w, r, "packageId")
	if !ok {
		return
	}

	if err := h.service.Complete(r.Context(), id); err != nil {
		h.writeServiceError(w, err, id)
		return
	}

	h.logger.Info("package completed", "package_id", id)
	w.WriteHeader(http.StatusOK)
}

// Uncomplete handles PUT /api/packages/{packageId}/uncomplete.
func (h *PackageHandler) Uncomplete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.urlID(w, r, "packageId")
	if !ok {
		return
	}

	if err := h.service.Uncomplete(r.Context(), id); err != nil {
		h.writeServiceError(w, err, id)
		return
	}

	h.logger.Info("package marked incomplete", "package_id", id)
	w.WriteHeader(http.StatusOK)
}

// urlID parses a numeric URL parameter, writing a 400 response on failure.
func (h *PackageHandler) urlID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.logger.Warn("invalid ID format", "param", param, "value", raw, "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", h.logger)
		return 0, false
	}
	return id, true
}

func (h *PackageHandler) writeServiceError(w http.ResponseWriter, err error, packageID int64) {
	switch {
	case errors.Is(err, repository.ErrPackageNotFound):
		h.logger.Info("package not found", "package_id", packageID)
		WriteError(w, http.StatusNotFound, "Package not found", h.logger)
	case errors.Is(err, repository.ErrItemNotFound):
		h.logger.Info("item not found", "package_id", packageID)
		WriteError(w, http.StatusNotFound, "Item not found", h.logger)
	case errors.Is(err, repository.ErrLineNotFound):
		h.logger.Info("line not found in package", "package_id", packageID)
		WriteError(w, http.StatusNotFound, "Item not found in package", h.logger)
	case errors.Is(err, service.ErrNameRequired),
		errors.Is(err, service.ErrNameTooLong),
		errors.Is(err, service.ErrNegativeWeight):
		h.logger.Warn("package validation failed", "error", err)
		WriteError(w, http.StatusBadRequest, err.Error(), h.logger)
	default:
		h.logger.Error("package request failed", "package_id", packageID, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
	}
}
