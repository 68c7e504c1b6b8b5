package handlers

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/package-manager/backend/internal/models"
)

// createTestPackage creates a package plus one catalog item over the API
// and returns both.
func createTestPackage(t *testing.T, r chi.Router) (models.Package, models.Item) {
	t.Helper()

	w := doRequest(t, r, http.MethodPost, "/api/packages", models.CreatePackageRequest{Name: "Shipment A"})
	wantStatus(t, w, http.StatusCreated)
	var pkg models.Package
	decodeBody(t, w, &pkg)

	w = doRequest(t, r, http.MethodPost, "/api/items", models.CreateItemRequest{
		Name:     "MacBook Pro",
		ImageUrl: "https://example.com/mbp.png",
	})
	wantStatus(t, w, http.StatusCreated)
	var item models.Item
	decodeBody(t, w, &item)

	return pkg, item
}

func TestCreatePackage(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(t, r, http.MethodPost, "/api/packages", models.CreatePackageRequest{
		Name:    "Shipment A",
		BoxSize: "26x16x15",
	})
	wantStatus(t, w, http.StatusCreated)

	var pkg models.Package
	decodeBody(t, w, &pkg)
	if pkg.ID == 0 {
		t.Error("expected created package to have an ID")
	}
	if pkg.BoxSize != "26x16x15" {
		t.Errorf("boxSize = %q, want %q", pkg.BoxSize, "26x16x15")
	}
	if pkg.CreatedDate.IsZero() {
		t.Error("expected server-assigned creation date")
	}
	if pkg.Items == nil || len(pkg.Items) != 0 {
		t.Errorf("expected empty items array, got %v", pkg.Items)
	}
}

func TestCreatePackage_Validation(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(t, r, http.MethodPost, "/api/packages", models.CreatePackageRequest{Name: ""})
	wantStatus(t, w, http.StatusBadRequest)
}

func TestGetPackage_NotFound(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(t, r, http.MethodGet, "/api/packages/999", nil)
	wantStatus(t, w, http.StatusNotFound)

	if msg := errorField(t, w); msg != "Package not found" {
		t.Errorf("error = %q, want %q", msg, "Package not found")
	}
}

func TestAddItemToPackage(t *testing.T) {
	r, _ := newTestRouter(t)
	pkg, item := createTestPackage(t, r)

	// Two adds merge into one line
	for i := 0; i < 2; i++ {
		w := doRequest(t, r, http.MethodPost, "/api/packages/1/items", models.AddItemRequest{ItemID: item.ID})
		wantStatus(t, w, http.StatusOK)
	}

	w := doRequest(t, r, http.MethodGet, "/api/packages/1", nil)
	wantStatus(t, w, http.StatusOK)

	var got models.Package
	decodeBody(t, w, &got)
	if got.ID != pkg.ID {
		t.Fatalf("fetched wrong package: %d", got.ID)
	}
	if len(got.Items) != 1 {
		t.Fatalf("expected one merged line, got %d", len(got.Items))
	}
	line := got.Items[0]
	if line.Quantity != 2 {
		t.Errorf("quantity = %d, want 2", line.Quantity)
	}
	if line.ItemName != "MacBook Pro" || line.ItemImageUrl != "https://example.com/mbp.png" {
		t.Errorf("line did not copy the catalog snapshot: %+v", line)
	}
}

func TestAddItemToPackage_NotFound(t *testing.T) {
	r, _ := newTestRouter(t)
	_, item := createTestPackage(t, r)

	w := doRequest(t, r, http.MethodPost, "/api/packages/999/items", models.AddItemRequest{ItemID: item.ID})
	wantStatus(t, w, http.StatusNotFound)
	if msg := errorField(t, w); msg != "Package not found" {
		t.Errorf("error = %q, want %q", msg, "Package not found")
	}

	w = doRequest(t, r, http.MethodPost, "/api/packages/1/items", models.AddItemRequest{ItemID: 999})
	wantStatus(t, w, http.StatusNotFound)
	if msg := errorField(t, w); msg != "Item not found" {
		t.Errorf("error = %q, want %q", msg, "Item not found")
	}

	// Both missing: the package check takes precedence
	w = doRequest(t, r, http.MethodPost, "/api/packages/999/items", models.AddItemRequest{ItemID: 998})
	wantStatus(t, w, http.StatusNotFound)
	if msg := errorField(t, w); msg != "Package not found" {
		t.Errorf("error = %q, want %q", msg, "Package not found")
	}
}

func TestRemoveItemFromPackage(t *testing.T) {
	r, _ := newTestRouter(t)
	_, item := createTestPackage(t, r)

	doRequest(t, r, http.MethodPost, "/api/packages/1/items", models.AddItemRequest{ItemID: item.ID})
	doRequest(t, r, http.MethodPost, "/api/packages/1/items", models.AddItemRequest{ItemID: item.ID})

	// Decrement
	w := doRequest(t, r, http.MethodDelete, "/api/packages/1/items/1", nil)
	wantStatus(t, w, http.StatusOK)

	// Delete the line
	w = doRequest(t, r, http.MethodDelete, "/api/packages/1/items/1", nil)
	wantStatus(t, w, http.StatusOK)

	// Past zero: 404, package unchanged
	w = doRequest(t, r, http.MethodDelete, "/api/packages/1/items/1", nil)
	wantStatus(t, w, http.StatusNotFound)
	if msg := errorField(t, w); msg != "Item not found in package" {
		t.Errorf("error = %q, want %q", msg, "Item not found in package")
	}

	w = doRequest(t, r, http.MethodGet, "/api/packages/1", nil)
	var got models.Package
	decodeBody(t, w, &got)
	if len(got.Items) != 0 {
		t.Errorf("expected no lines, got %d", len(got.Items))
	}
}

func TestUpdateWeight(t *testing.T) {
	r, _ := newTestRouter(t)
	createTestPackage(t, r)

	w := doRequest(t, r, http.MethodPut, "/api/packages/1/weight", models.UpdateWeightRequest{Weight: 5.5})
	wantStatus(t, w, http.StatusOK)

	w = doRequest(t, r, http.MethodPut, "/api/packages/1/weight", models.UpdateWeightRequest{Weight: -2})
	wantStatus(t, w, http.StatusBadRequest)

	w = doRequest(t, r, http.MethodGet, "/api/packages/1", nil)
	var got models.Package
	decodeBody(t, w, &got)
	if got.TotalWeight != 5.5 {
		t.Errorf("weight = %v, want 5.5 (failed write must not stick)", got.TotalWeight)
	}

	w = doRequest(t, r, http.MethodPut, "/api/packages/999/weight", models.UpdateWeightRequest{Weight: 1})
	wantStatus(t, w, http.StatusNotFound)
}

func TestUpdateBoxSize(t *testing.T) {
	r, _ := newTestRouter(t)
	createTestPackage(t, r)

	w := doRequest(t, r, http.MethodPut, "/api/packages/1/boxsize", models.UpdateBoxSizeRequest{BoxSize: "24x20x20"})
	wantStatus(t, w, http.StatusOK)

	// Free-text sizes are allowed
	w = doRequest(t, r, http.MethodPut, "/api/packages/1/boxsize", models.UpdateBoxSizeRequest{BoxSize: "custom crate"})
	wantStatus(t, w, http.StatusOK)

	w = doRequest(t, r, http.MethodGet, "/api/packages/1", nil)
	var got models.Package
	decodeBody(t, w, &got)
	if got.BoxSize != "custom crate" {
		t.Errorf("boxSize = %q, want %q", got.BoxSize, "custom crate")
	}
}

func TestCompleteAndUncomplete(t *testing.T) {
	r, _ := newTestRouter(t)
	createTestPackage(t, r)

	w := doRequest(t, r, http.MethodPut, "/api/packages/1/complete", nil)
	wantStatus(t, w, http.StatusOK)

	w = doRequest(t, r, http.MethodGet, "/api/packages/1", nil)
	var got models.Package
	decodeBody(t, w, &got)
	if !got.IsCompleted {
		t.Error("package should be completed")
	}

	w = doRequest(t, r, http.MethodPut, "/api/packages/1/uncomplete", nil)
	wantStatus(t, w, http.StatusOK)

	w = doRequest(t, r, http.MethodGet, "/api/packages/1", nil)
	decodeBody(t, w, &got)
	if got.IsCompleted {
		t.Error("package should be in progress again")
	}
}

func TestDeletePackage(t *testing.T) {
	r, _ := newTestRouter(t)
	_, item := createTestPackage(t, r)

	doRequest(t, r, http.MethodPost, "/api/packages/1/items", models.AddItemRequest{ItemID: item.ID})

	w := doRequest(t, r, http.MethodDelete, "/api/packages/1", nil)
	wantStatus(t, w, http.StatusNoContent)

	w = doRequest(t, r, http.MethodGet, "/api/packages/1", nil)
	wantStatus(t, w, http.StatusNotFound)

	w = doRequest(t, r, http.MethodDelete, "/api/packages/1", nil)
	wantStatus(t, w, http.StatusNotFound)
}

func TestListPackages_NewestFirst(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, name := range []string{"First", "Second"} {
		w := doRequest(t, r, http.MethodPost, "/api/packages", models.CreatePackageRequest{Name: name})
		wantStatus(t, w, http.StatusCreated)
	}

	w := doRequest(t, r, http.MethodGet, "/api/packages", nil)
	wantStatus(t, w, http.StatusOK)

	var packages []models.Package
	decodeBody(t, w, &packages)
	if len(packages) != 2 {
		t.Fatalf("expected 2 packages, got %d", len(packages))
	}
	if packages[0].Name != "Second" || packages[1].Name != "First" {
		t.Errorf("packages not newest first: %q, %q", packages[0].Name, packages[1].Name)
	}
}
