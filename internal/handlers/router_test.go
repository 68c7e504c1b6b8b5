package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/package-manager/backend/internal/repository"
	"github.com/package-manager/backend/internal/search"
	"github.com/package-manager/backend/internal/service"
	"github.com/package-manager/backend/pkg/logger"
)

// newTestRouter wires the API routes over a fresh in-memory store, the same
// way cmd/server does.
func newTestRouter(t *testing.T) (chi.Router, *repository.MemoryStore) {
	t.Helper()

	store := repository.NewMemoryStore()
	log := logger.New("error")

	itemHandler := NewItemHandler(service.NewCatalogService(store), log)
	packageHandler := NewPackageHandler(service.NewPackageService(store, store), log)
	searchHandler := NewSearchHandler(search.DefaultAliases(), log)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/search-aliases", searchHandler.ListAliases)
		r.Route("/items", func(r chi.Router) {
			r.Get("/", itemHandler.ListItems)
			r.Post("/", itemHandler.CreateItem)
			r.Get("/{itemId}", itemHandler.GetItem)
			r.Put("/{itemId}", itemHandler.UpdateItem)
			r.Delete("/{itemId}", itemHandler.DeleteItem)
		})
		r.Route("/packages", func(r chi.Router) {
			r.Get("/", packageHandler.ListPackages)
			r.Post("/", packageHandler.CreatePackage)
			r.Get("/{packageId}", packageHandler.GetPackage)
			r.Delete("/{packageId}", packageHandler.DeletePackage)
			r.Post("/{packageId}/items", packageHandler.AddItem)
			r.Delete("/{packageId}/items/{itemId}", packageHandler.RemoveItem)
			r.Put("/{packageId}/weight", packageHandler.UpdateWeight)
			r.Put("/{packageId}/boxsize", packageHandler.UpdateBoxSize)
			r.Put("/{packageId}/complete", packageHandler.Complete)
			r.Put("/{packageId}/uncomplete", packageHandler.Uncomplete)
		})
	})
	return r, store
}

// doRequest executes a request against the router and returns the recorder.
func doRequest(t *testing.T, r chi.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(dst); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func errorField(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	decodeBody(t, w, &resp)
	return resp["error"]
}

func wantStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d (body: %s)", w.Code, want, w.Body.String())
	}
}
