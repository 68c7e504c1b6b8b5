// Package mirror provides an API client plus an optimistic, session-local
// copy of one package. After the server confirms a command the mirror
// applies the same merge/decrement rules to its cached state instead of
// re-fetching; on failure it applies nothing.
package mirror

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/package-manager/backend/internal/models"
)

// ErrNotFound is returned when the server reports a missing package, item,
// or line.
var ErrNotFound = errors.New("not found")

// APIError carries the status and message of a failed API call.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// Client is a JSON API client for the package manager backend. Every
// command carries a generated X-Request-ID for log correlation.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// ListItems fetches the full catalog, ordered by name.
func (c *Client) ListItems(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	if err := c.do(ctx, http.MethodGet, "/api/items", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetItem fetches one catalog item.
func (c *Client) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	var item models.Item
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/items/%d", id), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateItem creates a catalog item and returns the stored record.
func (c *Client) CreateItem(ctx context.Context, req models.CreateItemRequest) (*models.Item, error) {
	var item models.Item
	if err := c.do(ctx, http.MethodPost, "/api/items", req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItem replaces a catalog item's name and image.
func (c *Client) UpdateItem(ctx context.Context, id int64, req models.UpdateItemRequest) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/items/%d", id), req, nil)
}

// DeleteItem removes a catalog item.
func (c *Client) DeleteItem(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/items/%d", id), nil, nil)
}

// SearchAliases fetches the server's effective search-alias table.
func (c *Client) SearchAliases(ctx context.Context) (map[string][]string, error) {
	var resp struct {
		Aliases map[string][]string `json:"aliases"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/search-aliases", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Aliases, nil
}

// ListPackages fetches all packages, newest first.
func (c *Client) ListPackages(ctx context.Context) ([]models.Package, error) {
	var packages []models.Package
	if err := c.do(ctx, http.MethodGet, "/api/packages", nil, &packages); err != nil {
		return nil, err
	}
	return packages, nil
}

// GetPackage fetches one package with its lines.
func (c *Client) GetPackage(ctx context.Context, id int64) (*models.Package, error) {
	var pkg models.Package
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/packages/%d", id), nil, &pkg); err != nil {
		return nil, err
	}
	return &pkg, nil
}

// CreatePackage creates a package and returns the stored record.
func (c *Client) CreatePackage(ctx context.Context, req models.CreatePackageRequest) (*models.Package, error) {
	var pkg models.Package
	if err := c.do(ctx, http.MethodPost, "/api/packages", req, &pkg); err != nil {
		return nil, err
	}
	return &pkg, nil
}

// DeletePackage removes a package and all of its lines.
func (c *Client) DeletePackage(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/packages/%d", id), nil, nil)
}

// AddItem adds one unit of a catalog item to a package.
func (c *Client) AddItem(ctx context.Context, packageID, itemID int64) error {
	req := models.AddItemRequest{ItemID: itemID}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/packages/%d/items", packageID), req, nil)
}

// RemoveItem removes one unit of a catalog item from a package.
func (c *Client) RemoveItem(ctx context.Context, packageID, itemID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/packages/%d/items/%d", packageID, itemID), nil, nil)
}

// SetWeight sets a package's total weight.
func (c *Client) SetWeight(ctx context.Context, packageID int64, weight float64) error {
	req := models.UpdateWeightRequest{Weight: weight}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/packages/%d/weight", packageID), req, nil)
}

// SetBoxSize sets a package's box size.
func (c *Client) SetBoxSize(ctx context.Context, packageID int64, boxSize string) error {
	req := models.UpdateBoxSizeRequest{BoxSize: boxSize}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/packages/%d/boxsize", packageID), req, nil)
}

// Complete marks a package as completed.
func (c *Client) Complete(ctx context.Context, packageID int64) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/packages/%d/complete", packageID), nil, nil)
}

// Uncomplete marks a package as in progress.
func (c *Client) Uncomplete(ctx context.Context, packageID int64) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/packages/%d/uncomplete", packageID), nil, nil)
}

// do executes one request/response round trip and decodes the body into
// out when it is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-Id", uuid.New().String())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return &APIError{
			Status:  resp.StatusCode,
			Message: errorMessage(resp.Body),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// errorMessage extracts the "error" field from a failure body, if any.
func errorMessage(body io.Reader) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return ""
	}
	return payload.Error
}
