package models

// CreateItemRequest is the body for POST /api/items.
type CreateItemRequest struct {
	Name     string `json:"name"`
	ImageUrl string `json:"imageUrl,omitempty"`
}

// UpdateItemRequest is the body for PUT /api/items/{id}.
// The update is a full replacement of name and image.
type UpdateItemRequest struct {
	Name     string `json:"name"`
	ImageUrl string `json:"imageUrl,omitempty"`
}

// CreatePackageRequest is the body for POST /api/packages.
type CreatePackageRequest struct {
	Name    string `json:"name"`
	BoxSize string `json:"boxSize,omitempty"`
}

// AddItemRequest is the body for POST /api/packages/{id}/items.
type AddItemRequest struct {
	ItemID int64 `json:"itemId"`
}

// UpdateWeightRequest is the body for PUT /api/packages/{id}/weight.
type UpdateWeightRequest struct {
	Weight float64 `json:"weight"`
}

// UpdateBoxSizeRequest is the body for PUT /api/packages/{id}/boxsize.
type UpdateBoxSizeRequest struct {
	BoxSize string `json:"boxSize,omitempty"`
}
