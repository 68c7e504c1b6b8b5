package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/package-manager/backend/internal/models"
	"github.com/package-manager/backend/internal/repository"
)

var (
	ErrNameRequired   = errors.New("name is required")
	ErrNameTooLong    = errors.New("name must be at most 200 characters")
	ErrNegativeWeight = errors.New("weight must not be negative")
)

const maxNameLength = 200

// CatalogService handles business logic for the item catalog.
type CatalogService struct {
	repo repository.ItemRepository
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(repo repository.ItemRepository) *CatalogService {
	return &CatalogService{
		repo: repo,
	}
}

// ListItems returns all catalog items ordered by name.
func (s *CatalogService) ListItems(ctx context.Context) ([]models.Item, error) {
	return s.repo.List(ctx)
}

// GetItem returns a catalog item by ID.
func (s *CatalogService) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateItem validates and stores a new catalog item.
func (s *CatalogService) CreateItem(ctx context.Context, req models.CreateItemRequest) (*models.Item, error) {
	if err := validateName(req.Name); err != nil {
		return nil, err
	}

	item := &models.Item{
		Name:     req.Name,
		ImageUrl: req.ImageUrl,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem replaces a catalog item's name and image. Existing package
// lines keep their copied snapshot and are not touched.
func (s *CatalogService) UpdateItem(ctx context.Context, id int64, req models.UpdateItemRequest) error {
	if err := validateName(req.Name); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, req.Name, req.ImageUrl)
}

// DeleteItem removes a catalog item. Package lines referencing it survive
// with a nil itemId.
func (s *CatalogService) DeleteItem(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// validateName rejects empty or over-length names before any mutation.
func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameRequired
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return ErrNameTooLong
	}
	return nil
}
