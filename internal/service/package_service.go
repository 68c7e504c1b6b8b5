package service

import (
	"context"

	"github.com/package-manager/backend/internal/models"
	"github.com/package-manager/backend/internal/repository"
)

// PackageService owns the package aggregate rules: merge-on-add, the
// decrement-or-delete removal rule, and the independent field mutations.
type PackageService struct {
	packages repository.PackageRepository
	items    repository.ItemRepository
}

// NewPackageService creates a new package service.
func NewPackageService(packages repository.PackageRepository, items repository.ItemRepository) *PackageService {
	return &PackageService{
		packages: packages,
		items:    items,
	}
}

// ListPackages returns all packages, newest first, lines included.
func (s *PackageService) ListPackages(ctx context.Context) ([]models.Package, error) {
	return s.packages.ListPackages(ctx)
}

// GetPackage returns a package with its lines.
func (s *PackageService) GetPackage(ctx context.Context, id int64) (*models.Package, error) {
	return s.packages.GetPackageByID(ctx, id)
}

// CreatePackage validates and stores a new package. The server assigns the
// ID and creation timestamp.
func (s *PackageService) CreatePackage(ctx context.Context, req models.CreatePackageRequest) (*models.Package, error) {
	if err := validateName(req.Name); err != nil {
		return nil, err
	}

	pkg := &models.Package{
		Name:    req.Name,
		BoxSize: req.BoxSize,
		Items:   []models.PackageItem{},
	}
	if err := s.packages.CreatePackage(ctx, pkg); err != nil {
		return nil, err
	}
	return pkg, nil
}

// DeletePackage removes a package and all of its lines.
func (s *PackageService) DeletePackage(ctx context.Context, id int64) error {
	return s.packages.DeletePackage(ctx, id)
}

// AddItem adds one unit of a catalog item to a package. If a line for the
// item already exists its quantity is incremented, otherwise a new line is
// created with quantity 1 copying the item's name and image. The package is
// checked first, so a missing package wins over a missing item.
func (s *PackageService) AddItem(ctx context.Context, packageID, itemID int64) error {
	if _, err := s.packages.GetPackageByID(ctx, packageID); err != nil {
		return err
	}
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	return s.packages.AddLine(ctx, packageID, *item)
}

// RemoveItem removes one unit of a catalog item from a package. The line is
// deleted outright when its quantity reaches zero; removing an item that is
// not in the package fails with ErrLineNotFound.
func (s *PackageService) RemoveItem(ctx context.Context, packageID, itemID int64) error {
	return s.packages.RemoveLine(ctx, packageID, itemID)
}

// SetWeight sets a package's total weight. Weight is settable independently
// of the line items and is never derived from them.
func (s *PackageService) SetWeight(ctx context.Context, id int64, weight float64) error {
	if weight < 0 {
		return ErrNegativeWeight
	}
	return s.packages.SetWeight(ctx, id, weight)
}

// SetBoxSize sets a package's box size. An empty string clears it.
func (s *PackageService) SetBoxSize(ctx context.Context, id int64, boxSize string) error {
	return s.packages.SetBoxSize(ctx, id, boxSize)
}

// Complete marks a package as completed.
func (s *PackageService) Complete(ctx context.Context, id int64) error {
	return s.packages.SetCompleted(ctx, id, true)
}

// Uncomplete marks a package as in progress again. Completion is freely
// bidirectional; there is no terminal lock.
func (s *PackageService) Uncomplete(ctx context.Context, id int64) error {
	return s.packages.SetCompleted(ctx, id, false)
}
