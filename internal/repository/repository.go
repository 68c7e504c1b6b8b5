package repository

import (
	"context"
	"errors"

	"github.com/package-manager/backend/internal/models"
)

var (
	ErrItemNotFound    = errors.New("item not found")
	ErrPackageNotFound = errors.New("package not found")
	ErrLineNotFound    = errors.New("item not found in package")
)

// ItemRepository defines data access for the item catalog.
type ItemRepository interface {
	// List returns all catalog items ordered by name ascending.
	List(ctx context.Context) ([]models.Item, error)
	GetByID(ctx context.Context, id int64) (*models.Item, error)
	// Create assigns the item's ID.
	Create(ctx context.Context, item *models.Item) error
	Update(ctx context.Context, id int64, name, imageUrl string) error
	// Delete removes the catalog item. Package lines referencing it keep
	// their copied name and image but lose the itemId back-reference.
	Delete(ctx context.Context, id int64) error
}

// PackageRepository defines data access for packages and their lines.
// Method names are disambiguated from ItemRepository so a single store can
// implement both.
type PackageRepository interface {
	// ListPackages returns all packages ordered by creation time
	// descending, lines included.
	ListPackages(ctx context.Context) ([]models.Package, error)
	GetPackageByID(ctx context.Context, id int64) (*models.Package, error)
	// CreatePackage assigns the package's ID and creation timestamp.
	CreatePackage(ctx context.Context, pkg *models.Package) error
	// DeletePackage removes the package and cascades to all of its lines.
	DeletePackage(ctx context.Context, id int64) error

	SetWeight(ctx context.Context, id int64, weight float64) error
	SetBoxSize(ctx context.Context, id int64, boxSize string) error
	SetCompleted(ctx context.Context, id int64, completed bool) error

	// AddLine increments the quantity of the line matching item.ID, or
	// creates a new line with quantity 1 copying the item's name and image.
	AddLine(ctx context.Context, packageID int64, item models.Item) error
	// RemoveLine decrements the quantity of the line matching itemID, or
	// deletes the line when its quantity would drop below 1.
	RemoveLine(ctx context.Context, packageID, itemID int64) error
}
