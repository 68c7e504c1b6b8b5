package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/package-manager/backend/internal/models"
)

// MemoryStore implements ItemRepository and PackageRepository with in-memory
// storage. It backs the STORAGE=memory mode and the test suites.
type MemoryStore struct {
	mu         sync.RWMutex
	items      map[int64]models.Item
	packages   map[int64]*models.Package
	nextItemID int64
	nextPkgID  int64
	nextLineID int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items:    make(map[int64]models.Item),
		packages: make(map[int64]*models.Package),
	}
}

// List returns all catalog items ordered by name ascending.
func (s *MemoryStore) List(ctx context.Context) ([]models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.Item, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

// GetByID returns a catalog item by its ID.
func (s *MemoryStore) GetByID(ctx context.Context, id int64) (*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.items[id]
	if !exists {
		return nil, ErrItemNotFound
	}
	return &item, nil
}

// Create stores a new catalog item and assigns its ID.
func (s *MemoryStore) Create(ctx context.Context, item *models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextItemID++
	item.ID = s.nextItemID
	s.items[item.ID] = *item
	return nil
}

// Update replaces a catalog item's name and image.
func (s *MemoryStore) Update(ctx context.Context, id int64, name, imageUrl string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, exists := s.items[id]
	if !exists {
		return ErrItemNotFound
	}
	item.Name = name
	item.ImageUrl = imageUrl
	s.items[id] = item
	return nil
}

// Delete removes a catalog item. Package lines that reference it keep their
// copied name and image but lose the itemId back-reference.
func (s *MemoryStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; !exists {
		return ErrItemNotFound
	}
	delete(s.items, id)

	for _, pkg := range s.packages {
		for i := range pkg.Items {
			if pkg.Items[i].ItemID != nil && *pkg.Items[i].ItemID == id {
				pkg.Items[i].ItemID = nil
			}
		}
	}
	return nil
}

// ListPackages returns all packages ordered by creation time descending.
func (s *MemoryStore) ListPackages(ctx context.Context) ([]models.Package, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	packages := make([]models.Package, 0, len(s.packages))
	for _, pkg := range s.packages {
		packages = append(packages, copyPackage(pkg))
	}
	sort.Slice(packages, func(i, j int) bool {
		if !packages[i].CreatedDate.Equal(packages[j].CreatedDate) {
			return packages[i].CreatedDate.After(packages[j].CreatedDate)
		}
		return packages[i].ID > packages[j].ID
	})
	return packages, nil
}

// GetPackageByID returns a package with its lines.
func (s *MemoryStore) GetPackageByID(ctx context.Context, id int64) (*models.Package, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pkg, exists := s.packages[id]
	if !exists {
		return nil, ErrPackageNotFound
	}
	copied := copyPackage(pkg)
	return &copied, nil
}

// CreatePackage stores a new package, assigning its ID and creation time.
func (s *MemoryStore) CreatePackage(ctx context.Context, pkg *models.Package) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextPkgID++
	pkg.ID = s.nextPkgID
	pkg.CreatedDate = time.Now().UTC()
	if pkg.Items == nil {
		pkg.Items = []models.PackageItem{}
	}
	stored := copyPackage(pkg)
	s.packages[pkg.ID] = &stored
	return nil
}

// DeletePackage removes a package and all of its lines.
func (s *MemoryStore) DeletePackage(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.packages[id]; !exists {
		return ErrPackageNotFound
	}
	delete(s.packages, id)
	return nil
}

// SetWeight sets a package's total weight.
func (s *MemoryStore) SetWeight(ctx context.Context, id int64, weight float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pkg, exists := s.packages[id]
	if !exists {
		return ErrPackageNotFound
	}
	pkg.TotalWeight = weight
	return nil
}

// SetBoxSize sets a package's box size.
func (s *MemoryStore) SetBoxSize(ctx context.Context, id int64, boxSize string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pkg, exists := s.packages[id]
	if !exists {
		return ErrPackageNotFound
	}
	pkg.BoxSize = boxSize
	return nil
}

// SetCompleted sets a package's completion flag.
func (s *MemoryStore) SetCompleted(ctx context.Context, id int64, completed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pkg, exists := s.packages[id]
	if !exists {
		return ErrPackageNotFound
	}
	pkg.IsCompleted = completed
	return nil
}

// AddLine increments the matching line's quantity or appends a new line
// with quantity 1, copying the item's name and image at this instant.
func (s *MemoryStore) AddLine(ctx context.Context, packageID int64, item models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pkg, exists := s.packages[packageID]
	if !exists {
		return ErrPackageNotFound
	}

	for i := range pkg.Items {
		if pkg.Items[i].ItemID != nil && *pkg.Items[i].ItemID == item.ID {
			pkg.Items[i].Quantity++
			return nil
		}
	}

	s.nextLineID++
	itemID := item.ID
	pkg.Items = append(pkg.Items, models.PackageItem{
		ID:           s.nextLineID,
		PackageID:    packageID,
		ItemID:       &itemID,
		ItemName:     item.Name,
		ItemImageUrl: item.ImageUrl,
		Quantity:     1,
	})
	return nil
}

// RemoveLine decrements the matching line's quantity or deletes the line
// when its quantity would drop below 1.
func (s *MemoryStore) RemoveLine(ctx context.Context, packageID, itemID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pkg, exists := s.packages[packageID]
	if !exists {
		return ErrPackageNotFound
	}

	for i := range pkg.Items {
		if pkg.Items[i].ItemID != nil && *pkg.Items[i].ItemID == itemID {
			if pkg.Items[i].Quantity > 1 {
				pkg.Items[i].Quantity--
			} else {
				pkg.Items = append(pkg.Items[:i], pkg.Items[i+1:]...)
			}
			return nil
		}
	}
	return ErrLineNotFound
}

// copyPackage deep-copies a package so callers never alias stored state.
func copyPackage(pkg *models.Package) models.Package {
	copied := *pkg
	copied.Items = make([]models.PackageItem, len(pkg.Items))
	for i, line := range pkg.Items {
		copied.Items[i] = line
		if line.ItemID != nil {
			itemID := *line.ItemID
			copied.Items[i].ItemID = &itemID
		}
	}
	return copied
}
