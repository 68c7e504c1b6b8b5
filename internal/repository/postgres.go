package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/package-manager/backend/internal/models"
)

// PostgresStore implements ItemRepository and PackageRepository on top of
// PostgreSQL via gorm.
type PostgresStore struct {
	db *gorm.DB
}

// OpenPostgres connects to PostgreSQL and migrates the schema.
func OpenPostgres(dsn string) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return NewPostgresStore(db)
}

// NewPostgresStore wraps an existing gorm connection and migrates the schema.
func NewPostgresStore(db *gorm.DB) (*PostgresStore, error) {
	if err := db.AutoMigrate(&models.Item{}, &models.Package{}, &models.PackageItem{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// List returns all catalog items ordered by name ascending.
func (s *PostgresStore) List(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetByID returns a catalog item by its ID.
func (s *PostgresStore) GetByID(ctx context.Context, id int64) (*models.Item, error) {
	var item models.Item
	err := s.db.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Create stores a new catalog item and assigns its ID.
func (s *PostgresStore) Create(ctx context.Context, item *models.Item) error {
	return s.db.WithContext(ctx).Create(item).Error
}

// Update replaces a catalog item's name and image.
func (s *PostgresStore) Update(ctx context.Context, id int64, name, imageUrl string) error {
	result := s.db.WithContext(ctx).Model(&models.Item{}).Where("id = ?", id).
		Updates(map[string]interface{}{"name": name, "image_url": imageUrl})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

// Delete removes a catalog item and clears the itemId back-reference on any
// package lines that point at it. The lines themselves survive with their
// copied name and image.
func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.PackageItem{}).Where("item_id = ?", id).
			Update("item_id", nil).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Item{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrItemNotFound
		}
		return nil
	})
}

// ListPackages returns all packages ordered by creation time descending,
// lines included in insertion order.
func (s *PostgresStore) ListPackages(ctx context.Context) ([]models.Package, error) {
	var packages []models.Package
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("package_items.id ASC")
		}).
		Order("created_date DESC, id DESC").
		Find(&packages).Error
	if err != nil {
		return nil, err
	}
	for i := range packages {
		if packages[i].Items == nil {
			packages[i].Items = []models.PackageItem{}
		}
	}
	return packages, nil
}

// GetPackageByID returns a package with its lines in insertion order.
func (s *PostgresStore) GetPackageByID(ctx context.Context, id int64) (*models.Package, error) {
	var pkg models.Package
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("package_items.id ASC")
		}).
		First(&pkg, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPackageNotFound
	}
	if err != nil {
		return nil, err
	}
	if pkg.Items == nil {
		pkg.Items = []models.PackageItem{}
	}
	return &pkg, nil
}

// CreatePackage stores a new package, assigning its ID and creation time.
func (s *PostgresStore) CreatePackage(ctx context.Context, pkg *models.Package) error {
	pkg.CreatedDate = time.Now().UTC()
	if pkg.Items == nil {
		pkg.Items = []models.PackageItem{}
	}
	return s.db.WithContext(ctx).Create(pkg).Error
}

// DeletePackage removes a package and all of its lines atomically.
func (s *PostgresStore) DeletePackage(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("package_id = ?", id).
			Delete(&models.PackageItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Package{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPackageNotFound
		}
		return nil
	})
}

// SetWeight sets a package's total weight.
func (s *PostgresStore) SetWeight(ctx context.Context, id int64, weight float64) error {
	return s.updateField(ctx, id, "total_weight", weight)
}

// SetBoxSize sets a package's box size.
func (s *PostgresStore) SetBoxSize(ctx context.Context, id int64, boxSize string) error {
	return s.updateField(ctx, id, "box_size", boxSize)
}

// SetCompleted sets a package's completion flag.
func (s *PostgresStore) SetCompleted(ctx context.Context, id int64, completed bool) error {
	return s.updateField(ctx, id, "is_completed", completed)
}

func (s *PostgresStore) updateField(ctx context.Context, id int64, column string, value interface{}) error {
	result := s.db.WithContext(ctx).Model(&models.Package{}).Where("id = ?", id).
		Update(column, value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPackageNotFound
	}
	return nil
}

// AddLine increments the matching line's quantity or inserts a new line
// with quantity 1, copying the item's name and image at this instant.
func (s *PostgresStore) AddLine(ctx context.Context, packageID int64, item models.Item) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := packageExists(tx, packageID); err != nil {
			return err
		}

		var line models.PackageItem
		err := tx.Where("package_id = ? AND item_id = ?", packageID, item.ID).
			First(&line).Error
		if err == nil {
			return tx.Model(&line).
				Update("quantity", gorm.Expr("quantity + 1")).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		itemID := item.ID
		return tx.Create(&models.PackageItem{
			PackageID:    packageID,
			ItemID:       &itemID,
			ItemName:     item.Name,
			ItemImageUrl: item.ImageUrl,
			Quantity:     1,
		}).Error
	})
}

// RemoveLine decrements the matching line's quantity or deletes the line
// when its quantity would drop below 1.
func (s *PostgresStore) RemoveLine(ctx context.Context, packageID, itemID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := packageExists(tx, packageID); err != nil {
			return err
		}

		var line models.PackageItem
		err := tx.Where("package_id = ? AND item_id = ?", packageID, itemID).
			First(&line).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLineNotFound
		}
		if err != nil {
			return err
		}

		if line.Quantity > 1 {
			return tx.Model(&line).
				Update("quantity", gorm.Expr("quantity - 1")).Error
		}
		return tx.Delete(&line).Error
	})
}

func packageExists(tx *gorm.DB, id int64) error {
	var pkg models.Package
	err := tx.Select("id").First(&pkg, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrPackageNotFound
	}
	return err
}
