package repository

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/package-manager/backend/internal/models"
)

var (
	pgOnce  sync.Once
	pgStore *PostgresStore
	pgErr   error
)

// testPostgres returns a shared store against TEST_POSTGRES_DSN, skipping
// the test when the variable is unset.
func testPostgres(t *testing.T) *PostgresStore {
	t.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("set TEST_POSTGRES_DSN to run postgres store tests")
	}

	pgOnce.Do(func() {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err != nil {
			pgErr = err
			return
		}
		pgStore, pgErr = NewPostgresStore(db)
	})
	if pgErr != nil {
		t.Fatalf("failed to init postgres store: %v", pgErr)
	}
	return pgStore
}

func TestPostgresStore_AddAndRemoveLine(t *testing.T) {
	ctx := context.Background()
	store := testPostgres(t)

	item := &models.Item{Name: "MacBook Pro", ImageUrl: "https://example.com/mbp.png"}
	if err := store.Create(ctx, item); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	pkg := &models.Package{Name: "Shipment A"}
	if err := store.CreatePackage(ctx, pkg); err != nil {
		t.Fatalf("CreatePackage() error = %v", err)
	}

	// Two adds merge into a single line
	for i := 0; i < 2; i++ {
		if err := store.AddLine(ctx, pkg.ID, *item); err != nil {
			t.Fatalf("AddLine() call %d error = %v", i+1, err)
		}
	}
	got, err := store.GetPackageByID(ctx, pkg.ID)
	if err != nil {
		t.Fatalf("GetPackageByID() error = %v", err)
	}
	if len(got.Items) != 1 {
		t.Fatalf("expected one merged line, got %d", len(got.Items))
	}
	if got.Items[0].Quantity != 2 {
		t.Errorf("line quantity = %d, want 2", got.Items[0].Quantity)
	}

	// Removal decrements, then deletes
	if err := store.RemoveLine(ctx, pkg.ID, item.ID); err != nil {
		t.Fatalf("RemoveLine() error = %v", err)
	}
	got, _ = store.GetPackageByID(ctx, pkg.ID)
	if len(got.Items) != 1 {
		t.Fatalf("line should remain at quantity 1, got %d lines", len(got.Items))
	}
	if err := store.RemoveLine(ctx, pkg.ID, item.ID); err != nil {
		t.Fatalf("RemoveLine() error = %v", err)
	}
	got, _ = store.GetPackageByID(ctx, pkg.ID)
	if len(got.Items) != 0 {
		t.Fatalf("line should be gone, got %d lines", len(got.Items))
	}
	if err := store.RemoveLine(ctx, pkg.ID, item.ID); !errors.Is(err, ErrLineNotFound) {
		t.Errorf("RemoveLine() past zero error = %v, want ErrLineNotFound", err)
	}
}

func TestPostgresStore_DeletePackageCascades(t *testing.T) {
	ctx := context.Background()
	store := testPostgres(t)

	item := &models.Item{Name: "Charger"}
	if err := store.Create(ctx, item); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	pkg := &models.Package{Name: "Shipment B"}
	if err := store.CreatePackage(ctx, pkg); err != nil {
		t.Fatalf("CreatePackage() error = %v", err)
	}
	if err := store.AddLine(ctx, pkg.ID, *item); err != nil {
		t.Fatalf("AddLine() error = %v", err)
	}

	if err := store.DeletePackage(ctx, pkg.ID); err != nil {
		t.Fatalf("DeletePackage() error = %v", err)
	}
	if _, err := store.GetPackageByID(ctx, pkg.ID); !errors.Is(err, ErrPackageNotFound) {
		t.Errorf("GetPackageByID() after delete error = %v, want ErrPackageNotFound", err)
	}

	var count int64
	if err := store.db.Model(&models.PackageItem{}).
		Where("package_id = ?", pkg.ID).Count(&count).Error; err != nil {
		t.Fatalf("failed to count orphan lines: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no orphaned lines, found %d", count)
	}
}

func TestPostgresStore_DeleteItemClearsLineReference(t *testing.T) {
	ctx := context.Background()
	store := testPostgres(t)

	item := &models.Item{Name: "Whoop Band"}
	if err := store.Create(ctx, item); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	pkg := &models.Package{Name: "Shipment C"}
	if err := store.CreatePackage(ctx, pkg); err != nil {
		t.Fatalf("CreatePackage() error = %v", err)
	}
	if err := store.AddLine(ctx, pkg.ID, *item); err != nil {
		t.Fatalf("AddLine() error = %v", err)
	}

	if err := store.Delete(ctx, item.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	got, _ := store.GetPackageByID(ctx, pkg.ID)
	if len(got.Items) != 1 {
		t.Fatalf("line should survive catalog deletion, got %d lines", len(got.Items))
	}
	if got.Items[0].ItemID != nil {
		t.Errorf("line itemId should be nil after catalog deletion")
	}
	if got.Items[0].ItemName != "Whoop Band" {
		t.Errorf("line lost its copied name: %q", got.Items[0].ItemName)
	}
}
