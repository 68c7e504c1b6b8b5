package mirror

import (
	"context"
	"errors"

	"github.com/package-manager/backend/internal/models"
	"github.com/package-manager/backend/internal/search"
	"github.com/package-manager/backend/internal/service"
)

// DefaultBoxSizes are the standard box sizes offered when editing a
// package. Free-text sizes remain valid.
var DefaultBoxSizes = []string{"26x16x15", "24x20x20"}

// ErrNoPackage is returned from commands issued before a package is loaded
// or created.
var ErrNoPackage = errors.New("no package loaded")

// PackageMirror holds a session-local copy of one package plus a cached
// catalog snapshot. Mutations are sent to the server first; only after the
// server acknowledges does the mirror apply the same rule locally, so a
// failed command never leaves speculative state behind. The mirror is
// never authoritative: reloading always defers to the server.
type PackageMirror struct {
	client  *Client
	engine  *search.Engine
	pkg     *models.Package
	catalog []models.Item
}

// NewPackageMirror creates a mirror using the given client and search
// engine. The engine filters the cached catalog entirely client-side.
func NewPackageMirror(client *Client, engine *search.Engine) *PackageMirror {
	return &PackageMirror{
		client: client,
		engine: engine,
	}
}

// Package returns the mirrored package, or nil before Load/Create.
func (m *PackageMirror) Package() *models.Package {
	return m.pkg
}

// Load fetches the package from the server, replacing any local copy.
func (m *PackageMirror) Load(ctx context.Context, id int64) error {
	pkg, err := m.client.GetPackage(ctx, id)
	if err != nil {
		return err
	}
	m.pkg = pkg
	return nil
}

// Create creates a new package on the server and mirrors it.
func (m *PackageMirror) Create(ctx context.Context, name, boxSize string) error {
	pkg, err := m.client.CreatePackage(ctx, models.CreatePackageRequest{
		Name:    name,
		BoxSize: boxSize,
	})
	if err != nil {
		return err
	}
	m.pkg = pkg
	return nil
}

// LoadAliases fetches the server's alias table and rebuilds the filter
// engine from it, so filtering matches the deployment's configured
// expansions instead of the built-in defaults.
func (m *PackageMirror) LoadAliases(ctx context.Context) error {
	aliases, err := m.client.SearchAliases(ctx)
	if err != nil {
		return err
	}
	m.engine = search.NewEngine(aliases)
	return nil
}

// LoadCatalog fetches the item catalog snapshot used for filtering.
func (m *PackageMirror) LoadCatalog(ctx context.Context) error {
	items, err := m.client.ListItems(ctx)
	if err != nil {
		return err
	}
	m.catalog = items
	return nil
}

// FilterCatalog filters the cached catalog by the query, expanded through
// the alias table. Order is preserved; an empty query returns everything.
func (m *PackageMirror) FilterCatalog(query string) []models.Item {
	return m.engine.Filter(m.catalog, query)
}

// AddItem adds one unit of the catalog item to the package. On success the
// mirror applies the merge rule locally: an existing line's quantity is
// incremented, otherwise a line with quantity 1 is appended copying the
// item's name and image.
func (m *PackageMirror) AddItem(ctx context.Context, item models.Item) error {
	if m.pkg == nil {
		return ErrNoPackage
	}

	if err := m.client.AddItem(ctx, m.pkg.ID, item.ID); err != nil {
		return err
	}

	if line := m.pkg.FindLine(item.ID); line != nil {
		line.Quantity++
		return nil
	}

	itemID := item.ID
	m.pkg.Items = append(m.pkg.Items, models.PackageItem{
		ItemID:       &itemID,
		ItemName:     item.Name,
		ItemImageUrl: item.ImageUrl,
		Quantity:     1,
	})
	return nil
}

// RemoveItem removes one unit of the catalog item from the package. On
// success the mirror decrements the local line, dropping it at zero. The
// caller must not remove past zero; the server rejects that with a 404 and
// the local copy stays untouched.
func (m *PackageMirror) RemoveItem(ctx context.Context, itemID int64) error {
	if m.pkg == nil {
		return ErrNoPackage
	}

	if err := m.client.RemoveItem(ctx, m.pkg.ID, itemID); err != nil {
		return err
	}

	for i := range m.pkg.Items {
		line := &m.pkg.Items[i]
		if line.ItemID == nil || *line.ItemID != itemID {
			continue
		}
		if line.Quantity > 1 {
			line.Quantity--
		} else {
			m.pkg.Items = append(m.pkg.Items[:i], m.pkg.Items[i+1:]...)
		}
		return nil
	}
	return nil
}

// SetBoxSize writes the box size, skipping the remote call when the value
// matches the last known committed one.
func (m *PackageMirror) SetBoxSize(ctx context.Context, boxSize string) error {
	if m.pkg == nil {
		return ErrNoPackage
	}
	if boxSize == m.pkg.BoxSize {
		return nil
	}

	if err := m.client.SetBoxSize(ctx, m.pkg.ID, boxSize); err != nil {
		return err
	}
	m.pkg.BoxSize = boxSize
	return nil
}

// SetWeight writes the total weight, skipping the remote call when the
// value matches the last known committed one.
func (m *PackageMirror) SetWeight(ctx context.Context, weight float64) error {
	if m.pkg == nil {
		return ErrNoPackage
	}
	if weight == m.pkg.TotalWeight {
		return nil
	}

	if err := m.client.SetWeight(ctx, m.pkg.ID, weight); err != nil {
		return err
	}
	m.pkg.TotalWeight = weight
	return nil
}

// Complete marks the package completed, then reloads it from the server.
func (m *PackageMirror) Complete(ctx context.Context) error {
	if m.pkg == nil {
		return ErrNoPackage
	}
	if err := m.client.Complete(ctx, m.pkg.ID); err != nil {
		return err
	}
	return m.Load(ctx, m.pkg.ID)
}

// Uncomplete marks the package in progress again, then reloads it.
func (m *PackageMirror) Uncomplete(ctx context.Context) error {
	if m.pkg == nil {
		return ErrNoPackage
	}
	if err := m.client.Uncomplete(ctx, m.pkg.ID); err != nil {
		return err
	}
	return m.Load(ctx, m.pkg.ID)
}

// Report renders the mirrored package as a plain-text packing report.
func (m *PackageMirror) Report() string {
	if m.pkg == nil {
		return ""
	}
	return service.GenerateReport(m.pkg)
}
