package models

import "time"

// Package represents a shipment unit assembled from catalog items.
type Package struct {
	ID          int64         `gorm:"primaryKey" json:"id"`
	Name        string        `gorm:"size:200;not null" json:"name"`
	BoxSize     string        `gorm:"size:50" json:"boxSize,omitempty"`
	TotalWeight float64       `gorm:"type:numeric(10,2)" json:"totalWeight"`
	IsCompleted bool          `json:"isCompleted"`
	CreatedDate time.Time     `json:"createdDate"`
	Items       []PackageItem `gorm:"foreignKey:PackageID;constraint:OnDelete:CASCADE" json:"items"`
}

// PackageItem is one catalog item's quantity within a package.
//
// ItemName and ItemImageUrl are copied from the catalog item when the line
// is created and are never resynchronized; catalog edits or deletes must not
// retroactively alter an assembled package. ItemID is only used to match
// lines on repeat adds and becomes nil if the catalog item is deleted.
type PackageItem struct {
	ID           int64  `gorm:"primaryKey" json:"id"`
	PackageID    int64  `gorm:"index;not null" json:"-"`
	ItemID       *int64 `gorm:"index" json:"itemId,omitempty"`
	ItemName     string `gorm:"size:200;not null" json:"itemName"`
	ItemImageUrl string `gorm:"type:text" json:"itemImageUrl,omitempty"`
	Quantity     int    `gorm:"not null;default:1" json:"quantity"`
}

// TotalQuantity returns the sum of all line quantities.
func (p *Package) TotalQuantity() int {
	total := 0
	for _, item := range p.Items {
		total += item.Quantity
	}
	return total
}

// FindLine returns the line referencing the given catalog item, or nil.
func (p *Package) FindLine(itemID int64) *PackageItem {
	for i := range p.Items {
		if p.Items[i].ItemID != nil && *p.Items[i].ItemID == itemID {
			return &p.Items[i]
		}
	}
	return nil
}
