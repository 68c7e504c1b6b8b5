package models

// Item is a reusable catalog entry that can be packed into packages.
// ImageUrl may be an external URL or a data-URL-encoded image pasted in
// from the settings screen.
type Item struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:200;not null" json:"name"`
	ImageUrl string `gorm:"type:text" json:"imageUrl,omitempty"`
}
