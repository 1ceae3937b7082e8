package models

import "time"

// Media is an uploaded file. ProductID is nullable: an item may sit unowned
// between upload and product save, or after its product detaches it.
type Media struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID *uint     `gorm:"index" json:"product_id"`
	Path      string    `gorm:"size:500;not null" json:"path"`
	CreatedAt time.Time `json:"created_at"`
}

func (Media) TableName() string { return "media" }

// CoverMedia designates one media item as a product's representative image.
// At most one row per product; the referenced media must belong to the same
// product. The catalog engine restores this invariant whenever an operation
// would otherwise break it.
type CoverMedia struct {
	ProductID uint `gorm:"primaryKey;autoIncrement:false" json:"product_id"`
	MediaID   uint `gorm:"not null" json:"media_id"`
}

func (CoverMedia) TableName() string { return "cover_media" }
