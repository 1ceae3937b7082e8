package models

import "time"

// Category groups products. Code is the canonical identity: a normalized,
// case-insensitively unique uppercase identifier derived from the name and
// sub-name when the caller does not supply one.
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null;index" json:"name"`
	SubName     *string   `gorm:"size:255" json:"sub_name"`
	Code        string    `gorm:"size:255;uniqueIndex;not null" json:"code"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Category) TableName() string { return "categories" }

// BenefitCategory is an optional grouping for benefit line items.
// A default "General" row is created lazily the first time a benefit
// needs a fallback.
type BenefitCategory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (BenefitCategory) TableName() string { return "benefit_categories" }
