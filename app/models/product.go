package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a service package offered under exactly one category.
type Product struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	CategoryID uint             `gorm:"not null;index" json:"category_id"`
	Name       string           `gorm:"size:255;not null" json:"name"`
	Price      *decimal.Decimal `gorm:"type:decimal(12,2)" json:"price"`
	CreatedAt  time.Time        `json:"created_at"`
}

func (Product) TableName() string { return "products" }

// Benefit is a reusable line item ("Photography", "Catering", …).
// Identity is the exact text value.
type Benefit struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Text              string    `gorm:"size:500;uniqueIndex;not null" json:"text"`
	BenefitCategoryID uint      `gorm:"not null;index" json:"benefit_category_id"`
	CreatedAt         time.Time `json:"created_at"`
}

func (Benefit) TableName() string { return "benefits" }

// ProductBenefit links a product to a benefit. The pair is the identity;
// the whole set is owned by the product and replaced wholesale on update.
type ProductBenefit struct {
	ProductID uint `gorm:"primaryKey;autoIncrement:false" json:"product_id"`
	BenefitID uint `gorm:"primaryKey;autoIncrement:false" json:"benefit_id"`
}

func (ProductBenefit) TableName() string { return "product_benefits" }
