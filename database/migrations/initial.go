package migrations

import (
	"gorm.io/gorm"

	"github.com/prasetyowidi/selaras/app/models"
	"github.com/prasetyowidi/selaras/pkg/migration"
)

func init() {
	migration.Register("20260815000000_create_users_table", &CreateUsersTable{})
	migration.Register("20260815000001_create_categories_table", &CreateCategoriesTable{})
	migration.Register("20260815000002_create_products_table", &CreateProductsTable{})
	migration.Register("20260815000003_create_benefits_tables", &CreateBenefitsTables{})
	migration.Register("20260815000004_create_media_tables", &CreateMediaTables{})
}

// -------- 0000: users --------

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("users")
}

// -------- 0001: categories --------

type CreateCategoriesTable struct{}

func (m *CreateCategoriesTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Category{})
}

func (m *CreateCategoriesTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("categories")
}

// -------- 0002: products --------

type CreateProductsTable struct{}

func (m *CreateProductsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}

func (m *CreateProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("products")
}

// -------- 0003: benefits, benefit_categories, product_benefits --------

type CreateBenefitsTables struct{}

func (m *CreateBenefitsTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.BenefitCategory{},
		&models.Benefit{},
		&models.ProductBenefit{},
	)
}

func (m *CreateBenefitsTables) Down(db *gorm.DB) error {
	for _, table := range []string{"product_benefits", "benefits", "benefit_categories"} {
		if err := db.Migrator().DropTable(table); err != nil {
			return err
		}
	}
	return nil
}

// -------- 0004: media, cover_media --------

type CreateMediaTables struct{}

func (m *CreateMediaTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Media{}, &models.CoverMedia{})
}

func (m *CreateMediaTables) Down(db *gorm.DB) error {
	for _, table := range []string{"cover_media", "media"} {
		if err := db.Migrator().DropTable(table); err != nil {
			return err
		}
	}
	return nil
}
