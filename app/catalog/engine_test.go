package catalog

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/prasetyowidi/selaras/app/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "catalog.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Category{},
		&models.BenefitCategory{},
		&models.Benefit{},
		&models.Product{},
		&models.ProductBenefit{},
		&models.Media{},
		&models.CoverMedia{},
	))

	return New(db)
}

func mustCategory(t *testing.T, e *Engine, name string, sub *string) *models.Category {
	t.Helper()
	cat, err := e.ResolveCategory(CategoryInput{Name: &name, SubName: sub})
	require.NoError(t, err)
	return cat
}

func mustProduct(t *testing.T, e *Engine, name string, categoryID uint) *models.Product {
	t.Helper()
	p, err := e.CreateProduct(ProductCreateInput{Name: name, CategoryID: &categoryID})
	require.NoError(t, err)
	return p
}

func mustMedia(t *testing.T, e *Engine, path string, productID *uint) *models.Media {
	t.Helper()
	m, err := e.CreateMedia(path, productID)
	require.NoError(t, err)
	return m
}

func coverOf(t *testing.T, e *Engine, productID uint) *models.CoverMedia {
	t.Helper()
	var cover models.CoverMedia
	err := e.db.Where("product_id = ?", productID).First(&cover).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	require.NoError(t, err)
	return &cover
}

func benefitIDsOf(t *testing.T, e *Engine, productID uint) []uint {
	t.Helper()
	var ids []uint
	require.NoError(t, e.db.Model(&models.ProductBenefit{}).
		Where("product_id = ?", productID).
		Order("benefit_id ASC").
		Pluck("benefit_id", &ids).Error)
	return ids
}

func ptr[T any](v T) *T { return &v }
