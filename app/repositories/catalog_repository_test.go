package repositories_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/prasetyowidi/selaras/app/catalog"
	"github.com/prasetyowidi/selaras/app/models"
	"github.com/prasetyowidi/selaras/app/repositories"
	"github.com/prasetyowidi/selaras/pkg/database"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "repo.db"))
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
	return db
}

func seedProduct(t *testing.T, engine *catalog.Engine, name, category string, benefits ...string) *models.Product {
	t.Helper()
	refs := make([]catalog.BenefitRef, 0, len(benefits))
	for _, b := range benefits {
		refs = append(refs, catalog.BenefitRef{Text: b})
	}
	p, err := engine.CreateProduct(catalog.ProductCreateInput{
		Name:         name,
		CategoryName: &category,
		Benefits:     refs,
	})
	require.NoError(t, err)
	return p
}

func TestGetProductAssemblesView(t *testing.T) {
	db := newTestDB(t)
	engine := catalog.New(db)
	repo := repositories.NewCatalogRepository(db)

	p := seedProduct(t, engine, "Grand Package", "Wedding", "Catering", "Sound system")
	m, err := engine.CreateMedia("media/hall.jpg", &p.ID)
	require.NoError(t, err)

	view, err := repo.GetProduct(p.ID)
	require.NoError(t, err)

	assert.Equal(t, "Grand Package", view.Name)
	assert.Equal(t, "WEDDING", view.CategoryCode)
	assert.Equal(t, "Wedding", view.CategoryName)
	require.Len(t, view.Benefits, 2)
	assert.Equal(t, "Catering", view.Benefits[0].Text, "benefits sorted by text")
	require.Len(t, view.Media, 1)
	require.NotNil(t, view.CoverMediaID)
	assert.Equal(t, m.ID, *view.CoverMediaID)
	require.NotNil(t, view.CoverPath)
	assert.Equal(t, "media/hall.jpg", *view.CoverPath)
}

func TestGetProductWithoutExtras(t *testing.T) {
	db := newTestDB(t)
	engine := catalog.New(db)
	repo := repositories.NewCatalogRepository(db)

	p := seedProduct(t, engine, "Bare Package", "Wedding")

	view, err := repo.GetProduct(p.ID)
	require.NoError(t, err)

	assert.NotNil(t, view.Benefits, "empty, not null, in JSON")
	assert.Empty(t, view.Benefits)
	assert.Empty(t, view.Media)
	assert.Nil(t, view.CoverMediaID)
}

func TestListProductsFilterAndPaging(t *testing.T) {
	db := newTestDB(t)
	engine := catalog.New(db)
	repo := repositories.NewCatalogRepository(db)

	seedProduct(t, engine, "Grand Wedding", "Wedding")
	seedProduct(t, engine, "Intimate Wedding", "Wedding")
	corporate := seedProduct(t, engine, "Corporate Gala", "Corporate")

	bySearch, err := repo.ListProducts(repositories.ProductFilter{Search: "wedding"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, bySearch.Total)

	byCategory, err := repo.ListProducts(repositories.ProductFilter{CategoryID: &corporate.CategoryID})
	require.NoError(t, err)
	require.Len(t, byCategory.Items, 1)
	assert.Equal(t, "Corporate Gala", byCategory.Items[0].Name)

	paged, err := repo.ListProducts(repositories.ProductFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, paged.Total)
	assert.Len(t, paged.Items, 1)
}

func TestListCategoriesCounts(t *testing.T) {
	db := newTestDB(t)
	engine := catalog.New(db)
	repo := repositories.NewCatalogRepository(db)

	seedProduct(t, engine, "A", "Wedding")
	seedProduct(t, engine, "B", "Wedding")
	_, err := engine.ResolveCategory(catalog.CategoryInput{Name: strPtr("Empty")})
	require.NoError(t, err)

	cats, err := repo.ListCategories("")
	require.NoError(t, err)
	require.Len(t, cats, 2)

	byName := map[string]int64{}
	for _, c := range cats {
		byName[c.Name] = c.ProductCount
	}
	assert.EqualValues(t, 2, byName["Wedding"])
	assert.EqualValues(t, 0, byName["Empty"])
}

func TestListBenefitsGrouped(t *testing.T) {
	db := newTestDB(t)
	engine := catalog.New(db)
	repo := repositories.NewCatalogRepository(db)

	seedProduct(t, engine, "A", "Wedding", "Zeta", "Alpha")

	groups, err := repo.ListBenefits()
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "General", groups[0].Name)
	require.Len(t, groups[0].Benefits, 2)
	assert.Equal(t, "Alpha", groups[0].Benefits[0].Text)
}

func strPtr(s string) *string { return &s }
