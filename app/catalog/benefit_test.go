package catalog

import (
	"testing"

	"github.com/prasetyowidi/selaras/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveBenefitsMixedRefs(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.db.Create(&models.BenefitCategory{Name: "General"}).Error)
	existing := models.Benefit{Text: "Free parking", BenefitCategoryID: 1}
	require.NoError(t, e.db.Create(&existing).Error)

	ids, err := e.ResolveBenefits([]BenefitRef{
		{ID: &existing.ID},
		{Text: "Catering for 200"},
		{Text: "Free parking"},
	})
	require.NoError(t, err)
	require.Len(t, ids, 3)

	assert.Equal(t, existing.ID, ids[0])
	assert.Equal(t, existing.ID, ids[2], "same text resolves to the existing row")
	assert.NotEqual(t, ids[0], ids[1])
}

func TestResolveBenefitsSkipsBlankAndPreservesOccurrences(t *testing.T) {
	e := newTestEngine(t)

	ids, err := e.ResolveBenefits([]BenefitRef{
		{Text: "Sound system"},
		{Text: "   "},
		{Text: "Sound system"},
	})
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.Equal(t, ids[0], ids[1])

	var count int64
	require.NoError(t, e.db.Model(&models.Benefit{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestResolveBenefitsCreatesDefaultCategoryLazily(t *testing.T) {
	e := newTestEngine(t)

	// Id-only refs must not create a benefit category.
	_, err := e.ResolveBenefits([]BenefitRef{{ID: ptr(uint(42))}})
	require.NoError(t, err)

	var count int64
	require.NoError(t, e.db.Model(&models.BenefitCategory{}).Count(&count).Error)
	assert.Zero(t, count)

	_, err = e.ResolveBenefits([]BenefitRef{{Text: "Decorations"}})
	require.NoError(t, err)

	var cat models.BenefitCategory
	require.NoError(t, e.db.First(&cat).Error)
	assert.Equal(t, "General", cat.Name)
}

func TestResolveBenefitsReusesFirstExistingCategory(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.db.Create(&models.BenefitCategory{Name: "Logistics"}).Error)

	_, err := e.ResolveBenefits([]BenefitRef{{Text: "Shuttle service"}})
	require.NoError(t, err)

	var count int64
	require.NoError(t, e.db.Model(&models.BenefitCategory{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "no extra default category created")

	var b models.Benefit
	require.NoError(t, e.db.Where("text = ?", "Shuttle service").First(&b).Error)
	assert.EqualValues(t, 1, b.BenefitCategoryID)
}

func TestResolveBenefitCategoryByName(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.db.Create(&models.BenefitCategory{Name: "Logistics"}).Error)

	id, err := e.ResolveBenefitCategory(nil, "logistics")
	require.NoError(t, err)
	assert.EqualValues(t, 1, id)

	id2, err := e.ResolveBenefitCategory(nil, "Entertainment")
	require.NoError(t, err)
	assert.NotEqual(t, id, id2)
}

func TestResolveBenefitCategoryUnknownID(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.ResolveBenefitCategory(ptr(uint(7)), "")
	var nerr *NotFoundError
	require.ErrorAs(t, err, &nerr)
}

func TestCreateBenefitDuplicateConflicts(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.CreateBenefit(BenefitInput{Text: "Live band"})
	require.NoError(t, err)

	_, err = e.CreateBenefit(BenefitInput{Text: "Live band"})
	var cerr *ConflictError
	require.ErrorAs(t, err, &cerr)
}

func TestUpdateBenefitTextAndCategory(t *testing.T) {
	e := newTestEngine(t)

	b, err := e.CreateBenefit(BenefitInput{Text: "Live band"})
	require.NoError(t, err)

	updated, err := e.UpdateBenefit(b.ID, BenefitUpdateInput{
		Text:                ptr("Live band (4 hours)"),
		BenefitCategoryName: ptr("Entertainment"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Live band (4 hours)", updated.Text)
	assert.NotEqual(t, b.BenefitCategoryID, updated.BenefitCategoryID)
}

func TestDeleteBenefitClearsAssociations(t *testing.T) {
	e := newTestEngine(t)
	cat := mustCategory(t, e, "Wedding", nil)

	p, err := e.CreateProduct(ProductCreateInput{
		Name:       "Full Package",
		CategoryID: &cat.ID,
		Benefits:   []BenefitRef{{Text: "Sound system"}},
	})
	require.NoError(t, err)

	ids := benefitIDsOf(t, e, p.ID)
	require.Len(t, ids, 1)

	require.NoError(t, e.DeleteBenefit(ids[0]))

	assert.Empty(t, benefitIDsOf(t, e, p.ID))

	var product models.Product
	require.NoError(t, e.db.First(&product, p.ID).Error)
}
