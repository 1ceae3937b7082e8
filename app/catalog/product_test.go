package catalog

import (
	"encoding/json"
	"testing"

	"github.com/prasetyowidi/selaras/app/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProductEndToEnd(t *testing.T) {
	e := newTestEngine(t)

	price := decimal.NewFromInt(25_000_000)
	orphan := mustMedia(t, e, "media/hall.jpg", nil)

	p, err := e.CreateProduct(ProductCreateInput{
		Name:            "Grand Wedding Package",
		Price:           &price,
		CategoryName:    ptr("Wedding"),
		CategorySubName: ptr("Venue"),
		Benefits: []BenefitRef{
			{Text: "Catering for 500"},
			{Text: "Sound system"},
		},
		MediaIDs: []uint{orphan.ID},
	})
	require.NoError(t, err)

	var cat models.Category
	require.NoError(t, e.db.First(&cat, p.CategoryID).Error)
	assert.Equal(t, "WEDDING_VENUE", cat.Code)

	assert.Len(t, benefitIDsOf(t, e, p.ID), 2)

	var media models.Media
	require.NoError(t, e.db.First(&media, orphan.ID).Error)
	require.NotNil(t, media.ProductID)
	assert.Equal(t, p.ID, *media.ProductID)

	cover := coverOf(t, e, p.ID)
	require.NotNil(t, cover)
	assert.Equal(t, orphan.ID, cover.MediaID)
}

func TestCreateProductAutoCoverPicksLastUploaded(t *testing.T) {
	e := newTestEngine(t)
	cat := mustCategory(t, e, "Wedding", nil)
	first := mustMedia(t, e, "media/first.jpg", nil)
	second := mustMedia(t, e, "media/second.jpg", nil)

	p, err := e.CreateProduct(ProductCreateInput{
		Name:       "Package",
		CategoryID: &cat.ID,
		MediaIDs:   []uint{first.ID, second.ID},
	})
	require.NoError(t, err)

	cover := coverOf(t, e, p.ID)
	require.NotNil(t, cover)
	assert.Equal(t, second.ID, cover.MediaID)
}

func TestCreateProductRequiresCategory(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.CreateProduct(ProductCreateInput{Name: "Loose Product"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "category", verr.Field)
}

func TestCreateProductUnknownCategoryID(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.CreateProduct(ProductCreateInput{
		Name:       "Loose Product",
		CategoryID: ptr(uint(404)),
	})
	var nerr *NotFoundError
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, "category", nerr.Entity)
}

func TestCreateProductRollsBackOnBadCover(t *testing.T) {
	e := newTestEngine(t)
	cat := mustCategory(t, e, "Wedding", nil)
	other := mustProduct(t, e, "Other", cat.ID)
	foreign := mustMedia(t, e, "media/x.jpg", &other.ID)

	_, err := e.CreateProduct(ProductCreateInput{
		Name:         "Broken",
		CategoryID:   &cat.ID,
		Benefits:     []BenefitRef{{Text: "Should not persist"}},
		CoverMediaID: OptionalID{Set: true, ID: &foreign.ID},
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	var products int64
	require.NoError(t, e.db.Model(&models.Product{}).
		Where("name = ?", "Broken").Count(&products).Error)
	assert.Zero(t, products)

	var benefits int64
	require.NoError(t, e.db.Model(&models.Benefit{}).Count(&benefits).Error)
	assert.Zero(t, benefits, "nothing from the failed transaction persists")
}

func TestCreateProductExplicitNullCoverWins(t *testing.T) {
	e := newTestEngine(t)
	cat := mustCategory(t, e, "Wedding", nil)
	orphan := mustMedia(t, e, "media/a.jpg", nil)

	var in ProductCreateInput
	body := `{"name":"No Cover","category_id":` + jsonID(cat.ID) +
		`,"media_ids":[` + jsonID(orphan.ID) + `],"cover_media_id":null}`
	require.NoError(t, json.Unmarshal([]byte(body), &in))
	require.True(t, in.CoverMediaID.Set)
	require.Nil(t, in.CoverMediaID.ID)

	p, err := e.CreateProduct(in)
	require.NoError(t, err)
	assert.Nil(t, coverOf(t, e, p.ID), "explicit null beats auto-selection")
}

func TestUpdateProductReplacesBenefitSet(t *testing.T) {
	e := newTestEngine(t)
	cat := mustCategory(t, e, "Wedding", nil)

	p, err := e.CreateProduct(ProductCreateInput{
		Name:       "Package",
		CategoryID: &cat.ID,
		Benefits: []BenefitRef{
			{Text: "Keep me"},
			{Text: "Drop me"},
		},
	})
	require.NoError(t, err)

	var keep models.Benefit
	require.NoError(t, e.db.Where("text = ?", "Keep me").First(&keep).Error)

	_, err = e.UpdateProduct(p.ID, ProductUpdateInput{
		Benefits: []BenefitRef{
			{ID: &keep.ID},
			{Text: "New one"},
		},
	})
	require.NoError(t, err)

	ids := benefitIDsOf(t, e, p.ID)
	require.Len(t, ids, 2)
	assert.Contains(t, ids, keep.ID)

	// The replaced benefit row itself survives for other products.
	var dropped models.Benefit
	require.NoError(t, e.db.Where("text = ?", "Drop me").First(&dropped).Error)
	assert.NotContains(t, ids, dropped.ID)
}

func TestUpdateProductNilBenefitsLeavesSetAlone(t *testing.T) {
	e := newTestEngine(t)
	cat := mustCategory(t, e, "Wedding", nil)

	p, err := e.CreateProduct(ProductCreateInput{
		Name:       "Package",
		CategoryID: &cat.ID,
		Benefits:   []BenefitRef{{Text: "Stays"}},
	})
	require.NoError(t, err)

	_, err = e.UpdateProduct(p.ID, ProductUpdateInput{Name: ptr("Renamed")})
	require.NoError(t, err)

	assert.Len(t, benefitIDsOf(t, e, p.ID), 1)
}

func TestUpdateProductEmptyBenefitsClearsSet(t *testing.T) {
	e := newTestEngine(t)
	cat := mustCategory(t, e, "Wedding", nil)

	p, err := e.CreateProduct(ProductCreateInput{
		Name:       "Package",
		CategoryID: &cat.ID,
		Benefits:   []BenefitRef{{Text: "Goes away"}},
	})
	require.NoError(t, err)

	var in ProductUpdateInput
	require.NoError(t, json.Unmarshal([]byte(`{"benefits":[]}`), &in))
	require.NotNil(t, in.Benefits)

	_, err = e.UpdateProduct(p.ID, in)
	require.NoError(t, err)
	assert.Empty(t, benefitIDsOf(t, e, p.ID))
}

func TestUpdateProductRemovedMediaScopedToOwner(t *testing.T) {
	e := newTestEngine(t)
	cat := mustCategory(t, e, "Wedding", nil)
	p1 := mustProduct(t, e, "Package A", cat.ID)
	p2 := mustProduct(t, e, "Package B", cat.ID)
	mine := mustMedia(t, e, "media/mine.jpg", &p1.ID)
	theirs := mustMedia(t, e, "media/theirs.jpg", &p2.ID)

	_, err := e.UpdateProduct(p1.ID, ProductUpdateInput{
		RemovedMediaIDs: []uint{mine.ID, theirs.ID},
	})
	require.NoError(t, err)

	var m models.Media
	require.NoError(t, e.db.First(&m, mine.ID).Error)
	assert.Nil(t, m.ProductID)

	require.NoError(t, e.db.First(&m, theirs.ID).Error)
	require.NotNil(t, m.ProductID)
	assert.Equal(t, p2.ID, *m.ProductID, "another product's media is left alone")
}

func TestUpdateProductMovingMediaRepairsBothCovers(t *testing.T) {
	e := newTestEngine(t)
	cat := mustCategory(t, e, "Wedding", nil)
	p1 := mustProduct(t, e, "Package A", cat.ID)
	p2 := mustProduct(t, e, "Package B", cat.ID)
	only := mustMedia(t, e, "media/only.jpg", &p1.ID)

	_, err := e.UpdateProduct(p2.ID, ProductUpdateInput{MediaIDs: []uint{only.ID}})
	require.NoError(t, err)

	assert.Nil(t, coverOf(t, e, p1.ID))
	cover := coverOf(t, e, p2.ID)
	require.NotNil(t, cover)
	assert.Equal(t, only.ID, cover.MediaID)
}

func TestUpdateProductCategorySwitchByName(t *testing.T) {
	e := newTestEngine(t)
	cat := mustCategory(t, e, "Wedding", nil)
	p := mustProduct(t, e, "Package", cat.ID)

	updated, err := e.UpdateProduct(p.ID, ProductUpdateInput{
		CategoryName: ptr("Corporate Events"),
	})
	require.NoError(t, err)
	assert.NotEqual(t, cat.ID, updated.CategoryID)

	var newCat models.Category
	require.NoError(t, e.db.First(&newCat, updated.CategoryID).Error)
	assert.Equal(t, "CORPORATE_EVENTS", newCat.Code)
}

func TestDeleteProductDetachesMediaAndClearsLinks(t *testing.T) {
	e := newTestEngine(t)
	cat := mustCategory(t, e, "Wedding", nil)

	p, err := e.CreateProduct(ProductCreateInput{
		Name:       "Package",
		CategoryID: &cat.ID,
		Benefits:   []BenefitRef{{Text: "Sound system"}},
	})
	require.NoError(t, err)
	m := mustMedia(t, e, "media/a.jpg", &p.ID)

	require.NoError(t, e.DeleteProduct(p.ID))

	var media models.Media
	require.NoError(t, e.db.First(&media, m.ID).Error)
	assert.Nil(t, media.ProductID)

	assert.Nil(t, coverOf(t, e, p.ID))
	assert.Empty(t, benefitIDsOf(t, e, p.ID))

	// The benefit itself survives.
	var benefits int64
	require.NoError(t, e.db.Model(&models.Benefit{}).Count(&benefits).Error)
	assert.EqualValues(t, 1, benefits)

	// The category is never deleted implicitly.
	var categories int64
	require.NoError(t, e.db.Model(&models.Category{}).Count(&categories).Error)
	assert.EqualValues(t, 1, categories)
}

func TestDeleteProductNotFound(t *testing.T) {
	e := newTestEngine(t)
	err := e.DeleteProduct(123)
	var nerr *NotFoundError
	require.ErrorAs(t, err, &nerr)
}

func jsonID(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}
