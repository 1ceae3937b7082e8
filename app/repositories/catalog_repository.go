// Package repositories holds the read side of the catalog: denormalized
// views assembled for the API, with a redis cache in front of the heavier
// list queries.
package repositories

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/prasetyowidi/selaras/app/models"
	"github.com/prasetyowidi/selaras/pkg/cache"
)

const cacheTTL = 5 * time.Minute

// versionKey holds an opaque token that is rotated on every write, which
// makes all previously cached list keys unreachable without scanning.
const versionKey = "selaras:catalog:ver"

// ProductView is the denormalized product shape served by the API.
type ProductView struct {
	ID              uint             `json:"id"`
	Name            string           `json:"name"`
	Price           *decimal.Decimal `json:"price"`
	CategoryID      uint             `json:"category_id"`
	CategoryName    string           `json:"category_name"`
	CategorySubName *string          `json:"category_sub_name"`
	CategoryCode    string           `json:"category_code"`
	Benefits        []BenefitView    `json:"benefits"`
	Media           []MediaView      `json:"media"`
	CoverMediaID    *uint            `json:"cover_media_id"`
	CoverPath       *string          `json:"cover_path"`
	CreatedAt       time.Time        `json:"created_at"`
}

type BenefitView struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

type MediaView struct {
	ID   uint   `json:"id"`
	Path string `json:"path"`
}

// CategoryView adds a product count to the category row.
type CategoryView struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	SubName      *string   `json:"sub_name"`
	Code         string    `json:"code"`
	Description  string    `json:"description"`
	ProductCount int64     `json:"product_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type BenefitCategoryView struct {
	ID       uint          `json:"id"`
	Name     string        `json:"name"`
	Benefits []BenefitView `json:"benefits"`
}

// Meta summarizes catalog size for the admin dashboard.
type Meta struct {
	Products   int64 `json:"products"`
	Categories int64 `json:"categories"`
	Benefits   int64 `json:"benefits"`
	Media      int64 `json:"media"`
}

// ProductFilter narrows and pages ListProducts.
type ProductFilter struct {
	Search     string
	CategoryID *uint
	Page       int
	Limit      int
}

// ProductPage is one page of products plus totals for the pager.
type ProductPage struct {
	Items []ProductView `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// InvalidateCache rotates the cache version token. Controllers call it
// after any successful catalog write.
func (r *CatalogRepository) InvalidateCache() {
	_ = cache.Set(versionKey, uuid.NewString(), 0)
}

func (r *CatalogRepository) cacheVersion() string {
	var ver string
	if cache.Get(versionKey, &ver) && ver != "" {
		return ver
	}
	ver = uuid.NewString()
	_ = cache.Set(versionKey, ver, 0)
	return ver
}

// GetProduct assembles the full product view or returns
// gorm.ErrRecordNotFound.
func (r *CatalogRepository) GetProduct(id uint) (*ProductView, error) {
	var p models.Product
	if err := r.db.First(&p, id).Error; err != nil {
		return nil, err
	}

	views, err := r.assemble([]models.Product{p})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListProducts returns one filtered page, served from cache when the
// identical query was answered since the last write.
func (r *CatalogRepository) ListProducts(f ProductFilter) (*ProductPage, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}

	catKey := "all"
	if f.CategoryID != nil {
		catKey = fmt.Sprint(*f.CategoryID)
	}
	key := fmt.Sprintf("selaras:%s:products:q=%s:c=%s:p=%d:l=%d",
		r.cacheVersion(), strings.ToLower(f.Search), catKey, f.Page, f.Limit)

	var cached ProductPage
	if cache.Get(key, &cached) {
		return &cached, nil
	}

	q := r.db.Model(&models.Product{})
	if f.Search != "" {
		q = q.Where("lower(name) LIKE ?", "%"+strings.ToLower(f.Search)+"%")
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []models.Product
	err := q.Order("id DESC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	items, err := r.assemble(rows)
	if err != nil {
		return nil, err
	}

	page := &ProductPage{Items: items, Total: total, Page: f.Page, Limit: f.Limit}
	_ = cache.Set(key, page, cacheTTL)
	return page, nil
}

// ListCategories returns categories with product counts, optionally
// filtered by a name/code substring.
func (r *CatalogRepository) ListCategories(search string) ([]CategoryView, error) {
	key := fmt.Sprintf("selaras:%s:categories:q=%s", r.cacheVersion(), strings.ToLower(search))
	var cached []CategoryView
	if cache.Get(key, &cached) {
		return cached, nil
	}

	q := r.db.Model(&models.Category{})
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("lower(name) LIKE ? OR lower(code) LIKE ?", like, like)
	}

	var cats []models.Category
	if err := q.Order("name ASC").Find(&cats).Error; err != nil {
		return nil, err
	}

	type countRow struct {
		CategoryID uint
		N          int64
	}
	var counts []countRow
	err := r.db.Model(&models.Product{}).
		Select("category_id, count(*) as n").
		Group("category_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	byCat := make(map[uint]int64, len(counts))
	for _, c := range counts {
		byCat[c.CategoryID] = c.N
	}

	out := make([]CategoryView, 0, len(cats))
	for _, c := range cats {
		out = append(out, CategoryView{
			ID:           c.ID,
			Name:         c.Name,
			SubName:      c.SubName,
			Code:         c.Code,
			Description:  c.Description,
			ProductCount: byCat[c.ID],
			CreatedAt:    c.CreatedAt,
		})
	}
	_ = cache.Set(key, out, cacheTTL)
	return out, nil
}

// ListBenefits groups all benefits under their benefit categories.
func (r *CatalogRepository) ListBenefits() ([]BenefitCategoryView, error) {
	key := fmt.Sprintf("selaras:%s:benefits", r.cacheVersion())
	var cached []BenefitCategoryView
	if cache.Get(key, &cached) {
		return cached, nil
	}

	var cats []models.BenefitCategory
	if err := r.db.Order("id ASC").Find(&cats).Error; err != nil {
		return nil, err
	}
	var benefits []models.Benefit
	if err := r.db.Order("text ASC").Find(&benefits).Error; err != nil {
		return nil, err
	}

	byCat := make(map[uint][]BenefitView)
	for _, b := range benefits {
		byCat[b.BenefitCategoryID] = append(byCat[b.BenefitCategoryID], BenefitView{ID: b.ID, Text: b.Text})
	}

	out := make([]BenefitCategoryView, 0, len(cats))
	for _, c := range cats {
		out = append(out, BenefitCategoryView{ID: c.ID, Name: c.Name, Benefits: byCat[c.ID]})
	}
	_ = cache.Set(key, out, cacheTTL)
	return out, nil
}

// GetMedia fetches a single media row.
func (r *CatalogRepository) GetMedia(id uint) (*models.Media, error) {
	var m models.Media
	if err := r.db.First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// Meta returns row counts for the dashboard.
func (r *CatalogRepository) Meta() (*Meta, error) {
	var m Meta
	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&models.Product{}, &m.Products},
		{&models.Category{}, &m.Categories},
		{&models.Benefit{}, &m.Benefits},
		{&models.Media{}, &m.Media},
	}
	for _, c := range counts {
		if err := r.db.Model(c.model).Count(c.dest).Error; err != nil {
			return nil, err
		}
	}
	return &m, nil
}

// assemble batch-loads categories, benefits, media and covers for a set of
// products and stitches the views together.
func (r *CatalogRepository) assemble(products []models.Product) ([]ProductView, error) {
	if len(products) == 0 {
		return []ProductView{}, nil
	}

	productIDs := make([]uint, 0, len(products))
	catIDs := make([]uint, 0, len(products))
	for _, p := range products {
		productIDs = append(productIDs, p.ID)
		catIDs = append(catIDs, p.CategoryID)
	}

	var cats []models.Category
	if err := r.db.Where("id IN ?", catIDs).Find(&cats).Error; err != nil {
		return nil, err
	}
	catByID := make(map[uint]models.Category, len(cats))
	for _, c := range cats {
		catByID[c.ID] = c
	}

	type linkRow struct {
		ProductID uint
		BenefitID uint
		Text      string
	}
	var links []linkRow
	err := r.db.Model(&models.ProductBenefit{}).
		Select("product_benefits.product_id, product_benefits.benefit_id, benefits.text").
		Joins("JOIN benefits ON benefits.id = product_benefits.benefit_id").
		Where("product_benefits.product_id IN ?", productIDs).
		Order("benefits.text ASC").
		Scan(&links).Error
	if err != nil {
		return nil, err
	}
	benefitsByProduct := make(map[uint][]BenefitView)
	for _, l := range links {
		benefitsByProduct[l.ProductID] = append(benefitsByProduct[l.ProductID],
			BenefitView{ID: l.BenefitID, Text: l.Text})
	}

	var media []models.Media
	if err := r.db.Where("product_id IN ?", productIDs).Order("id ASC").Find(&media).Error; err != nil {
		return nil, err
	}
	mediaByProduct := make(map[uint][]MediaView)
	pathByMedia := make(map[uint]string)
	for _, m := range media {
		pathByMedia[m.ID] = m.Path
		if m.ProductID != nil {
			mediaByProduct[*m.ProductID] = append(mediaByProduct[*m.ProductID],
				MediaView{ID: m.ID, Path: m.Path})
		}
	}

	var covers []models.CoverMedia
	if err := r.db.Where("product_id IN ?", productIDs).Find(&covers).Error; err != nil {
		return nil, err
	}
	coverByProduct := make(map[uint]uint, len(covers))
	for _, c := range covers {
		coverByProduct[c.ProductID] = c.MediaID
	}

	out := make([]ProductView, 0, len(products))
	for _, p := range products {
		view := ProductView{
			ID:         p.ID,
			Name:       p.Name,
			Price:      p.Price,
			CategoryID: p.CategoryID,
			Benefits:   orEmptyBenefits(benefitsByProduct[p.ID]),
			Media:      orEmptyMedia(mediaByProduct[p.ID]),
			CreatedAt:  p.CreatedAt,
		}
		if cat, ok := catByID[p.CategoryID]; ok {
			view.CategoryName = cat.Name
			view.CategorySubName = cat.SubName
			view.CategoryCode = cat.Code
		}
		if mid, ok := coverByProduct[p.ID]; ok {
			id := mid
			view.CoverMediaID = &id
			if path, ok := pathByMedia[mid]; ok {
				view.CoverPath = &path
			} else if err := r.fillCoverPath(&view, mid); err != nil {
				return nil, err
			}
		}
		out = append(out, view)
	}
	return out, nil
}

// fillCoverPath covers the rare window where a cover points at media not in
// the batch (concurrent reassignment between queries).
func (r *CatalogRepository) fillCoverPath(view *ProductView, mediaID uint) error {
	var m models.Media
	err := r.db.First(&m, mediaID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	view.CoverPath = &m.Path
	return nil
}

func orEmptyBenefits(v []BenefitView) []BenefitView {
	if v == nil {
		return []BenefitView{}
	}
	return v
}

func orEmptyMedia(v []MediaView) []MediaView {
	if v == nil {
		return []MediaView{}
	}
	return v
}
