package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/prasetyowidi/selaras/app/models"
	"github.com/prasetyowidi/selaras/pkg/metrics"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultBenefitCategory is the name used when a benefit must be created
// and no benefit category was specified.
const DefaultBenefitCategory = "General"

// ResolveBenefits maps each reference to a benefit id, creating rows for
// unknown texts. Blank texts are skipped; duplicate texts resolve to the
// same id, one output entry per occurrence.
func (e *Engine) ResolveBenefits(refs []BenefitRef) ([]uint, error) {
	var ids []uint
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var err error
		ids, err = e.resolveBenefitsTx(tx, refs)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (e *Engine) resolveBenefitsTx(tx *gorm.DB, refs []BenefitRef) ([]uint, error) {
	ids := make([]uint, 0, len(refs))

	// The fallback category is resolved at most once per call, and only
	// when a benefit actually has to be created.
	var catID uint

	for _, ref := range refs {
		if ref.ID != nil {
			ids = append(ids, *ref.ID)
			continue
		}

		text := strings.TrimSpace(ref.Text)
		if text == "" {
			continue
		}

		var existing models.Benefit
		err := tx.Where("text = ?", text).First(&existing).Error
		if err == nil {
			ids = append(ids, existing.ID)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("benefit lookup: %w", err)
		}

		if catID == 0 {
			var err error
			catID, err = e.resolveBenefitCategoryTx(tx, nil, "")
			if err != nil {
				return nil, err
			}
		}

		// Insert-or-ignore so a concurrent writer landing the same text
		// first does not fail the whole call.
		row := models.Benefit{Text: text, BenefitCategoryID: catID}
		err = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
		if err != nil {
			return nil, fmt.Errorf("benefit insert: %w", err)
		}

		if err := tx.Where("text = ?", text).First(&existing).Error; err != nil {
			return nil, fmt.Errorf("benefit re-read: %w", err)
		}
		ids = append(ids, existing.ID)
		metrics.BenefitsCreated.Inc()
	}
	return ids, nil
}

// ResolveBenefitCategory returns the id for an explicit id, a named
// category (created if missing), or the default bucket.
func (e *Engine) ResolveBenefitCategory(id *uint, name string) (uint, error) {
	var out uint
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var err error
		out, err = e.resolveBenefitCategoryTx(tx, id, name)
		return err
	})
	return out, err
}

// resolveBenefitCategoryTx: explicit id wins; a non-blank name is matched
// case-insensitively and created if absent; with neither, the first
// existing category is reused before creating the default one.
func (e *Engine) resolveBenefitCategoryTx(tx *gorm.DB, id *uint, name string) (uint, error) {
	if id != nil {
		var cat models.BenefitCategory
		if err := tx.First(&cat, *id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, &NotFoundError{Entity: "benefit category", ID: *id}
			}
			return 0, err
		}
		return cat.ID, nil
	}

	name = strings.TrimSpace(name)
	if name != "" {
		var cat models.BenefitCategory
		err := tx.Where("lower(name) = lower(?)", name).First(&cat).Error
		if err == nil {
			return cat.ID, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, err
		}
		cat = models.BenefitCategory{Name: name}
		if err := tx.Create(&cat).Error; err != nil {
			return 0, err
		}
		return cat.ID, nil
	}

	var cat models.BenefitCategory
	err := tx.Order("id ASC").First(&cat).Error
	if err == nil {
		return cat.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	cat = models.BenefitCategory{Name: DefaultBenefitCategory}
	if err := tx.Create(&cat).Error; err != nil {
		return 0, err
	}
	return cat.ID, nil
}

// CreateBenefit is the admin path for adding a benefit directly.
func (e *Engine) CreateBenefit(in BenefitInput) (*models.Benefit, error) {
	var out models.Benefit
	err := e.db.Transaction(func(tx *gorm.DB) error {
		text := strings.TrimSpace(in.Text)
		if text == "" {
			return &ValidationError{Field: "text", Reason: "required"}
		}

		var dup models.Benefit
		err := tx.Where("text = ?", text).First(&dup).Error
		if err == nil {
			return &ConflictError{Reason: fmt.Sprintf("benefit %q already exists", text)}
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		catID, err := e.resolveBenefitCategoryTx(tx, in.BenefitCategoryID, deref(in.BenefitCategoryName))
		if err != nil {
			return err
		}

		out = models.Benefit{Text: text, BenefitCategoryID: catID}
		if err := tx.Create(&out).Error; err != nil {
			return err
		}
		metrics.BenefitsCreated.Inc()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (e *Engine) UpdateBenefit(id uint, in BenefitUpdateInput) (*models.Benefit, error) {
	var out models.Benefit
	err := e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&out, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "benefit", ID: id}
			}
			return err
		}

		updates := map[string]interface{}{}

		if in.Text != nil {
			text := strings.TrimSpace(*in.Text)
			if text == "" {
				return &ValidationError{Field: "text", Reason: "required"}
			}
			var dup models.Benefit
			err := tx.Where("text = ? AND id <> ?", text, id).First(&dup).Error
			if err == nil {
				return &ConflictError{Reason: fmt.Sprintf("benefit %q already exists", text)}
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			updates["text"] = text
		}

		if in.BenefitCategoryID != nil || in.BenefitCategoryName != nil {
			catID, err := e.resolveBenefitCategoryTx(tx, in.BenefitCategoryID, deref(in.BenefitCategoryName))
			if err != nil {
				return err
			}
			updates["benefit_category_id"] = catID
		}

		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&out).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&out, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteBenefit removes the benefit and its product associations. Products
// themselves are untouched.
func (e *Engine) DeleteBenefit(id uint) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		var b models.Benefit
		if err := tx.First(&b, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "benefit", ID: id}
			}
			return err
		}
		if err := tx.Where("benefit_id = ?", id).Delete(&models.ProductBenefit{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Benefit{}, id).Error
	})
}
