package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/prasetyowidi/selaras/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateProduct creates a product inside one transaction: category
// get-or-create, benefit resolution, media attachment and cover selection
// all commit or roll back together.
func (e *Engine) CreateProduct(in ProductCreateInput) (*models.Product, error) {
	var out models.Product
	err := e.db.Transaction(func(tx *gorm.DB) error {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return &ValidationError{Field: "name", Reason: "required"}
		}

		catIn := in.categoryInput()
		if catIn.CategoryID == nil && deref(catIn.Name) == "" {
			return &ValidationError{Field: "category", Reason: "category_id or category_name is required"}
		}
		if catIn.CategoryID != nil {
			if err := verifyCategoryTx(tx, *catIn.CategoryID); err != nil {
				return err
			}
		}
		categoryID, err := e.resolveCategoryTx(tx, catIn)
		if err != nil {
			return err
		}

		out = models.Product{Name: name, CategoryID: categoryID, Price: in.Price}
		if err := tx.Create(&out).Error; err != nil {
			return fmt.Errorf("product insert: %w", err)
		}

		benefitIDs, err := e.resolveBenefitsTx(tx, in.Benefits)
		if err != nil {
			return err
		}
		if err := e.syncBenefitsTx(tx, out.ID, benefitIDs); err != nil {
			return err
		}

		prevOwners, err := e.attachMediaTx(tx, out.ID, in.MediaIDs)
		if err != nil {
			return err
		}

		// An explicit cover value, including an explicit null, wins over
		// automatic selection.
		if in.CoverMediaID.Set {
			if err := e.setCoverTx(tx, out.ID, in.CoverMediaID.ID); err != nil {
				return err
			}
		} else if err := e.ensureCoverTx(tx, out.ID); err != nil {
			return err
		}

		return e.reconcileOwnersTx(tx, prevOwners)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProduct applies a partial edit. A nil Benefits slice leaves the
// association set alone; an empty one clears it; a non-empty one replaces
// it wholesale.
func (e *Engine) UpdateProduct(id uint, in ProductUpdateInput) (*models.Product, error) {
	var out models.Product
	err := e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&out, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "product", ID: id}
			}
			return err
		}

		updates := map[string]interface{}{}

		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return &ValidationError{Field: "name", Reason: "required"}
			}
			updates["name"] = name
		}
		if in.Price != nil {
			updates["price"] = in.Price
		}

		if in.touchesCategory() {
			catIn := in.categoryInput()
			if catIn.CategoryID != nil {
				if err := verifyCategoryTx(tx, *catIn.CategoryID); err != nil {
					return err
				}
			}
			categoryID, err := e.resolveCategoryTx(tx, catIn)
			if err != nil {
				return err
			}
			updates["category_id"] = categoryID
		}

		if len(updates) > 0 {
			if err := tx.Model(&out).Updates(updates).Error; err != nil {
				return fmt.Errorf("product update: %w", err)
			}
		}

		if in.Benefits != nil {
			benefitIDs, err := e.resolveBenefitsTx(tx, in.Benefits)
			if err != nil {
				return err
			}
			if err := e.syncBenefitsTx(tx, id, benefitIDs); err != nil {
				return err
			}
		}

		if len(in.RemovedMediaIDs) > 0 {
			// Detach only media the product actually owns; ids pointing
			// elsewhere are ignored rather than hijacked.
			err := tx.Model(&models.Media{}).
				Where("id IN ? AND product_id = ?", in.RemovedMediaIDs, id).
				Update("product_id", nil).Error
			if err != nil {
				return fmt.Errorf("media detach: %w", err)
			}
		}

		prevOwners, err := e.attachMediaTx(tx, id, in.MediaIDs)
		if err != nil {
			return err
		}

		if in.CoverMediaID.Set {
			if err := e.setCoverTx(tx, id, in.CoverMediaID.ID); err != nil {
				return err
			}
		} else if err := e.ensureCoverTx(tx, id); err != nil {
			return err
		}

		if err := e.reconcileOwnersTx(tx, prevOwners); err != nil {
			return err
		}
		return tx.First(&out, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProduct removes the product, its benefit associations and its
// cover row. Media rows persist, detached from the product; benefit and
// category rows are never deleted here.
func (e *Engine) DeleteProduct(id uint) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		var p models.Product
		if err := tx.First(&p, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "product", ID: id}
			}
			return err
		}
		return e.deleteProductTx(tx, id)
	})
}

func (e *Engine) deleteProductTx(tx *gorm.DB, id uint) error {
	if err := tx.Model(&models.Media{}).
		Where("product_id = ?", id).
		Update("product_id", nil).Error; err != nil {
		return fmt.Errorf("media detach: %w", err)
	}
	if err := tx.Where("product_id = ?", id).Delete(&models.CoverMedia{}).Error; err != nil {
		return fmt.Errorf("cover delete: %w", err)
	}
	if err := tx.Where("product_id = ?", id).Delete(&models.ProductBenefit{}).Error; err != nil {
		return fmt.Errorf("benefit unlink: %w", err)
	}
	return tx.Delete(&models.Product{}, id).Error
}

// syncBenefitsTx replaces the product's benefit set with exactly ids.
// Replace-set semantics: the whole association set is deleted and
// reinserted, never diffed.
func (e *Engine) syncBenefitsTx(tx *gorm.DB, productID uint, ids []uint) error {
	if err := tx.Where("product_id = ?", productID).
		Delete(&models.ProductBenefit{}).Error; err != nil {
		return fmt.Errorf("benefit unlink: %w", err)
	}

	seen := make(map[uint]bool, len(ids))
	rows := make([]models.ProductBenefit, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		rows = append(rows, models.ProductBenefit{ProductID: productID, BenefitID: id})
	}
	if len(rows) == 0 {
		return nil
	}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
		return fmt.Errorf("benefit link: %w", err)
	}
	return nil
}

// attachMediaTx claims each media row for the product and reports the
// distinct previous owners so their covers can be reconciled.
func (e *Engine) attachMediaTx(tx *gorm.DB, productID uint, mediaIDs []uint) ([]uint, error) {
	var prev []uint
	seen := map[uint]bool{}
	for _, mid := range mediaIDs {
		var m models.Media
		if err := tx.First(&m, mid).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &NotFoundError{Entity: "media", ID: mid}
			}
			return nil, err
		}
		if m.ProductID != nil && *m.ProductID == productID {
			continue
		}
		if m.ProductID != nil && !seen[*m.ProductID] {
			seen[*m.ProductID] = true
			prev = append(prev, *m.ProductID)
		}
		if err := tx.Model(&m).Update("product_id", productID).Error; err != nil {
			return nil, fmt.Errorf("media attach: %w", err)
		}
	}
	return prev, nil
}

// reconcileOwnersTx repairs the cover of every product that just lost
// media to someone else.
func (e *Engine) reconcileOwnersTx(tx *gorm.DB, owners []uint) error {
	for _, pid := range owners {
		if err := e.ensureCoverTx(tx, pid); err != nil {
			return err
		}
	}
	return nil
}

func verifyCategoryTx(tx *gorm.DB, id uint) error {
	var cat models.Category
	if err := tx.First(&cat, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "category", ID: id}
		}
		return err
	}
	return nil
}
