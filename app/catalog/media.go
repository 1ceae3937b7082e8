package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/prasetyowidi/selaras/app/models"
	"gorm.io/gorm"
)

// CreateMedia records an uploaded file, optionally already attached to a
// product. Attached media may immediately become the product's cover.
func (e *Engine) CreateMedia(path string, productID *uint) (*models.Media, error) {
	var out models.Media
	err := e.db.Transaction(func(tx *gorm.DB) error {
		path = strings.TrimSpace(path)
		if path == "" {
			return &ValidationError{Field: "path", Reason: "required"}
		}
		if productID != nil {
			var p models.Product
			if err := tx.First(&p, *productID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &NotFoundError{Entity: "product", ID: *productID}
				}
				return err
			}
		}

		out = models.Media{Path: path, ProductID: productID}
		if err := tx.Create(&out).Error; err != nil {
			return fmt.Errorf("media insert: %w", err)
		}

		if productID != nil {
			return e.ensureCoverTx(tx, *productID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// AttachMedia moves a media row to a product, repairing the previous
// owner's cover if the move orphaned it.
func (e *Engine) AttachMedia(mediaID, productID uint) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		var p models.Product
		if err := tx.First(&p, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "product", ID: productID}
			}
			return err
		}

		prev, err := e.attachMediaTx(tx, productID, []uint{mediaID})
		if err != nil {
			return err
		}
		if err := e.ensureCoverTx(tx, productID); err != nil {
			return err
		}
		return e.reconcileOwnersTx(tx, prev)
	})
}

// DetachMedia orphans a media row. The former owner's cover is reconciled
// so it never points at media it no longer holds.
func (e *Engine) DetachMedia(mediaID uint) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		var m models.Media
		if err := tx.First(&m, mediaID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "media", ID: mediaID}
			}
			return err
		}
		if m.ProductID == nil {
			return nil
		}
		owner := *m.ProductID
		if err := tx.Model(&m).Update("product_id", nil).Error; err != nil {
			return fmt.Errorf("media detach: %w", err)
		}
		return e.ensureCoverTx(tx, owner)
	})
}

// UpdateMedia rewrites the stored path, typically after a file move.
func (e *Engine) UpdateMedia(id uint, path string) (*models.Media, error) {
	var out models.Media
	err := e.db.Transaction(func(tx *gorm.DB) error {
		path = strings.TrimSpace(path)
		if path == "" {
			return &ValidationError{Field: "path", Reason: "required"}
		}
		if err := tx.First(&out, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "media", ID: id}
			}
			return err
		}
		if err := tx.Model(&out).Update("path", path).Error; err != nil {
			return err
		}
		return tx.First(&out, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteMedia removes the row and reconciles the owner's cover. The
// deleted row is returned so the caller can clean up the stored file.
func (e *Engine) DeleteMedia(id uint) (*models.Media, error) {
	var out models.Media
	err := e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&out, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "media", ID: id}
			}
			return err
		}
		if err := tx.Delete(&models.Media{}, id).Error; err != nil {
			return fmt.Errorf("media delete: %w", err)
		}
		if out.ProductID != nil {
			return e.ensureCoverTx(tx, *out.ProductID)
		}
		// An orphaned media row can still be referenced by a cover if
		// rows were edited out of band; clear any such reference.
		return tx.Where("media_id = ?", id).Delete(&models.CoverMedia{}).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
