package catalog

import (
	"errors"
	"fmt"

	"github.com/prasetyowidi/selaras/app/models"
	"github.com/prasetyowidi/selaras/pkg/metrics"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SetCover sets or clears a product's explicit cover. A nil mediaID removes
// the cover row; a non-nil one must belong to the product.
func (e *Engine) SetCover(productID uint, mediaID *uint) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		return e.setCoverTx(tx, productID, mediaID)
	})
}

func (e *Engine) setCoverTx(tx *gorm.DB, productID uint, mediaID *uint) error {
	if mediaID == nil {
		if err := tx.Where("product_id = ?", productID).
			Delete(&models.CoverMedia{}).Error; err != nil {
			return fmt.Errorf("cover clear: %w", err)
		}
		metrics.CoverReconciliations.WithLabelValues("cleared").Inc()
		return nil
	}

	var m models.Media
	err := tx.Where("id = ? AND product_id = ?", *mediaID, productID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &ValidationError{
			Field:  "cover_media_id",
			Reason: fmt.Sprintf("media %d does not belong to product %d", *mediaID, productID),
		}
	}
	if err != nil {
		return fmt.Errorf("cover ownership check: %w", err)
	}

	row := models.CoverMedia{ProductID: productID, MediaID: *mediaID}
	err = tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"media_id"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("cover upsert: %w", err)
	}
	return nil
}

// EnsureCover restores the cover invariant for a product: the cover row, if
// present, must point at media the product owns, and a product with media
// should have a cover. It self-heals stale rows left behind by media moves.
func (e *Engine) EnsureCover(productID uint) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		return e.ensureCoverTx(tx, productID)
	})
}

func (e *Engine) ensureCoverTx(tx *gorm.DB, productID uint) error {
	var cover models.CoverMedia
	err := tx.Where("product_id = ?", productID).First(&cover).Error
	hasCover := err == nil
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("cover read: %w", err)
	}

	if hasCover {
		var owned models.Media
		err := tx.Where("id = ? AND product_id = ?", cover.MediaID, productID).
			First(&owned).Error
		if err == nil {
			metrics.CoverReconciliations.WithLabelValues("kept").Inc()
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("cover ownership read: %w", err)
		}

		// Stale row: the media was deleted or reassigned out from under
		// the cover. Drop it and fall through to re-selection.
		if err := tx.Where("product_id = ?", productID).
			Delete(&models.CoverMedia{}).Error; err != nil {
			return fmt.Errorf("stale cover delete: %w", err)
		}
	}

	var candidate models.Media
	err = tx.Where("product_id = ?", productID).
		Order("id DESC").
		First(&candidate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if hasCover {
			metrics.CoverReconciliations.WithLabelValues("cleared").Inc()
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("cover candidate read: %w", err)
	}

	row := models.CoverMedia{ProductID: productID, MediaID: candidate.ID}
	err = tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"media_id"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("cover promote: %w", err)
	}
	if hasCover {
		metrics.CoverReconciliations.WithLabelValues("healed").Inc()
	} else {
		metrics.CoverReconciliations.WithLabelValues("promoted").Inc()
	}
	return nil
}
