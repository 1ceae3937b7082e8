package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/prasetyowidi/selaras/app/models"
	"github.com/prasetyowidi/selaras/pkg/metrics"
	"gorm.io/gorm"
)

// ResolveCategory returns the category the input refers to, creating it if
// needed. See resolveCategoryTx for the matching rules.
func (e *Engine) ResolveCategory(in CategoryInput) (*models.Category, error) {
	var out models.Category
	err := e.db.Transaction(func(tx *gorm.DB) error {
		id, err := e.resolveCategoryTx(tx, in)
		if err != nil {
			return err
		}
		return tx.First(&out, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// resolveCategoryTx implements category get-or-create:
//
//  1. An explicit CategoryID passes through unchanged.
//  2. Otherwise Name is required; the canonical code is computed from
//     code/name/sub-name.
//  3. A case-insensitive code match wins and is returned untouched: a
//     product pointing at an existing code must not silently alter that
//     category.
//  4. A (name, sub-name) match (null and empty sub equivalent) has its
//     stored code/description repaired if they drifted from the computed
//     values.
//  5. Otherwise a new row is inserted.
//
// At most one insert or one corrective update happens per call, never both.
func (e *Engine) resolveCategoryTx(tx *gorm.DB, in CategoryInput) (uint, error) {
	if in.CategoryID != nil {
		return *in.CategoryID, nil
	}

	name := strings.TrimSpace(deref(in.Name))
	if name == "" {
		return 0, &ValidationError{Field: "category_name", Reason: "required"}
	}

	sub := trimmedOrNil(in.SubName)
	code := NormalizeCode(deref(in.Code), name, deref(sub))
	description := fallbackDescription(deref(in.Description), name, deref(sub))

	var existing models.Category

	err := tx.Where("lower(code) = lower(?)", code).First(&existing).Error
	if err == nil {
		metrics.CategoriesResolved.WithLabelValues("hit").Inc()
		return existing.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("category lookup by code: %w", err)
	}

	err = scopeNameSub(tx, name, sub).First(&existing).Error
	if err == nil {
		if existing.Code != code || existing.Description != description {
			updates := map[string]interface{}{"code": code, "description": description}
			if err := tx.Model(&existing).Updates(updates).Error; err != nil {
				return 0, fmt.Errorf("category drift repair: %w", err)
			}
			metrics.CategoriesResolved.WithLabelValues("repaired").Inc()
		} else {
			metrics.CategoriesResolved.WithLabelValues("hit").Inc()
		}
		return existing.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("category lookup by name: %w", err)
	}

	created := models.Category{
		Name:        name,
		SubName:     sub,
		Code:        code,
		Description: description,
	}
	if err := tx.Create(&created).Error; err != nil {
		return 0, fmt.Errorf("category insert: %w", err)
	}
	metrics.CategoriesResolved.WithLabelValues("created").Inc()
	return created.ID, nil
}

// UpdateCategory applies a partial admin edit. Renames that would collide
// with another category's (name, sub-name) pair, and explicit codes that
// would collide with another category's code, are rejected with
// ConflictError.
func (e *Engine) UpdateCategory(id uint, in CategoryUpdateInput) (*models.Category, error) {
	var out models.Category
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var current models.Category
		if err := tx.First(&current, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "category", ID: id}
			}
			return err
		}

		name := current.Name
		if in.Name != nil {
			name = strings.TrimSpace(*in.Name)
			if name == "" {
				return &ValidationError{Field: "name", Reason: "required"}
			}
		}

		sub := current.SubName
		if in.SubName != nil {
			sub = trimmedOrNil(in.SubName)
		}

		var dup models.Category
		err := scopeNameSub(tx, name, sub).Where("id <> ?", id).First(&dup).Error
		if err == nil {
			return &ConflictError{Reason: fmt.Sprintf("category %q already exists", name)}
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		updates := map[string]interface{}{"name": name, "sub_name": sub}

		if in.Code != nil {
			code := NormalizeCode(*in.Code, name, deref(sub))
			var clash models.Category
			err := tx.Where("lower(code) = lower(?) AND id <> ?", code, id).First(&clash).Error
			if err == nil {
				return &ConflictError{Reason: fmt.Sprintf("code %q already used by category %d", code, clash.ID)}
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			updates["code"] = code
		}

		if in.Description != nil {
			updates["description"] = strings.TrimSpace(*in.Description)
		}

		if err := tx.Model(&current).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&out, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCategory is an explicit admin action: it cascades to the category's
// products (and through them to benefit associations and covers).
// Categories are never deleted automatically.
func (e *Engine) DeleteCategory(id uint) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		var cat models.Category
		if err := tx.First(&cat, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "category", ID: id}
			}
			return err
		}

		var productIDs []uint
		if err := tx.Model(&models.Product{}).
			Where("category_id = ?", id).
			Pluck("id", &productIDs).Error; err != nil {
			return err
		}

		for _, pid := range productIDs {
			if err := e.deleteProductTx(tx, pid); err != nil {
				return err
			}
		}

		return tx.Delete(&models.Category{}, id).Error
	})
}

// scopeNameSub matches on the (name, sub-name) secondary identity, where a
// null sub-name and an empty one are the same thing.
func scopeNameSub(tx *gorm.DB, name string, sub *string) *gorm.DB {
	q := tx.Model(&models.Category{}).Where("name = ?", name)
	if sub == nil {
		return q.Where("(sub_name IS NULL OR sub_name = '')")
	}
	return q.Where("sub_name = ?", *sub)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// trimmedOrNil trims the value and collapses blank to nil, so "" and null
// sub-names converge on one representation.
func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
