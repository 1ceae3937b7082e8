package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// BenefitRef is one element of a benefits list: either a known benefit id
// or a free-text line that will be resolved by get-or-create.
type BenefitRef struct {
	ID   *uint
	Text string
}

// UnmarshalJSON accepts both numbers and strings, matching the mixed arrays
// the admin UI sends ([3, "Catering", 7]).
func (b *BenefitRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("benefit ref: empty value")
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		b.Text = s
		return nil
	}

	if string(data) == "null" {
		return nil
	}

	n, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("benefit ref: expected id or text, got %s", data)
	}
	id := uint(n)
	b.ID = &id
	return nil
}

// MarshalJSON keeps round-tripping symmetric for tests and logging.
func (b BenefitRef) MarshalJSON() ([]byte, error) {
	if b.ID != nil {
		return json.Marshal(*b.ID)
	}
	return json.Marshal(b.Text)
}

// OptionalID distinguishes "field absent" from "field present but null".
// An explicit null (or empty string, which the legacy admin UI sends)
// clears the cover instead of falling back to automatic selection.
type OptionalID struct {
	Set bool
	ID  *uint
}

func (o *OptionalID) UnmarshalJSON(data []byte) error {
	o.Set = true

	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		return nil
	}

	if len(s) > 1 && s[0] == '"' {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return fmt.Errorf("id: %w", err)
		}
		s = unquoted
	}

	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("id: expected number or null, got %s", data)
	}
	id := uint(n)
	o.ID = &id
	return nil
}

// CategoryInput feeds the category resolver. Either CategoryID or Name must
// be present when a product references a category.
type CategoryInput struct {
	CategoryID  *uint   `json:"category_id"`
	Name        *string `json:"name"`
	SubName     *string `json:"sub_name"`
	Code        *string `json:"code"`
	Description *string `json:"description"`
}

// CategoryUpdateInput carries a partial admin edit of an existing category.
// Nil means "leave unchanged".
type CategoryUpdateInput struct {
	Name        *string `json:"name"`
	SubName     *string `json:"sub_name"`
	Code        *string `json:"code"`
	Description *string `json:"description"`
}

// ProductCreateInput is the payload for creating a product. The category is
// referenced either by id or by name (get-or-create).
type ProductCreateInput struct {
	Name  string           `json:"name" validate:"required,max=255"`
	Price *decimal.Decimal `json:"price"`

	CategoryID          *uint   `json:"category_id"`
	CategoryName        *string `json:"category_name"`
	CategorySubName     *string `json:"category_sub_name"`
	CategoryCode        *string `json:"category_code"`
	CategoryDescription *string `json:"category_description"`

	Benefits     []BenefitRef `json:"benefits"`
	MediaIDs     []uint       `json:"media_ids"`
	CoverMediaID OptionalID   `json:"cover_media_id"`
}

func (in ProductCreateInput) categoryInput() CategoryInput {
	return CategoryInput{
		CategoryID:  in.CategoryID,
		Name:        in.CategoryName,
		SubName:     in.CategorySubName,
		Code:        in.CategoryCode,
		Description: in.CategoryDescription,
	}
}

// ProductUpdateInput is a partial update: nil fields are left untouched.
// Benefits has three states: nil (leave associations alone), empty
// (remove all), non-empty (replace the set).
type ProductUpdateInput struct {
	Name  *string          `json:"name"`
	Price *decimal.Decimal `json:"price"`

	CategoryID          *uint   `json:"category_id"`
	CategoryName        *string `json:"category_name"`
	CategorySubName     *string `json:"category_sub_name"`
	CategoryCode        *string `json:"category_code"`
	CategoryDescription *string `json:"category_description"`

	Benefits        []BenefitRef `json:"benefits"`
	MediaIDs        []uint       `json:"media_ids"`
	RemovedMediaIDs []uint       `json:"removed_media_ids"`
	CoverMediaID    OptionalID   `json:"cover_media_id"`
}

func (in ProductUpdateInput) categoryInput() CategoryInput {
	return CategoryInput{
		CategoryID:  in.CategoryID,
		Name:        in.CategoryName,
		SubName:     in.CategorySubName,
		Code:        in.CategoryCode,
		Description: in.CategoryDescription,
	}
}

func (in ProductUpdateInput) touchesCategory() bool {
	return in.CategoryID != nil || in.CategoryName != nil
}

// BenefitInput creates or resolves a single benefit with an optional
// explicit benefit-category reference.
type BenefitInput struct {
	Text                string  `json:"text" validate:"required,max=500"`
	BenefitCategoryID   *uint   `json:"benefit_category_id"`
	BenefitCategoryName *string `json:"benefit_category_name"`
}

// BenefitUpdateInput is a partial admin edit of an existing benefit.
type BenefitUpdateInput struct {
	Text                *string `json:"text"`
	BenefitCategoryID   *uint   `json:"benefit_category_id"`
	BenefitCategoryName *string `json:"benefit_category_name"`
}
