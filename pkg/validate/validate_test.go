package validate_test

import (
	"testing"

	"github.com/prasetyowidi/selaras/pkg/validate"
)

type productInput struct {
	Name  string `json:"name"  validate:"required,min=2,max=255"`
	Price string `json:"price" validate:"nullable,numeric"`
	Limit int    `json:"limit" validate:"nullable,gte=1,lte=100"`
	Sort  string `json:"sort"  validate:"nullable,in=asc,desc"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(productInput{
		Name:  "Grand Wedding Package",
		Price: "25000000",
		Limit: 20,
		Sort:  "desc",
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(productInput{})
	if _, ok := errs["name"]; !ok {
		t.Error("expected name to be required")
	}
}

func TestRequiredRejectsWhitespace(t *testing.T) {
	errs := validate.Struct(productInput{Name: "   "})
	if _, ok := errs["name"]; !ok {
		t.Error("expected whitespace-only name to fail required")
	}
}

func TestNullableSkipsRemainingRules(t *testing.T) {
	errs := validate.Struct(productInput{Name: "ok"})
	if _, ok := errs["price"]; ok {
		t.Error("empty nullable price should not be validated")
	}
}

func TestNumericRule(t *testing.T) {
	errs := validate.Struct(productInput{Name: "ok", Price: "abc"})
	if _, ok := errs["price"]; !ok {
		t.Error("expected numeric validation error")
	}
}

func TestMaxRuneLength(t *testing.T) {
	type in struct {
		Code string `json:"code" validate:"max=3"`
	}
	if errs := validate.Struct(in{Code: "ééé"}); validate.HasErrors(errs) {
		t.Errorf("3 runes should pass max=3, got: %v", errs)
	}
	if errs := validate.Struct(in{Code: "abcd"}); !validate.HasErrors(errs) {
		t.Error("4 chars should fail max=3")
	}
}

func TestInRule(t *testing.T) {
	errs := validate.Struct(productInput{Name: "ok", Sort: "sideways"})
	if _, ok := errs["sort"]; !ok {
		t.Error("expected in-list validation error")
	}
}

func TestPointerDestination(t *testing.T) {
	errs := validate.Struct(&productInput{Name: "ok"})
	if validate.HasErrors(errs) {
		t.Errorf("pointer input should validate the same, got: %v", errs)
	}
}
