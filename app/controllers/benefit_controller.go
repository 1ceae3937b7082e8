package controllers

import (
	"net/http"

	"github.com/prasetyowidi/selaras/app/catalog"
	"github.com/prasetyowidi/selaras/app/repositories"
	"github.com/prasetyowidi/selaras/pkg/bind"
	"github.com/prasetyowidi/selaras/pkg/response"
)

type BenefitController struct {
	engine *catalog.Engine
	repo   *repositories.CatalogRepository
}

func NewBenefitController(engine *catalog.Engine, repo *repositories.CatalogRepository) *BenefitController {
	return &BenefitController{engine: engine, repo: repo}
}

// Index lists all benefits grouped by benefit category.
func (c *BenefitController) Index(w http.ResponseWriter, r *http.Request) {
	groups, err := c.repo.ListBenefits()
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, groups)
}

func (c *BenefitController) Store(w http.ResponseWriter, r *http.Request) {
	var in catalog.BenefitInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	b, err := c.engine.CreateBenefit(in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	c.repo.InvalidateCache()
	response.Created(w, b)
}

func (c *BenefitController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		badID(w)
		return
	}

	var in catalog.BenefitUpdateInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	b, err := c.engine.UpdateBenefit(id, in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	c.repo.InvalidateCache()
	response.Success(w, b)
}

func (c *BenefitController) Destroy(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		badID(w)
		return
	}
	if err := c.engine.DeleteBenefit(id); err != nil {
		respondError(w, r, err)
		return
	}
	c.repo.InvalidateCache()
	response.Success(w, map[string]uint{"deleted": id})
}
