package controllers

import (
	"net/http"

	"github.com/prasetyowidi/selaras/app/catalog"
	"github.com/prasetyowidi/selaras/app/repositories"
	"github.com/prasetyowidi/selaras/pkg/bind"
	"github.com/prasetyowidi/selaras/pkg/response"
)

type CategoryController struct {
	engine *catalog.Engine
	repo   *repositories.CatalogRepository
}

func NewCategoryController(engine *catalog.Engine, repo *repositories.CatalogRepository) *CategoryController {
	return &CategoryController{engine: engine, repo: repo}
}

// Index lists categories with product counts, filtered by ?q=.
func (c *CategoryController) Index(w http.ResponseWriter, r *http.Request) {
	cats, err := c.repo.ListCategories(r.URL.Query().Get("q"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, cats)
}

// Store resolves a category by the same get-or-create rules products use,
// so posting an existing name is idempotent rather than an error.
func (c *CategoryController) Store(w http.ResponseWriter, r *http.Request) {
	var in catalog.CategoryInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	cat, err := c.engine.ResolveCategory(in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	c.repo.InvalidateCache()
	response.Created(w, cat)
}

func (c *CategoryController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		badID(w)
		return
	}

	var in catalog.CategoryUpdateInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	cat, err := c.engine.UpdateCategory(id, in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	c.repo.InvalidateCache()
	response.Success(w, cat)
}

func (c *CategoryController) Destroy(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		badID(w)
		return
	}
	if err := c.engine.DeleteCategory(id); err != nil {
		respondError(w, r, err)
		return
	}
	c.repo.InvalidateCache()
	response.Success(w, map[string]uint{"deleted": id})
}
