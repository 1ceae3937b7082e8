package controllers

import (
	"net/http"
	"strconv"

	"github.com/prasetyowidi/selaras/app/catalog"
	"github.com/prasetyowidi/selaras/app/repositories"
	"github.com/prasetyowidi/selaras/pkg/bind"
	"github.com/prasetyowidi/selaras/pkg/response"
)

type ProductController struct {
	engine *catalog.Engine
	repo   *repositories.CatalogRepository
}

func NewProductController(engine *catalog.Engine, repo *repositories.CatalogRepository) *ProductController {
	return &ProductController{engine: engine, repo: repo}
}

// Index lists products with ?q=, ?category_id=, ?page=, ?limit=.
func (c *ProductController) Index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := repositories.ProductFilter{Search: q.Get("q")}
	if raw := q.Get("category_id"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			response.ValidationError(w, map[string]string{"category_id": "must be a positive integer"})
			return
		}
		id := uint(n)
		filter.CategoryID = &id
	}
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))

	page, err := c.repo.ListProducts(filter)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, page)
}

func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		badID(w)
		return
	}
	view, err := c.repo.GetProduct(id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, view)
}

func (c *ProductController) Store(w http.ResponseWriter, r *http.Request) {
	var in catalog.ProductCreateInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	p, err := c.engine.CreateProduct(in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	c.repo.InvalidateCache()

	view, err := c.repo.GetProduct(p.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Created(w, view)
}

func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		badID(w)
		return
	}

	var in catalog.ProductUpdateInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	p, err := c.engine.UpdateProduct(id, in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	c.repo.InvalidateCache()

	view, err := c.repo.GetProduct(p.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, view)
}

func (c *ProductController) Destroy(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		badID(w)
		return
	}
	if err := c.engine.DeleteProduct(id); err != nil {
		respondError(w, r, err)
		return
	}
	c.repo.InvalidateCache()
	response.Success(w, map[string]uint{"deleted": id})
}
