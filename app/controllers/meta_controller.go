package controllers

import (
	"net/http"

	"github.com/prasetyowidi/selaras/app/repositories"
	"github.com/prasetyowidi/selaras/pkg/response"
)

type MetaController struct {
	repo *repositories.CatalogRepository
}

func NewMetaController(repo *repositories.CatalogRepository) *MetaController {
	return &MetaController{repo: repo}
}

// Show returns catalog row counts for the admin dashboard.
func (c *MetaController) Show(w http.ResponseWriter, r *http.Request) {
	meta, err := c.repo.Meta()
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, meta)
}
