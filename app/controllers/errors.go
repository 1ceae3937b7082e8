// Package controllers translates HTTP requests into engine and repository
// calls and maps domain errors onto the response envelope.
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/prasetyowidi/selaras/app/catalog"
	"github.com/prasetyowidi/selaras/pkg/bind"
	"github.com/prasetyowidi/selaras/pkg/logger"
	"github.com/prasetyowidi/selaras/pkg/response"
)

// respondError maps the engine's error taxonomy to status codes:
// ValidationError 422, NotFoundError 404, ConflictError 409, anything
// else 500.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *catalog.ValidationError
	if errors.As(err, &verr) {
		response.ValidationError(w, map[string]string{verr.Field: verr.Reason})
		return
	}

	var nerr *catalog.NotFoundError
	if errors.As(err, &nerr) {
		response.Error(w, http.StatusNotFound, nerr.Error())
		return
	}

	var cerr *catalog.ConflictError
	if errors.As(err, &cerr) {
		response.Conflict(w, cerr.Error())
		return
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.NotFound(w)
		return
	}

	logger.WithCtx(r.Context()).Error("request failed",
		"method", r.Method, "path", r.URL.Path, "err", err)
	response.Error(w, http.StatusInternalServerError, "internal server error")
}

// pathID parses the {id} route parameter.
func pathID(r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "id")
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}

func badID(w http.ResponseWriter) {
	response.ValidationError(w, map[string]string{"id": "must be a positive integer"})
}

// decodeJSON binds a body with no declared validation rules.
func decodeJSON(r *http.Request, dest interface{}) error {
	_, err := bind.JSON(r, dest)
	return err
}
