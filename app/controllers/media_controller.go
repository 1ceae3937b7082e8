package controllers

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/prasetyowidi/selaras/app/catalog"
	"github.com/prasetyowidi/selaras/app/repositories"
	"github.com/prasetyowidi/selaras/config"
	"github.com/prasetyowidi/selaras/pkg/logger"
	"github.com/prasetyowidi/selaras/pkg/response"
	"github.com/prasetyowidi/selaras/pkg/storage"
)

// uploadLimit returns the multipart size cap (MEDIA_MAX_BYTES, default 10 MiB).
func uploadLimit() int64 {
	n, err := strconv.ParseInt(config.Get("MEDIA_MAX_BYTES", "10485760"), 10, 64)
	if err != nil || n <= 0 {
		return 10 << 20
	}
	return n
}

var allowedExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true,
	".gif": true, ".mp4": true, ".webm": true,
}

type MediaController struct {
	engine *catalog.Engine
	repo   *repositories.CatalogRepository
	disk   storage.Disk
}

func NewMediaController(engine *catalog.Engine, repo *repositories.CatalogRepository, disk storage.Disk) *MediaController {
	return &MediaController{engine: engine, repo: repo, disk: disk}
}

// Store accepts a multipart upload ("file" field, optional "product_id")
// and records the stored object as a media row.
func (c *MediaController) Store(w http.ResponseWriter, r *http.Request) {
	limit := uploadLimit()
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		response.Error(w, http.StatusBadRequest, "multipart body required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.ValidationError(w, map[string]string{"file": "required"})
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		response.ValidationError(w, map[string]string{"file": fmt.Sprintf("unsupported file type %q", ext)})
		return
	}

	var productID *uint
	if raw := r.FormValue("product_id"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			response.ValidationError(w, map[string]string{"product_id": "must be a positive integer"})
			return
		}
		id := uint(n)
		productID = &id
	}

	path := "media/" + uuid.NewString() + ext
	if err := c.disk.PutStream(path, file); err != nil {
		respondError(w, r, err)
		return
	}

	m, err := c.engine.CreateMedia(path, productID)
	if err != nil {
		// The row failed; don't leave the object behind.
		if derr := c.disk.Delete(path); derr != nil {
			logger.WithCtx(r.Context()).Warn("orphaned upload not removed", "path", path, "err", derr)
		}
		respondError(w, r, err)
		return
	}
	c.repo.InvalidateCache()
	response.Created(w, m)
}

// Show streams the stored file with a long-lived cache policy; stored
// objects are immutable because their names are random.
func (c *MediaController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		badID(w)
		return
	}

	m, err := c.repo.GetMedia(id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	rc, err := c.disk.GetStream(m.Path)
	if err != nil {
		logger.WithCtx(r.Context()).Error("media file missing", "media_id", id, "path", m.Path, "err", err)
		response.NotFound(w)
		return
	}
	defer rc.Close()

	ct := mime.TypeByExtension(filepath.Ext(m.Path))
	if ct == "" {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	if _, err := io.Copy(w, rc); err != nil {
		logger.WithCtx(r.Context()).Warn("media stream aborted", "media_id", id, "err", err)
	}
}

// Attach moves a media row to a product.
func (c *MediaController) Attach(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		badID(w)
		return
	}

	var body struct {
		ProductID uint `json:"product_id"`
	}
	if err := decodeJSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if body.ProductID == 0 {
		response.ValidationError(w, map[string]string{"product_id": "required"})
		return
	}

	if err := c.engine.AttachMedia(id, body.ProductID); err != nil {
		respondError(w, r, err)
		return
	}
	c.repo.InvalidateCache()
	response.Success(w, map[string]uint{"media_id": id, "product_id": body.ProductID})
}

// Detach orphans a media row without deleting the file.
func (c *MediaController) Detach(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		badID(w)
		return
	}
	if err := c.engine.DetachMedia(id); err != nil {
		respondError(w, r, err)
		return
	}
	c.repo.InvalidateCache()
	response.Success(w, map[string]uint{"media_id": id})
}

// Destroy removes the row and the stored file.
func (c *MediaController) Destroy(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		badID(w)
		return
	}

	m, err := c.engine.DeleteMedia(id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := c.disk.Delete(m.Path); err != nil {
		logger.WithCtx(r.Context()).Warn("stored file not removed", "path", m.Path, "err", err)
	}
	c.repo.InvalidateCache()
	response.Success(w, map[string]uint{"deleted": id})
}
