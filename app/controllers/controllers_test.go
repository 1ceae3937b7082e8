package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prasetyowidi/selaras/app/models"
	"github.com/prasetyowidi/selaras/app/routes"
	"github.com/prasetyowidi/selaras/pkg/auth"
	"github.com/prasetyowidi/selaras/pkg/database"
	"github.com/prasetyowidi/selaras/pkg/router"
	"github.com/prasetyowidi/selaras/pkg/storage"
)

type testAPI struct {
	handler http.Handler
	token   string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.BenefitCategory{},
		&models.Benefit{},
		&models.Product{},
		&models.ProductBenefit{},
		&models.Media{},
		&models.CoverMedia{},
	))

	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)
	admin := models.User{Username: "admin", Password: hash}
	require.NoError(t, db.Create(&admin).Error)

	token, err := auth.GenerateToken(admin.ID, admin.Username)
	require.NoError(t, err)

	r := router.New()
	routes.RegisterAPI(r, db, storage.NewLocalDisk(t.TempDir(), "/files"))

	return &testAPI{handler: r.Handler(), token: token}
}

func (a *testAPI) do(t *testing.T, method, path string, body interface{}, authed bool) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func dataOf(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Data
}

func TestLogin(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name     string
		body     map[string]string
		wantCode int
	}{
		{"valid credentials", map[string]string{"username": "admin", "password": "secret123"}, 200},
		{"wrong password", map[string]string{"username": "admin", "password": "nope"}, 401},
		{"unknown user", map[string]string{"username": "ghost", "password": "secret123"}, 401},
		{"missing fields", map[string]string{}, 422},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(t, http.MethodPost, "/api/login", tt.body, false)
			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == 200 {
				assert.NotEmpty(t, dataOf(t, rec)["token"])
			}
		})
	}
}

func TestProductEndpointsRequireAuth(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/products", map[string]string{"name": "x"}, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/products", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code, "reads stay public")
}

func TestCreateProductFullFlow(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/products", map[string]interface{}{
		"name":              "Grand Wedding Package",
		"price":             "25000000",
		"category_name":     "Wedding",
		"category_sub_name": "Venue",
		"benefits":          []interface{}{"Catering for 500", "Sound system"},
	}, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	data := dataOf(t, rec)
	assert.Equal(t, "Grand Wedding Package", data["name"])
	assert.Equal(t, "WEDDING_VENUE", data["category_code"])
	assert.Len(t, data["benefits"], 2)
}

func TestCreateProductValidation(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/products", map[string]interface{}{
		"category_name": "Wedding",
	}, true)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateProductUnknownCategoryIs404(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/products", map[string]interface{}{
		"name":        "Loose",
		"category_id": 404,
	}, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestShowProductNotFound(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(t, http.MethodGet, "/api/products/999", nil, false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCategoryStoreIsIdempotent(t *testing.T) {
	api := newTestAPI(t)

	body := map[string]string{"name": "Wedding", "sub_name": "Venue"}

	first := api.do(t, http.MethodPost, "/api/categories", body, true)
	require.Equal(t, http.StatusCreated, first.Code)
	second := api.do(t, http.MethodPost, "/api/categories", body, true)
	require.Equal(t, http.StatusCreated, second.Code)

	assert.Equal(t, dataOf(t, first)["id"], dataOf(t, second)["id"])

	list := api.do(t, http.MethodGet, "/api/categories", nil, false)
	require.Equal(t, http.StatusOK, list.Code)
	var envelope struct {
		Data []map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data, 1)
}

func TestUpdateCategoryConflict(t *testing.T) {
	api := newTestAPI(t)

	require.Equal(t, http.StatusCreated,
		api.do(t, http.MethodPost, "/api/categories", map[string]string{"name": "Wedding"}, true).Code)
	second := api.do(t, http.MethodPost, "/api/categories", map[string]string{"name": "Catering"}, true)
	require.Equal(t, http.StatusCreated, second.Code)

	id := int(dataOf(t, second)["id"].(float64))
	rec := api.do(t, http.MethodPut, fmt.Sprintf("/api/categories/%d", id),
		map[string]string{"name": "Wedding"}, true)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestBenefitCRUD(t *testing.T) {
	api := newTestAPI(t)

	created := api.do(t, http.MethodPost, "/api/benefits", map[string]string{"text": "Live band"}, true)
	require.Equal(t, http.StatusCreated, created.Code)
	id := int(dataOf(t, created)["id"].(float64))

	dup := api.do(t, http.MethodPost, "/api/benefits", map[string]string{"text": "Live band"}, true)
	assert.Equal(t, http.StatusConflict, dup.Code)

	updated := api.do(t, http.MethodPut, fmt.Sprintf("/api/benefits/%d", id),
		map[string]string{"text": "Live band (4h)"}, true)
	assert.Equal(t, http.StatusOK, updated.Code)

	deleted := api.do(t, http.MethodDelete, fmt.Sprintf("/api/benefits/%d", id), nil, true)
	assert.Equal(t, http.StatusOK, deleted.Code)

	again := api.do(t, http.MethodDelete, fmt.Sprintf("/api/benefits/%d", id), nil, true)
	assert.Equal(t, http.StatusNotFound, again.Code)
}

func TestMetaCounts(t *testing.T) {
	api := newTestAPI(t)

	require.Equal(t, http.StatusCreated,
		api.do(t, http.MethodPost, "/api/products", map[string]interface{}{
			"name":          "Package",
			"category_name": "Wedding",
			"benefits":      []interface{}{"One", "Two"},
		}, true).Code)

	rec := api.do(t, http.MethodGet, "/api/meta", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	data := dataOf(t, rec)
	assert.EqualValues(t, 1, data["products"])
	assert.EqualValues(t, 1, data["categories"])
	assert.EqualValues(t, 2, data["benefits"])
}
