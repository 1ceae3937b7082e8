package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prasetyowidi/selaras/pkg/router"
)

func ok(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func TestNamedRoutesAreRecorded(t *testing.T) {
	r := router.New()
	api := r.Group("/api")
	api.Get("/products", "products.index", ok)
	api.Post("/products", "products.store", ok)

	infos := r.Routes()
	if len(infos) != 2 {
		t.Fatalf("expected 2 routes, got %d", len(infos))
	}

	path, found := r.Path("products.index")
	if !found {
		t.Fatal("expected products.index to be registered")
	}
	if path != "/api/products" {
		t.Errorf("expected /api/products, got %s", path)
	}
}

func TestGroupMiddlewareApplies(t *testing.T) {
	var order []string
	tag := func(name string) router.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	r := router.New()
	g := r.Group("/api", tag("group"))
	g.Get("/x", "x", ok, tag("route"))

	req := httptest.NewRequest(http.MethodGet, "/api/x", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if len(order) != 2 || order[0] != "group" || order[1] != "route" {
		t.Errorf("middleware order wrong: %v", order)
	}
}

func TestURLParamSubstitution(t *testing.T) {
	r := router.New()
	r.Get("/products/{id}", "products.show", ok)

	url, err := r.URL("products.show", map[string]string{"id": "42"})
	if err != nil {
		t.Fatal(err)
	}
	if url != "/products/42" {
		t.Errorf("expected /products/42, got %s", url)
	}
}
