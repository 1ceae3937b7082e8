// Package catalog is the consistency engine behind the CRUD API: it keeps
// categories, benefits, product-benefit associations, and cover-media
// pointers referentially and semantically valid across independent
// create/update/delete operations.
//
// Every operation that touches more than one row set runs inside a single
// transaction on the injected *gorm.DB; concurrent callers racing to create
// the same category or benefit converge through insert-or-ignore plus a
// re-select instead of failing.
package catalog

import "gorm.io/gorm"

// Engine holds the injected store handle. Lifecycle is owned by the process
// entry point, not by the engine.
type Engine struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// DB exposes the handle for read-side repositories that share the
// connection.
func (e *Engine) DB() *gorm.DB {
	return e.db
}
