package routes

import (
	"time"

	"gorm.io/gorm"

	"github.com/prasetyowidi/selaras/app/catalog"
	"github.com/prasetyowidi/selaras/app/controllers"
	"github.com/prasetyowidi/selaras/app/repositories"
	"github.com/prasetyowidi/selaras/pkg/middleware"
	"github.com/prasetyowidi/selaras/pkg/router"
	"github.com/prasetyowidi/selaras/pkg/storage"
)

// RegisterAPI wires every catalog route. Reads are public; mutations sit
// behind bearer auth.
func RegisterAPI(r *router.Router, db *gorm.DB, disk storage.Disk) {
	engine := catalog.New(db)
	repo := repositories.NewCatalogRepository(db)
	users := repositories.NewUserRepository(db)

	productController := controllers.NewProductController(engine, repo)
	categoryController := controllers.NewCategoryController(engine, repo)
	benefitController := controllers.NewBenefitController(engine, repo)
	mediaController := controllers.NewMediaController(engine, repo, disk)
	authController := controllers.NewAuthController(users)
	metaController := controllers.NewMetaController(repo)

	api := r.Group("/api")

	api.Post("/login", "auth.login", authController.Login,
		middleware.RateLimit(10, time.Minute))

	api.Get("/meta", "meta.show", metaController.Show)

	api.Get("/products", "products.index", productController.Index)
	api.Get("/products/{id}", "products.show", productController.Show)

	api.Get("/categories", "categories.index", categoryController.Index)
	api.Get("/benefits", "benefits.index", benefitController.Index)
	api.Get("/media/{id}", "media.show", mediaController.Show)

	protected := api.Group("", middleware.Auth)

	protected.Get("/me", "auth.me", authController.Me)

	protected.Post("/products", "products.store", productController.Store)
	protected.Put("/products/{id}", "products.update", productController.Update)
	protected.Delete("/products/{id}", "products.destroy", productController.Destroy)

	protected.Post("/categories", "categories.store", categoryController.Store)
	protected.Put("/categories/{id}", "categories.update", categoryController.Update)
	protected.Delete("/categories/{id}", "categories.destroy", categoryController.Destroy)

	protected.Post("/benefits", "benefits.store", benefitController.Store)
	protected.Put("/benefits/{id}", "benefits.update", benefitController.Update)
	protected.Delete("/benefits/{id}", "benefits.destroy", benefitController.Destroy)

	protected.Post("/media", "media.store", mediaController.Store)
	protected.Post("/media/{id}/attach", "media.attach", mediaController.Attach)
	protected.Post("/media/{id}/detach", "media.detach", mediaController.Detach)
	protected.Delete("/media/{id}", "media.destroy", mediaController.Destroy)
}
