package seeders

import (
	"gorm.io/gorm"

	"github.com/prasetyowidi/selaras/app/models"
	"github.com/prasetyowidi/selaras/config"
	"github.com/prasetyowidi/selaras/pkg/auth"
)

func init() {
	Register("admin_user", SeedAdminUser)
	Register("benefit_categories", SeedBenefitCategories)
}

// SeedAdminUser creates the initial admin account. Credentials come from
// ADMIN_USERNAME / ADMIN_PASSWORD; the seeder is a no-op if the user exists.
func SeedAdminUser(db *gorm.DB) error {
	username := config.Get("ADMIN_USERNAME", "admin")

	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(config.Get("ADMIN_PASSWORD", "changeme"))
	if err != nil {
		return err
	}
	return db.Create(&models.User{Username: username, Password: hash}).Error
}

// SeedBenefitCategories inserts the default benefit buckets.
func SeedBenefitCategories(db *gorm.DB) error {
	names := []string{"General", "Logistics", "Entertainment"}
	for _, name := range names {
		row := models.BenefitCategory{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&row).Error; err != nil {
			return err
		}
	}
	return nil
}
