package migrations

import (
	"github.com/vportale/marketplace/app/models"
	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Category{}, &models.Region{}, &models.City{}, &models.Product{}, &models.Review{}, &models.ContactRequest{})
}
