package fakers

import (
	"log"
	"math/rand"
	"time"

	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"github.com/vportale/marketplace/app/models"
	"gorm.io/gorm"
)

func ProductFaker(db *gorm.DB, category *models.Category, region *models.Region, city *models.City) *models.Product {
	title := faker.Sentence()

	user := UserFaker(db)
	if err := db.FirstOrCreate(user, "email = ?", user.Email).Error; err != nil {
		log.Fatal("Failed to create/find user:", err)
	}

	product := &models.Product{
		ID:          uuid.New().String(),
		UserID:      user.ID,
		CategoryID:  category.ID,
		Title:       title,
		Slug:        slug.Make(title + "-" + uuid.NewString()[:6]),
		Description: faker.Paragraph(),
		Price:       decimal.NewFromInt(int64(rand.Intn(100000) + 100)),
		Quantity:    rand.Intn(50) + 1,
		Status:      models.StatusPublished,
		ExpiresAt:   time.Now().Add(models.PublicationPeriod),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if region != nil {
		product.RegionID = &region.ID
		product.RegionName = region.Name
	}
	if city != nil {
		product.CityID = &city.ID
		product.CityName = city.Name
	}

	return product
}
