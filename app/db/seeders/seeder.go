package seeders

import (
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/vportale/marketplace/app/db/fakers"
	"github.com/vportale/marketplace/app/models"
	"gorm.io/gorm"
)

var seedCategories = []string{
	"Construction Materials",
	"Industrial Equipment",
	"Food and Beverages",
	"Textiles and Clothing",
	"Electronics",
	"Packaging",
}

var seedLocations = map[string][]string{
	"Moscow Region":      {"Moscow", "Khimki", "Podolsk"},
	"Leningrad Region":   {"Saint Petersburg", "Gatchina"},
	"Sverdlovsk Region":  {"Yekaterinburg", "Nizhny Tagil"},
	"Novosibirsk Region": {"Novosibirsk", "Berdsk"},
}

// DBSeed populates the database with a small demo data set: an admin
// account, categories, regions with cities and a batch of fake listings.
func DBSeed(db *gorm.DB) error {
	admin := fakers.AdminFaker()
	if err := db.FirstOrCreate(admin, "email = ?", admin.Email).Error; err != nil {
		return err
	}

	categories := make([]*models.Category, 0, len(seedCategories))
	for _, name := range seedCategories {
		category := &models.Category{
			ID:        uuid.New().String(),
			Name:      name,
			Slug:      slug.Make(name),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := db.FirstOrCreate(category, "name = ?", name).Error; err != nil {
			return err
		}
		categories = append(categories, category)
	}

	var regions []*models.Region
	var cities []*models.City
	for regionName, cityNames := range seedLocations {
		region := &models.Region{
			ID:        uuid.New().String(),
			Name:      regionName,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := db.FirstOrCreate(region, "name = ?", regionName).Error; err != nil {
			return err
		}
		regions = append(regions, region)

		for _, cityName := range cityNames {
			city := &models.City{
				ID:        uuid.New().String(),
				Name:      cityName,
				RegionID:  region.ID,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}
			if err := db.FirstOrCreate(city, "name = ? AND region_id = ?", cityName, region.ID).Error; err != nil {
				return err
			}
			cities = append(cities, city)
		}
	}

	for i := 0; i < 20; i++ {
		category := categories[rand.Intn(len(categories))]
		region := regions[rand.Intn(len(regions))]

		var city *models.City
		for _, c := range cities {
			if c.RegionID == region.ID {
				city = c
				break
			}
		}

		product := fakers.ProductFaker(db, category, region, city)
		if err := db.Create(product).Error; err != nil {
			return err
		}
	}

	log.Println("Seed complete")
	return nil
}
