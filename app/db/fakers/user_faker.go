package fakers

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
	"github.com/vportale/marketplace/app/helpers"
	"github.com/vportale/marketplace/app/models"
	"gorm.io/gorm"
)

var industries = []string{
	"Construction",
	"Food production",
	"Metalworking",
	"Logistics",
	"Textiles",
	"Electronics",
}

func UserFaker(db *gorm.DB) *models.User {
	return &models.User{
		ID:            uuid.New().String(),
		Email:         faker.Email(),
		Password:      helpers.HashPassword("password123"),
		CompanyName:   fmt.Sprintf("%s LLC", faker.LastName()),
		INN:           fmt.Sprintf("%010d", rand.Int63n(9999999999)),
		LegalAddress:  faker.Sentence(),
		ContactPerson: faker.Name(),
		Position:      "Manager",
		Phone:         faker.Phonenumber(),
		Industry:      industries[rand.Intn(len(industries))],
		About:         faker.Paragraph(),
		Role:          models.RoleUser,
		IsActive:      true,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}

// AdminFaker returns the default admin account used by the seed command.
func AdminFaker() *models.User {
	return &models.User{
		ID:          uuid.New().String(),
		Email:       "admin@example.com",
		Password:    helpers.HashPassword("admin123"),
		CompanyName: "Site Administration",
		Role:        models.RoleAdmin,
		IsActive:    true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}
