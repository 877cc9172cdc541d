package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/vportale/marketplace/app/models"
	"github.com/vportale/marketplace/app/models/migrations"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, migrations.AutoMigrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	user := &models.User{
		ID:          uuid.New().String(),
		Email:       uuid.New().String() + "@example.com",
		Password:    "hashed",
		CompanyName: "Test Company",
		Role:        models.RoleUser,
		IsActive:    true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestCategory(t *testing.T, db *gorm.DB, name string, parentID *string) *models.Category {
	t.Helper()

	category := &models.Category{
		ID:       uuid.New().String(),
		Name:     name,
		Slug:     uuid.New().String(),
		ParentID: parentID,
	}
	require.NoError(t, db.Create(category).Error)
	return category
}

func createTestProduct(t *testing.T, db *gorm.DB, userID, categoryID, status string, expiresAt time.Time) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:         uuid.New().String(),
		UserID:     userID,
		CategoryID: categoryID,
		Title:      "Test Listing",
		Slug:       uuid.New().String(),
		Price:      decimal.NewFromInt(100),
		Quantity:   1,
		Status:     status,
		ExpiresAt:  expiresAt,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func createCategoryModel(name string, parentID *string) *models.Category {
	return &models.Category{
		ID:       uuid.New().String(),
		Name:     name,
		Slug:     uuid.New().String(),
		ParentID: parentID,
	}
}

func ctx() context.Context {
	return context.Background()
}
