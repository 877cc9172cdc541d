package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/vportale/marketplace/app/helpers"
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

func createUser(t *testing.T, db *gorm.DB) *models.User {
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

func createProduct(t *testing.T, db *gorm.DB, ownerID, status string, expiresAt time.Time) *models.Product {
	t.Helper()

	category := &models.Category{
		ID:   uuid.New().String(),
		Name: "Category " + uuid.NewString()[:6],
		Slug: uuid.New().String(),
	}
	require.NoError(t, db.Create(category).Error)

	product := &models.Product{
		ID:         uuid.New().String(),
		UserID:     ownerID,
		CategoryID: category.ID,
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

func asUser(r *http.Request, user *models.User) *http.Request {
	ctx := context.WithValue(r.Context(), helpers.ContextKeyUserID, user.ID)
	ctx = context.WithValue(ctx, helpers.ContextKeyUser, user)
	return r.WithContext(ctx)
}
