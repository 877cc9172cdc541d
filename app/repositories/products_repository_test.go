package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vportale/marketplace/app/models"
)

func TestCreateSetsPublicationDefaults(t *testing.T) {
	db := testDB(t)
	repo := NewProductRepository(db)

	category := createTestCategory(t, db, "Equipment", nil)
	owner := createTestUser(t, db)

	product := &models.Product{
		ID:         "fresh-listing",
		UserID:     owner.ID,
		CategoryID: category.ID,
		Title:      "Fresh Listing",
		Slug:       "fresh-listing",
		Quantity:   1,
	}
	require.NoError(t, repo.Create(ctx(), product))

	reloaded, err := repo.GetByID(ctx(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, reloaded.Status)
	assert.WithinDuration(t, time.Now().Add(models.PublicationPeriod), reloaded.ExpiresAt, time.Minute)
}

func TestExpireForOwnerScopesToOwner(t *testing.T) {
	db := testDB(t)
	repo := NewProductRepository(db)

	category := createTestCategory(t, db, "Equipment", nil)
	owner := createTestUser(t, db)
	other := createTestUser(t, db)
	past := time.Now().Add(-time.Hour)

	expired := createTestProduct(t, db, owner.ID, category.ID, models.StatusPublished, past)
	current := createTestProduct(t, db, owner.ID, category.ID, models.StatusPublished, time.Now().Add(time.Hour))
	foreign := createTestProduct(t, db, other.ID, category.ID, models.StatusPublished, past)

	affected, err := repo.ExpireForOwner(ctx(), owner.ID, time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	reloaded, err := repo.GetByID(ctx(), expired.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReadyForPublication, reloaded.Status)

	reloaded, err = repo.GetByID(ctx(), current.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, reloaded.Status)

	reloaded, err = repo.GetByID(ctx(), foreign.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, reloaded.Status, "other owners' rows stay untouched")
}

func TestExpireAllCrossesOwners(t *testing.T) {
	db := testDB(t)
	repo := NewProductRepository(db)

	category := createTestCategory(t, db, "Equipment", nil)
	past := time.Now().Add(-time.Hour)
	createTestProduct(t, db, createTestUser(t, db).ID, category.ID, models.StatusPublished, past)
	createTestProduct(t, db, createTestUser(t, db).ID, category.ID, models.StatusPublished, past)
	createTestProduct(t, db, createTestUser(t, db).ID, category.ID, models.StatusUnpublished, past)

	affected, err := repo.ExpireAll(ctx(), time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 2, affected, "only published rows expire")
}

func TestGetPublishedPaginatedFiltersAndHidesUnpublished(t *testing.T) {
	db := testDB(t)
	repo := NewProductRepository(db)

	tools := createTestCategory(t, db, "Tools", nil)
	food := createTestCategory(t, db, "Food", nil)
	owner := createTestUser(t, db)
	future := time.Now().Add(time.Hour)

	visible := createTestProduct(t, db, owner.ID, tools.ID, models.StatusPublished, future)
	createTestProduct(t, db, owner.ID, tools.ID, models.StatusUnpublished, future)
	createTestProduct(t, db, owner.ID, food.ID, models.StatusPublished, future)

	products, total, err := repo.GetPublishedPaginated(ctx(), ProductFilter{CategoryID: tools.ID}, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, products, 1)
	assert.Equal(t, visible.ID, products[0].ID)

	_, total, err = repo.GetPublishedPaginated(ctx(), ProductFilter{}, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}

func TestGetPublishedPaginatedKeywordSearch(t *testing.T) {
	db := testDB(t)
	repo := NewProductRepository(db)

	category := createTestCategory(t, db, "Equipment", nil)
	owner := createTestUser(t, db)
	future := time.Now().Add(time.Hour)

	match := createTestProduct(t, db, owner.ID, category.ID, models.StatusPublished, future)
	match.Title = "Industrial Drill Press"
	require.NoError(t, db.Save(match).Error)

	createTestProduct(t, db, owner.ID, category.ID, models.StatusPublished, future)

	products, total, err := repo.GetPublishedPaginated(ctx(), ProductFilter{Keyword: "drill"}, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, products, 1)
	assert.Equal(t, match.ID, products[0].ID)
}

func TestFavorites(t *testing.T) {
	db := testDB(t)
	repo := NewProductRepository(db)

	category := createTestCategory(t, db, "Equipment", nil)
	owner := createTestUser(t, db)
	buyer := createTestUser(t, db)
	product := createTestProduct(t, db, owner.ID, category.ID, models.StatusPublished, time.Now().Add(time.Hour))

	fav, err := repo.IsFavorite(ctx(), buyer.ID, product.ID)
	require.NoError(t, err)
	assert.False(t, fav)

	require.NoError(t, repo.AddFavorite(ctx(), buyer.ID, product.ID))

	fav, err = repo.IsFavorite(ctx(), buyer.ID, product.ID)
	require.NoError(t, err)
	assert.True(t, fav)

	favorites, err := repo.GetFavorites(ctx(), buyer.ID)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, product.ID, favorites[0].ID)

	require.NoError(t, repo.RemoveFavorite(ctx(), buyer.ID, product.ID))

	favorites, err = repo.GetFavorites(ctx(), buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, favorites)
}
