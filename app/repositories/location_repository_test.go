package repositories

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vportale/marketplace/app/models"
	"gorm.io/gorm"
)

func createTestRegion(t *testing.T, db *gorm.DB, name string) *models.Region {
	t.Helper()

	region := &models.Region{ID: uuid.New().String(), Name: name}
	require.NoError(t, db.Create(region).Error)
	return region
}

func TestDeleteRegionBlockedByCities(t *testing.T) {
	db := testDB(t)
	repo := NewLocationRepository(db)

	region := createTestRegion(t, db, "Moscow Region")
	city := &models.City{ID: uuid.New().String(), Name: "Moscow", RegionID: region.ID}
	require.NoError(t, db.Create(city).Error)

	assert.ErrorIs(t, repo.DeleteRegion(ctx(), region.ID), ErrNodeInUse)

	require.NoError(t, repo.DeleteCity(ctx(), city.ID))
	require.NoError(t, repo.DeleteRegion(ctx(), region.ID))
}

func TestDeleteCityBlockedByProducts(t *testing.T) {
	db := testDB(t)
	repo := NewLocationRepository(db)

	region := createTestRegion(t, db, "Moscow Region")
	city := &models.City{ID: uuid.New().String(), Name: "Moscow", RegionID: region.ID}
	require.NoError(t, db.Create(city).Error)

	category := createTestCategory(t, db, "Equipment", nil)
	owner := createTestUser(t, db)
	product := createTestProduct(t, db, owner.ID, category.ID, models.StatusPublished, time.Now().Add(time.Hour))
	product.CityID = &city.ID
	require.NoError(t, db.Save(product).Error)

	assert.ErrorIs(t, repo.DeleteCity(ctx(), city.ID), ErrNodeInUse)
}

func TestCreateCityRejectsDuplicateInRegion(t *testing.T) {
	db := testDB(t)
	repo := NewLocationRepository(db)

	region := createTestRegion(t, db, "Moscow Region")
	other := createTestRegion(t, db, "Leningrad Region")

	city := &models.City{ID: uuid.New().String(), Name: "Pushkino", RegionID: region.ID}
	require.NoError(t, repo.CreateCity(ctx(), city))

	duplicate := &models.City{ID: uuid.New().String(), Name: "Pushkino", RegionID: region.ID}
	assert.ErrorIs(t, repo.CreateCity(ctx(), duplicate), ErrDuplicateName)

	elsewhere := &models.City{ID: uuid.New().String(), Name: "Pushkino", RegionID: other.ID}
	assert.NoError(t, repo.CreateCity(ctx(), elsewhere))
}

func TestSearchFindsRegionsAndCities(t *testing.T) {
	db := testDB(t)
	repo := NewLocationRepository(db)

	region := createTestRegion(t, db, "Novosibirsk Region")
	city := &models.City{ID: uuid.New().String(), Name: "Novosibirsk", RegionID: region.ID}
	require.NoError(t, db.Create(city).Error)

	suggestions, err := repo.Search(ctx(), "novosib", 10)
	require.NoError(t, err)
	require.Len(t, suggestions, 2)

	types := []string{suggestions[0].Type, suggestions[1].Type}
	assert.Contains(t, types, "region")
	assert.Contains(t, types, "city")

	for _, s := range suggestions {
		if s.Type == "city" {
			assert.Equal(t, "Novosibirsk (Novosibirsk Region)", s.DisplayName)
		}
	}
}

func TestLocationDeleteEmpty(t *testing.T) {
	db := testDB(t)
	repo := NewLocationRepository(db)

	emptyRegion := createTestRegion(t, db, "Empty Region")
	emptyCity := &models.City{ID: uuid.New().String(), Name: "Ghost Town", RegionID: emptyRegion.ID}
	require.NoError(t, db.Create(emptyCity).Error)

	usedRegion := createTestRegion(t, db, "Used Region")
	category := createTestCategory(t, db, "Equipment", nil)
	owner := createTestUser(t, db)
	product := createTestProduct(t, db, owner.ID, category.ID, models.StatusPublished, time.Now().Add(time.Hour))
	product.RegionID = &usedRegion.ID
	require.NoError(t, db.Save(product).Error)

	removed, err := repo.DeleteEmpty(ctx())
	require.NoError(t, err)
	assert.Equal(t, 2, removed, "empty city then its emptied region")

	regions, err := repo.GetAllRegions(ctx())
	require.NoError(t, err)
	require.Len(t, regions, 1)
	assert.Equal(t, usedRegion.ID, regions[0].ID)
}
