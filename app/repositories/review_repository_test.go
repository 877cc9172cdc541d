package repositories

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vportale/marketplace/app/models"
)

func TestFindExistingMatchesTriple(t *testing.T) {
	db := testDB(t)
	repo := NewReviewRepository(db)

	category := createTestCategory(t, db, "Equipment", nil)
	seller := createTestUser(t, db)
	buyer := createTestUser(t, db)
	product := createTestProduct(t, db, seller.ID, category.ID, models.StatusPublished, time.Now().Add(time.Hour))

	review := &models.Review{
		ID:          uuid.New().String(),
		SellerID:    seller.ID,
		BuyerID:     buyer.ID,
		ProductID:   &product.ID,
		Rating:      5,
		IsPublished: true,
	}
	require.NoError(t, repo.Create(ctx(), review))

	found, err := repo.FindExisting(ctx(), seller.ID, buyer.ID, &product.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, review.ID, found.ID)

	// The product-less review is a separate slot.
	found, err = repo.FindExisting(ctx(), seller.ID, buyer.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, found)

	found, err = repo.FindExisting(ctx(), seller.ID, "someone-else", &product.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestFindExistingDirectReview(t *testing.T) {
	db := testDB(t)
	repo := NewReviewRepository(db)

	seller := createTestUser(t, db)
	buyer := createTestUser(t, db)

	review := &models.Review{
		ID:          uuid.New().String(),
		SellerID:    seller.ID,
		BuyerID:     buyer.ID,
		Rating:      4,
		IsPublished: true,
	}
	require.NoError(t, repo.Create(ctx(), review))

	found, err := repo.FindExisting(ctx(), seller.ID, buyer.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, review.ID, found.ID)
}

func TestGetPublishedBySellerHidesUnpublished(t *testing.T) {
	db := testDB(t)
	repo := NewReviewRepository(db)

	seller := createTestUser(t, db)
	buyer := createTestUser(t, db)
	other := createTestUser(t, db)

	visible := &models.Review{
		ID: uuid.New().String(), SellerID: seller.ID, BuyerID: buyer.ID,
		Rating: 5, IsPublished: true,
	}
	hidden := &models.Review{
		ID: uuid.New().String(), SellerID: seller.ID, BuyerID: other.ID,
		Rating: 1, IsPublished: false,
	}
	require.NoError(t, repo.Create(ctx(), visible))
	require.NoError(t, repo.Create(ctx(), hidden))

	reviews, err := repo.GetPublishedBySeller(ctx(), seller.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, visible.ID, reviews[0].ID)

	require.NoError(t, repo.SetPublished(ctx(), hidden.ID, true))

	reviews, err = repo.GetPublishedBySeller(ctx(), seller.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 2)
}
