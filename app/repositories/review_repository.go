package repositories

import (
	"context"

	"github.com/vportale/marketplace/app/models"
	"gorm.io/gorm"
)

type ReviewRepositoryImpl interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id string) (*models.Review, error)
	FindExisting(ctx context.Context, sellerID, buyerID string, productID *string) (*models.Review, error)
	GetPublishedBySeller(ctx context.Context, sellerID string) ([]models.Review, error)
	SetPublished(ctx context.Context, id string, published bool) error
	Delete(ctx context.Context, id string) error
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepositoryImpl {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) GetByID(ctx context.Context, id string) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).First(&review, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

// FindExisting looks up a review with the same (seller, buyer, product)
// triple. Uniqueness is enforced here in the application, not by the schema.
func (r *reviewRepository) FindExisting(ctx context.Context, sellerID, buyerID string, productID *string) (*models.Review, error) {
	var review models.Review
	query := r.db.WithContext(ctx).Where("seller_id = ? AND buyer_id = ?", sellerID, buyerID)
	if productID == nil {
		query = query.Where("product_id IS NULL")
	} else {
		query = query.Where("product_id = ?", *productID)
	}
	err := query.First(&review).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) GetPublishedBySeller(ctx context.Context, sellerID string) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).
		Preload("Buyer").
		Where("seller_id = ? AND is_published = ?", sellerID, true).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepository) SetPublished(ctx context.Context, id string, published bool) error {
	return r.db.WithContext(ctx).Model(&models.Review{}).Where("id = ?", id).Update("is_published", published).Error
}

func (r *reviewRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Review{}, "id = ?", id).Error
}
