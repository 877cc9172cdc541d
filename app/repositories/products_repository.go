package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/vportale/marketplace/app/models"
	"gorm.io/gorm"
)

// ProductFilter narrows the public listing query. Zero values mean "no filter".
type ProductFilter struct {
	Keyword    string
	CategoryID string
	RegionID   string
	CityID     string
}

type ProductRepositoryImpl interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
	GetPublishedPaginated(ctx context.Context, filter ProductFilter, limit, offset int) ([]models.Product, int64, error)
	GetByOwner(ctx context.Context, userID string) ([]models.Product, error)
	ExpireForOwner(ctx context.Context, userID string, now time.Time) (int64, error)
	ExpireAll(ctx context.Context, now time.Time) (int64, error)
	CountAll(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)

	AddFavorite(ctx context.Context, userID, productID string) error
	RemoveFavorite(ctx context.Context, userID, productID string) error
	IsFavorite(ctx context.Context, userID, productID string) (bool, error)
	GetFavorites(ctx context.Context, userID string) ([]models.Product, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepositoryImpl {
	return &productRepository{db}
}

func (p *productRepository) Create(ctx context.Context, product *models.Product) error {
	return p.db.WithContext(ctx).Create(product).Error
}

func (p *productRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := p.db.WithContext(ctx).
		Preload("Category").
		Preload("User").
		Preload("Region").
		Preload("City").
		First(&product, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (p *productRepository) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := p.db.WithContext(ctx).
		Preload("Category").
		Preload("User").
		First(&product, "slug = ?", slug).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (p *productRepository) Update(ctx context.Context, product *models.Product) error {
	return p.db.WithContext(ctx).Save(product).Error
}

func (p *productRepository) Delete(ctx context.Context, id string) error {
	return p.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

func (p *productRepository) publishedQuery(ctx context.Context, filter ProductFilter) *gorm.DB {
	query := p.db.WithContext(ctx).Model(&models.Product{}).Where("status = ?", models.StatusPublished)

	if filter.Keyword != "" {
		keyword := "%" + strings.ToLower(filter.Keyword) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", keyword, keyword)
	}
	if filter.CategoryID != "" {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.RegionID != "" {
		query = query.Where("region_id = ?", filter.RegionID)
	}
	if filter.CityID != "" {
		query = query.Where("city_id = ?", filter.CityID)
	}
	return query
}

func (p *productRepository) GetPublishedPaginated(ctx context.Context, filter ProductFilter, limit, offset int) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	if err := p.publishedQuery(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := p.publishedQuery(ctx, filter).
		Preload("Category").
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&products).Error

	return products, total, err
}

func (p *productRepository) GetByOwner(ctx context.Context, userID string) ([]models.Product, error) {
	var products []models.Product
	err := p.db.WithContext(ctx).
		Preload("Category").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&products).Error
	return products, err
}

// ExpireForOwner applies the lazy published -> ready_for_publication
// transition to a single owner's listings. Called on dashboard render so a
// visitor browsing someone else's catalog never mutates it.
func (p *productRepository) ExpireForOwner(ctx context.Context, userID string, now time.Time) (int64, error) {
	result := p.db.WithContext(ctx).Model(&models.Product{}).
		Where("user_id = ? AND status = ? AND expires_at < ?", userID, models.StatusPublished, now).
		Update("status", models.StatusReadyForPublication)
	return result.RowsAffected, result.Error
}

// ExpireAll is the same transition across all rows, for the scheduled sweep.
func (p *productRepository) ExpireAll(ctx context.Context, now time.Time) (int64, error) {
	result := p.db.WithContext(ctx).Model(&models.Product{}).
		Where("status = ? AND expires_at < ?", models.StatusPublished, now).
		Update("status", models.StatusReadyForPublication)
	return result.RowsAffected, result.Error
}

func (p *productRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error
	return count, err
}

func (p *productRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).Model(&models.Product{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (p *productRepository) AddFavorite(ctx context.Context, userID, productID string) error {
	user := models.User{ID: userID}
	product := models.Product{ID: productID}
	return p.db.WithContext(ctx).Model(&user).Association("Favorites").Append(&product)
}

func (p *productRepository) RemoveFavorite(ctx context.Context, userID, productID string) error {
	user := models.User{ID: userID}
	product := models.Product{ID: productID}
	return p.db.WithContext(ctx).Model(&user).Association("Favorites").Delete(&product)
}

func (p *productRepository) IsFavorite(ctx context.Context, userID, productID string) (bool, error) {
	var count int64
	err := p.db.WithContext(ctx).Table("user_favorites").
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	return count > 0, err
}

func (p *productRepository) GetFavorites(ctx context.Context, userID string) ([]models.Product, error) {
	var products []models.Product
	err := p.db.WithContext(ctx).
		Preload("Category").
		Joins("JOIN user_favorites uf ON uf.product_id = products.id").
		Where("uf.user_id = ?", userID).
		Order("products.created_at DESC").
		Find(&products).Error
	return products, err
}
