package repositories

import (
	"context"

	"github.com/vportale/marketplace/app/models"
	"gorm.io/gorm"
)

type CategoryRepositoryImpl interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id string) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	GetAll(ctx context.Context) ([]models.Category, error)
	GetTopLevel(ctx context.Context) ([]models.Category, error)
	GetChildren(ctx context.Context, parentID string) ([]models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id string) error
	DeleteEmpty(ctx context.Context) (int, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepositoryImpl {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	if category.ParentID != nil && *category.ParentID == category.ID {
		return ErrSelfParent
	}

	var count int64
	query := r.db.WithContext(ctx).Model(&models.Category{}).Where("name = ?", category.Name)
	if category.ParentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *category.ParentID)
	}
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateName
	}

	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).Preload("Parent").First(&category, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).Preload("Parent").First(&category, "slug = ?", slug).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Preload("Parent").Order("name").Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) GetTopLevel(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Preload("Children").Where("parent_id IS NULL").Order("name").Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) GetChildren(ctx context.Context, parentID string) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Where("parent_id = ?", parentID).Order("name").Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	if category.ParentID != nil && *category.ParentID == category.ID {
		return ErrSelfParent
	}
	return r.db.WithContext(ctx).Save(category).Error
}

// Delete refuses to remove a category that still has child categories or
// attached products. The check is a pre-delete count, not a DB constraint.
func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	inUse, err := r.isInUse(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return ErrNodeInUse
	}
	return r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id).Error
}

func (r *categoryRepository) isInUse(ctx context.Context, id string) (bool, error) {
	var children int64
	if err := r.db.WithContext(ctx).Model(&models.Category{}).Where("parent_id = ?", id).Count(&children).Error; err != nil {
		return false, err
	}
	if children > 0 {
		return true, nil
	}

	var products int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Where("category_id = ?", id).Count(&products).Error; err != nil {
		return false, err
	}
	return products > 0, nil
}

// DeleteEmpty removes leaf categories with no products, repeating until the
// scan finds nothing to remove so emptied parents get picked up too.
func (r *categoryRepository) DeleteEmpty(ctx context.Context) (int, error) {
	deleted := 0
	for {
		categories, err := r.GetAll(ctx)
		if err != nil {
			return deleted, err
		}

		removedThisPass := 0
		for _, category := range categories {
			inUse, err := r.isInUse(ctx, category.ID)
			if err != nil {
				return deleted, err
			}
			if inUse {
				continue
			}
			if err := r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", category.ID).Error; err != nil {
				return deleted, err
			}
			removedThisPass++
		}

		deleted += removedThisPass
		if removedThisPass == 0 {
			return deleted, nil
		}
	}
}
