package repositories

import (
	"context"

	"github.com/vportale/marketplace/app/models"
	"gorm.io/gorm"
)

type ContactRepositoryImpl interface {
	Create(ctx context.Context, request *models.ContactRequest) error
	GetByID(ctx context.Context, id string) (*models.ContactRequest, error)
	GetAll(ctx context.Context) ([]models.ContactRequest, error)
	Update(ctx context.Context, request *models.ContactRequest) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context, status string) (int64, error)
}

type contactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepositoryImpl {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, request *models.ContactRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *contactRepository) GetByID(ctx context.Context, id string) (*models.ContactRequest, error) {
	var request models.ContactRequest
	err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

func (r *contactRepository) GetAll(ctx context.Context) ([]models.ContactRequest, error) {
	var requests []models.ContactRequest
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&requests).Error
	return requests, err
}

func (r *contactRepository) Update(ctx context.Context, request *models.ContactRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

func (r *contactRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.ContactRequest{}, "id = ?", id).Error
}

func (r *contactRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ContactRequest{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
