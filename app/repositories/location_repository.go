package repositories

import (
	"context"
	"strings"

	"github.com/vportale/marketplace/app/models"
	"gorm.io/gorm"
)

// LocationSuggestion is one row of the /api/locations autocomplete payload.
type LocationSuggestion struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	DisplayName string `json:"display_name"`
}

type LocationRepositoryImpl interface {
	CreateRegion(ctx context.Context, region *models.Region) error
	GetRegionByID(ctx context.Context, id string) (*models.Region, error)
	GetRegionByName(ctx context.Context, name string) (*models.Region, error)
	GetAllRegions(ctx context.Context) ([]models.Region, error)
	UpdateRegion(ctx context.Context, region *models.Region) error
	DeleteRegion(ctx context.Context, id string) error

	CreateCity(ctx context.Context, city *models.City) error
	GetCityByID(ctx context.Context, id string) (*models.City, error)
	GetCitiesByRegion(ctx context.Context, regionID string) ([]models.City, error)
	DeleteCity(ctx context.Context, id string) error

	Search(ctx context.Context, query string, limit int) ([]LocationSuggestion, error)
	DeleteEmpty(ctx context.Context) (int, error)
}

type locationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) LocationRepositoryImpl {
	return &locationRepository{db: db}
}

func (r *locationRepository) CreateRegion(ctx context.Context, region *models.Region) error {
	if region.ParentID != nil && *region.ParentID == region.ID {
		return ErrSelfParent
	}

	var count int64
	query := r.db.WithContext(ctx).Model(&models.Region{}).Where("name = ?", region.Name)
	if region.ParentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *region.ParentID)
	}
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateName
	}

	return r.db.WithContext(ctx).Create(region).Error
}

func (r *locationRepository) GetRegionByID(ctx context.Context, id string) (*models.Region, error) {
	var region models.Region
	err := r.db.WithContext(ctx).Preload("Cities").First(&region, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &region, nil
}

func (r *locationRepository) GetRegionByName(ctx context.Context, name string) (*models.Region, error) {
	var region models.Region
	err := r.db.WithContext(ctx).First(&region, "name = ?", name).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &region, nil
}

func (r *locationRepository) GetAllRegions(ctx context.Context) ([]models.Region, error) {
	var regions []models.Region
	err := r.db.WithContext(ctx).Preload("Cities").Order("name").Find(&regions).Error
	if err != nil {
		return nil, err
	}
	return regions, nil
}

func (r *locationRepository) UpdateRegion(ctx context.Context, region *models.Region) error {
	if region.ParentID != nil && *region.ParentID == region.ID {
		return ErrSelfParent
	}
	return r.db.WithContext(ctx).Save(region).Error
}

// DeleteRegion refuses while sub-regions, cities or products still reference
// the region.
func (r *locationRepository) DeleteRegion(ctx context.Context, id string) error {
	inUse, err := r.regionInUse(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return ErrNodeInUse
	}
	return r.db.WithContext(ctx).Delete(&models.Region{}, "id = ?", id).Error
}

func (r *locationRepository) regionInUse(ctx context.Context, id string) (bool, error) {
	var children int64
	if err := r.db.WithContext(ctx).Model(&models.Region{}).Where("parent_id = ?", id).Count(&children).Error; err != nil {
		return false, err
	}
	if children > 0 {
		return true, nil
	}

	var cities int64
	if err := r.db.WithContext(ctx).Model(&models.City{}).Where("region_id = ?", id).Count(&cities).Error; err != nil {
		return false, err
	}
	if cities > 0 {
		return true, nil
	}

	var products int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Where("region_id = ?", id).Count(&products).Error; err != nil {
		return false, err
	}
	return products > 0, nil
}

func (r *locationRepository) CreateCity(ctx context.Context, city *models.City) error {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.City{}).
		Where("name = ? AND region_id = ?", city.Name, city.RegionID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateName
	}

	return r.db.WithContext(ctx).Create(city).Error
}

func (r *locationRepository) GetCityByID(ctx context.Context, id string) (*models.City, error) {
	var city models.City
	err := r.db.WithContext(ctx).Preload("Region").First(&city, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &city, nil
}

func (r *locationRepository) GetCitiesByRegion(ctx context.Context, regionID string) ([]models.City, error) {
	var cities []models.City
	err := r.db.WithContext(ctx).Where("region_id = ?", regionID).Order("name").Find(&cities).Error
	if err != nil {
		return nil, err
	}
	return cities, nil
}

func (r *locationRepository) DeleteCity(ctx context.Context, id string) error {
	var products int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Where("city_id = ?", id).Count(&products).Error; err != nil {
		return err
	}
	if products > 0 {
		return ErrNodeInUse
	}
	return r.db.WithContext(ctx).Delete(&models.City{}, "id = ?", id).Error
}

// Search matches regions and cities by name prefix first, then by substring,
// interleaving both kinds for the autocomplete endpoint.
func (r *locationRepository) Search(ctx context.Context, query string, limit int) ([]LocationSuggestion, error) {
	if limit <= 0 {
		limit = 10
	}
	pattern := "%" + strings.ToLower(query) + "%"

	var regions []models.Region
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ?", pattern).
		Order("name").
		Limit(limit / 2).
		Find(&regions).Error
	if err != nil {
		return nil, err
	}

	var cities []models.City
	err = r.db.WithContext(ctx).
		Preload("Region").
		Where("LOWER(name) LIKE ?", pattern).
		Order("name").
		Limit(limit).
		Find(&cities).Error
	if err != nil {
		return nil, err
	}

	suggestions := make([]LocationSuggestion, 0, len(regions)+len(cities))
	for _, region := range regions {
		suggestions = append(suggestions, LocationSuggestion{
			ID:          "region_" + region.ID,
			Name:        region.Name,
			Type:        "region",
			DisplayName: region.Name,
		})
	}
	for _, city := range cities {
		if len(suggestions) >= limit {
			break
		}
		display := city.Name
		if city.Region.Name != "" {
			display = city.Name + " (" + city.Region.Name + ")"
		}
		suggestions = append(suggestions, LocationSuggestion{
			ID:          "city_" + city.ID,
			Name:        city.Name,
			Type:        "city",
			DisplayName: display,
		})
	}

	return suggestions, nil
}

// DeleteEmpty removes cities with no products, then leaf regions with no
// cities, sub-regions or products, repeating until stable.
func (r *locationRepository) DeleteEmpty(ctx context.Context) (int, error) {
	deleted := 0
	for {
		removedThisPass := 0

		var cities []models.City
		if err := r.db.WithContext(ctx).Find(&cities).Error; err != nil {
			return deleted, err
		}
		for _, city := range cities {
			var products int64
			if err := r.db.WithContext(ctx).Model(&models.Product{}).Where("city_id = ?", city.ID).Count(&products).Error; err != nil {
				return deleted, err
			}
			if products > 0 {
				continue
			}
			if err := r.db.WithContext(ctx).Delete(&models.City{}, "id = ?", city.ID).Error; err != nil {
				return deleted, err
			}
			removedThisPass++
		}

		var regions []models.Region
		if err := r.db.WithContext(ctx).Find(&regions).Error; err != nil {
			return deleted, err
		}
		for _, region := range regions {
			inUse, err := r.regionInUse(ctx, region.ID)
			if err != nil {
				return deleted, err
			}
			if inUse {
				continue
			}
			if err := r.db.WithContext(ctx).Delete(&models.Region{}, "id = ?", region.ID).Error; err != nil {
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
