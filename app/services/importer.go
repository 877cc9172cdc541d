package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/vportale/marketplace/app/models"
	"github.com/vportale/marketplace/app/repositories"
)

// CategoryNode is the minimal JSON import schema: a name plus optional
// nested children.
type CategoryNode struct {
	Name     string         `json:"name"`
	Children []CategoryNode `json:"children"`
}

// LocationEntry is the JSON import schema for regions and their cities.
type LocationEntry struct {
	Region string   `json:"region"`
	Cities []string `json:"cities"`
}

// ImportResult counts what a bulk import created and what it skipped.
type ImportResult struct {
	Created int
	Skipped int
}

type Importer struct {
	categoryRepo repositories.CategoryRepositoryImpl
	locationRepo repositories.LocationRepositoryImpl
}

func NewImporter(categoryRepo repositories.CategoryRepositoryImpl, locationRepo repositories.LocationRepositoryImpl) *Importer {
	return &Importer{
		categoryRepo: categoryRepo,
		locationRepo: locationRepo,
	}
}

func ParseCategoryJSON(r io.Reader) ([]CategoryNode, error) {
	var nodes []CategoryNode
	if err := json.NewDecoder(r).Decode(&nodes); err != nil {
		return nil, fmt.Errorf("invalid category JSON: %w", err)
	}
	return nodes, nil
}

func (i *Importer) ImportCategories(ctx context.Context, nodes []CategoryNode) (ImportResult, error) {
	var result ImportResult
	err := i.importCategoryLevel(ctx, nodes, nil, &result)
	return result, err
}

func (i *Importer) importCategoryLevel(ctx context.Context, nodes []CategoryNode, parentID *string, result *ImportResult) error {
	for _, node := range nodes {
		name := strings.TrimSpace(node.Name)
		if name == "" {
			result.Skipped++
			continue
		}

		category := &models.Category{
			ID:        uuid.New().String(),
			Name:      name,
			Slug:      slug.Make(name + "-" + uuid.NewString()[:6]),
			ParentID:  parentID,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		err := i.categoryRepo.Create(ctx, category)
		switch err {
		case nil:
			result.Created++
		case repositories.ErrDuplicateName:
			result.Skipped++
			// Recurse under the existing node so children still import.
			existing, findErr := i.findCategoryByNameAndParent(ctx, name, parentID)
			if findErr != nil {
				return findErr
			}
			if existing != nil {
				category.ID = existing.ID
			}
		default:
			return err
		}

		if len(node.Children) > 0 {
			childParent := category.ID
			if err := i.importCategoryLevel(ctx, node.Children, &childParent, result); err != nil {
				return err
			}
		}
	}
	return nil
}

func (i *Importer) findCategoryByNameAndParent(ctx context.Context, name string, parentID *string) (*models.Category, error) {
	var siblings []models.Category
	var err error
	if parentID == nil {
		siblings, err = i.categoryRepo.GetTopLevel(ctx)
	} else {
		siblings, err = i.categoryRepo.GetChildren(ctx, *parentID)
	}
	if err != nil {
		return nil, err
	}
	for idx := range siblings {
		if siblings[idx].Name == name {
			return &siblings[idx], nil
		}
	}
	return nil, nil
}

func ParseLocationJSON(r io.Reader) ([]LocationEntry, error) {
	var entries []LocationEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("invalid location JSON: %w", err)
	}
	return entries, nil
}

// ParseLocationCSV reads a two-column region,city file. A header row naming
// the columns is tolerated and skipped.
func ParseLocationCSV(r io.Reader) ([]LocationEntry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	byRegion := make(map[string][]string)
	seen := make(map[string]bool)
	var order []string

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid location CSV: %w", err)
		}
		if len(record) < 2 {
			continue
		}

		region := strings.TrimSpace(record[0])
		city := strings.TrimSpace(record[1])
		if region == "" {
			continue
		}
		if strings.EqualFold(region, "region") && strings.EqualFold(city, "city") {
			continue
		}

		if !seen[region] {
			seen[region] = true
			order = append(order, region)
		}
		if city != "" {
			byRegion[region] = append(byRegion[region], city)
		}
	}

	entries := make([]LocationEntry, 0, len(order))
	for _, region := range order {
		entries = append(entries, LocationEntry{Region: region, Cities: byRegion[region]})
	}
	return entries, nil
}

func (i *Importer) ImportLocations(ctx context.Context, entries []LocationEntry) (ImportResult, error) {
	var result ImportResult

	for _, entry := range entries {
		regionName := strings.TrimSpace(entry.Region)
		if regionName == "" {
			result.Skipped++
			continue
		}

		region, err := i.locationRepo.GetRegionByName(ctx, regionName)
		if err != nil {
			return result, err
		}
		if region == nil {
			region = &models.Region{
				ID:        uuid.New().String(),
				Name:      regionName,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}
			if err := i.locationRepo.CreateRegion(ctx, region); err != nil {
				return result, err
			}
			result.Created++
		} else {
			result.Skipped++
		}

		for _, cityName := range entry.Cities {
			cityName = strings.TrimSpace(cityName)
			if cityName == "" {
				result.Skipped++
				continue
			}
			city := &models.City{
				ID:        uuid.New().String(),
				Name:      cityName,
				RegionID:  region.ID,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}
			err := i.locationRepo.CreateCity(ctx, city)
			switch err {
			case nil:
				result.Created++
			case repositories.ErrDuplicateName:
				result.Skipped++
			default:
				return result, err
			}
		}
	}

	return result, nil
}
