package admin

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/vportale/marketplace/app/helpers"
	"github.com/vportale/marketplace/app/models"
	"github.com/vportale/marketplace/app/repositories"
	"github.com/vportale/marketplace/app/services"
)

func (h *AdminHandler) Locations(w http.ResponseWriter, r *http.Request) {
	regions, err := h.locationRepo.GetAllRegions(r.Context())
	if err != nil {
		log.Printf("Locations: Error loading regions: %v", err)
	}

	pageSpecificData := map[string]interface{}{
		"Title":       "Regions and Cities",
		"IsAdminPage": true,
		"Regions":     regions,
	}

	data := helpers.GetBaseData(r, pageSpecificData)
	_ = h.render.HTML(w, http.StatusOK, "admin/locations/index", data)
}

func (h *AdminHandler) AddRegionPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/admin/locations?status=error&message="+url.QueryEscape("Something went wrong while processing the form."), http.StatusSeeOther)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		http.Redirect(w, r, "/admin/locations?status=error&message="+url.QueryEscape("Region name is required."), http.StatusSeeOther)
		return
	}

	region := &models.Region{
		ID:        uuid.New().String(),
		Name:      name,
		ParentID:  optionalID(r.FormValue("parent_id")),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := h.locationRepo.CreateRegion(r.Context(), region); err != nil {
		if errors.Is(err, repositories.ErrDuplicateName) {
			http.Redirect(w, r, "/admin/locations?status=error&message="+url.QueryEscape("A region with this name already exists."), http.StatusSeeOther)
			return
		}
		log.Printf("AddRegionPost: %v", err)
		http.Redirect(w, r, "/admin/locations?status=error&message="+url.QueryEscape("Failed to create the region."), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/admin/locations?status=success&message="+url.QueryEscape("Region created."), http.StatusSeeOther)
}

func (h *AdminHandler) EditRegionPost(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	region, err := h.locationRepo.GetRegionByID(r.Context(), vars["id"])
	if err != nil || region == nil {
		http.NotFound(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/admin/locations?status=error&message="+url.QueryEscape("Something went wrong while processing the form."), http.StatusSeeOther)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		http.Redirect(w, r, "/admin/locations?status=error&message="+url.QueryEscape("Region name is required."), http.StatusSeeOther)
		return
	}

	region.Name = name
	region.ParentID = optionalID(r.FormValue("parent_id"))
	region.UpdatedAt = time.Now()

	if err := h.locationRepo.UpdateRegion(r.Context(), region); err != nil {
		if errors.Is(err, repositories.ErrSelfParent) {
			http.Redirect(w, r, "/admin/locations?status=error&message="+url.QueryEscape("A region cannot be its own parent."), http.StatusSeeOther)
			return
		}
		log.Printf("EditRegionPost: %v", err)
		http.Redirect(w, r, "/admin/locations?status=error&message="+url.QueryEscape("Failed to update the region."), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/admin/locations?status=success&message="+url.QueryEscape("Region updated."), http.StatusSeeOther)
}

// DeleteRegionPost refuses to remove a region with child regions, cities or
// listings attached.
func (h *AdminHandler) DeleteRegionPost(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if err := h.locationRepo.DeleteRegion(r.Context(), vars["id"]); err != nil {
		if errors.Is(err, repositories.ErrNodeInUse) {
			http.Redirect(w, r, "/admin/locations?status=error&message="+url.QueryEscape("Region still has cities, subregions or listings and cannot be deleted."), http.StatusSeeOther)
			return
		}
		log.Printf("DeleteRegionPost: Failed to delete region %s: %v", vars["id"], err)
		http.Redirect(w, r, "/admin/locations?status=error&message="+url.QueryEscape("Failed to delete the region."), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/admin/locations?status=success&message="+url.QueryEscape("Region deleted."), http.StatusSeeOther)
}

func (h *AdminHandler) AddCityPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/admin/locations?status=error&message="+url.QueryEscape("Something went wrong while processing the form."), http.StatusSeeOther)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	regionID := r.FormValue("region_id")
	if name == "" || regionID == "" {
		http.Redirect(w, r, "/admin/locations?status=error&message="+url.QueryEscape("City name and region are required."), http.StatusSeeOther)
		return
	}

	region, err := h.locationRepo.GetRegionByID(r.Context(), regionID)
	if err != nil || region == nil {
		http.Redirect(w, r, "/admin/locations?status=error&message="+url.QueryEscape("Unknown region."), http.StatusSeeOther)
		return
	}

	city := &models.City{
		ID:        uuid.New().String(),
		Name:      name,
		RegionID:  region.ID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := h.locationRepo.CreateCity(r.Context(), city); err != nil {
		if errors.Is(err, repositories.ErrDuplicateName) {
			http.Redirect(w, r, "/admin/locations?status=error&message="+url.QueryEscape("This city already exists in the region."), http.StatusSeeOther)
			return
		}
		log.Printf("AddCityPost: %v", err)
		http.Redirect(w, r, "/admin/locations?status=error&message="+url.QueryEscape("Failed to create the city."), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/admin/locations?status=success&message="+url.QueryEscape("City created."), http.StatusSeeOther)
}

func (h *AdminHandler) DeleteCityPost(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if err := h.locationRepo.DeleteCity(r.Context(), vars["id"]); err != nil {
		if errors.Is(err, repositories.ErrNodeInUse) {
			http.Redirect(w, r, "/admin/locations?status=error&message="+url.QueryEscape("City still has listings and cannot be deleted."), http.StatusSeeOther)
			return
		}
		log.Printf("DeleteCityPost: Failed to delete city %s: %v", vars["id"], err)
		http.Redirect(w, r, "/admin/locations?status=error&message="+url.QueryEscape("Failed to delete the city."), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/admin/locations?status=success&message="+url.QueryEscape("City deleted."), http.StatusSeeOther)
}

func (h *AdminHandler) ClearEmptyLocationsPost(w http.ResponseWriter, r *http.Request) {
	removed, err := h.locationRepo.DeleteEmpty(r.Context())
	if err != nil {
		log.Printf("ClearEmptyLocationsPost: %v", err)
		http.Redirect(w, r, "/admin/locations?status=error&message="+url.QueryEscape("Failed to clear empty locations."), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/admin/locations?status=success&message="+url.QueryEscape(fmt.Sprintf("Removed %d empty locations.", removed)), http.StatusSeeOther)
}

// ImportLocationsPost accepts a JSON or CSV file; the format is picked by
// file extension.
func (h *AdminHandler) ImportLocationsPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		http.Redirect(w, r, "/admin/locations?status=error&message="+url.QueryEscape("Upload is too large or malformed."), http.StatusSeeOther)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Redirect(w, r, "/admin/locations?status=error&message="+url.QueryEscape("Please attach a JSON or CSV file."), http.StatusSeeOther)
		return
	}
	defer file.Close()

	var entries []services.LocationEntry
	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".json":
		entries, err = services.ParseLocationJSON(file)
	case ".csv":
		entries, err = services.ParseLocationCSV(file)
	default:
		http.Redirect(w, r, "/admin/locations?status=error&message="+url.QueryEscape("Only .json and .csv files are supported."), http.StatusSeeOther)
		return
	}
	if err != nil {
		http.Redirect(w, r, "/admin/locations?status=error&message="+url.QueryEscape("The file could not be parsed."), http.StatusSeeOther)
		return
	}

	result, err := h.importer.ImportLocations(r.Context(), entries)
	if err != nil {
		log.Printf("ImportLocationsPost: Import failed: %v", err)
		http.Redirect(w, r, "/admin/locations?status=error&message="+url.QueryEscape("Import failed partway through."), http.StatusSeeOther)
		return
	}

	msg := fmt.Sprintf("Import finished: %d created, %d skipped.", result.Created, result.Skipped)
	http.Redirect(w, r, "/admin/locations?status=success&message="+url.QueryEscape(msg), http.StatusSeeOther)
}
