package admin

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/vportale/marketplace/app/helpers"
	"github.com/vportale/marketplace/app/models"
	"github.com/vportale/marketplace/app/repositories"
	"github.com/vportale/marketplace/app/services"
)

const maxImportSize = 8 << 20

type CategoryForm struct {
	Name        string `form:"name" validate:"required,min=2,max=100"`
	Description string `form:"description" validate:"omitempty,max=1000"`
	ParentID    string `form:"parent_id" validate:"omitempty,uuid4"`
}

func (h *AdminHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryRepo.GetAll(r.Context())
	if err != nil {
		log.Printf("Categories: Error loading categories: %v", err)
	}

	pageSpecificData := map[string]interface{}{
		"Title":       "Categories",
		"IsAdminPage": true,
		"Categories":  categories,
	}

	data := helpers.GetBaseData(r, pageSpecificData)
	_ = h.render.HTML(w, http.StatusOK, "admin/categories/index", data)
}

func (h *AdminHandler) AddCategoryGet(w http.ResponseWriter, r *http.Request) {
	h.renderCategoryForm(w, r, "Add Category", "/admin/categories/add", &models.Category{})
}

func (h *AdminHandler) AddCategoryPost(w http.ResponseWriter, r *http.Request) {
	form, ok := h.parseCategoryForm(w, r, "/admin/categories/add")
	if !ok {
		return
	}

	category := &models.Category{
		ID:          uuid.New().String(),
		Name:        form.Name,
		Slug:        helpers.MakeUniqueSlug(form.Name),
		Description: form.Description,
		ParentID:    optionalID(form.ParentID),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if filename, ok := h.saveCategoryImage(w, r, "/admin/categories/add"); !ok {
		return
	} else {
		category.Image = filename
	}

	if err := h.categoryRepo.Create(r.Context(), category); err != nil {
		h.imageStore.RemoveCategoryImage(category.Image)
		redirectCategoryError(w, r, "/admin/categories/add", err)
		return
	}

	http.Redirect(w, r, "/admin/categories?status=success&message="+url.QueryEscape("Category created."), http.StatusSeeOther)
}

func (h *AdminHandler) EditCategoryGet(w http.ResponseWriter, r *http.Request) {
	category := h.loadCategory(w, r)
	if category == nil {
		return
	}
	h.renderCategoryForm(w, r, "Edit Category", fmt.Sprintf("/admin/categories/%s/edit", category.ID), category)
}

func (h *AdminHandler) EditCategoryPost(w http.ResponseWriter, r *http.Request) {
	category := h.loadCategory(w, r)
	if category == nil {
		return
	}

	backURL := fmt.Sprintf("/admin/categories/%s/edit", category.ID)
	form, ok := h.parseCategoryForm(w, r, backURL)
	if !ok {
		return
	}

	category.Name = form.Name
	category.Description = form.Description
	category.ParentID = optionalID(form.ParentID)
	category.UpdatedAt = time.Now()

	if filename, ok := h.saveCategoryImage(w, r, backURL); !ok {
		return
	} else if filename != "" {
		h.imageStore.RemoveCategoryImage(category.Image)
		category.Image = filename
	}

	if err := h.categoryRepo.Update(r.Context(), category); err != nil {
		redirectCategoryError(w, r, backURL, err)
		return
	}

	http.Redirect(w, r, "/admin/categories?status=success&message="+url.QueryEscape("Category updated."), http.StatusSeeOther)
}

// DeleteCategoryPost refuses to remove a category that still has children or
// products; the repository reports that as ErrNodeInUse.
func (h *AdminHandler) DeleteCategoryPost(w http.ResponseWriter, r *http.Request) {
	category := h.loadCategory(w, r)
	if category == nil {
		return
	}

	if err := h.categoryRepo.Delete(r.Context(), category.ID); err != nil {
		if errors.Is(err, repositories.ErrNodeInUse) {
			http.Redirect(w, r, "/admin/categories?status=error&message="+url.QueryEscape("Category still has subcategories or listings and cannot be deleted."), http.StatusSeeOther)
			return
		}
		log.Printf("DeleteCategoryPost: Failed to delete category %s: %v", category.ID, err)
		http.Redirect(w, r, "/admin/categories?status=error&message="+url.QueryEscape("Failed to delete the category."), http.StatusSeeOther)
		return
	}

	h.imageStore.RemoveCategoryImage(category.Image)
	http.Redirect(w, r, "/admin/categories?status=success&message="+url.QueryEscape("Category deleted."), http.StatusSeeOther)
}

func (h *AdminHandler) ClearEmptyCategoriesPost(w http.ResponseWriter, r *http.Request) {
	removed, err := h.categoryRepo.DeleteEmpty(r.Context())
	if err != nil {
		log.Printf("ClearEmptyCategoriesPost: %v", err)
		http.Redirect(w, r, "/admin/categories?status=error&message="+url.QueryEscape("Failed to clear empty categories."), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/admin/categories?status=success&message="+url.QueryEscape(fmt.Sprintf("Removed %d empty categories.", removed)), http.StatusSeeOther)
}

// ImportCategoriesPost accepts a JSON tree upload and merges it into the
// existing taxonomy, skipping names that already exist under the same parent.
func (h *AdminHandler) ImportCategoriesPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		http.Redirect(w, r, "/admin/categories?status=error&message="+url.QueryEscape("Upload is too large or malformed."), http.StatusSeeOther)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Redirect(w, r, "/admin/categories?status=error&message="+url.QueryEscape("Please attach a JSON file."), http.StatusSeeOther)
		return
	}
	defer file.Close()

	nodes, err := services.ParseCategoryJSON(file)
	if err != nil {
		http.Redirect(w, r, "/admin/categories?status=error&message="+url.QueryEscape("The file is not valid category JSON."), http.StatusSeeOther)
		return
	}

	result, err := h.importer.ImportCategories(r.Context(), nodes)
	if err != nil {
		log.Printf("ImportCategoriesPost: Import failed: %v", err)
		http.Redirect(w, r, "/admin/categories?status=error&message="+url.QueryEscape("Import failed partway through."), http.StatusSeeOther)
		return
	}

	msg := fmt.Sprintf("Import finished: %d created, %d skipped.", result.Created, result.Skipped)
	http.Redirect(w, r, "/admin/categories?status=success&message="+url.QueryEscape(msg), http.StatusSeeOther)
}

func (h *AdminHandler) loadCategory(w http.ResponseWriter, r *http.Request) *models.Category {
	vars := mux.Vars(r)
	category, err := h.categoryRepo.GetByID(r.Context(), vars["id"])
	if err != nil {
		log.Printf("loadCategory: Error loading category %s: %v", vars["id"], err)
		http.Redirect(w, r, "/admin/categories?status=error&message="+url.QueryEscape("Failed to load the category."), http.StatusSeeOther)
		return nil
	}
	if category == nil {
		http.NotFound(w, r)
		return nil
	}
	return category
}

func (h *AdminHandler) renderCategoryForm(w http.ResponseWriter, r *http.Request, title, action string, category *models.Category) {
	categories, _ := h.categoryRepo.GetAll(r.Context())

	pageSpecificData := map[string]interface{}{
		"Title":       title,
		"IsAdminPage": true,
		"FormAction":  action,
		"Category":    category,
		"Categories":  categories,
	}

	data := helpers.GetBaseData(r, pageSpecificData)
	_ = h.render.HTML(w, http.StatusOK, "admin/categories/form", data)
}

func (h *AdminHandler) parseCategoryForm(w http.ResponseWriter, r *http.Request, backURL string) (*CategoryForm, bool) {
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		http.Redirect(w, r, backURL+"?status=error&message="+url.QueryEscape("Something went wrong while processing the form."), http.StatusSeeOther)
		return nil, false
	}

	form := &CategoryForm{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		ParentID:    r.FormValue("parent_id"),
	}

	if err := h.validator.Struct(form); err != nil {
		http.Redirect(w, r, backURL+"?status=error&message="+url.QueryEscape("Please provide a category name."), http.StatusSeeOther)
		return nil, false
	}
	return form, true
}

// saveCategoryImage stores the uploaded image with its resized variants.
// Returns ("", true) when no file was attached.
func (h *AdminHandler) saveCategoryImage(w http.ResponseWriter, r *http.Request, backURL string) (string, bool) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if err == http.ErrMissingFile {
			return "", true
		}
		http.Redirect(w, r, backURL+"?status=error&message="+url.QueryEscape("Failed to read the uploaded image."), http.StatusSeeOther)
		return "", false
	}
	defer file.Close()

	if !services.AllowedImageExtension(header.Filename) {
		http.Redirect(w, r, backURL+"?status=error&message="+url.QueryEscape("Only JPG, PNG and GIF images are allowed."), http.StatusSeeOther)
		return "", false
	}

	filename, err := h.imageStore.SaveCategoryImage(file, header.Filename)
	if err != nil {
		log.Printf("saveCategoryImage: %v", err)
		http.Redirect(w, r, backURL+"?status=error&message="+url.QueryEscape("Failed to process the uploaded image."), http.StatusSeeOther)
		return "", false
	}
	return filename, true
}

func redirectCategoryError(w http.ResponseWriter, r *http.Request, backURL string, err error) {
	switch {
	case errors.Is(err, repositories.ErrDuplicateName):
		http.Redirect(w, r, backURL+"?status=error&message="+url.QueryEscape("A category with this name already exists under the same parent."), http.StatusSeeOther)
	case errors.Is(err, repositories.ErrSelfParent):
		http.Redirect(w, r, backURL+"?status=error&message="+url.QueryEscape("A category cannot be its own parent."), http.StatusSeeOther)
	default:
		log.Printf("category save failed: %v", err)
		http.Redirect(w, r, backURL+"?status=error&message="+url.QueryEscape("Failed to save the category."), http.StatusSeeOther)
	}
}

func optionalID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}
