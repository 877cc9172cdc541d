package handlers

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/unrolled/render"
	"github.com/vportale/marketplace/app/helpers"
	"github.com/vportale/marketplace/app/models"
	"github.com/vportale/marketplace/app/repositories"
	"github.com/vportale/marketplace/app/services"
	"github.com/vportale/marketplace/app/utils/breadcrumb"
)

const maxUploadSize = 16 << 20 // 16 MiB multipart memory budget

type ProductHandler struct {
	render       *render.Render
	productRepo  repositories.ProductRepositoryImpl
	categoryRepo repositories.CategoryRepositoryImpl
	locationRepo repositories.LocationRepositoryImpl
	reviewRepo   repositories.ReviewRepositoryImpl
	imageStore   *services.ImageStore
	notifier     *services.TelegramNotifier
	validator    *validator.Validate
}

func NewProductHandler(r *render.Render, productRepo repositories.ProductRepositoryImpl, categoryRepo repositories.CategoryRepositoryImpl, locationRepo repositories.LocationRepositoryImpl, reviewRepo repositories.ReviewRepositoryImpl, imageStore *services.ImageStore, notifier *services.TelegramNotifier, validator *validator.Validate) *ProductHandler {
	return &ProductHandler{
		render:       r,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		locationRepo: locationRepo,
		reviewRepo:   reviewRepo,
		imageStore:   imageStore,
		notifier:     notifier,
		validator:    validator,
	}
}

type ProductForm struct {
	Title       string `form:"title" validate:"required,min=3,max=200"`
	Description string `form:"description"`
	Price       string `form:"price" validate:"required"`
	Quantity    string `form:"quantity" validate:"omitempty,numeric"`
	CategoryID  string `form:"category_id" validate:"required"`
	RegionID    string `form:"region_id"`
	CityID      string `form:"city_id"`
}

func currentUser(r *http.Request) *models.User {
	user, ok := r.Context().Value(helpers.ContextKeyUser).(*models.User)
	if !ok {
		return nil
	}
	return user
}

func (h *ProductHandler) AddProductGet(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryRepo.GetAll(r.Context())
	if err != nil {
		log.Printf("AddProductGet: Error getting categories: %v", err)
	}
	regions, err := h.locationRepo.GetAllRegions(r.Context())
	if err != nil {
		log.Printf("AddProductGet: Error getting regions: %v", err)
	}

	pageSpecificData := map[string]interface{}{
		"Title": "New Listing",
		"Breadcrumbs": []breadcrumb.Breadcrumb{
			{Name: "Home", URL: "/"},
			{Name: "Dashboard", URL: "/dashboard"},
			{Name: "New Listing", URL: "/add_product"},
		},
		"Categories": categories,
		"Regions":    regions,
		"Form":       &ProductForm{},
		"Errors":     map[string]string{},
	}

	data := helpers.GetBaseData(r, pageSpecificData)
	_ = h.render.HTML(w, http.StatusOK, "products/form", data)
}

func (h *ProductHandler) AddProductPost(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		log.Printf("AddProductPost: Error parsing multipart form: %v", err)
		http.Redirect(w, r, fmt.Sprintf("/add_product?status=error&message=%s", url.QueryEscape("Something went wrong while processing the form.")), http.StatusSeeOther)
		return
	}

	form := ProductForm{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Price:       r.FormValue("price"),
		Quantity:    r.FormValue("quantity"),
		CategoryID:  r.FormValue("category_id"),
		RegionID:    r.FormValue("region_id"),
		CityID:      r.FormValue("city_id"),
	}

	if err := h.validator.Struct(&form); err != nil {
		h.renderProductForm(w, r, "/add_product", &form, helpers.FormatValidationErrors(err.(validator.ValidationErrors)))
		return
	}

	price, err := decimal.NewFromString(form.Price)
	if err != nil || price.IsNegative() {
		h.renderProductForm(w, r, "/add_product", &form, map[string]string{"price": "Price must be a non-negative number."})
		return
	}

	quantity := 1
	if form.Quantity != "" {
		if _, err := fmt.Sscanf(form.Quantity, "%d", &quantity); err != nil || quantity < 0 {
			h.renderProductForm(w, r, "/add_product", &form, map[string]string{"quantity": "Quantity must be a non-negative number."})
			return
		}
	}

	category, err := h.categoryRepo.GetByID(r.Context(), form.CategoryID)
	if err != nil || category == nil {
		h.renderProductForm(w, r, "/add_product", &form, map[string]string{"category_id": "Please choose a valid category."})
		return
	}

	// Extension allow-list runs before anything is written to disk.
	files := r.MultipartForm.File["images"]
	for _, header := range files {
		if !services.AllowedImageExtension(header.Filename) {
			h.renderProductForm(w, r, "/add_product", &form, map[string]string{"images": fmt.Sprintf("File %q has a disallowed extension.", header.Filename)})
			return
		}
	}

	var images []string
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			log.Printf("AddProductPost: Failed to open upload %s: %v", header.Filename, err)
			continue
		}
		filename, err := h.imageStore.SaveUpload(file, header.Filename)
		file.Close()
		if err != nil {
			log.Printf("AddProductPost: Failed to save upload %s: %v", header.Filename, err)
			continue
		}
		images = append(images, filename)
	}

	product := &models.Product{
		ID:          uuid.New().String(),
		UserID:      user.ID,
		CategoryID:  category.ID,
		Title:       form.Title,
		Slug:        helpers.MakeUniqueSlug(form.Title),
		Description: form.Description,
		Price:       price,
		Quantity:    quantity,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	product.SetImageList(images)
	h.applyLocation(r, product, form.RegionID, form.CityID)

	if err := h.productRepo.Create(r.Context(), product); err != nil {
		log.Printf("AddProductPost: Failed to create product: %v", err)
		for _, image := range images {
			h.imageStore.Remove(image)
		}
		http.Redirect(w, r, fmt.Sprintf("/add_product?status=error&message=%s", url.QueryEscape("Failed to create the listing. Please try again.")), http.StatusSeeOther)
		return
	}

	h.notifier.SendAsync(fmt.Sprintf("🆕 New listing: %s by %s", product.Title, user.CompanyName))

	http.Redirect(w, r, fmt.Sprintf("/dashboard?status=success&message=%s", url.QueryEscape("Listing published.")), http.StatusSeeOther)
}

// applyLocation resolves optional region/city references and records the
// denormalized name snapshots alongside them.
func (h *ProductHandler) applyLocation(r *http.Request, product *models.Product, regionID, cityID string) {
	product.RegionID = nil
	product.CityID = nil

	if regionID != "" {
		region, err := h.locationRepo.GetRegionByID(r.Context(), regionID)
		if err != nil {
			log.Printf("applyLocation: Error loading region %s: %v", regionID, err)
		} else if region != nil {
			product.RegionID = &region.ID
			product.RegionName = region.Name
		}
	}

	if cityID != "" {
		city, err := h.locationRepo.GetCityByID(r.Context(), cityID)
		if err != nil {
			log.Printf("applyLocation: Error loading city %s: %v", cityID, err)
		} else if city != nil {
			product.CityID = &city.ID
			product.CityName = city.Name
			if product.RegionID == nil {
				product.RegionID = &city.RegionID
				product.RegionName = city.Region.Name
			}
		}
	}
}

func (h *ProductHandler) renderProductForm(w http.ResponseWriter, r *http.Request, action string, form *ProductForm, errors map[string]string) {
	categories, _ := h.categoryRepo.GetAll(r.Context())
	regions, _ := h.locationRepo.GetAllRegions(r.Context())

	pageSpecificData := map[string]interface{}{
		"Title":      "Listing",
		"FormAction": action,
		"Categories": categories,
		"Regions":    regions,
		"Form":       form,
		"Errors":     errors,
	}

	data := helpers.GetBaseData(r, pageSpecificData)
	_ = h.render.HTML(w, http.StatusOK, "products/form", data)
}

// ProductDetail enforces the visibility rule: anything not published is shown
// to the owner and admins only.
func (h *ProductHandler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	product, err := h.productRepo.GetByID(r.Context(), vars["id"])
	if err != nil {
		log.Printf("ProductDetail: Error loading product %s: %v", vars["id"], err)
		http.Redirect(w, r, "/?status=error&message="+url.QueryEscape("Failed to load the listing."), http.StatusSeeOther)
		return
	}
	if product == nil {
		http.NotFound(w, r)
		return
	}

	user := currentUser(r)
	userID := ""
	isAdmin := false
	if user != nil {
		userID = user.ID
		isAdmin = user.IsAdmin()
	}
	if !product.VisibleTo(userID, isAdmin) {
		http.NotFound(w, r)
		return
	}

	reviews, err := h.reviewRepo.GetPublishedBySeller(r.Context(), product.UserID)
	if err != nil {
		log.Printf("ProductDetail: Error loading reviews for seller %s: %v", product.UserID, err)
	}

	isFavorite := false
	if user != nil {
		isFavorite, _ = h.productRepo.IsFavorite(r.Context(), user.ID, product.ID)
	}

	pageSpecificData := map[string]interface{}{
		"Title": product.Title,
		"Breadcrumbs": []breadcrumb.Breadcrumb{
			{Name: "Home", URL: "/"},
			{Name: product.Category.Name, URL: "/?category=" + product.CategoryID},
			{Name: product.Title, URL: ""},
		},
		"Product":    product,
		"Images":     product.ImageList(),
		"Reviews":    reviews,
		"IsFavorite": isFavorite,
		"IsOwner":    userID == product.UserID,
	}

	data := helpers.GetBaseData(r, pageSpecificData)
	_ = h.render.HTML(w, http.StatusOK, "products/detail", data)
}

// loadOwned fetches the product and checks the caller may manage it. Admins
// pass when adminAllowed is set (edit/delete); renew/unpublish stay owner-only.
func (h *ProductHandler) loadOwned(w http.ResponseWriter, r *http.Request, adminAllowed bool) *models.Product {
	user := currentUser(r)
	if user == nil {
		http.Redirect(w, r, "/login?status=warning&message="+url.QueryEscape("You must log in to access this page."), http.StatusSeeOther)
		return nil
	}

	vars := mux.Vars(r)
	product, err := h.productRepo.GetByID(r.Context(), vars["id"])
	if err != nil {
		log.Printf("loadOwned: Error loading product %s: %v", vars["id"], err)
		http.Redirect(w, r, "/dashboard?status=error&message="+url.QueryEscape("Failed to load the listing."), http.StatusSeeOther)
		return nil
	}
	if product == nil {
		http.NotFound(w, r)
		return nil
	}

	if product.UserID != user.ID && !(adminAllowed && user.IsAdmin()) {
		log.Printf("loadOwned: User %s denied access to product %s owned by %s.", user.ID, product.ID, product.UserID)
		http.Redirect(w, r, "/dashboard?status=error&message="+url.QueryEscape("You cannot manage this listing."), http.StatusSeeOther)
		return nil
	}

	return product
}

func (h *ProductHandler) EditProductGet(w http.ResponseWriter, r *http.Request) {
	product := h.loadOwned(w, r, true)
	if product == nil {
		return
	}

	form := ProductForm{
		Title:       product.Title,
		Description: product.Description,
		Price:       product.Price.String(),
		Quantity:    fmt.Sprintf("%d", product.Quantity),
		CategoryID:  product.CategoryID,
	}
	if product.RegionID != nil {
		form.RegionID = *product.RegionID
	}
	if product.CityID != nil {
		form.CityID = *product.CityID
	}

	h.renderProductForm(w, r, fmt.Sprintf("/product/%s/edit", product.ID), &form, map[string]string{})
}

func (h *ProductHandler) EditProductPost(w http.ResponseWriter, r *http.Request) {
	product := h.loadOwned(w, r, true)
	if product == nil {
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		log.Printf("EditProductPost: Error parsing multipart form: %v", err)
		http.Redirect(w, r, fmt.Sprintf("/product/%s/edit?status=error&message=%s", product.ID, url.QueryEscape("Something went wrong while processing the form.")), http.StatusSeeOther)
		return
	}

	form := ProductForm{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Price:       r.FormValue("price"),
		Quantity:    r.FormValue("quantity"),
		CategoryID:  r.FormValue("category_id"),
		RegionID:    r.FormValue("region_id"),
		CityID:      r.FormValue("city_id"),
	}

	action := fmt.Sprintf("/product/%s/edit", product.ID)

	if err := h.validator.Struct(&form); err != nil {
		h.renderProductForm(w, r, action, &form, helpers.FormatValidationErrors(err.(validator.ValidationErrors)))
		return
	}

	price, err := decimal.NewFromString(form.Price)
	if err != nil || price.IsNegative() {
		h.renderProductForm(w, r, action, &form, map[string]string{"price": "Price must be a non-negative number."})
		return
	}

	quantity := product.Quantity
	if form.Quantity != "" {
		if _, err := fmt.Sscanf(form.Quantity, "%d", &quantity); err != nil || quantity < 0 {
			h.renderProductForm(w, r, action, &form, map[string]string{"quantity": "Quantity must be a non-negative number."})
			return
		}
	}

	files := r.MultipartForm.File["images"]
	for _, header := range files {
		if !services.AllowedImageExtension(header.Filename) {
			h.renderProductForm(w, r, action, &form, map[string]string{"images": fmt.Sprintf("File %q has a disallowed extension.", header.Filename)})
			return
		}
	}

	images := product.ImageList()
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			log.Printf("EditProductPost: Failed to open upload %s: %v", header.Filename, err)
			continue
		}
		filename, err := h.imageStore.SaveUpload(file, header.Filename)
		file.Close()
		if err != nil {
			log.Printf("EditProductPost: Failed to save upload %s: %v", header.Filename, err)
			continue
		}
		images = append(images, filename)
	}

	product.Title = form.Title
	product.Description = form.Description
	product.Price = price
	product.Quantity = quantity
	product.CategoryID = form.CategoryID
	product.SetImageList(images)
	product.UpdatedAt = time.Now()
	h.applyLocation(r, product, form.RegionID, form.CityID)

	if err := h.productRepo.Update(r.Context(), product); err != nil {
		log.Printf("EditProductPost: Failed to update product %s: %v", product.ID, err)
		http.Redirect(w, r, fmt.Sprintf("/product/%s/edit?status=error&message=%s", product.ID, url.QueryEscape("Failed to update the listing.")), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/dashboard?status=success&message=%s", url.QueryEscape("Listing updated.")), http.StatusSeeOther)
}

// DeleteProductPost removes the row and the on-disk image files.
func (h *ProductHandler) DeleteProductPost(w http.ResponseWriter, r *http.Request) {
	product := h.loadOwned(w, r, true)
	if product == nil {
		return
	}

	if err := h.productRepo.Delete(r.Context(), product.ID); err != nil {
		log.Printf("DeleteProductPost: Failed to delete product %s: %v", product.ID, err)
		http.Redirect(w, r, fmt.Sprintf("/dashboard?status=error&message=%s", url.QueryEscape("Failed to delete the listing.")), http.StatusSeeOther)
		return
	}

	for _, image := range product.ImageList() {
		h.imageStore.Remove(image)
	}

	http.Redirect(w, r, fmt.Sprintf("/dashboard?status=success&message=%s", url.QueryEscape("Listing deleted.")), http.StatusSeeOther)
}

// RenewProductPost resets the publication window. Renewing a listing that is
// still published is rejected.
func (h *ProductHandler) RenewProductPost(w http.ResponseWriter, r *http.Request) {
	product := h.loadOwned(w, r, false)
	if product == nil {
		return
	}

	if product.IsPublished() {
		http.Redirect(w, r, fmt.Sprintf("/dashboard?status=error&message=%s", url.QueryEscape("This listing is already published.")), http.StatusSeeOther)
		return
	}

	product.RenewPublication(time.Now())
	product.UpdatedAt = time.Now()

	if err := h.productRepo.Update(r.Context(), product); err != nil {
		log.Printf("RenewProductPost: Failed to renew product %s: %v", product.ID, err)
		http.Redirect(w, r, fmt.Sprintf("/dashboard?status=error&message=%s", url.QueryEscape("Failed to renew the listing.")), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/dashboard?status=success&message=%s", url.QueryEscape("Listing published for another 30 days.")), http.StatusSeeOther)
}

func (h *ProductHandler) UnpublishProductPost(w http.ResponseWriter, r *http.Request) {
	product := h.loadOwned(w, r, false)
	if product == nil {
		return
	}

	if !product.IsPublished() {
		http.Redirect(w, r, fmt.Sprintf("/dashboard?status=error&message=%s", url.QueryEscape("This listing is not published.")), http.StatusSeeOther)
		return
	}

	product.Unpublish()
	product.UpdatedAt = time.Now()

	if err := h.productRepo.Update(r.Context(), product); err != nil {
		log.Printf("UnpublishProductPost: Failed to unpublish product %s: %v", product.ID, err)
		http.Redirect(w, r, fmt.Sprintf("/dashboard?status=error&message=%s", url.QueryEscape("Failed to unpublish the listing.")), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/dashboard?status=success&message=%s", url.QueryEscape("Listing unpublished.")), http.StatusSeeOther)
}

func (h *ProductHandler) ToggleFavoritePost(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user == nil {
		http.Redirect(w, r, "/login?status=warning&message="+url.QueryEscape("You must log in to save favorites."), http.StatusSeeOther)
		return
	}

	vars := mux.Vars(r)
	product, err := h.productRepo.GetByID(r.Context(), vars["id"])
	if err != nil || product == nil {
		http.NotFound(w, r)
		return
	}

	isFavorite, err := h.productRepo.IsFavorite(r.Context(), user.ID, product.ID)
	if err != nil {
		log.Printf("ToggleFavoritePost: Error checking favorite: %v", err)
		http.Redirect(w, r, fmt.Sprintf("/product/%s?status=error&message=%s", product.ID, url.QueryEscape("Failed to update favorites.")), http.StatusSeeOther)
		return
	}

	if isFavorite {
		err = h.productRepo.RemoveFavorite(r.Context(), user.ID, product.ID)
	} else {
		err = h.productRepo.AddFavorite(r.Context(), user.ID, product.ID)
	}
	if err != nil {
		log.Printf("ToggleFavoritePost: Error toggling favorite: %v", err)
		http.Redirect(w, r, fmt.Sprintf("/product/%s?status=error&message=%s", product.ID, url.QueryEscape("Failed to update favorites.")), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/product/%s", product.ID), http.StatusSeeOther)
}

func (h *ProductHandler) FavoritesPage(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user == nil {
		http.Redirect(w, r, "/login?status=warning&message="+url.QueryEscape("You must log in to access this page."), http.StatusSeeOther)
		return
	}

	products, err := h.productRepo.GetFavorites(r.Context(), user.ID)
	if err != nil {
		log.Printf("FavoritesPage: Error loading favorites for user %s: %v", user.ID, err)
	}

	pageSpecificData := map[string]interface{}{
		"Title": "Favorites",
		"Breadcrumbs": []breadcrumb.Breadcrumb{
			{Name: "Home", URL: "/"},
			{Name: "Favorites", URL: "/favorites"},
		},
		"Products": products,
	}

	data := helpers.GetBaseData(r, pageSpecificData)
	_ = h.render.HTML(w, http.StatusOK, "products/favorites", data)
}
