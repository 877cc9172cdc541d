package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/unrolled/render"
	"github.com/vportale/marketplace/app/helpers"
	"github.com/vportale/marketplace/app/repositories"
	"github.com/vportale/marketplace/app/utils/breadcrumb"
)

const productsPerPage = 12

type HomeHandler struct {
	render       *render.Render
	productRepo  repositories.ProductRepositoryImpl
	categoryRepo repositories.CategoryRepositoryImpl
	locationRepo repositories.LocationRepositoryImpl
}

func NewHomeHandler(r *render.Render, productRepo repositories.ProductRepositoryImpl, categoryRepo repositories.CategoryRepositoryImpl, locationRepo repositories.LocationRepositoryImpl) *HomeHandler {
	return &HomeHandler{
		render:       r,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		locationRepo: locationRepo,
	}
}

// Home renders the public listing page with search and taxonomy filters.
// Only published products are visible here.
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	filter := repositories.ProductFilter{
		Keyword:    r.URL.Query().Get("q"),
		CategoryID: r.URL.Query().Get("category"),
		RegionID:   r.URL.Query().Get("region"),
		CityID:     r.URL.Query().Get("city"),
	}

	products, total, err := h.productRepo.GetPublishedPaginated(r.Context(), filter, productsPerPage, (page-1)*productsPerPage)
	if err != nil {
		log.Printf("Home: Error getting products: %v", err)
	}

	categories, err := h.categoryRepo.GetTopLevel(r.Context())
	if err != nil {
		log.Printf("Home: Error getting categories: %v", err)
	}

	regions, err := h.locationRepo.GetAllRegions(r.Context())
	if err != nil {
		log.Printf("Home: Error getting regions: %v", err)
	}

	totalPages := int((total + productsPerPage - 1) / productsPerPage)

	pageSpecificData := map[string]interface{}{
		"Title":       "Marketplace",
		"Products":    products,
		"Categories":  categories,
		"Regions":     regions,
		"Total":       total,
		"Page":        page,
		"TotalPages":  totalPages,
		"Keyword":     filter.Keyword,
		"Breadcrumbs": []breadcrumb.Breadcrumb{{Name: "Home", URL: "/"}},
	}

	data := helpers.GetBaseData(r, pageSpecificData)
	_ = h.render.HTML(w, http.StatusOK, "home/index", data)
}

func (h *HomeHandler) PrivacyPolicy(w http.ResponseWriter, r *http.Request) {
	data := helpers.GetBaseData(r, map[string]interface{}{"Title": "Privacy Policy"})
	_ = h.render.HTML(w, http.StatusOK, "pages/privacy", data)
}

func (h *HomeHandler) Help(w http.ResponseWriter, r *http.Request) {
	data := helpers.GetBaseData(r, map[string]interface{}{"Title": "Help"})
	_ = h.render.HTML(w, http.StatusOK, "pages/help", data)
}

func (h *HomeHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	data := helpers.GetBaseData(r, map[string]interface{}{"Title": "Page not found"})
	_ = h.render.HTML(w, http.StatusNotFound, "pages/404", data)
}
