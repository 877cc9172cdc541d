package admin

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/unrolled/render"
	"github.com/vportale/marketplace/app/helpers"
	"github.com/vportale/marketplace/app/models"
	"github.com/vportale/marketplace/app/repositories"
	"github.com/vportale/marketplace/app/services"
	"github.com/vportale/marketplace/app/utils/sessions"
)

type AdminHandler struct {
	render       *render.Render
	validator    *validator.Validate
	userRepo     repositories.UserRepositoryImpl
	categoryRepo repositories.CategoryRepositoryImpl
	locationRepo repositories.LocationRepositoryImpl
	productRepo  repositories.ProductRepositoryImpl
	contactRepo  repositories.ContactRepositoryImpl
	importer     *services.Importer
	imageStore   *services.ImageStore
	sessionStore sessions.SessionStore
}

func NewAdminHandler(
	r *render.Render,
	validator *validator.Validate,
	userRepo repositories.UserRepositoryImpl,
	categoryRepo repositories.CategoryRepositoryImpl,
	locationRepo repositories.LocationRepositoryImpl,
	productRepo repositories.ProductRepositoryImpl,
	contactRepo repositories.ContactRepositoryImpl,
	importer *services.Importer,
	imageStore *services.ImageStore,
	sessionStore sessions.SessionStore,
) *AdminHandler {
	return &AdminHandler{
		render:       r,
		validator:    validator,
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
		locationRepo: locationRepo,
		productRepo:  productRepo,
		contactRepo:  contactRepo,
		importer:     importer,
		imageStore:   imageStore,
		sessionStore: sessionStore,
	}
}

func currentUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(helpers.ContextKeyUser).(*models.User)
	return user
}

// Dashboard is the admin landing page with aggregate counts.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, totalUsers, err := h.userRepo.GetAllPaginated(ctx, 1, 0)
	if err != nil {
		totalUsers = 0
	}

	totalProducts, _ := h.productRepo.CountAll(ctx)
	publishedProducts, _ := h.productRepo.CountByStatus(ctx, models.StatusPublished)
	newContacts, _ := h.contactRepo.CountByStatus(ctx, models.ContactStatusNew)

	categories, _ := h.categoryRepo.GetAll(ctx)
	regions, _ := h.locationRepo.GetAllRegions(ctx)

	pageSpecificData := map[string]interface{}{
		"Title":             "Admin Dashboard",
		"IsAdminPage":       true,
		"TotalUsers":        totalUsers,
		"TotalProducts":     totalProducts,
		"PublishedProducts": publishedProducts,
		"NewContacts":       newContacts,
		"TotalCategories":   len(categories),
		"TotalRegions":      len(regions),
	}

	data := helpers.GetBaseData(r, pageSpecificData)
	_ = h.render.HTML(w, http.StatusOK, "admin/dashboard", data)
}
