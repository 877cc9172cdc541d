package handlers

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/unrolled/render"
	"github.com/vportale/marketplace/app/helpers"
	"github.com/vportale/marketplace/app/models"
	"github.com/vportale/marketplace/app/repositories"
	"github.com/vportale/marketplace/app/utils/breadcrumb"
)

type DashboardHandler struct {
	render      *render.Render
	productRepo repositories.ProductRepositoryImpl
}

func NewDashboardHandler(r *render.Render, productRepo repositories.ProductRepositoryImpl) *DashboardHandler {
	return &DashboardHandler{
		render:      r,
		productRepo: productRepo,
	}
}

// Dashboard lists the owner's catalog. Expired listings are transitioned to
// ready_for_publication here, scoped to this owner only; browsing someone
// else's products never flips their status.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(helpers.ContextKeyUser).(*models.User)
	if !ok || user == nil {
		http.Redirect(w, r, fmt.Sprintf("/login?status=warning&message=%s", url.QueryEscape("You must log in to access this page.")), http.StatusSeeOther)
		return
	}

	expired, err := h.productRepo.ExpireForOwner(r.Context(), user.ID, time.Now())
	if err != nil {
		log.Printf("Dashboard: Failed to apply expiry transition for user %s: %v", user.ID, err)
	} else if expired > 0 {
		log.Printf("Dashboard: %d listing(s) of user %s expired.", expired, user.ID)
	}

	products, err := h.productRepo.GetByOwner(r.Context(), user.ID)
	if err != nil {
		log.Printf("Dashboard: Error getting products for user %s: %v", user.ID, err)
		http.Redirect(w, r, fmt.Sprintf("/?status=error&message=%s", url.QueryEscape("Failed to load your listings.")), http.StatusSeeOther)
		return
	}

	published := 0
	for i := range products {
		if products[i].IsPublished() {
			published++
		}
	}

	pageSpecificData := map[string]interface{}{
		"Title": "Dashboard",
		"Breadcrumbs": []breadcrumb.Breadcrumb{
			{Name: "Home", URL: "/"},
			{Name: "Dashboard", URL: "/dashboard"},
		},
		"Products":       products,
		"PublishedCount": published,
		"ExpiredNow":     expired,
	}

	data := helpers.GetBaseData(r, pageSpecificData)
	_ = h.render.HTML(w, http.StatusOK, "dashboard/index", data)
}
