package handlers

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
	"github.com/vportale/marketplace/app/helpers"
	"github.com/vportale/marketplace/app/models"
	"github.com/vportale/marketplace/app/repositories"
	"github.com/vportale/marketplace/app/utils/breadcrumb"
)

type ReviewHandler struct {
	render      *render.Render
	reviewRepo  repositories.ReviewRepositoryImpl
	productRepo repositories.ProductRepositoryImpl
	userRepo    repositories.UserRepositoryImpl
	validator   *validator.Validate
}

func NewReviewHandler(r *render.Render, reviewRepo repositories.ReviewRepositoryImpl, productRepo repositories.ProductRepositoryImpl, userRepo repositories.UserRepositoryImpl, validator *validator.Validate) *ReviewHandler {
	return &ReviewHandler{
		render:      r,
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		validator:   validator,
	}
}

type ReviewForm struct {
	Rating  int    `form:"rating" validate:"required,gte=1,lte=5"`
	Comment string `form:"comment" validate:"omitempty,max=2000"`
}

// UserReviews is the public review listing for a seller; only published
// reviews appear.
func (h *ReviewHandler) UserReviews(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	seller, err := h.userRepo.FindByID(r.Context(), vars["id"])
	if err != nil {
		log.Printf("UserReviews: Error loading user %s: %v", vars["id"], err)
		http.Redirect(w, r, "/?status=error&message="+url.QueryEscape("Failed to load reviews."), http.StatusSeeOther)
		return
	}
	if seller == nil {
		http.NotFound(w, r)
		return
	}

	reviews, err := h.reviewRepo.GetPublishedBySeller(r.Context(), seller.ID)
	if err != nil {
		log.Printf("UserReviews: Error loading reviews for seller %s: %v", seller.ID, err)
	}

	pageSpecificData := map[string]interface{}{
		"Title": fmt.Sprintf("Reviews for %s", seller.CompanyName),
		"Breadcrumbs": []breadcrumb.Breadcrumb{
			{Name: "Home", URL: "/"},
			{Name: seller.CompanyName, URL: ""},
		},
		"Seller":  seller,
		"Reviews": reviews,
	}

	data := helpers.GetBaseData(r, pageSpecificData)
	_ = h.render.HTML(w, http.StatusOK, "reviews/index", data)
}

func (h *ReviewHandler) AddReviewGet(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user == nil {
		http.Redirect(w, r, "/login?status=warning&message="+url.QueryEscape("You must log in to leave a review."), http.StatusSeeOther)
		return
	}

	vars := mux.Vars(r)
	product, err := h.productRepo.GetByID(r.Context(), vars["id"])
	if err != nil || product == nil {
		http.NotFound(w, r)
		return
	}

	pageSpecificData := map[string]interface{}{
		"Title":      "Leave a Review",
		"Product":    product,
		"FormAction": fmt.Sprintf("/product/%s/add_review", product.ID),
		"Form":       &ReviewForm{},
		"Errors":     map[string]string{},
	}

	data := helpers.GetBaseData(r, pageSpecificData)
	_ = h.render.HTML(w, http.StatusOK, "reviews/form", data)
}

// AddReviewPost creates a review tied to a product. The duplicate check is a
// lookup on the (seller, buyer, product) triple before insert.
func (h *ReviewHandler) AddReviewPost(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user == nil {
		http.Redirect(w, r, "/login?status=warning&message="+url.QueryEscape("You must log in to leave a review."), http.StatusSeeOther)
		return
	}

	vars := mux.Vars(r)
	product, err := h.productRepo.GetByID(r.Context(), vars["id"])
	if err != nil || product == nil {
		http.NotFound(w, r)
		return
	}

	if product.UserID == user.ID {
		http.Redirect(w, r, fmt.Sprintf("/product/%s?status=error&message=%s", product.ID, url.QueryEscape("You cannot review your own listing.")), http.StatusSeeOther)
		return
	}

	h.createReview(w, r, product.UserID, &product.ID, fmt.Sprintf("/product/%s", product.ID))
}

// AddReviewDirectPost reviews a seller without a product reference.
func (h *ReviewHandler) AddReviewDirectPost(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user == nil {
		http.Redirect(w, r, "/login?status=warning&message="+url.QueryEscape("You must log in to leave a review."), http.StatusSeeOther)
		return
	}

	vars := mux.Vars(r)
	seller, err := h.userRepo.FindByID(r.Context(), vars["id"])
	if err != nil || seller == nil {
		http.NotFound(w, r)
		return
	}

	if seller.ID == user.ID {
		http.Redirect(w, r, fmt.Sprintf("/user/%s/reviews?status=error&message=%s", seller.ID, url.QueryEscape("You cannot review yourself.")), http.StatusSeeOther)
		return
	}

	h.createReview(w, r, seller.ID, nil, fmt.Sprintf("/user/%s/reviews", seller.ID))
}

func (h *ReviewHandler) createReview(w http.ResponseWriter, r *http.Request, sellerID string, productID *string, backURL string) {
	user := currentUser(r)

	if err := r.ParseForm(); err != nil {
		log.Printf("createReview: Error parsing form: %v", err)
		http.Redirect(w, r, backURL+"?status=error&message="+url.QueryEscape("Something went wrong while processing the form."), http.StatusSeeOther)
		return
	}

	rating, _ := strconv.Atoi(r.FormValue("rating"))
	form := ReviewForm{
		Rating:  rating,
		Comment: r.FormValue("comment"),
	}

	if err := h.validator.Struct(&form); err != nil {
		http.Redirect(w, r, backURL+"?status=error&message="+url.QueryEscape("Rating must be between 1 and 5."), http.StatusSeeOther)
		return
	}

	existing, err := h.reviewRepo.FindExisting(r.Context(), sellerID, user.ID, productID)
	if err != nil {
		log.Printf("createReview: Error checking existing review: %v", err)
		http.Redirect(w, r, backURL+"?status=error&message="+url.QueryEscape("Failed to save the review."), http.StatusSeeOther)
		return
	}
	if existing != nil {
		http.Redirect(w, r, backURL+"?status=error&message="+url.QueryEscape("You have already left a review here."), http.StatusSeeOther)
		return
	}

	review := &models.Review{
		ID:          uuid.New().String(),
		SellerID:    sellerID,
		BuyerID:     user.ID,
		ProductID:   productID,
		Rating:      form.Rating,
		Comment:     form.Comment,
		IsPublished: true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := h.reviewRepo.Create(r.Context(), review); err != nil {
		log.Printf("createReview: Failed to create review: %v", err)
		http.Redirect(w, r, backURL+"?status=error&message="+url.QueryEscape("Failed to save the review."), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, backURL+"?status=success&message="+url.QueryEscape("Thank you for your review."), http.StatusSeeOther)
}

// DeleteReviewPost allows the author or an admin to remove a review.
func (h *ReviewHandler) DeleteReviewPost(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user == nil {
		http.Redirect(w, r, "/login?status=warning&message="+url.QueryEscape("You must log in to access this page."), http.StatusSeeOther)
		return
	}

	vars := mux.Vars(r)
	review, err := h.reviewRepo.GetByID(r.Context(), vars["id"])
	if err != nil {
		log.Printf("DeleteReviewPost: Error loading review %s: %v", vars["id"], err)
		http.Redirect(w, r, "/?status=error&message="+url.QueryEscape("Failed to delete the review."), http.StatusSeeOther)
		return
	}
	if review == nil {
		http.NotFound(w, r)
		return
	}

	if review.BuyerID != user.ID && !user.IsAdmin() {
		http.Redirect(w, r, "/?status=error&message="+url.QueryEscape("You cannot delete this review."), http.StatusSeeOther)
		return
	}

	if err := h.reviewRepo.Delete(r.Context(), review.ID); err != nil {
		log.Printf("DeleteReviewPost: Failed to delete review %s: %v", review.ID, err)
		http.Redirect(w, r, "/?status=error&message="+url.QueryEscape("Failed to delete the review."), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/user/%s/reviews?status=success&message=%s", review.SellerID, url.QueryEscape("Review deleted.")), http.StatusSeeOther)
}
