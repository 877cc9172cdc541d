package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vportale/marketplace/app/models"
	"github.com/vportale/marketplace/app/repositories"
	"github.com/vportale/marketplace/app/utils/renderer"
	"gorm.io/gorm"
)

func newReviewHandler(db *gorm.DB) *ReviewHandler {
	return NewReviewHandler(
		renderer.New(),
		repositories.NewReviewRepository(db),
		repositories.NewProductRepository(db),
		repositories.NewUserRepository(db),
		validator.New(),
	)
}

func reviewRouter(h *ReviewHandler) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/user/{id}/add_review", h.AddReviewDirectPost).Methods("POST")
	return router
}

func postReview(router *mux.Router, sellerID string, buyer *models.User, rating string) *httptest.ResponseRecorder {
	form := url.Values{"rating": {rating}, "comment": {"Solid partner."}}
	req := httptest.NewRequest(http.MethodPost, "/user/"+sellerID+"/add_review", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = asUser(req, buyer)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestDuplicateReviewRejected(t *testing.T) {
	db := testDB(t)
	router := reviewRouter(newReviewHandler(db))

	seller := createUser(t, db)
	buyer := createUser(t, db)

	rec := postReview(router, seller.ID, buyer, "5")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "status=success")

	rec = postReview(router, seller.ID, buyer, "1")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "status=error")

	var reviews []models.Review
	require.NoError(t, db.Find(&reviews).Error)
	require.Len(t, reviews, 1)
	assert.Equal(t, 5, reviews[0].Rating, "the original review stays untouched")
}

func TestSelfReviewRejected(t *testing.T) {
	db := testDB(t)
	router := reviewRouter(newReviewHandler(db))

	seller := createUser(t, db)

	rec := postReview(router, seller.ID, seller, "5")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "status=error")

	var count int64
	require.NoError(t, db.Model(&models.Review{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestReviewRatingValidated(t *testing.T) {
	db := testDB(t)
	router := reviewRouter(newReviewHandler(db))

	seller := createUser(t, db)
	buyer := createUser(t, db)

	rec := postReview(router, seller.ID, buyer, "7")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "status=error")

	var count int64
	require.NoError(t, db.Model(&models.Review{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}
