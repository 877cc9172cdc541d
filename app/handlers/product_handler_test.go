package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vportale/marketplace/app/models"
	"github.com/vportale/marketplace/app/repositories"
	"github.com/vportale/marketplace/app/services"
	"github.com/vportale/marketplace/app/utils/renderer"
	"gorm.io/gorm"
)

func newProductHandler(t *testing.T, db *gorm.DB) *ProductHandler {
	t.Helper()

	imageStore, err := services.NewImageStore(t.TempDir())
	require.NoError(t, err)

	return NewProductHandler(
		renderer.New(),
		repositories.NewProductRepository(db),
		repositories.NewCategoryRepository(db),
		repositories.NewLocationRepository(db),
		repositories.NewReviewRepository(db),
		imageStore,
		services.NewTelegramNotifier("", ""),
		validator.New(),
	)
}

func productRouter(h *ProductHandler) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/product/{id}/renew", h.RenewProductPost).Methods("POST")
	router.HandleFunc("/product/{id}/unpublish", h.UnpublishProductPost).Methods("POST")
	router.HandleFunc("/product/{id}/delete", h.DeleteProductPost).Methods("POST")
	return router
}

func TestRenewRejectedWhilePublished(t *testing.T) {
	db := testDB(t)
	h := newProductHandler(t, db)
	router := productRouter(h)

	owner := createUser(t, db)
	product := createProduct(t, db, owner.ID, models.StatusPublished, time.Now().Add(time.Hour))
	originalExpiry := product.ExpiresAt

	req := asUser(httptest.NewRequest(http.MethodPost, "/product/"+product.ID+"/renew", nil), owner)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "status=error")

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, "id = ?", product.ID).Error)
	assert.Equal(t, models.StatusPublished, reloaded.Status)
	assert.WithinDuration(t, originalExpiry, reloaded.ExpiresAt, time.Second, "rejected renew must not move the expiry")
}

func TestRenewExpiredListing(t *testing.T) {
	db := testDB(t)
	h := newProductHandler(t, db)
	router := productRouter(h)

	owner := createUser(t, db)
	product := createProduct(t, db, owner.ID, models.StatusReadyForPublication, time.Now().Add(-time.Hour))

	req := asUser(httptest.NewRequest(http.MethodPost, "/product/"+product.ID+"/renew", nil), owner)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "status=success")

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, "id = ?", product.ID).Error)
	assert.Equal(t, models.StatusPublished, reloaded.Status)
	assert.WithinDuration(t, time.Now().Add(models.PublicationPeriod), reloaded.ExpiresAt, time.Minute)
}

func TestRenewDeniedForNonOwner(t *testing.T) {
	db := testDB(t)
	h := newProductHandler(t, db)
	router := productRouter(h)

	owner := createUser(t, db)
	stranger := createUser(t, db)
	product := createProduct(t, db, owner.ID, models.StatusReadyForPublication, time.Now().Add(-time.Hour))

	req := asUser(httptest.NewRequest(http.MethodPost, "/product/"+product.ID+"/renew", nil), stranger)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "status=error")

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, "id = ?", product.ID).Error)
	assert.Equal(t, models.StatusReadyForPublication, reloaded.Status)
}

func TestDeleteDeniedForNonOwner(t *testing.T) {
	db := testDB(t)
	h := newProductHandler(t, db)
	router := productRouter(h)

	owner := createUser(t, db)
	stranger := createUser(t, db)
	product := createProduct(t, db, owner.ID, models.StatusPublished, time.Now().Add(time.Hour))

	req := asUser(httptest.NewRequest(http.MethodPost, "/product/"+product.ID+"/delete", nil), stranger)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)

	var count int64
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count, "the listing must survive a stranger's delete attempt")
}

func TestDeleteAllowedForAdmin(t *testing.T) {
	db := testDB(t)
	h := newProductHandler(t, db)
	router := productRouter(h)

	owner := createUser(t, db)
	admin := createUser(t, db)
	admin.Role = models.RoleAdmin
	require.NoError(t, db.Save(admin).Error)

	product := createProduct(t, db, owner.ID, models.StatusPublished, time.Now().Add(time.Hour))

	req := asUser(httptest.NewRequest(http.MethodPost, "/product/"+product.ID+"/delete", nil), admin)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "status=success")

	var count int64
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestUnpublishRejectedWhenNotPublished(t *testing.T) {
	db := testDB(t)
	h := newProductHandler(t, db)
	router := productRouter(h)

	owner := createUser(t, db)
	product := createProduct(t, db, owner.ID, models.StatusUnpublished, time.Now().Add(time.Hour))

	req := asUser(httptest.NewRequest(http.MethodPost, "/product/"+product.ID+"/unpublish", nil), owner)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "status=error")
}
