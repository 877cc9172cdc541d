package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/securecookie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vportale/marketplace/app/configs"
	"github.com/vportale/marketplace/app/models/migrations"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, migrations.AutoMigrate(db))

	keys := &configs.SessionKeys{
		AuthKey: securecookie.GenerateRandomKey(64),
		EncKey:  securecookie.GenerateRandomKey(32),
	}
	env := configs.ENV{UploadDir: t.TempDir()}

	router, err := NewRouter(db, env, keys)
	require.NoError(t, err)
	return router
}

func TestProtectedRoutesRedirectAnonymousToLogin(t *testing.T) {
	router := testRouter(t)

	for _, path := range []string{"/dashboard", "/add_product", "/profile", "/favorites"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code, path)
		assert.Contains(t, rec.Header().Get("Location"), "/login", path)
	}
}

func TestAdminRoutesRedirectAnonymous(t *testing.T) {
	router := testRouter(t)

	for _, path := range []string{"/admin", "/admin/users", "/admin/categories", "/admin/locations", "/admin/contacts"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code, path)
		assert.Contains(t, rec.Header().Get("Location"), "/login", path)
	}
}

func TestLocationAPIIsPublic(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/locations?q=mos", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}
