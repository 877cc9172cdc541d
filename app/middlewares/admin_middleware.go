package middlewares

import (
	"log"
	"net/http"
	"net/url"

	"github.com/vportale/marketplace/app/helpers"
	"github.com/vportale/marketplace/app/models"
)

func AdminAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := r.Context().Value(helpers.ContextKeyUser).(*models.User)
		if !ok || user == nil {
			http.Redirect(w, r, "/login?status=error&message="+url.QueryEscape("You must log in to access the admin panel."), http.StatusFound)
			return
		}

		if !user.IsAdmin() {
			log.Printf("AdminAuthMiddleware: User %s (%s) attempted to access admin panel without admin role.", user.ID, user.Email)
			http.Redirect(w, r, "/?status=error&message="+url.QueryEscape("You do not have permission to access this page."), http.StatusFound)
			return
		}

		next.ServeHTTP(w, r)
	})
}
