package middlewares

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/vportale/marketplace/app/helpers"
	"github.com/vportale/marketplace/app/repositories"
	"github.com/vportale/marketplace/app/utils/sessions"
)

// UserContextMiddleware resolves the session user and puts it in the request
// context. Deactivated accounts are treated as logged out.
func UserContextMiddleware(sessionStore sessions.SessionStore, userRepo repositories.UserRepositoryImpl) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := sessionStore.GetUserID(r)
			if userID == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := userRepo.FindByID(r.Context(), userID)
			if err != nil {
				log.Printf("UserContextMiddleware: Error finding user %s: %v", userID, err)
				next.ServeHTTP(w, r)
				return
			}
			if user == nil || !user.IsActive {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), helpers.ContextKeyUserID, user.ID)
			ctx = context.WithValue(ctx, helpers.ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LoginRequiredMiddleware gates a subtree behind authentication.
func LoginRequiredMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := r.Context().Value(helpers.ContextKeyUserID).(string)
		if !ok || userID == "" {
			http.Redirect(w, r, "/login?status=warning&message="+url.QueryEscape("You must log in to access this page."), http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func MethodOverrideMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			_ = r.ParseForm()
			override := r.Form.Get("_method")
			if override != "" {
				r.Method = strings.ToUpper(override)
			}
		}
		next.ServeHTTP(w, r)
	})
}
