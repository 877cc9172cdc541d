package middlewares

import (
	"fmt"
	"log"
	"net/http"

	"github.com/vportale/marketplace/app/services"
)

// RecoveryMiddleware turns panics into a generic 500 page and fires the
// operational Telegram notification. User-visible behavior stays generic; the
// detail goes to the log and the ops channel only.
func RecoveryMiddleware(notifier *services.TelegramNotifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Printf("RecoveryMiddleware: panic on %s %s: %v", r.Method, r.URL.Path, rec)
					notifier.SendAsync(fmt.Sprintf("⚠️ 500 on %s %s: %v", r.Method, r.URL.Path, rec))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
