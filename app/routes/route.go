package routes

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/vportale/marketplace/app/configs"
	"github.com/vportale/marketplace/app/handlers"
	"github.com/vportale/marketplace/app/handlers/admin"
	"github.com/vportale/marketplace/app/middlewares"
	"github.com/vportale/marketplace/app/repositories"
	"github.com/vportale/marketplace/app/services"
	"github.com/vportale/marketplace/app/utils/renderer"
	"github.com/vportale/marketplace/app/utils/sessions"
	"gorm.io/gorm"
)

// NewRouter wires repositories, services and handlers into the full HTTP
// surface. The returned handler already includes the CSRF wrapper.
func NewRouter(db *gorm.DB, env configs.ENV, keys *configs.SessionKeys) (http.Handler, error) {
	sessionStore := sessions.NewCookieSessionStore(keys.AuthKey, keys.EncKey)

	userRepo := repositories.NewUserRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	locationRepo := repositories.NewLocationRepository(db)
	productRepo := repositories.NewProductRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)
	contactRepo := repositories.NewContactRepository(db)

	imageStore, err := services.NewImageStore(env.UploadDir)
	if err != nil {
		return nil, err
	}

	mailer := services.NewMailer(services.MailConfig{
		Host:     env.EmailHost,
		Port:     env.EmailPort,
		Username: env.EmailUsername,
		Password: env.EmailPassword,
		From:     env.EmailFrom,
	})
	notifier := services.NewTelegramNotifier(env.TelegramBotToken, env.TelegramChatID)
	importer := services.NewImporter(categoryRepo, locationRepo)

	render := renderer.New()
	validate := validator.New()

	homeHandler := handlers.NewHomeHandler(render, productRepo, categoryRepo, locationRepo)
	authHandler := handlers.NewAuthHandler(render, userRepo, sessionStore, mailer, validate)
	dashboardHandler := handlers.NewDashboardHandler(render, productRepo)
	productHandler := handlers.NewProductHandler(render, productRepo, categoryRepo, locationRepo, reviewRepo, imageStore, notifier, validate)
	reviewHandler := handlers.NewReviewHandler(render, reviewRepo, productRepo, userRepo, validate)
	contactHandler := handlers.NewContactHandler(render, contactRepo, mailer, notifier, validate, env.EmailFrom)
	uploadHandler := handlers.NewUploadHandler(imageStore, categoryRepo)
	apiHandler := handlers.NewAPIHandler(render, locationRepo)
	adminHandler := admin.NewAdminHandler(render, validate, userRepo, categoryRepo, locationRepo, productRepo, contactRepo, importer, imageStore, sessionStore)

	router := mux.NewRouter()
	router.Use(middlewares.RecoveryMiddleware(notifier))
	router.Use(middlewares.MethodOverrideMiddleware)
	router.Use(middlewares.UserContextMiddleware(sessionStore, userRepo))

	router.NotFoundHandler = http.HandlerFunc(homeHandler.NotFound)

	router.HandleFunc("/", homeHandler.Home).Methods("GET")
	router.HandleFunc("/privacy", homeHandler.PrivacyPolicy).Methods("GET")
	router.HandleFunc("/help", homeHandler.Help).Methods("GET")
	router.HandleFunc("/contact", contactHandler.ContactPost).Methods("POST")

	router.HandleFunc("/login", authHandler.LoginGetHandler).Methods("GET")
	router.HandleFunc("/login", authHandler.LoginPostHandler).Methods("POST")
	router.HandleFunc("/register", authHandler.RegisterGetHandler).Methods("GET")
	router.HandleFunc("/register", authHandler.RegisterPostHandler).Methods("POST")
	router.HandleFunc("/logout", authHandler.LogoutHandler).Methods("GET", "POST")

	router.HandleFunc("/product/{id}", productHandler.ProductDetail).Methods("GET")
	router.HandleFunc("/user/{id}/reviews", reviewHandler.UserReviews).Methods("GET")

	router.HandleFunc("/uploads/{filename}", uploadHandler.ServeUpload).Methods("GET")
	router.HandleFunc("/category_image/{id}/{size}", uploadHandler.CategoryImageBySize).Methods("GET")

	router.HandleFunc("/api/locations", apiHandler.Locations).Methods("GET")
	router.HandleFunc("/api/regions", apiHandler.Regions).Methods("GET")
	router.HandleFunc("/api/cities/by-region/{id}", apiHandler.CitiesByRegion).Methods("GET")

	authRouter := router.NewRoute().Subrouter()
	authRouter.Use(middlewares.LoginRequiredMiddleware)

	authRouter.HandleFunc("/dashboard", dashboardHandler.Dashboard).Methods("GET")
	authRouter.HandleFunc("/profile", authHandler.ProfileGetHandler).Methods("GET")
	authRouter.HandleFunc("/profile", authHandler.ProfilePostHandler).Methods("POST")

	authRouter.HandleFunc("/add_product", productHandler.AddProductGet).Methods("GET")
	authRouter.HandleFunc("/add_product", productHandler.AddProductPost).Methods("POST")
	authRouter.HandleFunc("/product/{id}/edit", productHandler.EditProductGet).Methods("GET")
	authRouter.HandleFunc("/product/{id}/edit", productHandler.EditProductPost).Methods("POST")
	authRouter.HandleFunc("/product/{id}/delete", productHandler.DeleteProductPost).Methods("POST")
	authRouter.HandleFunc("/product/{id}/renew", productHandler.RenewProductPost).Methods("POST")
	authRouter.HandleFunc("/product/{id}/unpublish", productHandler.UnpublishProductPost).Methods("POST")

	authRouter.HandleFunc("/product/{id}/favorite", productHandler.ToggleFavoritePost).Methods("POST")
	authRouter.HandleFunc("/favorites", productHandler.FavoritesPage).Methods("GET")

	authRouter.HandleFunc("/product/{id}/add_review", reviewHandler.AddReviewGet).Methods("GET")
	authRouter.HandleFunc("/product/{id}/add_review", reviewHandler.AddReviewPost).Methods("POST")
	authRouter.HandleFunc("/user/{id}/add_review", reviewHandler.AddReviewDirectPost).Methods("POST")
	authRouter.HandleFunc("/review/{id}/delete", reviewHandler.DeleteReviewPost).Methods("POST")

	authRouter.HandleFunc("/stop_impersonate", adminHandler.StopImpersonatePost).Methods("POST")

	adminRouter := router.PathPrefix("/admin").Subrouter()
	adminRouter.Use(middlewares.LoginRequiredMiddleware)
	adminRouter.Use(middlewares.AdminAuthMiddleware)

	adminRouter.HandleFunc("", adminHandler.Dashboard).Methods("GET")
	adminRouter.HandleFunc("/", adminHandler.Dashboard).Methods("GET")

	adminRouter.HandleFunc("/categories", adminHandler.Categories).Methods("GET")
	adminRouter.HandleFunc("/categories/add", adminHandler.AddCategoryGet).Methods("GET")
	adminRouter.HandleFunc("/categories/add", adminHandler.AddCategoryPost).Methods("POST")
	adminRouter.HandleFunc("/categories/import", adminHandler.ImportCategoriesPost).Methods("POST")
	adminRouter.HandleFunc("/categories/clear_empty", adminHandler.ClearEmptyCategoriesPost).Methods("POST")
	adminRouter.HandleFunc("/categories/{id}/edit", adminHandler.EditCategoryGet).Methods("GET")
	adminRouter.HandleFunc("/categories/{id}/edit", adminHandler.EditCategoryPost).Methods("POST")
	adminRouter.HandleFunc("/categories/{id}/delete", adminHandler.DeleteCategoryPost).Methods("POST")

	adminRouter.HandleFunc("/locations", adminHandler.Locations).Methods("GET")
	adminRouter.HandleFunc("/locations/regions/add", adminHandler.AddRegionPost).Methods("POST")
	adminRouter.HandleFunc("/locations/regions/{id}/edit", adminHandler.EditRegionPost).Methods("POST")
	adminRouter.HandleFunc("/locations/regions/{id}/delete", adminHandler.DeleteRegionPost).Methods("POST")
	adminRouter.HandleFunc("/locations/cities/add", adminHandler.AddCityPost).Methods("POST")
	adminRouter.HandleFunc("/locations/cities/{id}/delete", adminHandler.DeleteCityPost).Methods("POST")
	adminRouter.HandleFunc("/locations/import", adminHandler.ImportLocationsPost).Methods("POST")
	adminRouter.HandleFunc("/locations/clear_empty", adminHandler.ClearEmptyLocationsPost).Methods("POST")

	adminRouter.HandleFunc("/users", adminHandler.Users).Methods("GET")
	adminRouter.HandleFunc("/users/{id}/toggle_active", adminHandler.ToggleUserActivePost).Methods("POST")
	adminRouter.HandleFunc("/users/{id}/delete", adminHandler.DeleteUserPost).Methods("POST")
	adminRouter.HandleFunc("/users/{id}/impersonate", adminHandler.ImpersonatePost).Methods("POST")

	adminRouter.HandleFunc("/contacts", adminHandler.ContactRequests).Methods("GET")
	adminRouter.HandleFunc("/contacts/{id}/toggle_status", adminHandler.ToggleContactStatusPost).Methods("POST")
	adminRouter.HandleFunc("/contacts/{id}/delete", adminHandler.DeleteContactPost).Methods("POST")

	csrfMiddleware := csrf.Protect(
		keys.AuthKey[:32],
		csrf.Secure(false),
		csrf.Path("/"),
	)

	return csrfMiddleware(router), nil
}
