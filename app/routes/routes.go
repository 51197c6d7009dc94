package routes

import (
	"net/http"

	"github.com/dgraph-io/badger/v4"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"inkwell/app/auth"
	"inkwell/app/config"
	"inkwell/app/controllers"
	"inkwell/app/middleware"
	"inkwell/app/repositories"
	"inkwell/app/services"
)

// SetupRoutes wires repositories, services, and controllers onto the API
// router using the provided Badger DB.
func SetupRoutes(db *badger.DB, cfg config.Config) *mux.Router {
	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.ContentTypeJSON)

	userRepo := repositories.NewBadgerUserRepository(db)
	postRepo := repositories.NewBadgerPostRepository(db)
	tagRepo := repositories.NewBadgerTagRepository(db)

	tokens := auth.NewTokenService([]byte(cfg.JWTSecret), cfg.TokenTTL)

	authController := controllers.NewAuthController(services.NewAuthService(userRepo, tokens))
	postController := controllers.NewPostController(services.NewPostService(postRepo))
	tagController := controllers.NewTagController(services.NewTagService(tagRepo))

	requireAdmin := middleware.RequireAdmin(tokens, userRepo)

	api := router.PathPrefix("/api/v1").Subrouter()

	// Auth endpoints
	api.HandleFunc("/auth/login", authController.Login).Methods("POST")

	// Posts endpoints; mutations sit behind the admin guard
	posts := api.PathPrefix("/posts").Subrouter()
	posts.HandleFunc("", postController.Index).Methods("GET")
	posts.Handle("", requireAdmin(http.HandlerFunc(postController.Create))).Methods("POST")
	posts.Handle("/{id:[0-9]+}", requireAdmin(http.HandlerFunc(postController.Edit))).Methods("PUT")
	posts.Handle("/{id:[0-9]+}", requireAdmin(http.HandlerFunc(postController.Delete))).Methods("DELETE")
	posts.HandleFunc("/{slug}", postController.Show).Methods("GET")

	// Tags endpoint
	api.HandleFunc("/tags", tagController.Index).Methods("GET")

	return router
}

// WithCORS wraps the router for the browser frontend.
func WithCORS(router *mux.Router, origins []string) http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)(router)
}

// StartServer starts the HTTP server on the specified address with the given router.
func StartServer(addr string, handler http.Handler) error {
	return http.ListenAndServe(addr, handler)
}
