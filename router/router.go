package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"storefront/handlers"
	"storefront/middleware"
	"storefront/web"
)

func SetupRoutes(h *handlers.Handler, parser middleware.TokenParser) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.RequestLogger)
	router.Use(middleware.Session(parser))

	admin := func(hf http.HandlerFunc) http.Handler {
		return middleware.RequireAdmin()(hf)
	}
	adminPage := func(hf http.HandlerFunc) http.Handler {
		return middleware.RequireAdminPage(handlers.AdminLogin)(hf)
	}

	router.HandleFunc("/healthz", h.Healthz).Methods("GET")

	// Public API
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/products", h.ListProducts).Methods("GET")
	api.HandleFunc("/products/search", h.SearchProducts).Methods("GET")
	api.HandleFunc("/products/{id}", h.GetProduct).Methods("GET")
	api.HandleFunc("/notify", h.Notify).Methods("POST")
	api.HandleFunc("/auth/login", h.Login).Methods("POST")
	api.HandleFunc("/auth/logout", h.Logout).Methods("POST")

	// Admin API
	api.Handle("/products", admin(h.CreateProduct)).Methods("POST")
	api.Handle("/products/{id}", admin(h.UpdateProduct)).Methods("PATCH")
	api.Handle("/products/{id}", admin(h.DeleteProduct)).Methods("DELETE")
	api.Handle("/upload", admin(h.UploadImage)).Methods("POST")
	api.Handle("/upload", admin(h.DeleteImage)).Methods("DELETE")

	// Storefront pages
	router.HandleFunc("/", h.HomePage).Methods("GET")
	router.HandleFunc("/search", h.SearchPage).Methods("GET")
	router.HandleFunc("/products/{id}", h.ProductPage).Methods("GET")
	router.PathPrefix("/static/").Handler(web.Static("/static/"))

	// Admin console
	router.HandleFunc(handlers.AdminLogin, h.LoginPage).Methods("GET")
	router.HandleFunc(handlers.AdminLogin, h.LoginSubmit).Methods("POST")
	router.HandleFunc("/admin/logout", h.LogoutSubmit).Methods("POST")
	router.Handle(handlers.AdminHome, adminPage(h.Dashboard)).Methods("GET")
	router.Handle("/admin/products/new", adminPage(h.NewProductPage)).Methods("GET")
	router.Handle("/admin/products/new", adminPage(h.CreateProductSubmit)).Methods("POST")
	router.Handle("/admin/products/{id}/edit", adminPage(h.EditProductPage)).Methods("GET")
	router.Handle("/admin/products/{id}/edit", adminPage(h.UpdateProductSubmit)).Methods("POST")
	router.Handle("/admin/products/{id}/delete", adminPage(h.DeleteProductSubmit)).Methods("POST")

	router.NotFoundHandler = http.HandlerFunc(h.NotFoundPage)

	return router
}
