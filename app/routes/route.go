package routes

import (
	"net/http"

	"github.com/Rakhulsr/venue-admin/app/client"
	"github.com/Rakhulsr/venue-admin/app/configs"
	"github.com/Rakhulsr/venue-admin/app/handlers"
	"github.com/Rakhulsr/venue-admin/app/handlers/admin"
	"github.com/Rakhulsr/venue-admin/app/helpers"
	"github.com/Rakhulsr/venue-admin/app/middlewares"
	"github.com/Rakhulsr/venue-admin/app/repositories"
	"github.com/Rakhulsr/venue-admin/app/services"
	"github.com/Rakhulsr/venue-admin/app/utils/renderer"
	"github.com/Rakhulsr/venue-admin/app/utils/sessions"
	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func NewRouter(env configs.ENV, logger *zap.Logger) (http.Handler, error) {
	keys, err := configs.LoadSessionKeys(env, logger)
	if err != nil {
		return nil, err
	}

	rnd := renderer.New(env.TemplateDirectory, !env.IsProduction())
	validate := helpers.NewValidator()
	manager := sessions.NewManager(env.SessionSecure, logger, keys.AuthKey, keys.EncKey)
	workspaces := services.NewWorkspaceRegistry()

	fetcher := client.NewFetcher(client.Options{
		BaseURL: env.APIBaseURL,
		Timeout: env.APITimeout,
		Retries: env.APIRetries,
		Backoff: env.APIRetryBackoff,
		Logger:  logger,
	})
	toggles := services.NewToggleService(&services.LogNotifier{Logger: logger}, logger)

	authHandler := handlers.NewAuthHandler(rnd, validate, manager, repositories.NewAuthRepository(fetcher), workspaces, logger)
	adminHandler := admin.NewAdminHandler(rnd, validate, admin.FetcherRepositories(fetcher, env.ImageBaseURL, logger), toggles, logger)

	router := mux.NewRouter()
	router.Use(middlewares.AuthContextMiddleware(manager))
	router.Use(middlewares.WorkspaceMiddleware(manager, workspaces))

	router.HandleFunc("/", authHandler.Home).Methods("GET")
	router.HandleFunc("/login", authHandler.LoginGetHandler).Methods("GET")
	router.HandleFunc("/login", authHandler.LoginPostHandler).Methods("POST")
	router.HandleFunc("/logout", authHandler.LogoutHandler).Methods("POST")

	router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	adminRouter := router.PathPrefix("/admin").Subrouter()
	adminRouter.Use(middlewares.AdminAuthMiddleware(rnd, logger))
	RegisterAdminRoutes(adminRouter, adminHandler)

	protect := csrf.Protect(keys.CSRFKey,
		csrf.Secure(env.SessionSecure),
		csrf.Path("/"),
		csrf.FieldName("gorilla.csrf.Token"),
	)

	return middlewares.MethodOverrideMiddleware(protect(router)), nil
}

// RegisterAdminRoutes mounts the console pages. Fixed paths are registered
// before the {id} ones so "export" and "add" are never taken for an id.
func RegisterAdminRoutes(r *mux.Router, h *admin.AdminHandler) {
	r.HandleFunc("/dashboard", h.GetDashboard).Methods("GET")

	r.HandleFunc("/categories", h.GetCategoriesPage).Methods("GET")
	r.HandleFunc("/categories/export", h.ExportCategories).Methods("GET")
	r.HandleFunc("/categories/add", h.AddCategoryPage).Methods("GET")
	r.HandleFunc("/categories/add", h.AddCategoryPost).Methods("POST")
	r.HandleFunc("/categories/edit/{id}", h.EditCategoryPage).Methods("GET")
	r.HandleFunc("/categories/edit/{id}", h.EditCategoryPost).Methods("POST", "PUT")
	r.HandleFunc("/categories/delete/{id}", h.DeleteCategoryPost).Methods("POST", "DELETE")
	r.HandleFunc("/categories/{id}/toggle-active", h.ToggleCategoryActive).Methods("POST", "PATCH")

	r.HandleFunc("/venues", h.GetVenuesPage).Methods("GET")
	r.HandleFunc("/venues/export", h.ExportVenues).Methods("GET")
	r.HandleFunc("/venues/add", h.AddVenuePage).Methods("GET")
	r.HandleFunc("/venues/add", h.AddVenuePost).Methods("POST")
	r.HandleFunc("/venues/edit/{id}", h.EditVenuePage).Methods("GET")
	r.HandleFunc("/venues/edit/{id}", h.EditVenuePost).Methods("POST", "PUT")
	r.HandleFunc("/venues/delete/{id}", h.DeleteVenuePost).Methods("POST", "DELETE")
	r.HandleFunc("/venues/{id}/toggle-active", h.ToggleVenueActive).Methods("POST", "PATCH")
	r.HandleFunc("/venues/{id}/toggle-top-pick", h.ToggleVenueTopPick).Methods("POST", "PATCH")
	r.HandleFunc("/venues/{id}", h.ShowVenuePage).Methods("GET")

	r.HandleFunc("/providers/register", h.RegisterProviderPage).Methods("GET")
	r.HandleFunc("/providers/register", h.RegisterProviderPost).Methods("POST")
}
