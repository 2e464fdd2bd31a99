package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupPublicRoutes registers the routes anyone may call
func setupPublicRoutes(r chi.Router, handlers *routeHandlers, deps Dependencies) {
	r.Get("/healthz", handlers.healthHandler.healthz())
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/projects", handlers.projectHandler.getPublicProjects())
	r.Get("/projects/{projectID}", handlers.projectHandler.getProject())
	r.Get("/profile", handlers.profileHandler.getProfile())

	r.Post("/auth/setup", handlers.authHandler.setup())
	r.Post("/auth/login", handlers.authHandler.login())
	r.Get("/auth/me", handlers.authHandler.me())
	r.Post("/auth/logout", handlers.authHandler.logout())

	r.With(rateLimit(deps.Limiter, deps.Metrics, "contact", contactRateLimit, contactRateWindow)).
		Post("/contact", handlers.contactHandler.submitContact())
}

// setupAdminRoutes registers the routes behind the admin session
func setupAdminRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.authenticate)
		r.Use(authMiddleware.requireAdmin)

		// Projects
		r.Get("/admin/projects", handlers.projectHandler.getAllProjects())
		r.Post("/projects", handlers.projectHandler.createProject())
		r.Put("/projects/{projectID}", handlers.projectHandler.updateProject())
		r.Delete("/projects/{projectID}", handlers.projectHandler.deleteProject())

		// Media
		r.Post("/projects/{projectID}/upload", handlers.mediaHandler.uploadMedia())
		r.Post("/projects/{projectID}/youtube", handlers.mediaHandler.addYouTubeVideo())
		r.Patch("/projects/{projectID}/media/{mediaID}", handlers.mediaHandler.updateMedia())
		r.Delete("/projects/{projectID}/media/{mediaID}", handlers.mediaHandler.deleteMedia())

		// Contact messages
		r.Get("/contacts", handlers.contactHandler.listContacts())
		r.Get("/contacts/{contactID}", handlers.contactHandler.getContact())
		r.Patch("/contacts/{contactID}", handlers.contactHandler.updateContactStatus())
		r.Delete("/contacts/{contactID}", handlers.contactHandler.deleteContact())

		// Profile
		r.Put("/profile", handlers.profileHandler.updateProfile())
		r.Post("/profile", handlers.profileHandler.updateProfile())
		r.Post("/profile/avatar", handlers.profileHandler.uploadAvatar())

		// Settings
		r.Get("/admin/settings", handlers.settingsHandler.getSettings())
		r.Post("/admin/settings", handlers.settingsHandler.updateSettings())
		r.Get("/admin/settings/status", handlers.settingsHandler.getStatus())
	})
}
