// internal/app/features/profile/routes.go
package profile

import (
	"github.com/studybuddyhq/studybuddy/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeProfile)
		pr.Get("/setup", h.ServeSetup)
		pr.Post("/setup", h.HandleSetupPost)
	})
	return r
}
