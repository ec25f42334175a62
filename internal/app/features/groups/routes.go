// internal/app/features/groups/routes.go
package groups

import (
	"github.com/studybuddyhq/studybuddy/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/new", h.ServeNew)
		pr.Post("/new", h.HandleCreate)
		pr.Get("/{groupID}", h.ServeGroup)
		pr.Get("/{groupID}/edit", h.ServeEdit)
		pr.Post("/{groupID}/edit", h.HandleEdit)
		pr.Post("/{groupID}/delete", h.HandleDelete)
		pr.Post("/{groupID}/join", h.HandleJoin)
		pr.Post("/{groupID}/leave", h.HandleLeave)
		pr.Post("/{groupID}/request", h.HandleRequest)
		pr.Post("/{groupID}/requests/{requestID}/approve", h.HandleApprove)
		pr.Post("/{groupID}/requests/{requestID}/reject", h.HandleReject)
		pr.Post("/{groupID}/messages", h.HandlePostMessage)
	})
	return r
}
