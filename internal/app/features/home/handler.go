// internal/app/features/home/handler.go
package home

import (
	"net/http"

	"github.com/studybuddyhq/studybuddy/internal/app/system/authz"
	"github.com/studybuddyhq/studybuddy/internal/app/system/formutil"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger}
}

type homeData struct {
	formutil.Base
}

// ServeHome handles GET /. Signed-in users go straight to their dashboard.
func (h *Handler) ServeHome(w http.ResponseWriter, r *http.Request) {
	if _, _, signedIn := authz.UserCtx(r); signedIn {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	var data homeData
	formutil.SetBase(&data.Base, w, r, "Welcome", "/")
	templates.Render(w, r, "home", data)
}
