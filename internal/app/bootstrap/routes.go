// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	authgooglefeature "github.com/studybuddyhq/studybuddy/internal/app/features/authgoogle"
	dashboardfeature "github.com/studybuddyhq/studybuddy/internal/app/features/dashboard"
	errorsfeature "github.com/studybuddyhq/studybuddy/internal/app/features/errors"
	groupsfeature "github.com/studybuddyhq/studybuddy/internal/app/features/groups"
	healthfeature "github.com/studybuddyhq/studybuddy/internal/app/features/health"
	homefeature "github.com/studybuddyhq/studybuddy/internal/app/features/home"
	loginfeature "github.com/studybuddyhq/studybuddy/internal/app/features/login"
	logoutfeature "github.com/studybuddyhq/studybuddy/internal/app/features/logout"
	profilefeature "github.com/studybuddyhq/studybuddy/internal/app/features/profile"
	registerfeature "github.com/studybuddyhq/studybuddy/internal/app/features/register"
	"github.com/studybuddyhq/studybuddy/internal/app/system/auth"
	"github.com/studybuddyhq/studybuddy/internal/app/system/flash"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. It creates the session manager, boots
// the template engine, and mounts the feature routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Flash cookies are signed with the session key.
	flash.Init([]byte(appCfg.SessionKey))

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)
	googleEnabled := appCfg.GoogleClientID != "" && appCfg.GoogleClientSecret != ""

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Public pages
	homeHandler := homefeature.NewHandler(deps.MongoDatabase, logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(deps.MongoDatabase, sessionMgr, errLog, googleEnabled, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	registerHandler := registerfeature.NewHandler(deps.MongoDatabase, sessionMgr, errLog, logger)
	r.Mount("/register", registerfeature.Routes(registerHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	googleHandler := authgooglefeature.NewHandler(deps.MongoDatabase, sessionMgr,
		appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, logger)
	r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)

	// Signed-in areas
	dashboardHandler := dashboardfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

	profileHandler := profilefeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.Mount("/profile", profilefeature.Routes(profileHandler, sessionMgr))

	groupsHandler := groupsfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.Mount("/groups", groupsfeature.Routes(groupsHandler, sessionMgr))

	return r, nil
}
