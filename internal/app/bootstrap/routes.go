// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/impactcentre/churchhub/internal/app/features/apierrors"
	authfeature "github.com/impactcentre/churchhub/internal/app/features/auth"
	churchesfeature "github.com/impactcentre/churchhub/internal/app/features/churches"
	departmentsfeature "github.com/impactcentre/churchhub/internal/app/features/departments"
	groupsfeature "github.com/impactcentre/churchhub/internal/app/features/groups"
	healthfeature "github.com/impactcentre/churchhub/internal/app/features/health"
	networksfeature "github.com/impactcentre/churchhub/internal/app/features/networks"
	statsfeature "github.com/impactcentre/churchhub/internal/app/features/stats"
	usersfeature "github.com/impactcentre/churchhub/internal/app/features/users"
	"github.com/impactcentre/churchhub/internal/app/system/auth"
	"github.com/impactcentre/churchhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. ChurchHub applies session middleware,
// mounts the health check, and groups every JSON feature under /api with
// authentication required everywhere except login and password reset.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Operation timeouts are tunable through TIMEOUT_* env vars.
	timeouts.ConfigureFromEnv()

	errLog := apierrors.NewErrorLogger(logger)
	db := deps.MongoDatabase

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Route("/api", func(api chi.Router) {
		// Login, logout, and password reset stay reachable without a session.
		authHandler := authfeature.NewHandler(db, sessionMgr, errLog, logger)
		api.Mount("/auth", authfeature.Routes(authHandler))

		api.Group(func(protected chi.Router) {
			protected.Use(sessionMgr.RequireSignedIn)

			statsHandler := statsfeature.NewHandler(db, errLog, logger)
			protected.Mount("/stats", statsfeature.Routes(statsHandler))

			groupsHandler := groupsfeature.NewHandler(db, errLog, logger)
			protected.Mount("/groups", groupsfeature.Routes(groupsHandler))

			networksHandler := networksfeature.NewHandler(db, errLog, logger)
			protected.Mount("/networks", networksfeature.Routes(networksHandler))

			usersHandler := usersfeature.NewHandler(db, errLog, logger)
			protected.Mount("/users", usersfeature.Routes(usersHandler))

			departmentsHandler := departmentsfeature.NewHandler(db, errLog, logger)
			protected.Mount("/departments", departmentsfeature.Routes(departmentsHandler))

			churchesHandler := churchesfeature.NewHandler(db, errLog, logger)
			protected.Mount("/churches", churchesfeature.Routes(churchesHandler))
		})
	})

	return r, nil
}
