// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	errorsfeature "github.com/dalemusser/interviewhub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/interviewhub/internal/app/features/health"
	homefeature "github.com/dalemusser/interviewhub/internal/app/features/home"
	interviewsfeature "github.com/dalemusser/interviewhub/internal/app/features/interviews"
	submissionsfeature "github.com/dalemusser/interviewhub/internal/app/features/submissions"
	topicsfeature "github.com/dalemusser/interviewhub/internal/app/features/topics"
	auditstore "github.com/dalemusser/interviewhub/internal/app/store/audit"
	interviewstore "github.com/dalemusser/interviewhub/internal/app/store/interviews"
	submissionstore "github.com/dalemusser/interviewhub/internal/app/store/submissions"
	topicstore "github.com/dalemusser/interviewhub/internal/app/store/topics"
	userstore "github.com/dalemusser/interviewhub/internal/app/store/users"
	"github.com/dalemusser/interviewhub/internal/app/system/auditlog"
	"github.com/dalemusser/interviewhub/internal/app/system/auth"
	"github.com/dalemusser/interviewhub/internal/app/system/authz"
	"github.com/dalemusser/interviewhub/internal/app/system/requestlog"
	"github.com/dalemusser/interviewhub/internal/app/system/txn"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// services bundles what the API routes need. BuildHandler fills it from
// the Mongo stores; tests fill it from in-memory ones.
type services struct {
	Interviews  *interviewsfeature.Service
	Submissions *submissionsfeature.Service
	Topics      *topicsfeature.Service
	Audit       *auditlog.Logger
	Health      healthfeature.Pinger
}

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. It wires the stores into the feature
// services and hands them to newRouter.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	verifier, err := auth.NewVerifier(appCfg.JWTSecret, appCfg.JWTIssuer, logger)
	if err != nil {
		logger.Error("token verifier init failed", zap.Error(err))
		return nil, err
	}

	db := deps.MongoDatabase
	users := userstore.New(db)
	interviews := interviewstore.New(db)
	subs := submissionstore.New(db)

	svc := services{
		Interviews: interviewsfeature.NewService(interviews, subs, users,
			authz.New(users), txn.NewMongo(db, logger), logger),
		Submissions: submissionsfeature.NewService(subs, interviews, users, logger),
		Topics:      topicsfeature.NewService(topicstore.New(db), appCfg.TopicsEmptyNotFound, logger),
		Audit: auditlog.New(auditstore.New(db), logger, auditlog.Config{
			Admin:    appCfg.AuditLogAdmin,
			Activity: appCfg.AuditLogActivity,
		}),
		Health: deps.MongoClient,
	}

	return newRouter(appCfg, verifier, svc, logger), nil
}

func newRouter(appCfg AppConfig, verifier *auth.Verifier, svc services, logger *zap.Logger) chi.Router {
	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestlog.Middleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: appCfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         300,
	}))

	// Set before mounting so sub-routers inherit them.
	r.NotFound(errorsfeature.NotFound)
	r.MethodNotAllowed(errorsfeature.NotFound)

	// Health check endpoint for load balancers and orchestrators
	r.Mount("/health", healthfeature.Routes(healthfeature.NewHandler(svc.Health, logger)))

	// Everything under /api requires a bearer token.
	r.Route("/api", func(api chi.Router) {
		api.Use(verifier.Require)

		interviewsfeature.Routes(api, interviewsfeature.NewHandler(svc.Interviews, errLog, svc.Audit, appCfg.MaxBodyBytes, logger))
		submissionsfeature.Routes(api, submissionsfeature.NewHandler(svc.Submissions, errLog, svc.Audit, appCfg.MaxBodyBytes, logger))
		topicsfeature.Routes(api, topicsfeature.NewHandler(svc.Topics, errLog, svc.Audit, appCfg.MaxBodyBytes, logger))
	})

	r.Mount("/", homefeature.Routes(homefeature.NewHandler()))

	return r
}
