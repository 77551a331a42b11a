package api

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Felici4no/RedeSentinela/internal/config"
	"github.com/Felici4no/RedeSentinela/internal/db"
	"github.com/Felici4no/RedeSentinela/internal/jobs"
	"github.com/Felici4no/RedeSentinela/internal/observability"
	"github.com/Felici4no/RedeSentinela/internal/reports"
	"github.com/Felici4no/RedeSentinela/internal/repository/sqlite"
	"github.com/Felici4no/RedeSentinela/pkg/models"
)

func SetupRoutes(cfg *config.Config, version, buildTime string, database *db.DB, worker *jobs.Worker, m *observability.Metrics) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Repository and lifecycle service
	repo := sqlite.New(database, nil)
	svc := reports.NewService(repo, repo, nil, m, logger)

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(repo, cfg.JWTSecret, cfg.TokenDuration)
	reportsHandler := NewReportsHandler(svc, repo)
	dashboardHandler := NewDashboardHandler(repo, repo, repo, worker)
	adminHandler := NewAdminHandler(repo)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/v1/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/v1/auth/signin", authHandler.Signin).Methods("POST")
	r.HandleFunc("/v1/certificates/verify/{code}", dashboardHandler.VerifyCertificate).Methods("GET")

	// API v1 Protected routes
	apiV1 := r.PathPrefix("/v1").Subrouter()
	apiV1.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret))

	// Auth endpoints
	authV1 := apiV1.PathPrefix("/auth").Subrouter()
	authV1.HandleFunc("/signout", authHandler.Signout).Methods("POST")

	// Report lifecycle endpoints
	apiV1.HandleFunc("/reports", reportsHandler.Submit).Methods("POST")
	apiV1.HandleFunc("/reports", reportsHandler.List).Methods("GET")
	apiV1.HandleFunc("/reports/{id}", reportsHandler.Get).Methods("GET")

	// Citizen views
	apiV1.HandleFunc("/dashboard", dashboardHandler.Dashboard).Methods("GET")
	apiV1.HandleFunc("/certificates", dashboardHandler.ListCertificates).Methods("GET")
	apiV1.HandleFunc("/certificates/{tier}", dashboardHandler.IssueCertificate).Methods("POST")

	// Administrator endpoints
	adminV1 := apiV1.NewRoute().Subrouter()
	adminV1.Use(RequireRole(models.RoleAdmin))
	adminV1.HandleFunc("/reports/{id}/validate", reportsHandler.Validate).Methods("POST")
	adminV1.HandleFunc("/reports/{id}/reject", reportsHandler.Reject).Methods("POST")
	adminV1.HandleFunc("/admin/stats", adminHandler.Stats).Methods("GET")
	adminV1.HandleFunc("/admin/map", adminHandler.Map).Methods("GET")

	return r
}
