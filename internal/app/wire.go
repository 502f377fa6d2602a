package app

import (
	"log/slog"
	"time"

	"github.com/geoguard/platform/internal/auth"
	"github.com/geoguard/platform/internal/guard"
	"github.com/geoguard/platform/internal/handler"
	"github.com/geoguard/platform/internal/repository"
	"github.com/geoguard/platform/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RouterDeps holds all dependencies needed by NewRouter.
type RouterDeps struct {
	Pool      *pgxpool.Pool
	JWTMgr    *auth.JWTManager
	Logger    *slog.Logger
	Generator service.DecoyGenerator
	// Root commander bootstrap credentials
	RootCommanderUsername string
	RootCommanderPassword string
	// Decoy generation
	DecoyRadiusKm float64
	DefaultMapID  string
	// CORS
	CORSAllowedOrigins string
}

// NewRouter assembles the chi.Router with all routes and middleware.
func NewRouter(deps RouterDeps) chi.Router {
	pool := deps.Pool
	jwtMgr := deps.JWTMgr
	logger := deps.Logger

	// Repositories
	userRepo := repository.NewPgUserRepository()
	unitRepo := repository.NewPgUnitRepository()
	targetRepo := repository.NewPgTargetRepository()
	decoyRepo := repository.NewPgDecoyRepository()
	outboxRepo := repository.NewOutboxRepository()

	// In-memory guards
	loginLimiter := guard.NewRateLimiter(20, time.Minute)
	idempotency := guard.NewIdempotencyGuard()

	// Services
	authSvc := service.NewAuthService(pool, userRepo, jwtMgr,
		deps.RootCommanderUsername, deps.RootCommanderPassword, logger)
	unitSvc := service.NewUnitService(pool, unitRepo, userRepo, outboxRepo, deps.DefaultMapID, logger)
	targetSvc := service.NewTargetService(pool, targetRepo, outboxRepo, deps.DefaultMapID, logger)
	opSvc := service.NewOperationService(pool, targetRepo, decoyRepo, outboxRepo,
		deps.Generator, idempotency, deps.DecoyRadiusKm, logger)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, loginLimiter)
	unitHandler := handler.NewUnitHandler(unitSvc)
	targetHandler := handler.NewTargetHandler(targetSvc, idempotency)
	opHandler := handler.NewOperationHandler(opSvc)

	// Router
	r := chi.NewRouter()

	// Global middleware (order matters)
	r.Use(handler.Recovery(logger))
	r.Use(handler.RequestID)
	r.Use(handler.RequestLogger(logger))
	r.Use(handler.CORSWithOrigins(deps.CORSAllowedOrigins))
	r.Use(handler.JSONContentType)

	// Health (no auth)
	r.Get("/health", handler.HealthHandler(pool))

	// Auth routes (no auth)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
	})

	// Public decoy broadcast (no auth)
	r.Get("/public/decoys", opHandler.PublicDecoys)

	// Authenticated routes (any role)
	r.Group(func(r chi.Router) {
		r.Use(auth.Authenticate(jwtMgr))

		r.Get("/units", unitHandler.List)
		r.Patch("/units/{id}/status", unitHandler.UpdateStatus)

		r.Get("/targets", targetHandler.List)
		r.Get("/targets/{id}", targetHandler.Get)

		r.Get("/decoys", opHandler.ListDecoys)
	})

	// Commander-only routes
	r.Group(func(r chi.Router) {
		r.Use(auth.Authenticate(jwtMgr))
		r.Use(auth.RequireCommander())

		r.Post("/units", unitHandler.Create)

		r.Post("/targets", targetHandler.Create)
		r.Patch("/targets/{id}", targetHandler.Update)
		r.Delete("/targets/{id}", targetHandler.Delete)

		r.Post("/operations/start", opHandler.Start)
	})

	return r
}
