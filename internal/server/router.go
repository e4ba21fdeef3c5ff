// Package server wires handlers, middleware and the route policy table
// into a single http.Handler.
package server

import (
	"log/slog"
	"net/http"

	"github.com/mmvit/garudar/internal/server/auth"
	"github.com/mmvit/garudar/internal/server/authz"
	"github.com/mmvit/garudar/internal/server/entries"
	"github.com/mmvit/garudar/internal/server/handlers"
	"github.com/mmvit/garudar/internal/server/jwt"
	"github.com/mmvit/garudar/internal/server/metrics"
	"github.com/mmvit/garudar/internal/server/middleware"
	"github.com/mmvit/garudar/internal/server/storage"
	"github.com/mmvit/garudar/internal/server/users"
)

// Пути, которые не пишутся в access log
const (
	HealthPath  = "/api/v1/health"
	MetricsPath = "/metrics"
)

// Deps - зависимости роутера, собранные в main
type Deps struct {
	Logger  *slog.Logger
	Store   storage.Storage
	Tokens  *jwt.Service
	Metrics *metrics.Metrics
	Limiter *middleware.RateLimiter // nil отключает ограничение логина
	Version string
}

// Route - одна строка таблицы политик: шаблон ServeMux, правило доступа и handler
type Route struct {
	Handler http.Handler
	Pattern string
	Rule    authz.Rule
}

// Routes returns the route policy table. Every registered endpoint appears
// here exactly once with its access rule.
func Routes(d Deps) []Route {
	userService := users.NewService(d.Logger, d.Store)
	entryService := entries.NewService(d.Logger, d.Store)

	authHandler := handlers.NewAuthHandler(d.Logger, auth.NewVerifier(d.Logger, d.Store), d.Tokens, userService, d.Metrics)
	healthHandler := handlers.NewHealthHandler(d.Logger, d.Store, d.Version)
	usersHandler := handlers.NewUsersHandler(d.Logger, userService)
	entriesHandler := handlers.NewEntriesHandler(d.Logger, entryService)

	var login http.Handler = http.HandlerFunc(authHandler.Login)
	if d.Limiter != nil {
		login = middleware.RateLimitMiddleware(d.Limiter, d.Logger, d.Metrics)(login)
	}

	var metricsHandler http.Handler = http.NotFoundHandler()
	if d.Metrics != nil {
		metricsHandler = d.Metrics.Handler()
	}

	return []Route{
		{Pattern: "POST /api/v1/auth/login", Rule: authz.Public, Handler: login},
		{Pattern: "GET " + HealthPath, Rule: authz.Public, Handler: http.HandlerFunc(healthHandler.Health)},
		{Pattern: "GET " + MetricsPath, Rule: authz.Public, Handler: metricsHandler},

		{Pattern: "GET /api/v1/users", Rule: authz.Authenticated, Handler: http.HandlerFunc(usersHandler.List)},
		{Pattern: "POST /api/v1/users", Rule: authz.Admin, Handler: http.HandlerFunc(usersHandler.Create)},
		{Pattern: "GET /api/v1/users/me", Rule: authz.Authenticated, Handler: http.HandlerFunc(usersHandler.Me)},
		{Pattern: "PUT /api/v1/users/me", Rule: authz.Authenticated, Handler: http.HandlerFunc(usersHandler.UpdateMe)},
		{Pattern: "DELETE /api/v1/users/me", Rule: authz.Authenticated, Handler: http.HandlerFunc(usersHandler.DeleteMe)},
		{Pattern: "GET /api/v1/users/{id}", Rule: authz.SelfOrAdmin, Handler: http.HandlerFunc(usersHandler.Get)},
		{Pattern: "PUT /api/v1/users/{id}", Rule: authz.SelfOrAdmin, Handler: http.HandlerFunc(usersHandler.Update)},
		{Pattern: "DELETE /api/v1/users/{id}", Rule: authz.Admin, Handler: http.HandlerFunc(usersHandler.Delete)},

		{Pattern: "GET /api/v1/entries/search", Rule: authz.Authenticated, Handler: http.HandlerFunc(entriesHandler.Search)},
		{Pattern: "GET /api/v1/entries/all", Rule: authz.Admin, Handler: http.HandlerFunc(entriesHandler.List)},
		{Pattern: "POST /api/v1/entries/bulk", Rule: authz.Admin, Handler: http.HandlerFunc(entriesHandler.Bulk)},
		{Pattern: "GET /api/v1/entries/{id}", Rule: authz.Authenticated, Handler: http.HandlerFunc(entriesHandler.Get)},
		{Pattern: "PUT /api/v1/entries/{id}", Rule: authz.Admin, Handler: http.HandlerFunc(entriesHandler.Update)},
		{Pattern: "DELETE /api/v1/entries/{id}", Rule: authz.Admin, Handler: http.HandlerFunc(entriesHandler.Delete)},
	}
}

// NewRouter builds the complete server handler.
//
// Порядок: Recovery -> RequestID -> Logging -> Identity -> ServeMux -> Metrics -> authz.Gate -> handler.
// Метрики и Gate навешиваются на каждый маршрут, чтобы метка route была шаблоном, а не сырым путем.
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()
	for _, rt := range Routes(d) {
		h := authz.Gate(d.Logger, d.Metrics, rt.Rule, rt.Handler)
		mux.Handle(rt.Pattern, middleware.MetricsMiddleware(d.Metrics, rt.Pattern)(h))
	}

	var handler http.Handler = mux
	handler = middleware.IdentityMiddleware(d.Logger, d.Tokens, d.Store, d.Metrics)(handler)
	handler = middleware.LoggingMiddleware(d.Logger, HealthPath, MetricsPath)(handler)
	handler = middleware.RequestIDMiddleware()(handler)
	handler = middleware.RecoveryMiddleware(d.Logger)(handler)

	return handler
}
