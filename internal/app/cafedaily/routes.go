package cafedaily

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/nguyenbachduyhoang/cafedaily/internal/backend"
	"github.com/nguyenbachduyhoang/cafedaily/internal/config"
	"github.com/nguyenbachduyhoang/cafedaily/internal/http/handlers/auth/google"
	"github.com/nguyenbachduyhoang/cafedaily/internal/http/handlers/auth/login"
	"github.com/nguyenbachduyhoang/cafedaily/internal/http/handlers/auth/logout"
	"github.com/nguyenbachduyhoang/cafedaily/internal/http/handlers/auth/password"
	"github.com/nguyenbachduyhoang/cafedaily/internal/http/handlers/auth/register"
	"github.com/nguyenbachduyhoang/cafedaily/internal/http/handlers/auth/verify"
	"github.com/nguyenbachduyhoang/cafedaily/internal/http/handlers/health"
	notificationlist "github.com/nguyenbachduyhoang/cafedaily/internal/http/handlers/notification/list"
	orderhandlers "github.com/nguyenbachduyhoang/cafedaily/internal/http/handlers/order"
	planlist "github.com/nguyenbachduyhoang/cafedaily/internal/http/handlers/plan/list"
	"github.com/nguyenbachduyhoang/cafedaily/internal/http/handlers/profile"
	subhandlers "github.com/nguyenbachduyhoang/cafedaily/internal/http/handlers/subscription"
	"github.com/nguyenbachduyhoang/cafedaily/internal/http/middlewarectx"
	"github.com/nguyenbachduyhoang/cafedaily/internal/lib/jwt"
	orderservice "github.com/nguyenbachduyhoang/cafedaily/internal/services/order"
	"github.com/nguyenbachduyhoang/cafedaily/internal/session"
)

// RegisterRoutes wires every route of the service.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, maker jwt.Maker, sessions *session.Manager, gateway *backend.Client, orders *orderservice.Service) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler)

	cookieName := cfg.Session.CookieName
	cookieTTL := cfg.Session.TTL

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarectx.SessionMiddleware(maker, sessions, cookieName, logger))

		// Open endpoints
		r.Post("/auth/login", login.New(logger, sessions, maker, cookieName, cookieTTL).ServeHTTP)
		r.Post("/auth/google", google.New(logger, sessions, maker, cookieName, cookieTTL).ServeHTTP)
		r.Post("/auth/register", register.New(logger, sessions, maker, cookieName, cookieTTL).ServeHTTP)
		r.Post("/auth/verify", verify.New(logger, sessions).ServeHTTP)
		r.Post("/auth/forgot-password", password.NewForgot(logger, sessions).ServeHTTP)
		r.Post("/auth/reset-password", password.NewReset(logger, sessions).ServeHTTP)
		r.Get("/plans", planlist.New(logger, gateway).ServeHTTP)

		// Session-scoped group
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RequireSession(logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/auth/logout", logout.New(logger, sessions, cookieName).ServeHTTP)
			r.Get("/profile", profile.NewGet(logger, sessions).ServeHTTP)
			r.Post("/profile", profile.NewUpdate(logger, sessions).ServeHTTP)

			r.Post("/orders", orderhandlers.NewCreate(logger, orders).ServeHTTP)
			r.Get("/orders/{id}", orderhandlers.NewStatus(logger, orders).ServeHTTP)
			r.Post("/orders/{id}/close", orderhandlers.NewClose(logger, orders).ServeHTTP)

			r.Get("/subscriptions", subhandlers.NewList(logger, gateway).ServeHTTP)
			r.Delete("/subscriptions/{id}", subhandlers.NewRemove(logger, gateway).ServeHTTP)
			r.Get("/subscriptions/{id}/payment-info", subhandlers.NewPaymentInfo(logger, gateway).ServeHTTP)
			r.Post("/subscriptions/{id}/repay", subhandlers.NewRepay(logger, orders).ServeHTTP)
			r.Get("/subscriptions/{id}/qr", subhandlers.NewQR(logger, gateway).ServeHTTP)

			r.Get("/notifications", notificationlist.New(logger, gateway).ServeHTTP)
		})
	})

	r.Get("/healthz", health.New(logger, gateway).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
