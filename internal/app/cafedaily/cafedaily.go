// Package cafedaily assembles the web service: the session store, the
// upstream API client and the HTTP server.
package cafedaily

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/nguyenbachduyhoang/cafedaily/internal/backend"
	"github.com/nguyenbachduyhoang/cafedaily/internal/config"
	"github.com/nguyenbachduyhoang/cafedaily/internal/lib/jwt"
	"github.com/nguyenbachduyhoang/cafedaily/internal/services/order"
	"github.com/nguyenbachduyhoang/cafedaily/internal/session"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	store  *session.RedisStore
	orders *order.Service
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	store, err := session.NewRedisStore(ctx, cfg.RedisConnection, cfg.Session.TTL)
	if err != nil {
		return nil, err
	}

	gateway := backend.New(cfg.Backend, logger)
	sessions := session.NewManager(gateway, store, logger)
	orders := order.New(gateway, cfg.PaymentFlow, logger)
	maker := jwt.NewMaker(cfg.Session.JWTSecretKey, cfg.Session.TTL)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, maker, sessions, gateway, orders)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		store:  store,
		orders: orders,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.orders.Shutdown()
		if cerr := a.store.Close(); cerr != nil {
			a.logger.Error("failed to close session store", slog.Any("err", cerr))
		}
		return err
	}
}
