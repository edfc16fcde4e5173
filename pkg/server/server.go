package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	authhealthhandler "github.com/wellfit-labs/wellfit/pkg/handlers/authhealth"
	billinghandler "github.com/wellfit-labs/wellfit/pkg/handlers/billing"
	mediahandler "github.com/wellfit-labs/wellfit/pkg/handlers/media"
	wellfitmiddleware "github.com/wellfit-labs/wellfit/pkg/server/middleware"
	billingservice "github.com/wellfit-labs/wellfit/pkg/services/billing"
	mediaservice "github.com/wellfit-labs/wellfit/pkg/services/media"
	"github.com/wellfit-labs/wellfit/pkg/services/plans"
)

type WebAPI struct {
	router *chi.Mux
	logger *zerolog.Logger
	server *http.Server
}

type Dependencies struct {
	Health  authhealthhandler.Engine
	Videos  mediaservice.Service
	Plans   plans.Service
	Billing billingservice.Service
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	healthHandler := authhealthhandler.NewHandler(config.Dependencies.Health)
	videoHandler := mediahandler.NewHandler(config.Dependencies.Videos)
	billingHandler := billinghandler.NewHandler(config.Dependencies.Plans, config.Dependencies.Billing)

	router := chi.NewRouter()

	router.Use(wellfitmiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Get("/diagnostics", healthHandler.Diagnose)
			r.Post("/diagnostics/fix", healthHandler.ApplyFixes)
			r.Get("/reauth", healthHandler.Reauth)
			r.Post("/refresh", healthHandler.Refresh)
			r.Post("/clear", healthHandler.Clear)
		})

		r.Route("/videos", func(r chi.Router) {
			r.Get("/", videoHandler.List)
			r.Post("/", videoHandler.Upload)
			r.Delete("/{id}", videoHandler.Delete)
			r.Get("/{id}/url", videoHandler.SignedURL)
		})

		r.Get("/plans", billingHandler.ListPlans)
		r.Post("/billing/checkout", billingHandler.Checkout)
	})

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:    config.Addr,
			Handler: router,
		},
	}
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
