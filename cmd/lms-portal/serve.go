package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joestump/lms-portal/internal/auth"
	"github.com/joestump/lms-portal/internal/build"
	"github.com/joestump/lms-portal/internal/config"
	"github.com/joestump/lms-portal/internal/db"
	"github.com/joestump/lms-portal/internal/handler"
	"github.com/joestump/lms-portal/internal/logging"
	"github.com/joestump/lms-portal/internal/store"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := db.Migrate(database, cfg.DB.Driver); err != nil {
				return err
			}

			secure := !cfg.InsecureCookies
			sessionManager := auth.NewSessionManager(database, cfg.DB.Driver, cfg.SessionLifetime, secure)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			oidcProvider, err := auth.NewProvider(ctx, cfg)
			if err != nil {
				return err
			}
			if oidcProvider == nil {
				logger.Warn("OIDC not configured; /auth/login signs in the demo student",
					zap.String("email", cfg.Demo.Email))
			}

			userStore := store.NewUserStore(database)
			demo := auth.DemoAccount{Name: cfg.Demo.Name, Email: cfg.Demo.Email}

			router := handler.NewRouter(handler.Deps{
				SessionManager:   sessionManager,
				AuthHandlers:     auth.NewHandlers(oidcProvider, sessionManager, userStore, demo, secure, logger.Named("auth")),
				AuthMiddleware:   auth.NewMiddleware(sessionManager, userStore, logger.Named("auth")),
				UserStore:        userStore,
				CourseStore:      store.NewCourseStore(database),
				EventStore:       store.NewEventStore(database),
				TestimonialStore: store.NewTestimonialStore(database),
				SecureCookies:    secure,
				Logger:           logger,
			})

			srv := &http.Server{
				Addr:              cfg.HTTP.Addr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening", zap.String("addr", cfg.HTTP.Addr), zap.String("version", build.String()))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("http server: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			return nil
		},
	}
}
