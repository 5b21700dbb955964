package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/ledgertriage/ledgertriage/internal/buildinfo"
	"github.com/ledgertriage/ledgertriage/internal/infrastructure/adapter/api/handler"
	"github.com/ledgertriage/ledgertriage/internal/infrastructure/adapter/api/routes"
	"github.com/ledgertriage/ledgertriage/internal/infrastructure/config"
)

func newServeCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP command surface",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return r.withApp(ctx, func(app *App) error {
				return serve(ctx, app)
			})
		},
	}
}

// NewRouter wires the gin engine for app
func NewRouter(app *App) *gin.Engine {
	if app.Config.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	routes.SetupMiddlewares(router, app.Logger, app.Config.Server.AllowedOrigins)
	routes.SetupRoutes(router, routes.Handlers{
		Operations:   handler.NewOperationHandler(app.Operations, app.Tagging, app.Logger, app.Config.Import.MaxBatchSize),
		Tags:         handler.NewTagHandler(app.Tagging, app.Logger),
		BankAccounts: handler.NewBankAccountHandler(app.Accounts, app.Logger),
		Health:       handler.NewHealthHandler(app.DB, buildinfo.Version, app.Logger),
	})
	return router
}

// serve runs the HTTP server until ctx is cancelled, then shuts it down gracefully
func serve(ctx context.Context, app *App) error {
	cfg := app.Config.Server
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           NewRouter(app),
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		app.Logger.Info("Starting server", map[string]any{
			"addr":    server.Addr,
			"env":     app.Config.Environment,
			"version": buildinfo.Version,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	app.Logger.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		app.Logger.Error("Server forced to shutdown", map[string]any{"error": err.Error()})
		return err
	}

	app.Logger.Info("Server exited gracefully", map[string]any{"units_of_work": app.DB.Stats().Units})
	return nil
}
