package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Zhima-Mochi/minishop-cart/internal/observability"
	httppresentation "github.com/Zhima-Mochi/minishop-cart/internal/presentation/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long: `Run the HTTP server until SIGINT or SIGTERM, then drain in-flight
requests for up to SHUTDOWN_TIMEOUT.

Examples:
  minishop serve                                  # in-memory store on :8080
  minishop serve --database-url postgres://...    # PostgreSQL store`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.ValidateServe(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	if cfg.SeedOnStart {
		if err := a.seed(ctx); err != nil {
			return err
		}
	}

	uc, err := a.useCases()
	if err != nil {
		return err
	}
	handler := httppresentation.NewHandler(uc, httppresentation.Options{
		ServiceName:  cfg.ServiceName,
		AuthRequired: cfg.AuthRequired,
		CORSOrigins:  cfg.CORSOrigins,
		Gatherer:     a.registry,
	}, a.tel)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.Info("http_server_start",
			observability.F("addr", server.Addr),
			observability.F("auth_required", cfg.AuthRequired),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http_server_error", observability.Err(err))
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			a.log.Error("http_server_shutdown_error", observability.Err(err))
			return err
		}
		a.log.Info("http_server_stopped")
		return nil
	})
	return g.Wait()
}
