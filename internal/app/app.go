package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/vendstack/barkeep/internal/adapter/ldapdir"
	"github.com/vendstack/barkeep/internal/adapter/machineapi"
	"github.com/vendstack/barkeep/internal/adapter/postgres"
	machinerepo "github.com/vendstack/barkeep/internal/adapter/postgres/machine"
	"github.com/vendstack/barkeep/internal/adapter/postgres/droplog"
	"github.com/vendstack/barkeep/internal/adapter/postgres/item"
	"github.com/vendstack/barkeep/internal/adapter/postgres/slot"
	"github.com/vendstack/barkeep/internal/auth"
	"github.com/vendstack/barkeep/internal/config"
	"github.com/vendstack/barkeep/internal/service/credits"
	"github.com/vendstack/barkeep/internal/service/dispense"
	"github.com/vendstack/barkeep/internal/service/inventory"
	"github.com/vendstack/barkeep/internal/service/textcmd"
	"github.com/vendstack/barkeep/internal/transport/middleware"
	"github.com/vendstack/barkeep/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects the
// ledger, the directory, and the device client, assembles the services and
// the HTTP server, and serves until ctx is cancelled. Shutdown is graceful
// within the configured timeout.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	dir, err := ldapdir.Connect(cfg.Directory, logger)
	if err != nil {
		return fmt.Errorf("connect to directory: %w", err)
	}
	defer dir.Close()

	device := machineapi.New(cfg.Machines, logger)

	machines := machinerepo.New(pool)
	slots := slot.New(pool)
	items := item.New(pool)
	drops := droplog.New(pool)

	dispenseSvc := dispense.New(machines, slots, drops, dir, device, logger)
	creditsSvc := credits.New(dir, cfg.Auth.AdminGroup, logger)
	inventorySvc := inventory.New(machines, slots, items, cfg.Auth.AdminGroup, logger)
	textSvc := textcmd.New(dispenseSvc, creditsSvc, logger)

	router := rest.NewRouter(rest.Handlers{
		Health: rest.NewHealthHandler(pool, BuildVersion()),
		Drinks: rest.NewDrinksHandler(dispenseSvc, logger),
		Users:  rest.NewUsersHandler(creditsSvc, logger),
		Slots:  rest.NewSlotsHandler(inventorySvc, logger),
		Items:  rest.NewItemsHandler(inventorySvc, logger),
		SMS:    rest.NewSMSHandler(textSvc, logger),
	})

	validator := auth.NewValidator(cfg.Auth)
	handler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
		middleware.Auth(validator),
	)(router)

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("shutdown complete")
	return nil
}
