package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/backlog/internal/repositories"
	"github.com/desertthunder/backlog/internal/server"
	"github.com/desertthunder/backlog/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the web service until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	if cmd.IsSet("host") {
		cfg.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Port = cmd.Int("port")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	store := repositories.NewGameRepository(db)
	metrics := server.NewMetrics(store)
	ingestor := r.newIngestor(store).WithObserver(metrics)

	handler, err := server.New(server.Options{
		Store:    store,
		Ingester: ingestor,
		Auth:     r.config.Auth,
		Logger:   shared.WithLogger(r.logger, "component", "http"),
		Metrics:  metrics,
		Health:   db.PingContext,
	})
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}

	if r.config.Auth.PasswordHash == "" && r.config.Auth.Password == shared.DefaultConfig().Auth.Password {
		r.logger.Warn("using the default password, set GAME_BACKLOG_PASS or auth.password_hash")
	}

	r.logger.Info("starting server", "addr", cfg.Addr(), "database", r.config.Database.Path)
	return server.ListenAndServe(ctx, cfg.Addr(), handler, r.logger)
}
