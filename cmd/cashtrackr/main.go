package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cashtrackr/api/auth"
	"github.com/cashtrackr/api/config"
	"github.com/cashtrackr/api/mailer"
	"github.com/cashtrackr/api/repository"
	"github.com/cashtrackr/api/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("service terminated", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repository.Connect(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repository.CreateSchema(ctx, db); err != nil {
		return err
	}

	repo := repository.NewManager(db)
	repo.MustValidate()

	var courier auth.MailDispatcher
	switch cfg.MailCourier {
	case "smtp":
		courier, err = mailer.NewSMTPCourier(cfg)
		if err != nil {
			return err
		}
	default:
		courier = mailer.NewLogCourier(logger)
	}

	tokens := auth.NewTokenService(cfg, logger)

	srv := server.New(cfg, repo, tokens, courier, logger)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", "port", cfg.Port)
		return srv.Listen()
	})

	g.Go(func() error {
		<-ctx.Done()

		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return err
	}

	return nil
}
