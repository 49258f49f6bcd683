package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/storefront-api/internal/auth"
	"github.com/iliyamo/storefront-api/internal/config"
	"github.com/iliyamo/storefront-api/internal/database"
	"github.com/iliyamo/storefront-api/internal/handler"
	"github.com/iliyamo/storefront-api/internal/queue"
	"github.com/iliyamo/storefront-api/internal/repository"
	"github.com/iliyamo/storefront-api/internal/router"
	"github.com/iliyamo/storefront-api/internal/service"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	logger := config.NewLogger(cfg, os.Stdout)
	slog.SetDefault(logger)

	db, err := database.Open(cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient(cfg)
	if rdb == nil {
		logger.Warn("redis unavailable; password reset links stay reusable until they expire")
	} else {
		defer rdb.Close()
	}

	issuer, err := auth.NewIssuer(cfg.JWTSecret, cfg.SessionTTL)
	if err != nil {
		return err
	}
	verifier, err := auth.NewVerifier(cfg.JWTSecret)
	if err != nil {
		return err
	}
	resets, err := auth.NewResetTokens(cfg.JWTSecret, cfg.ResetTokenTTL)
	if err != nil {
		return err
	}
	transport, err := auth.NewTransport(cfg.AuthTransport, cfg.AuthCookieName, cfg.AuthCookieSecure)
	if err != nil {
		return err
	}
	sessions := auth.NewSessions(issuer, transport)
	guard := auth.NewGuard(repository.NewOwnershipRepo(db))

	users := repository.NewUserRepo(db)
	e := router.New(router.Deps{
		Logger:     logger,
		Production: cfg.IsProduction(),
		Authn:      verifier,
		Sessions:   sessions,
		Guard:      guard,
		Auth: &handler.AuthHandler{
			Users:         users,
			Sessions:      sessions,
			Reset:         resets,
			ResetStore:    repository.NewResetStore(rdb),
			Mailer:        service.NewPublisher(cfg.RabbitURL, logger),
			BcryptCost:    cfg.BcryptCost,
			ResetLinkBase: cfg.ResetLinkBase,
			Logger:        logger,
		},
		Users:      &handler.UserHandler{Users: users, Sessions: sessions, BcryptCost: cfg.BcryptCost, Logger: logger},
		Products:   &handler.ProductHandler{Products: repository.NewProductRepo(db)},
		Orders:     &handler.OrderHandler{Orders: repository.NewOrderRepo(db)},
		OrderItems: &handler.OrderItemHandler{Items: repository.NewOrderItemRepo(db), Guard: guard},
		Cart:       &handler.CartHandler{Cart: repository.NewCartRepo(db)},
		Reviews:    &handler.ReviewHandler{Reviews: repository.NewReviewRepo(db)},
	})

	if cfg.MailConsumerEnabled {
		consumer := queue.NewMailConsumer(cfg.RabbitURL, cfg.MailLogDir, logger)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("mail consumer stopped", slog.Any("error", err))
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		logger.Info("listening", slog.String("addr", addr), slog.String("env", cfg.Env), slog.String("transport", cfg.AuthTransport))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return e.Shutdown(shutdownCtx)
}
