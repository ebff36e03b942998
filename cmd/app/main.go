// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"telegram-subscription-shop/internal/application"
	"telegram-subscription-shop/internal/config"
	"telegram-subscription-shop/internal/domain/model"
	"telegram-subscription-shop/internal/infra/content"
	"telegram-subscription-shop/internal/infra/logging"
	"telegram-subscription-shop/internal/infra/metrics"
	"telegram-subscription-shop/internal/infra/storage"
	tele "telegram-subscription-shop/internal/infra/telegram"
	"telegram-subscription-shop/internal/infra/web"
	"telegram-subscription-shop/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, verbose)")
	flag.Parse()

	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}

	metrics.MustRegister()

	// ---- Texts ----
	texts, err := content.NewCatalog(content.TextsFS, "en")
	if err != nil {
		logger.Fatal().Err(err).Msg("load texts")
	}

	// ---- Ledger ----
	ledger := storage.NewFileLedger(cfg.Storage.Path, logger)

	// ---- Telegram client ----
	botAPI, err := tele.NewClient(cfg.Bot.Token)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram client")
	}
	notifier := tele.NewNotifier(botAPI, cfg.Bot.AdminID, cfg.Payment.SupportURL, texts, logger)

	// ---- Use cases ----
	selUC := usecase.NewSelectionUseCase(ledger, logger)
	payLinks := map[model.CatalogKind]string{
		model.CatalogSubscription: cfg.Payment.SubscribeURL,
		model.CatalogRegular:      cfg.Payment.MembersURL,
		model.CatalogMember:       cfg.Payment.MembersURL,
	}
	payUC := usecase.NewPaymentUseCase(ledger, notifier, payLinks, logger)
	revUC := usecase.NewReviewUseCase(ledger, notifier, cfg.Bot.AdminID, cfg.Bot.PageSize, nil, logger)

	// ---- Facade ----
	facade := application.NewBotFacade(selUC, payUC, revUC, texts)

	// ---- Telegram adapter ----
	botAdapter, err := tele.NewRealTelegramBotAdapter(botAPI, &cfg.Bot, facade, texts, nil, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram adapter")
	}
	go func() {
		for {
			err := botAdapter.StartPolling(ctx)
			if ctx.Err() != nil {
				return
			}
			logger.Error().Err(err).Dur("backoff", cfg.RestartBackoff).Msg("polling stopped, restarting")
			select {
			case <-ctx.Done():
				return
			case <-time.After(cfg.RestartBackoff):
			}
		}
	}()

	// ---- HTTP server (health, metrics, admin API) ----
	srv := web.NewServer(revUC, cfg.Bot.AdminID, cfg.Web.APIKey, logger)
	server := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Web.Port), Handler: srv.Router()}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
