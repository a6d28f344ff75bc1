package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/lordskyzw/pygwan"
	"github.com/lordskyzw/pygwan/internal/config"
	"github.com/lordskyzw/pygwan/internal/repository/mongodb"
	"github.com/lordskyzw/pygwan/internal/repository/sheets"
	"github.com/lordskyzw/pygwan/internal/scheduler"
	"github.com/lordskyzw/pygwan/internal/server/handlers"
	"github.com/lordskyzw/pygwan/internal/server/router"
	commandsvc "github.com/lordskyzw/pygwan/internal/service/commands"
	reportingsvc "github.com/lordskyzw/pygwan/internal/service/reporting"
	whatsappsvc "github.com/lordskyzw/pygwan/internal/service/whatsapp"
	"github.com/lordskyzw/pygwan/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	mongoRepo, err := mongodb.NewMessageLogRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	var sheetsRepo sheets.Repository
	if cfg.Sheets.Enabled() {
		sheetsRepo, err = sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		baseLogger.Info("sheets digest export enabled")
	} else {
		baseLogger.Warn("sheets credentials missing, digest export disabled")
	}

	reportingSvc := reportingsvc.NewService(mongoRepo, sheetsRepo, baseLogger.Named("svc.reporting"))

	waClient, err := pygwan.New(pygwan.Config{
		AccessToken:   cfg.WhatsApp.AccessToken,
		PhoneNumberID: cfg.WhatsApp.PhoneNumberID,
		BaseURL:       cfg.WhatsApp.BaseURL,
		APIVersion:    cfg.WhatsApp.APIVersion,
		Logger:        baseLogger.Named("client.whatsapp"),
	})
	if err != nil {
		baseLogger.Fatal("failed to init whatsapp client", zap.Error(err))
	}

	// Business account features are optional.
	if cfg.WhatsApp.BusinessAccountID != "" {
		businessClient, err := pygwan.NewBusinessClient(pygwan.BusinessConfig{
			AccessToken: cfg.WhatsApp.AccessToken,
			WABAID:      cfg.WhatsApp.BusinessAccountID,
			BaseURL:     cfg.WhatsApp.BaseURL,
			APIVersion:  cfg.WhatsApp.APIVersion,
			Logger:      baseLogger.Named("client.business"),
		})
		if err != nil {
			baseLogger.Fatal("failed to init business client", zap.Error(err))
		}

		startupCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		templates, err := businessClient.Templates(startupCtx)
		cancel()
		if err != nil {
			baseLogger.Warn("failed to list message templates", zap.Error(err))
		} else {
			baseLogger.Info("message templates loaded", zap.Int("count", len(templates)))
		}
	}

	subscribers := whatsappsvc.NewSubscriberRegistry()
	commandDispatcher := commandsvc.NewService(subscribers, reportingSvc, baseLogger.Named("svc.commands"))
	messagingSvc := whatsappsvc.NewMetaWhatsAppService(cfg.WhatsApp, cfg.Digest.AdminWaID, waClient, commandDispatcher, subscribers, mongoRepo, baseLogger.Named("svc.whatsapp"))
	webhookHandler := handlers.NewWebhookHandler(messagingSvc, baseLogger.Named("handlers.whatsapp"))
	engine := router.New(webhookHandler, baseLogger.Named("router"))

	sched, err := scheduler.NewScheduler(*cfg, reportingSvc, messagingSvc, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
