package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/safebite/backend/config"
	httpDelivery "github.com/safebite/backend/internal/delivery/http"
	"github.com/safebite/backend/internal/domain"
	"github.com/safebite/backend/internal/infrastructure/cache"
	"github.com/safebite/backend/internal/infrastructure/mailer"
	"github.com/safebite/backend/internal/infrastructure/predictor"
	"github.com/safebite/backend/internal/pkg/logger"
	"github.com/safebite/backend/internal/repository"
	"github.com/safebite/backend/internal/usecase"
)

func main() {
	// A .env file is a development convenience; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	zlog.Info("starting safebite backend",
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port)

	db, err := repository.Open(cfg.Database.DSN())
	if err != nil {
		zlog.Fatal("failed to connect to database", "error", err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		zlog.Fatal("failed to run migrations", "error", err)
	}
	store := repository.NewStore(db)

	reportCache := cache.NewReportCache(cfg.Cache.TTL)

	var predict domain.Predictor
	if cfg.Predictor.BaseURL != "" {
		predict = predictor.NewClient(cfg.Predictor.BaseURL, cfg.Predictor.Timeout, cfg.Predictor.RatePerMinute, zlog)
		zlog.Info("using remote predictor", "base_url", cfg.Predictor.BaseURL)
	} else {
		predict = predictor.NewStub()
		zlog.Warn("predictor base url not set, using built-in stub")
	}

	var mail domain.Mailer
	if cfg.Mail.SESEnabled {
		mail, err = mailer.NewSESMailer(context.Background(), cfg.Mail.Region, cfg.Mail.FromEmail, zlog)
		if err != nil {
			zlog.Fatal("failed to initialize SES mailer", "error", err)
		}
	} else {
		mail = mailer.NewLogMailer(zlog)
		zlog.Warn("SES disabled, otp codes will be logged")
	}

	nutritionSvc := usecase.NewNutritionService(store.Foods(), store.Nutrition(), reportCache, zlog)
	authSvc := usecase.NewAuthService(store.Users(), store.Tokens(), mail, usecase.AuthConfig{
		Secret:     cfg.Auth.Secret,
		AccessTTL:  cfg.Auth.AccessTTL,
		RefreshTTL: cfg.Auth.RefreshTTL,
		OTPTTL:     cfg.Auth.OTPTTL,
		OTPLength:  cfg.Auth.OTPLength,
	}, zlog)
	inferenceSvc := usecase.NewInferenceService(
		predict,
		usecase.NewResolver(store.Foods(), zlog),
		nutritionSvc,
		store.Inferences(),
		cfg.Predictor.Timeout,
		zlog,
	)

	handler := httpDelivery.NewHandler(nutritionSvc, inferenceSvc, cfg.Upload.Dir)
	authHandler := httpDelivery.NewAuthHandler(authSvc)
	router := httpDelivery.SetupRouter(cfg, handler, authHandler, authSvc)

	zlog.Info("listening", "port", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		zlog.Fatal("server stopped", "error", err)
	}
}
