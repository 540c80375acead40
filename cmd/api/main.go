package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"bazar-api/internal/config"
	"bazar-api/internal/email"
	apihttp "bazar-api/internal/http"
	"bazar-api/internal/kv"
	"bazar-api/internal/llm"
	"bazar-api/internal/repository"
	"bazar-api/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Backend de almacenamiento: postgres si hay DATABASE_URL, si no
	// sqlite embebido, si no memoria (solo útil en desarrollo).
	var store kv.Store
	switch {
	case cfg.DatabaseURL != "":
		pg, err := kv.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("postgres connect", zap.Error(err))
		}
		store = pg
	case cfg.SQLitePath != "":
		sq, err := kv.NewSQLiteStore(ctx, cfg.SQLitePath)
		if err != nil {
			logger.Fatal("sqlite open", zap.Error(err))
		}
		store = sq
	default:
		logger.Warn("no storage configured, using in-memory store")
		store = kv.NewMemoryStore()
	}
	defer store.Close()

	var tokenStore service.RefreshTokenStore
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			tokenStore = service.NewKVRefreshTokenStore(kv.NewRedisStore(redisClient))
		}
		cancel()
	}

	userRepo := repository.NewKVUserRepository(store)
	sessionRepo := repository.NewKVSessionRepository(store)
	attemptRepo := repository.NewKVAttemptRepository(store)
	codeRepo := repository.NewKVCodeRepository(store)
	txRepo := repository.NewKVTransactionRepository(store)

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	llmTimeout := time.Duration(cfg.LLMTimeoutSeconds) * time.Second
	llmClient := llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, llmTimeout, zap.NewStdLog(logger))

	jwtSvc := service.NewJWTService(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLMinutes)*time.Minute,
		tokenStore,
	).WithUserSource(userRepo)
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}

	authSvc := service.NewAuthService(
		logger,
		userRepo,
		sessionRepo,
		attemptRepo,
		codeRepo,
		emailSender,
		time.Duration(cfg.AttemptWindowMinutes)*time.Minute,
	)
	ledgerSvc := service.NewLedgerService(logger, txRepo)
	reportSvc := service.NewReportService()
	advisorSvc := service.NewAdvisorService(logger, llmClient, llmTimeout)

	watchdogs := service.NewSessionWatchdogs(
		time.Duration(cfg.IdleLogoutMinutes)*time.Minute,
		func(userID string) {
			logger.Info("idle session closed", zap.String("user_id", userID))
			if err := authSvc.Logout(context.Background(), userID); err != nil {
				logger.Warn("idle logout failed", zap.Error(err))
			}
		},
	)

	authHandler := apihttp.NewAuthHandler(logger, authSvc, jwtSvc, watchdogs)
	ledgerHandler := apihttp.NewLedgerHandler(logger, ledgerSvc, reportSvc)
	reportHandler := apihttp.NewReportHandler(logger, ledgerSvc, reportSvc)
	advisorHandler := apihttp.NewAdvisorHandler(logger, authSvc, ledgerSvc, advisorSvc)
	router := apihttp.NewRouter(logger, jwtSvc, watchdogs, authHandler, ledgerHandler, reportHandler, advisorHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
