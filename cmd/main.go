/**
 * @description
 * Entry point for the onboarding-service. Wires configuration, the PostgreSQL
 * pool, the optional RabbitMQ producer and Redis rate limiter, the external
 * customer directory and bank API clients, the link-repair scheduler, and the
 * HTTP server with graceful shutdown.
 */
package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/techreo/onboarding-service/internal/api"
	"github.com/techreo/onboarding-service/internal/app"
	"github.com/techreo/onboarding-service/internal/config"
	"github.com/techreo/onboarding-service/internal/store"
	"github.com/techreo/onboarding-service/pkg/bankclient"
	"github.com/techreo/onboarding-service/pkg/customerclient"
	"github.com/techreo/onboarding-service/pkg/rabbitmq"
)

func main() {
	// Load .env file for local development. In production, env vars are set directly.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	// Establish database connection pool
	dbConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to parse database URL: %v\n", err)
	}
	dbConfig.MaxConns = 10
	dbConfig.MinConns = 2
	dbConfig.MaxConnLifetime = 30 * time.Minute
	dbConfig.MaxConnIdleTime = 5 * time.Minute

	// Disable prepared statement caching to prevent conflicts behind poolers
	dbConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	dbpool, err := pgxpool.NewWithConfig(context.Background(), dbConfig)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}
	defer dbpool.Close()
	log.Println("Database connection established")

	// Ensure required tables exist (idempotent)
	if _, err := dbpool.Exec(context.Background(), `
        CREATE TABLE IF NOT EXISTS customers (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            email TEXT NOT NULL UNIQUE,
            phone_number TEXT NOT NULL UNIQUE,
            password TEXT NOT NULL,
            nombres TEXT,
            apellido_paterno TEXT,
            apellido_materno TEXT,
            curp TEXT UNIQUE,
            rfc TEXT UNIQUE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );
        CREATE TABLE IF NOT EXISTS bank_accounts (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            clabe TEXT NOT NULL,
            customer_id UUID NOT NULL REFERENCES customers(id),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );
        CREATE TABLE IF NOT EXISTS savings_accounts (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            account_number TEXT NOT NULL,
            balance BIGINT NOT NULL DEFAULT 0,
            customer_id UUID NOT NULL REFERENCES customers(id),
            bank_account_id UUID REFERENCES bank_accounts(id),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );
    `); err != nil {
		log.Printf("Warning: failed ensuring tables (may already exist): %v", err)
	}

	// Set up RabbitMQ producer; fall back to a no-op publisher on failure
	var producer rabbitmq.Publisher
	if cfg.RabbitMQURL == "" {
		producer = &rabbitmq.EventProducerFallback{}
	} else if p, err := rabbitmq.NewEventProducer(cfg.RabbitMQURL); err != nil {
		log.Printf("WARNING: Failed to connect to RabbitMQ at startup: %v. Continuing without MQ.", err)
		producer = &rabbitmq.EventProducerFallback{}
	} else {
		producer = p
		defer producer.Close()
		log.Println("RabbitMQ producer connected")
	}

	// Optional Redis-backed signup rate limiter
	var limiter *app.RedisSignupRateLimiter
	if cfg.RedisURL != "" {
		opts, err := goredis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Printf("WARNING: invalid REDIS_URL: %v. Continuing without rate limiting.", err)
		} else {
			redisClient := goredis.NewClient(opts)
			defer redisClient.Close()
			limiter = app.NewRedisSignupRateLimiter(redisClient, cfg.RedisRateLimitPrefix)
			log.Println("Redis signup rate limiter enabled")
		}
	}

	repo := store.NewPostgresRepository(dbpool)
	directory := customerclient.NewClient(cfg.CustomerAPIBaseURL)
	bank := bankclient.NewClient(cfg.BankAPIBaseURL, cfg.BankAPIKey)
	service := app.NewService(repo, directory, bank, producer, cfg.JWTSecret, cfg.ContractURL)
	handlers := api.NewOnboardingHandlers(service, limiter, cfg.SignupRateLimitPerMinute)

	// Background repair of savings accounts missing their bank-account link
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	scheduler := cron.New(cron.WithChain(cron.Recover(cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo)))))
	app.ScheduleLinkRepair(scheduler, app.NewLinkRepairJob(repo, logger), cfg.LinkRepairSchedule, logger)
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: api.OnboardingRoutes(handlers, cfg.JWTSecret),
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not start server: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server gracefully stopped")
}
