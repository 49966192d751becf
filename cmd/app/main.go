package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"fooddelivery/cmd"
	httpin "fooddelivery/internal/adapters/in/http"
	"fooddelivery/internal/adapters/out/postgres"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}
	configs := getConfigs()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB, err := openDatabase(configs)
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	if err := postgres.Migrate(gormDB); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: configs.RedisAddr})
	defer redisClient.Close()

	app, err := cmd.NewCompositionRoot(configs, gormDB, redisClient, logger)
	if err != nil {
		log.Fatalf("Error building application: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, app, configs.HTTPPort, logger); err != nil {
		log.Fatal(err)
	}
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:                envOrDefault("HTTP_PORT", "8080"),
		DBHost:                  os.Getenv("DB_HOST"),
		DBPort:                  os.Getenv("DB_PORT"),
		DBUser:                  os.Getenv("DB_USER"),
		DBPassword:              os.Getenv("DB_PASSWORD"),
		DBName:                  os.Getenv("DB_NAME"),
		DBSslMode:               envOrDefault("DB_SSLMODE", "disable"),
		DatabaseURL:             os.Getenv("DATABASE_URL"),
		RedisAddr:               envOrDefault("REDIS_ADDR", "localhost:6379"),
		CatalogCacheTTL:         durationEnv("CATALOG_CACHE_TTL", 5*time.Minute),
		StripeAPIKey:            os.Getenv("STRIPE_API_KEY"),
		StripeWebhookSecret:     os.Getenv("STRIPE_WEBHOOK_SECRET"),
		FrontendURL:             envOrDefault("FRONTEND_URL", "http://localhost:5173"),
		SessionRecoverySchedule: envOrDefault("SESSION_RECOVERY_SCHEDULE", "0 */1 * * * *"),
		SessionRecoveryGrace:    durationEnv("SESSION_RECOVERY_GRACE", 2*time.Minute),
		SessionRecoveryBatch:    intEnv("SESSION_RECOVERY_BATCH", 50),
	}
	return config
}

func envOrDefault(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("Invalid %s: %v", key, err)
	}
	return d
}

func intEnv(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("Invalid %s: %v", key, err)
	}
	return n
}

// openDatabase prefers DATABASE_URL and falls back to the DB_* keys.
func openDatabase(configs cmd.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%v port=%v user=%v password=%v dbname=%v sslmode=%v",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword, configs.DBName, configs.DBSslMode)
	if configs.DatabaseURL != "" {
		parsed, err := pq.ParseURL(configs.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
		}
		dsn = parsed
	}
	return gorm.Open(gormpostgres.Open(dsn), &gorm.Config{TranslateError: true})
}

func run(ctx context.Context, app cmd.CompositionRoot, port string, logger *slog.Logger) error {
	router, err := httpin.NewRouter(app.CreateHTTPServer(), logger)
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.InfoContext(gctx, "HTTP server starting", "port", port)
		if err := router.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.InfoContext(shutdownCtx, "HTTP server shutting down")
		return router.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
