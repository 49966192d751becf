package cmd

import "time"

type Config struct {
	HTTPPort    string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSslMode   string
	DatabaseURL string

	RedisAddr       string
	CatalogCacheTTL time.Duration

	StripeAPIKey        string
	StripeWebhookSecret string
	FrontendURL         string

	SessionRecoverySchedule string
	SessionRecoveryGrace    time.Duration
	SessionRecoveryBatch    int
}
