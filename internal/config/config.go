package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress            string
	DatabaseURI           string
	PurchaseSystemAddress string
	TokenSecret           string
	TokenStrategy         string
	PurchasePollInterval  time.Duration
	WorkerPoolSize        int
	ShutdownTimeout       time.Duration
	MaxPurchasesBatch     int
	RedemptionTimeout     time.Duration
	DiscountRate          decimal.Decimal
	RedisAddress          string
	RewardCacheTTL        time.Duration
	NotifyWebhookURL      string
	LogFile               string
}

const (
	defaultRunAddress           = ":8080"
	defaultTokenSecret          = "change-me-in-production"
	defaultTokenStrategy        = "hmac"
	defaultPurchasePollInterval = 3 * time.Second
	defaultWorkerPoolSize       = 4
	defaultShutdownTimeout      = 10 * time.Second
	defaultMaxPurchasesBatch    = 32
	defaultRedemptionTimeout    = 15 * time.Second
	defaultDiscountRate         = "0.10"
	defaultRewardCacheTTL       = time.Minute
)

// Load parses configuration from flags, environment variables and an optional env file.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	if envFile, ok := lookup("ENV_FILE"); ok && envFile != "" {
		values, err := godotenv.Read(envFile)
		if err != nil {
			return nil, fmt.Errorf("read env file: %w", err)
		}
		lookup = withFallback(lookup, values)
	}

	cfg := &Config{
		RunAddress:            getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:           getString(lookup, "DATABASE_URI", ""),
		PurchaseSystemAddress: getString(lookup, "PURCHASE_SYSTEM_ADDRESS", ""),
		TokenSecret:           getString(lookup, "TOKEN_SECRET", defaultTokenSecret),
		TokenStrategy:         getString(lookup, "TOKEN_STRATEGY", defaultTokenStrategy),
		PurchasePollInterval:  getDuration(lookup, "PURCHASE_POLL_INTERVAL", defaultPurchasePollInterval),
		WorkerPoolSize:        getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		ShutdownTimeout:       getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		MaxPurchasesBatch:     getInt(lookup, "POLL_BATCH_SIZE", defaultMaxPurchasesBatch),
		RedemptionTimeout:     getDuration(lookup, "REDEMPTION_TIMEOUT", defaultRedemptionTimeout),
		RedisAddress:          getString(lookup, "REDIS_ADDRESS", ""),
		RewardCacheTTL:        getDuration(lookup, "REWARD_CACHE_TTL", defaultRewardCacheTTL),
		NotifyWebhookURL:      getString(lookup, "NOTIFY_WEBHOOK_URL", ""),
		LogFile:               getString(lookup, "LOG_FILE", ""),
	}

	fs := flag.NewFlagSet("loyaltyengine", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		pollIntervalStr      = cfg.PurchasePollInterval.String()
		shutdownTimeoutStr   = cfg.ShutdownTimeout.String()
		redemptionTimeoutStr = cfg.RedemptionTimeout.String()
		cacheTTLStr          = cfg.RewardCacheTTL.String()
		discountRateStr      = getString(lookup, "DISCOUNT_RATE", defaultDiscountRate)
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.PurchaseSystemAddress, "r", cfg.PurchaseSystemAddress, "Purchase verification system base URL")
	fs.StringVar(&cfg.TokenSecret, "token-secret", cfg.TokenSecret, "Secret for signing auth tokens")
	fs.StringVar(&cfg.TokenStrategy, "token-strategy", cfg.TokenStrategy, "Auth token format: hmac or jwt")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent purchase workers")
	fs.StringVar(&pollIntervalStr, "poll-interval", pollIntervalStr, "Interval between purchase verification polls")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.IntVar(&cfg.MaxPurchasesBatch, "poll-batch", cfg.MaxPurchasesBatch, "Maximum purchases per polling batch")
	fs.StringVar(&redemptionTimeoutStr, "redemption-timeout", redemptionTimeoutStr, "Upper bound for a single redemption")
	fs.StringVar(&discountRateStr, "discount-rate", discountRateStr, "Currency value of one point")
	fs.StringVar(&cfg.RedisAddress, "redis", cfg.RedisAddress, "Redis address for the reward catalog cache")
	fs.StringVar(&cacheTTLStr, "reward-cache-ttl", cacheTTLStr, "Reward catalog cache TTL")
	fs.StringVar(&cfg.NotifyWebhookURL, "notify-webhook", cfg.NotifyWebhookURL, "Webhook receiving customer notifications")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Write logs to a rotated file instead of stdout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.PurchasePollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid poll interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.RedemptionTimeout, err = time.ParseDuration(redemptionTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid redemption timeout: %w", err)
	}

	if cfg.RewardCacheTTL, err = time.ParseDuration(cacheTTLStr); err != nil {
		return nil, fmt.Errorf("invalid reward cache ttl: %w", err)
	}

	if cfg.DiscountRate, err = decimal.NewFromString(discountRateStr); err != nil {
		return nil, fmt.Errorf("invalid discount rate: %w", err)
	}

	if secretFile, ok := lookup("TOKEN_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read token secret file: %w", err)
		}
		cfg.TokenSecret = strings.TrimSpace(string(content))
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.MaxPurchasesBatch <= 0 {
		cfg.MaxPurchasesBatch = defaultMaxPurchasesBatch
	}

	if cfg.PurchasePollInterval <= 0 {
		cfg.PurchasePollInterval = defaultPurchasePollInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.RedemptionTimeout <= 0 {
		cfg.RedemptionTimeout = defaultRedemptionTimeout
	}

	if cfg.RewardCacheTTL <= 0 {
		cfg.RewardCacheTTL = defaultRewardCacheTTL
	}

	if !cfg.DiscountRate.IsPositive() {
		return nil, fmt.Errorf("discount rate must be positive")
	}

	cfg.TokenStrategy = strings.ToLower(cfg.TokenStrategy)
	if cfg.TokenStrategy != "hmac" && cfg.TokenStrategy != "jwt" {
		return nil, fmt.Errorf("unknown token strategy %q", cfg.TokenStrategy)
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.PurchaseSystemAddress == "" {
		return nil, fmt.Errorf("purchase system address must be provided")
	}

	return cfg, nil
}

// withFallback consults values when the primary lookup has nothing.
func withFallback(primary envLookup, values map[string]string) envLookup {
	return func(key string) (string, bool) {
		if v, ok := primary(key); ok && v != "" {
			return v, true
		}
		v, ok := values[key]
		return v, ok
	}
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
