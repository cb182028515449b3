package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress         string
	DatabaseURI        string
	VenueAddress       string
	ProductAddress     string
	NotifyAddress      string
	RedisAddress       string
	TokenSecret        string
	AuthStrategy       string
	SessionTTL         time.Duration
	OTPTTL             time.Duration
	ReconcileInterval  time.Duration
	WorkerPoolSize     int
	ShutdownTimeout    time.Duration
	MaxReconcileBatch  int
	PairSweepInterval  time.Duration
	PairPendingMaxAge  time.Duration
	DefaultPartnerCode string
}

const (
	defaultRunAddress        = ":8080"
	defaultTokenSecret       = "change-me-in-production"
	defaultAuthStrategy      = "hmac"
	defaultSessionTTL        = 24 * time.Hour
	defaultOTPTTL            = 10 * time.Minute
	defaultReconcileInterval = 5 * time.Second
	defaultWorkerPoolSize    = 4
	defaultShutdownTimeout   = 10 * time.Second
	defaultMaxBatch          = 32
	defaultPairSweep         = time.Minute
	defaultPairPendingMaxAge = 15 * time.Minute
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:         getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:        getString(lookup, "DATABASE_URI", ""),
		VenueAddress:       getString(lookup, "VENUE_ADDRESS", ""),
		ProductAddress:     getString(lookup, "PRODUCT_SERVICE_ADDRESS", ""),
		NotifyAddress:      getString(lookup, "NOTIFY_ADDRESS", ""),
		RedisAddress:       getString(lookup, "REDIS_ADDRESS", "localhost:6379"),
		TokenSecret:        getString(lookup, "TOKEN_SECRET", defaultTokenSecret),
		AuthStrategy:       getString(lookup, "AUTH_STRATEGY", defaultAuthStrategy),
		SessionTTL:         getDuration(lookup, "SESSION_TTL", defaultSessionTTL),
		OTPTTL:             getDuration(lookup, "OTP_TTL", defaultOTPTTL),
		ReconcileInterval:  getDuration(lookup, "RECONCILE_INTERVAL", defaultReconcileInterval),
		WorkerPoolSize:     getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		ShutdownTimeout:    getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		MaxReconcileBatch:  getInt(lookup, "RECONCILE_BATCH_SIZE", defaultMaxBatch),
		PairSweepInterval:  getDuration(lookup, "PAIR_SWEEP_INTERVAL", defaultPairSweep),
		PairPendingMaxAge:  getDuration(lookup, "PAIR_PENDING_MAX_AGE", defaultPairPendingMaxAge),
		DefaultPartnerCode: getString(lookup, "PARTNER_CODE", ""),
	}

	fs := flag.NewFlagSet("fundmart", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		reconcileIntervalStr = cfg.ReconcileInterval.String()
		shutdownTimeoutStr   = cfg.ShutdownTimeout.String()
		otpTTLStr            = cfg.OTPTTL.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.VenueAddress, "venue", cfg.VenueAddress, "Execution venue base URL")
	fs.StringVar(&cfg.ProductAddress, "products", cfg.ProductAddress, "Product/pricing service base URL")
	fs.StringVar(&cfg.NotifyAddress, "notify", cfg.NotifyAddress, "Notification dispatcher base URL")
	fs.StringVar(&cfg.RedisAddress, "redis", cfg.RedisAddress, "Redis address for login OTP store")
	fs.StringVar(&cfg.TokenSecret, "token-secret", cfg.TokenSecret, "Secret for signing session tokens")
	fs.StringVar(&cfg.AuthStrategy, "auth-strategy", cfg.AuthStrategy, "Session token strategy (hmac|jwt)")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent reconcile workers")
	fs.StringVar(&reconcileIntervalStr, "reconcile-interval", reconcileIntervalStr, "Interval between venue status polls")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&otpTTLStr, "otp-ttl", otpTTLStr, "One-time code validity window")
	fs.IntVar(&cfg.MaxReconcileBatch, "reconcile-batch", cfg.MaxReconcileBatch, "Maximum orders per reconcile batch")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.ReconcileInterval, err = time.ParseDuration(reconcileIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid reconcile interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.OTPTTL, err = time.ParseDuration(otpTTLStr); err != nil {
		return nil, fmt.Errorf("invalid otp ttl: %w", err)
	}

	if secretFile, ok := lookup("TOKEN_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read token secret file: %w", err)
		}
		cfg.TokenSecret = string(content)
	}

	if cfg.AuthStrategy != "hmac" && cfg.AuthStrategy != "jwt" {
		return nil, fmt.Errorf("unknown auth strategy %q", cfg.AuthStrategy)
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.MaxReconcileBatch <= 0 {
		cfg.MaxReconcileBatch = defaultMaxBatch
	}

	if cfg.ReconcileInterval <= 0 {
		cfg.ReconcileInterval = defaultReconcileInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.OTPTTL <= 0 {
		cfg.OTPTTL = defaultOTPTTL
	}

	if cfg.PairSweepInterval <= 0 {
		cfg.PairSweepInterval = defaultPairSweep
	}

	if cfg.PairPendingMaxAge <= 0 {
		cfg.PairPendingMaxAge = defaultPairPendingMaxAge
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.VenueAddress == "" {
		return nil, fmt.Errorf("execution venue address must be provided")
	}

	if cfg.ProductAddress == "" {
		return nil, fmt.Errorf("product service address must be provided")
	}

	if cfg.NotifyAddress == "" {
		return nil, fmt.Errorf("notification dispatcher address must be provided")
	}

	return cfg, nil
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
