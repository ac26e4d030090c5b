package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAppName          = "AmbrPayments"
	defaultAppEnv           = "development"
	defaultPort             = "8080"
	defaultLogLevel         = "info"
	defaultDatabaseName     = "ambr"
	defaultShutdownDelay    = 10 * time.Second
	defaultIdempotencyTTL   = 24 * time.Hour
	defaultRequestTimeout   = 25 * time.Second
	defaultPaymentRateLimit = 30
	idemTTLSecondsEnvVar    = "IDEMPOTENCY_TTL_SECONDS"
	idemTTLDurEnvVar        = "IDEMPOTENCY_TTL"
	shutdownSecondsEnvVar   = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar  = "SHUTDOWN_TIMEOUT"
	requestTimeoutEnvVar    = "REQUEST_TIMEOUT"
	rateLimitEnvVar         = "PAYMENT_RATE_LIMIT_PER_MINUTE"
)

// Secret handling modes.
const (
	SecretsModeKMS   = "kms"
	SecretsModePlain = "plain"
)

// Storage backends.
const (
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Payment processors.
const (
	ProcessorStripe = "stripe"
	ProcessorStatic = "static"
)

// Config captures application runtime configuration loaded from environment variables.
// The three *Ciphertext values are stored KMS-encrypted unless SecretsMode is plain.
type Config struct {
	AppName        string
	AppEnv         string
	Port           string
	LogLevel       string
	SecretsMode    string
	StoreBackend   string
	Processor      string
	DatabaseName   string
	RedisURL       string
	ShutdownPeriod time.Duration
	IdempotencyTTL time.Duration
	RequestTimeout time.Duration
	RateLimit      int

	ConnectionCiphertext   string
	TokenKeyCiphertext     string
	ProcessorKeyCiphertext string
}

// Load reads configuration values from the environment and populates a Config instance.
func Load() (Config, error) {
	cfg := Config{
		AppName:                getEnv("APP_NAME", defaultAppName),
		AppEnv:                 getEnv("APP_ENV", defaultAppEnv),
		Port:                   getEnv("PORT", defaultPort),
		LogLevel:               strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		SecretsMode:            strings.ToLower(getEnv("SECRETS_MODE", SecretsModeKMS)),
		StoreBackend:           strings.ToLower(getEnv("STORE_BACKEND", BackendMongo)),
		Processor:              strings.ToLower(getEnv("PROCESSOR", ProcessorStripe)),
		DatabaseName:           getEnv("DATABASE_NAME", defaultDatabaseName),
		RedisURL:               os.Getenv("REDIS_URL"),
		ShutdownPeriod:         defaultShutdownDelay,
		IdempotencyTTL:         defaultIdempotencyTTL,
		RequestTimeout:         defaultRequestTimeout,
		RateLimit:              defaultPaymentRateLimit,
		ConnectionCiphertext:   os.Getenv("MONGODB_ATLAS_CLUSTER_URI"),
		TokenKeyCiphertext:     os.Getenv("JWT_SECRET_KEY"),
		ProcessorKeyCiphertext: os.Getenv("STRIPE_SECRET_KEY"),
	}

	var err error
	if cfg.ShutdownPeriod, err = durationFromEnv(shutdownSecondsEnvVar, shutdownDurationEnvVar, cfg.ShutdownPeriod); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = durationFromEnv(idemTTLSecondsEnvVar, idemTTLDurEnvVar, cfg.IdempotencyTTL); err != nil {
		return Config{}, err
	}
	if v := os.Getenv(requestTimeoutEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", requestTimeoutEnvVar, err)
		}
		cfg.RequestTimeout = d
	}
	if v := os.Getenv(rateLimitEnvVar); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", rateLimitEnvVar, err)
		}
		cfg.RateLimit = n
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.SecretsMode {
	case SecretsModeKMS, SecretsModePlain:
	default:
		return fmt.Errorf("unsupported SECRETS_MODE %q", c.SecretsMode)
	}
	switch c.StoreBackend {
	case BackendMongo, BackendPostgres, BackendMemory:
	default:
		return fmt.Errorf("unsupported STORE_BACKEND %q", c.StoreBackend)
	}
	switch c.Processor {
	case ProcessorStripe, ProcessorStatic:
	default:
		return fmt.Errorf("unsupported PROCESSOR %q", c.Processor)
	}

	if c.StoreBackend != BackendMemory && c.ConnectionCiphertext == "" {
		return fmt.Errorf("MONGODB_ATLAS_CLUSTER_URI must be set")
	}
	if c.TokenKeyCiphertext == "" {
		return fmt.Errorf("JWT_SECRET_KEY must be set")
	}
	if c.Processor == ProcessorStripe && c.ProcessorKeyCiphertext == "" {
		return fmt.Errorf("STRIPE_SECRET_KEY must be set")
	}
	return nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

// IsDev reports whether the service runs in a local/development environment.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}

func durationFromEnv(secondsKey, durationKey string, fallback time.Duration) (time.Duration, error) {
	if v := os.Getenv(secondsKey); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", secondsKey, err)
		}
		return time.Duration(seconds) * time.Second, nil
	}
	if v := os.Getenv(durationKey); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", durationKey, err)
		}
		return d, nil
	}
	return fallback, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
