package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/skills-enroll/internal/catalog"
	"github.com/noah-isme/skills-enroll/internal/pricing"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	RedisURL           string
	JWTSecret          string
	JWTIssuer          string
	AccessTokenTTL     time.Duration
	CORSAllowedOrigins []string

	Prices         catalog.Prices
	Pricing        pricing.Config
	CurrencySymbol string

	SessionTTL       time.Duration
	IdempotencyTTL   time.Duration
	LockTTL          time.Duration
	LockRetryBackoff time.Duration

	AuthRateLimitMax    int
	AuthRateLimitWindow time.Duration
	// RateLimitBackend selects the Redis limiter: "sliding" or "fixed".
	RateLimitBackend string
	BodyLimitBytes   int64
	SecurityHeaders  bool

	NotifyEmailFrom   string
	ContactInbox      string
	WorkerConcurrency int

	Obs             Observability
	ShutdownTimeout time.Duration
}

// Observability groups the OBS_* switches shared by the API and the worker.
type Observability struct {
	LogFormat        string
	LogLevel         string
	MetricsNamespace string
	MetricsEnabled   bool
	MetricsBuckets   []float64
	TracingEnabled   bool
	TracingExporter  string
	OTLPEndpoint     string
	SamplingRatio    float64
	PprofEnabled     bool
	PprofUser        string
	PprofPass        string
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:              valueOrDefault(k.String("APP_ENV"), "development"),
		Port:                valueOrDefault(k.String("PORT"), "8080"),
		RedisURL:            strings.TrimSpace(k.String("REDIS_URL")),
		JWTSecret:           k.String("JWT_SECRET"),
		JWTIssuer:           valueOrDefault(k.String("JWT_ISSUER"), "skills-enroll"),
		AccessTokenTTL:      parseDuration(k.String("ACCESS_TOKEN_TTL"), "1h"),
		CORSAllowedOrigins:  splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
		CurrencySymbol:      valueOrDefault(k.String("CURRENCY_SYMBOL"), "R"),
		SessionTTL:          parseDuration(k.String("ENROLLMENT_SESSION_TTL"), "24h"),
		IdempotencyTTL:      parseDuration(k.String("IDEMPOTENCY_TTL"), "24h"),
		LockTTL:             parseDuration(k.String("LOCK_TTL"), "5s"),
		LockRetryBackoff:    parseDuration(k.String("LOCK_RETRY_BACKOFF"), "25ms"),
		AuthRateLimitMax:    parseInt(k.String("RATE_LIMIT_AUTH_MAX"), 10),
		AuthRateLimitWindow: parseDuration(k.String("RATE_LIMIT_AUTH_WINDOW"), "1m"),
		RateLimitBackend:    strings.ToLower(valueOrDefault(k.String("RATE_LIMIT_BACKEND"), "sliding")),
		BodyLimitBytes:      int64(parseInt(k.String("BODY_LIMIT_BYTES"), 64<<10)),
		SecurityHeaders:     parseBoolDefault(k.String("SECURITY_HEADERS_ENABLED"), true),
		NotifyEmailFrom:     valueOrDefault(k.String("NOTIFY_EMAIL_FROM"), "no-reply@skills-enroll.local"),
		ContactInbox:        valueOrDefault(k.String("CONTACT_INBOX"), "info@skills-enroll.local"),
		WorkerConcurrency:   parseInt(k.String("WORKER_CONCURRENCY"), 5),
		Obs:                 loadObservability(k),
		ShutdownTimeout:     time.Duration(parseInt(k.String("SHUTDOWN_TIMEOUT_MS"), 10000)) * time.Millisecond,
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	if cfg.RateLimitBackend != "sliding" && cfg.RateLimitBackend != "fixed" {
		return nil, fmt.Errorf("RATE_LIMIT_BACKEND: unsupported value %q", cfg.RateLimitBackend)
	}

	if err := loadPricing(k, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadPricing reads only the catalog price and pricing keys. Offline tools use it
// so they do not need the server's secrets.
func LoadPricing() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}
	cfg := &Config{CurrencySymbol: valueOrDefault(k.String("CURRENCY_SYMBOL"), "R")}
	if err := loadPricing(k, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadPricing(k *koanf.Koanf, cfg *Config) error {
	var err error
	defaults := catalog.DefaultPrices()
	if cfg.Prices.LongForm, err = parseDecimal("COURSE_PRICE_LONG_FORM", k.String("COURSE_PRICE_LONG_FORM"), defaults.LongForm); err != nil {
		return err
	}
	if cfg.Prices.ShortForm, err = parseDecimal("COURSE_PRICE_SHORT_FORM", k.String("COURSE_PRICE_SHORT_FORM"), defaults.ShortForm); err != nil {
		return err
	}

	cfg.Pricing = pricing.DefaultConfig()
	if cfg.Pricing.TaxRate, err = parseDecimal("PRICING_TAX_RATE", k.String("PRICING_TAX_RATE"), cfg.Pricing.TaxRate); err != nil {
		return err
	}
	if raw := strings.TrimSpace(k.String("PRICING_DISCOUNT_TIERS")); raw != "" {
		policy, err := pricing.ParseTiers(raw)
		if err != nil {
			return fmt.Errorf("PRICING_DISCOUNT_TIERS: %w", err)
		}
		cfg.Pricing.Policy = policy
	}
	if raw := strings.TrimSpace(k.String("PRICING_ROUNDING_SCALE")); raw != "" {
		scale, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || scale < 0 {
			return fmt.Errorf("PRICING_ROUNDING_SCALE: invalid value %q", raw)
		}
		cfg.Pricing.Scale = int32(scale)
	}

	return nil
}

func loadObservability(k *koanf.Koanf) Observability {
	ratio, err := strconv.ParseFloat(strings.TrimSpace(k.String("OBS_TRACING_SAMPLING_RATIO")), 64)
	if err != nil || ratio < 0 || ratio > 1 {
		ratio = 1
	}
	return Observability{
		LogFormat:        strings.ToLower(valueOrDefault(k.String("OBS_LOG_FORMAT"), "json")),
		LogLevel:         strings.ToLower(valueOrDefault(k.String("OBS_LOG_LEVEL"), "info")),
		MetricsNamespace: valueOrDefault(k.String("OBS_METRICS_NAMESPACE"), "skills_enroll"),
		MetricsEnabled:   parseBoolDefault(k.String("OBS_ENABLE_PROMETHEUS"), true),
		MetricsBuckets:   parseFloats(k.String("OBS_METRICS_BUCKETS_MS")),
		TracingEnabled:   parseBoolDefault(k.String("OBS_ENABLE_TRACING"), false),
		TracingExporter:  strings.ToLower(valueOrDefault(k.String("OBS_TRACING_EXPORTER"), "otlp")),
		OTLPEndpoint:     strings.TrimSpace(k.String("OBS_OTLP_ENDPOINT")),
		SamplingRatio:    ratio,
		PprofEnabled:     parseBoolDefault(k.String("OBS_ENABLE_PPROF"), false),
		PprofUser:        strings.TrimSpace(k.String("SECURE_PPROF_BASIC_AUTH_USER")),
		PprofPass:        strings.TrimSpace(k.String("SECURE_PPROF_BASIC_AUTH_PASS")),
	}
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

// UsesRedis reports whether shared state lives in Redis rather than process memory.
func (c *Config) UsesRedis() bool {
	return c.RedisURL != ""
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseInt(value string, fallback int) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}

// parseFloats reads a comma separated list of positive numbers, skipping bad entries.
func parseFloats(value string) []float64 {
	var out []float64
	for _, part := range splitAndTrim(value) {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil || v <= 0 {
			continue
		}
		out = append(out, v)
	}
	return out
}

func parseBoolDefault(value string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func parseDecimal(key, value string, fallback decimal.Decimal) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback, nil
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%s: invalid decimal %q", key, trimmed)
	}
	return d, nil
}

// MustLoad behaves like Load but panics on error. Useful for tests and command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
