package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/alexedwards/argon2id"
	"github.com/hibiken/asynq"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/skills-enroll/internal/auth"
	"github.com/noah-isme/skills-enroll/internal/catalog"
	"github.com/noah-isme/skills-enroll/internal/common"
	"github.com/noah-isme/skills-enroll/internal/config"
	"github.com/noah-isme/skills-enroll/internal/contact"
	"github.com/noah-isme/skills-enroll/internal/enrollment"
	"github.com/noah-isme/skills-enroll/internal/lock"
	"github.com/noah-isme/skills-enroll/internal/obs"
	"github.com/noah-isme/skills-enroll/internal/pricing"
	"github.com/noah-isme/skills-enroll/internal/ratelimit"
	"github.com/noah-isme/skills-enroll/internal/tasks"
	"github.com/noah-isme/skills-enroll/internal/user"
)

// Dependencies enumerates the services shared by cmd/api and cmd/worker. Without
// a Redis URL the stores and locks fall back to process memory and e-mail is
// delivered inline instead of through the queue.
type Dependencies struct {
	Config     *config.Config
	Logger     zerolog.Logger
	Redis      *redis.Client
	TaskClient *asynq.Client

	Catalog      *catalog.Catalog
	Calculator   *pricing.Calculator
	Sessions     enrollment.SessionStore
	Users        user.Store
	Locks        lock.Guard
	Limiter      ratelimit.Allower
	Mailer       common.EmailSender
	TaskHandlers tasks.Handlers
	Notifier     tasks.Notifier

	Enrollment *enrollment.Service
	Auth       *auth.Service
	Contact    *contact.Service

	ownsRedis bool
}

// Options adjusts how Build assembles the dependencies.
type Options struct {
	// Redis replaces the client built from Config.RedisURL.
	Redis *redis.Client
	// RedisMetrics enables redisotel metrics on a client built by Build.
	RedisMetrics bool
	// Mailer defaults to a logging sender.
	Mailer common.EmailSender
	// Notifier replaces the queue or inline notifier.
	Notifier   tasks.Notifier
	HashParams *argon2id.Params
}

// Build wires every service from cfg.
func Build(ctx context.Context, cfg *config.Config, logger zerolog.Logger, opts Options) (*Dependencies, error) {
	if cfg == nil {
		return nil, errors.New("app: config is required")
	}
	d := &Dependencies{Config: cfg, Logger: logger, Mailer: opts.Mailer}
	if d.Mailer == nil {
		d.Mailer = common.LogEmailSender{
			Logger: logger.With().Str("component", "mailer").Logger(),
			From:   cfg.NotifyEmailFrom,
		}
	}

	cat, err := catalog.Default(cfg.Prices)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}
	d.Catalog = cat
	if d.Calculator, err = pricing.NewCalculator(cfg.Pricing); err != nil {
		return nil, fmt.Errorf("build calculator: %w", err)
	}

	d.Redis = opts.Redis
	if d.Redis == nil && cfg.UsesRedis() {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		d.Redis = redis.NewClient(redisOpts)
		d.ownsRedis = true
		obs.InstrumentRedis(d.Redis, opts.RedisMetrics, logger)
		if err := d.Redis.Ping(ctx).Err(); err != nil {
			d.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
	}

	d.TaskHandlers = tasks.Handlers{
		Mailer: d.Mailer,
		From:   cfg.NotifyEmailFrom,
		Inbox:  cfg.ContactInbox,
		Logger: logger.With().Str("component", "tasks").Logger(),
	}
	if err := d.wireState(); err != nil {
		d.Close()
		return nil, err
	}
	if opts.Notifier != nil {
		d.Notifier = opts.Notifier
	}

	d.Enrollment, err = enrollment.NewService(enrollment.ServiceConfig{
		Catalog:    d.Catalog,
		Calculator: d.Calculator,
		Store:      d.Sessions,
		Locks:      d.Locks,
		LockTTL:    cfg.LockTTL,
		SessionTTL: cfg.SessionTTL,
		Logger:     logger.With().Str("component", "enrollment").Logger(),
	})
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("build enrollment service: %w", err)
	}
	d.Auth, err = auth.NewService(auth.Config{
		Users:          d.Users,
		Secret:         cfg.JWTSecret,
		AccessTokenTTL: cfg.AccessTokenTTL,
		Issuer:         cfg.JWTIssuer,
		HashParams:     opts.HashParams,
		Notifier:       d.Notifier,
		Logger:         logger.With().Str("component", "auth").Logger(),
	})
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("build auth service: %w", err)
	}
	d.Contact = &contact.Service{
		Notifier: d.Notifier,
		Logger:   logger.With().Str("component", "contact").Logger(),
	}
	return d, nil
}

func (d *Dependencies) wireState() error {
	cfg := d.Config
	if d.Redis == nil {
		d.Sessions = enrollment.NewMemoryStore()
		d.Users = user.NewMemoryStore()
		d.Locks = &lock.Local{}
		d.Limiter = &ratelimit.MemoryLimiter{Prefix: "ratelimit:"}
		d.Notifier = tasks.Inline{Handlers: d.TaskHandlers}
		return nil
	}

	d.Sessions = enrollment.NewRedisStore(d.Redis, cfg.SessionTTL)
	d.Users = user.NewRedisStore(d.Redis)
	d.Locks = lock.Locker{
		R:            d.Redis,
		Prefix:       "lock:",
		RetryBackoff: cfg.LockRetryBackoff,
		OnExpired: func(key string) {
			d.Logger.Warn().Str("lock", key).Dur("ttl", cfg.LockTTL).Msg("lock expired before release")
		},
	}
	switch cfg.RateLimitBackend {
	case "fixed":
		store, err := ratelimit.NewRedisStore(d.Redis, "ratelimit")
		if err != nil {
			return fmt.Errorf("build rate limit store: %w", err)
		}
		d.Limiter = ratelimit.StoreLimiter{Store: store}
	default:
		d.Limiter = ratelimit.Limiter{Client: d.Redis, Prefix: "ratelimit:"}
	}
	d.TaskClient = asynq.NewClient(RedisConnOpt(d.Redis))
	d.Notifier = tasks.Queue{Client: d.TaskClient, Queue: tasks.QueueMail, MaxRetry: 10}
	return nil
}

// Idempotency returns the Idempotency-Key middleware, or nil without Redis.
func (d *Dependencies) Idempotency() func(http.Handler) http.Handler {
	if d.Redis == nil {
		return nil
	}
	return common.Idem{R: d.Redis, TTL: d.Config.IdempotencyTTL}.Middleware
}

// Close releases connections opened by Build.
func (d *Dependencies) Close() {
	if d.TaskClient != nil {
		if err := d.TaskClient.Close(); err != nil {
			d.Logger.Error().Err(err).Msg("close task client")
		}
		d.TaskClient = nil
	}
	if d.ownsRedis && d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Error().Err(err).Msg("close redis")
		}
		d.Redis = nil
	}
}

// RedisConnOpt derives asynq connection options from client.
func RedisConnOpt(client *redis.Client) asynq.RedisClientOpt {
	o := client.Options()
	return asynq.RedisClientOpt{
		Network:   o.Network,
		Addr:      o.Addr,
		Username:  o.Username,
		Password:  o.Password,
		DB:        o.DB,
		PoolSize:  o.PoolSize,
		TLSConfig: o.TLSConfig,
	}
}
