package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/noah-isme/skills-enroll/internal/app"
	"github.com/noah-isme/skills-enroll/internal/config"
	"github.com/noah-isme/skills-enroll/internal/obs"
	"github.com/noah-isme/skills-enroll/internal/tasks"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := obs.NewLogger(cfg.Obs.LogFormat, cfg.Obs.LogLevel).With().Str("component", "worker").Logger()
	obs.MustRegisterDomainMetrics(cfg.Obs.MetricsNamespace, nil)

	if !cfg.UsesRedis() {
		logger.Fatal().Msg("REDIS_URL is required by the worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	startCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	deps, err := app.Build(startCtx, cfg, logger, app.Options{})
	cancel()
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise dependencies")
	}
	defer deps.Close()

	concurrency := cfg.WorkerConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	srv := asynq.NewServer(app.RedisConnOpt(deps.Redis), asynq.Config{
		Concurrency:     concurrency,
		Queues:          map[string]int{tasks.QueueMail: 1},
		Logger:          asynqLogger{logger: logger},
		ShutdownTimeout: cfg.ShutdownTimeout,
		ErrorHandler: asynq.ErrorHandlerFunc(func(_ context.Context, task *asynq.Task, err error) {
			logger.Error().Err(err).Str("task_type", task.Type()).Msg("task failed")
		}),
	})

	mux := asynq.NewServeMux()
	deps.TaskHandlers.Register(mux)

	logger.Info().Int("concurrency", concurrency).Msg("worker starting")
	if err := srv.Start(mux); err != nil {
		logger.Fatal().Err(err).Msg("start worker")
	}
	<-ctx.Done()
	srv.Shutdown()
	logger.Info().Msg("worker shutdown complete")
}

// asynqLogger routes asynq's internal logging through zerolog.
type asynqLogger struct {
	logger zerolog.Logger
}

func (l asynqLogger) Debug(args ...interface{}) { l.logger.Debug().Msg(sprint(args)) }
func (l asynqLogger) Info(args ...interface{})  { l.logger.Info().Msg(sprint(args)) }
func (l asynqLogger) Warn(args ...interface{})  { l.logger.Warn().Msg(sprint(args)) }
func (l asynqLogger) Error(args ...interface{}) { l.logger.Error().Msg(sprint(args)) }
func (l asynqLogger) Fatal(args ...interface{}) { l.logger.Fatal().Msg(sprint(args)) }

func sprint(args []interface{}) string {
	return strings.TrimSpace(fmt.Sprint(args...))
}
