package jobs

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/sentinel-ews/sentinel/internal/config"
)

// NewServer builds the queue worker with the email backoff schedule.
func NewServer(cfg config.Config, log *zap.Logger) *asynq.Server {
	return asynq.NewServer(RedisOpt(cfg), asynq.Config{
		Concurrency: cfg.WorkerConcurrency,
		RetryDelayFunc: func(retried int, _ error, _ *asynq.Task) time.Duration {
			return RetryDelay(retried)
		},
		Logger: &zapAdapter{log: log.Named("jobs.server").Sugar()},
	})
}

func NewMux(handlers *Handlers) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	handlers.Register(mux)
	return mux
}

// RunServer ties the worker to the fx lifecycle.
func RunServer(lc fx.Lifecycle, server *asynq.Server, mux *asynq.ServeMux, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Info("starting task worker")
			return server.Start(mux)
		},
		OnStop: func(context.Context) error {
			server.Shutdown()
			return nil
		},
	})
}

// zapAdapter satisfies asynq.Logger.
type zapAdapter struct {
	log *zap.SugaredLogger
}

func (a *zapAdapter) Debug(args ...any) { a.log.Debug(args...) }
func (a *zapAdapter) Info(args ...any)  { a.log.Info(args...) }
func (a *zapAdapter) Warn(args ...any)  { a.log.Warn(args...) }
func (a *zapAdapter) Error(args ...any) { a.log.Error(args...) }
func (a *zapAdapter) Fatal(args ...any) { a.log.Fatal(args...) }
