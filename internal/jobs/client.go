package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/hibiken/asynq"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/sentinel-ews/sentinel/internal/config"
)

// Enqueuer hands delivery work to the external queue. Enqueueing is
// fire-and-forget from the caller's perspective.
type Enqueuer interface {
	EnqueueAlertEmail(ctx context.Context, userID, alertID snowflake.ID) error
	EnqueueDigestEmail(ctx context.Context, userID snowflake.ID, alertIDs []snowflake.ID, frequency string) error
	EnqueueVerificationEmail(ctx context.Context, userID snowflake.ID) error
}

type Client struct {
	client *asynq.Client
	log    *zap.Logger
}

func RedisOpt(cfg config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
}

func NewClient(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) Enqueuer {
	client := asynq.NewClient(RedisOpt(cfg))
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return &Client{client: client, log: log.Named("jobs.client")}
}

func (c *Client) EnqueueAlertEmail(ctx context.Context, userID, alertID snowflake.ID) error {
	return c.enqueue(ctx, TypeAlertEmail,
		AlertEmailPayload{UserID: userID, AlertID: alertID},
		asynq.MaxRetry(maxEmailRetries))
}

func (c *Client) EnqueueDigestEmail(ctx context.Context, userID snowflake.ID, alertIDs []snowflake.ID, frequency string) error {
	return c.enqueue(ctx, TypeDigestEmail,
		DigestEmailPayload{UserID: userID, AlertIDs: alertIDs, Frequency: frequency},
		asynq.MaxRetry(maxEmailRetries))
}

// EnqueueVerificationEmail submits with no retry budget; a failed send
// surfaces once and is not attempted again.
func (c *Client) EnqueueVerificationEmail(ctx context.Context, userID snowflake.ID) error {
	return c.enqueue(ctx, TypeVerificationEmail,
		VerificationEmailPayload{UserID: userID},
		asynq.MaxRetry(0))
}

func (c *Client) enqueue(ctx context.Context, taskType string, payload any, opts ...asynq.Option) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", taskType, err)
	}

	info, err := c.client.EnqueueContext(ctx, asynq.NewTask(taskType, raw), opts...)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}

	c.log.Debug("task enqueued",
		zap.String("type", taskType),
		zap.String("task_id", info.ID),
		zap.String("queue", info.Queue))
	return nil
}
