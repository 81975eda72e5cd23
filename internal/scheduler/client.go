package scheduler

import (
	"context"
	"crypto/tls"
	"fmt"

	"medportal_backend/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

type Client struct {
	client *asynq.Client
	queue  string
}

// EnrichmentScheduler is the enqueue surface the webhook pipeline needs.
// Satisfied by Client; a nil Client is a working no-op so the webhook path
// keeps functioning when no queue is configured.
type EnrichmentScheduler interface {
	EnqueueContactEnrichment(ctx context.Context, payload ContactEnrichmentPayload) error
	EnqueueInsuranceBackfill(ctx context.Context, payload InsuranceBackfillPayload) error
	EnqueueNoteParserTrigger(ctx context.Context, payload NoteParserTriggerPayload) error
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queue,
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (c *Client) EnqueueContactEnrichment(ctx context.Context, payload ContactEnrichmentPayload) error {
	task, err := NewContactEnrichmentTask(payload)
	if err != nil {
		return err
	}
	return c.enqueue(ctx, task)
}

func (c *Client) EnqueueInsuranceBackfill(ctx context.Context, payload InsuranceBackfillPayload) error {
	task, err := NewInsuranceBackfillTask(payload)
	if err != nil {
		return err
	}
	return c.enqueue(ctx, task)
}

func (c *Client) EnqueueNoteParserTrigger(ctx context.Context, payload NoteParserTriggerPayload) error {
	task, err := NewNoteParserTriggerTask(payload)
	if err != nil {
		return err
	}
	return c.enqueue(ctx, task)
}

// enqueue submits a best-effort task. Enrichment work is never retried by
// the queue; the handlers own their error boundary.
func (c *Client) enqueue(ctx context.Context, task *asynq.Task) error {
	if c == nil || c.client == nil {
		return nil
	}
	_, err := c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue), asynq.MaxRetry(0))
	return err
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
