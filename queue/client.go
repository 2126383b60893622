// Package queue is the notification outbox. Tasks go to Redis through asynq
// when the queue is enabled and run in-process otherwise.
package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hibiken/asynq"
	"github.com/kendall-kelly/dressmaker-orders-api/config"
	"github.com/kendall-kelly/dressmaker-orders-api/logger"
)

// DefaultQueue is the only asynq queue the service uses
const DefaultQueue = "default"

const inlineTimeout = 30 * time.Second

// Client enqueues outbox tasks
type Client struct {
	client   *asynq.Client
	enabled  bool
	maxRetry int

	// mu guards inline and closed, and orders wg.Add before Close's wg.Wait
	mu     sync.Mutex
	inline asynq.Handler
	closed bool
	wg     sync.WaitGroup
}

// NewClient connects to Redis when the queue is enabled. A disabled client
// needs SetInlineHandler before tasks have anywhere to go.
func NewClient(cfg *config.Config) *Client {
	if cfg == nil || !cfg.QueueEnabled {
		return &Client{maxRetry: 0}
	}
	return &Client{
		client:   asynq.NewClient(RedisOpt(cfg)),
		enabled:  true,
		maxRetry: cfg.QueueMaxRetry,
	}
}

// Enabled reports whether tasks are sent to Redis
func (c *Client) Enabled() bool {
	return c != nil && c.enabled && c.client != nil
}

// SetInlineHandler sets the handler that runs tasks when the queue is disabled
func (c *Client) SetInlineHandler(handler asynq.Handler) {
	c.mu.Lock()
	c.inline = handler
	c.mu.Unlock()
}

func (c *Client) EnqueueCustomer(ctx context.Context, payload CustomerPayload) error {
	task, err := NewCustomerTask(payload)
	if err != nil {
		return err
	}
	return c.enqueue(ctx, task)
}

func (c *Client) EnqueueTailor(ctx context.Context, payload TailorPayload) error {
	task, err := NewTailorTask(payload)
	if err != nil {
		return err
	}
	return c.enqueue(ctx, task)
}

func (c *Client) EnqueueAdmin(ctx context.Context, payload AdminPayload) error {
	task, err := NewAdminTask(payload)
	if err != nil {
		return err
	}
	return c.enqueue(ctx, task)
}

func (c *Client) EnqueueSheet(ctx context.Context, payload SheetPayload) error {
	task, err := NewSheetTask(payload)
	if err != nil {
		return err
	}
	return c.enqueue(ctx, task)
}

func (c *Client) enqueue(ctx context.Context, task *asynq.Task) error {
	if c.Enabled() {
		opts := []asynq.Option{asynq.Queue(DefaultQueue), asynq.MaxRetry(c.maxRetry)}
		if _, err := c.client.EnqueueContext(ctx, task, opts...); err != nil {
			return fmt.Errorf("enqueue %s: %w", task.Type(), err)
		}
		return nil
	}

	c.mu.Lock()
	handler := c.inline
	if c.closed {
		c.mu.Unlock()
		logger.Debugw("queue_inline_skip_closed", "task", task.Type())
		return nil
	}
	if handler == nil {
		c.mu.Unlock()
		logger.Debugw("queue_inline_skip_no_handler", "task", task.Type())
		return nil
	}
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		runCtx, cancel := context.WithTimeout(context.Background(), inlineTimeout)
		defer cancel()
		if err := handler.ProcessTask(runCtx, task); err != nil {
			logger.Warnw("queue_inline_task_failed", "task", task.Type(), "error", err)
		}
	}()
	return nil
}

// Wait blocks until in-process tasks have finished
func (c *Client) Wait() {
	c.wg.Wait()
}

// Close waits for in-process tasks and closes the Redis connection. Tasks
// enqueued inline after Close are dropped.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.wg.Wait()
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// RedisOpt builds the asynq redis connection from the config
func RedisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
}

// ServerConfig builds the asynq server settings from the config
func ServerConfig(cfg *config.Config) asynq.Config {
	concurrency := cfg.QueueConcurrency
	if concurrency <= 0 {
		concurrency = 5
	}
	return asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{DefaultQueue: 1},
	}
}
