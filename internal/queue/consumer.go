package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/felixgeelhaar/pacer/internal/adaptive"
)

// Consumer feeds queued observations to the difficulty controller.
//
// Deliveries are processed one at a time on a single goroutine.
// Observations for the same user/module pair must be applied in
// publish order, and a single ordered consumer is the simplest way to
// guarantee that.
type Consumer struct {
	conn       *Connection
	controller adaptive.Controller
	producer   *Producer
	timeout    time.Duration
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// ConsumerConfig holds consumer configuration
type ConsumerConfig struct {
	Timeout time.Duration // per-job processing timeout
}

// DefaultConsumerConfig returns sensible defaults
func DefaultConsumerConfig() ConsumerConfig {
	return ConsumerConfig{
		Timeout: 10 * time.Second,
	}
}

// NewConsumer creates a new observation consumer
func NewConsumer(conn *Connection, controller adaptive.Controller, cfg ConsumerConfig) *Consumer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &Consumer{
		conn:       conn,
		controller: controller,
		producer:   NewProducer(conn),
		timeout:    cfg.Timeout,
	}
}

// Start begins consuming observations
func (c *Consumer) Start(ctx context.Context) error {
	ctx, c.cancelFunc = context.WithCancel(ctx)

	ch := c.conn.Channel()

	// Prefetch one message; ordering matters more than throughput here.
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := ch.Consume(
		ObservationQueueName,
		"",    // consumer tag (auto-generated)
		false, // auto-ack (manual ack for reliability)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	slog.Info("starting observation consumer", "timeout", c.timeout)

	c.wg.Add(1)
	go c.consume(ctx, msgs)

	return nil
}

func (c *Consumer) consume(ctx context.Context, msgs <-chan amqp.Delivery) {
	defer c.wg.Done()

	for {
		select {
		case <-ctx.Done():
			slog.Info("observation consumer stopping")
			return

		case msg, ok := <-msgs:
			if !ok {
				slog.Info("observation channel closed")
				return
			}

			c.processMessage(ctx, msg)
		}
	}
}

// processMessage handles a single observation delivery
func (c *Consumer) processMessage(ctx context.Context, msg amqp.Delivery) {
	var job ObservationJob
	if err := json.Unmarshal(msg.Body, &job); err != nil {
		slog.Error("failed to unmarshal observation job", "error", err)
		// Reject without requeue for malformed messages
		_ = msg.Reject(false)
		return
	}

	slog.Debug("processing observation",
		"job_id", job.ID,
		"user_id", job.UserID,
		"module_id", job.ModuleID,
	)

	jobCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	adj, err := c.controller.RecordObservation(jobCtx, job.UserID, job.ModuleID, job.Observation)

	event := &AdjustmentEvent{
		JobID:       job.ID,
		UserID:      job.UserID,
		ModuleID:    job.ModuleID,
		CompletedAt: time.Now(),
	}
	if err != nil {
		slog.Error("observation processing failed",
			"job_id", job.ID,
			"user_id", job.UserID,
			"module_id", job.ModuleID,
			"error", err,
		)
		event.Error = err.Error()
	} else {
		event.Previous = adj.Previous
		event.New = adj.New
		event.Reason = string(adj.Reason)
		event.Zone = string(adj.Zone)
	}

	if err := c.producer.PublishAdjustment(ctx, event); err != nil {
		slog.Error("failed to publish adjustment event",
			"job_id", job.ID,
			"error", err,
		)
	}

	if err := msg.Ack(false); err != nil {
		slog.Error("failed to ack observation",
			"job_id", job.ID,
			"error", err,
		)
	}
}

// Stop gracefully stops the consumer
func (c *Consumer) Stop() {
	if c.cancelFunc != nil {
		c.cancelFunc()
	}
	c.wg.Wait()
	slog.Info("observation consumer stopped")
}
