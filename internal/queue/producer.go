package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/pacer/internal/domain"
)

// Producer publishes observation jobs and adjustment events.
type Producer struct {
	conn *Connection
}

// NewProducer creates a new queue producer
func NewProducer(conn *Connection) *Producer {
	return &Producer{conn: conn}
}

// PublishObservation publishes a performance observation for
// asynchronous processing.
func (p *Producer) PublishObservation(ctx context.Context, job *ObservationJob) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}

	if err := p.conn.PublishJSON(ctx, ObservationQueueName, job); err != nil {
		return fmt.Errorf("failed to publish observation: %w", err)
	}

	slog.Info("published observation",
		"job_id", job.ID,
		"user_id", job.UserID,
		"module_id", job.ModuleID,
	)

	return nil
}

// PublishAdjustment publishes an adjustment event to the events queue.
func (p *Producer) PublishAdjustment(ctx context.Context, event *AdjustmentEvent) error {
	if event.CompletedAt.IsZero() {
		event.CompletedAt = time.Now()
	}

	if err := p.conn.PublishJSON(ctx, AdjustmentQueueName, event); err != nil {
		return fmt.Errorf("failed to publish adjustment event: %w", err)
	}

	slog.Info("published adjustment event",
		"job_id", event.JobID,
		"user_id", event.UserID,
		"module_id", event.ModuleID,
		"difficulty", event.New,
	)

	return nil
}

// NewObservationJob creates an observation job for a user/module pair.
func NewObservationJob(userID, moduleID string, obs domain.PerformanceObservation) *ObservationJob {
	return &ObservationJob{
		ID:          uuid.New(),
		UserID:      userID,
		ModuleID:    moduleID,
		Observation: obs,
		CreatedAt:   time.Now(),
	}
}
