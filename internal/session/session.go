package session

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the attempt state
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusAbandoned Status = "abandoned"
)

// Attempt represents one exercise attempt within a learning module.
// It accumulates the raw signals (runs, hints, errors, timing) that
// are later reduced to a performance observation.
type Attempt struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	ModuleID string `json:"module_id"`
	Status   Status `json:"status"`

	// Raw signals
	RunCount   int      `json:"run_count"`
	HintCount  int      `json:"hint_count"`
	ErrorCount int      `json:"error_count"`
	Errors     []string `json:"errors,omitempty"`

	// Outcome
	Score   float64 `json:"score"`   // graded 0..1, set on completion
	Success bool    `json:"success"`

	// Timestamps
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewAttempt creates an active attempt.
func NewAttempt(userID, moduleID string) *Attempt {
	now := time.Now()
	return &Attempt{
		ID:        uuid.New().String(),
		UserID:    userID,
		ModuleID:  moduleID,
		Status:    StatusActive,
		StartedAt: now,
		UpdatedAt: now,
	}
}

// Elapsed returns how long the attempt has been (or was) running.
func (a *Attempt) Elapsed() time.Duration {
	if a.CompletedAt != nil {
		return a.CompletedAt.Sub(a.StartedAt)
	}
	return time.Since(a.StartedAt)
}

// RecordRun counts one code run and any errors it produced.
func (a *Attempt) RecordRun(errs []string) {
	a.RunCount++
	a.ErrorCount += len(errs)
	a.Errors = append(a.Errors, errs...)
	a.UpdatedAt = time.Now()
}

// RecordHint counts one delivered hint.
func (a *Attempt) RecordHint() {
	a.HintCount++
	a.UpdatedAt = time.Now()
}

// Complete marks the attempt finished with a graded score.
func (a *Attempt) Complete(score float64, success bool) {
	now := time.Now()
	a.Status = StatusCompleted
	a.Score = score
	a.Success = success
	a.CompletedAt = &now
	a.UpdatedAt = now
}

// Abandon marks the attempt as given up.
func (a *Attempt) Abandon() {
	now := time.Now()
	a.Status = StatusAbandoned
	a.CompletedAt = &now
	a.UpdatedAt = now
}
