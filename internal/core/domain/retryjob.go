package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// JobStatus represents the lifecycle state of a retry job.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusDeadLetter JobStatus = "dead_letter"
)

// RetryJob is one queued outbound HTTP call awaiting (re)delivery.
// Headers and Payload are stored as serialized JSON and parsed at the point
// of use; no half-parsed values travel through the system.
type RetryJob struct {
	ID            int64     `json:"id"`
	JobType       string    `json:"job_type"`
	Endpoint      string    `json:"endpoint"`
	Method        string    `json:"method"`
	Headers       string    `json:"headers"` // JSON object of string pairs
	Payload       string    `json:"payload"` // arbitrary JSON body
	MaxRetries    int       `json:"max_retries"`
	CurrentRetry  int       `json:"current_retry"`
	NextRetryAt   time.Time `json:"next_retry_at"`
	LastError     *string   `json:"last_error,omitempty"`
	Status        JobStatus `json:"status"`
	CorrelationID *string   `json:"correlation_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// IsTerminal returns true if the job can never run again.
func (j *RetryJob) IsTerminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusDeadLetter
}

// DecodeHeaders parses the serialized header map. An empty blob yields an
// empty map, not an error.
func (j *RetryJob) DecodeHeaders() (map[string]string, error) {
	if j.Headers == "" {
		return map[string]string{}, nil
	}
	var h map[string]string
	if err := json.Unmarshal([]byte(j.Headers), &h); err != nil {
		return nil, fmt.Errorf("decode job headers: %w", err)
	}
	return h, nil
}
