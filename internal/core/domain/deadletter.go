package domain

import "time"

// DeadLetterItem is the archived copy of a retry job that exhausted all
// attempts. It is created exactly once per exhausted job and deleted only on
// manual requeue.
type DeadLetterItem struct {
	ID                int64     `json:"id"`
	OriginalJobID     int64     `json:"original_job_id"`
	JobType           string    `json:"job_type"`
	Endpoint          string    `json:"endpoint"`
	Method            string    `json:"method"`
	Headers           string    `json:"headers"`
	Payload           string    `json:"payload"`
	MaxRetries        int       `json:"max_retries"`
	FinalError        string    `json:"final_error"`
	CorrelationID     *string   `json:"correlation_id,omitempty"`
	OriginalCreatedAt time.Time `json:"original_created_at"`
	CreatedAt         time.Time `json:"created_at"`
}
