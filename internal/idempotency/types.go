package idempotency

import "time"

// Status values for job entries
const (
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"
	StatusFailed     = "FAILED"
)

// JobRecord is the shape persisted in the jobs DynamoDB table, one per queued
// certification job.
type JobRecord struct {
	JobKey       string    `dynamodbav:"job_key"` // PK
	Status       string    `dynamodbav:"status"`
	DocumentType string    `dynamodbav:"document_type"`
	Reference    string    `dynamodbav:"reference,omitempty"` // FNE reference once certified
	CreatedAt    time.Time `dynamodbav:"created_at"`
	UpdatedAt    time.Time `dynamodbav:"updated_at"`
	ExpiresAt    int64     `dynamodbav:"expires_at"` // TTL epoch seconds
	Note         string    `dynamodbav:"note,omitempty"`
}
