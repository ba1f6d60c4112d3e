package service

import "context"

// GradingJobSchema versions the grading queue message contract. The grading
// worker dispatches on this value and deduplicates on SubmissionID.
const GradingJobSchema = "oj.submission.v1"

// CodeRef locates the submitted code for the grading worker. Small
// submissions travel inline; larger ones may reference external storage.
type CodeRef struct {
	Kind string `json:"kind"` // "inline" or "r2"
	Code string `json:"code,omitempty"`
	Key  string `json:"key,omitempty"`
}

// GradingJob is the queue message produced after a submission is durably
// persisted.
type GradingJob struct {
	Schema        string  `json:"schema"`
	SubmissionID  string  `json:"submissionId"`
	UserID        string  `json:"userId"`
	ProblemID     string  `json:"problemId"`
	Language      string  `json:"language"`
	CodeRef       CodeRef `json:"codeRef"`
	TimeLimitMs   int64   `json:"timeLimitMs"`
	MemoryLimitKb int64   `json:"memoryLimitKb"`
	CreatedAt     int64   `json:"createdAt"`
}

// JobPublisher hands grading jobs to the asynchronous queue consumed by the
// grading worker. Publishing happens only after the submission row exists.
type JobPublisher interface {
	PublishGradingJob(ctx context.Context, job *GradingJob) error

	// Close releases any resources held by the publisher.
	Close() error
}
