package marketplace

import (
	"context"
	"time"
)

// ResponseStatus is the review state of a worker response
type ResponseStatus string

const (
	StatusSubmitted ResponseStatus = "Submitted"
	StatusApproved  ResponseStatus = "Approved"
	StatusRejected  ResponseStatus = "Rejected"
)

// PercentApprovedQualification is the system qualification holding the
// share of a worker's assignments that were approved
const PercentApprovedQualification = "000000000000000000L0"

// Marketplace is the remote task service used by the workflows
type Marketplace interface {
	// GetBalance returns the available account balance
	GetBalance(ctx context.Context) (string, error)

	// CreateBatch registers batch metadata and returns the batch id
	CreateBatch(ctx context.Context, spec BatchSpec) (string, error)

	// CreateTask creates one task inside a batch
	CreateTask(ctx context.Context, batchID string, spec TaskSpec) (Task, error)

	// GetTask returns the current state of a task
	GetTask(ctx context.Context, taskID string) (Task, error)

	// ListResponses returns the submitted and approved responses of a task
	ListResponses(ctx context.Context, taskID string) ([]Response, error)

	// Finalize accepts a submitted response and releases payment
	Finalize(ctx context.Context, responseID, feedback string) error

	// Reject refuses a submitted response
	Reject(ctx context.Context, responseID, feedback string) error
}

// BatchSpec is the metadata shared by all tasks of a batch
type BatchSpec struct {
	Title              string
	Description        string
	Keywords           string
	Reward             string
	AssignmentDuration time.Duration
	AutoApprovalDelay  time.Duration
	// MinApprovalRate is the eligibility threshold in percent, 0 disables it
	MinApprovalRate int
}

// TaskSpec describes a single task
type TaskSpec struct {
	Question       string
	MaxAssignments int
	Lifetime       time.Duration
}

// Task is a remote unit of work
type Task struct {
	ID       string
	BatchID  string
	Status   string
	Question string
}

// Response is one worker's attempt at a task
type Response struct {
	ID          string
	TaskID      string
	WorkerID    string
	Status      ResponseStatus
	Answer      string
	SubmittedAt time.Time
}
