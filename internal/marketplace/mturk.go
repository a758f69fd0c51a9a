package marketplace

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/mturk"
	"github.com/aws/aws-sdk-go-v2/service/mturk/types"
	"github.com/sony/gobreaker"
)

// DefaultRegion is the only region the marketplace API is served from
const DefaultRegion = "us-east-1"

const listPageSize = 10

// API is the subset of the MTurk client used here
type API interface {
	GetAccountBalance(ctx context.Context, in *mturk.GetAccountBalanceInput, optFns ...func(*mturk.Options)) (*mturk.GetAccountBalanceOutput, error)
	CreateHITType(ctx context.Context, in *mturk.CreateHITTypeInput, optFns ...func(*mturk.Options)) (*mturk.CreateHITTypeOutput, error)
	CreateHITWithHITType(ctx context.Context, in *mturk.CreateHITWithHITTypeInput, optFns ...func(*mturk.Options)) (*mturk.CreateHITWithHITTypeOutput, error)
	GetHIT(ctx context.Context, in *mturk.GetHITInput, optFns ...func(*mturk.Options)) (*mturk.GetHITOutput, error)
	ListAssignmentsForHIT(ctx context.Context, in *mturk.ListAssignmentsForHITInput, optFns ...func(*mturk.Options)) (*mturk.ListAssignmentsForHITOutput, error)
	ApproveAssignment(ctx context.Context, in *mturk.ApproveAssignmentInput, optFns ...func(*mturk.Options)) (*mturk.ApproveAssignmentOutput, error)
	RejectAssignment(ctx context.Context, in *mturk.RejectAssignmentInput, optFns ...func(*mturk.Options)) (*mturk.RejectAssignmentOutput, error)
}

// Config selects the marketplace endpoint
type Config struct {
	// Endpoint overrides the service URL, e.g. the requester sandbox
	Endpoint string
	Region   string
	// Profile names a shared AWS credentials profile
	Profile string
}

// MTurk implements Marketplace on Amazon Mechanical Turk
type MTurk struct {
	api     API
	breaker *gobreaker.CircuitBreaker
}

// NewMTurk creates a client using the default AWS credential chain
func NewMTurk(ctx context.Context, cfg Config) (*MTurk, error) {
	region := cfg.Region
	if region == "" {
		region = DefaultRegion
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := mturk.NewFromConfig(awsCfg, func(o *mturk.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return NewMTurkWithAPI(client), nil
}

// NewMTurkWithAPI wraps an existing API client
func NewMTurkWithAPI(api API) *MTurk {
	return &MTurk{
		api: api,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "mturk",
			MaxRequests: 1,
			Timeout:     time.Minute,
			// One failure ends the session's remote work
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 1
			},
		}),
	}
}

// call runs fn through the circuit breaker
func call[T any](m *MTurk, op string, fn func() (T, error)) (T, error) {
	out, err := m.breaker.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, fmt.Errorf("mturk %s: %w", op, err)
	}
	return out.(T), nil
}

// GetBalance returns the available account balance
func (m *MTurk) GetBalance(ctx context.Context) (string, error) {
	out, err := call(m, "GetAccountBalance", func() (*mturk.GetAccountBalanceOutput, error) {
		return m.api.GetAccountBalance(ctx, &mturk.GetAccountBalanceInput{})
	})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.AvailableBalance), nil
}

// CreateBatch creates a HIT type
func (m *MTurk) CreateBatch(ctx context.Context, spec BatchSpec) (string, error) {
	input := &mturk.CreateHITTypeInput{
		AssignmentDurationInSeconds: aws.Int64(int64(spec.AssignmentDuration / time.Second)),
		AutoApprovalDelayInSeconds:  aws.Int64(int64(spec.AutoApprovalDelay / time.Second)),
		Reward:                      aws.String(spec.Reward),
		Title:                       aws.String(spec.Title),
		Description:                 aws.String(spec.Description),
		QualificationRequirements:   qualifications(spec.MinApprovalRate),
	}
	if spec.Keywords != "" {
		input.Keywords = aws.String(spec.Keywords)
	}

	out, err := call(m, "CreateHITType", func() (*mturk.CreateHITTypeOutput, error) {
		return m.api.CreateHITType(ctx, input)
	})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.HITTypeId), nil
}

// CreateTask creates a HIT of the given HIT type
func (m *MTurk) CreateTask(ctx context.Context, batchID string, spec TaskSpec) (Task, error) {
	out, err := call(m, "CreateHITWithHITType", func() (*mturk.CreateHITWithHITTypeOutput, error) {
		return m.api.CreateHITWithHITType(ctx, &mturk.CreateHITWithHITTypeInput{
			HITTypeId:         aws.String(batchID),
			LifetimeInSeconds: aws.Int64(int64(spec.Lifetime / time.Second)),
			MaxAssignments:    aws.Int32(int32(spec.MaxAssignments)),
			Question:          aws.String(spec.Question),
		})
	})
	if err != nil {
		return Task{}, err
	}
	if out.HIT == nil {
		return Task{}, fmt.Errorf("mturk CreateHITWithHITType: response has no HIT")
	}
	return toTask(out.HIT), nil
}

// GetTask returns a HIT
func (m *MTurk) GetTask(ctx context.Context, taskID string) (Task, error) {
	out, err := call(m, "GetHIT", func() (*mturk.GetHITOutput, error) {
		return m.api.GetHIT(ctx, &mturk.GetHITInput{HITId: aws.String(taskID)})
	})
	if err != nil {
		return Task{}, err
	}
	if out.HIT == nil {
		return Task{}, fmt.Errorf("mturk GetHIT: HIT %s not found", taskID)
	}
	return toTask(out.HIT), nil
}

// ListResponses returns submitted and approved assignments of a HIT
func (m *MTurk) ListResponses(ctx context.Context, taskID string) ([]Response, error) {
	var responses []Response
	var token *string

	for {
		input := &mturk.ListAssignmentsForHITInput{
			HITId: aws.String(taskID),
			AssignmentStatuses: []types.AssignmentStatus{
				types.AssignmentStatusSubmitted,
				types.AssignmentStatusApproved,
			},
			MaxResults: aws.Int32(listPageSize),
			NextToken:  token,
		}

		out, err := call(m, "ListAssignmentsForHIT", func() (*mturk.ListAssignmentsForHITOutput, error) {
			return m.api.ListAssignmentsForHIT(ctx, input)
		})
		if err != nil {
			return nil, err
		}

		for _, a := range out.Assignments {
			responses = append(responses, toResponse(a))
		}

		if aws.ToString(out.NextToken) == "" || len(out.Assignments) == 0 {
			break
		}
		token = out.NextToken
	}

	return responses, nil
}

// Finalize approves an assignment
func (m *MTurk) Finalize(ctx context.Context, responseID, feedback string) error {
	_, err := call(m, "ApproveAssignment", func() (*mturk.ApproveAssignmentOutput, error) {
		return m.api.ApproveAssignment(ctx, &mturk.ApproveAssignmentInput{
			AssignmentId:      aws.String(responseID),
			RequesterFeedback: aws.String(feedback),
			OverrideRejection: aws.Bool(false),
		})
	})
	return err
}

// Reject rejects an assignment
func (m *MTurk) Reject(ctx context.Context, responseID, feedback string) error {
	_, err := call(m, "RejectAssignment", func() (*mturk.RejectAssignmentOutput, error) {
		return m.api.RejectAssignment(ctx, &mturk.RejectAssignmentInput{
			AssignmentId:      aws.String(responseID),
			RequesterFeedback: aws.String(feedback),
		})
	})
	return err
}

func qualifications(minApprovalRate int) []types.QualificationRequirement {
	if minApprovalRate <= 0 {
		return nil
	}
	return []types.QualificationRequirement{{
		QualificationTypeId: aws.String(PercentApprovedQualification),
		Comparator:          types.ComparatorGreaterThanOrEqualTo,
		IntegerValues:       []int32{int32(minApprovalRate)},
		RequiredToPreview:   aws.Bool(true),
	}}
}

func toTask(h *types.HIT) Task {
	return Task{
		ID:       aws.ToString(h.HITId),
		BatchID:  aws.ToString(h.HITTypeId),
		Status:   string(h.HITStatus),
		Question: aws.ToString(h.Question),
	}
}

func toResponse(a types.Assignment) Response {
	return Response{
		ID:          aws.ToString(a.AssignmentId),
		TaskID:      aws.ToString(a.HITId),
		WorkerID:    aws.ToString(a.WorkerId),
		Status:      ResponseStatus(a.AssignmentStatus),
		Answer:      aws.ToString(a.Answer),
		SubmittedAt: aws.ToTime(a.SubmitTime),
	}
}
