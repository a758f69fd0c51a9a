package testutil

import (
	"context"
	"fmt"
	"sync"

	"codeberg.org/snonux/turktranslate/internal/marketplace"
	"codeberg.org/snonux/turktranslate/internal/question"
	"codeberg.org/snonux/turktranslate/internal/task"
)

// MockMarketplace is an in-memory marketplace recording every call
type MockMarketplace struct {
	mu sync.Mutex

	Balance   string
	Tasks     map[string]marketplace.Task
	Responses map[string][]marketplace.Response
	// Errors maps an operation name to the error it returns
	Errors map[string]error
	// FailCreateAfter makes CreateTask fail once this many tasks exist
	FailCreateAfter int
	// WrongBatch makes CreateTask report a different batch id
	WrongBatch bool
	Calls      []string

	batches int
	created int
}

// NewMockMarketplace creates an empty mock marketplace
func NewMockMarketplace() *MockMarketplace {
	return &MockMarketplace{
		Balance:   "10000.00",
		Tasks:     make(map[string]marketplace.Task),
		Responses: make(map[string][]marketplace.Response),
		Errors:    make(map[string]error),
	}
}

func (m *MockMarketplace) record(call string) {
	m.Calls = append(m.Calls, call)
}

// GetBalance mocks the balance lookup
func (m *MockMarketplace) GetBalance(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("GetBalance")
	if err := m.Errors["GetBalance"]; err != nil {
		return "", err
	}
	return m.Balance, nil
}

// CreateBatch mocks batch creation
func (m *MockMarketplace) CreateBatch(ctx context.Context, spec marketplace.BatchSpec) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(fmt.Sprintf("CreateBatch %s", spec.Title))
	if err := m.Errors["CreateBatch"]; err != nil {
		return "", err
	}
	m.batches++
	return fmt.Sprintf("BATCH%d", m.batches), nil
}

// CreateTask mocks task creation
func (m *MockMarketplace) CreateTask(ctx context.Context, batchID string, spec marketplace.TaskSpec) (marketplace.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(fmt.Sprintf("CreateTask %s", batchID))
	if err := m.Errors["CreateTask"]; err != nil {
		return marketplace.Task{}, err
	}
	if m.FailCreateAfter > 0 && m.created >= m.FailCreateAfter {
		return marketplace.Task{}, fmt.Errorf("service unavailable")
	}

	m.created++
	t := marketplace.Task{
		ID:       fmt.Sprintf("HIT%d", m.created),
		BatchID:  batchID,
		Status:   "Assignable",
		Question: spec.Question,
	}
	if m.WrongBatch {
		t.BatchID = "OTHER"
	}
	m.Tasks[t.ID] = t
	return t, nil
}

// GetTask mocks the task lookup
func (m *MockMarketplace) GetTask(ctx context.Context, taskID string) (marketplace.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("GetTask " + taskID)
	if err := m.Errors["GetTask"]; err != nil {
		return marketplace.Task{}, err
	}
	t, ok := m.Tasks[taskID]
	if !ok {
		return marketplace.Task{}, fmt.Errorf("task not found: %s", taskID)
	}
	return t, nil
}

// ListResponses mocks listing responses
func (m *MockMarketplace) ListResponses(ctx context.Context, taskID string) ([]marketplace.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ListResponses " + taskID)
	if err := m.Errors["ListResponses"]; err != nil {
		return nil, err
	}
	return append([]marketplace.Response(nil), m.Responses[taskID]...), nil
}

// Finalize mocks approving a response
func (m *MockMarketplace) Finalize(ctx context.Context, responseID, feedback string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(fmt.Sprintf("Finalize %s (%s)", responseID, feedback))
	if err := m.Errors["Finalize"]; err != nil {
		return err
	}
	m.setStatus(responseID, marketplace.StatusApproved)
	return nil
}

// Reject mocks rejecting a response
func (m *MockMarketplace) Reject(ctx context.Context, responseID, feedback string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(fmt.Sprintf("Reject %s (%s)", responseID, feedback))
	if err := m.Errors["Reject"]; err != nil {
		return err
	}
	m.setStatus(responseID, marketplace.StatusRejected)
	return nil
}

func (m *MockMarketplace) setStatus(responseID string, status marketplace.ResponseStatus) {
	for taskID, responses := range m.Responses {
		for i := range responses {
			if responses[i].ID == responseID {
				m.Responses[taskID][i].Status = status
			}
		}
	}
}

// AddResponse attaches a worker answer to a task
func (m *MockMarketplace) AddResponse(taskID, responseID, workerID string, status marketplace.ResponseStatus, answer task.Answer) error {
	doc, err := question.AnswerDocument(answer)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[taskID] = append(m.Responses[taskID], marketplace.Response{
		ID:       responseID,
		TaskID:   taskID,
		WorkerID: workerID,
		Status:   status,
		Answer:   doc,
	})
	return nil
}

// RemoteCalls counts the recorded calls
func (m *MockMarketplace) RemoteCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
