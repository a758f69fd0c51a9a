package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"codeberg.org/snonux/turktranslate/internal/reviewer"
	"codeberg.org/snonux/turktranslate/internal/task"
)

// DefaultFilename is the journal location below the home directory
const DefaultFilename = ".turktranslate/journal.db"

// DefaultPath returns the journal path in the user's home directory
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Base(DefaultFilename)
	}
	return filepath.Join(home, DefaultFilename)
}

// Journal records runs, created tasks and review decisions
type Journal struct {
	db    *sql.DB
	sq    sq.StatementBuilderType
	runID string
}

// TaskEntry is a recorded task
type TaskEntry struct {
	RunID     string
	Language  string
	BatchID   string
	PhraseID  string
	HITId     string
	CreatedAt time.Time
}

// DecisionEntry is a recorded review decision
type DecisionEntry struct {
	RunID        string
	HITId        string
	AssignmentID string
	WorkerID     string
	PhraseID     string
	Language     string
	Accepted     bool
	Finalized    bool
	Text         string
	Reason       string
	DecidedAt    time.Time
}

// Open opens or creates the journal at path
func Open(path string) (*Journal, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal %s: %w", path, err)
	}
	return &Journal{db: db, sq: sq.StatementBuilder}, nil
}

// Close closes the database
func (j *Journal) Close() error {
	return j.db.Close()
}

// RunID returns the id of the current run, empty before StartRun
func (j *Journal) RunID() string {
	return j.runID
}

// StartRun records a new run. Later records belong to it.
func (j *Journal) StartRun(ctx context.Context, kind, source string) (string, error) {
	id := uuid.NewString()
	q := j.sq.Insert("runs").Columns("id", "kind", "source", "started_at").
		Values(id, kind, source, now())
	sqlStr, args, _ := q.ToSql()
	if _, err := j.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}
	j.runID = id
	return id, nil
}

// RecordTask records a created task
func (j *Journal) RecordTask(ctx context.Context, lang, batchID string, d task.Descriptor) error {
	q := j.sq.Insert("tasks").Columns("run_id", "language", "batch_id", "phrase_id", "hit_id", "created_at").
		Values(j.run(), lang, batchID, d.ID, d.HITId, now())
	sqlStr, args, _ := q.ToSql()
	if _, err := j.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("record task %s: %w", d.HITId, err)
	}
	return nil
}

// RecordDecision records a reviewed response
func (j *Journal) RecordDecision(ctx context.Context, o reviewer.Outcome) error {
	q := j.sq.Insert("decisions").
		Columns("run_id", "hit_id", "assignment_id", "worker_id", "phrase_id", "language", "accepted", "finalized", "text", "reason", "decided_at").
		Values(j.run(), o.TaskID, o.ResponseID, o.WorkerID, o.PhraseID, o.Language, o.Accepted, o.Finalized, o.Text, o.Reason, now())
	sqlStr, args, _ := q.ToSql()
	if _, err := j.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("record decision %s: %w", o.ResponseID, err)
	}
	return nil
}

// RecentTasks returns the latest recorded tasks, newest first
func (j *Journal) RecentTasks(ctx context.Context, limit int) ([]TaskEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	q := j.sq.Select("COALESCE(run_id, '')", "language", "batch_id", "phrase_id", "hit_id", "created_at").
		From("tasks").OrderBy("id DESC").Limit(uint64(limit))
	sqlStr, args, _ := q.ToSql()
	rows, err := j.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var out []TaskEntry
	for rows.Next() {
		var e TaskEntry
		var created string
		if err := rows.Scan(&e.RunID, &e.Language, &e.BatchID, &e.PhraseID, &e.HITId, &created); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		if e.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
			return nil, fmt.Errorf("task %s has a bad timestamp: %w", e.HITId, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// RecentDecisions returns the latest recorded decisions, newest first
func (j *Journal) RecentDecisions(ctx context.Context, limit int) ([]DecisionEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	q := j.sq.Select("COALESCE(run_id, '')", "hit_id", "assignment_id", "worker_id", "phrase_id", "language",
		"accepted", "finalized", "text", "reason", "decided_at").
		From("decisions").OrderBy("id DESC").Limit(uint64(limit))
	sqlStr, args, _ := q.ToSql()
	rows, err := j.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}
	defer rows.Close()

	var out []DecisionEntry
	for rows.Next() {
		var e DecisionEntry
		var decided string
		if err := rows.Scan(&e.RunID, &e.HITId, &e.AssignmentID, &e.WorkerID, &e.PhraseID, &e.Language,
			&e.Accepted, &e.Finalized, &e.Text, &e.Reason, &decided); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		if e.DecidedAt, err = time.Parse(time.RFC3339, decided); err != nil {
			return nil, fmt.Errorf("decision %s has a bad timestamp: %w", e.AssignmentID, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// run returns the current run id, NULL outside a run
func (j *Journal) run() any {
	if j.runID == "" {
		return nil
	}
	return j.runID
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
