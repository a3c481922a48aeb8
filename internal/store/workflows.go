package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"loom/internal/workflow"
)

// SaveWorkflow persists a workflow and its tasks wholesale. Existing tasks for
// the workflow are replaced, mirroring the read-modify-write semantics the
// rest of the application is written against.
func (s *Store) SaveWorkflow(ctx context.Context, wf *workflow.Workflow) error {
	if wf == nil {
		return errors.New("workflow is nil")
	}
	ctx = ensureContext(ctx)

	now := time.Now().UTC()
	if wf.CreatedAt.IsZero() {
		wf.CreatedAt = now
	}
	wf.UpdatedAt = now
	if wf.Version < 1 {
		wf.Version = 1
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save workflow: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO workflows (id, project_id, title, description, version, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			project_id = excluded.project_id,
			title = excluded.title,
			description = excluded.description,
			version = excluded.version,
			updated_at = excluded.updated_at`,
		wf.ID, wf.ProjectID, wf.Title, wf.Description, wf.Version,
		wf.CreatedAt.Format(time.RFC3339Nano), wf.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert workflow: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE workflow_id = ?`, wf.ID); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}

	for _, task := range wf.Tasks {
		links, err := json.Marshal(task.KnowledgeLinks)
		if err != nil {
			return fmt.Errorf("marshal knowledge links: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO tasks (id, workflow_id, step_number, title, description,
				instructions_html, knowledge_links, image_url, importance)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			task.ID, wf.ID, task.StepNumber, task.Title, task.Description,
			task.InstructionsHTML, string(links), task.ImageURL, string(task.Importance),
		)
		if err != nil {
			return fmt.Errorf("insert task %s: %w", task.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save workflow: %w", err)
	}
	return nil
}

// GetWorkflow fetches a workflow and its tasks ordered by step number.
// Returns nil when no workflow exists with the id.
func (s *Store) GetWorkflow(ctx context.Context, id string) (*workflow.Workflow, error) {
	ctx = ensureContext(ctx)

	row := s.db.QueryRowContext(ctx,
		`SELECT id, project_id, title, description, version, created_at, updated_at
		 FROM workflows WHERE id = ?`, id)
	wf, err := scanWorkflow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get workflow: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, workflow_id, step_number, title, description,
			instructions_html, knowledge_links, image_url, importance
		 FROM tasks WHERE workflow_id = ? ORDER BY step_number`, id)
	if err != nil {
		return nil, fmt.Errorf("get tasks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		wf.Tasks = append(wf.Tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return wf, nil
}

// ListWorkflows returns workflows (without tasks) ordered by creation time.
// An empty projectID lists every workflow.
func (s *Store) ListWorkflows(ctx context.Context, projectID string) ([]*workflow.Workflow, error) {
	ctx = ensureContext(ctx)

	query := `SELECT id, project_id, title, description, version, created_at, updated_at
		FROM workflows`
	args := []any{}
	if projectID != "" {
		query += ` WHERE project_id = ?`
		args = append(args, projectID)
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list workflows: %w", err)
	}
	defer rows.Close()

	var workflows []*workflow.Workflow
	for rows.Next() {
		wf, err := scanWorkflow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan workflow: %w", err)
		}
		workflows = append(workflows, wf)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate workflows: %w", err)
	}
	return workflows, nil
}

// DeleteWorkflow removes a workflow and, through the schema cascade, its
// tasks. Executions for the workflow are deliberately retained.
func (s *Store) DeleteWorkflow(ctx context.Context, id string) error {
	_, err := s.execWithRetry(ensureContext(ctx), `DELETE FROM workflows WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete workflow: %w", err)
	}
	return nil
}

// BumpVersion increments the workflow version. This is the dedicated, manual
// action that invalidates in-progress executions; task edits never bump the
// version on their own.
func (s *Store) BumpVersion(ctx context.Context, id string) (int, error) {
	ctx = ensureContext(ctx)
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	res, err := s.execWithRetry(ctx,
		`UPDATE workflows SET version = version + 1, updated_at = ? WHERE id = ?`,
		timestamp, id)
	if err != nil {
		return 0, fmt.Errorf("bump version: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("bump version result: %w", err)
	}
	if affected == 0 {
		return 0, sql.ErrNoRows
	}

	var version int
	if err := s.db.QueryRowContext(ctx, `SELECT version FROM workflows WHERE id = ?`, id).Scan(&version); err != nil {
		return 0, fmt.Errorf("read bumped version: %w", err)
	}
	return version, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkflow(row rowScanner) (*workflow.Workflow, error) {
	var (
		wf        workflow.Workflow
		createdAt string
		updatedAt string
	)
	if err := row.Scan(&wf.ID, &wf.ProjectID, &wf.Title, &wf.Description, &wf.Version, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	wf.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	wf.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return &wf, nil
}

func scanTask(row rowScanner) (workflow.Task, error) {
	var (
		task       workflow.Task
		links      string
		importance string
	)
	if err := row.Scan(&task.ID, &task.WorkflowID, &task.StepNumber, &task.Title,
		&task.Description, &task.InstructionsHTML, &links, &task.ImageURL, &importance); err != nil {
		return workflow.Task{}, err
	}
	if links != "" {
		if err := json.Unmarshal([]byte(links), &task.KnowledgeLinks); err != nil {
			return workflow.Task{}, fmt.Errorf("unmarshal knowledge links: %w", err)
		}
	}
	task.Importance = workflow.Importance(importance)
	return task, nil
}
