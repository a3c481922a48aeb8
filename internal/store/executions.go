package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"loom/internal/execution"
)

// GetExecution fetches the execution bound to a (workflow, version) pair.
// Returns nil when none has been created yet.
func (s *Store) GetExecution(ctx context.Context, workflowID string, version int) (*execution.Execution, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT id, workflow_id, workflow_version, completed_task_ids, created_at, updated_at
		 FROM executions WHERE workflow_id = ? AND workflow_version = ?`,
		workflowID, version)
	exec, err := scanExecution(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get execution: %w", err)
	}
	return exec, nil
}

// PutExecution inserts or updates an execution ledger.
func (s *Store) PutExecution(ctx context.Context, exec *execution.Execution) error {
	if exec == nil {
		return errors.New("execution is nil")
	}

	completed, err := json.Marshal(exec.CompletedTaskIDs)
	if err != nil {
		return fmt.Errorf("marshal completed ids: %w", err)
	}

	_, err = s.execWithRetry(ensureContext(ctx),
		`INSERT INTO executions (id, workflow_id, workflow_version, completed_task_ids, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(workflow_id, workflow_version) DO UPDATE SET
			completed_task_ids = excluded.completed_task_ids,
			updated_at = excluded.updated_at`,
		exec.ID, exec.WorkflowID, exec.WorkflowVersion, string(completed),
		exec.CreatedAt.Format(time.RFC3339Nano), exec.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("put execution: %w", err)
	}
	return nil
}

// ListExecutions returns every retained execution for a workflow across all
// versions, newest version first.
func (s *Store) ListExecutions(ctx context.Context, workflowID string) ([]*execution.Execution, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT id, workflow_id, workflow_version, completed_task_ids, created_at, updated_at
		 FROM executions WHERE workflow_id = ? ORDER BY workflow_version DESC`,
		workflowID)
	if err != nil {
		return nil, fmt.Errorf("list executions: %w", err)
	}
	defer rows.Close()

	var executions []*execution.Execution
	for rows.Next() {
		exec, err := scanExecution(rows)
		if err != nil {
			return nil, fmt.Errorf("scan execution: %w", err)
		}
		executions = append(executions, exec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate executions: %w", err)
	}
	return executions, nil
}

func scanExecution(row rowScanner) (*execution.Execution, error) {
	var (
		exec      execution.Execution
		completed string
		createdAt string
		updatedAt string
	)
	if err := row.Scan(&exec.ID, &exec.WorkflowID, &exec.WorkflowVersion, &completed, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if completed != "" {
		if err := json.Unmarshal([]byte(completed), &exec.CompletedTaskIDs); err != nil {
			return nil, fmt.Errorf("unmarshal completed ids: %w", err)
		}
	}
	exec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	exec.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return &exec, nil
}
