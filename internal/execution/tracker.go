package execution

import (
	"context"
	"time"

	"github.com/google/uuid"

	"loom/internal/services"
)

// Execution is the append-only completion ledger for one workflow version.
// CompletedTaskIDs is ordered by completion time and holds no duplicates.
type Execution struct {
	ID               string
	WorkflowID       string
	WorkflowVersion  int
	CompletedTaskIDs []string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Completed reports whether the ledger contains the given task id.
func (e *Execution) Completed(taskID string) bool {
	for _, id := range e.CompletedTaskIDs {
		if id == taskID {
			return true
		}
	}
	return false
}

// Store is the persistence surface the tracker operates against. Exactly one
// execution exists per (workflowID, version) pair.
type Store interface {
	GetExecution(ctx context.Context, workflowID string, version int) (*Execution, error)
	PutExecution(ctx context.Context, exec *Execution) error
}

// Tracker exposes the execution ledger operations over a Store.
type Tracker struct {
	store Store
}

// NewTracker wraps a store with ledger operations.
func NewTracker(store Store) *Tracker {
	return &Tracker{store: store}
}

// GetOrCreate returns the execution for the pair, lazily creating an empty
// ledger on first interaction. Existing executions are returned unchanged.
func (t *Tracker) GetOrCreate(ctx context.Context, workflowID string, version int) (*Execution, error) {
	exec, err := t.store.GetExecution(ctx, workflowID, version)
	if err != nil {
		return nil, err
	}
	if exec != nil {
		return exec, nil
	}

	now := time.Now().UTC()
	exec = &Execution{
		ID:              uuid.NewString(),
		WorkflowID:      workflowID,
		WorkflowVersion: version,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := t.store.PutExecution(ctx, exec); err != nil {
		return nil, err
	}
	return exec, nil
}

// Complete appends the task id to the ledger if not already present. Calling
// it again for the same id is a no-op with the same resulting ledger.
func (t *Tracker) Complete(ctx context.Context, workflowID string, version int, taskID string) (*Execution, error) {
	exec, err := t.GetOrCreate(ctx, workflowID, version)
	if err != nil {
		return nil, err
	}
	if exec.Completed(taskID) {
		return exec, nil
	}
	exec.CompletedTaskIDs = append(exec.CompletedTaskIDs, taskID)
	exec.UpdatedAt = time.Now().UTC()
	if err := t.store.PutExecution(ctx, exec); err != nil {
		return nil, err
	}
	return exec, nil
}

// Undo removes the named task id from the ledger, or the most recently
// appended id when taskID is empty. An empty ledger or an absent id is a
// no-op.
func (t *Tracker) Undo(ctx context.Context, workflowID string, version int, taskID string) (*Execution, error) {
	exec, err := t.store.GetExecution(ctx, workflowID, version)
	if err != nil {
		return nil, err
	}
	if exec == nil {
		return nil, services.Wrap(services.ErrNotFound, "execution", "undo", "no execution for workflow version", nil)
	}
	if len(exec.CompletedTaskIDs) == 0 {
		return exec, nil
	}

	if taskID == "" {
		exec.CompletedTaskIDs = exec.CompletedTaskIDs[:len(exec.CompletedTaskIDs)-1]
	} else {
		idx := -1
		for i, id := range exec.CompletedTaskIDs {
			if id == taskID {
				idx = i
				break
			}
		}
		if idx == -1 {
			return exec, nil
		}
		exec.CompletedTaskIDs = append(exec.CompletedTaskIDs[:idx], exec.CompletedTaskIDs[idx+1:]...)
	}

	exec.UpdatedAt = time.Now().UTC()
	if err := t.store.PutExecution(ctx, exec); err != nil {
		return nil, err
	}
	return exec, nil
}
