package store

import (
	"context"
	"fmt"

	"loom/internal/services"
	"loom/internal/workflow"
)

// AddTask appends or inserts a task into a workflow at the given 1-based
// position (0 or past the end appends) and renumbers. The workflow version is
// untouched: version bumps are a separate, explicit action.
func (s *Store) AddTask(ctx context.Context, workflowID string, task workflow.Task, position int) error {
	return s.mutateTasks(ctx, workflowID, func(tasks []workflow.Task) ([]workflow.Task, error) {
		task.WorkflowID = workflowID
		if position < 1 || position > len(tasks) {
			return append(tasks, task), nil
		}
		idx := position - 1
		tasks = append(tasks[:idx], append([]workflow.Task{task}, tasks[idx:]...)...)
		return tasks, nil
	})
}

// RemoveTask deletes a task by id and renumbers the remainder.
func (s *Store) RemoveTask(ctx context.Context, workflowID, taskID string) error {
	return s.mutateTasks(ctx, workflowID, func(tasks []workflow.Task) ([]workflow.Task, error) {
		for i := range tasks {
			if tasks[i].ID == taskID {
				return append(tasks[:i], tasks[i+1:]...), nil
			}
		}
		return nil, services.Wrap(services.ErrNotFound, "store", "remove task", taskID, nil)
	})
}

// MoveTask relocates a task to the given 1-based position and renumbers.
func (s *Store) MoveTask(ctx context.Context, workflowID, taskID string, position int) error {
	return s.mutateTasks(ctx, workflowID, func(tasks []workflow.Task) ([]workflow.Task, error) {
		from := -1
		for i := range tasks {
			if tasks[i].ID == taskID {
				from = i
				break
			}
		}
		if from == -1 {
			return nil, services.Wrap(services.ErrNotFound, "store", "move task", taskID, nil)
		}
		moved := tasks[from]
		tasks = append(tasks[:from], tasks[from+1:]...)

		to := position - 1
		if to < 0 {
			to = 0
		}
		if to > len(tasks) {
			to = len(tasks)
		}
		tasks = append(tasks[:to], append([]workflow.Task{moved}, tasks[to:]...)...)
		return tasks, nil
	})
}

func (s *Store) mutateTasks(ctx context.Context, workflowID string, transform func([]workflow.Task) ([]workflow.Task, error)) error {
	ctx = ensureContext(ctx)
	wf, err := s.GetWorkflow(ctx, workflowID)
	if err != nil {
		return err
	}
	if wf == nil {
		return services.Wrap(services.ErrNotFound, "store", "mutate tasks", workflowID, nil)
	}

	tasks, err := transform(wf.Tasks)
	if err != nil {
		return err
	}
	workflow.Renumber(tasks)
	wf.Tasks = tasks

	if err := s.SaveWorkflow(ctx, wf); err != nil {
		return fmt.Errorf("persist task mutation: %w", err)
	}
	return nil
}
