package execution

import "loom/internal/workflow"

// CurrentStep returns the task with the smallest step number not yet in the
// ledger, or nil when every task is complete.
func CurrentStep(tasks []workflow.Task, exec *Execution) *workflow.Task {
	var current *workflow.Task
	for i := range tasks {
		task := &tasks[i]
		if exec != nil && exec.Completed(task.ID) {
			continue
		}
		if current == nil || task.StepNumber < current.StepNumber {
			current = task
		}
	}
	return current
}

// LastCompletedStep returns the completed task with the largest step number.
// This is deliberately not the most recently appended ledger entry: the two
// diverge when completions happen out of declared order.
func LastCompletedStep(tasks []workflow.Task, exec *Execution) *workflow.Task {
	if exec == nil {
		return nil
	}
	var last *workflow.Task
	for i := range tasks {
		task := &tasks[i]
		if !exec.Completed(task.ID) {
			continue
		}
		if last == nil || task.StepNumber > last.StepNumber {
			last = task
		}
	}
	return last
}

// Progress returns the completed fraction in [0,1]. Ledger entries that no
// longer correspond to a task (drifted workflow edits without a version bump)
// do not count toward progress.
func Progress(tasks []workflow.Task, exec *Execution) float64 {
	if len(tasks) == 0 {
		return 0
	}
	completed := 0
	for i := range tasks {
		if exec != nil && exec.Completed(tasks[i].ID) {
			completed++
		}
	}
	return float64(completed) / float64(len(tasks))
}

// FullyCompleted reports whether every task appears in the ledger.
func FullyCompleted(tasks []workflow.Task, exec *Execution) bool {
	if len(tasks) == 0 || exec == nil {
		return false
	}
	for i := range tasks {
		if !exec.Completed(tasks[i].ID) {
			return false
		}
	}
	return true
}
