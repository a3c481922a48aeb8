package workflow

import "time"

// Importance flags how prominently a task should be surfaced.
type Importance string

const (
	ImportanceNone Importance = ""
	ImportanceLow  Importance = "low"
	ImportanceHigh Importance = "high"
)

// Task is a materialized, persisted workflow step.
type Task struct {
	ID               string
	WorkflowID       string
	StepNumber       int
	Title            string
	Description      string
	InstructionsHTML string
	KnowledgeLinks   []string
	ImageURL         string
	Importance       Importance
}

// Workflow is an ordered, versioned task list belonging to a project.
type Workflow struct {
	ID          string
	ProjectID   string
	Title       string
	Description string
	Version     int
	Tasks       []Task
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskByID returns the task with the given id, if present.
func (w *Workflow) TaskByID(id string) (*Task, bool) {
	for i := range w.Tasks {
		if w.Tasks[i].ID == id {
			return &w.Tasks[i], true
		}
	}
	return nil, false
}

// Renumber restores the positional step invariant: tasks keep their current
// order and receive step numbers 1..N.
func Renumber(tasks []Task) {
	for i := range tasks {
		tasks[i].StepNumber = i + 1
	}
}
