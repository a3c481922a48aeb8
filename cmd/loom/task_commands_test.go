package main

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestTaskAddRemoveMove(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seedWorkflow(t, seededWorkflow())

	out, _, err := runCLI(t, env, "task", "add", "wf-1", "Inspect", "--position", "1", "--importance", "high")
	if err != nil {
		t.Fatalf("task add: %v", err)
	}
	requireContains(t, out, "Added task")

	out, _, err = runCLI(t, env, "workflow", "show", "wf-1")
	if err != nil {
		t.Fatalf("workflow show: %v", err)
	}
	lines := strings.Split(out, "\n")
	inspectLine := ""
	for _, line := range lines {
		if strings.Contains(line, "Inspect") {
			inspectLine = line
			break
		}
	}
	if inspectLine == "" || !strings.Contains(inspectLine, "1") {
		t.Fatalf("Inspect should be step 1:\n%s", out)
	}

	out, _, err = runCLI(t, env, "task", "move", "task-1", "--position", "1")
	if err == nil {
		t.Fatalf("move with missing workflow arg should fail, got:\n%s", out)
	}

	if _, _, err := runCLI(t, env, "task", "move", "wf-1", "task-3", "--position", "1"); err != nil {
		t.Fatalf("task move: %v", err)
	}
	out, _, err = runCLI(t, env, "workflow", "show", "wf-1", "--json")
	if err != nil {
		t.Fatalf("workflow show: %v", err)
	}
	var view struct {
		Tasks []struct {
			StepNumber int    `json:"step_number"`
			Title      string `json:"title"`
		} `json:"tasks"`
	}
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(view.Tasks) == 0 || view.Tasks[0].Title != "Power on" {
		t.Fatalf("expected Power on first after move, got %+v", view.Tasks)
	}

	out, _, err = runCLI(t, env, "task", "remove", "wf-1", "task-2")
	if err != nil {
		t.Fatalf("task remove: %v", err)
	}
	requireContains(t, out, "Removed task task-2")

	out, _, err = runCLI(t, env, "task", "remove", "wf-1", "task-2")
	if err == nil {
		t.Fatalf("removing a removed task should fail, got:\n%s", out)
	}
}

func TestTaskAddRejectsUnknownImportance(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seedWorkflow(t, seededWorkflow())

	_, _, err := runCLI(t, env, "task", "add", "wf-1", "X", "--importance", "urgent")
	if err == nil || !strings.Contains(err.Error(), "importance") {
		t.Fatalf("expected importance validation error, got %v", err)
	}
}
