package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"loom/internal/config"
	"loom/internal/store"
	"loom/internal/workflow"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	configPath := filepath.Join(homeDir, ".config", "loom", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q

[logging]
level = "error"
`, cfg.Paths.DataDir, cfg.Paths.LogDir)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{cfg: &cfg, configPath: configPath}
}

// seedWorkflow persists a workflow and releases the data directory lock so a
// subsequent CLI invocation can take it.
func (env *cliTestEnv) seedWorkflow(t *testing.T, wf *workflow.Workflow) {
	t.Helper()

	st, err := store.Open(env.cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()
	if err := st.SaveWorkflow(context.Background(), wf); err != nil {
		t.Fatalf("seed workflow: %v", err)
	}
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func seededWorkflow() *workflow.Workflow {
	return &workflow.Workflow{
		ID:      "wf-1",
		Title:   "Device Setup",
		Version: 1,
		Tasks: []workflow.Task{
			{ID: "task-1", WorkflowID: "wf-1", StepNumber: 1, Title: "Unpack"},
			{ID: "task-2", WorkflowID: "wf-1", StepNumber: 2, Title: "Connect"},
			{ID: "task-3", WorkflowID: "wf-1", StepNumber: 3, Title: "Power on"},
		},
	}
}
