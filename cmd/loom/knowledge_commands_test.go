package main

import (
	"strings"
	"testing"
)

func TestKnowledgeAddShowDelete(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "knowledge", "add", "Cable routing", "--content", "<p>Route behind the rack</p>")
	if err != nil {
		t.Fatalf("knowledge add: %v", err)
	}
	requireContains(t, out, "Added knowledge item")
	id := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(out), "Added knowledge item"))

	out, _, err = runCLI(t, env, "knowledge", "list")
	if err != nil {
		t.Fatalf("knowledge list: %v", err)
	}
	requireContains(t, out, "Cable routing")

	out, _, err = runCLI(t, env, "knowledge", "show", id)
	if err != nil {
		t.Fatalf("knowledge show: %v", err)
	}
	requireContains(t, out, "Route behind the rack")

	if _, _, err := runCLI(t, env, "knowledge", "delete", id); err != nil {
		t.Fatalf("knowledge delete: %v", err)
	}

	out, _, err = runCLI(t, env, "knowledge", "list")
	if err != nil {
		t.Fatalf("knowledge list: %v", err)
	}
	requireContains(t, out, "No knowledge items")
}
