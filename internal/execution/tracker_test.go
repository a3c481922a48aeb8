package execution_test

import (
	"context"
	"reflect"
	"testing"

	"loom/internal/execution"
	"loom/internal/testsupport"
)

func TestGetOrCreateIsLazyAndStable(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	tracker := execution.NewTracker(st)
	ctx := context.Background()

	exec, err := tracker.GetOrCreate(ctx, "wf-1", 1)
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if exec.ID == "" || exec.WorkflowID != "wf-1" || exec.WorkflowVersion != 1 {
		t.Fatalf("unexpected execution %#v", exec)
	}
	if len(exec.CompletedTaskIDs) != 0 {
		t.Fatalf("new ledger should be empty: %v", exec.CompletedTaskIDs)
	}

	again, err := tracker.GetOrCreate(ctx, "wf-1", 1)
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if again.ID != exec.ID {
		t.Fatalf("expected same execution, got %s and %s", exec.ID, again.ID)
	}
}

func TestVersionsGetSeparateLedgers(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	tracker := execution.NewTracker(st)
	ctx := context.Background()

	if _, err := tracker.Complete(ctx, "wf-1", 1, "t1"); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	v2, err := tracker.GetOrCreate(ctx, "wf-1", 2)
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if len(v2.CompletedTaskIDs) != 0 {
		t.Fatalf("version 2 ledger should start empty: %v", v2.CompletedTaskIDs)
	}

	v1, err := st.GetExecution(ctx, "wf-1", 1)
	if err != nil || v1 == nil {
		t.Fatalf("version 1 ledger should be retained: %v %v", v1, err)
	}
	if !reflect.DeepEqual(v1.CompletedTaskIDs, []string{"t1"}) {
		t.Fatalf("version 1 ledger changed: %v", v1.CompletedTaskIDs)
	}
}

func TestCompleteIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	tracker := execution.NewTracker(st)
	ctx := context.Background()

	if _, err := tracker.Complete(ctx, "wf-1", 1, "t1"); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	exec, err := tracker.Complete(ctx, "wf-1", 1, "t1")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if !reflect.DeepEqual(exec.CompletedTaskIDs, []string{"t1"}) {
		t.Fatalf("double completion changed the ledger: %v", exec.CompletedTaskIDs)
	}
}

func TestCompleteAcceptsAnyOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	tracker := execution.NewTracker(st)
	ctx := context.Background()

	for _, id := range []string{"t3", "t1"} {
		if _, err := tracker.Complete(ctx, "wf-1", 1, id); err != nil {
			t.Fatalf("Complete failed: %v", err)
		}
	}
	exec, err := st.GetExecution(ctx, "wf-1", 1)
	if err != nil {
		t.Fatalf("GetExecution failed: %v", err)
	}
	if !reflect.DeepEqual(exec.CompletedTaskIDs, []string{"t3", "t1"}) {
		t.Fatalf("append order not preserved: %v", exec.CompletedTaskIDs)
	}
}

func TestUndo(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	tracker := execution.NewTracker(st)
	ctx := context.Background()

	for _, id := range []string{"t1", "t3", "t2"} {
		if _, err := tracker.Complete(ctx, "wf-1", 1, id); err != nil {
			t.Fatalf("Complete failed: %v", err)
		}
	}

	// Named undo removes exactly that id regardless of append position.
	exec, err := tracker.Undo(ctx, "wf-1", 1, "t3")
	if err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if !reflect.DeepEqual(exec.CompletedTaskIDs, []string{"t1", "t2"}) {
		t.Fatalf("named undo: %v", exec.CompletedTaskIDs)
	}

	// Bare undo removes the list tail.
	exec, err = tracker.Undo(ctx, "wf-1", 1, "")
	if err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if !reflect.DeepEqual(exec.CompletedTaskIDs, []string{"t1"}) {
		t.Fatalf("tail undo: %v", exec.CompletedTaskIDs)
	}

	// Absent id is a no-op.
	exec, err = tracker.Undo(ctx, "wf-1", 1, "missing")
	if err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if !reflect.DeepEqual(exec.CompletedTaskIDs, []string{"t1"}) {
		t.Fatalf("absent undo should not change ledger: %v", exec.CompletedTaskIDs)
	}

	// Empty ledger is a no-op.
	if _, err := tracker.Undo(ctx, "wf-1", 1, ""); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	exec, err = tracker.Undo(ctx, "wf-1", 1, "")
	if err != nil {
		t.Fatalf("Undo on empty ledger failed: %v", err)
	}
	if len(exec.CompletedTaskIDs) != 0 {
		t.Fatalf("expected empty ledger, got %v", exec.CompletedTaskIDs)
	}
}

func TestUndoWithoutExecution(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	tracker := execution.NewTracker(st)

	if _, err := tracker.Undo(context.Background(), "wf-none", 1, ""); err == nil {
		t.Fatal("expected error for missing execution")
	}
}
