package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"loom/internal/execution"
	"loom/internal/store"
	"loom/internal/workflow"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Track workflow execution progress",
		Long: `Run commands operate on the execution ledger for a workflow's current
version. The ledger is created on first use and stays bound to that
version: bumping the workflow version starts progress over while the old
ledger is retained.`,
	}

	runCmd.AddCommand(newRunStatusCommand(ctx))
	runCmd.AddCommand(newRunCompleteCommand(ctx))
	runCmd.AddCommand(newRunUndoCommand(ctx))
	runCmd.AddCommand(newRunHistoryCommand(ctx))

	return runCmd
}

func newRunStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "status <workflow-id>",
		Short: "Show execution progress for a workflow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				wf, exec, err := loadRun(cmd.Context(), st, args[0])
				if err != nil {
					return err
				}

				current := execution.CurrentStep(wf.Tasks, exec)
				last := execution.LastCompletedStep(wf.Tasks, exec)
				progress := execution.Progress(wf.Tasks, exec)

				out := cmd.OutOrStdout()
				if jsonOut {
					view := runStatusView{
						WorkflowID: wf.ID,
						Version:    wf.Version,
						Progress:   progress,
						Completed:  len(exec.CompletedTaskIDs),
						Total:      len(wf.Tasks),
					}
					if current != nil {
						view.CurrentStep = current.StepNumber
						view.CurrentTask = current.ID
					}
					if last != nil {
						view.LastCompletedStep = last.StepNumber
					}
					return printJSON(out, view)
				}

				fmt.Fprintf(out, "%s (version %d): %s complete (%d/%d)\n",
					wf.Title, wf.Version, formatPercent(progress), len(exec.CompletedTaskIDs), len(wf.Tasks))
				rows := make([][]string, 0, len(wf.Tasks))
				for _, task := range wf.Tasks {
					state := ""
					if exec.Completed(task.ID) {
						state = "done"
					} else if current != nil && task.ID == current.ID {
						state = "current"
					}
					rows = append(rows, []string{
						fmt.Sprintf("%d", task.StepNumber),
						truncate(task.Title, 40),
						state,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Step", "Title", "State"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON")
	return cmd
}

func newRunCompleteCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "complete <workflow-id> [task-id|step]",
		Short: "Mark a task complete",
		Long: `Complete marks a task done in the current version's ledger. With no task
argument the current step is completed. By default only the first
incomplete step may be completed; --force records any task, which the
ledger accepts in any order.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				wf, exec, err := loadRun(cmd.Context(), st, args[0])
				if err != nil {
					return err
				}

				current := execution.CurrentStep(wf.Tasks, exec)
				var target *workflow.Task
				if len(args) == 2 {
					target = findTask(wf, args[1])
					if target == nil {
						return fmt.Errorf("no task %q in workflow %s", args[1], wf.ID)
					}
				} else {
					if current == nil {
						fmt.Fprintln(cmd.OutOrStdout(), "All steps already complete")
						return nil
					}
					target = current
				}

				// Ordering is a policy of this surface, not of the ledger.
				if !force && current != nil && target.ID != current.ID && !exec.Completed(target.ID) {
					return fmt.Errorf("step %d is not the current step (%d); use --force to complete out of order",
						target.StepNumber, current.StepNumber)
				}

				tracker := execution.NewTracker(st)
				exec, err = tracker.Complete(cmd.Context(), wf.ID, wf.Version, target.ID)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Completed step %d (%s)\n", target.StepNumber, target.Title)
				if execution.FullyCompleted(wf.Tasks, exec) {
					fmt.Fprintln(out, "Workflow fully completed")
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Complete regardless of step order")
	return cmd
}

func newRunUndoCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "undo <workflow-id> [task-id|step]",
		Short: "Undo a completion",
		Long: `Undo removes a specific task from the ledger, or with no argument the most
recently completed one. Undoing a task that is not in the ledger is a no-op.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				wf, _, err := loadRun(cmd.Context(), st, args[0])
				if err != nil {
					return err
				}

				taskID := ""
				if len(args) == 2 {
					target := findTask(wf, args[1])
					if target == nil {
						return fmt.Errorf("no task %q in workflow %s", args[1], wf.ID)
					}
					taskID = target.ID
				}

				tracker := execution.NewTracker(st)
				if _, err := tracker.Undo(cmd.Context(), wf.ID, wf.Version, taskID); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Undone")
				return nil
			})
		},
	}

	return cmd
}

func newRunHistoryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "history <workflow-id>",
		Short: "List retained execution ledgers across versions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				executions, err := st.ListExecutions(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(executions) == 0 {
					fmt.Fprintln(out, "No executions")
					return nil
				}
				rows := make([][]string, 0, len(executions))
				for _, exec := range executions {
					rows = append(rows, []string{
						fmt.Sprintf("%d", exec.WorkflowVersion),
						fmt.Sprintf("%d", len(exec.CompletedTaskIDs)),
						exec.UpdatedAt.Local().Format(time.DateTime),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Version", "Completed", "Updated"},
					rows,
					[]columnAlignment{alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
}

// loadRun fetches the workflow and the execution for its current version,
// creating the ledger on first interaction.
func loadRun(ctx context.Context, st *store.Store, workflowID string) (*workflow.Workflow, *execution.Execution, error) {
	wf, err := st.GetWorkflow(ctx, workflowID)
	if err != nil {
		return nil, nil, err
	}
	if wf == nil {
		return nil, nil, fmt.Errorf("workflow %s not found", workflowID)
	}
	exec, err := execution.NewTracker(st).GetOrCreate(ctx, wf.ID, wf.Version)
	if err != nil {
		return nil, nil, err
	}
	return wf, exec, nil
}

// findTask resolves a task reference that is either a task id or a 1-based
// step number.
func findTask(wf *workflow.Workflow, ref string) *workflow.Task {
	if task, ok := wf.TaskByID(ref); ok {
		return task
	}
	if step, err := strconv.Atoi(ref); err == nil {
		for i := range wf.Tasks {
			if wf.Tasks[i].StepNumber == step {
				return &wf.Tasks[i]
			}
		}
	}
	return nil
}

type runStatusView struct {
	WorkflowID        string  `json:"workflow_id"`
	Version           int     `json:"version"`
	Progress          float64 `json:"progress"`
	Completed         int     `json:"completed"`
	Total             int     `json:"total"`
	CurrentStep       int     `json:"current_step,omitempty"`
	CurrentTask       string  `json:"current_task,omitempty"`
	LastCompletedStep int     `json:"last_completed_step,omitempty"`
}
