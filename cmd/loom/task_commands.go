package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"loom/internal/knowledge"
	"loom/internal/store"
	"loom/internal/workflow"
)

func newTaskCommand(ctx *commandContext) *cobra.Command {
	taskCmd := &cobra.Command{
		Use:   "task",
		Short: "Edit a workflow's task list",
		Long: `Task edits renumber steps but never change the workflow version; run
"loom workflow bump-version" when an edit invalidates in-progress runs.`,
	}

	taskCmd.AddCommand(newTaskAddCommand(ctx))
	taskCmd.AddCommand(newTaskRemoveCommand(ctx))
	taskCmd.AddCommand(newTaskMoveCommand(ctx))

	return taskCmd
}

func newTaskAddCommand(ctx *commandContext) *cobra.Command {
	var (
		description  string
		instructions string
		importance   string
		position     int
	)

	cmd := &cobra.Command{
		Use:   "add <workflow-id> <title>",
		Short: "Add a task to a workflow",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			imp := workflow.Importance(importance)
			switch imp {
			case workflow.ImportanceNone, workflow.ImportanceLow, workflow.ImportanceHigh:
			default:
				return fmt.Errorf("importance must be %q or %q", workflow.ImportanceLow, workflow.ImportanceHigh)
			}

			task := workflow.Task{
				ID:               uuid.NewString(),
				Title:            args[1],
				Description:      description,
				InstructionsHTML: instructions,
				KnowledgeLinks:   knowledge.ExtractLinks(instructions),
				Importance:       imp,
			}

			return ctx.withStore(func(st *store.Store) error {
				if err := st.AddTask(cmd.Context(), args[0], task, position); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added task %s\n", task.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Task description")
	cmd.Flags().StringVar(&instructions, "instructions", "", "Task instructions (HTML)")
	cmd.Flags().StringVar(&importance, "importance", "", "Task importance (low or high)")
	cmd.Flags().IntVar(&position, "position", 0, "1-based step position (0 appends)")
	return cmd
}

func newTaskRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <workflow-id> <task-id>",
		Short: "Remove a task from a workflow",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				if err := st.RemoveTask(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed task %s\n", args[1])
				return nil
			})
		},
	}
}

func newTaskMoveCommand(ctx *commandContext) *cobra.Command {
	var position int

	cmd := &cobra.Command{
		Use:   "move <workflow-id> <task-id>",
		Short: "Move a task to a different step position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				if err := st.MoveTask(cmd.Context(), args[0], args[1], position); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Moved task %s to position %d\n", args[1], position)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&position, "position", 1, "1-based target step position")
	_ = cmd.MarkFlagRequired("position")
	return cmd
}
