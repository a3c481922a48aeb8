package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"loom/internal/store"
	"loom/internal/workflow"
)

func newWorkflowCommand(ctx *commandContext) *cobra.Command {
	workflowCmd := &cobra.Command{
		Use:   "workflow",
		Short: "Inspect and manage workflows",
	}

	workflowCmd.AddCommand(newWorkflowListCommand(ctx))
	workflowCmd.AddCommand(newWorkflowShowCommand(ctx))
	workflowCmd.AddCommand(newWorkflowDeleteCommand(ctx))
	workflowCmd.AddCommand(newWorkflowBumpVersionCommand(ctx))

	return workflowCmd
}

func newWorkflowListCommand(ctx *commandContext) *cobra.Command {
	var projectID string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List workflows",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				workflows, err := st.ListWorkflows(cmd.Context(), projectID)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if jsonOut {
					views := make([]workflowView, 0, len(workflows))
					for _, wf := range workflows {
						views = append(views, newWorkflowView(wf))
					}
					return printJSON(out, views)
				}

				if len(workflows) == 0 {
					fmt.Fprintln(out, "No workflows")
					return nil
				}
				rows := make([][]string, 0, len(workflows))
				for _, wf := range workflows {
					rows = append(rows, []string{
						wf.ID,
						truncate(wf.Title, 40),
						wf.ProjectID,
						fmt.Sprintf("%d", wf.Version),
						wf.CreatedAt.Local().Format(time.DateTime),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Title", "Project", "Version", "Created"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&projectID, "project", "p", "", "Only list workflows for a project")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON")
	return cmd
}

func newWorkflowShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <workflow-id>",
		Short: "Show a workflow and its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				wf, err := st.GetWorkflow(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if wf == nil {
					return fmt.Errorf("workflow %s not found", args[0])
				}

				out := cmd.OutOrStdout()
				if jsonOut {
					return printJSON(out, newWorkflowView(wf))
				}

				fmt.Fprintf(out, "%s (version %d)\n", wf.Title, wf.Version)
				if wf.Description != "" {
					fmt.Fprintln(out, wf.Description)
				}
				rows := make([][]string, 0, len(wf.Tasks))
				for _, task := range wf.Tasks {
					flags := ""
					if task.Importance != workflow.ImportanceNone {
						flags = string(task.Importance)
					}
					image := ""
					if task.ImageURL != "" {
						image = "yes"
					}
					rows = append(rows, []string{
						fmt.Sprintf("%d", task.StepNumber),
						task.ID,
						truncate(task.Title, 40),
						flags,
						image,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Step", "ID", "Title", "Importance", "Image"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON")
	return cmd
}

func newWorkflowDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <workflow-id>",
		Short: "Delete a workflow and its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				if err := st.DeleteWorkflow(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted workflow %s\n", args[0])
				return nil
			})
		},
	}
}

func newWorkflowBumpVersionCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "bump-version <workflow-id>",
		Short: "Increment a workflow's version",
		Long: `Bump-version is the explicit action that marks a workflow's meaning as
changed. Task edits never bump the version on their own, so in-progress
executions keep tracking the version they were created against until you
invoke this. Executions for the old version are retained as-is; the next
interaction with the new version starts a fresh ledger.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				version, err := st.BumpVersion(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("bump version of %s: %w", args[0], err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Workflow %s is now version %d\n", args[0], version)
				return nil
			})
		},
	}
}

type workflowView struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Version     int        `json:"version"`
	Tasks       []taskView `json:"tasks,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type taskView struct {
	ID             string   `json:"id"`
	StepNumber     int      `json:"step_number"`
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	Importance     string   `json:"importance,omitempty"`
	HasImage       bool     `json:"has_image"`
	KnowledgeLinks []string `json:"knowledge_links,omitempty"`
}

func newWorkflowView(wf *workflow.Workflow) workflowView {
	view := workflowView{
		ID:          wf.ID,
		ProjectID:   wf.ProjectID,
		Title:       wf.Title,
		Description: wf.Description,
		Version:     wf.Version,
		CreatedAt:   wf.CreatedAt,
		UpdatedAt:   wf.UpdatedAt,
	}
	for _, task := range wf.Tasks {
		view.Tasks = append(view.Tasks, taskView{
			ID:             task.ID,
			StepNumber:     task.StepNumber,
			Title:          task.Title,
			Description:    task.Description,
			Importance:     string(task.Importance),
			HasImage:       task.ImageURL != "",
			KnowledgeLinks: task.KnowledgeLinks,
		})
	}
	return view
}
