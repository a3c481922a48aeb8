package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"loom/internal/importer"
	"loom/internal/store"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var definitionPath string
	var projectID string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "import <archive.zip>",
		Short: "Import an archive and definition into a new workflow",
		Long: `Import runs the whole pipeline: extracts the archive, compresses its
images, flattens the documents, parses the definition file against the
extracted placeholders, and persists the materialized workflow.

The definition file is the YAML written (by you or a generation step) from
the text produced by "loom extract".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			archiveBytes, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read archive: %w", err)
			}
			definitionText, err := os.ReadFile(definitionPath)
			if err != nil {
				return fmt.Errorf("read definition: %w", err)
			}

			var outcome *importer.Outcome
			err = ctx.withStore(func(st *store.Store) error {
				var runErr error
				outcome, runErr = importer.Run(cmd.Context(), cfg, st, importer.Request{
					ArchiveBytes:   archiveBytes,
					DefinitionText: string(definitionText),
					ProjectID:      projectID,
				}, logger)
				return runErr
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				return printJSON(out, importOutcomeView(outcome))
			}

			printIssueList(out, "Errors", outcome.Errors)
			printIssueList(out, "Warnings", outcome.Warnings)
			if outcome.Fatal() {
				return fmt.Errorf("import failed: no workflow created")
			}
			fmt.Fprintf(out, "Imported workflow %s (%q, %d tasks, version %d)\n",
				outcome.Workflow.ID, outcome.Workflow.Title, len(outcome.Workflow.Tasks), outcome.Workflow.Version)
			return nil
		},
	}

	cmd.Flags().StringVarP(&definitionPath, "definition", "d", "", "Workflow definition YAML file (required)")
	cmd.Flags().StringVarP(&projectID, "project", "p", "", "Project the workflow belongs to")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the import result as JSON")
	_ = cmd.MarkFlagRequired("definition")
	return cmd
}

type importResultView struct {
	WorkflowID string   `json:"workflow_id,omitempty"`
	Title      string   `json:"title,omitempty"`
	Version    int      `json:"version,omitempty"`
	Tasks      int      `json:"tasks"`
	Warnings   []string `json:"warnings"`
	Errors     []string `json:"errors"`
}

func importOutcomeView(outcome *importer.Outcome) importResultView {
	view := importResultView{
		Warnings: append([]string{}, outcome.Warnings...),
		Errors:   append([]string{}, outcome.Errors...),
	}
	if outcome.Workflow != nil {
		view.WorkflowID = outcome.Workflow.ID
		view.Title = outcome.Workflow.Title
		view.Version = outcome.Workflow.Version
		view.Tasks = len(outcome.Workflow.Tasks)
	}
	return view
}
