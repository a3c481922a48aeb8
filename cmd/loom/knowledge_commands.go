package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"loom/internal/knowledge"
	"loom/internal/store"
)

func newKnowledgeCommand(ctx *commandContext) *cobra.Command {
	knowledgeCmd := &cobra.Command{
		Use:   "knowledge",
		Short: "Manage the knowledge collection task instructions link against",
	}

	knowledgeCmd.AddCommand(newKnowledgeListCommand(ctx))
	knowledgeCmd.AddCommand(newKnowledgeShowCommand(ctx))
	knowledgeCmd.AddCommand(newKnowledgeAddCommand(ctx))
	knowledgeCmd.AddCommand(newKnowledgeDeleteCommand(ctx))

	return knowledgeCmd
}

func newKnowledgeListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List knowledge items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				items, err := st.ListKnowledgeItems(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(items) == 0 {
					fmt.Fprintln(out, "No knowledge items")
					return nil
				}
				rows := make([][]string, 0, len(items))
				for _, item := range items {
					rows = append(rows, []string{
						item.ID,
						truncate(item.Title, 50),
						item.UpdatedAt.Local().Format(time.DateTime),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Title", "Updated"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
}

func newKnowledgeShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <item-id>",
		Short: "Show a knowledge item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				item, err := st.GetKnowledgeItem(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if item == nil {
					return fmt.Errorf("knowledge item %s not found", args[0])
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, item.Title)
				fmt.Fprintln(out, item.ContentHTML)
				return nil
			})
		},
	}
}

func newKnowledgeAddCommand(ctx *commandContext) *cobra.Command {
	var content string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a knowledge item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item := &knowledge.Item{
				ID:          uuid.NewString(),
				Title:       args[0],
				ContentHTML: content,
			}
			return ctx.withStore(func(st *store.Store) error {
				if err := st.SaveKnowledgeItem(cmd.Context(), item); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added knowledge item %s\n", item.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&content, "content", "", "Item content (HTML)")
	return cmd
}

func newKnowledgeDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <item-id>",
		Short: "Delete a knowledge item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				if err := st.DeleteKnowledgeItem(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted knowledge item %s\n", args[0])
				return nil
			})
		},
	}
}
