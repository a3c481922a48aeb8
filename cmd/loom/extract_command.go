package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"loom/internal/importer"
)

func newExtractCommand(ctx *commandContext) *cobra.Command {
	var outputPath string
	var scaffoldPath string

	cmd := &cobra.Command{
		Use:   "extract <archive.zip>",
		Short: "Flatten an archive into plain text with image placeholders",
		Long: `Extract runs the first phase of the import pipeline and prints the
flattened document text. Image references that matched an archive asset
appear as [IMAGE:image-<n>] tokens; hand the text to whoever writes the
workflow definition and keep the tokens intact.`,
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

			prep, err := importer.Prepare(cmd.Context(), cfg, archiveBytes, logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outputPath != "" {
				if err := os.WriteFile(outputPath, []byte(prep.DocumentText+"\n"), 0o644); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
				fmt.Fprintf(out, "Wrote flattened text to %s\n", outputPath)
			} else {
				fmt.Fprintln(out, prep.DocumentText)
			}

			if scaffoldPath != "" {
				scaffold := importer.Scaffold(prep, importer.SuggestTitle(args[0]))
				if err := os.WriteFile(scaffoldPath, []byte(scaffold), 0o644); err != nil {
					return fmt.Errorf("write scaffold: %w", err)
				}
				fmt.Fprintf(out, "Wrote definition scaffold to %s\n", scaffoldPath)
			}

			if len(prep.Placeholders) > 0 {
				tokens := make([]string, 0, len(prep.Placeholders))
				for token := range prep.Placeholders {
					tokens = append(tokens, token)
				}
				sort.Strings(tokens)
				fmt.Fprintf(cmd.ErrOrStderr(), "\n%d image placeholder(s):\n", len(tokens))
				for _, token := range tokens {
					fmt.Fprintf(cmd.ErrOrStderr(), "  %s -> %s\n", token, prep.Placeholders[token])
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write flattened text to a file instead of stdout")
	cmd.Flags().StringVar(&scaffoldPath, "scaffold", "", "Also write a starter definition YAML to this path")
	return cmd
}
