package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"

	"loom/internal/archive"
	"loom/internal/config"
	"loom/internal/definition"
	"loom/internal/flatten"
	"loom/internal/imaging"
	"loom/internal/logging"
	"loom/internal/services"
	"loom/internal/store"
	"loom/internal/workflow"
)

// Preparation is the result of phase one: extracted and flattened archive
// content, with compressed images resolved per placeholder token.
type Preparation struct {
	DocumentText string
	Placeholders flatten.PlaceholderMap
	Images       map[string]string
	AssetCount   int
}

// Request describes a full import.
type Request struct {
	ArchiveBytes   []byte
	DefinitionText string
	ProjectID      string
}

// Outcome carries the import result. Workflow is nil when a fatal structural
// error prevented creation; Errors and Warnings follow the two-list contract
// and are populated in both the fatal and partial cases.
type Outcome struct {
	Workflow     *workflow.Workflow
	DocumentText string
	Warnings     []string
	Errors       []string
}

// Fatal reports whether the import produced no workflow.
func (o *Outcome) Fatal() bool {
	return o.Workflow == nil
}

// Prepare runs extraction, compression, and flattening. Compression fans out
// one unit of work per asset and joins before flattening resolves tokens.
// The returned error covers only exceptional conditions: a corrupt archive or
// an archive with no documents at all.
func Prepare(ctx context.Context, cfg *config.Config, archiveBytes []byte, logger *slog.Logger) (*Preparation, error) {
	logger = logging.NewComponentLogger(logger, "importer")

	extraction, err := archive.Extract(archiveBytes, logging.WithContext(services.WithStage(ctx, "extract"), logger))
	if err != nil {
		return nil, err
	}

	compressed := imaging.CompressAll(
		services.WithStage(ctx, "compress"),
		extraction.Assets,
		imaging.FromConfig(cfg),
		logger,
	)

	text, placeholders, err := flatten.Flatten(extraction.DocumentText, compressed)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "flatten", "parse document", "", err)
	}

	images := make(map[string]string, len(placeholders))
	for token, key := range placeholders {
		if asset, ok := compressed[key]; ok {
			images[token] = imaging.DataURL(asset)
		}
	}

	logger.Debug("archive prepared",
		logging.Int("assets", len(compressed)),
		logging.Int("placeholders", len(placeholders)),
	)

	return &Preparation{
		DocumentText: text,
		Placeholders: placeholders,
		Images:       images,
		AssetCount:   len(compressed),
	}, nil
}

// Run executes the whole pipeline and persists the resulting workflow. Fatal
// structural validation failures come back inside the outcome's error list
// with a nil workflow; only truly exceptional conditions (corrupt archive,
// storage failure) surface as a returned error.
func Run(ctx context.Context, cfg *config.Config, st *store.Store, req Request, logger *slog.Logger) (*Outcome, error) {
	logger = logging.NewComponentLogger(logger, "importer")

	prep, err := Prepare(ctx, cfg, req.ArchiveBytes, logger)
	if err != nil {
		if errors.Is(err, archive.ErrNoDocument) {
			return &Outcome{Errors: []string{err.Error()}}, nil
		}
		return nil, err
	}

	result := definition.Parse(req.DefinitionText, prep.Images)
	outcome := &Outcome{DocumentText: prep.DocumentText, Warnings: result.Warnings, Errors: result.Errors}
	if result.Fatal() {
		return outcome, nil
	}

	wf := &workflow.Workflow{
		ID:          uuid.NewString(),
		ProjectID:   req.ProjectID,
		Title:       result.Definition.Title,
		Description: result.Definition.Description,
		Version:     1,
	}
	wf.Tasks = workflow.Materialize(result.Definition, wf.ID, prep.Images)

	saveCtx := services.WithWorkflowID(services.WithStage(ctx, "persist"), wf.ID)
	if err := st.SaveWorkflow(saveCtx, wf); err != nil {
		return nil, services.Wrap(services.ErrStorage, "persist", "save workflow", wf.ID, err)
	}

	logging.WithContext(saveCtx, logger).Info("workflow imported",
		logging.String("title", wf.Title),
		logging.Int("tasks", len(wf.Tasks)),
		logging.Int("warnings", len(outcome.Warnings)),
		logging.Int("task_errors", len(outcome.Errors)),
	)

	outcome.Workflow = wf
	return outcome, nil
}

// Scaffold renders a starter definition document from a preparation, ready
// for a human or an LLM to fill in from the flattened text. Available image
// tokens are listed so they can be referenced from task entries.
func Scaffold(prep *Preparation, title string) string {
	var b strings.Builder
	b.WriteString("workflow:\n")
	fmt.Fprintf(&b, "  title: %q\n", title)
	b.WriteString("  description: \"\"\n")
	b.WriteString("tasks:\n")
	b.WriteString("  - title: \"\"\n")
	b.WriteString("    instructions: \"\"\n")
	if len(prep.Placeholders) > 0 {
		tokens := make([]string, 0, len(prep.Placeholders))
		for token := range prep.Placeholders {
			tokens = append(tokens, token)
		}
		sort.Strings(tokens)
		b.WriteString("# available images: ")
		b.WriteString(strings.Join(tokens, ", "))
		b.WriteByte('\n')
	}
	return b.String()
}
