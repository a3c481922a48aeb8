package workflow

import (
	"regexp"

	"github.com/google/uuid"

	"loom/internal/definition"
	"loom/internal/knowledge"
)

var placeholderPattern = regexp.MustCompile(`^image-\d+$`)

// Materialize assigns stable identifiers and step numbers to parsed tasks and
// binds them to a workflow. Image references matching the placeholder pattern
// are resolved through the images map; anything else passes through as an
// already-resolved value. All validation happened during parsing, so this is
// a pure transformation with no failure modes.
func Materialize(def definition.Definition, workflowID string, images map[string]string) []Task {
	tasks := make([]Task, 0, len(def.Tasks))
	for _, parsed := range def.Tasks {
		imageURL := parsed.ImageRef
		if placeholderPattern.MatchString(imageURL) {
			imageURL = images[imageURL]
		}
		tasks = append(tasks, Task{
			ID:               uuid.NewString(),
			WorkflowID:       workflowID,
			StepNumber:       parsed.Step,
			Title:            parsed.Title,
			Description:      parsed.Description,
			InstructionsHTML: parsed.InstructionsHTML,
			KnowledgeLinks:   knowledge.ExtractLinks(parsed.InstructionsHTML),
			ImageURL:         imageURL,
			Importance:       Importance(parsed.Importance),
		})
	}
	Renumber(tasks)
	return tasks
}
