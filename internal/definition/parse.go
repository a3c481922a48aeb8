package definition

import (
	"fmt"
	"html"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Definition is a validated workflow definition ready for materialization.
type Definition struct {
	Title       string
	Description string
	Tasks       []Task
}

// Task is one parsed task entry. Step reflects the renumbered 1..N position;
// the declared step value only influenced ordering.
type Task struct {
	Step             int
	Title            string
	Description      string
	Importance       string
	InstructionsHTML string
	ImageRef         string
}

// Result carries the parsed definition together with the error and warning
// lists mandated by the import contract. Errors abort dependent stages;
// warnings do not.
type Result struct {
	Definition Definition
	Warnings   []string
	Errors     []string
}

// Fatal reports whether parsing failed structurally, meaning no workflow
// should be created from the result.
func (r Result) Fatal() bool {
	return len(r.Errors) > 0 && len(r.Definition.Tasks) == 0
}

type document struct {
	Workflow meta         `yaml:"workflow"`
	Tasks    *[]taskEntry `yaml:"tasks"`
}

type meta struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type taskEntry struct {
	Step         *int   `yaml:"step"`
	Title        string `yaml:"title"`
	Description  string `yaml:"description"`
	Importance   string `yaml:"importance"`
	Image        string `yaml:"image"`
	Instructions string `yaml:"instructions"`
}

var (
	tokenPattern       = regexp.MustCompile(`\[IMAGE:(image-\d+)\]`)
	placeholderPattern = regexp.MustCompile(`^image-\d+$`)
)

// Parse validates definition text against the import contract. The images map
// resolves placeholder tokens to final image values (typically data URLs).
//
// Structural failures (unparsable text, missing title, missing tasks list)
// are fatal and abort task processing; per-task failures skip only the
// offending task. The partial result is always returned.
func Parse(text string, images map[string]string) Result {
	var result Result

	var doc document
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Parse error: %v", err))
		return result
	}

	result.Definition.Title = strings.TrimSpace(doc.Workflow.Title)
	result.Definition.Description = strings.TrimSpace(doc.Workflow.Description)

	if result.Definition.Title == "" {
		result.Errors = append(result.Errors, "Workflow title is required")
		return result
	}
	if doc.Tasks == nil {
		result.Errors = append(result.Errors, "Tasks list is required")
		return result
	}

	for i, entry := range *doc.Tasks {
		position := i + 1
		title := strings.TrimSpace(entry.Title)
		if title == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Task %d: missing title", position))
			continue
		}

		step := position
		if entry.Step != nil {
			step = *entry.Step
		}

		importance := strings.TrimSpace(entry.Importance)
		if importance != "low" && importance != "high" {
			importance = ""
		}

		instructions, warnings := resolveTokens(entry.Instructions, images, position)
		result.Warnings = append(result.Warnings, warnings...)

		imageRef := strings.TrimSpace(entry.Image)
		if imageRef != "" && placeholderPattern.MatchString(imageRef) {
			if _, ok := images[imageRef]; !ok {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("Task %d: image %q not found in archive", position, imageRef))
				imageRef = ""
			}
		}

		result.Definition.Tasks = append(result.Definition.Tasks, Task{
			Step:             step,
			Title:            title,
			Description:      strings.TrimSpace(entry.Description),
			Importance:       importance,
			InstructionsHTML: instructions,
			ImageRef:         imageRef,
		})
	}

	// Declared steps are ordering hints only: sort by them, then renumber
	// from 1 so gaps and collisions cannot leak into materialized tasks.
	sort.SliceStable(result.Definition.Tasks, func(a, b int) bool {
		return result.Definition.Tasks[a].Step < result.Definition.Tasks[b].Step
	})
	for i := range result.Definition.Tasks {
		result.Definition.Tasks[i].Step = i + 1
	}

	return result
}

// resolveTokens replaces [IMAGE:token] markers with <img> elements for every
// token the images map can resolve. Unresolved tokens stay in place as
// literal text and produce a warning.
func resolveTokens(instructions string, images map[string]string, position int) (string, []string) {
	var warnings []string
	resolved := tokenPattern.ReplaceAllStringFunc(instructions, func(match string) string {
		token := tokenPattern.FindStringSubmatch(match)[1]
		src, ok := images[token]
		if !ok {
			warnings = append(warnings,
				fmt.Sprintf("Task %d: unresolved image placeholder %q", position, token))
			return match
		}
		return fmt.Sprintf(`<img src="%s" alt="">`, html.EscapeString(src))
	})
	return resolved, warnings
}
