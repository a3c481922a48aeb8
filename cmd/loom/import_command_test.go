package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"loom/internal/testsupport"
)

const testDocument = `<html><body>
<h1>Setup</h1>
<p>Unpack everything.</p>
<img src="media/step.png" alt="">
</body></html>`

const testDefinition = `workflow:
  title: "Setup"
tasks:
  - title: "Unpack"
    instructions: "See [IMAGE:image-1]."
`

func writeImportFixtures(t *testing.T) (archivePath, definitionPath string) {
	t.Helper()
	dir := t.TempDir()

	data := testsupport.BuildArchive(t,
		testsupport.Entry{Name: "guide.html", Data: []byte(testDocument)},
		testsupport.Entry{Name: "media/step.png", Data: testsupport.PNGBytes(t, 16, 16)},
	)
	archivePath = filepath.Join(dir, "archive.zip")
	if err := os.WriteFile(archivePath, data, 0o644); err != nil {
		t.Fatalf("write archive: %v", err)
	}

	definitionPath = filepath.Join(dir, "definition.yaml")
	if err := os.WriteFile(definitionPath, []byte(testDefinition), 0o644); err != nil {
		t.Fatalf("write definition: %v", err)
	}
	return archivePath, definitionPath
}

func TestImportCommandCreatesWorkflow(t *testing.T) {
	env := setupCLITestEnv(t)
	archivePath, definitionPath := writeImportFixtures(t)

	out, _, err := runCLI(t, env, "import", archivePath, "--definition", definitionPath)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	requireContains(t, out, `Imported workflow`)
	requireContains(t, out, `"Setup", 1 tasks, version 1`)

	out, _, err = runCLI(t, env, "workflow", "list")
	if err != nil {
		t.Fatalf("workflow list: %v", err)
	}
	requireContains(t, out, "Setup")
}

func TestImportCommandFatalDefinition(t *testing.T) {
	env := setupCLITestEnv(t)
	archivePath, _ := writeImportFixtures(t)

	badDefinition := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(badDefinition, []byte("tasks:\n  - title: X\n"), 0o644); err != nil {
		t.Fatalf("write definition: %v", err)
	}

	out, _, err := runCLI(t, env, "import", archivePath, "--definition", badDefinition)
	if err == nil || !strings.Contains(err.Error(), "no workflow created") {
		t.Fatalf("expected fatal import error, got %v", err)
	}
	requireContains(t, out, "Workflow title is required")
}

func TestExtractCommandWritesScaffold(t *testing.T) {
	env := setupCLITestEnv(t)
	archivePath, _ := writeImportFixtures(t)
	scaffoldPath := filepath.Join(t.TempDir(), "definition.yaml")

	out, stderr, err := runCLI(t, env, "extract", archivePath, "--scaffold", scaffoldPath)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	requireContains(t, out, "[IMAGE:image-1]")
	requireContains(t, out, "Unpack everything.")
	requireContains(t, stderr, "image-1 -> media/step.png")

	scaffold, err := os.ReadFile(scaffoldPath)
	if err != nil {
		t.Fatalf("read scaffold: %v", err)
	}
	requireContains(t, string(scaffold), "# available images: image-1")
}
