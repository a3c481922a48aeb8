// Package importer wires the import pipeline end to end: archive extraction,
// concurrent image compression, content flattening, definition parsing,
// task materialization, and persistence.
//
// The pipeline runs in two phases. Prepare stops after flattening, producing
// the plain text a human or an LLM writes the workflow definition from. Run
// consumes that definition and produces a persisted workflow, carrying the
// error and warning lists through to the caller.
package importer
