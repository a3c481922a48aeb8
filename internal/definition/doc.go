// Package definition parses structured workflow definition text into a
// validated in-memory definition.
//
// The input is a small YAML document written by a human or a content
// generation step from flattened archive text. Validation failures are
// collected into separate error and warning lists alongside whatever partial
// result could be produced; expected failures never panic or abort the
// process.
package definition
