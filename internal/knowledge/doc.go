// Package knowledge models the knowledge item collection and the extraction
// of knowledge links from instruction HTML.
//
// Instruction bodies are otherwise opaque HTML strings; the only structure
// this package reads out of them is data-knowledge-id attributes left behind
// by the editing surface.
package knowledge
