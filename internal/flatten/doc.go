// Package flatten converts markup documents into line-oriented plain text
// with stable image placeholder tokens.
//
// The flattened text is what a human or an LLM works from when writing a
// workflow definition; the placeholder map carries the image references
// through that plain-text round trip.
package flatten
