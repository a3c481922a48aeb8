// Package services provides cross-cutting error classification and context
// plumbing shared by the import pipeline and the execution tracker.
//
// Expected validation failures travel as plain string lists alongside partial
// results; the sentinel errors here classify the truly exceptional paths
// (corrupt archives, storage failures, missing records) so callers can decide
// between aborting and surfacing a review message.
package services
