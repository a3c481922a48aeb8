// Package store persists workflows, tasks, executions, and knowledge items
// in SQLite.
//
// The store is the single authoritative collection behind the pipeline and
// the execution tracker. loom assumes one logical writer at a time; a lock
// file taken at open time makes that assumption explicit instead of leaving
// it to the caller.
package store
