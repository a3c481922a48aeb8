// Package workflow defines the persisted workflow and task model and the
// materializer that turns parsed definitions into identity-bearing records.
//
// Step numbers are positional, never stable identity: within one workflow
// they are always exactly 1..N, renumbered on every mutation. The workflow
// version increments only through the dedicated bump action, never as a side
// effect of task edits.
package workflow
