// Package execution maintains per-version workflow completion ledgers.
//
// An execution is permanently bound to the (workflow, version) pair it was
// created against: superseding the workflow version leaves old executions
// untouched and starts a fresh ledger on first interaction with the new
// version. Completion order is caller-determined; the ledger itself only
// guarantees set semantics and append order.
package execution
