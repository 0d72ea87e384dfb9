// Package runlog keeps an append-only audit trail of allocation runs.
// Nothing in the allocation engine reads it back.
package runlog
