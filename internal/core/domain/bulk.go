package domain

// BulkResult summarises a bulk operation over a selection.
// It is returned only after every item has settled.
type BulkResult struct {
	// Attempted is the number of requests issued.
	Attempted int

	// Succeeded is the number of requests that completed without error.
	Succeeded int

	// Skipped is the number of items not requested, e.g. a user already
	// assigned to a document.
	Skipped int

	// Failed maps item id to its failure.
	Failed map[int]error

	// Err aggregates every failure, or is nil when all items succeeded.
	Err error
}

// OK reports whether no item failed.
func (r BulkResult) OK() bool {
	return len(r.Failed) == 0
}
