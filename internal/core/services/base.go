package services

import (
	"sync/atomic"
	"time"

	"github.com/custodia-labs/labelkit/internal/core/domain"
	"github.com/custodia-labs/labelkit/internal/core/ports/driven"
)

// Dependencies are the driven ports shared by every store of a Workspace.
type Dependencies struct {
	Documents   driven.DocumentAPI
	Annotations driven.AnnotationAPI
	Connections driven.ConnectionAPI
	Relations   driven.RelationAPI
	Files       driven.LocalFiles

	// Notifier is optional.
	Notifier driven.Notifier

	// BulkConcurrency bounds in-flight requests per bulk operation.
	// Zero or less means domain.DefaultBulkConcurrency.
	BulkConcurrency int

	// PageSize is the initial document list limit.
	// Zero or less means domain.DefaultLimit.
	PageSize int
}

func (d Dependencies) concurrency() int {
	if d.BulkConcurrency <= 0 {
		return domain.DefaultBulkConcurrency
	}
	return d.BulkConcurrency
}

func (d Dependencies) searchOptions() domain.SearchOptions {
	opts := domain.DefaultSearchOptions()
	if d.PageSize > 0 {
		opts.Limit = d.PageSize
	}
	return opts
}

// tracker holds what every store has in common: the project binding, an
// outstanding-operation counter and the notifier.
type tracker struct {
	projectID int
	notifier  driven.Notifier
	busy      atomic.Int32
}

// begin marks an operation outstanding; call the returned func when it settles.
func (t *tracker) begin() func() {
	t.busy.Add(1)
	return func() { t.busy.Add(-1) }
}

// Busy reports whether any busy-gated operation is outstanding.
func (t *tracker) Busy() bool {
	return t.busy.Load() > 0
}

// ProjectID returns the project this store is bound to.
func (t *tracker) ProjectID() int {
	return t.projectID
}

func (t *tracker) notify(op string, itemID int, err error) {
	if t.notifier == nil || err == nil {
		return
	}
	t.notifier.Notify(domain.Notification{
		Op:        op,
		ProjectID: t.projectID,
		ItemID:    itemID,
		Err:       err,
		At:        time.Now(),
	})
}
