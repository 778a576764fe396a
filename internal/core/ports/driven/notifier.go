package driven

import "github.com/custodia-labs/labelkit/internal/core/domain"

// Notifier receives failure notifications from the stores.
// Notify must not block; implementations buffer or drop.
type Notifier interface {
	Notify(n domain.Notification)
}
