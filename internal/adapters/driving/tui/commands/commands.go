// Package commands wraps document store calls as tea.Cmds. Each command
// blocks in its own goroutine and answers with a messages type.
package commands

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/labelkit/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/labelkit/internal/core/domain"
	"github.com/custodia-labs/labelkit/internal/core/ports/driving"
)

// LoadPage reloads the store's page for its current search options.
func LoadPage(ctx context.Context, store driving.DocumentStore) tea.Cmd {
	return func() tea.Msg {
		return messages.PageLoaded{Err: store.List(ctx)}
	}
}

// DeleteSelected deletes every document in the selection set.
func DeleteSelected(ctx context.Context, store driving.DocumentStore) tea.Cmd {
	return func() tea.Msg {
		return messages.DocumentsDeleted{Result: store.DeleteSelected(ctx)}
	}
}

// ToggleApproval makes docID current and flips its approval.
func ToggleApproval(ctx context.Context, store driving.DocumentStore, docID int) tea.Cmd {
	return func() tea.Msg {
		if err := store.SetCurrent(docID); err != nil {
			return messages.ApprovalToggled{DocumentID: docID, Err: err}
		}
		if err := store.Approve(ctx); err != nil {
			return messages.ApprovalToggled{DocumentID: docID, Err: err}
		}
		return messages.ApprovalToggled{DocumentID: docID, Approved: store.Approved()}
	}
}

// WaitForNotification delivers the next notification from ch. It returns
// nil once ch is closed; the caller re-issues it after every delivery.
func WaitForNotification(ch <-chan domain.Notification) tea.Cmd {
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return messages.Notified{Notification: n}
	}
}
