package notify

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/labelkit/internal/core/domain"
)

func note(op string, id int) domain.Notification {
	return domain.Notification{Op: op, ProjectID: 1, ItemID: id, Err: errors.New("boom")}
}

func TestBus_FanOut(t *testing.T) {
	bus := NewBus()
	a, unsubA := bus.Subscribe(4)
	b, unsubB := bus.Subscribe(4)
	defer unsubA()
	defer unsubB()

	bus.Notify(note(domain.OpDeleteDocument, 3))

	assert.Equal(t, 3, (<-a).ItemID)
	assert.Equal(t, 3, (<-b).ItemID)
}

func TestBus_NotifyNeverBlocks(t *testing.T) {
	bus := NewBus()
	ch, unsub := bus.Subscribe(1)
	defer unsub()

	bus.Notify(note(domain.OpListDocuments, 0))
	bus.Notify(note(domain.OpListDocuments, 1))

	assert.Len(t, ch, 1)
	assert.Equal(t, 0, (<-ch).ItemID)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()
	ch, unsub := bus.Subscribe(1)

	unsub()
	unsub()
	bus.Notify(note(domain.OpListDocuments, 0))

	_, open := <-ch
	assert.False(t, open)
}

func TestBus_Close(t *testing.T) {
	bus := NewBus()
	ch, unsub := bus.Subscribe(1)
	defer unsub()

	bus.Close()
	bus.Notify(note(domain.OpListDocuments, 0))

	_, open := <-ch
	assert.False(t, open)

	late, _ := bus.Subscribe(1)
	_, open = <-late
	assert.False(t, open)
}

func TestDrain(t *testing.T) {
	bus := NewBus()
	ch, _ := bus.Subscribe(4)
	bus.Notify(note(domain.OpDeleteDocument, 7))
	bus.Close()

	var buf bytes.Buffer
	Drain(ch, &buf)

	require.Contains(t, buf.String(), "error: documents.delete #7: boom")
}
