package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_RunsEveryHandler(t *testing.T) {
	d := NewInMemoryDispatcher()

	var calls []string
	d.Subscribe(EventNameCommitted, func(ctx context.Context, e Event) error {
		calls = append(calls, "first")
		return errors.New("mail down")
	})
	d.Subscribe(EventNameCommitted, func(ctx context.Context, e Event) error {
		calls = append(calls, "second:"+e.Identity)
		return nil
	})
	d.Subscribe(EventNamesHeld, func(ctx context.Context, e Event) error {
		calls = append(calls, "held")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventNameCommitted, Identity: "x@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mail down")
	assert.Equal(t, []string{"first", "second:x@example.com"}, calls)
}

func TestDispatcher_NoSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventProfileUpdated}))
}
