package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishInvokesSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var got []Event
	dispatcher.Subscribe(EventTicketCreated, func(_ context.Context, event Event) error {
		got = append(got, event)
		return nil
	})
	dispatcher.Subscribe(EventTicketCreated, func(_ context.Context, event Event) error {
		got = append(got, event)
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{ID: "e-1", Type: EventTicketCreated, TicketID: "t-1"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "t-1", got[0].TicketID)
}

func TestPublishIgnoresUnrelatedTypes(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	called := false
	dispatcher.Subscribe(EventCommentAdded, func(context.Context, Event) error {
		called = true
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventTicketAssigned}))
	assert.False(t, called)
}

func TestHandlerErrorDoesNotStopDelivery(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	secondRan := false
	dispatcher.Subscribe(EventTicketUpdated, func(context.Context, Event) error {
		return errors.New("boom")
	})
	dispatcher.Subscribe(EventTicketUpdated, func(context.Context, Event) error {
		secondRan = true
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventTicketUpdated})
	assert.NoError(t, err)
	assert.True(t, secondRan)
}
