package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var got []EventType
	d.Subscribe(EventReportCreated, func(_ context.Context, e Event) error {
		got = append(got, e.Type)
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), NewEvent(EventReportCreated, 1, Actor{}, nil)))
	require.NoError(t, d.Publish(context.Background(), NewEvent(EventReportDeleted, 1, Actor{}, nil)))

	assert.Equal(t, []EventType{EventReportCreated}, got)
}

func TestDispatcherContinuesAfterHandlerError(t *testing.T) {
	d := NewInMemoryDispatcher()
	boom := errors.New("boom")
	called := false
	d.Subscribe(EventReportUpdated, func(context.Context, Event) error { return boom })
	d.Subscribe(EventReportUpdated, func(context.Context, Event) error {
		called = true
		return nil
	})

	err := d.Publish(context.Background(), NewEvent(EventReportUpdated, 2, Actor{}, nil))
	assert.ErrorIs(t, err, boom)
	assert.True(t, called)
}

func TestNewEventStampsIdentity(t *testing.T) {
	e := NewEvent(EventReportCreated, 3, Actor{Role: "citizen", ID: 9}, nil)

	assert.NotEmpty(t, e.ID)
	assert.False(t, e.Timestamp.IsZero())
	assert.Equal(t, int64(3), e.ReportID)
}
