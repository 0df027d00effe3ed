package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcher_PublishRunsAllHandlers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var seen []string

	d.Subscribe(EventTaskCreated, func(_ context.Context, e Event) error {
		seen = append(seen, "first:"+e.TaskID)
		return errors.New("boom")
	})
	d.Subscribe(EventTaskCreated, func(_ context.Context, e Event) error {
		seen = append(seen, "second:"+e.TaskID)
		return nil
	})
	d.Subscribe(EventTaskDeleted, func(_ context.Context, e Event) error {
		seen = append(seen, "deleted:"+e.TaskID)
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventTaskCreated, TaskID: "t1"})
	assert.EqualError(t, err, "boom")
	assert.Equal(t, []string{"first:t1", "second:t1"}, seen)
}

func TestDispatcher_PublishWithoutListeners(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventTaskUpdated}))
}
