package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/motivatr/internal/config"
	"github.com/fyrsmithlabs/motivatr/internal/task"
)

func newEmbeddedBus(t *testing.T) *Bus {
	t.Helper()
	bus, err := New(config.EventsConfig{Enabled: true, Embedded: true}, nil)
	require.NoError(t, err)
	t.Cleanup(bus.Close)
	return bus
}

func TestPublishTaskRoundTrip(t *testing.T) {
	bus := newEmbeddedBus(t)

	received := make(chan TaskEvent, 1)
	sub, err := bus.SubscribeTasks(func(ev TaskEvent) {
		received <- ev
	})
	require.NoError(t, err)
	defer sub.Unsubscribe()

	tk := &task.Task{ID: "t1", Title: "ship it", Status: task.StatusCompleted, OwnerEmail: "a@b.com"}
	require.NoError(t, bus.PublishTask("completed", tk))

	select {
	case ev := <-received:
		assert.Equal(t, "completed", ev.Event)
		assert.Equal(t, "t1", ev.Task.ID)
		assert.Equal(t, "a@b.com", ev.Task.OwnerEmail)
	case <-time.After(5 * time.Second):
		t.Fatal("task event not delivered")
	}
}

func TestPublishReminder(t *testing.T) {
	bus := newEmbeddedBus(t)

	received := make(chan ReminderEvent, 1)
	sub, err := bus.nc.Subscribe(SubjectReminders, func(msg *nats.Msg) {
		var ev ReminderEvent
		require.NoError(t, json.Unmarshal(msg.Data, &ev))
		received <- ev
	})
	require.NoError(t, err)
	defer sub.Unsubscribe()

	due := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	tk := &task.Task{ID: "t2", Title: "call dentist", OwnerEmail: "a@b.com", DueDate: &due}
	require.NoError(t, bus.PublishReminder(tk))

	select {
	case ev := <-received:
		assert.Equal(t, "t2", ev.TaskID)
		assert.Equal(t, "call dentist", ev.Title)
		assert.True(t, due.Equal(ev.DueDate))
	case <-time.After(5 * time.Second):
		t.Fatal("reminder event not delivered")
	}
}

func TestSubscribeDropsMalformedPayload(t *testing.T) {
	bus := newEmbeddedBus(t)

	received := make(chan TaskEvent, 2)
	sub, err := bus.SubscribeTasks(func(ev TaskEvent) {
		received <- ev
	})
	require.NoError(t, err)
	defer sub.Unsubscribe()

	require.NoError(t, bus.nc.Publish(SubjectTasksPrefix+"created", []byte("not json")))
	require.NoError(t, bus.PublishTask("created", &task.Task{ID: "ok"}))

	select {
	case ev := <-received:
		assert.Equal(t, "ok", ev.Task.ID)
	case <-time.After(5 * time.Second):
		t.Fatal("valid event not delivered")
	}
	assert.Empty(t, received)
}
