package events

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// inlineRunner runs tasks immediately, or refuses them when err is set.
type inlineRunner struct {
	err error
}

func (r inlineRunner) Submit(task func(ctx context.Context)) error {
	if r.err != nil {
		return r.err
	}
	task(context.Background())
	return nil
}

func TestInMemoryDispatcher_PublishesToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got []EventType
	d.Subscribe(EventComplaintCreated, func(_ context.Context, e Event) error {
		got = append(got, e.Type)
		return nil
	})
	d.Subscribe(EventComplaintStatusChanged, func(_ context.Context, e Event) error {
		got = append(got, e.Type)
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), NewEvent(EventComplaintCreated, "c1", "u1", nil)))
	assert.Equal(t, []EventType{EventComplaintCreated}, got)
}

func TestInMemoryDispatcher_JoinsHandlerErrors(t *testing.T) {
	d := NewInMemoryDispatcher()
	boom := errors.New("boom")

	calls := 0
	d.Subscribe(EventComplaintCreated, func(context.Context, Event) error {
		calls++
		return boom
	})
	d.Subscribe(EventComplaintCreated, func(context.Context, Event) error {
		calls++
		return nil
	})

	err := d.Publish(context.Background(), NewEvent(EventComplaintCreated, "c1", "", nil))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestAsyncDispatcher_SubmitsHandlers(t *testing.T) {
	d := NewAsyncDispatcher(inlineRunner{}, zap.NewNop(), nil)

	var mu sync.Mutex
	var seen []string
	d.Subscribe(EventComplaintStatusChanged, func(_ context.Context, e Event) error {
		mu.Lock()
		defer mu.Unlock()
		payload := e.Payload.(ComplaintStatusChangedPayload)
		seen = append(seen, string(payload.PreviousStatus)+">"+string(payload.NewStatus))
		return errors.New("ignored")
	})

	event := NewEvent(EventComplaintStatusChanged, "c1", "admin", ComplaintStatusChangedPayload{
		PreviousStatus: "pending",
		NewStatus:      "in-progress",
	})
	require.NoError(t, d.Publish(context.Background(), event))
	assert.Equal(t, []string{"pending>in-progress"}, seen)
}

func TestAsyncDispatcher_ReportsDrops(t *testing.T) {
	full := errors.New("queue full")

	var dropped []string
	d := NewAsyncDispatcher(inlineRunner{err: full}, zap.NewNop(), func(e Event, err error) {
		assert.ErrorIs(t, err, full)
		dropped = append(dropped, e.ComplaintID)
	})
	d.Subscribe(EventComplaintCreated, func(context.Context, Event) error {
		t.Fatal("handler must not run when the runner refuses work")
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), NewEvent(EventComplaintCreated, "c9", "", nil)))
	assert.Equal(t, []string{"c9"}, dropped)
}

func TestNewEvent(t *testing.T) {
	e := NewEvent(EventComplaintCreated, "c1", "u1", ComplaintCreatedPayload{})
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.Timestamp.IsZero())
	assert.Equal(t, "c1", e.ComplaintID)
	assert.Equal(t, "u1", e.ActorID)
}
