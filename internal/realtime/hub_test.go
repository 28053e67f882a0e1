package realtime

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHub_DeliversMatchingEvents(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	received := make(chan Event, 4)
	_, err := hub.Subscribe(TableFilter("tasks"), func(_ context.Context, e Event) {
		received <- e
	})
	require.NoError(t, err)

	require.NoError(t, hub.Publish(context.Background(), Event{Table: "rooms", Type: EventInsert}))
	require.NoError(t, hub.Publish(context.Background(), Event{Table: "tasks", Type: EventUpdate, RowID: 3}))

	select {
	case e := <-received:
		require.Equal(t, "tasks", e.Table)
		require.Equal(t, uint64(3), e.RowID)
	case <-time.After(time.Second):
		t.Fatal("expected a tasks event")
	}

	select {
	case e := <-received:
		t.Fatalf("unexpected event %+v", e)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_UnsubscribeStopsDelivery(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	var calls int32
	sub, err := hub.Subscribe(TableFilter("tasks"), func(_ context.Context, _ Event) {
		atomic.AddInt32(&calls, 1)
	})
	require.NoError(t, err)
	require.Equal(t, 1, hub.SubscriberCount())

	sub.Unsubscribe()
	sub.Unsubscribe()
	require.Equal(t, 0, hub.SubscriberCount())

	require.NoError(t, hub.Publish(context.Background(), Event{Table: "tasks"}))
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestHub_CoalescesWhileHandlerBusy(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	release := make(chan struct{})
	var calls int32
	_, err := hub.Subscribe(TableFilter("tasks"), func(_ context.Context, _ Event) {
		if atomic.AddInt32(&calls, 1) == 1 {
			<-release
		}
	})
	require.NoError(t, err)

	require.NoError(t, hub.Publish(context.Background(), Event{Table: "tasks"}))
	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, 5*time.Millisecond)

	for i := 0; i < 10; i++ {
		require.NoError(t, hub.Publish(context.Background(), Event{Table: "tasks"}))
	}
	close(release)

	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 2 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestHub_ResyncReachesEverySubscriber(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	tasks := make(chan Event, 2)
	inbox := make(chan Event, 2)
	_, err := hub.Subscribe(TableFilter("tasks"), func(_ context.Context, e Event) { tasks <- e })
	require.NoError(t, err)
	_, err = hub.Subscribe(RowFilter("notifications", "user_id", 7), func(_ context.Context, e Event) { inbox <- e })
	require.NoError(t, err)

	hub.Resync()

	for _, ch := range []chan Event{tasks, inbox} {
		select {
		case e := <-ch:
			require.Equal(t, EventResync, e.Type)
		case <-time.After(time.Second):
			t.Fatal("expected a resync event")
		}
	}
}

func TestHub_SubscribeAfterClose(t *testing.T) {
	hub := NewHub()
	hub.Close()

	_, err := hub.Subscribe(TableFilter("tasks"), func(context.Context, Event) {})
	require.ErrorIs(t, err, ErrFeedClosed)
}
