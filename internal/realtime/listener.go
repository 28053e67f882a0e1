package realtime

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// ReloadFunc re-fetches a view's full state.
type ReloadFunc func(ctx context.Context) error

// Listener binds a view's reload to the change feed. Every matching event,
// whatever its type, triggers a full reload. Binding again (the view or the
// current user changed) drops the previous subscriptions first, and callbacks
// from a previous binding that are still in flight are ignored.
type Listener struct {
	feed   Feed
	logger *zap.Logger

	mu         sync.Mutex
	subs       []Subscription
	generation uint64
}

func NewListener(feed Feed, logger *zap.Logger) *Listener {
	if logger == nil {
		logger = zap.L()
	}
	return &Listener{feed: feed, logger: logger}
}

// Bind subscribes reload to every filter, replacing any earlier binding.
func (l *Listener) Bind(reload ReloadFunc, filters ...Filter) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.unbindLocked()
	generation := l.generation

	for _, filter := range filters {
		filter := filter
		sub, err := l.feed.Subscribe(filter, func(ctx context.Context, e Event) {
			if !l.current(generation) {
				return
			}
			if err := reload(ctx); err != nil {
				l.logger.Warn("background reload failed",
					zap.String("table", e.Table),
					zap.String("event", string(e.Type)),
					zap.Error(err),
				)
			}
		})
		if err != nil {
			l.unbindLocked()
			return fmt.Errorf("failed to subscribe to %s: %w", filter.Table, err)
		}
		l.subs = append(l.subs, sub)
	}

	return nil
}

// Close drops all subscriptions. The listener may be bound again later.
func (l *Listener) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.unbindLocked()
}

func (l *Listener) current(generation uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.generation == generation && len(l.subs) > 0
}

func (l *Listener) unbindLocked() {
	for _, sub := range l.subs {
		sub.Unsubscribe()
	}
	l.subs = nil
	l.generation++
}
