package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PostgresFeed publishes with pg_notify and listens on a dedicated pgx
// connection. Like RedisFeed, received events fan out through a local hub.
type PostgresFeed struct {
	db      *gorm.DB
	dsn     string
	channel string
	hub     *Hub
}

func NewPostgresFeed(db *gorm.DB, dsn, channel string) *PostgresFeed {
	return &PostgresFeed{
		db:      db,
		dsn:     dsn,
		channel: channel,
		hub:     NewHub(),
	}
}

func (f *PostgresFeed) Publish(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if err := f.db.WithContext(ctx).Exec("SELECT pg_notify(?, ?)", f.channel, string(payload)).Error; err != nil {
		return fmt.Errorf("failed to notify: %w", err)
	}
	return nil
}

func (f *PostgresFeed) Subscribe(filter Filter, h Handler) (Subscription, error) {
	return f.hub.Subscribe(filter, h)
}

// Run blocks until ctx is done or the listening connection fails.
func (f *PostgresFeed) Run(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, f.dsn)
	if err != nil {
		return fmt.Errorf("failed to open listen connection: %w", err)
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{f.channel}.Sanitize()); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", f.channel, err)
	}
	f.hub.Resync()

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed waiting for notification: %w", err)
		}

		var e Event
		if err := json.Unmarshal([]byte(notification.Payload), &e); err != nil {
			zap.L().Warn("dropping malformed change event", zap.String("channel", f.channel), zap.Error(err))
			continue
		}
		f.hub.Deliver(e)
	}
}

func (f *PostgresFeed) Close() {
	f.hub.Close()
}
