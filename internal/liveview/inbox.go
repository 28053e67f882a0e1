package liveview

import (
	"context"
	"errors"

	"github.com/yukikurage/teamdesk-api/internal/constants"
	"github.com/yukikurage/teamdesk-api/internal/dto"
	"github.com/yukikurage/teamdesk-api/internal/livestate"
	"github.com/yukikurage/teamdesk-api/internal/models"
	"github.com/yukikurage/teamdesk-api/internal/realtime"
	"github.com/yukikurage/teamdesk-api/internal/utils"
	"go.uber.org/zap"
)

var ErrNotificationNotInInbox = errors.New("notification is not in this inbox")

// NotificationStore is the part of the inbox service an Inbox drives.
type NotificationStore interface {
	List(ctx context.Context, userID uint64, params utils.PageQuery) ([]models.Notification, int64, error)
	MarkRead(ctx context.Context, userID, id uint64) error
	MarkAllRead(ctx context.Context, userID uint64) (int64, error)
}

// Inbox is the live list of the newest notifications of one user.
type Inbox struct {
	id       string
	userID   uint64
	store    NotificationStore
	state    *livestate.Controller[dto.NotificationDTO, uint64]
	listener *realtime.Listener
}

func notificationKey(n dto.NotificationDTO) uint64 { return n.ID }

var inboxPage = utils.PageQuery{Page: 1, Limit: constants.MaxPageSize}

// OpenInbox loads the user's inbox and reloads it on every notification
// event for that user.
func OpenInbox(ctx context.Context, id string, userID uint64, store NotificationStore, feed realtime.Feed, logger *zap.Logger) (*Inbox, error) {
	if logger == nil {
		logger = zap.L()
	}
	logger = logger.With(zap.String("view", id), zap.Uint64("user_id", userID))

	in := &Inbox{
		id:       id,
		userID:   userID,
		store:    store,
		listener: realtime.NewListener(feed, logger),
	}
	in.state = livestate.New[dto.NotificationDTO, uint64](in.load, notificationKey, logger)

	if err := in.listener.Bind(in.reload, realtime.RowFilter(models.TableNotifications, "user_id", userID)); err != nil {
		in.state.Close()
		return nil, err
	}

	if err := in.state.Reload(ctx); err != nil {
		in.Close()
		return nil, err
	}
	return in, nil
}

func (in *Inbox) load(ctx context.Context) ([]dto.NotificationDTO, error) {
	rows, _, err := in.store.List(ctx, in.userID, inboxPage)
	if err != nil {
		return nil, err
	}
	return dto.ToNotificationDTOs(rows), nil
}

func (in *Inbox) reload(ctx context.Context) error {
	err := in.state.Reload(ctx)
	if errors.Is(err, livestate.ErrClosed) {
		return nil
	}
	return err
}

func (in *Inbox) ID() string      { return in.id }
func (in *Inbox) OwnerID() uint64 { return in.userID }

func (in *Inbox) Snapshot() livestate.Snapshot[dto.NotificationDTO] {
	return in.state.Snapshot()
}

func (in *Inbox) Watch() (<-chan livestate.Snapshot[dto.NotificationDTO], func()) {
	return in.state.Watch()
}

func (in *Inbox) Close() {
	in.listener.Close()
	in.state.Close()
}

// Unread counts the unread items currently held.
func (in *Inbox) Unread() int {
	n := 0
	for _, item := range in.state.Snapshot().Entities {
		if !item.Read {
			n++
		}
	}
	return n
}

// MarkRead flips one item. Marking an item that is already read does nothing.
func (in *Inbox) MarkRead(ctx context.Context, id uint64) error {
	item, ok := in.state.Find(id)
	if !ok {
		return ErrNotificationNotInInbox
	}
	if item.Read {
		return nil
	}
	item.Read = true
	return in.state.ApplyLocalUpdate(ctx, item, func(ctx context.Context) error {
		return in.store.MarkRead(ctx, in.userID, id)
	})
}

// MarkAllRead flips every held unread item under a single write.
func (in *Inbox) MarkAllRead(ctx context.Context) error {
	var unread []dto.NotificationDTO
	for _, item := range in.state.Snapshot().Entities {
		if !item.Read {
			item.Read = true
			unread = append(unread, item)
		}
	}
	return in.state.ApplyLocalUpdates(ctx, unread, func(ctx context.Context) error {
		_, err := in.store.MarkAllRead(ctx, in.userID)
		return err
	})
}
