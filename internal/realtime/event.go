// Package realtime carries "something changed" events per table so that
// live views can re-fetch. Events never carry enough data to patch state.
package realtime

import (
	"context"
	"strconv"
)

type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
	// EventResync tells a subscriber that events may have been missed.
	EventResync EventType = "RESYNC"
)

// Event announces a change to one table. Columns optionally carries the
// values of filterable columns (for example user_id on notifications).
type Event struct {
	Table   string            `json:"table"`
	Type    EventType         `json:"type"`
	RowID   uint64            `json:"row_id,omitempty"`
	Columns map[string]string `json:"columns,omitempty"`
}

// Filter selects events for one table, optionally narrowed by a column value.
type Filter struct {
	Table  string
	Column string
	Value  string
}

// TableFilter matches every event on table.
func TableFilter(table string) Filter {
	return Filter{Table: table}
}

// RowFilter matches events on table whose column equals value.
func RowFilter(table, column string, value uint64) Filter {
	return Filter{Table: table, Column: column, Value: strconv.FormatUint(value, 10)}
}

// Matches reports whether e should be delivered to a subscriber of f.
// An event without the filtered column matches: a spurious reload is harmless,
// a missed one is not.
func (f Filter) Matches(e Event) bool {
	if f.Table != e.Table {
		return false
	}
	if f.Column == "" {
		return true
	}
	value, ok := e.Columns[f.Column]
	if !ok {
		return true
	}
	return value == f.Value
}

// Handler receives matching events. It runs on the subscription's own goroutine.
type Handler func(ctx context.Context, e Event)

// Subscription is returned by Subscribe; Unsubscribe is idempotent.
type Subscription interface {
	Unsubscribe()
}

// Feed is the change-notification channel of the store.
type Feed interface {
	Publish(ctx context.Context, e Event) error
	Subscribe(f Filter, h Handler) (Subscription, error)
}

// Publisher is the write half of a Feed.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}
