package models

// All lists every table model in migration order.
func All() []interface{} {
	return []interface{}{
		&Team{},
		&Profile{},
		&Task{},
		&TaskOwner{},
		&TaskMessage{},
		&Notification{},
		&CalendarEvent{},
		&EventParticipant{},
		&Room{},
	}
}

// Table names as they appear on the change feed.
const (
	TableTasks             = "tasks"
	TableTaskOwners        = "task_owners"
	TableTaskMessages      = "task_messages"
	TableProfiles          = "profiles"
	TableTeams             = "teams"
	TableRooms             = "rooms"
	TableNotifications     = "notifications"
	TableCalendarEvents    = "calendar_events"
	TableEventParticipants = "event_participants"
)
