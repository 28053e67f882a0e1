package realtime

import "errors"

var ErrFeedClosed = errors.New("realtime: feed is closed")
