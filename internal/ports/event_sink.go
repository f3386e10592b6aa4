package ports

import "github.com/aalvaropc/preprints/internal/domain"

// EventSink records analytics events.
type EventSink interface {
	Track(ev domain.Event) error
}

// Notifier shows transient messages to the user.
type Notifier interface {
	Info(msg string)
	Error(msg string)
}
