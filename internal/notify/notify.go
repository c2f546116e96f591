package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is an outbound user notification. Delivery mechanics (email,
// SMS, push) live behind the Notifier; the core only emits events.
type Event struct {
	ID        uuid.UUID `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type Notifier interface {
	Notify(ctx context.Context, e Event) error
}

// NewEvent stamps an event with an id and timestamp.
func NewEvent(userID int64, title, message string) Event {
	return Event{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
}
