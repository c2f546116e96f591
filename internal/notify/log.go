package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// LogNotifier writes notification events to the service log. Used when
// no webhook endpoint is configured.
type LogNotifier struct {
	Logger zerolog.Logger
}

func (n LogNotifier) Notify(ctx context.Context, e Event) error {
	n.Logger.Info().
		Str("event_id", e.ID.String()).
		Int64("user_id", e.UserID).
		Str("title", e.Title).
		Str("message", e.Message).
		Msg("notification")
	return nil
}
