package messaging

import (
	"context"
	"log/slog"

	"hotel-reservation/internal/usecase/shared"
)

// LogNotifier stands in for the broker in local runs and tests.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, msg shared.Notification) error {
	n.logger.InfoContext(ctx, "notification",
		"kind", msg.Kind,
		"reservation_id", msg.ReservationID.String(),
		"confirmation_code", msg.ConfirmationCode,
		"guest_email", msg.GuestEmail,
	)
	return nil
}
